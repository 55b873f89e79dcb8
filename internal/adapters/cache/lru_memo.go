package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// LRUMemo is a fixed-capacity, least-recently-used memo of feasibility answers.
// It is safe for concurrent use.
type LRUMemo struct {
	mu        sync.Mutex
	capacity  int
	items     map[string]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key  string
	fits bool
}

// NewLRUMemo creates a memo holding at most capacity entries.
// A capacity below 1 is treated as 1.
func NewLRUMemo(capacity int) *LRUMemo {
	if capacity < 1 {
		capacity = 1
	}
	return &LRUMemo{
		capacity:  capacity,
		items:     make(map[string]*list.Element, capacity),
		evictList: list.New(),
	}
}

// Get returns a memoized answer and marks it as recently used.
func (c *LRUMemo) Get(key string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry).fits, true
	}
	c.misses.Add(1)
	return false, false
}

// Add stores an answer unless the key is already present.
func (c *LRUMemo) Add(key string, fits bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		return
	}

	for len(c.items) >= c.capacity {
		oldest := c.evictList.Back()
		if oldest == nil {
			break
		}
		c.evictList.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).key)
	}

	c.items[key] = c.evictList.PushFront(&entry{key: key, fits: fits})
}

func (c *LRUMemo) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns the cumulative hit and miss counts.
func (c *LRUMemo) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
