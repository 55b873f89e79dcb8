package cache

import (
	"github.com/cespare/xxhash/v2"
)

const numShards = 16

// ShardedLRUMemo spreads entries across independent LRU shards to reduce lock
// contention when locations are searched in parallel. Capacity is divided
// evenly; eviction is per shard, so the memo as a whole is approximately LRU.
type ShardedLRUMemo struct {
	shards [numShards]*LRUMemo
}

// NewShardedLRUMemo creates a sharded memo with the given total capacity.
func NewShardedLRUMemo(capacity int) *ShardedLRUMemo {
	shardCapacity := capacity / numShards
	if shardCapacity < 1 {
		shardCapacity = 1
	}

	s := &ShardedLRUMemo{}
	for i := range numShards {
		s.shards[i] = NewLRUMemo(shardCapacity)
	}
	return s
}

func (s *ShardedLRUMemo) shard(key string) *LRUMemo {
	return s.shards[xxhash.Sum64String(key)%numShards]
}

func (s *ShardedLRUMemo) Get(key string) (bool, bool) {
	return s.shard(key).Get(key)
}

func (s *ShardedLRUMemo) Add(key string, fits bool) {
	s.shard(key).Add(key, fits)
}

func (s *ShardedLRUMemo) Len() int {
	n := 0
	for _, sh := range s.shards {
		n += sh.Len()
	}
	return n
}

// Stats sums hit and miss counts over all shards.
func (s *ShardedLRUMemo) Stats() (hits, misses int64) {
	for _, sh := range s.shards {
		h, m := sh.Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// NopMemo disables memoization.
type NopMemo struct{}

func (NopMemo) Get(string) (bool, bool) { return false, false }
func (NopMemo) Add(string, bool)        {}
func (NopMemo) Len() int                { return 0 }
