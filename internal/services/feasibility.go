package services

import (
	"cmp"
	"context"
	"errors"
	"multi-vehicle-search-service/internal/ports"
	"slices"
	"strconv"
)

// ErrFeasibilityBudget is returned when one check visits more recursion
// nodes than its step budget allows.
var ErrFeasibilityBudget = errors.New("feasibility step budget exhausted")

// FeasibilityChecker decides whether a multiset of vehicle lengths can be
// parked in a multiset of lane capacities. A lane holds vehicles end to end
// up to its capacity.
//
// Subproblems are canonicalized (both multisets sorted descending, lanes too
// short for the smallest remaining vehicle dropped) before the memo is
// consulted, so equal multisets share one entry regardless of input order.
// Inputs are never mutated; every recursive step works on fresh slices.
type FeasibilityChecker struct {
	memo ports.FeasibilityCache
}

// NewFeasibilityChecker returns a checker backed by memo.
// A nil memo disables memoization.
func NewFeasibilityChecker(memo ports.FeasibilityCache) *FeasibilityChecker {
	return &FeasibilityChecker{memo: memo}
}

// CacheLen returns the number of memoized subproblems.
func (f *FeasibilityChecker) CacheLen() int {
	if f.memo == nil {
		return 0
	}
	return f.memo.Len()
}

// Fits reports whether every vehicle fits into lanes, without a step budget
// or cancellation.
func (f *FeasibilityChecker) Fits(vehicles, lanes []int) bool {
	fits, _ := f.FitsWithin(context.Background(), vehicles, lanes, 0)
	return fits
}

// FitsWithin is Fits bounded by ctx and by maxSteps recursion nodes
// (0 = unbounded). On ErrFeasibilityBudget or a ctx error the answer is
// unknown and nothing partial is memoized.
func (f *FeasibilityChecker) FitsWithin(ctx context.Context, vehicles, lanes []int, maxSteps int) (bool, error) {
	if len(vehicles) == 0 {
		return true, nil
	}
	if sum(vehicles) > sum(lanes) {
		return false, nil
	}

	w := &fitWalk{ctx: ctx, maxSteps: maxSteps}
	return f.fitsSorted(w, sortedDesc(vehicles), sortedDesc(lanes))
}

// fitWalk tracks the budget of one FitsWithin call.
type fitWalk struct {
	ctx      context.Context
	steps    int
	maxSteps int
}

func (w *fitWalk) step() error {
	w.steps++
	if w.maxSteps > 0 && w.steps > w.maxSteps {
		return ErrFeasibilityBudget
	}
	if w.steps%ctxCheckInterval == 1 {
		return w.ctx.Err()
	}
	return nil
}

// fitsSorted requires both slices sorted descending.
func (f *FeasibilityChecker) fitsSorted(w *fitWalk, vehicles, lanes []int) (bool, error) {
	if len(vehicles) == 0 {
		return true, nil
	}
	if err := w.step(); err != nil {
		return false, err
	}

	lanes = usableLanes(lanes, vehicles[len(vehicles)-1])
	if sum(vehicles) > sum(lanes) {
		return false, nil
	}

	key := memoKey(vehicles, lanes)
	if f.memo != nil {
		if fits, ok := f.memo.Get(key); ok {
			return fits, nil
		}
	}

	v := vehicles[0]
	rest := vehicles[1:]
	fits := false

	prev := -1
	for i, capacity := range lanes {
		// Lanes are sorted descending; nothing after this can hold v.
		if capacity < v {
			break
		}
		// Equal capacities produce identical subproblems.
		if capacity == prev {
			continue
		}
		prev = capacity

		ok, err := f.fitsSorted(w, rest, reduceLane(lanes, i, v))
		if err != nil {
			return false, err
		}
		if ok {
			fits = true
			break
		}
	}

	if f.memo != nil {
		f.memo.Add(key, fits)
	}
	return fits, nil
}

// reduceLane returns a copy of lanes with lanes[i] shortened by v,
// still sorted descending.
func reduceLane(lanes []int, i, v int) []int {
	next := slices.Clone(lanes)
	next[i] -= v
	for j := i; j+1 < len(next) && next[j] < next[j+1]; j++ {
		next[j], next[j+1] = next[j+1], next[j]
	}
	return next
}

// usableLanes trims lanes shorter than minVehicle from a descending slice.
func usableLanes(lanes []int, minVehicle int) []int {
	n := len(lanes)
	for n > 0 && lanes[n-1] < minVehicle {
		n--
	}
	return lanes[:n]
}

// memoKey encodes canonical (vehicles, lanes) as "v1,v2|l1,l2".
func memoKey(vehicles, lanes []int) string {
	b := make([]byte, 0, 4*(len(vehicles)+len(lanes))+1)
	for i, v := range vehicles {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}
	b = append(b, '|')
	for i, l := range lanes {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(l), 10)
	}
	return string(b)
}

func sortedDesc(xs []int) []int {
	out := slices.Clone(xs)
	slices.SortFunc(out, func(a, b int) int { return cmp.Compare(b, a) })
	return out
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
