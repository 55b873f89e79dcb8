package services

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"math"
	"multi-vehicle-search-service/internal/domain"
	"slices"
	"strconv"
)

// ctxCheckInterval is how many popped states, or feasibility steps, pass
// between context checks.
const ctxCheckInterval = 1024

// SearchOptions bounds and shapes a single location's search.
type SearchOptions struct {
	// Lane width used to derive lane profiles. Zero means domain.DefaultLaneGranularity.
	Granularity int
	// Maximum states popped per location before giving up as inconclusive.
	// Zero means unbounded.
	MaxExpansions int
	// Maximum recursion nodes per feasibility check. Zero means unbounded.
	MaxFeasibilitySteps int
}

// LocationSearch is the outcome of searching one location.
type LocationSearch struct {
	Outcome           domain.Outcome
	ListingIDs        []string
	TotalPriceInCents int
	Expansions        int
}

// searchState is one candidate subset: listings chosen in increasing catalog
// index order plus the lanes they contribute, sorted descending.
type searchState struct {
	cost   int
	last   int
	chosen []int
	lanes  []int
}

// stateQueue orders states by cost, then by chosen index sequence, then by
// lane multiset, so pops are deterministic for equal-cost states.
type stateQueue []*searchState

var _ heap.Interface = (*stateQueue)(nil)

func (q stateQueue) Len() int { return len(q) }

func (q stateQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if c := slices.Compare(a.chosen, b.chosen); c != 0 {
		return c < 0
	}
	return slices.Compare(a.lanes, b.lanes) < 0
}

func (q stateQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *stateQueue) Push(x any) { *q = append(*q, x.(*searchState)) }

func (q *stateQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// CheapestForLocation finds the cheapest subset of listings, each in one
// orientation, whose combined lanes hold every vehicle.
//
// Subsets are explored by uniform-cost search. Prices are non-negative, so the
// first popped state whose lanes pass the feasibility check is optimal.
// Listings are only ever added in increasing index order, which keeps each
// subset from being enumerated once per permutation.
//
// The returned error is non-nil only when ctx is done; running out of the
// expansion or feasibility step budget is reported as domain.Inconclusive.
func CheapestForLocation(
	ctx context.Context,
	checker *FeasibilityChecker,
	vehicles []int,
	listings []domain.Listing,
	opts SearchOptions,
) (LocationSearch, error) {
	if len(vehicles) == 0 {
		return LocationSearch{Outcome: domain.Feasible, ListingIDs: []string{}}, nil
	}

	vehicles = sortedDesc(vehicles)

	profiles := make([][][]int, len(listings))
	for i, l := range listings {
		for _, o := range domain.Orientations {
			if lanes := l.Lanes(o, opts.Granularity); len(lanes) > 0 {
				profiles[i] = append(profiles[i], lanes)
			}
		}
	}

	pq := &stateQueue{{last: -1}}
	seen := make(map[string]struct{})
	expansions := 0

	for pq.Len() > 0 {
		if expansions%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return LocationSearch{}, fmt.Errorf("cheapest for location: %w", err)
			}
		}
		if opts.MaxExpansions > 0 && expansions >= opts.MaxExpansions {
			return LocationSearch{Outcome: domain.Inconclusive, Expansions: expansions}, nil
		}

		s := heap.Pop(pq).(*searchState)
		expansions++

		fits := false
		if len(s.lanes) > 0 {
			ok, err := checker.FitsWithin(ctx, vehicles, s.lanes, opts.MaxFeasibilitySteps)
			switch {
			case errors.Is(err, ErrFeasibilityBudget):
				return LocationSearch{Outcome: domain.Inconclusive, Expansions: expansions}, nil
			case err != nil:
				return LocationSearch{}, fmt.Errorf("cheapest for location: %w", err)
			}
			fits = ok
		}
		if fits {
			ids := make([]string, 0, len(s.chosen))
			for _, idx := range s.chosen {
				ids = append(ids, listings[idx].ID)
			}
			return LocationSearch{
				Outcome:           domain.Feasible,
				ListingIDs:        ids,
				TotalPriceInCents: s.cost,
				Expansions:        expansions,
			}, nil
		}

		// A cheaper or equal-cost path already expanded this configuration.
		key := visitedKey(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		for i := s.last + 1; i < len(listings); i++ {
			// Skip subsets whose total does not fit in an int.
			if listings[i].PriceInCents > math.MaxInt-s.cost {
				continue
			}
			for _, lanes := range profiles[i] {
				chosen := make([]int, len(s.chosen), len(s.chosen)+1)
				copy(chosen, s.chosen)

				heap.Push(pq, &searchState{
					cost:   s.cost + listings[i].PriceInCents,
					last:   i,
					chosen: append(chosen, i),
					lanes:  mergeDesc(s.lanes, lanes),
				})
			}
		}
	}

	return LocationSearch{Outcome: domain.Infeasible, Expansions: expansions}, nil
}

// visitedKey identifies a state by (last index, chosen count, lanes).
func visitedKey(s *searchState) string {
	b := make([]byte, 0, 8+4*len(s.lanes))
	b = strconv.AppendInt(b, int64(s.last), 10)
	b = append(b, ':')
	b = strconv.AppendInt(b, int64(len(s.chosen)), 10)
	b = append(b, ':')
	for i, l := range s.lanes {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(l), 10)
	}
	return string(b)
}

// mergeDesc merges two descending slices into a new descending slice.
func mergeDesc(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] >= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
