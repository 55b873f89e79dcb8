package services

import (
	"cmp"
	"context"
	"fmt"
	"multi-vehicle-search-service/internal/domain"
	"multi-vehicle-search-service/internal/platform/obs"
	"slices"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// SearchService runs the per-location search across an immutable catalog.
// It is safe for concurrent use by multiple requests.
type SearchService struct {
	catalog *domain.Catalog
	checker *FeasibilityChecker
	opts    SearchOptions
	workers int
}

// NewSearchService wires a catalog and checker. workers bounds how many
// locations are searched in parallel; values below 1 search sequentially.
func NewSearchService(
	catalog *domain.Catalog,
	checker *FeasibilityChecker,
	opts SearchOptions,
	workers int,
) *SearchService {
	if workers < 1 {
		workers = 1
	}
	return &SearchService{
		catalog: catalog,
		checker: checker,
		opts:    opts,
		workers: workers,
	}
}

func (s *SearchService) Catalog() *domain.Catalog { return s.catalog }

// FindResults returns the cheapest feasible combination for every location
// able to hold all vehicles, ordered by ascending total price. Locations with
// equal totals keep catalog order. Infeasible and inconclusive locations are
// reported separately and omitted from Results.
//
// An empty vehicle list yields every location at cost zero.
func (s *SearchService) FindResults(ctx context.Context, vehicles []int) (_ domain.SearchResults, err error) {
	defer obs.Time(ctx, "search.FindResults")(&err)

	locations := s.catalog.Locations()
	searches := make([]LocationSearch, len(locations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, loc := range locations {
		g.Go(func() error {
			res, err := CheapestForLocation(gctx, s.checker, vehicles, s.catalog.Listings(loc), s.opts)
			if err != nil {
				return fmt.Errorf("location %q: %w", loc, err)
			}
			searches[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.SearchResults{}, fmt.Errorf("find results: %w", err)
	}

	out := domain.SearchResults{
		Results:      make([]domain.LocationResult, 0, len(locations)),
		Infeasible:   []string{},
		Inconclusive: []string{},
	}
	expansions := 0
	for i, loc := range locations {
		res := searches[i]
		expansions += res.Expansions

		switch res.Outcome {
		case domain.Feasible:
			out.Results = append(out.Results, domain.LocationResult{
				LocationID:        loc,
				ListingIDs:        res.ListingIDs,
				TotalPriceInCents: res.TotalPriceInCents,
			})
		case domain.Infeasible:
			out.Infeasible = append(out.Infeasible, loc)
		case domain.Inconclusive:
			out.Inconclusive = append(out.Inconclusive, loc)
		}
	}

	slices.SortStableFunc(out.Results, func(a, b domain.LocationResult) int {
		return cmp.Compare(a.TotalPriceInCents, b.TotalPriceInCents)
	})

	log.Info().
		Str("req_id", obs.RequestID(ctx)).
		Int("vehicles", len(vehicles)).
		Int("locations", len(locations)).
		Int("feasible", len(out.Results)).
		Int("infeasible", len(out.Infeasible)).
		Int("inconclusive", len(out.Inconclusive)).
		Int("expansions", expansions).
		Int("cache_size", s.checker.CacheLen()).
		Msg("search complete")

	return out, nil
}
