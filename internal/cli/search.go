package cli

import (
	"context"
	"fmt"
	"multi-vehicle-search-service/internal/adapters/cache"
	"multi-vehicle-search-service/internal/adapters/repositories"
	"multi-vehicle-search-service/internal/domain"
	"multi-vehicle-search-service/internal/services"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type searchFlags struct {
	catalog       string
	vehicles      []string
	granularity   int
	maxExpansions int
	maxSteps      int
	maxVehicles   int
	workers       int
	timeout       time.Duration
	jsonOutput    bool
}

// searchOutput is the --json shape; results mirror the HTTP response body.
type searchOutput struct {
	Results      []searchResult `json:"results"`
	Infeasible   []string       `json:"infeasible"`
	Inconclusive []string       `json:"inconclusive"`
}

type searchResult struct {
	LocationID        string   `json:"location_id"`
	ListingIDs        []string `json:"listing_ids"`
	TotalPriceInCents int      `json:"total_price_in_cents"`
}

func newSearchCmd() *cobra.Command {
	flags := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find the cheapest listings per location for a set of vehicles",
		Example: `  lotctl search --catalog data/listings.json --vehicle 40x2 --vehicle 20
  lotctl search --vehicle 10x5 --json`,
		Args:    cobra.NoArgs,
		GroupID: "search",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.catalog, "catalog", "data/listings.json", "Listings JSON file")
	cmd.Flags().StringArrayVarP(&flags.vehicles, "vehicle", "v", nil, "Vehicle as LENGTH or LENGTHxQUANTITY (repeatable)")
	cmd.Flags().IntVar(&flags.granularity, "granularity", domain.DefaultLaneGranularity, "Lane width in feet")
	cmd.Flags().IntVar(&flags.maxExpansions, "max-expansions", 200000, "Per-location search budget (0 = unbounded)")
	cmd.Flags().IntVar(&flags.maxSteps, "max-feasibility-steps", 1_000_000, "Recursion steps per feasibility check (0 = unbounded)")
	cmd.Flags().IntVar(&flags.maxVehicles, "max-vehicles", domain.DefaultMaxVehicles, "Upper bound on total vehicles")
	cmd.Flags().IntVar(&flags.workers, "workers", 4, "Locations searched in parallel")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 30*time.Second, "Overall search deadline (0 = none)")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Output in JSON format")
	_ = cmd.MarkFlagRequired("vehicle")

	return cmd
}

func runSearch(cmd *cobra.Command, flags *searchFlags) error {
	specs := make([]domain.VehicleSpec, 0, len(flags.vehicles))
	for _, raw := range flags.vehicles {
		spec, err := parseVehicleFlag(raw, flags.granularity)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
	}

	if _, err := domain.CountVehicles(specs, flags.maxVehicles); err != nil {
		return err
	}

	listings, err := repositories.ReadListingsFile(flags.catalog)
	if err != nil {
		return err
	}
	catalog, err := domain.NewCatalog(listings)
	if err != nil {
		return err
	}

	svc := services.NewSearchService(
		catalog,
		services.NewFeasibilityChecker(cache.NewLRUMemo(100000)),
		services.SearchOptions{
			Granularity:         flags.granularity,
			MaxExpansions:       flags.maxExpansions,
			MaxFeasibilitySteps: flags.maxSteps,
		},
		flags.workers,
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if flags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.timeout)
		defer cancel()
	}

	out, err := svc.FindResults(ctx, domain.ExpandVehicles(specs))
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if flags.jsonOutput {
		return outputJSON(cmd.OutOrStdout(), toSearchOutput(out))
	}
	printSearchResults(cmd, catalog, out)
	return nil
}

// parseVehicleFlag accepts "40" (one vehicle) or "40x2" (two vehicles of length 40).
func parseVehicleFlag(raw string, granularity int) (domain.VehicleSpec, error) {
	lengthPart, qtyPart, hasQty := strings.Cut(strings.ToLower(strings.TrimSpace(raw)), "x")

	length, err := strconv.Atoi(lengthPart)
	if err != nil {
		return domain.VehicleSpec{}, fmt.Errorf("vehicle %q: length must be an integer", raw)
	}

	qty := 1
	if hasQty {
		qty, err = strconv.Atoi(qtyPart)
		if err != nil {
			return domain.VehicleSpec{}, fmt.Errorf("vehicle %q: quantity must be an integer", raw)
		}
	}

	spec := domain.VehicleSpec{Length: length, Quantity: qty}
	if err := spec.Validate(granularity); err != nil {
		return domain.VehicleSpec{}, fmt.Errorf("vehicle %q: %w", raw, err)
	}
	return spec, nil
}

func toSearchOutput(res domain.SearchResults) searchOutput {
	out := searchOutput{
		Results:      make([]searchResult, 0, len(res.Results)),
		Infeasible:   nonNil(res.Infeasible),
		Inconclusive: nonNil(res.Inconclusive),
	}
	for _, r := range res.Results {
		out.Results = append(out.Results, searchResult{
			LocationID:        r.LocationID,
			ListingIDs:        nonNil(r.ListingIDs),
			TotalPriceInCents: r.TotalPriceInCents,
		})
	}
	return out
}

func printSearchResults(cmd *cobra.Command, catalog *domain.Catalog, res domain.SearchResults) {
	w := cmd.OutOrStdout()

	if len(res.Results) == 0 {
		printWarning(w, "no location can hold every vehicle")
	}
	for i, r := range res.Results {
		_, _ = labelColor.Fprintf(w, "%d. %s", i+1, r.LocationID)
		fmt.Fprintf(w, "  %s\n", formatCents(r.TotalPriceInCents))
		printLabelValue(w, "listings", strings.Join(r.ListingIDs, ", "))
	}

	fmt.Fprintln(w)
	_, _ = dimColor.Fprintf(w, "%d of %d locations feasible", len(res.Results), catalog.Len())
	if len(res.Inconclusive) > 0 {
		_, _ = dimColor.Fprintf(w, ", %d inconclusive", len(res.Inconclusive))
	}
	fmt.Fprintln(w)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
