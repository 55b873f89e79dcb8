package domain

// Outcome classifies how a single location's search ended.
type Outcome int

const (
	// A cheapest feasible combination was found.
	Feasible Outcome = iota
	// The search space was exhausted without a feasible combination.
	Infeasible
	// The expansion budget ran out before the search could conclude.
	Inconclusive
)

func (o Outcome) String() string {
	switch o {
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case Inconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// Represents the cheapest listing combination for one location.
// ListingIDs follow catalog order (ascending price within the location).
type LocationResult struct {
	LocationID        string
	ListingIDs        []string
	TotalPriceInCents int
}

// Aggregated output of a search across every catalog location.
// Results are ordered by ascending total price; ties keep catalog order.
type SearchResults struct {
	Results      []LocationResult
	Infeasible   []string
	Inconclusive []string
}
