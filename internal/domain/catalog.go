package domain

import (
	"cmp"
	"fmt"
	"slices"
)

// Catalog is the read-only set of listings grouped by location.
//
// Locations keep the order in which they first appear in the source data and
// each location's listings are sorted by ascending price (stable), which lets
// the subset search reach cheap combinations early. A Catalog is built once at
// startup and is safe for concurrent use because nothing mutates it afterwards.
type Catalog struct {
	locations []string
	listings  map[string][]Listing
}

// NewCatalog validates and groups listings into an immutable Catalog.
func NewCatalog(listings []Listing) (*Catalog, error) {
	c := &Catalog{
		locations: make([]string, 0),
		listings:  make(map[string][]Listing),
	}

	seenIDs := make(map[string]struct{}, len(listings))
	for i, l := range listings {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("new catalog: listing at index %d: %w", i, err)
		}
		if _, ok := seenIDs[l.ID]; ok {
			return nil, fmt.Errorf("new catalog: %w: duplicate listing id %q", ErrInvalidListing, l.ID)
		}
		seenIDs[l.ID] = struct{}{}

		if _, ok := c.listings[l.LocationID]; !ok {
			c.locations = append(c.locations, l.LocationID)
		}
		c.listings[l.LocationID] = append(c.listings[l.LocationID], l)
	}

	for _, loc := range c.locations {
		slices.SortStableFunc(c.listings[loc], func(a, b Listing) int {
			return cmp.Compare(a.PriceInCents, b.PriceInCents)
		})
	}

	return c, nil
}

// Locations returns location ids in catalog order.
func (c *Catalog) Locations() []string {
	return slices.Clone(c.locations)
}

// Listings returns a location's listings sorted by ascending price.
// The returned slice must be treated as read-only.
func (c *Catalog) Listings(locationID string) []Listing {
	return c.listings[locationID]
}

func (c *Catalog) Len() int { return len(c.locations) }

// ListingCount returns the total number of listings across all locations.
func (c *Catalog) ListingCount() int {
	n := 0
	for _, l := range c.listings {
		n += len(l)
	}
	return n
}
