package ports

import (
	"context"
	"multi-vehicle-search-service/internal/domain"
)

// Port: a boundary for loading the listing catalog from a data source.
type ListingRepository interface {
	// Retrieve every listing available for search.
	ListListings(ctx context.Context) ([]domain.Listing, error)
}
