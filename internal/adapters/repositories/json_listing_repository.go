package repositories

import (
	"context"
	"errors"
	"multi-vehicle-search-service/internal/domain"
	"multi-vehicle-search-service/internal/platform/obs"
)

// JSON-file-backed implementation of the ListingRepository port.
// Listings are returned in file order.
type JSONListingRepository struct {
	Path string
}

func NewJSONListingRepository(path string) *JSONListingRepository {
	return &JSONListingRepository{Path: path}
}

func (j *JSONListingRepository) ListListings(ctx context.Context) (_ []domain.Listing, err error) {
	defer obs.Time(ctx, "listings.json.List")(&err)

	if j.Path == "" {
		return nil, errors.New("json listing repository: path is empty")
	}
	return ReadListingsFile(j.Path)
}

// In-memory implementation of the ListingRepository port, used by tests and
// the CLI when listings are already loaded.
type MemoryListingRepository struct {
	Listings []domain.Listing
}

func (m *MemoryListingRepository) ListListings(ctx context.Context) ([]domain.Listing, error) {
	out := make([]domain.Listing, len(m.Listings))
	copy(out, m.Listings)
	return out, nil
}
