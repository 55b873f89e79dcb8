package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"multi-vehicle-search-service/internal/domain"
	"multi-vehicle-search-service/internal/platform/obs"
)

// SQL-backed implementation of the ListingRepository port. The query is
// portable across SQLite and Postgres, so one type serves both drivers.
//
// Rows are ordered by location then price, which makes catalog location order
// alphabetical for database sources.
type SQLListingRepository struct {
	DB *sql.DB
}

func NewSQLListingRepository(db *sql.DB) *SQLListingRepository {
	return &SQLListingRepository{DB: db}
}

// Return all listings stored in the database.
func (s *SQLListingRepository) ListListings(ctx context.Context) (_ []domain.Listing, err error) {
	defer obs.Time(ctx, "listings.sql.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql listing repository: DB is nil")
	}

	query := `
	SELECT
		listing_id,
		location_id,
		length,
		width,
		price_in_cents
	FROM listings
	ORDER BY location_id, price_in_cents, listing_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list listings: query listings table: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0, 64)
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(&l.ID, &l.LocationID, &l.Length, &l.Width, &l.PriceInCents); err != nil {
			return nil, fmt.Errorf("list listings: scan row: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list listings: row iteration: %w", err)
	}

	return listings, nil
}
