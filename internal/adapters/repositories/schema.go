package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"multi-vehicle-search-service/internal/domain"
)

// Dialect selects SQL flavour differences between supported databases.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect accepts "sqlite" or "postgres".
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case DialectSQLite, DialectPostgres:
		return Dialect(s), nil
	default:
		return "", fmt.Errorf("unsupported dialect %q (want sqlite or postgres)", s)
	}
}

// Initialize the listings schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createListingsQuery := `
	CREATE TABLE IF NOT EXISTS listings (
		listing_id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL,
		length INTEGER NOT NULL CHECK (length > 0),
		width INTEGER NOT NULL CHECK (width > 0),
		price_in_cents INTEGER NOT NULL CHECK (price_in_cents >= 0)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_listings_location_price
    ON listings(location_id, price_in_cents);
	`

	statements := []string{
		createListingsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the listings table from a JSON file. Existing rows with the same
// listing_id are replaced.
func SeedFromJSON(ctx context.Context, db *sql.DB, dialect Dialect, jsonPath string) (int, error) {
	listings, err := ReadListingsFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed listings: %w", err)
	}

	if err := UpsertListings(ctx, db, dialect, listings); err != nil {
		return 0, fmt.Errorf("seed listings: %w", err)
	}
	return len(listings), nil
}

// UpsertListings writes listings in one transaction.
func UpsertListings(ctx context.Context, db *sql.DB, dialect Dialect, listings []domain.Listing) error {
	if db == nil {
		return errors.New("upsert listings: DB is nil")
	}

	var query string
	switch dialect {
	case DialectSQLite:
		query = `
		INSERT OR REPLACE INTO listings (
			listing_id,
			location_id,
			length,
			width,
			price_in_cents
		)
		VALUES (?, ?, ?, ?, ?);
		`
	case DialectPostgres:
		query = `
		INSERT INTO listings (listing_id, location_id, length, width, price_in_cents)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (listing_id) DO UPDATE
		SET location_id = EXCLUDED.location_id,
			length = EXCLUDED.length,
			width = EXCLUDED.width,
			price_in_cents = EXCLUDED.price_in_cents;
		`
	default:
		return fmt.Errorf("upsert listings: unsupported dialect %q", dialect)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert listings: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("upsert listings: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("upsert listings: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, l.ID, l.LocationID, l.Length, l.Width, l.PriceInCents); err != nil {
			return fmt.Errorf("upsert listings: insert listing_id=%q: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert listings: commit tx: %w", err)
	}

	return nil
}
