package repositories

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"multi-vehicle-search-service/internal/domain"
	"os"
	"strings"
)

// flexString accepts a JSON string or number and keeps its text form.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(b))
	}
	*f = flexString(n.String())
	return nil
}

// ListingSeed is one entry of a listings.json file.
type ListingSeed struct {
	ID           flexString `json:"id"`
	LocationID   flexString `json:"location_id"`
	Length       int        `json:"length"`
	Width        int        `json:"width"`
	PriceInCents int        `json:"price_in_cents"`
}

func (s ListingSeed) toDomain() domain.Listing {
	return domain.Listing{
		ID:           strings.TrimSpace(string(s.ID)),
		LocationID:   strings.TrimSpace(string(s.LocationID)),
		Length:       s.Length,
		Width:        s.Width,
		PriceInCents: s.PriceInCents,
	}
}

// DecodeListings parses a JSON array of listings and validates each entry.
func DecodeListings(r io.Reader) ([]domain.Listing, error) {
	var seeds []ListingSeed
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return nil, fmt.Errorf("decode listings: parse json: %w", err)
	}

	out := make([]domain.Listing, 0, len(seeds))
	for i, s := range seeds {
		l := s.toDomain()
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("decode listings: item at index %d: %w", i, err)
		}
		out = append(out, l)
	}

	return out, nil
}

// ReadListingsFile loads and validates listings from a JSON file.
func ReadListingsFile(path string) ([]domain.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read listings: open %q: %w", path, err)
	}
	defer f.Close()

	listings, err := DecodeListings(f)
	if err != nil {
		return nil, fmt.Errorf("read listings %q: %w", path, err)
	}
	return listings, nil
}
