package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultLaneGranularity is the width of a single parking lane.
const DefaultLaneGranularity = 10

var ErrInvalidListing = errors.New("invalid listing")

// Orientation selects which side of a listing vehicles park along.
type Orientation int

const (
	// AlongLength: width/granularity lanes, each as long as the listing.
	AlongLength Orientation = iota
	// AlongWidth: length/granularity lanes, each as long as the listing is wide.
	AlongWidth
)

func (o Orientation) String() string {
	switch o {
	case AlongLength:
		return "along_length"
	case AlongWidth:
		return "along_width"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// Orientations lists every orientation in expansion order.
var Orientations = [...]Orientation{AlongLength, AlongWidth}

// Represents a rentable rectangular storage listing at a location.
// Listings are immutable once loaded into a Catalog.
type Listing struct {
	ID           string
	LocationID   string
	Length       int
	Width        int
	PriceInCents int
}

// Validate reports listings the catalog must not accept.
func (l Listing) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("%w: id must not be empty", ErrInvalidListing)
	}
	if strings.TrimSpace(l.LocationID) == "" {
		return fmt.Errorf("%w: listing %q: location_id must not be empty", ErrInvalidListing, l.ID)
	}
	if l.Length <= 0 || l.Width <= 0 {
		return fmt.Errorf("%w: listing %q: dimensions must be positive (length=%d width=%d)", ErrInvalidListing, l.ID, l.Length, l.Width)
	}
	if l.PriceInCents < 0 {
		return fmt.Errorf("%w: listing %q: price must not be negative (price=%d)", ErrInvalidListing, l.ID, l.PriceInCents)
	}
	return nil
}

// Lanes returns the lane capacities produced by parking in orientation o.
// A nil result means the orientation yields no lanes and should not be explored.
func (l Listing) Lanes(o Orientation, granularity int) []int {
	if granularity <= 0 {
		granularity = DefaultLaneGranularity
	}

	var count, capacity int
	switch o {
	case AlongLength:
		count, capacity = l.Width/granularity, l.Length
	case AlongWidth:
		count, capacity = l.Length/granularity, l.Width
	default:
		return nil
	}

	if count <= 0 || capacity <= 0 {
		return nil
	}

	lanes := make([]int, count)
	for i := range lanes {
		lanes[i] = capacity
	}
	return lanes
}
