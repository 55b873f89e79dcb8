package domain

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// DefaultMaxVehicles caps the expanded vehicle count when no limit is configured.
const DefaultMaxVehicles = 20

var (
	ErrInvalidVehicle  = errors.New("invalid vehicle")
	ErrTooManyVehicles = errors.New("too many vehicles")
)

// A requested vehicle length and how many vehicles of that length need parking.
type VehicleSpec struct {
	Length   int
	Quantity int
}

// Validate checks a spec against the lane granularity used for lane profiles.
func (v VehicleSpec) Validate(granularity int) error {
	if v.Length <= 0 {
		return fmt.Errorf("%w: length must be a positive integer (got %d)", ErrInvalidVehicle, v.Length)
	}
	if granularity > 0 && v.Length%granularity != 0 {
		return fmt.Errorf("%w: length must be a multiple of %d (got %d)", ErrInvalidVehicle, granularity, v.Length)
	}
	if v.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be a positive integer (got %d)", ErrInvalidVehicle, v.Quantity)
	}
	return nil
}

// CountVehicles sums quantities without expanding them. It fails with
// ErrTooManyVehicles once the running total passes limit (limit <= 0 means
// DefaultMaxVehicles).
func CountVehicles(specs []VehicleSpec, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultMaxVehicles
	}

	total := 0
	for _, s := range specs {
		if s.Quantity <= 0 {
			continue
		}
		// total <= limit, so limit-total cannot overflow.
		if s.Quantity > limit-total {
			return 0, fmt.Errorf("%w: at most %d vehicles per request", ErrTooManyVehicles, limit)
		}
		total += s.Quantity
	}
	return total, nil
}

// ExpandVehicles flattens specs into one length per vehicle, longest first.
// Callers bound the total with CountVehicles first.
func ExpandVehicles(specs []VehicleSpec) []int {
	out := make([]int, 0, len(specs))
	for _, s := range specs {
		for i := 0; i < s.Quantity; i++ {
			out = append(out, s.Length)
		}
	}

	slices.SortFunc(out, func(a, b int) int { return cmp.Compare(b, a) })
	return out
}
