package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"multi-vehicle-search-service/internal/api/dto"
	"multi-vehicle-search-service/internal/domain"
	"multi-vehicle-search-service/internal/platform/obs"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	maxBodyBytes = 1 << 20

	// InconclusiveHeader lists locations whose search ran out of budget.
	InconclusiveHeader = "X-Search-Inconclusive"

	emptyBodyMessage = "Body must be a non-empty array of { length, quantity }"
)

// Searcher finds the cheapest listing combination per location.
type Searcher interface {
	FindResults(ctx context.Context, vehicles []int) (domain.SearchResults, error)
}

type SearchHandler struct {
	Searcher    Searcher
	Granularity int
	// Upper bound on expanded vehicles per request; 0 means domain.DefaultMaxVehicles.
	MaxVehicles int
	// Deadline applied to each search; 0 means only the request context applies.
	Timeout time.Duration
}

// Search validates the vehicle list, runs the search and returns one entry
// per feasible location ordered by total price.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	body, err := decodeVehicles(w, r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if len(body) == 0 {
		WriteError(w, r, http.StatusBadRequest, emptyBodyMessage)
		return
	}

	specs, err := h.toSpecs(body)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	vehicles := domain.ExpandVehicles(specs)

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	out, err := h.Searcher.FindResults(ctx, vehicles)
	if err != nil {
		logger := log.Warn().Str("req_id", obs.RequestID(r.Context())).Err(err)
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			logger.Msg("search timed out")
			WriteError(w, r, http.StatusServiceUnavailable, "search timed out")
		case errors.Is(err, context.Canceled):
			logger.Msg("search canceled")
			WriteError(w, r, http.StatusServiceUnavailable, "search canceled")
		default:
			log.Error().Str("req_id", obs.RequestID(r.Context())).Err(err).Msg("search failed")
			WriteError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	if len(out.Inconclusive) > 0 {
		w.Header().Set(InconclusiveHeader, strings.Join(out.Inconclusive, ","))
	}

	res := make([]dto.SearchResultResponse, 0, len(out.Results))
	for _, lr := range out.Results {
		ids := lr.ListingIDs
		if ids == nil {
			ids = []string{}
		}
		res = append(res, dto.SearchResultResponse{
			LocationID:        lr.LocationID,
			ListingIDs:        ids,
			TotalPriceInCents: lr.TotalPriceInCents,
		})
	}

	WriteJSON(w, r, http.StatusOK, res)
}

func decodeVehicles(w http.ResponseWriter, r *http.Request) ([]dto.VehicleRequest, error) {
	var body []dto.VehicleRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New(emptyBodyMessage)
		}
		return nil, errors.New("invalid json body: expected an array of { length, quantity } with integer values")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("body must contain only one JSON array")
	}

	return body, nil
}

func (h *SearchHandler) toSpecs(body []dto.VehicleRequest) ([]domain.VehicleSpec, error) {
	specs := make([]domain.VehicleSpec, 0, len(body))
	for i, item := range body {
		if item.Length == nil || item.Quantity == nil {
			return nil, fmt.Errorf("item %d: length and quantity are required", i)
		}

		spec := domain.VehicleSpec{Length: *item.Length, Quantity: *item.Quantity}
		if err := spec.Validate(h.Granularity); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		specs = append(specs, spec)
	}

	// Bound the total before anything is allocated per vehicle.
	if _, err := domain.CountVehicles(specs, h.MaxVehicles); err != nil {
		return nil, err
	}
	return specs, nil
}
