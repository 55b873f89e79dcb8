package dto

// VehicleRequest is one element of the search request body.
// Pointers distinguish a missing field from an explicit zero.
type VehicleRequest struct {
	Length   *int `json:"length"`
	Quantity *int `json:"quantity"`
}

type SearchResultResponse struct {
	LocationID        string   `json:"location_id"`
	ListingIDs        []string `json:"listing_ids"`
	TotalPriceInCents int      `json:"total_price_in_cents"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
