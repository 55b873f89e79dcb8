package handlers

import (
	"multi-vehicle-search-service/internal/api/dto"
	"net/http"
)

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusOK, dto.HealthResponse{OK: true})
}
