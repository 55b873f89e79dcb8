package api

import (
	"multi-vehicle-search-service/internal/api/handlers"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// RouterConfig carries the handler dependencies and request limits.
type RouterConfig struct {
	Searcher        handlers.Searcher
	LaneGranularity int
	MaxVehicles     int
	SearchTimeout   time.Duration
	// Requests per second admitted to the search endpoint; 0 disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	searchHandler := &handlers.SearchHandler{
		Searcher:    cfg.Searcher,
		Granularity: cfg.LaneGranularity,
		MaxVehicles: cfg.MaxVehicles,
		Timeout:     cfg.SearchTimeout,
	}

	r.Get("/health", handlers.Health)

	search := r.With()
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		search = r.With(rateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)))
	}
	search.Post("/", searchHandler.Search)

	return r
}
