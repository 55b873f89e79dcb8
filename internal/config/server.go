package config

import (
	"errors"
	"fmt"
	"multi-vehicle-search-service/internal/domain"
	"strings"
	"time"
)

// Catalog sources supported by the server.
const (
	SourceJSON     = "json"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// Server holds everything cmd/server needs, read from the environment.
type Server struct {
	Port     string
	Env      string
	LogLevel string

	CatalogSource string
	ListingsPath  string
	DBPath        string
	DatabaseURL   string

	LaneGranularity      int
	FeasibilityCacheSize int
	MaxExpansions        int
	MaxFeasibilitySteps  int
	Workers              int
	SearchTimeout        time.Duration
	MaxVehicles          int

	RateLimitRPS   float64
	RateLimitBurst int
}

// LoadServer reads and validates server configuration.
func LoadServer() (Server, error) {
	cfg := Server{
		Port:          Get("PORT", "8080"),
		Env:           Get("ENV", "production"),
		LogLevel:      Get("LOG_LEVEL", "info"),
		CatalogSource: strings.ToLower(Get("CATALOG_SOURCE", SourceJSON)),
		ListingsPath:  Get("LISTINGS_PATH", "data/listings.json"),
		DBPath:        Get("DB_PATH", "data/app.db"),
		DatabaseURL:   Get("DATABASE_URL", ""),
	}

	var errs []error
	intVar := func(dst *int, key string, fallback int) {
		v, err := GetInt(key, fallback)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*dst = v
	}

	intVar(&cfg.LaneGranularity, "LANE_GRANULARITY", 10)
	intVar(&cfg.FeasibilityCacheSize, "FEASIBILITY_CACHE_SIZE", 100_000)
	intVar(&cfg.MaxExpansions, "SEARCH_MAX_EXPANSIONS", 200_000)
	intVar(&cfg.MaxFeasibilitySteps, "SEARCH_MAX_FEASIBILITY_STEPS", 1_000_000)
	intVar(&cfg.Workers, "SEARCH_WORKERS", 4)
	intVar(&cfg.MaxVehicles, "MAX_VEHICLES", domain.DefaultMaxVehicles)
	intVar(&cfg.RateLimitBurst, "RATE_LIMIT_BURST", 20)

	timeout, err := GetDuration("SEARCH_TIMEOUT", 10*time.Second)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.SearchTimeout = timeout

	rps, err := GetFloat("RATE_LIMIT_RPS", 0)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.RateLimitRPS = rps

	if err := errors.Join(errs...); err != nil {
		return Server{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Server) Validate() error {
	switch c.CatalogSource {
	case SourceJSON, SourceSQLite:
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when CATALOG_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("config: unknown CATALOG_SOURCE %q (want json, sqlite or postgres)", c.CatalogSource)
	}

	if c.LaneGranularity <= 0 {
		return fmt.Errorf("config: LANE_GRANULARITY must be positive (got %d)", c.LaneGranularity)
	}
	if c.FeasibilityCacheSize < 0 || c.MaxExpansions < 0 || c.MaxFeasibilitySteps < 0 {
		return errors.New("config: FEASIBILITY_CACHE_SIZE, SEARCH_MAX_EXPANSIONS and SEARCH_MAX_FEASIBILITY_STEPS must not be negative")
	}
	if c.MaxVehicles < 1 {
		return fmt.Errorf("config: MAX_VEHICLES must be at least 1 (got %d)", c.MaxVehicles)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: SEARCH_WORKERS must be at least 1 (got %d)", c.Workers)
	}
	if c.SearchTimeout < 0 {
		return fmt.Errorf("config: SEARCH_TIMEOUT must not be negative (got %s)", c.SearchTimeout)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 1 {
		return errors.New("config: RATE_LIMIT_RPS must not be negative and RATE_LIMIT_BURST must be at least 1")
	}
	return nil
}
