package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"multi-vehicle-search-service/internal/adapters/cache"
	"multi-vehicle-search-service/internal/adapters/repositories"
	"multi-vehicle-search-service/internal/api"
	"multi-vehicle-search-service/internal/config"
	"multi-vehicle-search-service/internal/domain"
	"multi-vehicle-search-service/internal/platform/db"
	"multi-vehicle-search-service/internal/platform/obs"
	"multi-vehicle-search-service/internal/ports"
	"multi-vehicle-search-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// main is the application composition root.
// It loads the listing catalog once, wires the search service and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	loaded, err := config.LoadDotEnv()
	if err != nil {
		return err
	}

	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}

	obs.InitLogger(cfg.Env, cfg.LogLevel)
	if !loaded {
		log.Debug().Msg("no .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info().
		Str("source", cfg.CatalogSource).
		Int("locations", catalog.Len()).
		Int("listings", catalog.ListingCount()).
		Msg("catalog loaded")

	var memo ports.FeasibilityCache = cache.NopMemo{}
	if cfg.FeasibilityCacheSize > 0 {
		memo = cache.NewShardedLRUMemo(cfg.FeasibilityCacheSize)
	}

	svc := services.NewSearchService(
		catalog,
		services.NewFeasibilityChecker(memo),
		services.SearchOptions{
			Granularity:         cfg.LaneGranularity,
			MaxExpansions:       cfg.MaxExpansions,
			MaxFeasibilitySteps: cfg.MaxFeasibilitySteps,
		},
		cfg.Workers,
	)

	router := api.NewRouter(api.RouterConfig{
		Searcher:        svc,
		LaneGranularity: cfg.LaneGranularity,
		MaxVehicles:     cfg.MaxVehicles,
		SearchTimeout:   cfg.SearchTimeout,
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
	})

	// WriteTimeout leaves headroom over the per-request search deadline.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.SearchTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadCatalog reads every listing from the configured source and builds the
// immutable in-memory catalog. Database handles are closed once loaded.
func loadCatalog(ctx context.Context, cfg config.Server) (*domain.Catalog, error) {
	var (
		repo ports.ListingRepository
		conn *sql.DB
		err  error
	)

	switch cfg.CatalogSource {
	case config.SourceJSON:
		if _, err := os.Stat(cfg.ListingsPath); err != nil {
			return nil, fmt.Errorf("listings file %q: %w", cfg.ListingsPath, err)
		}
		repo = repositories.NewJSONListingRepository(cfg.ListingsPath)
	case config.SourceSQLite:
		conn, err = db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		repo = repositories.NewSQLListingRepository(conn)
	case config.SourcePostgres:
		conn, err = db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		repo = repositories.NewSQLListingRepository(conn)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}
	if conn != nil {
		defer conn.Close()
	}

	listings, err := repo.ListListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	catalog, err := domain.NewCatalog(listings)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog, nil
}
