package api

import (
	"encoding/json"
	"multi-vehicle-search-service/internal/adapters/cache"
	"multi-vehicle-search-service/internal/api/dto"
	"multi-vehicle-search-service/internal/domain"
	"multi-vehicle-search-service/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, cfg RouterConfig) http.Handler {
	t.Helper()

	catalog, err := domain.NewCatalog([]domain.Listing{
		{ID: "A", LocationID: "loc-1", Length: 40, Width: 20, PriceInCents: 1000},
		{ID: "B", LocationID: "loc-2", Length: 40, Width: 10, PriceInCents: 500},
		{ID: "C", LocationID: "loc-3", Length: 40, Width: 20, PriceInCents: 1500},
		{ID: "D", LocationID: "loc-3", Length: 40, Width: 20, PriceInCents: 1000},
	})
	require.NoError(t, err)

	checker := services.NewFeasibilityChecker(cache.NewShardedLRUMemo(1024))
	cfg.Searcher = services.NewSearchService(catalog, checker, services.SearchOptions{Granularity: 10}, 2)
	if cfg.LaneGranularity == 0 {
		cfg.LaneGranularity = 10
	}
	return NewRouter(cfg)
}

func TestRouterSearchEndToEnd(t *testing.T) {
	router := newTestRouter(t, RouterConfig{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[{"length": 40, "quantity": 1}, {"length": 20, "quantity": 1}]`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var res []dto.SearchResultResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	// loc-2 cannot hold a 40 and a 20; loc-1 and loc-3 tie at 1000 in catalog order.
	assert.Equal(t, []dto.SearchResultResponse{
		{LocationID: "loc-1", ListingIDs: []string{"A"}, TotalPriceInCents: 1000},
		{LocationID: "loc-3", ListingIDs: []string{"D"}, TotalPriceInCents: 1000},
	}, res)
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter(t, RouterConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok": true}`, rec.Body.String())
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, RouterConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error": "method not allowed"}`, rec.Body.String())
}

func TestRouterNotFound(t *testing.T) {
	router := newTestRouter(t, RouterConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterPropagatesRequestID(t *testing.T) {
	router := newTestRouter(t, RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "caller-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "caller-id", rec.Header().Get(requestIDHeader))
}

func TestRouterRateLimit(t *testing.T) {
	router := newTestRouter(t, RouterConfig{RateLimitRPS: 0.001, RateLimitBurst: 1})

	body := `[{"length": 40, "quantity": 1}]`

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Health stays outside the limiter.
	health := httptest.NewRecorder()
	router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestStatusWriterRecordsImplicitOK(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec}

	n, err := sw.Write([]byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusOK, sw.status)
	assert.Equal(t, 5, sw.bytes)
}
