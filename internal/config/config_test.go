package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Setenv("MVS_TEST_KEY", "  value ")
	assert.Equal(t, "value", Get("MVS_TEST_KEY", "fallback"))

	t.Setenv("MVS_TEST_KEY", "   ")
	assert.Equal(t, "fallback", Get("MVS_TEST_KEY", "fallback"))
}

func TestTypedGetters(t *testing.T) {
	t.Setenv("MVS_INT", "42")
	t.Setenv("MVS_BAD_INT", "forty-two")
	t.Setenv("MVS_BOOL", "true")
	t.Setenv("MVS_DUR", "250ms")
	t.Setenv("MVS_FLOAT", "2.5")

	i, err := GetInt("MVS_INT", 1)
	require.NoError(t, err)
	assert.Equal(t, 42, i)

	_, err = GetInt("MVS_BAD_INT", 1)
	assert.Error(t, err)

	i, err = GetInt("MVS_UNSET_INT", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, i)

	b, err := GetBool("MVS_BOOL", false)
	require.NoError(t, err)
	assert.True(t, b)

	d, err := GetDuration("MVS_DUR", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	f, err := GetFloat("MVS_FLOAT", 0)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, f, 1e-9)
}

func TestLoadServerDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "CATALOG_SOURCE", "LANE_GRANULARITY", "SEARCH_WORKERS", "SEARCH_TIMEOUT", "DATABASE_URL", "MAX_VEHICLES", "SEARCH_MAX_FEASIBILITY_STEPS"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SourceJSON, cfg.CatalogSource)
	assert.Equal(t, 10, cfg.LaneGranularity)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.SearchTimeout)
	assert.Equal(t, 20, cfg.MaxVehicles)
	assert.Equal(t, 1_000_000, cfg.MaxFeasibilitySteps)
}

func TestLoadServerRequiresVehicleLimit(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "json")
	t.Setenv("MAX_VEHICLES", "0")
	_, err := LoadServer()
	assert.ErrorContains(t, err, "MAX_VEHICLES")

	t.Setenv("MAX_VEHICLES", "5")
	t.Setenv("SEARCH_MAX_FEASIBILITY_STEPS", "-1")
	_, err = LoadServer()
	assert.ErrorContains(t, err, "SEARCH_MAX_FEASIBILITY_STEPS")
}

func TestLoadServerRejectsBadValues(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err := LoadServer()
	assert.Error(t, err)

	t.Setenv("CATALOG_SOURCE", "json")
	t.Setenv("SEARCH_WORKERS", "0")
	_, err = LoadServer()
	assert.Error(t, err)

	t.Setenv("SEARCH_WORKERS", "abc")
	_, err = LoadServer()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	loaded, err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.False(t, loaded)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MVS_DOTENV_KEY=from-file\n"), 0o600))
	t.Setenv("MVS_DOTENV_KEY", "")
	require.NoError(t, os.Unsetenv("MVS_DOTENV_KEY"))

	loaded, err = LoadDotEnv(path)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "from-file", os.Getenv("MVS_DOTENV_KEY"))
}
