package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"multi-vehicle-search-service/internal/adapters/repositories"
	"multi-vehicle-search-service/internal/domain"
	"multi-vehicle-search-service/internal/platform/db"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `[
	{"id": "A", "location_id": "loc-1", "length": 40, "width": 20, "price_in_cents": 1000},
	{"id": "B", "location_id": "loc-2", "length": 40, "width": 10, "price_in_cents": 500},
	{"id": "C", "location_id": "loc-3", "length": 40, "width": 20, "price_in_cents": 1500},
	{"id": "D", "location_id": "loc-3", "length": 40, "width": 20, "price_in_cents": 900}
]`

func writeCatalog(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "listings.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "lotctl")
	assert.Contains(t, out, "Catalog:")
	assert.Contains(t, out, "search")
}

func TestVersion(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "nope")
	assert.Error(t, err)
}

func TestParseVehicleFlag(t *testing.T) {
	tests := []struct {
		raw     string
		want    domain.VehicleSpec
		wantErr bool
	}{
		{raw: "40", want: domain.VehicleSpec{Length: 40, Quantity: 1}},
		{raw: "40x2", want: domain.VehicleSpec{Length: 40, Quantity: 2}},
		{raw: " 20X3 ", want: domain.VehicleSpec{Length: 20, Quantity: 3}},
		{raw: "15", wantErr: true},
		{raw: "40x0", wantErr: true},
		{raw: "40x", wantErr: true},
		{raw: "x2", wantErr: true},
		{raw: "forty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseVehicleFlag(tt.raw, 10)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchJSON(t *testing.T) {
	path := writeCatalog(t)

	out, err := execute(t, "search", "--catalog", path, "--vehicle", "40", "--vehicle", "20", "--json")
	require.NoError(t, err)

	var got searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, []searchResult{
		{LocationID: "loc-3", ListingIDs: []string{"D"}, TotalPriceInCents: 900},
		{LocationID: "loc-1", ListingIDs: []string{"A"}, TotalPriceInCents: 1000},
	}, got.Results)
	assert.Equal(t, []string{"loc-2"}, got.Infeasible)
	assert.Empty(t, got.Inconclusive)
}

func TestSearchText(t *testing.T) {
	path := writeCatalog(t)

	out, err := execute(t, "search", "--catalog", path, "-v", "40x2")
	require.NoError(t, err)

	assert.Contains(t, out, "loc-3")
	assert.Contains(t, out, "$9.00")
	assert.Contains(t, out, "2 of 3 locations feasible")
}

func TestSearchNoFeasibleLocation(t *testing.T) {
	path := writeCatalog(t)

	out, err := execute(t, "search", "--catalog", path, "-v", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "no location can hold every vehicle")
}

func TestSearchRequiresVehicle(t *testing.T) {
	_, err := execute(t, "search", "--catalog", writeCatalog(t))
	assert.Error(t, err)
}

func TestSearchRejectsBadVehicle(t *testing.T) {
	_, err := execute(t, "search", "--catalog", writeCatalog(t), "-v", "45")
	assert.ErrorIs(t, err, domain.ErrInvalidVehicle)
}

func TestSearchRejectsTooManyVehicles(t *testing.T) {
	_, err := execute(t, "search", "--catalog", writeCatalog(t), "-v", "10x1000000000", "--max-vehicles", "5")
	assert.ErrorIs(t, err, domain.ErrTooManyVehicles)
}

func TestDBSeedSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "listings.db")

	out, err := execute(t, "db", "init", "--driver", "sqlite", "--dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "schema ready")

	out, err = execute(t, "db", "seed", "--driver", "sqlite", "--dsn", dsn, "--file", writeCatalog(t))
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 4 listings")

	conn, err := db.OpenSQLite(dsn)
	require.NoError(t, err)
	defer conn.Close()

	listings, err := repositories.NewSQLListingRepository(conn).ListListings(context.Background())
	require.NoError(t, err)
	assert.Len(t, listings, 4)
}

func TestDBUnknownDriver(t *testing.T) {
	_, err := execute(t, "db", "init", "--driver", "mysql")
	assert.Error(t, err)
}

func TestPostgresRequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := execute(t, "db", "init", "--driver", "postgres")
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$0.00", formatCents(0))
	assert.Equal(t, "$9.05", formatCents(905))
	assert.Equal(t, "$123.45", formatCents(12345))
	assert.Equal(t, "-$1.50", formatCents(-150))
}
