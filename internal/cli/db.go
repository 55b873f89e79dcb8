package cli

import (
	"database/sql"
	"fmt"
	"multi-vehicle-search-service/internal/adapters/repositories"
	"multi-vehicle-search-service/internal/config"
	"multi-vehicle-search-service/internal/platform/db"

	"github.com/spf13/cobra"
)

type dbFlags struct {
	driver string
	dsn    string
}

func newDBCmd() *cobra.Command {
	flags := &dbFlags{}

	cmd := &cobra.Command{
		Use:     "db",
		Short:   "Create and seed the listings database",
		GroupID: "catalog",
	}
	cmd.PersistentFlags().StringVar(&flags.driver, "driver", "sqlite", "Database driver: sqlite or postgres")
	cmd.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "SQLite path or Postgres URL (default: DB_PATH or DATABASE_URL)")

	cmd.AddCommand(newDBInitCmd(flags), newDBSeedCmd(flags))
	return cmd
}

func newDBInitCmd(flags *dbFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the listings table and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, _, err := flags.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
				return err
			}

			printSuccess(cmd.OutOrStdout(), "schema ready (%s)", flags.driver)
			return nil
		},
	}
}

func newDBSeedCmd(flags *dbFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load listings from a JSON file, replacing rows with the same id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, dialect, err := flags.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx := cmd.Context()
			if err := repositories.InitSchema(ctx, conn); err != nil {
				return err
			}

			n, err := repositories.SeedFromJSON(ctx, conn, dialect, file)
			if err != nil {
				return err
			}

			printSuccess(cmd.OutOrStdout(), "seeded %d listings from %s", n, file)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "data/listings.json", "Listings JSON file")
	return cmd
}

// open resolves the driver and DSN and returns a verified connection.
func (f *dbFlags) open() (*sql.DB, repositories.Dialect, error) {
	dialect, err := repositories.ParseDialect(f.driver)
	if err != nil {
		return nil, "", err
	}

	var conn *sql.DB
	switch dialect {
	case repositories.DialectSQLite:
		conn, err = db.OpenSQLite(firstNonEmpty(f.dsn, config.Get("DB_PATH", "data/app.db")))
	case repositories.DialectPostgres:
		dsn := firstNonEmpty(f.dsn, config.Get("DATABASE_URL", ""))
		if dsn == "" {
			return nil, "", fmt.Errorf("postgres requires --dsn or DATABASE_URL")
		}
		conn, err = db.OpenPostgres(dsn)
	}
	if err != nil {
		return nil, "", err
	}
	return conn, dialect, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
