// Package migrations applies the embedded goose migrations for the durable
// draft store.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/goliatone/go-site-configurator/internal/runtimeconfig"
)

//go:embed sql/sqlite/*.sql sql/postgres/*.sql
var migrationsFS embed.FS

var ErrUnsupportedDriver = errors.New("migrations: unsupported driver")

// FS returns the embedded migration tree (sql/sqlite, sql/postgres).
func FS() embed.FS {
	return migrationsFS
}

// DriverFS returns the migrations for driver rooted at the driver directory.
func DriverFS(driver string) (fs.FS, goose.Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case runtimeconfig.DriverSQLite:
		sub, err := fs.Sub(migrationsFS, "sql/sqlite")
		return sub, goose.DialectSQLite3, err
	case runtimeconfig.DriverPostgres:
		sub, err := fs.Sub(migrationsFS, "sql/postgres")
		return sub, goose.DialectPostgres, err
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Up applies every pending migration and returns how many ran.
func Up(ctx context.Context, db *sql.DB, driver string) (int, error) {
	fsys, dialect, err := DriverFS(driver)
	if err != nil {
		return 0, err
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("migrations: provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("migrations: up: %w", err)
	}
	return len(results), nil
}
