package di

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sethvargo/go-retry"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-site-configurator/internal/migrations"
	"github.com/goliatone/go-site-configurator/internal/runtimeconfig"
)

const (
	connectAttempts  = 3
	connectBaseDelay = 200 * time.Millisecond
)

// OpenDatabase connects to the durable draft database, applies pending
// migrations and returns a bun handle for the configured driver.
func OpenDatabase(ctx context.Context, cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, runtimeconfig.ErrStorageDSNRequired
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	switch driver {
	case runtimeconfig.DriverSQLite:
		sqlDB, err = sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("di: open sqlite: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	case runtimeconfig.DriverPostgres:
		connCfg, parseErr := pgx.ParseConfig(dsn)
		if parseErr != nil {
			return nil, fmt.Errorf("di: parse postgres dsn: %w", parseErr)
		}
		sqlDB = stdlib.OpenDB(*connCfg)
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDriverUnknown, cfg.Driver)
	}

	backoff := retry.WithMaxRetries(connectAttempts-1, retry.NewExponential(connectBaseDelay))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("di: connect %s: %w", driver, err)
	}

	if _, err := migrations.Up(ctx, sqlDB, driver); err != nil {
		sqlDB.Close()
		return nil, err
	}

	if driver == runtimeconfig.DriverPostgres {
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	}
	return bun.NewDB(sqlDB, sqlitedialect.New()), nil
}
