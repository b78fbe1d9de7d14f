package testsupport

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-site-configurator/internal/migrations"
)

// NewSQLiteMemoryDB opens a named in-memory database shared by the
// connections of one pool. Distinct names never see each other's data.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name))
}

// NewMigratedBunDB returns a bun handle over a fresh in-memory database with
// every migration applied.
func NewMigratedBunDB(ctx context.Context, name string) (*bun.DB, error) {
	sqlDB, err := NewSQLiteMemoryDB(name)
	if err != nil {
		return nil, err
	}
	if _, err := migrations.Up(ctx, sqlDB, "sqlite"); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	return db, nil
}
