package migrations_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-site-configurator/internal/migrations"
)

func TestUpCreatesDraftTable(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:migrations_up?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	applied, err := migrations.Up(context.Background(), db, "sqlite")
	if err != nil {
		t.Fatalf("up: %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected 1 migration, got %d", applied)
	}
	if _, err := db.Exec(`INSERT INTO site_drafts (id, payload) VALUES ('a', '{}')`); err != nil {
		t.Fatalf("expected site_drafts table, got %v", err)
	}

	applied, err = migrations.Up(context.Background(), db, "sqlite")
	if err != nil || applied != 0 {
		t.Fatalf("expected second run to be a no-op, got %d %v", applied, err)
	}
}

func TestDriverFSRejectsUnknownDriver(t *testing.T) {
	if _, _, err := migrations.DriverFS("mysql"); !errors.Is(err, migrations.ErrUnsupportedDriver) {
		t.Fatalf("expected ErrUnsupportedDriver, got %v", err)
	}
}
