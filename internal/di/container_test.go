package di_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-site-configurator/internal/adapters"
	"github.com/goliatone/go-site-configurator/internal/di"
	"github.com/goliatone/go-site-configurator/internal/drafts"
	"github.com/goliatone/go-site-configurator/internal/logging/gologger"
	"github.com/goliatone/go-site-configurator/internal/runtimeconfig"
	"github.com/goliatone/go-site-configurator/pkg/testsupport"
)

func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Type = runtimeconfig.StorageMemory
	cfg.Uploads.Dir = t.TempDir()
	cfg.Publish.Dir = t.TempDir()
	return cfg
}

func TestNewContainerWiresServices(t *testing.T) {
	container, err := di.NewContainer(testConfig(t))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.DraftService() == nil || container.PreviewService() == nil ||
		container.PublishService() == nil || container.MigrationService() == nil {
		t.Fatalf("expected every service to be built")
	}
	if container.Adapter().Kind() != adapters.KindFallback {
		t.Fatalf("expected fallback adapter, got %s", container.Adapter().Kind())
	}
	if container.BunDB() != nil {
		t.Fatalf("expected no database for memory storage")
	}

	if err := container.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if container.DraftManager().Backend() != drafts.BackendMemoryFallback {
		t.Fatalf("expected memory backend, got %s", container.DraftManager().Backend())
	}

	draft, err := container.DraftService().Create(context.Background(), drafts.CreateDraftInput{BrandName: "Acme", Industry: "tech"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := container.PublishService().Publish(context.Background(), draft.ID); err != nil {
		t.Fatalf("publish through container: %v", err)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Port = 0
	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestNewLoggerProviderUsesGoLogger(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	provider, err := di.NewLoggerProvider(cfg.Logging)
	if err != nil {
		t.Fatalf("NewLoggerProvider returned error: %v", err)
	}
	if _, ok := provider.(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", provider)
	}
	if provider.GetLogger("configurator.test") == nil {
		t.Fatal("expected logger from go-logger provider")
	}
}

func TestContainerUsesSuppliedDatabase(t *testing.T) {
	db, err := testsupport.NewMigratedBunDB(context.Background(), "di_container")
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := testConfig(t)
	cfg.Storage.Type = runtimeconfig.StorageDurable
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	container, err := di.NewContainer(cfg, di.WithBunDB(db), di.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if err := container.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.DraftManager().Backend() != drafts.BackendDurable {
		t.Fatalf("expected durable backend, got %s", container.DraftManager().Backend())
	}
	draft, err := container.DraftService().Create(context.Background(), drafts.CreateDraftInput{BrandName: "Acme", Industry: "tech"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if draft.ExpiresAt == nil || !draft.ExpiresAt.Equal(now.Add(cfg.Storage.DraftTTL)) {
		t.Fatalf("expected expiry from container clock, got %v", draft.ExpiresAt)
	}
}

func TestOpenFallsBackWhenDatabaseUnreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Type = runtimeconfig.StorageDurable
	cfg.Storage.Driver = runtimeconfig.DriverPostgres
	cfg.Storage.DSN = "postgres://nobody@127.0.0.1:1/none?connect_timeout=1"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	container, err := di.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.BunDB() != nil {
		t.Fatalf("expected no database after failed connect")
	}
	if err := container.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if container.DraftManager().Backend() != drafts.BackendMemoryFallback {
		t.Fatalf("expected memory fallback, got %s", container.DraftManager().Backend())
	}
}
