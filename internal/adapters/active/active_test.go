package active_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-site-configurator/internal/adapters"
	"github.com/goliatone/go-site-configurator/internal/adapters/active"
	"github.com/goliatone/go-site-configurator/internal/runtimeconfig"
)

func TestNewSelectsFallbackByDefault(t *testing.T) {
	adapter, err := active.New(runtimeconfig.DefaultConfig().Renderer, active.Deps{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if adapter.Kind() != adapters.KindFallback {
		t.Fatalf("expected fallback, got %s", adapter.Kind())
	}
}

func TestNewSelectsRemoteWhenEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig().Renderer
	cfg.RemoteEnabled = true
	cfg.BaseURL = "http://127.0.0.1:1"
	cfg.HealthTimeout = 50 * time.Millisecond

	adapter, err := active.New(cfg, active.Deps{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if adapter.Kind() != adapters.KindRemote {
		t.Fatalf("expected remote, got %s", adapter.Kind())
	}
	if adapter.IsAvailable(context.Background()) {
		t.Fatalf("expected unreachable builder to be unavailable")
	}
	if _, ok := adapter.(adapters.SiteRenderer); !ok {
		t.Fatalf("expected remote adapter to render sites")
	}
}
