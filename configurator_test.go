package configurator_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	configurator "github.com/goliatone/go-site-configurator"
	"github.com/goliatone/go-site-configurator/internal/adapters"
	"github.com/goliatone/go-site-configurator/internal/apperrors"
)

func newModule(t *testing.T, mutate func(*configurator.Config)) *configurator.Module {
	t.Helper()
	cfg := configurator.DefaultConfig()
	cfg.Storage.Type = configurator.StorageMemory
	cfg.Uploads.Dir = t.TempDir()
	cfg.Publish.Dir = t.TempDir()
	if mutate != nil {
		mutate(&cfg)
	}
	module, err := configurator.New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	if err := module.Start(context.Background()); err != nil {
		t.Fatalf("start module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func TestModuleDraftToSiteScenario(t *testing.T) {
	sites := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"site-1"}`))
	}))
	defer sites.Close()

	module := newModule(t, func(cfg *configurator.Config) {
		cfg.SitesAPI.URL = sites.URL
	})
	ctx := context.Background()

	draft, err := module.Drafts().Create(ctx, configurator.CreateDraftInput{BrandName: "Acme", Industry: "tech"})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	fetched, err := module.Drafts().Get(ctx, draft.ID)
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if fetched.Industry != "tech" {
		t.Fatalf("expected industry tech got %q", fetched.Industry)
	}

	cfg, err := module.Drafts().GenerateSiteConfig(ctx, draft.ID)
	if err != nil {
		t.Fatalf("generate config: %v", err)
	}
	if cfg.Theme.PrimaryColor != "#3B82F6" || len(cfg.Layout.Sections) == 0 {
		t.Fatalf("expected tech config with sections, got %+v", cfg.Theme)
	}
	cached, _ := module.Drafts().Get(ctx, draft.ID)
	if cached.Config == nil {
		t.Fatalf("expected config to be cached on the draft")
	}

	html, err := module.GetPreview(ctx, draft.ID)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(html, "Acme") {
		t.Fatalf("expected preview to contain brand name")
	}

	result := module.MigrateDraft(ctx, draft.ID, "user-1")
	if !result.Success || result.SiteID != "site-1" || result.DraftID != draft.ID {
		t.Fatalf("unexpected migration result %+v", result)
	}
	if _, err := module.Drafts().Get(ctx, draft.ID); apperrors.HTTPStatus(err) != http.StatusNotFound {
		t.Fatalf("expected migrated draft to be gone, got %v", err)
	}
}

func TestModuleRemoteRendererDegradesToFallback(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	module := newModule(t, func(cfg *configurator.Config) {
		cfg.Renderer.RemoteEnabled = true
		cfg.Renderer.BaseURL = down.URL
		cfg.Renderer.Timeout = time.Second
		cfg.Renderer.RetryAttempts = 1
	})
	if module.Adapter().Kind() != adapters.KindRemote {
		t.Fatalf("expected remote adapter, got %s", module.Adapter().Kind())
	}

	ctx := context.Background()
	draft, err := module.Drafts().Create(ctx, configurator.CreateDraftInput{BrandName: "Acme", Industry: "tech"})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	cfg, err := module.Drafts().GenerateSiteConfig(ctx, draft.ID)
	if err != nil {
		t.Fatalf("generate config: %v", err)
	}

	result, err := module.Adapter().RenderPage(ctx, module.Adapter().ConfigToBlocks(cfg), adapters.RenderOptions{InlineCSS: true})
	if err != nil {
		t.Fatalf("expected fallback render, got %v", err)
	}
	if !strings.Contains(result.HTML, "Acme") {
		t.Fatalf("expected fallback html to contain brand name")
	}
}

func TestModuleHandlerServesHealth(t *testing.T) {
	module := newModule(t, nil)
	handler, err := module.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
