// Package active selects the rendering adapter once at startup.
package active

import (
	"net/http"

	"github.com/goliatone/go-site-configurator/internal/adapters"
	"github.com/goliatone/go-site-configurator/internal/adapters/fallback"
	"github.com/goliatone/go-site-configurator/internal/adapters/remote"
	"github.com/goliatone/go-site-configurator/internal/looks"
	"github.com/goliatone/go-site-configurator/internal/markdown"
	"github.com/goliatone/go-site-configurator/internal/runtimeconfig"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

// Deps are the collaborators shared by both arms.
type Deps struct {
	Logger     interfaces.Logger
	Looks      *looks.Registry
	Markdown   *markdown.Renderer
	HTTPClient *http.Client
}

// New returns the remote adapter when it is enabled and the local renderer
// otherwise. The remote adapter owns its own local renderer for failures.
func New(cfg runtimeconfig.RendererConfig, deps Deps) (adapters.Adapter, error) {
	local, err := fallback.New(
		fallback.WithLogger(deps.Logger),
		fallback.WithLooks(deps.Looks),
		fallback.WithMarkdown(deps.Markdown),
	)
	if err != nil {
		return nil, err
	}
	if !cfg.RemoteEnabled {
		return local, nil
	}

	client := remote.NewClient(remote.ClientConfig{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.Timeout,
		HealthTimeout: cfg.HealthTimeout,
		RetryAttempts: cfg.RetryAttempts,
		HTTPClient:    deps.HTTPClient,
		Logger:        deps.Logger,
	})
	return remote.New(client, local, deps.Logger)
}
