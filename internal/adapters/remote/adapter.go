// Package remote renders pages through an external page builder and falls
// back to the local renderer whenever the builder is unavailable or fails.
package remote

import (
	"context"
	"errors"

	"github.com/goliatone/go-site-configurator/internal/adapters"
	"github.com/goliatone/go-site-configurator/internal/adapters/fallback"
	"github.com/goliatone/go-site-configurator/internal/blocks"
	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

var errNilFallback = errors.New("remote: fallback adapter is required")

// Adapter routes calls to the page builder. Every failure re-renders the
// whole request locally; partial remote output is discarded.
type Adapter struct {
	client   *Client
	fallback *fallback.Adapter
	logger   interfaces.Logger
}

var (
	_ adapters.Adapter      = (*Adapter)(nil)
	_ adapters.SiteRenderer = (*Adapter)(nil)
)

// New wires client and the local renderer used on failure.
func New(client *Client, local *fallback.Adapter, logger interfaces.Logger) (*Adapter, error) {
	if local == nil {
		return nil, errNilFallback
	}
	if client == nil {
		client = NewClient(ClientConfig{Logger: logger})
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Adapter{client: client, fallback: local, logger: logger}, nil
}

func (a *Adapter) Kind() adapters.Kind { return adapters.KindRemote }

// IsAvailable reports whether the health probe answers status "ok".
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	health, err := a.client.Health(ctx)
	if err != nil {
		a.logger.Debug("page builder health check failed", "error", err)
		return false
	}
	return health.Status == "ok"
}

func (a *Adapter) RenderPage(ctx context.Context, list []blocks.Block, opts adapters.RenderOptions) (*adapters.RenderResult, error) {
	if !a.IsAvailable(ctx) {
		a.logger.Warn("page builder unavailable, rendering locally")
		return a.fallback.RenderPage(ctx, list, opts)
	}
	a.logger.Debug("rendering through page builder", "blocks", blocks.Count(list))
	resp, err := a.client.RenderPage(ctx, RenderRequest{Blocks: list, Options: opts})
	if err != nil {
		a.logger.Error("page builder render failed, rendering locally", "error", err)
		return a.fallback.RenderPage(ctx, list, opts)
	}
	metadata := resp.Metadata
	if metadata == nil {
		metadata = opts.Metadata
	}
	return &adapters.RenderResult{HTML: resp.HTML, CSS: resp.CSS, Metadata: metadata}, nil
}

func (a *Adapter) ValidateBlocks(ctx context.Context, list []blocks.Block) (*adapters.ValidationResult, error) {
	if !a.IsAvailable(ctx) {
		a.logger.Warn("page builder unavailable, validating locally")
		return a.fallback.ValidateBlocks(ctx, list)
	}
	result, err := a.client.ValidateBlocks(ctx, ValidationRequest{Blocks: list})
	if err != nil {
		a.logger.Error("page builder validation failed, validating locally", "error", err)
		return a.fallback.ValidateBlocks(ctx, list)
	}
	return result, nil
}

// GetAvailableTemplates lists the builder's templates, or the local looks
// when the builder cannot answer.
func (a *Adapter) GetAvailableTemplates(ctx context.Context) ([]adapters.Template, error) {
	if !a.IsAvailable(ctx) {
		return a.fallback.GetAvailableTemplates(ctx)
	}
	list, err := a.client.Templates(ctx)
	if err != nil {
		a.logger.Error("page builder template listing failed", "error", err)
		return a.fallback.GetAvailableTemplates(ctx)
	}
	return list, nil
}

func (a *Adapter) PreviewPage(ctx context.Context, list []blocks.Block, opts adapters.RenderOptions) (*adapters.PreviewResult, error) {
	if !a.IsAvailable(ctx) {
		a.logger.Warn("page builder unavailable, previewing locally")
		return a.fallback.PreviewPage(ctx, list, opts)
	}
	a.logger.Debug("previewing through page builder", "blocks", blocks.Count(list))
	resp, err := a.client.Preview(ctx, RenderRequest{Blocks: list, Options: opts})
	if err != nil {
		a.logger.Error("page builder preview failed, previewing locally", "error", err)
		return a.fallback.PreviewPage(ctx, list, opts)
	}
	return &adapters.PreviewResult{HTML: resp.HTML, CSS: resp.CSS, Assets: map[string]string{}}, nil
}

// ConfigToBlocks needs no builder round trip.
func (a *Adapter) ConfigToBlocks(cfg domain.SiteConfig) []blocks.Block {
	return a.fallback.ConfigToBlocks(cfg)
}

// RenderSite uses the local looks; the builder has no equivalent.
func (a *Adapter) RenderSite(ctx context.Context, cfg domain.SiteConfig, opts adapters.RenderOptions) (*adapters.RenderResult, error) {
	return a.fallback.RenderSite(ctx, cfg, opts)
}
