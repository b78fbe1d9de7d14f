// Package fallback renders block trees and site configurations locally. It is
// always available and backs the remote adapter when that one fails.
package fallback

import (
	"context"
	"strings"

	"github.com/goliatone/go-site-configurator/internal/adapters"
	"github.com/goliatone/go-site-configurator/internal/blocks"
	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/identity"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/internal/looks"
	"github.com/goliatone/go-site-configurator/internal/markdown"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

// Adapter is the local renderer.
type Adapter struct {
	looks    *looks.Registry
	markdown *markdown.Renderer
	ids      identity.Generator
	logger   interfaces.Logger
}

var (
	_ adapters.Adapter      = (*Adapter)(nil)
	_ adapters.SiteRenderer = (*Adapter)(nil)
)

// Option configures the adapter.
type Option func(*Adapter)

// WithLooks overrides the look registry.
func WithLooks(registry *looks.Registry) Option {
	return func(a *Adapter) {
		if registry != nil {
			a.looks = registry
		}
	}
}

// WithMarkdown overrides the renderer used for custom section text.
func WithMarkdown(renderer *markdown.Renderer) Option {
	return func(a *Adapter) {
		if renderer != nil {
			a.markdown = renderer
		}
	}
}

// WithIDGenerator overrides block id generation.
func WithIDGenerator(gen identity.Generator) Option {
	return func(a *Adapter) {
		if gen != nil {
			a.ids = gen
		}
	}
}

// WithLogger sets the adapter logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New builds the local renderer.
func New(opts ...Option) (*Adapter, error) {
	a := &Adapter{
		ids:    identity.Random,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.markdown == nil {
		a.markdown = markdown.NewRenderer(markdown.Options{})
	}
	if a.looks == nil {
		registry, err := looks.NewRegistry(a.markdown, looks.WithLogger(a.logger))
		if err != nil {
			return nil, err
		}
		a.looks = registry
	}
	return a, nil
}

func (a *Adapter) Kind() adapters.Kind { return adapters.KindFallback }

// RenderPage renders list into a full document.
func (a *Adapter) RenderPage(_ context.Context, list []blocks.Block, opts adapters.RenderOptions) (*adapters.RenderResult, error) {
	var body strings.Builder
	renderBlocks(&body, list)
	return &adapters.RenderResult{
		HTML:     wrapDocument(body.String(), baseCSS, opts),
		CSS:      baseCSS,
		Metadata: opts.Metadata,
	}, nil
}

// ValidateBlocks reports every structural problem in list.
func (a *Adapter) ValidateBlocks(_ context.Context, list []blocks.Block) (*adapters.ValidationResult, error) {
	result := blocks.Validate(list)
	return &result, nil
}

// GetAvailableTemplates lists the built-in looks.
func (a *Adapter) GetAvailableTemplates(context.Context) ([]adapters.Template, error) {
	infos := a.looks.List()
	out := make([]adapters.Template, 0, len(infos))
	for _, info := range infos {
		out = append(out, adapters.Template{
			ID:          info.ID,
			Name:        info.Name,
			Version:     1,
			Description: info.Description,
		})
	}
	return out, nil
}

// PreviewPage is RenderPage with an empty asset map.
func (a *Adapter) PreviewPage(ctx context.Context, list []blocks.Block, opts adapters.RenderOptions) (*adapters.PreviewResult, error) {
	result, err := a.RenderPage(ctx, list, opts)
	if err != nil {
		return nil, err
	}
	return &adapters.PreviewResult{
		HTML:   result.HTML,
		CSS:    result.CSS,
		Assets: map[string]string{},
	}, nil
}

func (a *Adapter) IsAvailable(context.Context) bool { return true }

// RenderSite renders cfg with the look named by cfg.TemplateID.
func (a *Adapter) RenderSite(_ context.Context, cfg domain.SiteConfig, opts adapters.RenderOptions) (*adapters.RenderResult, error) {
	meta := opts.Meta()
	result, err := a.looks.Render(cfg, looks.Options{
		InlineCSS:    opts.InlineCSS,
		CSSPath:      opts.CSSPath,
		Title:        meta.Title,
		Description:  meta.Description,
		CanonicalURL: meta.CanonicalURL,
	})
	if err != nil {
		return nil, err
	}
	return &adapters.RenderResult{HTML: result.HTML, CSS: result.CSS, Metadata: opts.Metadata}, nil
}
