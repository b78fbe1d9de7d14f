// Package adapters defines the rendering contract shared by the local
// renderer and the remote page builder.
package adapters

import (
	"context"

	"github.com/goliatone/go-site-configurator/internal/blocks"
	"github.com/goliatone/go-site-configurator/internal/domain"
)

// Kind names the active rendering arm.
type Kind string

const (
	KindFallback Kind = "fallback"
	KindRemote   Kind = "remote"
)

// Metadata is the document head information.
type Metadata struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	CanonicalURL string `json:"canonicalUrl,omitempty"`
}

// RenderOptions control how the document is assembled.
type RenderOptions struct {
	InlineCSS bool      `json:"inlineCSS,omitempty"`
	CSSPath   string    `json:"cssPath,omitempty"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

// RenderResult is a complete HTML document.
type RenderResult struct {
	HTML     string    `json:"html"`
	CSS      string    `json:"css,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// PreviewResult is a rendered document plus inline assets keyed by name.
type PreviewResult struct {
	HTML   string            `json:"html"`
	CSS    string            `json:"css,omitempty"`
	Assets map[string]string `json:"assets"`
}

// Template is a renderable design offered by an adapter.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Industry    string `json:"industry,omitempty"`
	Version     int    `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
}

type (
	ValidationResult = blocks.ValidationResult
	ValidationError  = blocks.ValidationError
)

// Adapter turns block trees into pages.
type Adapter interface {
	RenderPage(ctx context.Context, list []blocks.Block, opts RenderOptions) (*RenderResult, error)
	ValidateBlocks(ctx context.Context, list []blocks.Block) (*ValidationResult, error)
	GetAvailableTemplates(ctx context.Context) ([]Template, error)
	PreviewPage(ctx context.Context, list []blocks.Block, opts RenderOptions) (*PreviewResult, error)
	ConfigToBlocks(cfg domain.SiteConfig) []blocks.Block
	IsAvailable(ctx context.Context) bool
	Kind() Kind
}

// SiteRenderer renders a configuration with the look it selects. Publishing
// uses it so the stylesheet can be written as its own file.
type SiteRenderer interface {
	RenderSite(ctx context.Context, cfg domain.SiteConfig, opts RenderOptions) (*RenderResult, error)
}

// Meta returns the metadata or its zero value.
func (o RenderOptions) Meta() Metadata {
	if o.Metadata == nil {
		return Metadata{}
	}
	return *o.Metadata
}
