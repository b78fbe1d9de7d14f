// Package preview renders draft site configs for the wizard preview pane.
package preview

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-site-configurator/internal/adapters"
	"github.com/goliatone/go-site-configurator/internal/apperrors"
	"github.com/goliatone/go-site-configurator/internal/blocks"
	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/internal/sanitize"
	"github.com/goliatone/go-site-configurator/internal/util"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

const messageInvalidURLs = "Invalid URLs in site config"

var (
	ErrInvalidURLs     = errors.New("preview: invalid URLs in site config")
	ErrAdapterRequired = errors.New("preview: adapter is required")
)

// Payload is the preview document handed to the wizard iframe.
type Payload struct {
	HTML   string            `json:"html"`
	Assets map[string]string `json:"assets"`
}

// Service renders previews through the active adapter.
type Service struct {
	adapter adapters.Adapter
	logger  interfaces.Logger
}

func NewService(adapter adapters.Adapter, logger interfaces.Logger) (*Service, error) {
	if adapter == nil {
		return nil, ErrAdapterRequired
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Service{adapter: adapter, logger: logger}, nil
}

// GenerateETag returns the quoted md5 hex digest of the config's JSON form.
// Equal configs always produce equal tags.
func GenerateETag(cfg domain.SiteConfig) string {
	raw, err := json.Marshal(cfg)
	if err != nil {
		raw = []byte(fmt.Sprintf("%+v", cfg))
	}
	sum := md5.Sum(raw)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// ValidateURLs rejects configs holding URLs the sanitizer would replace.
// The returned error lists every offending field.
func ValidateURLs(cfg domain.SiteConfig) error {
	var issues []goerrors.FieldError
	check := func(field, value string) {
		if sanitize.Rejected(value) {
			issues = append(issues, goerrors.FieldError{Field: field, Message: "URL is not allowed", Value: value})
		}
	}

	check("brand.logo", cfg.Brand.Logo)
	check("layout.header.logoUrl", cfg.Layout.Header.LogoURL)
	for i, item := range cfg.Layout.Header.Navigation {
		check(fmt.Sprintf("layout.header.navigation[%d].href", i), item.Href)
	}
	for i, link := range cfg.Layout.Footer.Links {
		check(fmt.Sprintf("layout.footer.links[%d].href", i), link.Href)
	}

	if len(issues) == 0 {
		return nil
	}
	err := apperrors.Validation(messageInvalidURLs, issues...)
	err.Source = ErrInvalidURLs
	return err
}

// validateBlockURLs checks the href and src attributes of every block, so
// section content that never appears in the header or footer is covered too.
func validateBlockURLs(list []blocks.Block) error {
	var issues []goerrors.FieldError
	blocks.Walk(list, func(b blocks.Block) bool {
		for _, name := range []string{"href", "src"} {
			value, ok := b.Attributes[name].(string)
			if ok && sanitize.Rejected(value) {
				issues = append(issues, goerrors.FieldError{
					Field:   b.BlockID + "." + name,
					Message: "URL is not allowed",
					Value:   value,
				})
			}
		}
		return true
	})
	if len(issues) == 0 {
		return nil
	}
	err := apperrors.Validation(messageInvalidURLs, issues...)
	err.Source = ErrInvalidURLs
	return err
}

// GeneratePreview returns the full preview document for cfg.
func (s *Service) GeneratePreview(ctx context.Context, cfg domain.SiteConfig) (string, error) {
	result, err := s.render(ctx, cfg)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}

// GeneratePreviewJSON wraps the preview document for JSON transport.
func (s *Service) GeneratePreviewJSON(ctx context.Context, cfg domain.SiteConfig) (*Payload, error) {
	result, err := s.render(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Payload{HTML: result.HTML, Assets: util.CloneStringMap(result.Assets)}, nil
}

func (s *Service) render(ctx context.Context, cfg domain.SiteConfig) (*adapters.PreviewResult, error) {
	if err := ValidateURLs(cfg); err != nil {
		s.logger.Warn("preview rejected", "error", err)
		return nil, err
	}
	list := s.adapter.ConfigToBlocks(cfg)
	if err := validateBlockURLs(list); err != nil {
		s.logger.Warn("preview rejected", "error", err)
		return nil, err
	}
	opts := adapters.RenderOptions{
		InlineCSS: true,
		Metadata: &adapters.Metadata{
			Title:       cfg.Brand.Name,
			Description: cfg.Brand.Name + " - " + cfg.Brand.Industry,
		},
	}

	// Adapters with looks render the one cfg.TemplateID selects.
	if site, ok := s.adapter.(adapters.SiteRenderer); ok {
		rendered, err := site.RenderSite(ctx, cfg, opts)
		if err != nil {
			return nil, apperrors.Wrap(err, goerrors.CategoryInternal, apperrors.CodeInternal, "Failed to render preview")
		}
		return &adapters.PreviewResult{HTML: rendered.HTML, CSS: rendered.CSS, Assets: map[string]string{}}, nil
	}

	result, err := s.adapter.PreviewPage(ctx, list, opts)
	if err != nil {
		return nil, apperrors.Wrap(err, goerrors.CategoryInternal, apperrors.CodeInternal, "Failed to render preview")
	}
	return result, nil
}
