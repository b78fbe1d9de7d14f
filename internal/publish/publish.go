// Package publish exports generated sites as static files and serves them
// back from the publish directory.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"

	"github.com/goliatone/go-site-configurator/internal/adapters"
	"github.com/goliatone/go-site-configurator/internal/apperrors"
	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/internal/preview"
	"github.com/goliatone/go-site-configurator/internal/validation"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

const (
	indexFile  = "index.html"
	stylesFile = "styles.css"
	assetsDir  = "assets"
	cssMime    = "text/css"
)

var (
	ErrDirRequired       = errors.New("publish: publish directory is required")
	ErrAdapterRequired   = errors.New("publish: adapter is required")
	ErrInvalidSiteID     = errors.New("publish: invalid site id")
	ErrInvalidAssetPath  = errors.New("publish: invalid asset path")
	ErrNotPublished      = errors.New("publish: site not published")
	ErrAssetNotFound     = errors.New("publish: asset not found")
	siteIDPattern        = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)
	defaultPublicBaseURL = "http://localhost:3001"
)

// Drafts is the draft surface publishing reads from. Sites are published
// from the draft that carries the same id.
type Drafts interface {
	Get(ctx context.Context, id string) (*domain.Draft, error)
	BuildConfig(draft *domain.Draft) domain.SiteConfig
}

// Config locates published output.
type Config struct {
	Dir       string
	BaseURL   string
	MinifyCSS bool
}

// Result describes a published site.
type Result struct {
	SiteID      string    `json:"siteId"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the publish timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the publish logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service renders and stores static sites under {Dir}/{siteId}.
type Service struct {
	drafts   Drafts
	adapter  adapters.Adapter
	root     string
	baseURL  string
	minify   bool
	minifier *minify.M
	now      func() time.Time
	logger   interfaces.Logger
}

func NewService(drafts Drafts, adapter adapters.Adapter, cfg Config, opts ...Option) (*Service, error) {
	if adapter == nil {
		return nil, ErrAdapterRequired
	}
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, ErrDirRequired
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("publish: resolve dir: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("publish: create dir: %w", err)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultPublicBaseURL
	}
	m := minify.New()
	m.AddFunc(cssMime, css.Minify)

	s := &Service{
		drafts:   drafts,
		adapter:  adapter,
		root:     root,
		baseURL:  baseURL,
		minify:   cfg.MinifyCSS,
		minifier: m,
		now:      time.Now,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SitePath is the public path prefix of a published site.
func SitePath(siteID string) string {
	return "/p/" + siteID
}

// Publish renders the site and writes index.html, styles.css and the logo.
func (s *Service) Publish(ctx context.Context, siteID string) (*Result, error) {
	if !validSiteID(siteID) {
		return nil, apperrors.NotFound("Site not found", "site", siteID)
	}
	logger := logging.WithDraft(s.logger, "", siteID)

	draft, err := s.drafts.Get(ctx, siteID)
	if err != nil {
		if goerrors.IsCategory(err, goerrors.CategoryNotFound) {
			return nil, apperrors.NotFound("Site not found", "site", siteID)
		}
		return nil, err
	}
	cfg := s.drafts.BuildConfig(draft)
	if draft.Config != nil {
		cfg = draft.Config.Clone()
	}
	if issues := validation.SiteConfig(cfg); len(issues) > 0 {
		messages := make([]string, 0, len(issues))
		for _, issue := range issues {
			messages = append(messages, issue.Location+": "+issue.Message)
		}
		return nil, apperrors.Operation(apperrors.CodePublish, "Site config is invalid: "+strings.Join(messages, ", "))
	}
	if err := preview.ValidateURLs(cfg); err != nil {
		return nil, err
	}

	cssPath := SitePath(siteID) + "/" + stylesFile
	rendered, err := s.render(ctx, cfg, adapters.RenderOptions{
		CSSPath:  cssPath,
		Metadata: &adapters.Metadata{Title: cfg.Brand.Name, CanonicalURL: s.baseURL + SitePath(siteID)},
	})
	if err != nil {
		return nil, apperrors.Wrap(err, goerrors.CategoryOperation, apperrors.CodePublish, "Failed to render site")
	}

	html := rendered.HTML
	stylesheet, err := s.optimizeCSS(rendered.CSS)
	if err != nil {
		return nil, err
	}

	siteDir := filepath.Join(s.root, siteID)
	if err := os.MkdirAll(filepath.Join(siteDir, assetsDir), 0o755); err != nil {
		return nil, publishError(err, "Failed to create site directory")
	}
	if draft.Logo != nil && draft.Logo.Path != "" {
		name := filepath.Base(draft.Logo.Filename)
		if err := copyFile(draft.Logo.Path, filepath.Join(siteDir, assetsDir, name)); err != nil {
			logger.Warn("failed to copy logo", "file", draft.Logo.Path, "error", err)
		} else if draft.Logo.URL != "" {
			html = strings.ReplaceAll(html, draft.Logo.URL, path.Join(SitePath(siteID), assetsDir, name))
		}
	}
	if err := os.WriteFile(filepath.Join(siteDir, indexFile), []byte(html), 0o644); err != nil {
		return nil, publishError(err, "Failed to write site")
	}
	if err := os.WriteFile(filepath.Join(siteDir, stylesFile), []byte(stylesheet), 0o644); err != nil {
		return nil, publishError(err, "Failed to write stylesheet")
	}

	logger.Info("site published", "dir", siteDir)
	return &Result{
		SiteID:      siteID,
		URL:         s.baseURL + SitePath(siteID),
		PublishedAt: s.now().UTC(),
	}, nil
}

// IsPublished reports whether index.html exists for siteID.
func (s *Service) IsPublished(siteID string) bool {
	if !validSiteID(siteID) {
		return false
	}
	info, err := os.Stat(filepath.Join(s.root, siteID, indexFile))
	return err == nil && !info.IsDir()
}

// DeleteSite removes every published file of siteID.
func (s *Service) DeleteSite(siteID string) error {
	if !validSiteID(siteID) {
		return ErrInvalidSiteID
	}
	if err := os.RemoveAll(filepath.Join(s.root, siteID)); err != nil {
		return publishError(err, "Failed to delete site")
	}
	logging.WithDraft(s.logger, "", siteID).Info("published site deleted")
	return nil
}

// ReadHTML returns the published index document.
func (s *Service) ReadHTML(siteID string) ([]byte, error) {
	return s.readSiteFile(siteID, indexFile)
}

// ReadCSS returns the published stylesheet.
func (s *Service) ReadCSS(siteID string) ([]byte, error) {
	return s.readSiteFile(siteID, stylesFile)
}

// AssetPath resolves assetPath inside the site's assets directory. Paths
// that would leave it are rejected.
func (s *Service) AssetPath(siteID, assetPath string) (string, error) {
	if !validSiteID(siteID) {
		return "", ErrInvalidSiteID
	}
	base := filepath.Join(s.root, siteID, assetsDir)
	cleaned := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(assetPath, "/")))
	if cleaned == "." || filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", ErrInvalidAssetPath
	}
	full := filepath.Join(base, cleaned)
	rel, err := filepath.Rel(base, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", ErrInvalidAssetPath
	}
	return full, nil
}

// OpenAsset opens a published asset for serving.
func (s *Service) OpenAsset(siteID, assetPath string) (*os.File, error) {
	full, err := s.AssetPath(siteID, assetPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	if info, statErr := f.Stat(); statErr != nil || info.IsDir() {
		f.Close()
		return nil, ErrAssetNotFound
	}
	return f, nil
}

func (s *Service) render(ctx context.Context, cfg domain.SiteConfig, opts adapters.RenderOptions) (*adapters.RenderResult, error) {
	if renderer, ok := s.adapter.(adapters.SiteRenderer); ok {
		return renderer.RenderSite(ctx, cfg, opts)
	}
	return s.adapter.RenderPage(ctx, s.adapter.ConfigToBlocks(cfg), opts)
}

func (s *Service) optimizeCSS(stylesheet string) (string, error) {
	if !s.minify {
		return strings.TrimSpace(stylesheet), nil
	}
	out, err := s.minifier.String(cssMime, stylesheet)
	if err != nil {
		return "", publishError(err, "Failed to minify stylesheet")
	}
	return out, nil
}

func (s *Service) readSiteFile(siteID, name string) ([]byte, error) {
	if !validSiteID(siteID) {
		return nil, ErrNotPublished
	}
	data, err := os.ReadFile(filepath.Join(s.root, siteID, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotPublished
	}
	return data, err
}

func validSiteID(siteID string) bool {
	return siteIDPattern.MatchString(siteID)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func publishError(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, message).WithTextCode(apperrors.CodePublish)
}
