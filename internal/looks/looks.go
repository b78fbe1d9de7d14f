// Package looks renders a site configuration into a standalone HTML document
// and stylesheet using one of the built-in visual designs.
package looks

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/internal/markdown"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	DefaultID = "default"
	ModernID  = "modern"
)

// Info describes a look for template listings.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Options control document metadata and how the stylesheet is attached.
type Options struct {
	InlineCSS    bool
	CSSPath      string
	Title        string
	Description  string
	CanonicalURL string
}

// Result carries the document and its stylesheet separately so callers can
// publish the CSS as its own file.
type Result struct {
	HTML string
	CSS  string
}

// Look is a compiled design.
type Look struct {
	info Info
	page *htmltemplate.Template
	css  *texttemplate.Template
	md   *markdown.Renderer
}

func (l *Look) Info() Info { return l.info }

// Render produces the document for cfg. Invisible sections are omitted and
// every user value is escaped for its context.
func (l *Look) Render(cfg domain.SiteConfig, opts Options) (Result, error) {
	var css bytes.Buffer
	if err := l.css.Execute(&css, newCSSView(cfg.Theme)); err != nil {
		return Result{}, fmt.Errorf("looks: render %s stylesheet: %w", l.info.ID, err)
	}

	view, err := newPageView(cfg, opts, css.String(), l.md)
	if err != nil {
		return Result{}, err
	}

	var doc bytes.Buffer
	if err := l.page.ExecuteTemplate(&doc, "page", view); err != nil {
		return Result{}, fmt.Errorf("looks: render %s page: %w", l.info.ID, err)
	}
	return Result{HTML: doc.String(), CSS: css.String()}, nil
}

func compile(info Info, md *markdown.Renderer) (*Look, error) {
	page, err := htmltemplate.New(info.ID).ParseFS(templateFS, "templates/page.html.tmpl", "templates/"+info.ID+".html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("looks: parse %s page: %w", info.ID, err)
	}
	css, err := texttemplate.New(info.ID+".css.tmpl").ParseFS(templateFS, "templates/"+info.ID+".css.tmpl")
	if err != nil {
		return nil, fmt.Errorf("looks: parse %s stylesheet: %w", info.ID, err)
	}
	return &Look{info: info, page: page, css: css, md: md}, nil
}

var builtins = []Info{
	{ID: DefaultID, Name: "Classic", Description: "A universal base template suitable for any business."},
	{ID: ModernID, Name: "Modern", Description: "Stylish design with gradients, cards and modern typography."},
}

// Registry holds the compiled looks.
type Registry struct {
	looks  map[string]*Look
	order  []string
	logger interfaces.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used to report unknown look ids.
func WithLogger(logger interfaces.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry compiles the built-in looks. md renders custom section text;
// nil uses a renderer with default options.
func NewRegistry(md *markdown.Renderer, opts ...RegistryOption) (*Registry, error) {
	if md == nil {
		md = markdown.NewRenderer(markdown.Options{})
	}
	r := &Registry{
		looks:  make(map[string]*Look, len(builtins)),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	for _, info := range builtins {
		look, err := compile(info, md)
		if err != nil {
			return nil, err
		}
		r.looks[info.ID] = look
		r.order = append(r.order, info.ID)
	}
	return r, nil
}

// Get returns the look for id. Unknown ids resolve to the default look.
func (r *Registry) Get(id string) *Look {
	key := strings.ToLower(strings.TrimSpace(id))
	if key == "" {
		return r.looks[DefaultID]
	}
	if look, ok := r.looks[key]; ok {
		return look
	}
	r.logger.Warn("unknown look requested, using default", "template_id", id)
	return r.looks[DefaultID]
}

// List returns the looks in registration order.
func (r *Registry) List() []Info {
	out := make([]Info, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.looks[id].info)
	}
	return out
}

// Render uses the look named by cfg.TemplateID.
func (r *Registry) Render(cfg domain.SiteConfig, opts Options) (Result, error) {
	return r.Get(cfg.TemplateID).Render(cfg, opts)
}
