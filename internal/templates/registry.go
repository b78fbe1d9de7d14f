package templates

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-site-configurator/internal/domain"
)

var (
	ErrTemplateRequired = errors.New("templates: template is required")
	ErrIndustryRequired = errors.New("templates: template industry is required")
)

// Registry maps normalised industry keys to templates. The default template
// is always present and answers every unknown industry.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]SiteTemplate
	order     []SiteTemplate
	fallback  SiteTemplate
	now       func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the clock used for copyright years.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithTemplates registers additional templates after the built-in ones.
// Templates for an existing industry replace the built-in variant.
func WithTemplates(templates ...SiteTemplate) Option {
	return func(r *Registry) {
		for _, tpl := range templates {
			_ = r.Register(tpl)
		}
	}
}

// NewRegistry returns a registry holding every built-in variant.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		templates: map[string]SiteTemplate{},
		now:       time.Now,
	}
	for _, tpl := range Variants() {
		_ = r.Register(tpl)
	}
	r.fallback = r.templates[DefaultIndustry]
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces the template for its industry.
func (r *Registry) Register(tpl SiteTemplate) error {
	if tpl == nil {
		return ErrTemplateRequired
	}
	key := normalizeIndustry(tpl.Industry())
	if key == "" {
		return ErrIndustryRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.templates[key]; ok {
		for i, candidate := range r.order {
			if candidate == existing {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.templates[key] = tpl
	r.order = append(r.order, tpl)
	if key == DefaultIndustry {
		r.fallback = tpl
	}
	return nil
}

// GetTemplate returns the template registered for industry.
func (r *Registry) GetTemplate(industry string) (SiteTemplate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tpl, ok := r.templates[normalizeIndustry(industry)]
	return tpl, ok
}

// GetTemplateOrDefault never fails: unknown industries get the default template.
func (r *Registry) GetTemplateOrDefault(industry string) SiteTemplate {
	if tpl, ok := r.GetTemplate(industry); ok {
		return tpl
	}
	return r.Default()
}

// Default returns the fallback template.
func (r *Registry) Default() SiteTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// HasTemplate reports whether industry has a dedicated template.
func (r *Registry) HasTemplate(industry string) bool {
	_, ok := r.GetTemplate(industry)
	return ok
}

// GetAllTemplates lists templates in registration order.
func (r *Registry) GetAllTemplates() []SiteTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SiteTemplate, len(r.order))
	copy(out, r.order)
	return out
}

// Generate applies the template for in.Industry, stamping the registry clock
// when the input carries no time.
func (r *Registry) Generate(in TemplateInput) domain.SiteConfig {
	if in.Now.IsZero() {
		in.Now = r.now()
	}
	return r.GetTemplateOrDefault(in.Industry).Apply(in)
}

func normalizeIndustry(industry string) string {
	trimmed := strings.TrimSpace(industry)
	if trimmed == "" {
		return ""
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil || normalized == "" {
		return strings.ToLower(trimmed)
	}
	return normalized
}
