package looks_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/looks"
)

func sampleConfig() domain.SiteConfig {
	return domain.SiteConfig{
		Brand: domain.Brand{Name: "Acme", Industry: "tech"},
		Theme: domain.Theme{PrimaryColor: "#112233", SecondaryColor: "#445566", FontFamily: "Inter, sans-serif"},
		Layout: domain.Layout{
			Header: domain.HeaderConfig{
				Navigation: []domain.NavigationItem{
					{Label: "Contact", Href: "/contact", Order: 2},
					{Label: "Home", Href: "/", Order: 1},
				},
			},
			Sections: []domain.SectionConfig{
				{ID: "hero-1", Type: domain.SectionHero, Title: "Welcome", Order: 1, Visible: true, Content: map[string]any{"subtitle": "Fast things"}},
				{ID: "services-1", Type: domain.SectionServices, Title: "What we do", Order: 2, Visible: true, Content: map[string]any{
					"items": []any{map[string]any{"title": "Cloud", "description": "Hosting"}},
				}},
				{ID: "hidden-1", Type: domain.SectionAbout, Title: "Secret", Order: 3, Visible: false},
				{ID: "contact-1", Type: domain.SectionContact, Order: 4, Visible: true, Content: map[string]any{"email": "hi@acme.test"}},
			},
			Footer: domain.FooterConfig{ShowBrand: true, Copyright: "© 2026 Acme"},
		},
	}
}

func newRegistry(t *testing.T) *looks.Registry {
	t.Helper()
	registry, err := looks.NewRegistry(nil)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return registry
}

func TestRegistryListsBuiltinLooks(t *testing.T) {
	registry := newRegistry(t)
	infos := registry.List()
	if len(infos) != 2 {
		t.Fatalf("expected 2 looks, got %d", len(infos))
	}
	if infos[0].ID != looks.DefaultID || infos[1].ID != looks.ModernID {
		t.Fatalf("unexpected order: %+v", infos)
	}
	if registry.Get("unknown").Info().ID != looks.DefaultID {
		t.Fatalf("expected unknown look to resolve to default")
	}
}

func TestRenderOmitsInvisibleSectionsAndOrdersNavigation(t *testing.T) {
	registry := newRegistry(t)
	for _, id := range []string{looks.DefaultID, looks.ModernID} {
		cfg := sampleConfig()
		cfg.TemplateID = id
		result, err := registry.Render(cfg, looks.Options{InlineCSS: true})
		if err != nil {
			t.Fatalf("%s: render: %v", id, err)
		}
		if strings.Contains(result.HTML, "Secret") {
			t.Fatalf("%s: expected hidden section to be omitted", id)
		}
		if !strings.Contains(result.HTML, "Cloud") || !strings.Contains(result.HTML, "mailto:hi@acme.test") {
			t.Fatalf("%s: expected services and contact content, got %s", id, result.HTML)
		}
		home := strings.Index(result.HTML, ">Home<")
		contact := strings.Index(result.HTML, ">Contact<")
		if home < 0 || contact < 0 || home > contact {
			t.Fatalf("%s: expected navigation sorted by order", id)
		}
		if !strings.Contains(result.HTML, "<style>") || !strings.Contains(result.HTML, "#112233") {
			t.Fatalf("%s: expected inline stylesheet with theme color", id)
		}
	}
}

func TestRenderEscapesUserContent(t *testing.T) {
	registry := newRegistry(t)
	cfg := sampleConfig()
	cfg.Brand.Name = `<script>alert(1)</script>`
	cfg.Layout.Sections[0].Title = `"><img src=x onerror=alert(1)>`
	cfg.Layout.Header.Navigation = append(cfg.Layout.Header.Navigation, domain.NavigationItem{Label: "Bad", Href: "javascript:alert(1)", Order: 3})

	result, err := registry.Render(cfg, looks.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(result.HTML, "<script") {
		t.Fatalf("expected script tag to be escaped, got %s", result.HTML)
	}
	if strings.Contains(result.HTML, "<img src=x") {
		t.Fatalf("expected title to be escaped")
	}
	if strings.Contains(result.HTML, "javascript:") {
		t.Fatalf("expected javascript URL to be neutralised")
	}
}

func TestRenderLinksStylesheetWhenNotInline(t *testing.T) {
	registry := newRegistry(t)
	result, err := registry.Render(sampleConfig(), looks.Options{CSSPath: "/p/site-1/styles.css", Title: "Preview"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(result.HTML, `href="/p/site-1/styles.css"`) {
		t.Fatalf("expected stylesheet link, got %s", result.HTML)
	}
	if strings.Contains(result.HTML, "<style>") {
		t.Fatalf("expected no inline style block")
	}
	if !strings.Contains(result.HTML, "<title>Preview</title>") {
		t.Fatalf("expected title override")
	}
	if result.CSS == "" {
		t.Fatalf("expected stylesheet content")
	}
}

func TestRenderCustomSectionMarkdownAndRawContent(t *testing.T) {
	registry := newRegistry(t)
	cfg := sampleConfig()
	cfg.Layout.Sections = []domain.SectionConfig{
		{ID: "c1", Type: domain.SectionCustom, Title: "Notes", Order: 1, Visible: true, Content: map[string]any{"text": "**bold** <script>x</script>"}},
		{ID: "c2", Type: domain.SectionCustom, Order: 2, Visible: true, Content: map[string]any{"widget": "map"}},
	}
	result, err := registry.Render(cfg, looks.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(result.HTML, "<strong>bold</strong>") {
		t.Fatalf("expected markdown to render, got %s", result.HTML)
	}
	if strings.Contains(result.HTML, "<script>x") {
		t.Fatalf("expected raw html to be stripped")
	}
	if !strings.Contains(result.HTML, "<pre>") || !strings.Contains(result.HTML, "&#34;widget&#34;") {
		t.Fatalf("expected raw content block, got %s", result.HTML)
	}
	if !strings.Contains(result.HTML, ">Section<") {
		t.Fatalf("expected default custom title")
	}
}

func TestColorAndFontGuards(t *testing.T) {
	if got := looks.Color("#abc", "#000"); got != "#abc" {
		t.Fatalf("expected hex color kept, got %q", got)
	}
	if got := looks.Color("red;}</style>", "#000"); got != "#000" {
		t.Fatalf("expected fallback color, got %q", got)
	}
	if got := looks.FontFamily("Inter; }", "serif"); got != "serif" {
		t.Fatalf("expected fallback font, got %q", got)
	}
}
