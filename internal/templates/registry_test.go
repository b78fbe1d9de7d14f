package templates

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-site-configurator/internal/domain"
)

var fixedNow = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func TestEveryIndustryProducesOrderedSectionsStartingWithHero(t *testing.T) {
	registry := NewRegistry(WithClock(func() time.Time { return fixedNow }))

	for _, tpl := range registry.GetAllTemplates() {
		cfg := registry.Generate(TemplateInput{BrandName: "Acme", Industry: tpl.Industry()})
		sections := cfg.Layout.Sections
		if len(sections) == 0 {
			t.Fatalf("%s: expected sections", tpl.ID())
		}
		if sections[0].Type != domain.SectionHero {
			t.Fatalf("%s: expected hero first, got %s", tpl.ID(), sections[0].Type)
		}
		if sections[len(sections)-1].Type != domain.SectionContact {
			t.Fatalf("%s: expected contact last, got %s", tpl.ID(), sections[len(sections)-1].Type)
		}
		seen := map[string]bool{}
		for i, section := range sections {
			if i > 0 && section.Order < sections[i-1].Order {
				t.Fatalf("%s: sections not ascending at %d", tpl.ID(), i)
			}
			if section.Order < 0 {
				t.Fatalf("%s: negative order", tpl.ID())
			}
			if seen[section.ID] {
				t.Fatalf("%s: duplicate section id %s", tpl.ID(), section.ID)
			}
			seen[section.ID] = true
			if !section.Type.Valid() {
				t.Fatalf("%s: invalid section type %q", tpl.ID(), section.Type)
			}
		}
		if !strings.Contains(cfg.Layout.Footer.Copyright, "© 2025 Acme.") {
			t.Fatalf("%s: unexpected copyright %q", tpl.ID(), cfg.Layout.Footer.Copyright)
		}
	}
}

func TestRegistryHoldsTwelveTemplates(t *testing.T) {
	registry := NewRegistry()
	if got := len(registry.GetAllTemplates()); got != 12 {
		t.Fatalf("expected 12 templates, got %d", got)
	}
	for _, industry := range []string{"tech", "retail", "healthcare", "education", "finance", "real-estate", "restaurant", "beauty", "sports", "art", "consulting"} {
		if !registry.HasTemplate(industry) {
			t.Fatalf("expected template for %s", industry)
		}
	}
}

func TestUnknownIndustryFallsBackToDefault(t *testing.T) {
	registry := NewRegistry()
	for _, industry := range []string{"", "underwater-basket-weaving", "!!!"} {
		tpl := registry.GetTemplateOrDefault(industry)
		if tpl == nil || tpl.ID() != DefaultIndustry {
			t.Fatalf("expected default template for %q, got %v", industry, tpl)
		}
	}

	cfg := registry.Generate(TemplateInput{BrandName: "Zed", Industry: "mining"})
	if cfg.Theme.PrimaryColor != "#3B82F6" || cfg.Theme.SecondaryColor != "#60A5FA" {
		t.Fatalf("expected default colors, got %+v", cfg.Theme)
	}
	if got := cfg.Layout.Sections[0].Content["title"]; got != "Welcome to Zed" {
		t.Fatalf("unexpected hero title %v", got)
	}
	if got := cfg.Layout.Sections[0].Content["subtitle"]; got != "We specialize in mining" {
		t.Fatalf("unexpected hero subtitle %v", got)
	}
}

func TestIndustryColorsAndCaseInsensitiveLookup(t *testing.T) {
	registry := NewRegistry()
	cfg := registry.Generate(TemplateInput{BrandName: "Acme", Industry: "tech"})
	if cfg.Theme.PrimaryColor != "#3B82F6" {
		t.Fatalf("expected tech primary color, got %s", cfg.Theme.PrimaryColor)
	}
	if cfg.Theme.FontFamily != DefaultFontFamily {
		t.Fatalf("expected font family, got %q", cfg.Theme.FontFamily)
	}
	if ThemeFor("retail").PrimaryColor != "#10B981" {
		t.Fatalf("unexpected retail color")
	}
	if ThemeFor("other").PrimaryColor != "#6B7280" {
		t.Fatalf("unexpected other color")
	}
	if tpl := registry.GetTemplateOrDefault("  Tech "); tpl.ID() != "tech" {
		t.Fatalf("expected tech template for padded mixed case input, got %s", tpl.ID())
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	registry := NewRegistry(WithClock(func() time.Time { return fixedNow }))
	in := TemplateInput{BrandName: "Acme", Industry: "finance", Logo: "/uploads/logo.png", Look: "modern"}

	first := registry.Generate(in)
	second := registry.Generate(in)
	for i := range first.Layout.Sections {
		if first.Layout.Sections[i].ID != second.Layout.Sections[i].ID {
			t.Fatalf("expected stable section ids")
		}
	}
	if !first.Layout.Header.ShowLogo || first.Layout.Header.LogoURL != "/uploads/logo.png" {
		t.Fatalf("expected logo in header, got %+v", first.Layout.Header)
	}
	if first.TemplateID != "modern" {
		t.Fatalf("expected look to be carried, got %q", first.TemplateID)
	}

	first.Layout.Header.Navigation[0].Label = "mutated"
	if registry.Generate(in).Layout.Header.Navigation[0].Label == "mutated" {
		t.Fatalf("expected navigation to be copied per generation")
	}
}

type stubTemplate struct{ industry string }

func (s stubTemplate) ID() string       { return "stub" }
func (s stubTemplate) Name() string     { return "Stub" }
func (s stubTemplate) Industry() string { return s.industry }
func (s stubTemplate) Version() int     { return 2 }
func (s stubTemplate) Apply(TemplateInput) domain.SiteConfig {
	return domain.SiteConfig{Brand: domain.Brand{Name: "stub"}}
}

func TestRegisterReplacesIndustry(t *testing.T) {
	registry := NewRegistry(WithTemplates(stubTemplate{industry: "tech"}))
	if tpl := registry.GetTemplateOrDefault("tech"); tpl.ID() != "stub" {
		t.Fatalf("expected stub to replace tech, got %s", tpl.ID())
	}
	if got := len(registry.GetAllTemplates()); got != 12 {
		t.Fatalf("expected replacement to keep 12 templates, got %d", got)
	}
	if err := registry.Register(nil); err != ErrTemplateRequired {
		t.Fatalf("expected ErrTemplateRequired, got %v", err)
	}
	if err := registry.Register(stubTemplate{industry: " "}); err != ErrIndustryRequired {
		t.Fatalf("expected ErrIndustryRequired, got %v", err)
	}
}
