// Package templates turns wizard input into a SiteConfig through one
// SiteTemplate per industry.
package templates

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/identity"
)

// DefaultFontFamily is applied to every generated theme.
const DefaultFontFamily = "Inter, sans-serif"

// TemplateInput is the wizard data a template consumes.
type TemplateInput struct {
	BrandName string
	Industry  string
	// Logo is the public URL of the uploaded logo, if any.
	Logo string
	// Look selects the HTML look used when rendering; copied to SiteConfig.TemplateID.
	Look string
	// Now supplies the copyright year. Zero means time.Now().
	Now time.Time
}

// SiteTemplate generates a site for one industry. Implementations are
// stateless and Apply is a pure function of its input.
type SiteTemplate interface {
	ID() string
	Name() string
	Industry() string
	Version() int
	Apply(input TemplateInput) domain.SiteConfig
}

type colorPair struct {
	primary   string
	secondary string
}

var (
	industryColors = map[string]colorPair{
		"tech":        {"#3B82F6", "#60A5FA"},
		"retail":      {"#10B981", "#34D399"},
		"education":   {"#8B5CF6", "#A78BFA"},
		"healthcare":  {"#EF4444", "#F87171"},
		"finance":     {"#F59E0B", "#FBBF24"},
		"real-estate": {"#06B6D4", "#22D3EE"},
		"restaurant":  {"#EC4899", "#F472B6"},
		"beauty":      {"#F97316", "#FB923C"},
		"sports":      {"#14B8A6", "#2DD4BF"},
		"art":         {"#A855F7", "#C084FC"},
		"consulting":  {"#6366F1", "#818CF8"},
		"other":       {"#6B7280", "#9CA3AF"},
	}
	defaultColors = colorPair{"#3B82F6", "#60A5FA"}
)

// ThemeFor returns the color pair for an industry key, defaulting for unknown keys.
func ThemeFor(industry string) domain.Theme {
	colors, ok := industryColors[normalizeIndustry(industry)]
	if !ok {
		colors = defaultColors
	}
	return domain.Theme{
		PrimaryColor:   colors.primary,
		SecondaryColor: colors.secondary,
		FontFamily:     DefaultFontFamily,
	}
}

// sectionSpec is a section before identity is assigned.
type sectionSpec struct {
	kind    domain.SectionType
	order   int
	content map[string]any
}

// variant is the single SiteTemplate implementation; industries differ only
// in data.
type variant struct {
	id         string
	name       string
	industry   string
	version    int
	navigation []domain.NavigationItem
	footer     []domain.FooterLink
	sections   func(in TemplateInput) []sectionSpec
}

func (v *variant) ID() string       { return v.id }
func (v *variant) Name() string     { return v.name }
func (v *variant) Industry() string { return v.industry }
func (v *variant) Version() int     { return v.version }

func (v *variant) Apply(in TemplateInput) domain.SiteConfig {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	brand := strings.TrimSpace(in.BrandName)
	logo := strings.TrimSpace(in.Logo)

	specs := v.sections(in)
	sections := make([]domain.SectionConfig, 0, len(specs))
	for _, spec := range specs {
		sections = append(sections, v.buildSection(spec))
	}

	return domain.SiteConfig{
		Brand: domain.Brand{
			Name:     brand,
			Industry: in.Industry,
			Logo:     logo,
		},
		Theme:      ThemeFor(in.Industry),
		TemplateID: strings.TrimSpace(in.Look),
		Layout: domain.Layout{
			Header: domain.HeaderConfig{
				ShowLogo:   logo != "",
				LogoURL:    logo,
				Navigation: cloneLinks(v.navigation),
			},
			Sections: sections,
			Footer: domain.FooterConfig{
				ShowBrand: true,
				Copyright: fmt.Sprintf("© %d %s. All rights reserved.", now.Year(), brand),
				Links:     cloneLinks(v.footer),
			},
		},
	}
}

func (v *variant) buildSection(spec sectionSpec) domain.SectionConfig {
	section := domain.SectionConfig{
		ID:      identity.SectionID(v.id, string(spec.kind), spec.order),
		Type:    spec.kind,
		Content: domain.CloneContent(spec.content),
		Order:   spec.order,
		Visible: true,
	}
	if title, ok := spec.content["title"].(string); ok {
		section.Title = title
	}
	if desc, ok := spec.content["description"].(string); ok {
		section.Description = desc
	} else if subtitle, ok := spec.content["subtitle"].(string); ok {
		section.Description = subtitle
	}
	return section
}

func cloneLinks(items []domain.NavigationItem) []domain.NavigationItem {
	out := make([]domain.NavigationItem, len(items))
	copy(out, items)
	return out
}

func hero(in TemplateInput, title, subtitle string) sectionSpec {
	if title == "" {
		title = "Welcome to " + strings.TrimSpace(in.BrandName)
	}
	if subtitle == "" {
		subtitle = "We specialize in " + strings.TrimSpace(in.Industry)
	}
	return sectionSpec{
		kind:    domain.SectionHero,
		order:   1,
		content: map[string]any{"title": title, "subtitle": subtitle},
	}
}

func about(in TemplateInput, order int) sectionSpec {
	return sectionSpec{
		kind:  domain.SectionAbout,
		order: order,
		content: map[string]any{
			"title":       "About us",
			"description": fmt.Sprintf("We are %s, a company in %s.", strings.TrimSpace(in.BrandName), strings.TrimSpace(in.Industry)),
		},
	}
}

func contact(order int) sectionSpec {
	return sectionSpec{
		kind:  domain.SectionContact,
		order: order,
		content: map[string]any{
			"title": "Contact us",
			"email": "info@example.com",
		},
	}
}

type item struct{ title, description string }

func services(order int, title, description string, items ...item) sectionSpec {
	list := make([]any, 0, len(items))
	for _, it := range items {
		list = append(list, map[string]any{"title": it.title, "description": it.description})
	}
	content := map[string]any{"title": title, "items": list}
	if description != "" {
		content["description"] = description
	}
	return sectionSpec{kind: domain.SectionServices, order: order, content: content}
}

func custom(order int, title, description, text string) sectionSpec {
	content := map[string]any{"title": title, "description": description}
	if text != "" {
		content["text"] = text
	}
	return sectionSpec{kind: domain.SectionCustom, order: order, content: content}
}

func nav(pairs ...string) []domain.NavigationItem {
	out := make([]domain.NavigationItem, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.NavigationItem{Label: pairs[i], Href: pairs[i+1], Order: len(out) + 1})
	}
	return out
}
