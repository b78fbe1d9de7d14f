package domain

import (
	"cmp"
	"slices"
)

// SiteConfig is the structured description of a generated site.
type SiteConfig struct {
	Brand      Brand  `json:"brand"`
	Theme      Theme  `json:"theme"`
	TemplateID string `json:"templateId,omitempty"`
	Layout     Layout `json:"layout"`
}

type Brand struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Logo     string `json:"logo,omitempty"`
}

type Theme struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	FontFamily     string `json:"fontFamily,omitempty"`
}

type Layout struct {
	Header   HeaderConfig    `json:"header"`
	Sections []SectionConfig `json:"sections"`
	Footer   FooterConfig    `json:"footer"`
}

type HeaderConfig struct {
	ShowLogo   bool             `json:"showLogo"`
	LogoURL    string           `json:"logoUrl,omitempty"`
	Navigation []NavigationItem `json:"navigation"`
}

// NavigationItem is a labelled link; footer links share the shape.
type NavigationItem struct {
	Label string `json:"label"`
	Href  string `json:"href"`
	Order int    `json:"order"`
}

type FooterLink = NavigationItem

// SectionConfig describes one layout section. Content keys depend on Type.
type SectionConfig struct {
	ID          string         `json:"id"`
	Type        SectionType    `json:"type"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Content     map[string]any `json:"content"`
	Order       int            `json:"order"`
	Visible     bool           `json:"visible"`
}

type FooterConfig struct {
	ShowBrand bool         `json:"showBrand"`
	Copyright string       `json:"copyright,omitempty"`
	Links     []FooterLink `json:"links"`
}

// VisibleSections returns the visible sections ordered by Order. Ties keep
// their declaration order.
func (c SiteConfig) VisibleSections() []SectionConfig {
	out := make([]SectionConfig, 0, len(c.Layout.Sections))
	for _, section := range c.Layout.Sections {
		if section.Visible {
			out = append(out, section)
		}
	}
	slices.SortStableFunc(out, func(a, b SectionConfig) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return out
}

// SortedLinks orders navigation or footer links by Order.
func SortedLinks(items []NavigationItem) []NavigationItem {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b NavigationItem) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return out
}

// Clone returns a deep copy; section content maps are copied recursively.
func (c SiteConfig) Clone() SiteConfig {
	out := c
	out.Layout.Header.Navigation = slices.Clone(c.Layout.Header.Navigation)
	out.Layout.Footer.Links = slices.Clone(c.Layout.Footer.Links)
	if c.Layout.Sections != nil {
		out.Layout.Sections = make([]SectionConfig, len(c.Layout.Sections))
		for i, section := range c.Layout.Sections {
			section.Content = CloneContent(section.Content)
			out.Layout.Sections[i] = section
		}
	}
	return out
}

// CloneContent deep copies JSON-shaped values.
func CloneContent(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return CloneContent(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(typed))
		for i, item := range typed {
			out[i] = CloneContent(item)
		}
		return out
	case []string:
		return slices.Clone(typed)
	default:
		return v
	}
}
