package fallback

import (
	"strings"

	"github.com/goliatone/go-site-configurator/internal/blocks"
	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/sanitize"
	"github.com/goliatone/go-site-configurator/internal/util"
)

// ConfigToBlocks lays the configuration out as header, visible sections and
// footer. Every block receives a fresh id.
func (a *Adapter) ConfigToBlocks(cfg domain.SiteConfig) []blocks.Block {
	visible := cfg.VisibleSections()
	out := make([]blocks.Block, 0, len(visible)+2)
	out = append(out, a.headerBlock(cfg))
	for _, section := range visible {
		out = append(out, a.sectionBlock(section))
	}
	out = append(out, a.footerBlock(cfg))
	return out
}

func (a *Adapter) block(element string, classes ...string) blocks.Block {
	return blocks.Block{BlockID: a.ids(), Element: element, Classes: classes}
}

func (a *Adapter) textBlock(element, text string, classes ...string) blocks.Block {
	b := a.block(element, classes...)
	b.InnerText = text
	return b
}

func (a *Adapter) linkBlocks(items []domain.NavigationItem, class string) []blocks.Block {
	sorted := domain.SortedLinks(items)
	out := make([]blocks.Block, 0, len(sorted))
	for _, item := range sorted {
		link := a.textBlock("a", item.Label, class)
		link.Attributes = map[string]any{"href": item.Href}
		out = append(out, link)
	}
	return out
}

func (a *Adapter) headerBlock(cfg domain.SiteConfig) blocks.Block {
	logo := a.block("div", "header-logo")
	if src := headerLogo(cfg); src != "" {
		img := a.block("img", "logo-image")
		img.Attributes = map[string]any{"src": src, "alt": cfg.Brand.Name}
		img.BaseStyles = map[string]any{"height": "40px"}
		logo.Children = []blocks.Block{img}
	} else {
		logo.InnerText = cfg.Brand.Name
	}

	nav := a.block("nav", "header-nav")
	nav.Children = a.linkBlocks(cfg.Layout.Header.Navigation, "nav-link")

	header := a.block("header", "header")
	header.BaseStyles = map[string]any{
		"backgroundColor": cfg.Theme.PrimaryColor,
		"color":           "white",
		"padding":         "1rem 2rem",
		"display":         "flex",
		"justifyContent":  "space-between",
		"alignItems":      "center",
	}
	header.Children = []blocks.Block{logo, nav}
	return header
}

func headerLogo(cfg domain.SiteConfig) string {
	src := strings.TrimSpace(cfg.Layout.Header.LogoURL)
	if src == "" {
		src = strings.TrimSpace(cfg.Brand.Logo)
	}
	if src == "" || sanitize.Rejected(src) {
		return ""
	}
	return src
}

func (a *Adapter) sectionBlock(section domain.SectionConfig) blocks.Block {
	title := util.FirstNonEmpty(section.Title, contentString(section.Content, "title"))
	description := util.FirstNonEmpty(section.Description, contentString(section.Content, "description"), contentString(section.Content, "subtitle"))

	var children []blocks.Block
	if title != "" {
		element := "h2"
		if section.Type == domain.SectionHero {
			element = "h1"
		}
		children = append(children, a.textBlock(element, title, "section-title"))
	}
	if description != "" {
		children = append(children, a.textBlock("p", description, "section-description"))
	}

	switch section.Type {
	case domain.SectionHero:
		if cta := contentString(section.Content, "ctaText"); cta != "" {
			button := a.textBlock("a", cta, "cta-button")
			button.Attributes = map[string]any{"href": util.FirstNonEmpty(contentString(section.Content, "ctaHref"), "#")}
			children = append(children, button)
		}
	case domain.SectionServices:
		if items := a.serviceItems(section.Content["items"]); len(items) > 0 {
			grid := a.block("div", "services-grid")
			grid.Children = items
			children = append(children, grid)
		}
	case domain.SectionContact:
		if email := contentString(section.Content, "email"); email != "" {
			children = append(children, a.textBlock("p", "Email: "+email, "contact-email"))
		}
		if phone := contentString(section.Content, "phone"); phone != "" {
			children = append(children, a.textBlock("p", "Phone: "+phone, "contact-phone"))
		}
	case domain.SectionCustom:
		if text := contentString(section.Content, "text"); text != "" {
			rendered, err := a.markdown.Render(text)
			if err != nil {
				a.logger.Warn("custom section markdown failed", "section_id", section.ID, "error", err)
				children = append(children, a.textBlock("div", text, "section-body"))
			} else if rendered != "" {
				body := a.block("div", "section-body")
				body.InnerHTML = rendered
				children = append(children, body)
			}
		}
	}

	out := a.block("section", "section", "section-"+string(section.Type))
	out.CustomAttributes = map[string]any{"section-id": section.ID}
	out.BaseStyles = map[string]any{
		"padding":         "3rem 2rem",
		"maxWidth":        "1200px",
		"margin":          "0 auto",
		"backgroundColor": "white",
	}
	out.Children = children
	return out
}

func (a *Adapter) serviceItems(value any) []blocks.Block {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]blocks.Block, 0, len(list))
	for _, entry := range list {
		item := a.block("div", "service-item")
		switch typed := entry.(type) {
		case string:
			item.Children = []blocks.Block{a.textBlock("h3", typed)}
		case map[string]any:
			if title := contentString(typed, "title"); title != "" {
				item.Children = append(item.Children, a.textBlock("h3", title))
			}
			if desc := contentString(typed, "description"); desc != "" {
				item.Children = append(item.Children, a.textBlock("p", desc))
			}
		default:
			continue
		}
		out = append(out, item)
	}
	return out
}

func (a *Adapter) footerBlock(cfg domain.SiteConfig) blocks.Block {
	links := a.block("div", "footer-links")
	links.Children = a.linkBlocks(cfg.Layout.Footer.Links, "footer-link")

	footer := a.block("footer", "footer")
	footer.BaseStyles = map[string]any{
		"backgroundColor": "#2d3748",
		"color":           "white",
		"padding":         "2rem",
		"textAlign":       "center",
	}
	footer.Children = []blocks.Block{links}
	if cfg.Layout.Footer.ShowBrand && cfg.Brand.Name != "" {
		footer.Children = append(footer.Children, a.textBlock("p", cfg.Brand.Name, "footer-brand"))
	}
	footer.Children = append(footer.Children, a.textBlock("p", cfg.Layout.Footer.Copyright, "copyright"))
	return footer
}

func contentString(content map[string]any, key string) string {
	if content == nil {
		return ""
	}
	value, _ := content[key].(string)
	return strings.TrimSpace(value)
}

