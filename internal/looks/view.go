package looks

import (
	"encoding/json"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/markdown"
	"github.com/goliatone/go-site-configurator/internal/sanitize"
	"github.com/goliatone/go-site-configurator/internal/util"
)

const (
	defaultPrimary   = "#3B82F6"
	defaultSecondary = "#60A5FA"
	defaultFont      = "Inter, sans-serif"
)

var (
	hexColor      = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	functionColor = regexp.MustCompile(`^(rgb|rgba|hsl|hsla)\([0-9.,%\s]+\)$`)
	namedColor    = regexp.MustCompile(`^[a-zA-Z]{3,24}$`)
	fontStack     = regexp.MustCompile(`^[a-zA-Z0-9 ,'"-]{1,200}$`)
	fragmentLink  = regexp.MustCompile(`^#[a-zA-Z0-9_-]*$`)
)

type pageView struct {
	Lang         string
	Title        string
	Description  string
	CanonicalURL template.URL
	Stylesheets  []template.URL
	InlineCSS    template.CSS
	Brand        string
	LogoURL      template.URL
	ShowBrand    bool
	Navigation   []linkView
	Sections     []sectionView
	FooterLinks  []linkView
	Copyright    string
}

type linkView struct {
	Label string
	Href  template.URL
}

type itemView struct {
	Title       string
	Description string
}

type sectionView struct {
	ID          string
	Type        string
	Title       string
	Subtitle    string
	Description string
	CTAText     string
	CTAHref     template.URL
	Items       []itemView
	Email       string
	Phone       string
	Paragraphs  []string
	Body        template.HTML
	Raw         string
}

type cssView struct {
	Primary    string
	Secondary  string
	FontFamily string
}

// Color returns value when it is a hex, rgb/hsl or named CSS color and
// fallback otherwise.
func Color(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if hexColor.MatchString(trimmed) || functionColor.MatchString(trimmed) || namedColor.MatchString(trimmed) {
		return trimmed
	}
	return fallback
}

// FontFamily returns value when it only contains characters valid in a font
// stack and fallback otherwise.
func FontFamily(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if fontStack.MatchString(trimmed) {
		return trimmed
	}
	return fallback
}

func newCSSView(theme domain.Theme) cssView {
	return cssView{
		Primary:    Color(theme.PrimaryColor, defaultPrimary),
		Secondary:  Color(theme.SecondaryColor, defaultSecondary),
		FontFamily: FontFamily(theme.FontFamily, defaultFont),
	}
}

// safeHref allows in-page anchors and mail links on top of sanitize.URL.
func safeHref(raw string) template.URL {
	trimmed := strings.TrimSpace(raw)
	if fragmentLink.MatchString(trimmed) {
		return template.URL(trimmed)
	}
	return template.URL(sanitize.URL(trimmed))
}

func links(items []domain.NavigationItem) []linkView {
	sorted := domain.SortedLinks(items)
	out := make([]linkView, 0, len(sorted))
	for _, item := range sorted {
		out = append(out, linkView{Label: item.Label, Href: safeHref(item.Href)})
	}
	return out
}

func newPageView(cfg domain.SiteConfig, opts Options, css string, md *markdown.Renderer) (pageView, error) {
	brand := strings.TrimSpace(cfg.Brand.Name)
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = brand
	}
	view := pageView{
		Lang:        "en",
		Title:       title,
		Description: opts.Description,
		Brand:       brand,
		ShowBrand:   cfg.Layout.Footer.ShowBrand,
		Navigation:  links(cfg.Layout.Header.Navigation),
		FooterLinks: links(cfg.Layout.Footer.Links),
		Copyright:   cfg.Layout.Footer.Copyright,
	}
	if canonical := strings.TrimSpace(opts.CanonicalURL); canonical != "" && !sanitize.Rejected(canonical) {
		view.CanonicalURL = template.URL(sanitize.URL(canonical))
	}
	if opts.InlineCSS {
		view.InlineCSS = template.CSS(css)
	} else if path := strings.TrimSpace(opts.CSSPath); path != "" && !sanitize.Rejected(path) {
		view.Stylesheets = append(view.Stylesheets, template.URL(sanitize.URL(path)))
	}
	if logo := logoURL(cfg); logo != "" {
		view.LogoURL = template.URL(logo)
	}

	for _, section := range cfg.VisibleSections() {
		sv, err := newSectionView(section, md)
		if err != nil {
			return pageView{}, err
		}
		view.Sections = append(view.Sections, sv)
	}
	return view, nil
}

func logoURL(cfg domain.SiteConfig) string {
	if !cfg.Layout.Header.ShowLogo {
		return ""
	}
	raw := strings.TrimSpace(cfg.Layout.Header.LogoURL)
	if raw == "" {
		raw = strings.TrimSpace(cfg.Brand.Logo)
	}
	if raw == "" || sanitize.Rejected(raw) {
		return ""
	}
	return sanitize.URL(raw)
}

func newSectionView(section domain.SectionConfig, md *markdown.Renderer) (sectionView, error) {
	content := section.Content
	sv := sectionView{
		ID:          section.ID,
		Type:        string(section.Type),
		Title:       util.FirstNonEmpty(section.Title, stringField(content, "title")),
		Description: util.FirstNonEmpty(section.Description, stringField(content, "description")),
	}

	switch section.Type {
	case domain.SectionHero:
		sv.Subtitle = util.FirstNonEmpty(stringField(content, "subtitle"), section.Description)
		sv.CTAText = stringField(content, "ctaText")
		if sv.CTAText != "" {
			sv.CTAHref = safeHref(util.FirstNonEmpty(stringField(content, "ctaHref"), "#"))
		}
	case domain.SectionAbout:
		sv.Type = string(domain.SectionCustom)
		sv.Title = util.FirstNonEmpty(sv.Title, "About us")
		if sv.Description != "" {
			sv.Paragraphs = []string{sv.Description}
		}
	case domain.SectionServices:
		sv.Title = util.FirstNonEmpty(sv.Title, "Services")
		sv.Items = serviceItems(content["items"])
	case domain.SectionContact:
		sv.Title = util.FirstNonEmpty(sv.Title, "Contact")
		sv.Email = stringField(content, "email")
		sv.Phone = stringField(content, "phone")
	default:
		sv.Type = string(domain.SectionCustom)
		sv.Title = util.FirstNonEmpty(sv.Title, "Section")
		if sv.Description != "" {
			sv.Paragraphs = append(sv.Paragraphs, sv.Description)
		}
		if text := stringField(content, "content"); text != "" {
			sv.Paragraphs = append(sv.Paragraphs, text)
		}
		if text := stringField(content, "text"); text != "" {
			body, err := md.Render(text)
			if err != nil {
				return sectionView{}, err
			}
			sv.Body = template.HTML(body)
		}
		if len(sv.Paragraphs) == 0 && sv.Body == "" && len(content) > 0 {
			raw, err := json.MarshalIndent(content, "", "  ")
			if err != nil {
				return sectionView{}, fmt.Errorf("looks: encode section %q content: %w", section.ID, err)
			}
			sv.Raw = string(raw)
		}
	}
	return sv, nil
}

func serviceItems(value any) []itemView {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]itemView, 0, len(list))
	for _, entry := range list {
		switch typed := entry.(type) {
		case string:
			out = append(out, itemView{Title: typed})
		case map[string]any:
			out = append(out, itemView{
				Title:       stringField(typed, "title"),
				Description: stringField(typed, "description"),
			})
		}
	}
	return out
}

func stringField(content map[string]any, key string) string {
	if content == nil {
		return ""
	}
	value, _ := content[key].(string)
	return strings.TrimSpace(value)
}

