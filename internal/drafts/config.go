package drafts

import (
	"strings"

	"github.com/goliatone/go-site-configurator/internal/domain"
	configvalidation "github.com/goliatone/go-site-configurator/internal/validation"
)

// ConfigFromSteps collects brand values from completed wizard steps. Later
// steps override earlier ones; everything else is left zero.
func ConfigFromSteps(steps []domain.WizardStep) domain.SiteConfig {
	var cfg domain.SiteConfig
	for _, step := range steps {
		if !step.Completed {
			continue
		}
		switch domain.NormalizeStepType(string(step.StepType)) {
		case domain.StepBrandName:
			if name := stringValue(step.Data, "brandName"); name != "" {
				cfg.Brand.Name = name
			}
		case domain.StepIndustry:
			if industry := stringValue(step.Data, "industry"); industry != "" {
				cfg.Brand.Industry = industry
			}
		case domain.StepLogo:
			if logo := stringValue(step.Data, "logoUrl", "url"); logo != "" {
				cfg.Brand.Logo = logo
			}
		}
	}
	return cfg
}

// MergeConfigs overlays the non-zero fields of override onto base. Sections
// and link lists replace the base lists when present.
func MergeConfigs(base, override domain.SiteConfig) domain.SiteConfig {
	out := base.Clone()

	setString(&out.Brand.Name, override.Brand.Name)
	setString(&out.Brand.Industry, override.Brand.Industry)
	setString(&out.Brand.Logo, override.Brand.Logo)

	setString(&out.Theme.PrimaryColor, override.Theme.PrimaryColor)
	setString(&out.Theme.SecondaryColor, override.Theme.SecondaryColor)
	setString(&out.Theme.FontFamily, override.Theme.FontFamily)

	setString(&out.TemplateID, override.TemplateID)

	patch := override.Clone()
	if patch.Layout.Header.ShowLogo {
		out.Layout.Header.ShowLogo = true
	}
	setString(&out.Layout.Header.LogoURL, patch.Layout.Header.LogoURL)
	if len(patch.Layout.Header.Navigation) > 0 {
		out.Layout.Header.Navigation = patch.Layout.Header.Navigation
	}
	if len(patch.Layout.Sections) > 0 {
		out.Layout.Sections = patch.Layout.Sections
	}
	if patch.Layout.Footer.ShowBrand {
		out.Layout.Footer.ShowBrand = true
	}
	setString(&out.Layout.Footer.Copyright, patch.Layout.Footer.Copyright)
	if len(patch.Layout.Footer.Links) > 0 {
		out.Layout.Footer.Links = patch.Layout.Footer.Links
	}
	return out
}

// ValidateConfig lists every structural problem of cfg; empty means valid.
func ValidateConfig(cfg domain.SiteConfig) []configvalidation.ValidationIssue {
	return configvalidation.SiteConfig(cfg)
}

func setString(target *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*target = trimmed
	}
}

func stringValue(data map[string]any, keys ...string) string {
	for _, key := range keys {
		if raw, ok := data[key].(string); ok {
			if trimmed := strings.TrimSpace(raw); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
