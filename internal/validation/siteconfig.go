package validation

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-site-configurator/internal/domain"
)

// SiteConfig validates cfg against the site-config schema and the rules the
// schema cannot express. It returns every issue found; nil means valid.
func SiteConfig(cfg domain.SiteConfig) []ValidationIssue {
	issues := []ValidationIssue{}
	if err := Validate(SchemaSiteConfig, cfg); err != nil {
		issues = append(issues, Issues(err)...)
	}

	issues = append(issues, linkIssues("/layout/header/navigation", cfg.Layout.Header.Navigation)...)
	issues = append(issues, linkIssues("/layout/footer/links", cfg.Layout.Footer.Links)...)

	seen := make(map[string]int, len(cfg.Layout.Sections))
	for i, section := range cfg.Layout.Sections {
		id := strings.TrimSpace(section.ID)
		if id == "" {
			continue
		}
		if first, ok := seen[id]; ok {
			issues = append(issues, ValidationIssue{
				Location: fmt.Sprintf("/layout/sections/%d/id", i),
				Message:  fmt.Sprintf("duplicate section id %q (first at index %d)", id, first),
			})
			continue
		}
		seen[id] = i
	}

	if len(issues) == 0 {
		return nil
	}
	return issues
}

func linkIssues(base string, items []domain.NavigationItem) []ValidationIssue {
	var issues []ValidationIssue
	for i, item := range items {
		if item.Order <= 0 {
			issues = append(issues, ValidationIssue{
				Location: fmt.Sprintf("%s/%d/order", base, i),
				Message:  "order must be positive",
			})
		}
		if strings.TrimSpace(item.Label) == "" {
			issues = append(issues, ValidationIssue{
				Location: fmt.Sprintf("%s/%d/label", base, i),
				Message:  "label is required",
			})
		}
	}
	return issues
}
