// Package sanitize neutralises user supplied text, URLs and HTML fragments
// before they reach rendered output.
package sanitize

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Fallback is the URL returned for anything that is not allowed.
const Fallback = "#"

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy

	elementPattern   = regexp.MustCompile(`[^a-zA-Z0-9]`)
	attributePattern = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	propertyPattern  = regexp.MustCompile(`[^a-z-]`)
	blockedSchemes   = []string{"javascript:", "vbscript:", "data:text/html"}
)

func ugcPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
	})
	return policy
}

// EscapeHTML escapes & < > " and ' for use in text and attribute values.
func EscapeHTML(text string) string {
	return html.EscapeString(text)
}

// IsValidURL accepts relative paths, http(s) URLs and inline images.
// Protocol relative URLs ("//host") are rejected.
func IsValidURL(raw string) bool {
	if raw == "" {
		return false
	}
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "//"):
		return false
	case strings.HasPrefix(lower, "/"):
		return true
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return !strings.ContainsAny(raw, " \t\r\n")
	case strings.HasPrefix(lower, "data:image/"):
		return true
	default:
		return false
	}
}

// URL returns raw when it is a valid URL and Fallback otherwise.
func URL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	for _, scheme := range blockedSchemes {
		if strings.Contains(lower, scheme) {
			return Fallback
		}
	}
	if !IsValidURL(trimmed) {
		return Fallback
	}
	return trimmed
}

// Rejected reports whether a non-empty URL is replaced by Fallback.
func Rejected(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == Fallback {
		return false
	}
	return URL(trimmed) == Fallback
}

// HTML strips scripts, event handlers, frames and unsafe URLs from a fragment.
func HTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	return ugcPolicy().Sanitize(fragment)
}

// ElementName keeps alphanumerics only; an empty result becomes "div".
func ElementName(name string) string {
	cleaned := strings.ToLower(elementPattern.ReplaceAllString(name, ""))
	if cleaned == "" {
		return "div"
	}
	return cleaned
}

// AttributeName keeps alphanumerics, '-' and '_'. Event handlers and srcdoc
// are dropped by returning "".
func AttributeName(name string) string {
	cleaned := strings.ToLower(attributePattern.ReplaceAllString(name, ""))
	if strings.HasPrefix(cleaned, "on") || cleaned == "srcdoc" {
		return ""
	}
	return cleaned
}

// StyleProperty lowercases a CSS property name and keeps only letters and '-'.
func StyleProperty(name string) string {
	return propertyPattern.ReplaceAllString(strings.ToLower(name), "")
}

// IsURLAttribute reports attributes whose value is a URL.
func IsURLAttribute(name string) bool {
	switch strings.ToLower(name) {
	case "href", "src", "action", "formaction", "poster", "srcset", "cite", "background":
		return true
	default:
		return false
	}
}
