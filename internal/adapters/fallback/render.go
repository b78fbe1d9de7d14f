package fallback

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-site-configurator/internal/adapters"
	"github.com/goliatone/go-site-configurator/internal/blocks"
	"github.com/goliatone/go-site-configurator/internal/sanitize"
)

const defaultTitle = "Site Preview"

const baseCSS = `
* {
  margin: 0;
  padding: 0;
  box-sizing: border-box;
}
body {
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
  line-height: 1.6;
  color: #333;
}
`

var (
	kebabBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

	voidElements = map[string]bool{
		"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
		"img": true, "input": true, "link": true, "meta": true, "source": true, "track": true, "wbr": true,
	}
)

func renderBlocks(b *strings.Builder, list []blocks.Block) {
	for i, block := range list {
		if i > 0 {
			b.WriteByte('\n')
		}
		renderBlock(b, block)
	}
}

func renderBlock(b *strings.Builder, block blocks.Block) {
	tag := sanitize.ElementName(block.Element)

	b.WriteByte('<')
	b.WriteString(tag)
	writeAttributes(b, block)
	if len(block.Classes) > 0 {
		fmt.Fprintf(b, ` class="%s"`, sanitize.EscapeHTML(strings.Join(block.Classes, " ")))
	}
	if styles := buildStyles(block); styles != "" {
		fmt.Fprintf(b, ` style="%s"`, sanitize.EscapeHTML(styles))
	}
	b.WriteByte('>')

	if voidElements[tag] {
		return
	}

	switch {
	case block.InnerHTML != "":
		b.WriteString(sanitize.HTML(block.InnerHTML))
	case block.InnerText != "":
		b.WriteString(sanitize.EscapeHTML(block.InnerText))
	case len(block.Children) > 0:
		renderBlocks(b, block.Children)
	}

	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
}

func writeAttributes(b *strings.Builder, block blocks.Block) {
	for _, key := range sortedKeys(block.Attributes) {
		name := sanitize.AttributeName(key)
		if name == "" {
			continue
		}
		value := stringify(block.Attributes[key])
		if sanitize.IsURLAttribute(name) {
			value = sanitize.URL(value)
		}
		fmt.Fprintf(b, ` %s="%s"`, name, sanitize.EscapeHTML(value))
	}
	for _, key := range sortedKeys(block.CustomAttributes) {
		name := sanitize.AttributeName(key)
		if name == "" {
			continue
		}
		fmt.Fprintf(b, ` data-%s="%s"`, name, sanitize.EscapeHTML(stringify(block.CustomAttributes[key])))
	}
	fmt.Fprintf(b, ` data-block-id="%s"`, sanitize.EscapeHTML(block.BlockID))
}

// buildStyles merges baseStyles with rawStyles; raw wins on conflicts.
func buildStyles(block blocks.Block) string {
	if len(block.BaseStyles) == 0 && len(block.RawStyles) == 0 {
		return ""
	}
	merged := make(map[string]any, len(block.BaseStyles)+len(block.RawStyles))
	for k, v := range block.BaseStyles {
		merged[k] = v
	}
	for k, v := range block.RawStyles {
		merged[k] = v
	}

	parts := make([]string, 0, len(merged))
	for _, key := range sortedKeys(merged) {
		property := sanitize.StyleProperty(camelToKebab(key))
		value := stringify(merged[key])
		if property == "" || unsafeStyleValue(value) {
			continue
		}
		parts = append(parts, property+": "+value)
	}
	return strings.Join(parts, "; ")
}

func unsafeStyleValue(value string) bool {
	lower := strings.ToLower(value)
	return strings.Contains(lower, "javascript:") || strings.Contains(lower, "expression(")
}

func camelToKebab(value string) string {
	return strings.ToLower(kebabBoundary.ReplaceAllString(value, "$1-$2"))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

func wrapDocument(body, css string, opts adapters.RenderOptions) string {
	meta := opts.Meta()
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = defaultTitle
	}

	var head strings.Builder
	fmt.Fprintf(&head, "  <title>%s</title>\n", sanitize.EscapeHTML(title))
	if meta.Description != "" {
		fmt.Fprintf(&head, "  <meta name=\"description\" content=\"%s\">\n", sanitize.EscapeHTML(meta.Description))
	}
	if meta.CanonicalURL != "" {
		fmt.Fprintf(&head, "  <link rel=\"canonical\" href=\"%s\">\n", sanitize.EscapeHTML(sanitize.URL(meta.CanonicalURL)))
	}
	if !opts.InlineCSS && opts.CSSPath != "" {
		fmt.Fprintf(&head, "  <link rel=\"stylesheet\" href=\"%s\">\n", sanitize.EscapeHTML(sanitize.URL(opts.CSSPath)))
	}
	if opts.InlineCSS {
		fmt.Fprintf(&head, "  <style>%s</style>\n", css)
	}

	return "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n" +
		"  <meta charset=\"UTF-8\">\n" +
		"  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n" +
		head.String() +
		"</head>\n<body>\n" + body + "\n</body>\n</html>"
}
