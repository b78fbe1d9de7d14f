package markdown

import (
	"strings"
	"testing"
)

func TestRenderProducesHTML(t *testing.T) {
	r := NewRenderer(Options{})
	out, err := r.Render("## Our story\n\nWe **build** things.")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<strong>build</strong>") {
		t.Fatalf("expected bold text, got %q", out)
	}
	if !strings.Contains(out, "Our story") {
		t.Fatalf("expected heading text, got %q", out)
	}
}

func TestRenderDropsRawHTMLAndUnsafeLinks(t *testing.T) {
	r := NewRenderer(Options{})
	out, err := r.Render("hello <script>alert(1)</script>\n\n[click](javascript:alert(1))")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "<script") || strings.Contains(out, "javascript:") {
		t.Fatalf("expected unsafe content removed, got %q", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	out, err := NewRenderer(Options{Extensions: []string{"table", "unknown"}}).Render("   ")
	if err != nil || out != "" {
		t.Fatalf("expected empty output, got %q, %v", out, err)
	}
}
