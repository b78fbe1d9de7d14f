package sanitize

import (
	"strings"
	"testing"
)

func TestEscapeHTML(t *testing.T) {
	got := EscapeHTML(`<b>"Tom" & 'Jerry'</b>`)
	want := "&lt;b&gt;&#34;Tom&#34; &amp; &#39;Jerry&#39;&lt;/b&gt;"
	if got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}

func TestURL(t *testing.T) {
	cases := map[string]string{
		"/about":                     "/about",
		"https://example.com/a":      "https://example.com/a",
		"http://example.com":         "http://example.com",
		"data:image/png;base64,AAAA": "data:image/png;base64,AAAA",
		"javascript:alert(1)":        Fallback,
		"JavaScript:/alert(1)":       Fallback,
		"data:text/html,<b>x</b>":    Fallback,
		"//evil.example.com":         Fallback,
		"mailto:a@b.c":               Fallback,
		"":                           Fallback,
		"  /padded  ":                "/padded",
	}
	for input, want := range cases {
		if got := URL(input); got != want {
			t.Fatalf("URL(%q): expected %q got %q", input, want, got)
		}
	}
}

func TestRejected(t *testing.T) {
	if Rejected("") || Rejected("#") || Rejected("/ok") {
		t.Fatalf("expected empty, fallback and relative urls to pass")
	}
	if !Rejected("javascript:void(0)") {
		t.Fatalf("expected javascript url to be rejected")
	}
}

func TestHTMLRemovesScriptsAndHandlers(t *testing.T) {
	out := HTML(`<p onclick="steal()">hi<script>alert(1)</script><img src="x" onerror="boom()"><a href="javascript:alert(1)">x</a></p>`)
	for _, bad := range []string{"<script", "onclick", "onerror", "javascript:"} {
		if strings.Contains(out, bad) {
			t.Fatalf("expected %q to be removed, got %q", bad, out)
		}
	}
	if !strings.Contains(out, "hi") {
		t.Fatalf("expected text to survive, got %q", out)
	}
}

func TestElementAndAttributeNames(t *testing.T) {
	if got := ElementName(`script"><img`); got != "scriptimg" {
		t.Fatalf("unexpected element name %q", got)
	}
	if got := ElementName("<>"); got != "div" {
		t.Fatalf("expected div fallback, got %q", got)
	}
	if got := AttributeName(`aria-label"`); got != "aria-label" {
		t.Fatalf("unexpected attribute name %q", got)
	}
	if got := AttributeName("srcDoc"); got != "" {
		t.Fatalf("expected srcdoc dropped, got %q", got)
	}
	if got := StyleProperty(`color:red;background"`); got != "colorredbackground" {
		t.Fatalf("unexpected style property %q", got)
	}
	if got := StyleProperty("-webkit-line-clamp"); got != "-webkit-line-clamp" {
		t.Fatalf("expected vendor prefix kept, got %q", got)
	}
	if got := AttributeName("onError"); got != "" {
		t.Fatalf("expected event handler to be dropped, got %q", got)
	}
}
