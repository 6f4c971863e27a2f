package bitebybits

import (
	"strings"
	"testing"
)

func TestRenderBody(t *testing.T) {
	html := RenderBody("Some **bold** text and a [link](https://example.com).")
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("markdown emphasis not rendered: %q", html)
	}
	if !strings.Contains(html, `href="https://example.com"`) {
		t.Errorf("link not rendered: %q", html)
	}
}

func TestRenderBodyStripsScripts(t *testing.T) {
	html := RenderBody("Hello <script>alert(1)</script> world")
	if strings.Contains(html, "<script") {
		t.Errorf("script tag survived sanitization: %q", html)
	}
}

func TestPlainBody(t *testing.T) {
	plain := PlainBody("# Title\n\nSome **bold** text.")
	if strings.Contains(plain, "<") {
		t.Errorf("plain text contains markup: %q", plain)
	}
	if !strings.Contains(plain, "Some bold text.") {
		t.Errorf("plain text lost content: %q", plain)
	}
}
