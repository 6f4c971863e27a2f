package bitebybits

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
	stripper  = bluemonday.StrictPolicy()
)

// RenderBody converts a post's markdown body to sanitized HTML.
func RenderBody(body string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(body), &buf); err != nil {
		// Fall back to the escaped source rather than dropping the post.
		return sanitizer.Sanitize(body)
	}
	return sanitizer.Sanitize(buf.String())
}

// PlainBody reduces a post's markdown body to plain text, for feed summaries.
func PlainBody(body string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(body), &buf); err != nil {
		return strings.TrimSpace(stripper.Sanitize(body))
	}
	return strings.TrimSpace(stripper.Sanitize(buf.String()))
}
