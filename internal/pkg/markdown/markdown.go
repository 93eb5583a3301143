package markdown

import (
	"bytes"
	"strings"

	"github.com/portfolio-site/core/internal/pkg/htmlsafe"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

// Render converts markdown to sanitized HTML. Raw HTML in the source is dropped
// by goldmark and anything unsafe left over is removed by the UGC policy.
func Render(source string) (string, error) {
	text := strings.TrimSpace(source)
	if text == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := engine.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return htmlsafe.UGC(buf.String()), nil
}
