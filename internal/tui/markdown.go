package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MarkdownWrapWidth is the word-wrap width used for rendered markdown.
const MarkdownWrapWidth = 80

//nolint:gochecknoglobals // Cached renderer, built on first use
var (
	glamourRenderer     *glamour.TermRenderer
	glamourRendererOnce sync.Once
)

// getGlamourRenderer returns the cached glamour renderer, or nil if it could
// not be built.
func getGlamourRenderer() *glamour.TermRenderer {
	glamourRendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(MarkdownWrapWidth),
		)
		if err == nil {
			glamourRenderer = r
		}
	})
	return glamourRenderer
}

// RenderMarkdown renders md for the terminal. The input is returned unchanged
// (with a trailing newline) when rendering is unavailable or fails.
func RenderMarkdown(md string) string {
	if r := getGlamourRenderer(); r != nil {
		if out, err := r.Render(md); err == nil {
			return out
		}
	}
	if !strings.HasSuffix(md, "\n") {
		md += "\n"
	}
	return md
}

// Title converts an identifier such as "ecommerce" or "seo-specialist" into a
// display title ("Ecommerce", "Seo Specialist").
func Title(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return cases.Title(language.English).String(s)
}
