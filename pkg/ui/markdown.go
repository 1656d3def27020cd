package ui

import (
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders detail cards with glamour, falling back to the
// raw markdown when glamour is unavailable.
type MarkdownRenderer struct {
	r     *glamour.TermRenderer
	width int
}

// NewMarkdownRenderer returns a renderer wrapping at width cells.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	width = max(width, 20)
	style := "dark"
	if TermProfile < colorprofile.ANSI {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r = nil
	}
	return &MarkdownRenderer{r: r, width: width}
}

// Width returns the wrap width.
func (m *MarkdownRenderer) Width() int {
	return m.width
}

// Render converts md to styled terminal text.
func (m *MarkdownRenderer) Render(md string) string {
	if m == nil || m.r == nil {
		return md
	}
	out, err := m.r.Render(md)
	if err != nil {
		return md
	}
	// Strip trailing whitespace/newlines that glamour adds
	return strings.TrimRight(out, " \n")
}
