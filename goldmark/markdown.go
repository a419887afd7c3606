// Package goldmark renders completions and dataset summaries as ANSI-styled
// terminal output using goldmark for parsing and lipgloss for styling.
package goldmark

import (
	"context"
	"io"

	"github.com/fwojciec/datasage"
)

const defaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are
// rendered at full width without reflow; tables are fitted to width.
func Render(source string, width int, theme datasage.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}

// Renderer is the terminal markdown [datasage.Renderer].
type Renderer struct {
	Width int // 0 = 80 columns
	Theme datasage.Theme
}

// NewRenderer returns a Renderer using the default theme.
func NewRenderer(width int) Renderer {
	return Renderer{Width: width, Theme: datasage.DefaultTheme()}
}

// Interface compliance check.
var _ datasage.Renderer = Renderer{}

// Render implements [datasage.Renderer].
func (r Renderer) Render(_ context.Context, out datasage.Output, w io.Writer) error {
	s := Render(out.Completion.Text, r.Width, r.Theme)
	_, err := io.WriteString(w, s+"\n")
	return err
}
