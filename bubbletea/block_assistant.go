package bubbletea

import (
	"fmt"

	"github.com/fwojciec/datasage"
	"github.com/fwojciec/datasage/goldmark"
)

var _ MessageBlock = (*AssistantBlock)(nil)

// AssistantBlock renders a completion as terminal markdown followed by a
// muted model and token line. Rendering is cached per width.
type AssistantBlock struct {
	completion datasage.Completion
	theme      datasage.Theme
	styles     Styles
	byWidth    map[int]string
}

// NewAssistantBlock creates a block for a completion.
func NewAssistantBlock(c datasage.Completion, theme datasage.Theme, styles Styles) *AssistantBlock {
	return &AssistantBlock{completion: c, theme: theme, styles: styles, byWidth: make(map[int]string)}
}

func (b *AssistantBlock) View(width int) string {
	if cached, ok := b.byWidth[width]; ok {
		return cached
	}
	view := goldmark.Render(b.completion.Text, width, b.theme)
	if footer := b.footer(); footer != "" {
		view += "\n" + b.styles.Muted.Render(footer)
	}
	b.byWidth[width] = view
	return view
}

func (b *AssistantBlock) footer() string {
	c := b.completion
	switch {
	case c.Model != "" && c.Usage.Total() > 0:
		return fmt.Sprintf("%s, %d tokens", c.Model, c.Usage.Total())
	case c.Model != "":
		return c.Model
	case c.Usage.Total() > 0:
		return fmt.Sprintf("%d tokens", c.Usage.Total())
	}
	return ""
}
