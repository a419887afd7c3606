package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*InfoBlock)(nil)

// InfoBlock renders locally computed output such as summaries, query
// answers and help text. Body is shown as is; it is not rewrapped so
// tables keep their layout.
type InfoBlock struct {
	title  string
	body   string
	styles Styles
}

// NewInfoBlock creates an InfoBlock. title may be empty.
func NewInfoBlock(title, body string, styles Styles) *InfoBlock {
	return &InfoBlock{title: title, body: body, styles: styles}
}

func (b *InfoBlock) View(width int) string {
	var parts []string
	if b.title != "" {
		parts = append(parts, lipgloss.NewStyle().Width(width).Render(b.styles.Accent.Render(b.title)))
	}
	if body := strings.TrimRight(b.body, "\n"); body != "" {
		parts = append(parts, body)
	}
	return strings.Join(parts, "\n")
}
