package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const userPrefix = "> "

var _ MessageBlock = (*UserMessageBlock)(nil)

// UserMessageBlock shows a question or quick action label. Wrapped lines
// hang under the text, not under the prefix.
type UserMessageBlock struct {
	text   string
	styles Styles
}

// NewUserMessageBlock creates a UserMessageBlock.
func NewUserMessageBlock(text string, styles Styles) *UserMessageBlock {
	return &UserMessageBlock{text: text, styles: styles}
}

func (b *UserMessageBlock) View(width int) string {
	indent := len(userPrefix)
	body := lipgloss.NewStyle().Width(max(width-indent, 1)).Render(b.text)
	lines := strings.Split(body, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = b.styles.UserMsg.Render(userPrefix) + lines[i]
			continue
		}
		lines[i] = strings.Repeat(" ", indent) + lines[i]
	}
	return strings.Join(lines, "\n")
}
