package bubbletea

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/datasage"
)

var _ MessageBlock = (*ErrorBlock)(nil)

// ErrorBlock renders an error message with a hint for the user.
type ErrorBlock struct {
	err    error
	styles Styles
}

// NewErrorBlock creates an ErrorBlock.
func NewErrorBlock(err error, styles Styles) *ErrorBlock {
	return &ErrorBlock{err: err, styles: styles}
}

func (b *ErrorBlock) View(width int) string {
	content := b.styles.Error.Render(fmt.Sprintf("Error: %v", b.err))
	if hint := errorHint(b.err); hint != "" {
		content += "\n" + b.styles.Muted.Render(hint)
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, datasage.ErrTimeout):
		return "The model took too long. Try a shorter question or raise --timeout."
	case errors.Is(err, datasage.ErrProvider):
		return "The model provider rejected the request. Check the API key and model name."
	case errors.Is(err, datasage.ErrInvalidInput):
		return "Type /help to see what you can ask."
	}
	return ""
}
