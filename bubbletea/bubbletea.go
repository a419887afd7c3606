// Package bubbletea provides the interactive DataSage chat TUI.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/datasage"
)

// AskFunc completes one action against the session and records the
// exchange. [datasage.Agent.Ask] satisfies it.
type AskFunc func(ctx context.Context, s *datasage.Session, act datasage.Action) (datasage.Result, error)

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. When ctx is cancelled, the program quits.
func Run(ctx context.Context, m Model) (Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		m = fm
	}
	return m, err
}

// AnswerMsg delivers the outcome of an ask to the model.
type AnswerMsg struct {
	Result datasage.Result
	Err    error
}
