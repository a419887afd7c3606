package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/datasage"
	bt "github.com/fwojciec/datasage/bubbletea"
	"github.com/stretchr/testify/require"
)

func salesSession(t *testing.T) *datasage.Session {
	t.Helper()
	d, err := datasage.NewDataset("sales.csv", []string{"region", "sales"}, [][]string{
		{"north", "10"},
		{"south", "20"},
		{"north", "30"},
		{"east", ""},
	})
	require.NoError(t, err)
	return datasage.NewSession(&d)
}

// initModel creates a model over s and sends a WindowSizeMsg to initialize
// the viewport.
func initModel(t *testing.T, ask bt.AskFunc, s *datasage.Session) bt.Model {
	t.Helper()
	return initModelWithSize(t, ask, s, 80, 24)
}

func initModelWithSize(t *testing.T, ask bt.AskFunc, s *datasage.Session, width, height int) bt.Model {
	t.Helper()
	m := bt.New(ask, s, datasage.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// typeLine sets the input and presses enter, returning the model and cmd.
func typeLine(t *testing.T, m bt.Model, text string) (bt.Model, tea.Cmd) {
	t.Helper()
	m.Input.SetValue(text)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model, cmd
}

// echoAsk answers with the instruction and records the exchange.
func echoAsk(_ context.Context, s *datasage.Session, act datasage.Action) (datasage.Result, error) {
	c := datasage.Completion{Text: "You asked: " + act.Instruction, Model: "test-model", Usage: datasage.Usage{InputTokens: 3, OutputTokens: 4}}
	s.Record(act.Instruction, c)
	return datasage.Result{Completion: c}, nil
}

// nopAsk fails the test if the model is consulted.
func nopAsk(t *testing.T) bt.AskFunc {
	return func(context.Context, *datasage.Session, datasage.Action) (datasage.Result, error) {
		t.Error("ask should not be called")
		return datasage.Result{}, nil
	}
}
