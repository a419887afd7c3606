package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/datasage"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the DataSage chat.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model
	// Spinner is shown in the status line while a question is answered.
	Spinner spinner.Model

	ask     AskFunc
	session *datasage.Session
	theme   datasage.Theme
	styles  Styles

	blocks []MessageBlock

	running bool
	cancel  context.CancelFunc
	err     error
	ready   bool
}

// New creates a chat Model over session, which may hold no dataset.
func New(ask AskFunc, session *datasage.Session, theme datasage.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about your data, or /help"
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:   ti,
		Spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		ask:     ask,
		session: session,
		theme:   theme,
		styles:  NewStyles(theme),
	}
}

// Running returns whether a question is being answered.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Session returns the session the chat records into.
func (m Model) Session() *datasage.Session { return m.session }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case AnswerMsg:
		return m.handleAnswer(msg)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := max(msg.Height-inputH-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m = m.renderSession()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		m.Input.SetValue("")
		m.err = nil
		if strings.HasPrefix(text, "/") {
			return m.runCommand(text)
		}
		return m.start(text, datasage.Action{Instruction: text})
	}

	if m.running {
		return m, nil
	}
	// Only non-character keys scroll the viewport so typing "j" or "k"
	// does not.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// start shows label as the user turn and asks act in the background.
func (m Model) start(label string, act datasage.Action) (tea.Model, tea.Cmd) {
	m = m.appendBlock(NewUserMessageBlock(label, m.styles))

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.Input.Blur()

	return m, tea.Batch(askCmd(ctx, m.ask, m.session, act), m.Spinner.Tick)
}

func (m Model) handleAnswer(msg AnswerMsg) (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
	m.cancel = nil
	switch {
	case errors.Is(msg.Err, context.Canceled):
		m = m.appendBlock(NewInfoBlock("", m.styles.Muted.Render("Cancelled."), m.styles))
	case msg.Err != nil:
		m.err = msg.Err
		m = m.appendBlock(NewErrorBlock(msg.Err, m.styles))
	default:
		m = m.appendBlock(NewAssistantBlock(msg.Result.Completion, m.theme, m.styles))
	}
	return m, m.Input.Focus()
}

func (m Model) appendBlock(b MessageBlock) Model {
	m.blocks = append(m.blocks, b)
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

// renderSession creates blocks from the session's earlier messages.
func (m Model) renderSession() Model {
	if m.session.Dataset != nil && len(m.session.Messages) == 0 {
		d := m.session.Dataset
		m.blocks = append(m.blocks, NewInfoBlock(
			fmt.Sprintf("Loaded %s: %d rows, %d columns", d.Name, d.Len(), len(d.Columns)),
			m.styles.Muted.Render("Type a question, /summary for an overview or /help for commands."),
			m.styles,
		))
	}
	for _, msg := range m.session.Messages {
		switch msg := msg.(type) {
		case datasage.UserMessage:
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Content, m.styles))
		case datasage.AssistantMessage:
			c := datasage.Completion{Text: msg.Content, Model: msg.Model, StopReason: msg.StopReason, Usage: msg.Usage}
			m.blocks = append(m.blocks, NewAssistantBlock(c, m.theme, m.styles))
		}
	}
	return m
}

func (m Model) renderContent() string {
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) statusLine() string {
	if m.running {
		return m.Spinner.View() + m.styles.Muted.Render(" Analyzing... Ctrl+C to cancel")
	}
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	status := "Enter to send, /help for commands, Ctrl+C to quit"
	if d := m.session.Dataset; d != nil {
		status = d.Name + " | " + status
	}
	return m.styles.Muted.Render(status)
}

// askCmd runs ask in the tea.Cmd goroutine.
func askCmd(ctx context.Context, ask AskFunc, s *datasage.Session, act datasage.Action) tea.Cmd {
	return func() tea.Msg {
		res, err := ask(ctx, s, act)
		return AnswerMsg{Result: res, Err: err}
	}
}
