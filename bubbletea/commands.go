package bubbletea

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/datasage"
	"github.com/fwojciec/datasage/goldmark"
)

const helpText = `/help            this list
/summary         column overview of the dataset
/quality         quality score and cleaning suggestions
/query QUESTION  answer locally, asking the model only when needed
/actions         list quick actions
/N               run quick action N
/reset           clear the conversation
/quit            leave`

// runCommand handles a slash command typed into the input.
func (m Model) runCommand(text string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	arg = strings.TrimSpace(arg)

	if n, err := strconv.Atoi(name); err == nil {
		actions := datasage.QuickActions()
		if n < 1 || n > len(actions) {
			return m.fail(fmt.Errorf("no quick action %d: %w", n, datasage.ErrInvalidInput)), nil
		}
		qa := actions[n-1]
		return m.start(qa.Label, datasage.Action{Instruction: qa.Instruction, Template: qa.Template})
	}

	switch strings.ToLower(name) {
	case "help", "?":
		return m.appendBlock(NewInfoBlock("Commands", helpText, m.styles)), nil
	case "actions":
		var b strings.Builder
		for i, qa := range datasage.QuickActions() {
			fmt.Fprintf(&b, "/%d  %s\n", i+1, qa.Label)
		}
		return m.appendBlock(NewInfoBlock("Quick actions", b.String(), m.styles)), nil
	case "reset":
		m.session.Reset()
		m.blocks = nil
		return m.appendBlock(NewInfoBlock("", m.styles.Muted.Render("Conversation cleared."), m.styles)), nil
	case "quit", "exit":
		return m, tea.Quit
	case "summary":
		d, ok := m.dataset()
		if !ok {
			return m.fail(errNoDataset), nil
		}
		s := datasage.Summarize(d)
		title := fmt.Sprintf("%s: %d rows, %d columns, %d missing cells, %d duplicate rows",
			d.Name, s.Rows, len(s.Columns), s.Missing, s.DuplicateRows)
		return m.appendBlock(NewInfoBlock(title, goldmark.SummaryTable(s, m.Viewport.Width, m.theme), m.styles)), nil
	case "quality":
		d, ok := m.dataset()
		if !ok {
			return m.fail(errNoDataset), nil
		}
		return m.appendBlock(m.qualityBlock(datasage.Assess(d))), nil
	case "query":
		d, ok := m.dataset()
		if !ok {
			return m.fail(errNoDataset), nil
		}
		res, err := datasage.Query(d, arg)
		switch {
		case errors.Is(err, datasage.ErrUnrecognizedQuery):
			return m.start(arg, datasage.Action{Instruction: arg})
		case err != nil:
			return m.fail(err), nil
		}
		m = m.appendBlock(NewUserMessageBlock(arg, m.styles))
		return m.appendBlock(NewInfoBlock("", queryBody(res, m.Viewport.Width, m.theme), m.styles)), nil
	}
	return m.fail(fmt.Errorf("unknown command %q: %w", "/"+name, datasage.ErrInvalidInput)), nil
}

var errNoDataset = fmt.Errorf("no dataset loaded: %w", datasage.ErrInvalidInput)

func (m Model) dataset() (datasage.Dataset, bool) {
	if m.session.Dataset == nil {
		return datasage.Dataset{}, false
	}
	return *m.session.Dataset, true
}

func (m Model) fail(err error) Model {
	return m.appendBlock(NewErrorBlock(err, m.styles))
}

func (m Model) qualityBlock(q datasage.QualityReport) *InfoBlock {
	var b strings.Builder
	fmt.Fprintf(&b, "Missing cells: %d (%.2f%%)\n", q.Missing.Total, q.Missing.Percentage)
	fmt.Fprintf(&b, "Duplicate rows: %d\n", q.Duplicates.Total)
	fmt.Fprintf(&b, "Outliers: %d\n", q.OutlierCount())
	s := datasage.Suggest(q)
	if s.Empty() {
		b.WriteString(m.styles.Success.Render("No cleaning needed."))
	}
	for _, group := range [][]string{s.MissingData, s.Duplicates, s.Outliers, s.DataTypes, s.TextCleaning} {
		for _, line := range group {
			b.WriteString("- " + line + "\n")
		}
	}
	return NewInfoBlock(fmt.Sprintf("Quality score %.1f/100", q.Score), b.String(), m.styles)
}

func queryBody(res datasage.QueryResult, width int, theme datasage.Theme) string {
	if res.Table == nil {
		return res.Text
	}
	return res.Text + "\n" + goldmark.DatasetTable(*res.Table, width, theme)
}
