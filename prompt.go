package datasage

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// Template selects the framing of a prompt.
type Template string

const (
	TemplateAsk            Template = "ask"
	TemplateDeepAnalysis   Template = "deep_analysis"
	TemplateDataStory      Template = "data_story"
	TemplateCleaningAdvice Template = "cleaning_advice"
	TemplateChartAdvice    Template = "chart_advice"
)

// ParseTemplate validates a template name. Empty selects TemplateAsk.
func ParseTemplate(s string) (Template, error) {
	t := Template(strings.TrimSpace(s))
	if t == "" {
		return TemplateAsk, nil
	}
	if _, ok := templates[t]; !ok {
		return "", fmt.Errorf("unknown template %q: %w", s, ErrInvalidInput)
	}
	return t, nil
}

type templateText struct {
	system  string
	framing string
}

const baseSystem = "You are DataSage, an expert data analyst. Answer using only the dataset " +
	"information provided. Be concise, cite column names exactly, and say so when the data " +
	"cannot answer the question."

var templates = map[Template]templateText{
	TemplateAsk: {
		system:  baseSystem,
		framing: "Answer the user's question about the dataset.",
	},
	TemplateDeepAnalysis: {
		system:  baseSystem + " Structure deep analyses as: key statistics, patterns, anomalies, business implications.",
		framing: "Perform a comprehensive analysis of the dataset, including statistical insights, patterns and business implications.",
	},
	TemplateDataStory: {
		system:  baseSystem + " Write in a narrative style for a non-technical reader.",
		framing: "Tell the story of this data: the key characters (variables) and plot points (insights).",
	},
	TemplateCleaningAdvice: {
		system:  baseSystem + " Focus on data quality: missing values, duplicates, outliers and types.",
		framing: "Recommend concrete cleaning steps for the dataset, most important first.",
	},
	TemplateChartAdvice: {
		system:  baseSystem + " Recommend visualizations by chart type and exact column names.",
		framing: "Suggest the most informative charts for the dataset.",
	},
}

// Prompt is an immutable prompt ready for submission.
type Prompt struct {
	System string
	Text   string
}

// PromptInput is the raw material of a prompt.
type PromptInput struct {
	Instruction string
	Template    Template  // empty = TemplateAsk
	Summary     *Summary  // optional dataset summary
	Sample      *Dataset  // optional; leading rows are included as CSV
	SampleRows  int       // 0 = DefaultSampleRows
	History     []Message // earlier exchanges, oldest first
}

const (
	// DefaultSampleRows is the number of data rows quoted in a prompt.
	DefaultSampleRows = 5

	// historyWindow bounds how many earlier messages are folded into a prompt.
	historyWindow = 6
)

// BuildPrompt assembles a prompt. It fails with ErrInvalidInput when the
// instruction is empty or the template is unknown. Prompt.Text always
// contains the instruction verbatim.
func BuildPrompt(in PromptInput) (Prompt, error) {
	if strings.TrimSpace(in.Instruction) == "" {
		return Prompt{}, fmt.Errorf("instruction is required: %w", ErrInvalidInput)
	}
	tmpl := in.Template
	if tmpl == "" {
		tmpl = TemplateAsk
	}
	tt, ok := templates[tmpl]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown template %q: %w", tmpl, ErrInvalidInput)
	}

	var b strings.Builder
	b.WriteString(tt.framing)
	b.WriteString("\n\n")

	if in.Summary != nil {
		b.WriteString("## Dataset\n")
		b.WriteString(in.Summary.String())
		b.WriteString("\n")
	}
	if in.Sample != nil && len(in.Sample.Columns) > 0 {
		n := in.SampleRows
		if n <= 0 {
			n = DefaultSampleRows
		}
		sample, err := csvSnippet(in.Sample.Head(n))
		if err != nil {
			return Prompt{}, fmt.Errorf("sample rows: %w", err)
		}
		fmt.Fprintf(&b, "## Sample rows\n```csv\n%s```\n\n", sample)
	}
	if hist := recent(in.History, historyWindow); len(hist) > 0 {
		b.WriteString("## Conversation so far\n")
		for _, m := range hist {
			fmt.Fprintf(&b, "%s: %s\n", m.Role(), m.Text())
		}
		b.WriteString("\n")
	}
	b.WriteString("## Question\n")
	b.WriteString(in.Instruction)
	b.WriteString("\n")

	return Prompt{System: tt.system, Text: b.String()}, nil
}

func recent(msgs []Message, n int) []Message {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}

func csvSnippet(d Dataset) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(d.Columns); err != nil {
		return "", err
	}
	if err := w.WriteAll(d.Rows); err != nil {
		return "", err
	}
	return b.String(), nil
}

// QuickAction is a canned request offered by interactive surfaces.
type QuickAction struct {
	Label       string
	Template    Template
	Instruction string
}

// QuickActions returns the canned requests in display order.
func QuickActions() []QuickAction {
	return []QuickAction{
		{Label: "Deep analysis", Template: TemplateDeepAnalysis, Instruction: "Perform a comprehensive deep analysis of this dataset."},
		{Label: "Data story", Template: TemplateDataStory, Instruction: "What story does this data tell?"},
		{Label: "Key findings", Template: TemplateAsk, Instruction: "Walk me through the key findings."},
		{Label: "What stands out", Template: TemplateAsk, Instruction: "What is interesting or unusual about this data?"},
		{Label: "Cleaning advice", Template: TemplateCleaningAdvice, Instruction: "How should I clean this dataset?"},
		{Label: "Chart ideas", Template: TemplateChartAdvice, Instruction: "Which charts would best explain this data?"},
	}
}
