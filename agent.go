package datasage

import (
	"context"
	"io"
)

// Completer is the part of Client the Agent depends on.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (Completion, error)
}

// Agent runs the prompt-and-render pipeline once per user action.
type Agent struct {
	client    Completer
	renderers *Renderers
}

// NewAgent creates an Agent. renderers may be nil, in which case only
// ModeText is available.
func NewAgent(client Completer, renderers *Renderers) *Agent {
	if renderers == nil {
		renderers = NewRenderers()
	}
	return &Agent{client: client, renderers: renderers}
}

// Action is one user request.
type Action struct {
	Instruction string
	Template    Template
	Mode        Mode // empty = ModeText
	Chart       ChartSpec
}

// Result is the outcome of a successful Run or of a run that failed only at
// the render step.
type Result struct {
	Prompt     Prompt
	Completion Completion
	Summary    *Summary // nil when the session has no dataset
}

// Ask builds the prompt from the session dataset and history, completes it
// and records the exchange in the session. Nothing is rendered.
func (a *Agent) Ask(ctx context.Context, s *Session, act Action) (Result, error) {
	in := PromptInput{
		Instruction: act.Instruction,
		Template:    act.Template,
		History:     s.Messages,
	}
	if s.Dataset != nil {
		sum := Summarize(*s.Dataset)
		in.Summary = &sum
		in.Sample = s.Dataset
	}
	p, err := BuildPrompt(in)
	if err != nil {
		return Result{}, err
	}
	c, err := a.client.Complete(ctx, p)
	if err != nil {
		return Result{}, err
	}
	s.Record(act.Instruction, c)
	return Result{Prompt: p, Completion: c, Summary: in.Summary}, nil
}

// Run asks and then renders the completion to w in act.Mode. When only
// rendering fails, the Result is still returned together with a
// *RenderError whose Fallback holds the completion text.
func (a *Agent) Run(ctx context.Context, s *Session, act Action, w io.Writer) (Result, error) {
	res, err := a.Ask(ctx, s, act)
	if err != nil {
		return Result{}, err
	}
	mode := act.Mode
	if mode == "" {
		mode = ModeText
	}
	out := Output{
		Completion: res.Completion,
		Prompt:     res.Prompt,
		Dataset:    s.Dataset,
		Chart:      act.Chart,
		Summary:    res.Summary,
	}
	if s.Dataset != nil {
		q := Assess(*s.Dataset)
		out.Quality = &q
	}
	return res, a.renderers.Render(ctx, mode, out, w)
}
