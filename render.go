package datasage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Mode selects how a completion is rendered.
type Mode string

const (
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeChart    Mode = "chart"
	ModePDF      Mode = "pdf"
	ModeSpeech   Mode = "speech"
)

// ParseMode validates a render mode name. Empty selects ModeText.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeText, nil
	case ModeText, ModeMarkdown, ModeChart, ModePDF, ModeSpeech:
		return m, nil
	}
	return "", fmt.Errorf("unknown render mode %q: %w", s, ErrInvalidInput)
}

// ContentType returns the MIME type of output produced in mode m.
func (m Mode) ContentType() string {
	switch m {
	case ModeChart:
		return "image/png"
	case ModePDF:
		return "application/pdf"
	case ModeSpeech:
		return "audio/mpeg"
	case ModeMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Binary reports whether output in mode m is not text.
func (m Mode) Binary() bool {
	return m == ModeChart || m == ModePDF || m == ModeSpeech
}

// ChartKind selects a chart type.
type ChartKind string

const (
	ChartAuto      ChartKind = "auto"
	ChartHistogram ChartKind = "histogram"
	ChartBar       ChartKind = "bar"
	ChartLine      ChartKind = "line"
	ChartScatter   ChartKind = "scatter"
	ChartPie       ChartKind = "pie"
)

// ParseChartKind validates a chart kind. Empty selects ChartAuto.
func ParseChartKind(s string) (ChartKind, error) {
	switch k := ChartKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return ChartAuto, nil
	case ChartAuto, ChartHistogram, ChartBar, ChartLine, ChartScatter, ChartPie:
		return k, nil
	}
	return "", fmt.Errorf("unknown chart kind %q: %w", s, ErrInvalidInput)
}

// ChartSpec describes a chart over dataset columns. Empty X or Y lets the
// renderer pick suitable columns.
type ChartSpec struct {
	Kind  ChartKind
	X     string
	Y     string
	Title string
	Bins  int // histogram bins; 0 = renderer default
}

// Output is what a Renderer turns into bytes.
type Output struct {
	Completion Completion
	Prompt     Prompt
	Dataset    *Dataset
	Summary    *Summary
	Quality    *QualityReport
	Chart      ChartSpec
}

// Renderer writes an Output to w.
type Renderer interface {
	Render(ctx context.Context, out Output, w io.Writer) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, out Output, w io.Writer) error

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, out Output, w io.Writer) error {
	return f(ctx, out, w)
}

// Renderers dispatches an Output to the renderer registered for a mode.
// ModeText is always available.
type Renderers struct {
	byMode map[Mode]Renderer
}

// NewRenderers creates a dispatcher with ModeText registered.
func NewRenderers() *Renderers {
	return &Renderers{byMode: map[Mode]Renderer{ModeText: TextRenderer{}}}
}

// Register sets the renderer for mode, replacing any previous one.
func (r *Renderers) Register(mode Mode, renderer Renderer) {
	r.byMode[mode] = renderer
}

// Has reports whether a renderer is registered for mode.
func (r *Renderers) Has(mode Mode) bool {
	_, ok := r.byMode[mode]
	return ok
}

// Render dispatches to the renderer for mode. Any failure is returned as a
// *RenderError whose Fallback is the completion text.
func (r *Renderers) Render(ctx context.Context, mode Mode, out Output, w io.Writer) error {
	renderer, ok := r.byMode[mode]
	if !ok {
		return &RenderError{Mode: mode, Fallback: out.Completion.Text, Err: fmt.Errorf("no renderer for mode %q", mode)}
	}
	if err := renderer.Render(ctx, out, w); err != nil {
		return &RenderError{Mode: mode, Fallback: out.Completion.Text, Err: err}
	}
	return nil
}

// TextRenderer writes the completion text unchanged, adding a trailing
// newline when missing.
type TextRenderer struct{}

// Render implements Renderer.
func (TextRenderer) Render(_ context.Context, out Output, w io.Writer) error {
	text := out.Completion.Text
	if _, err := io.WriteString(w, text); err != nil {
		return err
	}
	if !strings.HasSuffix(text, "\n") {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
