package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/datasage"
	"github.com/spf13/cobra"
)

const reportInstruction = "Provide a comprehensive analysis of this dataset with key insights, patterns and recommendations."

func newAskCmd(a *app) *cobra.Command {
	var (
		mode, template, out string
		spec                chartFlags
	)
	cmd := &cobra.Command{
		Use:   "ask FILE QUESTION...",
		Short: "Ask the LLM about a dataset and render the answer",
		Long: "Ask the LLM about a dataset. The answer is rendered in --mode: text (unchanged), markdown (terminal), " +
			"chart (PNG), pdf (report) or speech (MP3, needs ELEVENLABS_API_KEY). Binary modes need --out.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := datasage.ParseMode(mode)
			if err != nil {
				return err
			}
			tmpl, err := datasage.ParseTemplate(template)
			if err != nil {
				return err
			}
			cs, err := spec.parse()
			if err != nil {
				return err
			}
			if m.Binary() && out == "" {
				return fmt.Errorf("mode %s writes binary output, use --out: %w", m, datasage.ErrInvalidInput)
			}
			act := datasage.Action{
				Instruction: strings.Join(args[1:], " "),
				Template:    tmpl,
				Mode:        m,
			}
			if m == datasage.ModeChart || cmd.Flags().Changed("chart-kind") {
				act.Chart = cs
			}
			return a.run(cmd, args[0], act, out)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "text", "render mode: text, markdown, chart, pdf, speech")
	cmd.Flags().StringVar(&template, "template", "", "prompt template: ask, deep_analysis, data_story, cleaning_advice, chart_advice")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (stdout if omitted)")
	cmd.Flags().StringVar(&spec.kind, "chart-kind", "auto", "chart kind for chart and pdf modes")
	cmd.Flags().StringVar(&spec.x, "x", "", "chart x column")
	cmd.Flags().StringVar(&spec.y, "y", "", "chart y column")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var (
		out      string
		question string
		spec     chartFlags
		noChart  bool
	)
	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Write a PDF analysis report with AI insights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			act := datasage.Action{
				Instruction: question,
				Template:    datasage.TemplateDeepAnalysis,
				Mode:        datasage.ModePDF,
			}
			if !noChart {
				cs, err := spec.parse()
				if err != nil {
					return err
				}
				act.Chart = cs
			}
			if err := a.run(cmd, args[0], act, out); err != nil {
				return err
			}
			fmt.Fprintf(a.stderr, "Report written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "data_analysis_report.pdf", "output PDF path")
	cmd.Flags().StringVar(&question, "question", reportInstruction, "instruction for the AI insights section")
	cmd.Flags().StringVar(&spec.kind, "chart-kind", "auto", "kind of the embedded chart")
	cmd.Flags().StringVar(&spec.x, "x", "", "chart x column")
	cmd.Flags().StringVar(&spec.y, "y", "", "chart y column")
	cmd.Flags().BoolVar(&noChart, "no-chart", false, "omit the chart page")
	return cmd
}

// run loads path, asks act and renders the answer to out. When only
// rendering fails, the raw answer is printed before the error is returned.
func (a *app) run(cmd *cobra.Command, path string, act datasage.Action, out string) error {
	d, err := a.load(path)
	if err != nil {
		return err
	}
	agent, err := a.agent(cmd.Context())
	if err != nil {
		return err
	}
	err = a.output(out, func(w io.Writer) error {
		_, err := agent.Run(cmd.Context(), datasage.NewSession(&d), act, w)
		return err
	})
	var re *datasage.RenderError
	if errors.As(err, &re) {
		fmt.Fprintln(a.stdout, re.Fallback)
	}
	return err
}
