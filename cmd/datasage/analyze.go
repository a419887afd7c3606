package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/datasage"
	"github.com/fwojciec/datasage/chart"
	"github.com/fwojciec/datasage/fs"
	"github.com/fwojciec/datasage/goldmark"
	dsjson "github.com/fwojciec/datasage/json"
	"github.com/spf13/cobra"
)

func newSummarizeCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "summarize FILE...",
		Short: "Summarize the columns of one or more datasets (globs with ** allowed)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(format); err != nil {
				return err
			}
			paths, err := fs.Expand(args...)
			if err != nil {
				return err
			}
			var analyses []dsjson.Analysis
			for i, path := range paths {
				d, err := a.load(path)
				if err != nil {
					return err
				}
				if format == "json" {
					analyses = append(analyses, dsjson.NewAnalysis(d))
					continue
				}
				if i > 0 {
					fmt.Fprintln(a.stdout)
				}
				s := datasage.Summarize(d)
				fmt.Fprintf(a.stdout, "%s: %d rows, %d columns, %d missing cells, %d duplicate rows\n",
					s.Name, s.Rows, len(s.Columns), s.Missing, s.DuplicateRows)
				fmt.Fprintln(a.stdout, goldmark.SummaryTable(s, outputWidth, datasage.DefaultTheme()))
			}
			switch {
			case format != "json":
				return nil
			case len(analyses) == 1:
				return dsjson.Write(a.stdout, analyses[0])
			default:
				return dsjson.Write(a.stdout, analyses)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}

func newQualityCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "quality FILE",
		Short: "Assess data quality and suggest cleaning steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(format); err != nil {
				return err
			}
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			q := datasage.Assess(d)
			if format == "json" {
				return dsjson.Write(a.stdout, dsjson.NewQuality(q))
			}
			writeQuality(a.stdout, q)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}

func writeQuality(w io.Writer, q datasage.QualityReport) {
	fmt.Fprintf(w, "Quality score: %.1f/100\n", q.Score)
	fmt.Fprintf(w, "Missing cells: %d (%.2f%%, %d columns, severity %s)\n",
		q.Missing.Total, q.Missing.Percentage, q.Missing.ColumnsAffected, q.Missing.Severity)
	fmt.Fprintf(w, "Duplicate rows: %d (%.2f%%)\n", q.Duplicates.Total, q.Duplicates.Percentage)
	fmt.Fprintf(w, "Outliers: %d\n", q.OutlierCount())

	s := datasage.Suggest(q)
	if s.Empty() {
		fmt.Fprintln(w, "\nNo cleaning needed.")
		return
	}
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s:\n", title)
		for _, item := range items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}
	section("Missing data", s.MissingData)
	section("Duplicates", s.Duplicates)
	section("Outliers", s.Outliers)
	section("Data types", s.DataTypes)
	section("Text cleaning", s.TextCleaning)
}

func newCleanCmd(a *app) *cobra.Command {
	var (
		ops []string
		out string
	)
	cmd := &cobra.Command{
		Use:   "clean FILE",
		Short: "Apply cleaning operations and write the cleaned dataset",
		Long: "Apply cleaning operations in order and write the result as CSV, or as a workbook when --out ends in .xlsx.\n" +
			"Operations: remove_duplicates, fix_data_types, handle_missing_basic, clean_text, remove_outliers.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			selected := datasage.DefaultCleanOps
			if len(ops) > 0 {
				selected = make([]datasage.CleanOp, len(ops))
				for i, op := range ops {
					selected[i] = datasage.CleanOp(strings.TrimSpace(op))
				}
			}
			cleaned, sum, err := datasage.Clean(d, selected...)
			if err != nil {
				return err
			}
			err = a.output(out, func(w io.Writer) error {
				return writeDataset(w, out, cleaned)
			})
			if err != nil {
				return fmt.Errorf("write cleaned dataset: %w", err)
			}
			for _, line := range sum.Log {
				fmt.Fprintln(a.stderr, line)
			}
			fmt.Fprintf(a.stderr, "%d rows x %d columns -> %d rows x %d columns\n",
				sum.OriginalRows, sum.OriginalCols, sum.Rows, sum.Cols)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ops, "ops", nil, "cleaning operations, comma separated (default remove_duplicates,fix_data_types,handle_missing_basic)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (stdout as CSV if omitted)")
	return cmd
}

func newQueryCmd(a *app) *cobra.Command {
	var (
		ai     bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "query FILE QUESTION...",
		Short: "Answer a question about the data locally",
		Long:  "Answer common questions (missing values, types, correlations, unique values, statistics, shape, columns, first N rows) without an LLM. With --ai, other questions are sent to the provider.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(format); err != nil {
				return err
			}
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			question := strings.Join(args[1:], " ")
			res, err := datasage.Query(d, question)
			if errors.Is(err, datasage.ErrUnrecognizedQuery) && ai {
				agent, err := a.agent(cmd.Context())
				if err != nil {
					return err
				}
				r, err := agent.Ask(cmd.Context(), datasage.NewSession(&d), datasage.Action{Instruction: question})
				if err != nil {
					return err
				}
				res = datasage.QueryResult{Text: r.Completion.Text}
			} else if err != nil {
				return err
			}
			if format == "json" {
				return dsjson.Write(a.stdout, dsjson.NewQuery(question, res))
			}
			fmt.Fprintln(a.stdout, res.Text)
			if res.Table != nil {
				fmt.Fprintln(a.stdout, goldmark.DatasetTable(*res.Table, outputWidth, datasage.DefaultTheme()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&ai, "ai", false, "ask the LLM when the question is not recognized")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}

func newChartCmd(a *app) *cobra.Command {
	var (
		spec chartFlags
		out  string
	)
	cmd := &cobra.Command{
		Use:   "chart FILE",
		Short: "Draw a PNG chart of the data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := spec.parse()
			if err != nil {
				return err
			}
			if out == "" {
				return fmt.Errorf("--out is required for PNG output: %w", datasage.ErrInvalidInput)
			}
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			return a.output(out, func(w io.Writer) error {
				return chart.Renderer{}.Draw(w, d, cs)
			})
		},
	}
	cmd.Flags().StringVar(&spec.kind, "kind", "auto", "chart kind: auto, histogram, bar, line, scatter, pie")
	cmd.Flags().StringVar(&spec.x, "x", "", "x column")
	cmd.Flags().StringVar(&spec.y, "y", "", "y column")
	cmd.Flags().StringVar(&spec.title, "title", "", "chart title")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output PNG path")
	return cmd
}

type chartFlags struct {
	kind, x, y, title string
}

func (f chartFlags) parse() (datasage.ChartSpec, error) {
	kind, err := datasage.ParseChartKind(f.kind)
	if err != nil {
		return datasage.ChartSpec{}, err
	}
	return datasage.ChartSpec{Kind: kind, X: f.x, Y: f.y, Title: f.title}, nil
}

func newExportCmd(a *app) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Convert a dataset to CSV or Excel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := out
			switch format {
			case "csv":
				target = "export.csv"
			case "xlsx":
				if out == "" {
					return fmt.Errorf("--out is required for xlsx output: %w", datasage.ErrInvalidInput)
				}
				target = "export.xlsx"
			case "":
				if out == "" {
					return fmt.Errorf("--format or --out is required: %w", datasage.ErrInvalidInput)
				}
			default:
				return fmt.Errorf("unknown export format %q: %w", format, datasage.ErrInvalidInput)
			}
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			err = a.output(out, func(w io.Writer) error {
				return writeDataset(w, target, d)
			})
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format: csv or xlsx (from --out extension if omitted)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (stdout if omitted, CSV only)")
	return cmd
}

func checkOutputFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q, want text or json: %w", format, datasage.ErrInvalidInput)
	}
	return nil
}
