package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/datasage"
	"github.com/fwojciec/datasage/chart"
	"github.com/fwojciec/datasage/elevenlabs"
	"github.com/fwojciec/datasage/goldmark"
	"github.com/fwojciec/datasage/pdf"
	"github.com/spf13/cobra"
)

// outputWidth is the column width of terminal output.
const outputWidth = 100

// app holds what every command shares. It is populated by the root
// command's PersistentPreRunE.
type app struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	// newProvider is replaced in tests.
	newProvider func(ctx context.Context, cfg config) (datasage.Provider, error)

	cfg    config
	logger *slog.Logger

	configPath string
	provider   string
	model      string
	apiKey     string
	timeout    time.Duration
	logLevel   string
	sheet      string
}

func newApp(stdout, stderr io.Writer, getenv func(string) string) *app {
	return &app{
		stdout:      stdout,
		stderr:      stderr,
		getenv:      getenv,
		newProvider: resolveProvider,
		logger:      slog.New(slog.DiscardHandler),
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "datasage",
		Short:         "AI data analyst for CSV and Excel files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", defaultConfigPath(), "path to TOML config file")
	pf.StringVar(&a.provider, "provider", "", "LLM provider: gemini, openai, anthropic (auto-detected from keys if omitted)")
	pf.StringVar(&a.model, "model", "", "model ID (provider default if omitted)")
	pf.StringVar(&a.apiKey, "api-key", "", "API key (overrides the provider's env var)")
	pf.DurationVar(&a.timeout, "timeout", 0, "provider deadline, e.g. 90s (config default 60s)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.sheet, "sheet", "", "worksheet to read from Excel files (first sheet if omitted)")

	root.AddCommand(
		newSummarizeCmd(a),
		newQualityCmd(a),
		newCleanCmd(a),
		newQueryCmd(a),
		newAskCmd(a),
		newChartCmd(a),
		newReportCmd(a),
		newExportCmd(a),
		newChatCmd(a),
		newServeCmd(a),
	)
	return root
}

// configure resolves defaults, then the config file, then env, then flags.
func (a *app) configure(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	cfg.applyEnv(a.getenv)

	flags := cmd.Flags()
	if p := strings.ToLower(strings.TrimSpace(a.provider)); p != "" {
		cfg.Provider = p
	}
	if a.model != "" {
		cfg.Model = a.model
	}
	cfg.APIKey = a.apiKey
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout.String()
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if _, err := cfg.timeout(); err != nil {
		return err
	}

	logger, err := newLogger(a.stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// agent builds the LLM pipeline. It is only called by commands that need a
// provider so that local commands work without an API key.
func (a *app) agent(ctx context.Context) (*datasage.Agent, error) {
	provider, err := a.newProvider(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	timeout, err := a.cfg.timeout()
	if err != nil {
		return nil, err
	}
	opts := []datasage.ClientOption{
		datasage.WithTimeout(timeout),
		datasage.WithModel(a.cfg.Model),
		datasage.WithMaxTokens(a.cfg.MaxTokens),
		datasage.WithLogger(a.logger),
	}
	if a.cfg.Temperature != nil {
		opts = append(opts, datasage.WithTemperature(*a.cfg.Temperature))
	}
	client := datasage.NewClient(provider, opts...)
	a.logger.Debug("provider selected", "provider", client.Provider(), "model", a.cfg.Model, "timeout", timeout)
	return datasage.NewAgent(client, a.renderers()), nil
}

// renderers registers every output mode available with the current
// configuration. Speech needs an ElevenLabs key.
func (a *app) renderers() *datasage.Renderers {
	r := datasage.NewRenderers()
	charts := chart.Renderer{}
	r.Register(datasage.ModeMarkdown, goldmark.NewRenderer(outputWidth))
	r.Register(datasage.ModeChart, charts)
	r.Register(datasage.ModePDF, pdf.Renderer{Chart: charts})
	if key := a.cfg.ElevenLabs.APIKey; key != "" {
		tts := elevenlabs.New(key, elevenlabs.WithVoice(a.cfg.ElevenLabs.VoiceID))
		r.Register(datasage.ModeSpeech, elevenlabs.NewRenderer(tts))
	}
	return r
}

// load reads one dataset with the --sheet selection.
func (a *app) load(path string) (datasage.Dataset, error) {
	d, err := loadFile(path, a.sheet)
	if err != nil {
		return datasage.Dataset{}, err
	}
	a.logger.Debug("dataset loaded", "path", path, "rows", d.Len(), "columns", len(d.Columns))
	return d, nil
}

// output renders into memory and writes the result to path, or to stdout
// when path is empty. Nothing is written when render fails, so an existing
// file survives a failed run.
func (a *app) output(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if path == "" {
		_, err := a.stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
