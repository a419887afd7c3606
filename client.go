package datasage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Client sends prompts to a Provider. It applies the configured deadline,
// validates requests and classifies failures into ProviderError and
// TimeoutError. It never retries.
type Client struct {
	provider    Provider
	timeout     time.Duration
	model       string
	maxTokens   int
	temperature *float64
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout bounds each call. Zero leaves the deadline to the caller's
// context.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithModel sets the model ID. Empty means the provider default.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

// WithMaxTokens caps the completion length. Zero means the provider default.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) { c.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ClientOption {
	return func(c *Client) { c.temperature = &t }
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client over provider.
func NewClient(provider Provider, opts ...ClientOption) *Client {
	c := &Client{provider: provider, logger: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Provider returns the name of the underlying provider.
func (c *Client) Provider() string { return c.provider.Name() }

// Complete submits p as a single user turn and returns the completion text
// unchanged. On any error the zero Completion is returned.
func (c *Client) Complete(ctx context.Context, p Prompt) (Completion, error) {
	if strings.TrimSpace(p.Text) == "" {
		return Completion{}, fmt.Errorf("empty prompt: %w", ErrInvalidInput)
	}
	req := Request{
		Model:        c.model,
		SystemPrompt: p.System,
		Messages:     []Message{UserMessage{Content: p.Text, Timestamp: time.Now()}},
		MaxTokens:    c.maxTokens,
		Temperature:  c.temperature,
	}
	if err := req.Validate(); err != nil {
		return Completion{}, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	name := c.provider.Name()
	start := time.Now()
	c.logger.DebugContext(ctx, "completion request", "provider", name, "model", c.model, "prompt_bytes", len(p.Text))

	comp, err := c.provider.Complete(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		err = c.classify(ctx, name, err)
		c.logger.WarnContext(ctx, "completion failed", "provider", name, "duration", elapsed, "error", err)
		return Completion{}, err
	}
	if strings.TrimSpace(comp.Text) == "" {
		err := &ProviderError{Provider: name, Message: "empty completion"}
		c.logger.WarnContext(ctx, "completion failed", "provider", name, "duration", elapsed, "error", err)
		return Completion{}, err
	}

	c.logger.DebugContext(ctx, "completion received",
		"provider", name,
		"model", comp.Model,
		"duration", elapsed,
		"input_tokens", comp.Usage.InputTokens,
		"output_tokens", comp.Usage.OutputTokens,
	)
	return comp, nil
}

func (c *Client) classify(ctx context.Context, name string, err error) error {
	switch {
	case errors.Is(err, ErrTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &TimeoutError{Provider: name, After: c.timeout}
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, ErrProvider):
		return err
	default:
		return &ProviderError{Provider: name, Err: err}
	}
}
