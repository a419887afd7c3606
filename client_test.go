package datasage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/datasage"
	"github.com/fwojciec/datasage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Complete(t *testing.T) {
	t.Parallel()

	t.Run("returns provider text unchanged", func(t *testing.T) {
		t.Parallel()
		want := datasage.Completion{
			Text:       "  The dataset has **10** rows.\n",
			Model:      "m1",
			StopReason: datasage.StopEndTurn,
			Usage:      datasage.Usage{InputTokens: 12, OutputTokens: 7},
		}
		p := &mock.Provider{
			CompleteFn: func(ctx context.Context, req datasage.Request) (datasage.Completion, error) {
				return want, nil
			},
		}
		c := datasage.NewClient(p, datasage.WithLogger(quietLogger()))
		got, err := c.Complete(context.Background(), datasage.Prompt{Text: "q"})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("builds request from prompt and options", func(t *testing.T) {
		t.Parallel()
		var got datasage.Request
		p := &mock.Provider{
			CompleteFn: func(ctx context.Context, req datasage.Request) (datasage.Completion, error) {
				got = req
				return datasage.Completion{Text: "ok"}, nil
			},
		}
		c := datasage.NewClient(p,
			datasage.WithModel("gemini-2.5-pro"),
			datasage.WithMaxTokens(512),
			datasage.WithTemperature(0.2),
			datasage.WithLogger(quietLogger()),
		)
		_, err := c.Complete(context.Background(), datasage.Prompt{System: "sys", Text: "hello"})
		require.NoError(t, err)

		assert.Equal(t, "gemini-2.5-pro", got.Model)
		assert.Equal(t, "sys", got.SystemPrompt)
		assert.Equal(t, 512, got.MaxTokens)
		require.NotNil(t, got.Temperature)
		assert.InDelta(t, 0.2, *got.Temperature, 1e-9)
		require.Len(t, got.Messages, 1)
		assert.Equal(t, datasage.RoleUser, got.Messages[0].Role())
		assert.Equal(t, "hello", got.Messages[0].Text())
	})

	t.Run("rejects empty prompt without calling provider", func(t *testing.T) {
		t.Parallel()
		c := datasage.NewClient(&mock.Provider{}, datasage.WithLogger(quietLogger()))
		_, err := c.Complete(context.Background(), datasage.Prompt{Text: "  "})
		assert.ErrorIs(t, err, datasage.ErrInvalidInput)
	})

	t.Run("rejects invalid temperature", func(t *testing.T) {
		t.Parallel()
		c := datasage.NewClient(&mock.Provider{}, datasage.WithTemperature(3), datasage.WithLogger(quietLogger()))
		_, err := c.Complete(context.Background(), datasage.Prompt{Text: "q"})
		assert.ErrorIs(t, err, datasage.ErrValidation)
	})

	t.Run("passes provider errors through", func(t *testing.T) {
		t.Parallel()
		p := &mock.Provider{
			CompleteFn: func(ctx context.Context, req datasage.Request) (datasage.Completion, error) {
				return datasage.Completion{Text: "partial"}, &datasage.ProviderError{Provider: "mock", StatusCode: 503, Message: "overloaded"}
			},
		}
		c := datasage.NewClient(p, datasage.WithLogger(quietLogger()))
		got, err := c.Complete(context.Background(), datasage.Prompt{Text: "q"})

		assert.Equal(t, datasage.Completion{}, got)
		require.ErrorIs(t, err, datasage.ErrProvider)
		var pe *datasage.ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 503, pe.StatusCode)
		assert.Equal(t, "mock: HTTP 503: overloaded", err.Error())
	})

	t.Run("wraps unclassified errors as provider errors", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("connection reset")
		p := &mock.Provider{
			CompleteFn: func(ctx context.Context, req datasage.Request) (datasage.Completion, error) {
				return datasage.Completion{}, cause
			},
		}
		c := datasage.NewClient(p, datasage.WithLogger(quietLogger()))
		_, err := c.Complete(context.Background(), datasage.Prompt{Text: "q"})
		assert.ErrorIs(t, err, datasage.ErrProvider)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("empty completion is a provider error", func(t *testing.T) {
		t.Parallel()
		p := &mock.Provider{
			CompleteFn: func(ctx context.Context, req datasage.Request) (datasage.Completion, error) {
				return datasage.Completion{Text: " \n"}, nil
			},
		}
		c := datasage.NewClient(p, datasage.WithLogger(quietLogger()))
		got, err := c.Complete(context.Background(), datasage.Prompt{Text: "q"})
		assert.ErrorIs(t, err, datasage.ErrProvider)
		assert.Equal(t, datasage.Completion{}, got)
	})

	t.Run("deadline exceeded is a timeout", func(t *testing.T) {
		t.Parallel()
		p := &mock.Provider{
			CompleteFn: func(ctx context.Context, req datasage.Request) (datasage.Completion, error) {
				<-ctx.Done()
				return datasage.Completion{}, ctx.Err()
			},
		}
		c := datasage.NewClient(p, datasage.WithTimeout(10*time.Millisecond), datasage.WithLogger(quietLogger()))
		got, err := c.Complete(context.Background(), datasage.Prompt{Text: "q"})

		assert.Equal(t, datasage.Completion{}, got)
		require.ErrorIs(t, err, datasage.ErrTimeout)
		var te *datasage.TimeoutError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, 10*time.Millisecond, te.After)
		assert.NotErrorIs(t, err, datasage.ErrProvider)
	})

	t.Run("caller cancellation is not a timeout", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := &mock.Provider{
			CompleteFn: func(ctx context.Context, req datasage.Request) (datasage.Completion, error) {
				return datasage.Completion{}, ctx.Err()
			},
		}
		c := datasage.NewClient(p, datasage.WithLogger(quietLogger()))
		_, err := c.Complete(ctx, datasage.Prompt{Text: "q"})
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, datasage.ErrTimeout)
	})
}

func TestClient_Provider(t *testing.T) {
	t.Parallel()
	p := &mock.Provider{NameFn: func() string { return "openai" }}
	assert.Equal(t, "openai", datasage.NewClient(p).Provider())
}
