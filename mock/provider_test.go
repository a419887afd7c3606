package mock_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/fwojciec/datasage"
	"github.com/fwojciec/datasage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Complete(t *testing.T) {
	t.Parallel()
	t.Run("delegates to CompleteFn", func(t *testing.T) {
		t.Parallel()
		want := datasage.Completion{Text: "hello", StopReason: datasage.StopEndTurn}
		p := mock.Provider{
			CompleteFn: func(ctx context.Context, req datasage.Request) (datasage.Completion, error) {
				assert.Equal(t, "m1", req.Model)
				return want, nil
			},
		}
		got, err := p.Complete(context.Background(), datasage.Request{Model: "m1"})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("api error")
		p := mock.Provider{
			CompleteFn: func(ctx context.Context, req datasage.Request) (datasage.Completion, error) {
				return datasage.Completion{}, wantErr
			},
		}
		_, err := p.Complete(context.Background(), datasage.Request{})
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("panics when CompleteFn not set", func(t *testing.T) {
		t.Parallel()
		p := mock.Provider{}
		assert.Panics(t, func() {
			_, _ = p.Complete(context.Background(), datasage.Request{})
		})
	})
}

func TestProvider_Name(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "mock", (&mock.Provider{}).Name())
	p := mock.Provider{NameFn: func() string { return "gemini" }}
	assert.Equal(t, "gemini", p.Name())
}

func TestCompleter_Complete(t *testing.T) {
	t.Parallel()
	c := mock.Completer{
		CompleteFn: func(ctx context.Context, p datasage.Prompt) (datasage.Completion, error) {
			return datasage.Completion{Text: p.Text}, nil
		},
	}
	got, err := c.Complete(context.Background(), datasage.Prompt{Text: "echo"})
	require.NoError(t, err)
	assert.Equal(t, "echo", got.Text)
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()
	r := mock.Renderer{
		RenderFn: func(ctx context.Context, out datasage.Output, w io.Writer) error {
			_, err := io.WriteString(w, out.Completion.Text)
			return err
		},
	}
	var buf bytes.Buffer
	err := r.Render(context.Background(), datasage.Output{Completion: datasage.Completion{Text: "x"}}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "x", buf.String())
}
