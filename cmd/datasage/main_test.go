package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/datasage"
	"github.com/fwojciec/datasage/mock"
	"github.com/stretchr/testify/require"
)

const salesCSV = "region,sales\nnorth,10\nsouth,20\nnorth,30\neast,\n"

type result struct {
	stdout string
	stderr string
}

// execute runs the root command with args. A nil provider keeps the real
// provider resolution.
func execute(t *testing.T, provider datasage.Provider, env map[string]string, args ...string) (result, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := newApp(&stdout, &stderr, func(k string) string { return env[k] })
	if provider != nil {
		a.newProvider = func(context.Context, config) (datasage.Provider, error) { return provider, nil }
	}
	cmd := newRootCmd(a)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.toml")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String()}, err
}

// writeFile writes content to name in a fresh temp dir and returns the path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func answering(text string, got *datasage.Request) *mock.Provider {
	return &mock.Provider{
		CompleteFn: func(_ context.Context, req datasage.Request) (datasage.Completion, error) {
			if got != nil {
				*got = req
			}
			return datasage.Completion{Text: text, Model: "test-model", StopReason: datasage.StopEndTurn}, nil
		},
	}
}

func failing(t *testing.T) *mock.Provider {
	return &mock.Provider{
		CompleteFn: func(context.Context, datasage.Request) (datasage.Completion, error) {
			t.Error("provider must not be called")
			return datasage.Completion{}, nil
		},
	}
}
