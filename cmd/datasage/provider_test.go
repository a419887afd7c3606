package main

import (
	"context"
	"testing"

	"github.com/fwojciec/datasage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProvider_Explicit(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"gemini", "openai", "anthropic"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p, err := resolveProvider(context.Background(), config{Provider: name, APIKey: "key"})
			require.NoError(t, err)
			assert.Equal(t, name, p.Name())
		})
	}
}

func TestResolveProvider_UnknownProvider(t *testing.T) {
	t.Parallel()
	_, err := resolveProvider(context.Background(), config{Provider: "mistral", APIKey: "key"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestResolveProvider_NoKeysNoFlag(t *testing.T) {
	t.Parallel()
	_, err := resolveProvider(context.Background(), config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API key found")
}

func TestResolveProvider_APIKeyWithoutProvider(t *testing.T) {
	t.Parallel()
	_, err := resolveProvider(context.Background(), config{APIKey: "key"})
	assert.ErrorIs(t, err, datasage.ErrInvalidInput)
}

func TestResolveProvider_MultipleKeysNoFlag(t *testing.T) {
	t.Parallel()
	cfg := config{Gemini: keyConfig{APIKey: "gk"}, Anthropic: keyConfig{APIKey: "sk"}}
	_, err := resolveProvider(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple API keys found (GEMINI_API_KEY, ANTHROPIC_API_KEY)")
}

func TestResolveProvider_AutoDetect(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  config
	}{
		{name: "gemini", cfg: config{Gemini: keyConfig{APIKey: "gk"}}},
		{name: "openai", cfg: config{OpenAI: openAIConfig{APIKey: "ok", BaseURL: "http://localhost:8000"}}},
		{name: "anthropic", cfg: config{Anthropic: keyConfig{APIKey: "sk"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := resolveProvider(context.Background(), tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.name, p.Name())
		})
	}
}

func TestResolveProvider_FlagKeyOverridesEnv(t *testing.T) {
	t.Parallel()
	// --api-key overrides the env var for the selected provider.
	cfg := config{Provider: "anthropic", APIKey: "sk-flag", Anthropic: keyConfig{APIKey: "sk-env"}}
	p, err := resolveProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestResolveProvider_ExplicitProviderMissingKey(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"anthropic": "ANTHROPIC_API_KEY not set",
		"gemini":    "GEMINI_API_KEY not set",
		"openai":    "OPENAI_API_KEY not set",
	}
	for provider, want := range tests {
		t.Run(provider, func(t *testing.T) {
			t.Parallel()
			_, err := resolveProvider(context.Background(), config{Provider: provider})
			require.Error(t, err)
			assert.Contains(t, err.Error(), want)
		})
	}
}

func TestResolveProvider_OpenAIBaseURLWithoutKey(t *testing.T) {
	t.Parallel()
	cfg := config{Provider: "openai", OpenAI: openAIConfig{BaseURL: "http://localhost:11434/v1"}}
	p, err := resolveProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}
