package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/datasage"
	"github.com/fwojciec/datasage/anthropic"
	"github.com/fwojciec/datasage/gemini"
	"github.com/fwojciec/datasage/openai"
)

var providerEnv = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// providerOrder is the order providers are listed in errors.
var providerOrder = []string{"gemini", "openai", "anthropic"}

// resolveProvider selects and constructs the provider. Without an explicit
// provider, the one with a configured key is used.
func resolveProvider(ctx context.Context, cfg config) (datasage.Provider, error) {
	provider := cfg.Provider

	if provider == "" {
		var found []string
		for _, p := range providerOrder {
			if cfg.key(p) != "" {
				found = append(found, p)
			}
		}
		switch len(found) {
		case 0:
			if cfg.APIKey != "" {
				return nil, fmt.Errorf("--api-key given without --provider: %w", datasage.ErrInvalidInput)
			}
			return nil, fmt.Errorf("no API key found: set GEMINI_API_KEY, OPENAI_API_KEY or ANTHROPIC_API_KEY (or use --provider and --api-key flags)")
		case 1:
			provider = found[0]
		default:
			envs := make([]string, len(found))
			for i, p := range found {
				envs[i] = providerEnv[p]
			}
			return nil, fmt.Errorf("multiple API keys found (%s): use --provider flag to select", strings.Join(envs, ", "))
		}
	}

	env, ok := providerEnv[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q: must be \"gemini\", \"openai\" or \"anthropic\"", provider)
	}
	// Explicit flag overrides env var and config file.
	key := cfg.APIKey
	if key == "" {
		key = cfg.key(provider)
	}
	// OpenAI-compatible local servers may not authenticate.
	keyless := provider == "openai" && cfg.OpenAI.BaseURL != ""
	if key == "" && !keyless {
		return nil, fmt.Errorf("%s not set (use --api-key flag, environment variable or config file)", env)
	}

	switch provider {
	case "gemini":
		client, err := gemini.New(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return client, nil
	case "openai":
		var opts []openai.Option
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		return openai.New(key, opts...), nil
	default:
		return anthropic.New(key), nil
	}
}
