package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/datasage"
	"github.com/pelletier/go-toml/v2"
)

type keyConfig struct {
	APIKey string `toml:"api_key"`
}

type openAIConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

type elevenLabsConfig struct {
	APIKey  string `toml:"api_key"`
	VoiceID string `toml:"voice_id"`
}

// config is the resolved configuration. Keys in the TOML file mirror the
// field tags below.
type config struct {
	Provider    string           `toml:"provider"`
	Model       string           `toml:"model"`
	Timeout     string           `toml:"timeout"`
	MaxTokens   int              `toml:"max_tokens"`
	Temperature *float64         `toml:"temperature"`
	LogLevel    string           `toml:"log_level"`
	Addr        string           `toml:"addr"`
	Gemini      keyConfig        `toml:"gemini"`
	OpenAI      openAIConfig     `toml:"openai"`
	Anthropic   keyConfig        `toml:"anthropic"`
	ElevenLabs  elevenLabsConfig `toml:"elevenlabs"`

	// APIKey comes from --api-key only and applies to the selected provider.
	APIKey string `toml:"-"`
}

func defaultConfig() config {
	return config{
		Timeout:  "60s",
		LogLevel: "info",
		Addr:     ":8080",
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "datasage", "config.toml")
}

// loadConfig overlays the TOML file at path on the defaults. A missing file
// leaves the defaults in place.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	return cfg, nil
}

// applyEnv overrides file values with environment variables that are set.
func (c *config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Gemini.APIKey, "GEMINI_API_KEY")
	set(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	set(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	set(&c.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	set(&c.ElevenLabs.APIKey, "ELEVENLABS_API_KEY")
	set(&c.ElevenLabs.VoiceID, "ELEVENLABS_VOICE_ID")
	set(&c.LogLevel, "DATASAGE_LOG_LEVEL")
}

// timeout parses the configured provider deadline. Zero disables it.
func (c config) timeout() (time.Duration, error) {
	if strings.TrimSpace(c.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, datasage.ErrInvalidInput)
	}
	return d, nil
}

// key returns the API key configured for provider.
func (c config) key(provider string) string {
	switch provider {
	case "gemini":
		return c.Gemini.APIKey
	case "openai":
		return c.OpenAI.APIKey
	case "anthropic":
		return c.Anthropic.APIKey
	}
	return ""
}
