// Package elevenlabs renders completions as speech with the ElevenLabs
// text-to-speech API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/datasage"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io/v1"
	defaultVoiceID = "21m00Tcm4TlvDq8ikWAM"
	defaultModel   = "eleven_multilingual_v2"

	// maxChars is the per-request character limit of the API.
	maxChars = 5000
)

// Client converts text to MP3 audio.
type Client struct {
	apiKey     string
	voiceID    string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithVoice sets the voice ID.
func WithVoice(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.voiceID = id
		}
	}
}

// WithModel sets the TTS model ID.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a [Client].
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		voiceID:    defaultVoiceID,
		model:      defaultModel,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Synthesize converts text to speech and returns the audio data as MP3 bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("elevenlabs: nothing to say: %w", datasage.ErrInvalidInput)
	}
	payload := map[string]any{
		"text":     text,
		"model_id": c.model,
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: marshal: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs: status %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read audio: %w", err)
	}
	return audio, nil
}

// Renderer is the speech [datasage.Renderer].
type Renderer struct {
	client *Client
}

// Interface compliance check.
var _ datasage.Renderer = (*Renderer)(nil)

// NewRenderer creates a speech renderer over c.
func NewRenderer(c *Client) *Renderer {
	return &Renderer{client: c}
}

// Render speaks the completion text, with markdown markup removed, and
// writes the MP3 audio to w.
func (r *Renderer) Render(ctx context.Context, out datasage.Output, w io.Writer) error {
	audio, err := r.client.Synthesize(ctx, SpeakableText(out.Completion.Text))
	if err != nil {
		return err
	}
	_, err = w.Write(audio)
	return err
}

var markup = strings.NewReplacer("**", "", "__", "", "`", "", "#", "", "* ", "", "> ", "")

// SpeakableText strips markdown markup and clips text to the API limit on
// a word boundary.
func SpeakableText(text string) string {
	lines := strings.Split(markup.Replace(text), "\n")
	var kept []string
	for _, l := range lines {
		if l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "- ")); l != "" {
			kept = append(kept, l)
		}
	}
	s := strings.Join(kept, "\n")
	if len(s) <= maxChars {
		return s
	}
	cut := strings.LastIndexAny(s[:maxChars], " \n")
	if cut <= 0 {
		cut = maxChars
	}
	return s[:cut]
}
