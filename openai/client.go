package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/datasage"
)

// Interface compliance check.
var _ datasage.Provider = (*Client)(nil)

// Client implements [datasage.Provider] over the /v1/chat/completions API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL, for OpenAI-compatible servers and
// httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithModel sets the default model ID. Default is gpt-4o-mini.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new [Client]. apiKey may be empty for local servers that
// do not authenticate.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Name returns "openai".
func (c *Client) Name() string { return name }

// Complete sends a non-streaming chat completion request.
func (c *Client) Complete(ctx context.Context, req datasage.Request) (datasage.Completion, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	body, err := json.Marshal(apiRequest{
		Model:       model,
		Messages:    convertMessages(req.SystemPrompt, req.Messages),
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return datasage.Completion{}, &datasage.ProviderError{Provider: name, Message: "encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return datasage.Completion{}, &datasage.ProviderError{Provider: name, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return datasage.Completion{}, ctx.Err()
		}
		return datasage.Completion{}, &datasage.ProviderError{Provider: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return datasage.Completion{}, parseHTTPError(resp)
	}

	var r apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		if ctx.Err() != nil {
			return datasage.Completion{}, ctx.Err()
		}
		return datasage.Completion{}, &datasage.ProviderError{Provider: name, StatusCode: resp.StatusCode, Message: "malformed response body", Err: err}
	}
	if len(r.Choices) == 0 {
		return datasage.Completion{}, &datasage.ProviderError{Provider: name, StatusCode: resp.StatusCode, Message: "response has no choices"}
	}

	comp := datasage.Completion{
		Text:       r.Choices[0].Message.Content,
		Model:      r.Model,
		StopReason: mapFinishReason(r.Choices[0].FinishReason),
	}
	if comp.Model == "" {
		comp.Model = model
	}
	if r.Usage != nil {
		comp.Usage = datasage.Usage{
			InputTokens:  max(r.Usage.PromptTokens, 0),
			OutputTokens: max(r.Usage.CompletionTokens, 0),
		}
	}
	return comp, nil
}

func convertMessages(system string, msgs []datasage.Message) []apiMessage {
	result := make([]apiMessage, 0, len(msgs)+1)
	if system != "" {
		result = append(result, apiMessage{Role: "system", Content: system})
	}
	for _, m := range msgs {
		result = append(result, apiMessage{Role: string(m.Role()), Content: m.Text()})
	}
	return result
}

func mapFinishReason(s string) datasage.StopReason {
	switch s {
	case "stop":
		return datasage.StopEndTurn
	case "length":
		return datasage.StopLength
	case "content_filter":
		return datasage.StopFilter
	default:
		return datasage.StopUnknown
	}
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &datasage.ProviderError{Provider: name, StatusCode: resp.StatusCode, Message: "failed to read body", Err: err}
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return &datasage.ProviderError{Provider: name, StatusCode: resp.StatusCode, Message: apiErr.Error.Message}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return &datasage.ProviderError{Provider: name, StatusCode: resp.StatusCode, Message: msg}
}
