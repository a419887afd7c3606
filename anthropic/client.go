package anthropic

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

// Interface compliance check.
var _ datasage.Provider = (*Client)(nil)

// Client implements [datasage.Provider] for the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithModel sets the default model ID.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Anthropic [Client] with the given API key and options.
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

// Name returns "anthropic".
func (c *Client) Name() string { return name }

// Complete sends a non-streaming Messages request.
func (c *Client) Complete(ctx context.Context, req datasage.Request) (datasage.Completion, error) {
	body, err := c.buildRequestBody(req)
	if err != nil {
		return datasage.Completion{}, &datasage.ProviderError{Provider: name, Message: "encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return datasage.Completion{}, &datasage.ProviderError{Provider: name, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return datasage.Completion{}, ctx.Err()
		}
		return datasage.Completion{}, &datasage.ProviderError{Provider: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return datasage.Completion{}, parseHTTPError(resp)
	}

	var r apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		if ctx.Err() != nil {
			return datasage.Completion{}, ctx.Err()
		}
		return datasage.Completion{}, &datasage.ProviderError{Provider: name, StatusCode: resp.StatusCode, Message: "malformed response body", Err: err}
	}

	var text strings.Builder
	for _, b := range r.Content {
		if b.Type == "text" {
			text.WriteString(b.Text)
		}
	}
	return datasage.Completion{
		Text:       text.String(),
		Model:      r.Model,
		StopReason: mapStopReason(r.StopReason),
		Usage:      convertUsage(r.Usage),
	}, nil
}

func (c *Client) buildRequestBody(req datasage.Request) ([]byte, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	apiReq := apiRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      convertSystem(req.SystemPrompt),
		Messages:    convertMessages(req.Messages),
		Temperature: req.Temperature,
	}
	return json.Marshal(apiReq)
}

// convertSystem converts a system prompt string to a single cached text
// block. Returns nil when the prompt is empty.
func convertSystem(prompt string) []apiContentBlock {
	if prompt == "" {
		return nil
	}
	return []apiContentBlock{{Type: "text", Text: prompt, CacheControl: &apiCacheControl{Type: "ephemeral"}}}
}

func convertMessages(msgs []datasage.Message) []apiMessage {
	var result []apiMessage
	for _, msg := range msgs {
		switch m := msg.(type) {
		case datasage.UserMessage:
			result = append(result, apiMessage{
				Role:    "user",
				Content: []apiContentBlock{{Type: "text", Text: m.Content}},
			})
		case datasage.AssistantMessage:
			result = append(result, apiMessage{
				Role:    "assistant",
				Content: []apiContentBlock{{Type: "text", Text: m.Content}},
			})
		}
	}
	return result
}

func mapStopReason(s string) datasage.StopReason {
	switch s {
	case "end_turn", "stop_sequence":
		return datasage.StopEndTurn
	case "max_tokens":
		return datasage.StopLength
	case "refusal":
		return datasage.StopFilter
	default:
		return datasage.StopUnknown
	}
}

// convertUsage folds cache reads and writes into InputTokens so that it
// counts every prompt token.
func convertUsage(u apiUsage) datasage.Usage {
	in := u.InputTokens
	if u.CacheCreationInputTokens != nil {
		in += *u.CacheCreationInputTokens
	}
	if u.CacheReadInputTokens != nil {
		in += *u.CacheReadInputTokens
	}
	return datasage.Usage{InputTokens: max(in, 0), OutputTokens: max(u.OutputTokens, 0)}
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &datasage.ProviderError{Provider: name, StatusCode: resp.StatusCode, Message: "failed to read body", Err: err}
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Message == "" {
		return &datasage.ProviderError{Provider: name, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return &datasage.ProviderError{
		Provider:   name,
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("%s: %s", apiErr.Error.Type, apiErr.Error.Message),
	}
}
