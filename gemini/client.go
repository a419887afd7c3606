package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fwojciec/datasage"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ datasage.Provider = (*Client)(nil)

// Client implements [datasage.Provider] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

type config struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*config)

// WithModel sets the model ID. Default is gemini-2.5-flash.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	cfg := config{model: defaultModel}
	for _, o := range opts {
		o(&cfg)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  cfg.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &Client{client: gc, model: cfg.model}, nil
}

// Name returns "gemini".
func (c *Client) Name() string { return name }

// Complete sends a single GenerateContent request.
func (c *Client) Complete(ctx context.Context, req datasage.Request) (datasage.Completion, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, ConvertMessages(req.Messages), buildConfig(req))
	if err != nil {
		if ctx.Err() != nil {
			return datasage.Completion{}, ctx.Err()
		}
		return datasage.Completion{}, providerError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		msg := "response has no candidates"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			msg = fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return datasage.Completion{}, &datasage.ProviderError{Provider: name, Message: msg}
	}

	cand := resp.Candidates[0]
	comp := datasage.Completion{
		Text:       candidateText(cand),
		Model:      model,
		StopReason: mapFinishReason(cand.FinishReason),
	}
	if resp.ModelVersion != "" {
		comp.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		comp.Usage = datasage.Usage{
			InputTokens:  max(int(u.PromptTokenCount), 0),
			OutputTokens: max(int(u.CandidatesTokenCount), 0),
		}
	}
	return comp, nil
}

func buildConfig(req datasage.Request) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}

	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}

	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}

	return config
}

// ConvertMessages converts datasage Messages to genai Contents.
// Exported for testing.
func ConvertMessages(msgs []datasage.Message) []*genai.Content {
	var result []*genai.Content
	for _, msg := range msgs {
		switch m := msg.(type) {
		case datasage.UserMessage:
			result = append(result, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: m.Content}},
			})
		case datasage.AssistantMessage:
			result = append(result, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: m.Content}},
			})
		}
	}
	return result
}

// candidateText joins the non-thought text parts of a candidate.
func candidateText(c *genai.Candidate) string {
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

func mapFinishReason(r genai.FinishReason) datasage.StopReason {
	switch r {
	case genai.FinishReasonStop:
		return datasage.StopEndTurn
	case genai.FinishReasonMaxTokens:
		return datasage.StopLength
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist:
		return datasage.StopFilter
	default:
		return datasage.StopUnknown
	}
}

func providerError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &datasage.ProviderError{Provider: name, StatusCode: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &datasage.ProviderError{Provider: name, StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message, Err: err}
	}
	return &datasage.ProviderError{Provider: name, Err: err}
}
