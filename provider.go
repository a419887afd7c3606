package datasage

import "context"

// Provider is a strategy pattern interface for LLM providers.
//
// Complete performs one synchronous call. Implementations return a
// *ProviderError for non-2xx responses and transport failures, and the
// context error unchanged when ctx is done, so that Client can classify
// deadlines. On error the returned Completion is the zero value.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (Completion, error)
}

// Completion is the result of a successful provider call.
type Completion struct {
	Text       string
	Model      string
	StopReason StopReason
	Usage      Usage
}
