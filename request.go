package datasage

import "fmt"

// Request is what Client sends to a Provider: the system framing plus the
// conversation ending in the user's prompt. Zero-valued parameters leave
// the choice to the provider.
type Request struct {
	Model        string
	SystemPrompt string
	Messages     []Message
	MaxTokens    int      // 0 = provider default
	Temperature  *float64 // nil = provider default
}

// Validate checks the constraints shared by every provider.
func (r Request) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("request has no messages: %w", ErrValidation)
	}
	if last := r.Messages[len(r.Messages)-1]; last.Role() != RoleUser {
		return fmt.Errorf("request must end with a user message, got %s: %w", last.Role(), ErrValidation)
	}
	if t := r.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *t, ErrValidation)
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", r.MaxTokens, ErrValidation)
	}
	return nil
}
