package datasage

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure modes.
var (
	// ErrInvalidInput indicates missing or malformed user input. Surfaces
	// recover by re-prompting the user.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrProvider indicates the LLM provider rejected or failed a request.
	ErrProvider = errors.New("provider error")

	// ErrTimeout indicates a request exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrRender indicates a renderer could not produce output.
	ErrRender = errors.New("render error")

	// ErrUnsupportedFormat indicates a file format that cannot be loaded.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrUnrecognizedQuery indicates a question the local query handler
	// cannot answer without the LLM.
	ErrUnrecognizedQuery = errors.New("unrecognized query")
)

// ProviderError describes a failed provider call. StatusCode is zero for
// transport failures.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Provider, msg)
}

// Is reports whether target is ErrProvider.
func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

func (e *ProviderError) Unwrap() error { return e.Err }

// TimeoutError is returned when a provider call exceeds its deadline.
type TimeoutError struct {
	Provider string
	After    time.Duration
}

func (e *TimeoutError) Error() string {
	if e.After > 0 {
		return fmt.Sprintf("%s: no response within %s", e.Provider, e.After)
	}
	return fmt.Sprintf("%s: deadline exceeded", e.Provider)
}

// Is reports whether target is ErrTimeout.
func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// RenderError is returned when a renderer fails. Fallback holds the
// completion text so callers can still show it.
type RenderError struct {
	Mode     Mode
	Fallback string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Mode, e.Err)
}

// Is reports whether target is ErrRender.
func (e *RenderError) Is(target error) bool { return target == ErrRender }

func (e *RenderError) Unwrap() error { return e.Err }
