package llm

import (
	"errors"
	"fmt"
)

// ErrNoChoices is returned when the provider answers without any candidate text.
var ErrNoChoices = errors.New("llm: provider returned no choices")

// UpstreamError is a structured failure reported by the completion provider.
// Callers that want to pass the provider status through use errors.As.
type UpstreamError struct {
	StatusCode int
	Body       any
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("llm: upstream status %d", e.StatusCode)
	}
	return fmt.Sprintf("llm: upstream status %d: %v", e.StatusCode, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
