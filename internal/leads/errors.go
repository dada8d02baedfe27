package leads

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFields is returned when name, email or phone is blank
	ErrMissingFields = errors.New("leads: name, email and phone are required")

	// ErrWebhookUnavailable is returned when the webhook cannot be reached or answers with an unreadable body
	ErrWebhookUnavailable = errors.New("leads: webhook unavailable")
)

// RejectedError is returned when the webhook answers without a success status.
type RejectedError struct {
	Status  string
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("leads: webhook rejected lead (status %q): %s", e.Status, e.Message)
}
