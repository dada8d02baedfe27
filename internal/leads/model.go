package leads

import "strings"

// Lead is the contact information captured by the chat widget.
type Lead struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate requires every field to be non-blank. Values are forwarded as
// submitted; Validate does not normalise them.
func (l Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" || strings.TrimSpace(l.Email) == "" || strings.TrimSpace(l.Phone) == "" {
		return ErrMissingFields
	}
	return nil
}

// SubmitResponse is the body returned by POST /api/leads.
type SubmitResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
