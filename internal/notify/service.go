package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfman30/zentix-relay/internal/leads"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

// LeadNotifier emails the sales team whenever a lead reaches the spreadsheet.
type LeadNotifier struct {
	email      EmailSender
	recipients []string
	brand      string
	logger     *logging.Logger
}

// NewLeadNotifier returns a notifier that writes to every recipient.
// Blank recipients are dropped.
func NewLeadNotifier(email EmailSender, recipients []string, brand string, logger *logging.Logger) *LeadNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	if brand == "" {
		brand = "Zentix"
	}
	var to []string
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			to = append(to, r)
		}
	}
	return &LeadNotifier{
		email:      email,
		recipients: to,
		brand:      brand,
		logger:     logger,
	}
}

// LeadCaptured satisfies leads.Notifier.
func (n *LeadNotifier) LeadCaptured(ctx context.Context, lead leads.Lead) error {
	if n == nil || n.email == nil || len(n.recipients) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Nuevo lead - %s", lead.Name)
	body := fmt.Sprintf(`¡Un nuevo lead llegó desde el chat!

Nombre: %s
Correo: %s
Teléfono: %s

Equipo %s`, lead.Name, lead.Email, lead.Phone, n.brand)

	var errs []error
	for _, recipient := range n.recipients {
		msg := EmailMessage{
			To:          recipient,
			Subject:     subject,
			Body:        body,
			ReplyTo:     lead.Email,
			ReplyToName: lead.Name,
			Category:    "lead",
		}
		if err := n.email.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		n.logger.Warn("lead notification partially failed", "failed", len(errs), "recipients", len(n.recipients))
		return fmt.Errorf("notify: %d notification(s) failed: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

var _ leads.Notifier = (*LeadNotifier)(nil)
