package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wolfman30/zentix-relay/internal/leads"
)

type mockEmailSender struct {
	sent   []EmailMessage
	failOn string // fail if To matches this
}

func (m *mockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if m.failOn != "" && msg.To == m.failOn {
		return errors.New("mock email error")
	}
	m.sent = append(m.sent, msg)
	return nil
}

var testLead = leads.Lead{Name: "Juan", Email: "juan@x.com", Phone: "5551234567"}

func TestLeadNotifier_SendsToEveryRecipient(t *testing.T) {
	sender := &mockEmailSender{}
	n := NewLeadNotifier(sender, []string{"ventas@minitienda.online", " ", "dueño@minitienda.online"}, "", nil)

	if err := n.LeadCaptured(context.Background(), testLead); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.Subject != "Nuevo lead - Juan" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"juan@x.com", "5551234567", "Zentix"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q: %s", want, msg.Body)
		}
	}
	if msg.ReplyTo != "juan@x.com" || msg.ReplyToName != "Juan" {
		t.Errorf("expected reply-to the visitor, got %q <%s>", msg.ReplyToName, msg.ReplyTo)
	}
	if msg.Category != "lead" {
		t.Errorf("expected lead category, got %q", msg.Category)
	}
}

func TestLeadNotifier_PartialFailure(t *testing.T) {
	sender := &mockEmailSender{failOn: "bad@minitienda.online"}
	n := NewLeadNotifier(sender, []string{"bad@minitienda.online", "ok@minitienda.online"}, "Zentix", nil)

	err := n.LeadCaptured(context.Background(), testLead)
	if err == nil {
		t.Fatal("expected error when a recipient fails")
	}
	if len(sender.sent) != 1 {
		t.Errorf("expected remaining recipient to be notified, got %d", len(sender.sent))
	}
}

func TestLeadNotifier_NoRecipients(t *testing.T) {
	sender := &mockEmailSender{}
	n := NewLeadNotifier(sender, nil, "", nil)

	if err := n.LeadCaptured(context.Background(), testLead); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Error("expected no emails without recipients")
	}
}

func TestLeadNotifier_NilSafe(t *testing.T) {
	var n *LeadNotifier
	if err := n.LeadCaptured(context.Background(), testLead); err != nil {
		t.Errorf("expected nil notifier to be a no-op, got: %v", err)
	}
}
