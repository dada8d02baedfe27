package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/wolfman30/zentix-relay/pkg/logging"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "",
		FromEmail: "test@example.com",
	}, nil)

	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "test@example.com",
	}, nil)

	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != "Zentix" {
		t.Errorf("expected default from name 'Zentix', got %q", sender.fromName)
	}
}

type fakeSendGrid struct {
	status int
	err    error
	sent   []*mail.SGMailV3
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status}, nil
}

func TestSendGridSender_Send(t *testing.T) {
	api := &fakeSendGrid{status: 202}
	sender := &SendGridSender{client: api, fromEmail: "bot@minitienda.online", fromName: "Zentix", logger: logging.Discard()}

	err := sender.Send(context.Background(), EmailMessage{To: "ventas@minitienda.online", Subject: "Hola", Body: "cuerpo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(api.sent))
	}
	if api.sent[0].Subject != "Hola" {
		t.Errorf("unexpected subject %q", api.sent[0].Subject)
	}
	if api.sent[0].ReplyTo != nil || len(api.sent[0].Categories) != 0 {
		t.Error("expected no reply-to or categories for a plain message")
	}
}

func TestSendGridSender_LeadShaping(t *testing.T) {
	api := &fakeSendGrid{status: 202}
	sender := &SendGridSender{client: api, fromEmail: "bot@minitienda.online", fromName: "Zentix", logger: logging.Discard()}

	err := sender.Send(context.Background(), EmailMessage{
		To:          "ventas@minitienda.online",
		Subject:     "Nuevo lead - Juan",
		Body:        "cuerpo",
		ReplyTo:     "juan@x.com",
		ReplyToName: "Juan",
		Category:    "lead",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sent := api.sent[0]
	if sent.ReplyTo == nil || sent.ReplyTo.Address != "juan@x.com" || sent.ReplyTo.Name != "Juan" {
		t.Errorf("unexpected reply-to %+v", sent.ReplyTo)
	}
	if len(sent.Categories) != 1 || sent.Categories[0] != "lead" {
		t.Errorf("unexpected categories %v", sent.Categories)
	}
}

func TestSendGridSender_ErrorStatus(t *testing.T) {
	sender := &SendGridSender{client: &fakeSendGrid{status: 401}, logger: logging.Discard()}

	if err := sender.Send(context.Background(), EmailMessage{To: "x@y.z"}); err == nil {
		t.Error("expected error for 401 status")
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{client: nil}

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recipient@example.com",
		Subject: "Test",
		Body:    "Test body",
	})

	if err == nil {
		t.Error("expected error when client is nil")
	}
}

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender_Send(t *testing.T) {
	api := &fakeSES{}
	sender := NewSESSender(api, SESConfig{FromEmail: "bot@minitienda.online"}, nil)

	err := sender.Send(context.Background(), EmailMessage{To: "ventas@minitienda.online", Subject: "Nuevo lead", Body: "texto"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.inputs) != 1 {
		t.Fatalf("expected one SES call, got %d", len(api.inputs))
	}
	in := api.inputs[0]
	if got := aws.ToString(in.FromEmailAddress); got != "Zentix <bot@minitienda.online>" {
		t.Errorf("unexpected from %q", got)
	}
	if in.Content.Simple.Body.Html != nil {
		t.Error("expected no HTML body")
	}
	if got := aws.ToString(in.Content.Simple.Body.Text.Data); got != "texto" {
		t.Errorf("unexpected text body %q", got)
	}
}

func TestSESSender_LeadShaping(t *testing.T) {
	api := &fakeSES{}
	sender := NewSESSender(api, SESConfig{FromEmail: "bot@minitienda.online"}, nil)

	err := sender.Send(context.Background(), EmailMessage{To: "ventas@minitienda.online", Subject: "Nuevo lead", Body: "texto", ReplyTo: "juan@x.com", Category: "lead"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in := api.inputs[0]
	if len(in.ReplyToAddresses) != 1 || in.ReplyToAddresses[0] != "juan@x.com" {
		t.Errorf("unexpected reply-to %v", in.ReplyToAddresses)
	}
	if len(in.EmailTags) != 1 || aws.ToString(in.EmailTags[0].Name) != "category" || aws.ToString(in.EmailTags[0].Value) != "lead" {
		t.Errorf("unexpected tags %+v", in.EmailTags)
	}
}

func TestSESSender_Error(t *testing.T) {
	sender := NewSESSender(&fakeSES{err: errors.New("throttled")}, SESConfig{}, nil)

	if err := sender.Send(context.Background(), EmailMessage{To: "x@y.z"}); err == nil {
		t.Error("expected error")
	}
}

func TestNewSESSender_NilClient(t *testing.T) {
	if sender := NewSESSender(nil, SESConfig{}, nil); sender != nil {
		t.Error("expected nil sender without client")
	}
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recipient@example.com",
		Subject: "Test Subject",
		Body:    "Test body",
	})

	if err != nil {
		t.Errorf("stub sender should not return error, got: %v", err)
	}
}
