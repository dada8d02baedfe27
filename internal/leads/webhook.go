package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/zentix-relay/pkg/logging"
)

// Forwarder delivers a validated lead to its destination.
type Forwarder interface {
	Forward(ctx context.Context, lead Lead) error
}

// WebhookForwarder posts leads to a spreadsheet web app that answers with
// {"status":"success"} or {"status":"error","message":"..."}.
type WebhookForwarder struct {
	url        string
	httpClient *http.Client
	tracer     trace.Tracer
	logger     *logging.Logger
}

func NewWebhookForwarder(url string, timeout time.Duration, logger *logging.Logger) *WebhookForwarder {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &WebhookForwarder{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer("zentix.internal.leads.webhook"),
		logger:     logger,
	}
}

type webhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Forward sends the lead once. Failures are not retried.
func (f *WebhookForwarder) Forward(ctx context.Context, lead Lead) error {
	ctx, span := f.tracer.Start(ctx, "leads.webhook.forward", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	body, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("leads: failed to marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %v", ErrWebhookUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		f.logger.Error("lead webhook request failed", "error", err)
		return fmt.Errorf("%w: %v", ErrWebhookUnavailable, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: read body: %v", ErrWebhookUnavailable, err)
	}

	var parsed webhookResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		span.RecordError(err)
		f.logger.Error("lead webhook returned unreadable body", "error", err, "status", resp.StatusCode)
		return fmt.Errorf("%w: decode body: %v", ErrWebhookUnavailable, err)
	}

	if parsed.Status != "success" {
		rejected := &RejectedError{Status: parsed.Status, Message: parsed.Message}
		span.RecordError(rejected)
		f.logger.Warn("lead webhook rejected lead", "status", parsed.Status, "message", parsed.Message, "http_status", resp.StatusCode)
		return rejected
	}

	f.logger.Info("lead forwarded to webhook", "http_status", resp.StatusCode)
	return nil
}
