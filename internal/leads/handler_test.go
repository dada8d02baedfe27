package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wolfman30/zentix-relay/pkg/logging"
)

type fakeForwarder struct {
	err   error
	leads []Lead
}

func (f *fakeForwarder) Forward(_ context.Context, lead Lead) error {
	f.leads = append(f.leads, lead)
	return f.err
}

type fakeNotifier struct {
	err   error
	leads []Lead
}

func (f *fakeNotifier) LeadCaptured(_ context.Context, lead Lead) error {
	f.leads = append(f.leads, lead)
	return f.err
}

func postLead(t *testing.T, h *Handler, body any) (*httptest.ResponseRecorder, SubmitResponse) {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(raw))
	w := httptest.NewRecorder()
	h.Submit(w, req)

	var resp SubmitResponse
	_ = json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&resp)
	return w, resp
}

func TestSubmit_Success(t *testing.T) {
	forwarder := &fakeForwarder{}
	notifier := &fakeNotifier{}
	handler := NewHandler(forwarder, logging.Discard()).WithNotifier(notifier)

	lead := Lead{Name: "Juan", Email: "juan@x.com", Phone: "5551234567"}
	w, resp := postLead(t, handler, lead)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if resp.Status != "success" {
		t.Errorf("expected status success, got %q", resp.Status)
	}
	if len(forwarder.leads) != 1 || forwarder.leads[0] != lead {
		t.Errorf("expected lead forwarded verbatim, got %+v", forwarder.leads)
	}
	if len(notifier.leads) != 1 {
		t.Errorf("expected one notification, got %d", len(notifier.leads))
	}
}

func TestSubmit_MissingFields(t *testing.T) {
	cases := []Lead{
		{Email: "juan@x.com", Phone: "5551234567"},
		{Name: "Juan", Phone: "5551234567"},
		{Name: "Juan", Email: "juan@x.com"},
		{Name: "  ", Email: "juan@x.com", Phone: "5551234567"},
	}
	for _, lead := range cases {
		forwarder := &fakeForwarder{}
		handler := NewHandler(forwarder, logging.Discard())

		w, _ := postLead(t, handler, lead)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%+v: expected status %d, got %d", lead, http.StatusBadRequest, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Faltan datos de lead") {
			t.Errorf("%+v: unexpected body %s", lead, w.Body.String())
		}
		if len(forwarder.leads) != 0 {
			t.Errorf("%+v: lead must not be forwarded", lead)
		}
	}
}

func TestSubmit_MethodNotAllowed(t *testing.T) {
	handler := NewHandler(&fakeForwarder{}, logging.Discard())

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	w := httptest.NewRecorder()
	handler.Submit(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
}

func TestSubmit_WebhookRejected(t *testing.T) {
	forwarder := &fakeForwarder{err: &RejectedError{Status: "error", Message: "hoja llena"}}
	notifier := &fakeNotifier{}
	handler := NewHandler(forwarder, logging.Discard()).WithNotifier(notifier)

	w, resp := postLead(t, handler, Lead{Name: "Juan", Email: "juan@x.com", Phone: "5551234567"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if resp.Status != "error" || resp.Message != "hoja llena" {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(notifier.leads) != 0 {
		t.Errorf("rejected lead must not be notified")
	}
}

func TestSubmit_WebhookUnavailable(t *testing.T) {
	forwarder := &fakeForwarder{err: errors.Join(ErrWebhookUnavailable, errors.New("dial tcp"))}
	handler := NewHandler(forwarder, logging.Discard())

	w, resp := postLead(t, handler, Lead{Name: "Juan", Email: "juan@x.com", Phone: "5551234567"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if resp.Message != "Error al enviar datos a Google Sheets" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestSubmit_NotificationFailureKeepsSuccess(t *testing.T) {
	handler := NewHandler(&fakeForwarder{}, logging.Discard()).WithNotifier(&fakeNotifier{err: errors.New("smtp down")})

	w, resp := postLead(t, handler, Lead{Name: "Juan", Email: "juan@x.com", Phone: "5551234567"})

	if w.Code != http.StatusOK || resp.Status != "success" {
		t.Fatalf("expected success, got %d %+v", w.Code, resp)
	}
}
