package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/zentix-relay/internal/observability/metrics"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

const forwardFailedMessage = "Error al enviar datos a Google Sheets"

// Notifier is told about every lead the webhook accepted.
type Notifier interface {
	LeadCaptured(ctx context.Context, lead Lead) error
}

// Handler handles HTTP requests for leads
type Handler struct {
	forwarder Forwarder
	notifier  Notifier
	metrics   *metrics.RelayMetrics
	logger    *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(forwarder Forwarder, logger *logging.Logger) *Handler {
	if forwarder == nil {
		panic("leads: forwarder cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		forwarder: forwarder,
		logger:    logger,
	}
}

// WithNotifier enables best-effort notifications after a successful forward.
func (h *Handler) WithNotifier(n Notifier) *Handler {
	h.notifier = n
	return h
}

func (h *Handler) WithMetrics(m *metrics.RelayMetrics) *Handler {
	h.metrics = m
	return h
}

// Submit handles POST /api/leads requests
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Método no permitido"})
		return
	}

	var lead Lead
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&lead); err != nil {
		h.logger.Warn("failed to decode lead request", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Solicitud inválida"})
		return
	}
	if err := lead.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Faltan datos de lead"})
		return
	}

	if err := h.forwarder.Forward(r.Context(), lead); err != nil {
		message := forwardFailedMessage
		var rejected *RejectedError
		if errors.As(err, &rejected) {
			message = rejected.Message
			h.metrics.ObserveLeadForward("rejected")
		} else {
			h.metrics.ObserveLeadForward("error")
		}
		h.logger.Error("failed to forward lead", "error", err)
		writeJSON(w, http.StatusInternalServerError, SubmitResponse{Status: "error", Message: message})
		return
	}
	h.metrics.ObserveLeadForward("success")

	if h.notifier != nil {
		if err := h.notifier.LeadCaptured(r.Context(), lead); err != nil {
			h.metrics.ObserveLeadNotification("error")
			h.logger.Warn("lead notification failed", "error", err)
		} else {
			h.metrics.ObserveLeadNotification("success")
		}
	}

	writeJSON(w, http.StatusOK, SubmitResponse{Status: "success"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
