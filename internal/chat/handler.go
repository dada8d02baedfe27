package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/wolfman30/zentix-relay/internal/llm"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

const maxRequestBytes = 1 << 20

// Handler serves POST /api/chat.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Chat handles POST /api/chat requests
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "Método no permitido"})
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		h.logger.Warn("failed to decode chat request", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Solicitud inválida"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Mensaje vacío"})
		return
	}

	resp, err := h.service.Reply(r.Context(), req)
	if err != nil {
		var upstream *llm.UpstreamError
		switch {
		case errors.As(err, &upstream):
			status := upstream.StatusCode
			if status < 400 || status > 599 {
				status = http.StatusBadGateway
			}
			writeJSON(w, status, map[string]any{"error": upstream.Body})
		case errors.Is(err, ErrEmptyMessage):
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Mensaje vacío"})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Error al procesar la solicitud"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
