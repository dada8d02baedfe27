package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/zentix-relay/internal/chat"
	httpmiddleware "github.com/wolfman30/zentix-relay/internal/http/middleware"
	"github.com/wolfman30/zentix-relay/internal/leads"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *chat.Handler
	LeadsHandler       *leads.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// RateLimit guards /api/*; nil disables it.
	RateLimit func(http.Handler) http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Handlers enforce POST themselves so wrong methods get a JSON 405.
	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimit != nil {
			api.Use(cfg.RateLimit)
		}
		if cfg.ChatHandler != nil {
			api.HandleFunc("/chat", cfg.ChatHandler.Chat)
		}
		if cfg.LeadsHandler != nil {
			api.HandleFunc("/leads", cfg.LeadsHandler.Submit)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
