// Package lambdaproxy serves API Gateway HTTP API (v2) events through a
// regular http.Handler so the Lambda deployment shares the server's router.
package lambdaproxy

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/zentix-relay/pkg/logging"
)

type Handler struct {
	adapter *httpadapter.HandlerAdapterV2
	logger  *logging.Logger
}

func New(next http.Handler, logger *logging.Logger) *Handler {
	if next == nil {
		panic("lambdaproxy: handler cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{adapter: httpadapter.NewV2(withGatewayContext(next)), logger: logger}
}

// Handle runs the wrapped handler for one event. Events the adapter cannot
// convert become 400 responses, never Lambda errors.
func (h *Handler) Handle(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp, err := h.adapter.ProxyWithContext(ctx, evt)
	if err != nil {
		h.logger.Warn("invalid api gateway event", "error", err, "path", evt.RawPath)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"Solicitud inválida"}`,
		}, nil
	}
	return resp, nil
}

// withGatewayContext carries the caller's source IP into RemoteAddr, so the
// rate limiter keys on the visitor and not on API Gateway, and reuses the
// gateway request id. Handlers that write nothing still answer 200.
func withGatewayContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gw, ok := core.GetAPIGatewayV2ContextFromContext(r.Context()); ok {
			if ip := gw.HTTP.SourceIP; ip != "" {
				r.RemoteAddr = ip
			}
			if gw.RequestID != "" && r.Header.Get(middleware.RequestIDHeader) == "" {
				r.Header.Set(middleware.RequestIDHeader, gw.RequestID)
			}
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		if ww.Status() == 0 {
			ww.WriteHeader(http.StatusOK)
		}
	})
}
