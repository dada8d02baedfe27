package lambdaproxy

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	httpmiddleware "github.com/wolfman30/zentix-relay/internal/http/middleware"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

func event(method, path, body string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RawPath: path,
		Body:    body,
		Headers: map[string]string{"content-type": "application/json"},
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			DomainName: "api.minitienda.online",
			RequestID:  "req-1",
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:   method,
				Path:     path,
				SourceIP: "203.0.113.7",
			},
		},
	}
}

func header(resp events.APIGatewayV2HTTPResponse, name string) string {
	for k, v := range resp.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func TestHandleForwardsRequest(t *testing.T) {
	var got *http.Request
	var gotBody string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"reply":"hola"}`))
	})

	evt := event(http.MethodPost, "/api/chat", `{"message":"hola"}`)
	evt.RawQueryString = "lang=es"

	resp, err := New(next, logging.Discard()).Handle(context.Background(), evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	if resp.Body != `{"reply":"hola"}` {
		t.Fatalf("unexpected body %q", resp.Body)
	}
	if header(resp, "Content-Type") != "application/json" {
		t.Fatalf("expected content-type header, got %v", resp.Headers)
	}

	if got.Method != http.MethodPost || got.URL.Path != "/api/chat" || got.URL.Query().Get("lang") != "es" {
		t.Fatalf("unexpected request line %s %s", got.Method, got.URL)
	}
	if gotBody != `{"message":"hola"}` {
		t.Fatalf("unexpected request body %q", gotBody)
	}
	if got.RemoteAddr != "203.0.113.7" {
		t.Fatalf("expected source ip as remote addr, got %q", got.RemoteAddr)
	}
	if got.Header.Get("X-Request-Id") != "req-1" {
		t.Fatalf("expected request id header, got %q", got.Header.Get("X-Request-Id"))
	}
}

func TestHandleRateLimitsPerSourceIP(t *testing.T) {
	rl := httpmiddleware.NewRateLimiter(0.001, 1)
	defer rl.Close()
	router := httpmiddleware.RateLimit(rl, "memory", nil, logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	h := New(router, logging.Discard())

	first, _ := h.Handle(context.Background(), event(http.MethodPost, "/api/chat", "{}"))
	second, _ := h.Handle(context.Background(), event(http.MethodPost, "/api/chat", "{}"))
	other := event(http.MethodPost, "/api/chat", "{}")
	other.RequestContext.HTTP.SourceIP = "198.51.100.9"
	third, _ := h.Handle(context.Background(), other)

	if first.StatusCode != http.StatusOK || second.StatusCode != http.StatusTooManyRequests || third.StatusCode != http.StatusOK {
		t.Fatalf("unexpected statuses %d %d %d", first.StatusCode, second.StatusCode, third.StatusCode)
	}
}

func TestHandleDecodesBase64Body(t *testing.T) {
	var gotBody string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
	})

	evt := event(http.MethodPost, "/api/leads", base64.StdEncoding.EncodeToString([]byte(`{"name":"Juan"}`)))
	evt.IsBase64Encoded = true

	resp, err := New(next, logging.Discard()).Handle(context.Background(), evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected implicit 200, got %d", resp.StatusCode)
	}
	if gotBody != `{"name":"Juan"}` {
		t.Fatalf("unexpected decoded body %q", gotBody)
	}
}

func TestHandleInvalidBase64Returns400(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	evt := event(http.MethodPost, "/api/chat", "%%%not-base64")
	evt.IsBase64Encoded = true

	resp, err := New(next, logging.Discard()).Handle(context.Background(), evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	if called {
		t.Fatalf("handler must not run for malformed events")
	}
}

func TestHandleEncodesCompressedResponse(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(`{"status":"ok"}`))
		_ = gz.Close()
	})

	resp, err := New(next, logging.Discard()).Handle(context.Background(), event(http.MethodGet, "/health", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsBase64Encoded {
		t.Fatalf("expected base64 body for encoded response")
	}
	raw, err := base64.StdEncoding.DecodeString(resp.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	plain, _ := io.ReadAll(zr)
	if string(plain) != `{"status":"ok"}` {
		t.Fatalf("unexpected body %q", plain)
	}
}

func TestHandleMovesSetCookie(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "a=1")
		w.Header().Add("Set-Cookie", "b=2")
	})

	resp, _ := New(next, logging.Discard()).Handle(context.Background(), event(http.MethodGet, "/health", ""))
	if len(resp.Cookies) != 2 {
		t.Fatalf("expected two cookies, got %v", resp.Cookies)
	}
	if header(resp, "Set-Cookie") != "" {
		t.Fatalf("set-cookie must not be duplicated in headers")
	}
}
