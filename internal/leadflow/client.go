package leadflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/zentix-relay/internal/chat"
	"github.com/wolfman30/zentix-relay/internal/leads"
	"github.com/wolfman30/zentix-relay/internal/llm"
)

const maxResponseBytes = 1 << 20

// HTTPClient talks to a relay's /api/chat and /api/leads endpoints.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx answer from the chat endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("leadflow: chat api returned %d: %s", e.StatusCode, e.Message)
}

func (c *HTTPClient) SendChat(ctx context.Context, message string, history []llm.ChatMessage) (*chat.Response, error) {
	status, body, err := c.post(ctx, "/api/chat", chat.Request{Message: message, History: history})
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &APIError{StatusCode: status, Message: errorMessage(body)}
	}

	var resp chat.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("leadflow: decode chat response: %w", err)
	}
	return &resp, nil
}

// SubmitLead decodes the relay's answer whatever its status; a 500 with
// {"status":"error"} is a normal, non-error result.
func (c *HTTPClient) SubmitLead(ctx context.Context, lead leads.Lead) (*leads.SubmitResponse, error) {
	_, body, err := c.post(ctx, "/api/leads", lead)
	if err != nil {
		return nil, err
	}

	var resp leads.SubmitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("leadflow: decode lead response: %w", err)
	}
	return &resp, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("leadflow: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, fmt.Errorf("leadflow: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("leadflow: post %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("leadflow: read %s response: %w", path, err)
	}
	return resp.StatusCode, body, nil
}

// errorMessage pulls "error" out of a JSON error body. Upstream pass-through
// errors may nest an object there; it is returned as raw JSON.
func errorMessage(body []byte) string {
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Error) == 0 {
		return strings.TrimSpace(string(body))
	}
	var s string
	if err := json.Unmarshal(payload.Error, &s); err == nil {
		return s
	}
	return string(payload.Error)
}

var (
	_ ChatAPI = (*HTTPClient)(nil)
	_ LeadAPI = (*HTTPClient)(nil)
)
