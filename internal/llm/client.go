// Package llm wraps the third-party completion services behind one interface.
package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one conversation turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMRequest carries the assembled conversation plus sampling parameters.
// A negative Temperature lets the provider pick its default.
type LLMRequest struct {
	Model            string
	Messages         []ChatMessage
	MaxTokens        int32
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
	Stop             []string
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// LLMClient is implemented by every completion provider and decorator.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// Params are the fixed generation parameters applied to every chat request.
type Params struct {
	Model            string
	MaxTokens        int32
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
	Stop             []string
}

// DefaultParams mirrors the tuning the relay has always shipped with.
func DefaultParams() Params {
	return Params{
		Model:            "gpt-4",
		MaxTokens:        200,
		Temperature:      0.7,
		TopP:             1,
		FrequencyPenalty: 0,
		PresencePenalty:  0.6,
		Stop:             []string{"\n", " Usuario:", " Zentix:"},
	}
}

// Request builds an LLMRequest for the given conversation.
func (p Params) Request(messages []ChatMessage) LLMRequest {
	return LLMRequest{
		Model:            p.Model,
		Messages:         messages,
		MaxTokens:        p.MaxTokens,
		Temperature:      p.Temperature,
		TopP:             p.TopP,
		FrequencyPenalty: p.FrequencyPenalty,
		PresencePenalty:  p.PresencePenalty,
		Stop:             append([]string(nil), p.Stop...),
	}
}
