package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/zentix-relay/internal/llm"
	"github.com/wolfman30/zentix-relay/internal/observability/metrics"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

var chatTracer = otel.Tracer("zentix.internal.chat")

// ErrEmptyMessage is returned when the visitor message is blank.
var ErrEmptyMessage = errors.New("chat: message is empty")

// Request is the body accepted by POST /api/chat.
type Request struct {
	Message    string            `json:"message"`
	History    []llm.ChatMessage `json:"history,omitempty"`
	ClientInfo string            `json:"clientInfo,omitempty"`
}

// Response is returned on a successful completion.
type Response struct {
	Reply       string `json:"reply"`
	LeadCapture bool   `json:"lead_capture"`
}

// Service runs sanitize, assemble, complete and augment for one message.
// It holds no per-conversation state.
type Service struct {
	client    llm.LLMClient
	assembler *PromptAssembler
	augmenter *ReplyAugmenter
	signal    LeadSignal
	params    llm.Params
	maxTurns  int
	timeout   time.Duration
	logger    *logging.Logger
	metrics   *metrics.RelayMetrics
}

type ServiceOption func(*Service)

// WithParams overrides the generation parameters.
func WithParams(p llm.Params) ServiceOption {
	return func(s *Service) {
		s.params = p
	}
}

func WithAugmenter(a *ReplyAugmenter) ServiceOption {
	return func(s *Service) {
		if a != nil {
			s.augmenter = a
		}
	}
}

func WithLeadSignal(sig LeadSignal) ServiceOption {
	return func(s *Service) {
		s.signal = sig
	}
}

// WithHistoryLimit bounds how many prior user/assistant turns are replayed.
func WithHistoryLimit(turns int) ServiceOption {
	return func(s *Service) {
		s.maxTurns = turns
	}
}

// WithTimeout caps the whole completion call, retries included.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.timeout = d
	}
}

func WithMetrics(m *metrics.RelayMetrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(client llm.LLMClient, assembler *PromptAssembler, logger *logging.Logger, opts ...ServiceOption) *Service {
	if client == nil {
		panic("chat: llm client cannot be nil")
	}
	if assembler == nil {
		panic("chat: prompt assembler cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		client:    client,
		assembler: assembler,
		augmenter: NewReplyAugmenter(DefaultWhatsAppGreeting, LinkFormatURL),
		signal:    LeadSignal{Token: DefaultLeadSignalToken, Phrases: DefaultLeadTriggerPhrases},
		params:    llm.DefaultParams(),
		maxTurns:  20,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reply produces the augmented reply for one visitor message. No partial
// reply is returned on failure; provider errors keep their *llm.UpstreamError.
func (s *Service) Reply(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	started := time.Now()

	ctx, span := chatTracer.Start(ctx, "chat.reply")
	defer span.End()
	span.SetAttributes(
		attribute.Int("zentix.history_turns", len(req.History)),
		attribute.Bool("zentix.client_info", req.ClientInfo != ""),
	)

	message := SanitizeMessage(req.Message)
	history := WindowHistory(req.History, s.maxTurns)
	history = ensurePersona(history, s.assembler.Persona(), req.ClientInfo)
	messages := s.assembler.Assemble(history, message, req.ClientInfo)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.Complete(ctx, s.params.Request(messages))
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveChat("error", false, time.Since(started).Seconds())
		s.logger.Error("chat completion failed", "error", err, "turns", len(messages))
		return nil, fmt.Errorf("chat: completion failed: %w", err)
	}

	text, leadCapture := s.signal.Detect(resp.Text)
	reply := s.augmenter.Augment(message, text)

	span.SetAttributes(attribute.Bool("zentix.lead_capture", leadCapture))
	s.metrics.ObserveChat("ok", leadCapture, time.Since(started).Seconds())
	s.logger.Debug("chat reply generated",
		"turns", len(messages),
		"lead_capture", leadCapture,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return &Response{Reply: reply, LeadCapture: leadCapture}, nil
}
