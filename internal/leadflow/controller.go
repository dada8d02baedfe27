// Package leadflow is the visitor side of the relay: a chat loop that hands
// over to a linear name, email, phone collection when the bot asks for it.
package leadflow

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/wolfman30/zentix-relay/internal/chat"
	"github.com/wolfman30/zentix-relay/internal/leads"
	"github.com/wolfman30/zentix-relay/internal/llm"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

type State string

const (
	StateNormal          State = "normal"
	StateCollectingName  State = "collecting_name"
	StateCollectingEmail State = "collecting_email"
	StateCollectingPhone State = "collecting_phone"
)

// Bot messages shown by the controller itself.
const (
	MsgAskName       = "¡Genial! Para ayudarte mejor, por favor proporciona tu nombre."
	MsgAskEmail      = "Gracias, ¿cuál es tu correo electrónico?"
	MsgInvalidEmail  = "Por favor, ingresa un correo electrónico válido."
	MsgAskPhone      = "Perfecto, ¿cuál es tu número de teléfono?"
	MsgInvalidPhone  = "Por favor, ingresa un número de teléfono válido."
	MsgLeadThanks    = "¡Gracias por proporcionar tu información! Un representante se pondrá en contacto contigo pronto."
	MsgLeadSaved     = "¡Gracias por proporcionar tu información! Nos pondremos en contacto contigo pronto."
	MsgLeadFailed    = "Hubo un problema al guardar tu información. Por favor, inténtalo de nuevo más tarde."
	MsgLeadUnreached = "Hubo un error al conectar con nuestros servicios. Por favor, inténtalo de nuevo más tarde."
	MsgChatError     = "Lo siento, hubo un error. Inténtalo de nuevo."
)

const minPhoneLength = 7

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone only checks length; format is left to whoever calls back.
func ValidPhone(s string) bool {
	return utf8.RuneCountInString(s) >= minPhoneLength
}

// ChatAPI sends one visitor message with the prior conversation.
type ChatAPI interface {
	SendChat(ctx context.Context, message string, history []llm.ChatMessage) (*chat.Response, error)
}

// LeadAPI submits a completed lead. A returned error means the service could
// not be reached or answered with something unreadable.
type LeadAPI interface {
	SubmitLead(ctx context.Context, lead leads.Lead) (*leads.SubmitResponse, error)
}

// Controller is not safe for concurrent use; one controller drives one
// visitor's conversation.
type Controller struct {
	chat     ChatAPI
	leads    LeadAPI
	fallback chat.LeadSignal
	logger   *logging.Logger

	state   State
	history []llm.ChatMessage
	lead    leads.Lead
}

type Option func(*Controller)

// WithTriggerPhrases sets the phrases that start lead capture when the
// server does not send lead_capture.
func WithTriggerPhrases(phrases []string) Option {
	return func(c *Controller) {
		c.fallback = chat.LeadSignal{Phrases: phrases}
	}
}

func WithLogger(logger *logging.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewController(chatAPI ChatAPI, leadAPI LeadAPI, opts ...Option) *Controller {
	if chatAPI == nil {
		panic("leadflow: chat api cannot be nil")
	}
	if leadAPI == nil {
		panic("leadflow: lead api cannot be nil")
	}
	c := &Controller{
		chat:     chatAPI,
		leads:    leadAPI,
		fallback: chat.LeadSignal{Phrases: chat.DefaultLeadTriggerPhrases},
		logger:   logging.Default(),
		state:    StateNormal,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	return c.state
}

// History returns a copy of the turns sent with the next chat request.
func (c *Controller) History() []llm.ChatMessage {
	out := make([]llm.ChatMessage, len(c.history))
	copy(out, c.history)
	return out
}

// Handle processes one line of visitor input and returns the bot messages to
// display, in order. Blank input is ignored.
func (c *Controller) Handle(ctx context.Context, input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	switch c.state {
	case StateCollectingName:
		c.lead.Name = input
		c.state = StateCollectingEmail
		return []string{MsgAskEmail}
	case StateCollectingEmail:
		if !ValidEmail(input) {
			return []string{MsgInvalidEmail}
		}
		c.lead.Email = input
		c.state = StateCollectingPhone
		return []string{MsgAskPhone}
	case StateCollectingPhone:
		if !ValidPhone(input) {
			return []string{MsgInvalidPhone}
		}
		c.lead.Phone = input
		return c.submitLead(ctx)
	default:
		return c.converse(ctx, input)
	}
}

func (c *Controller) converse(ctx context.Context, input string) []string {
	resp, err := c.chat.SendChat(ctx, input, c.History())
	if err != nil {
		c.logger.Warn("chat request failed", "error", err)
		return []string{MsgChatError}
	}

	c.history = append(c.history,
		llm.ChatMessage{Role: llm.RoleUser, Content: input},
		llm.ChatMessage{Role: llm.RoleAssistant, Content: resp.Reply},
	)

	out := []string{resp.Reply}
	capture := resp.LeadCapture
	if !capture {
		_, capture = c.fallback.Detect(resp.Reply)
	}
	if capture {
		c.state = StateCollectingName
		out = append(out, MsgAskName)
	}
	return out
}

func (c *Controller) submitLead(ctx context.Context) []string {
	lead := c.lead
	c.lead = leads.Lead{}
	c.state = StateNormal

	out := []string{MsgLeadThanks}
	resp, err := c.leads.SubmitLead(ctx, lead)
	switch {
	case err != nil:
		c.logger.Warn("lead submission failed", "error", err)
		return append(out, MsgLeadUnreached)
	case resp == nil || resp.Status != "success":
		if resp != nil {
			c.logger.Warn("lead not saved", "message", resp.Message)
		}
		return append(out, MsgLeadFailed)
	default:
		return append(out, MsgLeadSaved)
	}
}
