package chat

import (
	"fmt"
	"net/url"
	"strings"
)

// LinkFormat selects how the WhatsApp link is rendered in a reply.
type LinkFormat string

const (
	LinkFormatURL      LinkFormat = "url"
	LinkFormatMarkdown LinkFormat = "markdown"
)

const (
	DefaultWhatsAppGreeting = "Hola, me gustaría obtener más información sobre sus productos."

	whatsAppSentence = "¡Por supuesto! Aquí tienes el enlace directo para contactarnos a través de WhatsApp: "
	whatsAppLabel    = "Abrir WhatsApp"
)

// ParseLinkFormat maps a config value to a LinkFormat, defaulting to url.
func ParseLinkFormat(s string) LinkFormat {
	if LinkFormat(strings.ToLower(strings.TrimSpace(s))) == LinkFormatMarkdown {
		return LinkFormatMarkdown
	}
	return LinkFormatURL
}

// WhatsAppLink builds a wa.me click-to-chat link with a prefilled greeting.
func WhatsAppLink(digits, greeting string) string {
	digits = strings.TrimPrefix(digits, "+")
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, encodeURIComponent(greeting))
}

// encodeURIComponent escapes like the browser function of the same name,
// so spaces become %20 rather than +.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ReplyAugmenter appends a WhatsApp link to replies whose user message
// carried a phone number.
type ReplyAugmenter struct {
	greeting string
	format   LinkFormat
}

func NewReplyAugmenter(greeting string, format LinkFormat) *ReplyAugmenter {
	if strings.TrimSpace(greeting) == "" {
		greeting = DefaultWhatsAppGreeting
	}
	if format != LinkFormatMarkdown {
		format = LinkFormatURL
	}
	return &ReplyAugmenter{greeting: greeting, format: format}
}

// Augment inspects the sanitized user message, not the reply.
func (a *ReplyAugmenter) Augment(userMessage, reply string) string {
	digits, ok := ExtractPhoneNumber(userMessage)
	if !ok {
		return reply
	}
	link := WhatsAppLink(digits, a.greeting)
	if a.format == LinkFormatMarkdown {
		link = fmt.Sprintf("[%s](%s)", whatsAppLabel, link)
	}
	return reply + "\n" + whatsAppSentence + link
}
