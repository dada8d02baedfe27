package chat

import (
	"fmt"
	"strings"

	"github.com/wolfman30/zentix-relay/internal/llm"
)

const defaultClientInfoPrefix = "- Información adicional sobre el cliente: "

// Persona is the system turn that opens every conversation.
type Persona struct {
	// Prompt is the persona text sent as the system turn.
	Prompt string
	// ClientInfoPrefix is written before caller-supplied client context.
	ClientInfoPrefix string
}

// PersonaConfig feeds the built-in Zentix persona.
type PersonaConfig struct {
	ContactPhone    string
	WebsiteURL      string
	LeadSignalToken string
}

// DefaultPersona renders the Zentix sales persona for MiniTienda Express.
func DefaultPersona(cfg PersonaConfig) Persona {
	lines := []string{
		"Eres Zentix, un chatbot de ventas y atención al cliente creado por minitienda express.",
		"- Ayudas a los usuarios a encontrar productos adecuados según sus necesidades.",
		"- Proporcionas información detallada sobre productos, precios y disponibilidad.",
		"- Respondes preguntas frecuentes de manera clara y concisa.",
		"- Recopilas información de leads de forma amigable y eficiente.",
		"- Mantienes una conversación fluida y profesional en todo momento.",
		"- Detectas oportunidades para generar leads y guiar al usuario a través del proceso de recopilación de datos.",
	}
	if cfg.ContactPhone != "" {
		lines = append(lines, fmt.Sprintf("- Cuando un usuario proporciona su número de teléfono, generas un enlace de WhatsApp con un mensaje predefinido a %s.", cfg.ContactPhone))
	}
	if cfg.WebsiteURL != "" {
		lines = append(lines, fmt.Sprintf("- Siempre proporcionas la información de contacto de MiniTienda Express como su sitio web: %q cuando sea necesario.", cfg.WebsiteURL))
	}
	lines = append(lines, "- Informas que Zentix es un chatbot disponible para cualquier empresa que desee mejorar su atención al cliente y ventas.")
	if cfg.LeadSignalToken != "" {
		lines = append(lines, fmt.Sprintf("- Cuando necesites el nombre, correo y teléfono del usuario para ayudarle, escribe %s al final de tu respuesta.", cfg.LeadSignalToken))
	}
	return Persona{
		Prompt:           strings.Join(lines, "\n"),
		ClientInfoPrefix: defaultClientInfoPrefix,
	}
}

// Turn renders the system turn, appending client context when present.
func (p Persona) Turn(clientInfo string) llm.ChatMessage {
	content := p.Prompt
	if clientInfo != "" {
		prefix := p.ClientInfoPrefix
		if prefix == "" {
			prefix = defaultClientInfoPrefix
		}
		content += "\n" + prefix + clientInfo
	}
	return llm.ChatMessage{Role: llm.RoleSystem, Content: content}
}

// PromptAssembler builds the message list sent to the completion provider.
type PromptAssembler struct {
	persona Persona
}

func NewPromptAssembler(persona Persona) *PromptAssembler {
	return &PromptAssembler{persona: persona}
}

// Assemble opens an empty conversation with the persona turn. A non-empty
// history is assumed to carry the persona already and is extended as is.
// Histories with several system turns are passed through untouched.
func (a *PromptAssembler) Assemble(history []llm.ChatMessage, userMessage, clientInfo string) []llm.ChatMessage {
	user := llm.ChatMessage{Role: llm.RoleUser, Content: userMessage}
	if len(history) == 0 {
		return []llm.ChatMessage{a.persona.Turn(clientInfo), user}
	}
	out := make([]llm.ChatMessage, 0, len(history)+1)
	out = append(out, history...)
	return append(out, user)
}

// Persona returns the persona the assembler opens conversations with.
func (a *PromptAssembler) Persona() Persona {
	return a.persona
}
