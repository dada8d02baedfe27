package chat

import (
	"strings"

	"github.com/wolfman30/zentix-relay/internal/llm"
)

// WindowHistory keeps a leading system turn plus the last maxTurns user and
// assistant turns. Turns with unknown roles or blank content are dropped, as
// are system turns anywhere but index 0. maxTurns <= 0 disables the window.
func WindowHistory(history []llm.ChatMessage, maxTurns int) []llm.ChatMessage {
	if len(history) == 0 {
		return nil
	}

	var system *llm.ChatMessage
	turns := make([]llm.ChatMessage, 0, len(history))
	for i, msg := range history {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		switch msg.Role {
		case llm.RoleSystem:
			if i == 0 {
				m := msg
				system = &m
			}
		case llm.RoleUser, llm.RoleAssistant:
			turns = append(turns, msg)
		}
	}

	if maxTurns > 0 && len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}

	out := make([]llm.ChatMessage, 0, len(turns)+1)
	if system != nil {
		out = append(out, *system)
	}
	return append(out, turns...)
}

// ensurePersona puts the persona turn at index 0 of a non-empty history
// that lacks one. Empty histories are left for the assembler.
func ensurePersona(history []llm.ChatMessage, persona Persona, clientInfo string) []llm.ChatMessage {
	if len(history) == 0 || history[0].Role == llm.RoleSystem {
		return history
	}
	out := make([]llm.ChatMessage, 0, len(history)+1)
	out = append(out, persona.Turn(clientInfo))
	return append(out, history...)
}
