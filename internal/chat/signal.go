package chat

import "strings"

// DefaultLeadTriggerPhrases are matched case-insensitively against replies
// from models that do not emit the signal token.
var DefaultLeadTriggerPhrases = []string{"para ayudarte mejor", "necesitamos algunos datos"}

const DefaultLeadSignalToken = "[[LEAD]]"

// LeadSignal decides whether a reply asks the widget to start lead capture.
type LeadSignal struct {
	Token   string
	Phrases []string
}

// Detect strips every occurrence of the token from the reply and reports
// whether the token or a trigger phrase was present.
func (s LeadSignal) Detect(reply string) (string, bool) {
	if s.Token != "" && strings.Contains(reply, s.Token) {
		return strings.TrimSpace(strings.ReplaceAll(reply, s.Token, "")), true
	}

	lower := strings.ToLower(reply)
	for _, phrase := range s.Phrases {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase != "" && strings.Contains(lower, phrase) {
			return reply, true
		}
	}
	return reply, false
}
