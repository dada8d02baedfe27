package chat

import (
	"regexp"
	"strings"
)

var (
	// 3-3-4 grouping with an optional country code.
	groupedPhonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?(\d{3}[-.\s]?){2}\d{4}`)
	// 10 to 13 digits with at most one separator between digits; catches
	// paired formatting such as "+52 55 28 50 37 66".
	digitRunPhonePattern = regexp.MustCompile(`\+?\d(?:[-.\s]?\d){9,12}`)

	phoneSeparators = strings.NewReplacer(" ", "", "\t", "", "\n", "", "\r", "", "\f", "", "\v", "", ".", "", "-", "", "+", "")
)

// ExtractPhoneNumber returns the first phone-shaped substring of message
// reduced to digits. It is a heuristic, not a telephony parser.
func ExtractPhoneNumber(message string) (string, bool) {
	match := firstMatch(message, groupedPhonePattern, digitRunPhonePattern)
	if match == nil {
		return "", false
	}
	digits := phoneSeparators.Replace(message[match[0]:match[1]])
	if digits == "" {
		return "", false
	}
	return digits, true
}

// firstMatch returns the leftmost match across patterns; earlier patterns win ties.
func firstMatch(s string, patterns ...*regexp.Regexp) []int {
	var best []int
	for _, p := range patterns {
		loc := p.FindStringIndex(s)
		if loc == nil {
			continue
		}
		if best == nil || loc[0] < best[0] {
			best = loc
		}
	}
	return best
}
