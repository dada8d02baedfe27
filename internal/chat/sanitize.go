// Package chat turns a visitor message into a persona-guided completion and
// shapes the reply returned to the web widget.
package chat

import "strings"

var markupReplacer = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// SanitizeMessage escapes angle brackets and leaves every other character
// untouched. Ampersands are not escaped, so the function is idempotent.
func SanitizeMessage(message string) string {
	return markupReplacer.Replace(message)
}
