// Package tokenizer provides the default injectable tokenizer: Unicode-aware
// word splitting plus camelCase/PascalCase segmentation.
package tokenizer

import (
	"regexp"
	"strings"
)

// nonWordRegex matches runs of characters that are neither Unicode letters
// nor Unicode digits — the default "space-or-punctuation" character class.
var nonWordRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// acronymRegex handles cases like "HTTPRequest" -> "HTTP Request"
var acronymRegex = regexp.MustCompile(`([\p{Lu}]+)([\p{Lu}][\p{Ll}])`)

// camelCaseRegex handles cases like "theOffice" -> "the Office" or "myAPI" -> "my API"
var camelCaseRegex = regexp.MustCompile(`([\p{Ll}\p{N}])([\p{Lu}])`)

// Tokenize splits text into lowercase tokens. camelCase/PascalCase runs are
// segmented first, then the result is split on non-letter/non-digit
// boundaries. fieldName is accepted for parity with the injectable
// tokenize(text, field_name?) contract; the default implementation
// ignores it.
func Tokenize(text string, fieldName string) []string {
	processedText := acronymRegex.ReplaceAllString(text, "$1 $2")
	processedText = camelCaseRegex.ReplaceAllString(processedText, "$1 $2")

	lowerText := strings.ToLower(processedText)

	split := nonWordRegex.Split(lowerText, -1)

	tokens := make([]string, 0) // Initialize as empty slice, not nil
	for _, s := range split {
		if s != "" { // Filter out empty strings
			tokens = append(tokens, s)
		}
	}
	return tokens
}
