package textfilter

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowerCaser = cases.Lower(language.English)

// Normalize prepares a raw utterance for phrase matching: it is lowercased,
// trimmed, and internal runs of whitespace are collapsed to a single space.
// Punctuation is kept; trigger phrases match by containment so it is harmless.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(lowerCaser.String(raw)), " ")
}
