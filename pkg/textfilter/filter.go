package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// replacement pairs a word with its family-friendly stand-in. Longer words
// are listed before the words they contain.
type replacement struct {
	word string
	with string
}

var replacements = []replacement{
	{"motherfucker", "mother-trucker"},
	{"bullshit", "baloney"},
	{"horseshit", "nonsense"},
	{"goddamn", "gosh-dang"},
	{"asshole", "jerk"},
	{"dumbass", "dummy"},
	{"jackass", "jerk"},
	{"fuck", "fudge"},
	{"shit", "shoot"},
	{"damn", "dang"},
	{"hell", "heck"},
	{"bitch", "jerk"},
	{"bastard", "jerk"},
	{"crap", "crud"},
	{"piss", "ticked"},
	{"prick", "jerk"},
	{"ass", "butt"},
}

// ProfanityFilter rewrites transcripts before they are echoed back to the
// player. It never touches what the command interpreter sees.
type ProfanityFilter struct {
	patterns []*regexp.Regexp
}

func NewProfanityFilter() *ProfanityFilter {
	pf := &ProfanityFilter{patterns: make([]*regexp.Regexp, len(replacements))}
	for i, r := range replacements {
		pf.patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(r.word) + `\b`)
	}
	return pf
}

// FilterText replaces profanity in text, keeping the case of each match.
func (pf *ProfanityFilter) FilterText(text string) string {
	for i, re := range pf.patterns {
		with := replacements[i].with
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			return preserveCase(match, with)
		})
	}
	return text
}

// ContainsProfanity reports whether any filtered word appears in text.
func (pf *ProfanityFilter) ContainsProfanity(text string) bool {
	for _, re := range pf.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// preserveCase applies the case pattern of the original word to the replacement
func preserveCase(original, with string) string {
	switch {
	case original == "":
		return with
	case strings.ToUpper(original) == original:
		return strings.ToUpper(with)
	case strings.ToLower(original) == original:
		return strings.ToLower(with)
	}

	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(with)
	}

	orig := []rune(original)
	out := []rune(with)
	for i, r := range out {
		if i < len(orig) && unicode.IsUpper(orig[i]) {
			out[i] = unicode.ToUpper(r)
		} else {
			out[i] = unicode.ToLower(r)
		}
	}
	return string(out)
}

// ShouldFilterContent determines if content should be filtered based on rating
func ShouldFilterContent(rating string) bool {
	switch strings.ToUpper(strings.TrimSpace(rating)) {
	case "G", "PG", "PG13", "PG-13":
		return true
	default:
		return false
	}
}
