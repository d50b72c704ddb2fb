// Package chat implements the intent-resolution pipeline behind the chat
// endpoint: text normalization, the forbidden-topic filter, the ordered
// matcher chain over the knowledge base and the final model fallback.
package chat

import (
	"regexp"
	"strings"
)

// NormalizedText is the canonical matching form of a message: lower-case,
// no whitespace or punctuation, nothing outside [a-z0-9äöüß], with unit
// abbreviations expanded. Computed fresh per request and never mutated.
type NormalizedText string

// Contains reports whether sub occurs in t.
func (t NormalizedText) Contains(sub NormalizedText) bool {
	return sub != "" && strings.Contains(string(t), string(sub))
}

// unitExpansion rewrites a unit abbreviation to its canonical word so that
// "1 ml", "1ml" and "1 milliliter" all normalize identically.
type unitExpansion struct {
	withDigit  *regexp.Regexp // "1 ml", "1ml"
	standalone *regexp.Regexp // bare "ml"
	stripped   *regexp.Regexp // trailing "1ml" recombined by whitespace removal
	word       string
}

func newUnitExpansion(abbrev, word string) unitExpansion {
	return unitExpansion{
		withDigit:  regexp.MustCompile(`(\d)\s*` + abbrev + `\b`),
		standalone: regexp.MustCompile(`\b` + abbrev + `\b`),
		stripped:   regexp.MustCompile(`(\d)` + abbrev + `$`),
		word:       word,
	}
}

var unitExpansions = []unitExpansion{
	newUnitExpansion("ml", "milliliter"),
	newUnitExpansion("mg", "milligramm"),
	newUnitExpansion("min", "minuten"),
}

var (
	reSeparators = regexp.MustCompile(`[\s.,]+`)
	reAlphabet   = regexp.MustCompile(`[^a-z0-9äöüß]+`)
)

// Normalize canonicalizes raw user text for matching. It is pure, total and
// idempotent: the post-strip expansion pass guarantees that whitespace removal
// can never re-create an expandable unit abbreviation in the output.
func Normalize(text string) NormalizedText {
	s := strings.ToLower(text)

	for _, u := range unitExpansions {
		s = u.withDigit.ReplaceAllString(s, "${1}"+u.word)
		s = u.standalone.ReplaceAllString(s, u.word)
	}

	s = reSeparators.ReplaceAllString(s, "")
	s = reAlphabet.ReplaceAllString(s, "")

	for _, u := range unitExpansions {
		s = u.stripped.ReplaceAllString(s, "${1}"+u.word)
	}

	return NormalizedText(s)
}
