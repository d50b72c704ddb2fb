package chat

// RefusalReply is the fixed response for forbidden-topic queries.
const RefusalReply = "Dazu darf ich leider keine Auskunft geben. Ich helfe dir gerne bei Fragen zu unseren Behandlungen, Preisen und Standorten!"

// defaultForbiddenTokens marks sensitive categories: financial data,
// credentials, internal company data and staff data. Matching is substring
// containment on normalized text, so over-blocking is expected and preferred
// to under-blocking.
var defaultForbiddenTokens = []string{
	"iban",
	"kontodaten",
	"kontonummer",
	"bankverbindung",
	"umsatz",
	"gewinn",
	"bilanz",
	"gehalt",
	"gehälter",
	"passwort",
	"passwörter",
	"zugangsdaten",
	"logindaten",
	"apikey",
	"interna",
	"mitarbeiterdaten",
	"personalakte",
}

// Guard scans normalized text for disallowed-topic markers. A positive result
// is terminal: no knowledge lookup and no model call may happen afterwards.
type Guard struct {
	tokens []NormalizedText
}

// NewGuard builds a guard from raw token strings. Tokens are normalized with
// the same algorithm as messages so the comparison space is identical.
func NewGuard(tokens []string) *Guard {
	g := &Guard{tokens: make([]NormalizedText, 0, len(tokens))}
	for _, tok := range tokens {
		if n := Normalize(tok); n != "" {
			g.tokens = append(g.tokens, n)
		}
	}
	return g
}

// DefaultGuard returns a guard with the built-in forbidden-topic tokens.
func DefaultGuard() *Guard {
	return NewGuard(defaultForbiddenTokens)
}

// Forbidden reports whether the text contains any disallowed-topic token.
func (g *Guard) Forbidden(text NormalizedText) bool {
	for _, tok := range g.tokens {
		if text.Contains(tok) {
			return true
		}
	}
	return false
}
