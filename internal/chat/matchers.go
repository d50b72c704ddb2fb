package chat

import (
	"github.com/agnivade/levenshtein"

	"github.com/liquidaesthetik/praxis-assistant/internal/knowledge"
)

// MatchVia records which matcher produced a result.
type MatchVia string

const (
	MatchDirect  MatchVia = "direct"
	MatchSynonym MatchVia = "synonym"
	MatchFuzzy   MatchVia = "fuzzy"
)

// MatchResult is the transient outcome of a matcher: the canonical name it
// resolved to and, for fuzzy matches, the similarity score that admitted it.
type MatchResult struct {
	Name  string
	Via   MatchVia
	Score float64
}

// Matcher tries to resolve a normalized message to a canonical treatment name.
// Matchers are run in a fixed precedence order; the first success wins.
type Matcher interface {
	Name() string
	Match(text NormalizedText) (MatchResult, bool)
}

// candidate pairs a display name with its precomputed normalized form.
type candidate struct {
	canonical string
	norm      NormalizedText
}

// DirectMatcher matches canonical knowledge-base names by substring
// containment. Candidates are checked in the knowledge base's insertion order
// and the first containing name wins; there is no ranking by length or
// specificity.
type DirectMatcher struct {
	candidates []candidate
}

// NewDirectMatcher builds the candidate list from the price table followed by
// description-only names, preserving table order.
func NewDirectMatcher(base *knowledge.Base) *DirectMatcher {
	m := &DirectMatcher{}
	seen := make(map[string]struct{})
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		if norm := Normalize(name); norm != "" {
			m.candidates = append(m.candidates, candidate{canonical: name, norm: norm})
		}
	}
	for _, name := range base.Prices.Names() {
		add(name)
	}
	for _, name := range base.Descriptions.Names() {
		add(name)
	}
	return m
}

func (m *DirectMatcher) Name() string { return "direct" }

func (m *DirectMatcher) Match(text NormalizedText) (MatchResult, bool) {
	for _, c := range m.candidates {
		if text.Contains(c.norm) {
			return MatchResult{Name: c.canonical, Via: MatchDirect}, true
		}
	}
	return MatchResult{}, false
}

// SynonymMatcher matches colloquial phrases by substring containment and
// resolves them to their canonical target. First match in synonym-table order
// wins. Targets may dangle; resolution to the knowledge tables happens later.
type SynonymMatcher struct {
	candidates []candidate
}

// NewSynonymMatcher precomputes normalized synonym phrases in table order.
func NewSynonymMatcher(synonyms *knowledge.SynonymTable) *SynonymMatcher {
	m := &SynonymMatcher{}
	for _, s := range synonyms.Entries() {
		if norm := Normalize(s.Phrase); norm != "" {
			m.candidates = append(m.candidates, candidate{canonical: s.Target, norm: norm})
		}
	}
	return m
}

func (m *SynonymMatcher) Name() string { return "synonym" }

func (m *SynonymMatcher) Match(text NormalizedText) (MatchResult, bool) {
	for _, c := range m.candidates {
		if text.Contains(c.norm) {
			return MatchResult{Name: c.canonical, Via: MatchSynonym}, true
		}
	}
	return MatchResult{}, false
}

// FuzzyMatcher admits typo-tolerant matches against the union of canonical
// names and synonym phrases. The single best candidate wins, and only if its
// similarity to the whole normalized message clears the cutoff. Ties keep the
// earlier candidate.
type FuzzyMatcher struct {
	candidates []candidate
	cutoff     float64
}

// NewFuzzyMatcher builds the candidate pool. Synonym phrases resolve to their
// target name so a fuzzy hit on a colloquial phrase answers for the canonical
// treatment.
func NewFuzzyMatcher(base *knowledge.Base, cutoff float64) *FuzzyMatcher {
	m := &FuzzyMatcher{cutoff: cutoff}
	seen := make(map[NormalizedText]struct{})
	add := func(display, canonical string) {
		norm := Normalize(display)
		if norm == "" {
			return
		}
		if _, ok := seen[norm]; ok {
			return
		}
		seen[norm] = struct{}{}
		m.candidates = append(m.candidates, candidate{canonical: canonical, norm: norm})
	}
	for _, name := range base.Prices.Names() {
		add(name, name)
	}
	for _, name := range base.Descriptions.Names() {
		add(name, name)
	}
	for _, s := range base.Synonyms.Entries() {
		add(s.Phrase, s.Target)
	}
	return m
}

func (m *FuzzyMatcher) Name() string { return "fuzzy" }

func (m *FuzzyMatcher) Match(text NormalizedText) (MatchResult, bool) {
	if text == "" {
		return MatchResult{}, false
	}
	best := MatchResult{Via: MatchFuzzy}
	found := false
	for _, c := range m.candidates {
		score := similarity(string(text), string(c.norm))
		if score >= m.cutoff && score > best.Score {
			best.Name = c.canonical
			best.Score = score
			found = true
		}
	}
	return best, found
}

// similarity is a Levenshtein ratio in [0,1]: (l1+l2-distance)/(l1+l2).
// Identical strings score 1. The floor for non-empty inputs is
// min(l1,l2)/(l1+l2), so two disjoint equal-length strings still score 0.5;
// cutoffs at or below that floor admit arbitrary same-length text.
func similarity(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 && lb == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return float64(la+lb-d) / float64(la+lb)
}
