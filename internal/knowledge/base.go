// Package knowledge holds the clinic's static lookup tables: treatment prices,
// treatment descriptions, colloquial synonyms and practice locations. All
// tables are loaded once at startup and read-only afterwards, so concurrent
// request handlers may read them without coordination.
package knowledge

// Table is an insertion-ordered mapping from canonical treatment names to
// opaque display strings. Iteration order is the order entries were added;
// matchers rely on it for their first-match-wins tie-break, so it is an
// explicit property here rather than an accident of map iteration.
type Table struct {
	names  []string
	values map[string]string
}

// NewTable creates an empty ordered table.
func NewTable() *Table {
	return &Table{values: make(map[string]string)}
}

// Set adds or replaces an entry. A replaced entry keeps its original position.
func (t *Table) Set(name, value string) {
	if _, ok := t.values[name]; !ok {
		t.names = append(t.names, name)
	}
	t.values[name] = value
}

// Get returns the value for name, if present.
func (t *Table) Get(name string) (string, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Names returns all names in insertion order. The caller must not mutate it.
func (t *Table) Names() []string {
	return t.names
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.names)
}

// Synonym maps one colloquial phrase to a canonical treatment name.
// Many phrases may point at the same target.
type Synonym struct {
	Phrase string
	Target string
}

// SynonymTable is an insertion-ordered list of synonyms.
type SynonymTable struct {
	entries []Synonym
}

// Add appends a synonym.
func (s *SynonymTable) Add(phrase, target string) {
	s.entries = append(s.entries, Synonym{Phrase: phrase, Target: target})
}

// Entries returns all synonyms in insertion order.
func (s *SynonymTable) Entries() []Synonym {
	return s.entries
}

// Resolve returns the canonical target for a phrase, if one is registered.
func (s *SynonymTable) Resolve(phrase string) (string, bool) {
	for _, e := range s.entries {
		if e.Phrase == phrase {
			return e.Target, true
		}
	}
	return "", false
}

// Location describes one practice site. All fields are opaque display strings.
type Location struct {
	City    string `json:"city"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Hours   string `json:"hours"`
}

// LocationTable is an insertion-ordered list of practice locations.
type LocationTable struct {
	entries []Location
}

// Add appends a location.
func (l *LocationTable) Add(loc Location) {
	l.entries = append(l.entries, loc)
}

// Entries returns all locations in insertion order.
func (l *LocationTable) Entries() []Location {
	return l.entries
}

// Base aggregates every lookup table the chat pipeline needs.
type Base struct {
	Prices       *Table
	Descriptions *Table
	Synonyms     *SynonymTable
	Locations    *LocationTable
}

// Empty returns a Base with all tables present but unpopulated. Used as the
// degraded fallback when the knowledge file cannot be loaded at startup: the
// safety filter and the LLM fallback keep working against empty tables.
func Empty() *Base {
	return &Base{
		Prices:       NewTable(),
		Descriptions: NewTable(),
		Synonyms:     &SynonymTable{},
		Locations:    &LocationTable{},
	}
}
