package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablePreservesInsertionOrder(t *testing.T) {
	table := NewTable()
	table.Set("hyaluron", "ab 250€")
	table.Set("botox", "ab 120€")
	table.Set("fadenlifting", "ab 390€")

	assert.Equal(t, []string{"hyaluron", "botox", "fadenlifting"}, table.Names())

	// Overwriting keeps the original position.
	table.Set("botox", "ab 150€")
	assert.Equal(t, []string{"hyaluron", "botox", "fadenlifting"}, table.Names())
	v, ok := table.Get("botox")
	require.True(t, ok)
	assert.Equal(t, "ab 150€", v)
}

func TestTableGetMissing(t *testing.T) {
	table := NewTable()
	_, ok := table.Get("unbekannt")
	assert.False(t, ok)
	assert.Equal(t, 0, table.Len())
}

func TestSynonymResolve(t *testing.T) {
	syn := &SynonymTable{}
	syn.Add("faltenunterspritzung", "hyaluron")
	syn.Add("botoxbehandlung", "botox")

	target, ok := syn.Resolve("faltenunterspritzung")
	require.True(t, ok)
	assert.Equal(t, "hyaluron", target)

	_, ok = syn.Resolve("nichtvorhanden")
	assert.False(t, ok)
}

func TestParseKeepsFileOrder(t *testing.T) {
	raw := []byte(`{
		"prices": [
			{"name": "hyaluron", "price": "ab 250€"},
			{"name": "Lippen 1 ml", "price": "ab 299€"}
		],
		"descriptions": [
			{"name": "fadenlifting", "text": "Ein Fadenlifting strafft die Haut ohne OP."}
		],
		"synonyms": [
			{"phrase": "faltenunterspritzung", "target": "hyaluron"}
		],
		"locations": [
			{"city": "wiesbaden", "address": "Kaiser-Friedrich-Ring 1", "phone": "0611 123456", "hours": "Mo-Fr 9-18 Uhr"}
		]
	}`)

	base, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"hyaluron", "Lippen 1 ml"}, base.Prices.Names())
	desc, ok := base.Descriptions.Get("fadenlifting")
	require.True(t, ok)
	assert.Contains(t, desc, "Fadenlifting")
	assert.Len(t, base.Synonyms.Entries(), 1)
	assert.Len(t, base.Locations.Entries(), 1)
	assert.Equal(t, "wiesbaden", base.Locations.Entries()[0].City)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"prices": [`))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does/not/exist.json")
	assert.Error(t, err)
}

func TestEmptyBaseIsUsable(t *testing.T) {
	base := Empty()
	assert.Equal(t, 0, base.Prices.Len())
	assert.Empty(t, base.Synonyms.Entries())
	assert.Empty(t, base.Locations.Entries())
}
