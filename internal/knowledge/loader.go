package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
)

// fileFormat mirrors the on-disk JSON layout. Arrays, not objects, so the
// insertion order of every table is spelled out in the file itself.
type fileFormat struct {
	Prices []struct {
		Name  string `json:"name"`
		Price string `json:"price"`
	} `json:"prices"`
	Descriptions []struct {
		Name string `json:"name"`
		Text string `json:"text"`
	} `json:"descriptions"`
	Synonyms []struct {
		Phrase string `json:"phrase"`
		Target string `json:"target"`
	} `json:"synonyms"`
	Locations []Location `json:"locations"`
}

// Load reads the knowledge base from a JSON file. A name missing from both the
// price and description tables is rejected nowhere: entries are taken as-is,
// and synonym targets are allowed to dangle (the router treats a dangling
// target as "no price/description available").
func Load(path string) (*Base, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes the JSON knowledge file format.
func Parse(raw []byte) (*Base, error) {
	var f fileFormat
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("knowledge: parse: %w", err)
	}

	base := Empty()
	for _, p := range f.Prices {
		base.Prices.Set(p.Name, p.Price)
	}
	for _, d := range f.Descriptions {
		base.Descriptions.Set(d.Name, d.Text)
	}
	for _, s := range f.Synonyms {
		base.Synonyms.Add(s.Phrase, s.Target)
	}
	for _, l := range f.Locations {
		base.Locations.Add(l)
	}
	return base, nil
}
