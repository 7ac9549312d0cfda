package grouping

import "strings"

const (
	All           = "Semua"
	Rice          = "Beras"
	AnimalProtein = "Protein Hewani"
	KitchenSpices = "Bumbu Dapur"
	OtherStaples  = "Bahan Pokok Lain"
)

// DefaultSelectionSize is how many commodities a trend view selects when the caller picks none.
const DefaultSelectionSize = 5

type definition struct {
	name     string
	alias    string
	keywords []string
}

// Order matters: it is the order groups are offered in.
var definitions = []definition{
	{name: All, alias: "All"},
	{name: Rice, alias: "Rice", keywords: []string{"beras"}},
	{name: AnimalProtein, alias: "Animal Protein", keywords: []string{"daging", "telur", "ikan"}},
	{name: KitchenSpices, alias: "Kitchen Spices", keywords: []string{"cabai", "cabe", "bawang"}},
	{name: OtherStaples, alias: "Other Staples", keywords: []string{"minyak", "gula", "tepung", "kedelai", "garam"}},
}

type Group struct {
	Name        string   `json:"name"`
	Alias       string   `json:"alias"`
	Commodities []string `json:"commodities"`
}

type Groups []Group

// GroupCommodities buckets commodity columns by case-insensitive keyword match.
// Membership is tested per group, so one commodity can land in several groups.
// A group with no match holds an empty, non-nil slice.
func GroupCommodities(cols []string) Groups {
	out := make(Groups, 0, len(definitions))
	for _, def := range definitions {
		g := Group{Name: def.name, Alias: def.alias, Commodities: []string{}}
		for _, c := range cols {
			if def.keywords == nil || matches(c, def.keywords) {
				g.Commodities = append(g.Commodities, c)
			}
		}
		out = append(out, g)
	}
	return out
}

func matches(col string, keywords []string) bool {
	lc := strings.ToLower(col)
	for _, k := range keywords {
		if strings.Contains(lc, k) {
			return true
		}
	}
	return false
}

// Lookup finds a group by its name or English alias, ignoring case.
func (gs Groups) Lookup(name string) (Group, bool) {
	name = strings.TrimSpace(name)
	for _, g := range gs {
		if strings.EqualFold(g.Name, name) || strings.EqualFold(g.Alias, name) {
			return g, true
		}
	}
	return Group{}, false
}

// Names lists group names in display order
func (gs Groups) Names() []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.Name
	}
	return out
}

// Candidates returns the commodities offered for a group. An unknown or empty
// group falls back to every commodity.
func (gs Groups) Candidates(name string, all []string) []string {
	g, ok := gs.Lookup(name)
	if !ok || len(g.Commodities) == 0 {
		return append([]string(nil), all...)
	}
	return append([]string(nil), g.Commodities...)
}

// DefaultSelection picks the leading candidates
func DefaultSelection(candidates []string) []string {
	n := DefaultSelectionSize
	if len(candidates) < n {
		n = len(candidates)
	}
	return append([]string(nil), candidates[:n]...)
}
