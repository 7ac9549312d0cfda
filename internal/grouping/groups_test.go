package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupCommodities(t *testing.T) {
	cols := []string{"beras_premium", "cabai_merah", "minyak_goreng"}
	groups := GroupCommodities(cols)

	assert.Equal(t, []string{All, Rice, AnimalProtein, KitchenSpices, OtherStaples}, groups.Names())

	tests := []struct {
		name string
		want []string
	}{
		{"All", cols},
		{"Rice", []string{"beras_premium"}},
		{"Kitchen Spices", []string{"cabai_merah"}},
		{"Other Staples", []string{"minyak_goreng"}},
		{"Animal Protein", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := groups.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, g.Commodities)
		})
	}
}

func TestGroupCommodities_OverlapAndCase(t *testing.T) {
	groups := GroupCommodities([]string{"Tepung_Beras", "Daging_Sapi", "cabe_rawit", "ikan_bandeng"})

	rice, _ := groups.Lookup(Rice)
	staples, _ := groups.Lookup(OtherStaples)
	protein, _ := groups.Lookup(AnimalProtein)
	spices, _ := groups.Lookup(KitchenSpices)

	assert.Equal(t, []string{"Tepung_Beras"}, rice.Commodities)
	assert.Equal(t, []string{"Tepung_Beras"}, staples.Commodities)
	assert.Equal(t, []string{"Daging_Sapi", "ikan_bandeng"}, protein.Commodities)
	assert.Equal(t, []string{"cabe_rawit"}, spices.Commodities)
}

func TestLookup(t *testing.T) {
	groups := GroupCommodities([]string{"beras_medium"})

	g, ok := groups.Lookup("bumbu dapur")
	require.True(t, ok)
	assert.Equal(t, KitchenSpices, g.Name)

	g, ok = groups.Lookup(" rice ")
	require.True(t, ok)
	assert.Equal(t, Rice, g.Name)

	_, ok = groups.Lookup("Sayuran")
	assert.False(t, ok)
}

func TestCandidates(t *testing.T) {
	all := []string{"beras_premium", "cabai_merah", "minyak_goreng"}
	groups := GroupCommodities(all)

	assert.Equal(t, []string{"cabai_merah"}, groups.Candidates(KitchenSpices, all))
	assert.Equal(t, all, groups.Candidates(AnimalProtein, all), "empty group falls back to all")
	assert.Equal(t, all, groups.Candidates("", all))
	assert.Equal(t, all, groups.Candidates("unknown", all))
}

func TestDefaultSelection(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, DefaultSelection([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, DefaultSelection([]string{"a", "b", "c", "d", "e", "f", "g"}))
	assert.Empty(t, DefaultSelection(nil))
}
