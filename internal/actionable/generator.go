package actionable

import (
	"fmt"
	"math"
	"strings"

	"harga-pangan-go/internal/types"
)

const (
	growthAlertPct   = 5.0
	disparityRatio   = 1.5
	strongCorrelated = 0.7
)

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

// ForGrowth turns a national growth summary into a card
func ForGrowth(g types.Growth) ActionCard {
	pct := float64(g.PercentDelta)
	switch {
	case pct >= growthAlertPct:
		return ActionCard{
			Insight: fmt.Sprintf("Average price rose %.1f%% (Rp %s to Rp %s)", pct, rupiah(g.Start), rupiah(g.End)),
			Action:  "Check supply in the highest-priced regions and prepare market operations",
			Impact:  "Dampens further price increases for households",
		}
	case pct <= -growthAlertPct:
		return ActionCard{
			Insight: fmt.Sprintf("Average price fell %.1f%% (Rp %s to Rp %s)", math.Abs(pct), rupiah(g.Start), rupiah(g.End)),
			Action:  "Watch farm-gate prices for producer losses",
			Impact:  "Protects producer income while consumer prices ease",
		}
	}
	return ActionCard{
		Insight: fmt.Sprintf("Average price stable (%+.1f%%)", pct),
		Action:  "Keep routine monitoring",
		Impact:  "Low immediate intervention",
	}
}

// ForRanking compares the most and least expensive locations
func ForRanking(r types.Ranking) ActionCard {
	if len(r.Expensive) == 0 || len(r.Cheap) == 0 {
		return ActionCard{
			Insight: "No regional prices in the selected period",
			Action:  "Widen the period or choose another commodity",
			Impact:  "None",
		}
	}
	top, bottom := r.Expensive[0], r.Cheap[0]
	commodity := label(r.Commodity)
	if bottom.Mean > 0 && top.Mean/bottom.Mean >= disparityRatio {
		return ActionCard{
			Insight: fmt.Sprintf("%s in %s costs %.1fx the price in %s", commodity, top.Location, top.Mean/bottom.Mean, bottom.Location),
			Action:  fmt.Sprintf("Review distribution routes into %s", top.Location),
			Impact:  "Narrows the regional price gap",
		}
	}
	return ActionCard{
		Insight: fmt.Sprintf("%s prices are fairly even across %d locations", commodity, r.Total),
		Action:  "No regional intervention needed",
		Impact:  "Low immediate intervention",
	}
}

// ForCorrelation reports the strongest pair off the diagonal
func ForCorrelation(m types.Matrix) ActionCard {
	bi, bj, best := -1, -1, 0.0
	for i := range m.Labels {
		for j := i + 1; j < len(m.Labels); j++ {
			v := m.Values[i][j]
			if !v.Valid() {
				continue
			}
			if bi < 0 || math.Abs(float64(v)) > math.Abs(best) {
				bi, bj, best = i, j, float64(v)
			}
		}
	}
	if bi < 0 || math.Abs(best) < strongCorrelated {
		return ActionCard{
			Insight: "No strong price relationship between the selected commodities",
			Action:  "Monitor each commodity on its own",
			Impact:  "Low immediate intervention",
		}
	}
	direction := "together"
	if best < 0 {
		direction = "in opposite directions"
	}
	return ActionCard{
		Insight: fmt.Sprintf("%s and %s move %s (r = %.2f)", label(m.Labels[bi]), label(m.Labels[bj]), direction, best),
		Action:  "Coordinate stabilisation policy for both commodities",
		Impact:  "One intervention covers related price movements",
	}
}

func label(col string) string {
	return strings.ReplaceAll(col, "_", " ")
}

func rupiah(p types.Price) string {
	if !p.Valid() {
		return "-"
	}
	s := fmt.Sprintf("%.0f", math.Abs(float64(p)))
	var b strings.Builder
	if p < 0 {
		b.WriteByte('-')
	}
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	return b.String()
}
