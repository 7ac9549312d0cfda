package aggregator

import (
	"sort"

	"harga-pangan-go/internal/types"
)

// ComputeGrowth compares the first and last defined values of series after
// sorting it by period. ok is false when fewer than two defined points remain,
// which is not the same as zero growth.
func ComputeGrowth(series []types.SeriesPoint) (types.Growth, bool) {
	pts := make([]types.SeriesPoint, 0, len(series))
	for _, p := range series {
		if p.Value.Valid() {
			pts = append(pts, p)
		}
	}
	if len(pts) <= 1 {
		return types.Growth{}, false
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Period.Before(pts[j].Period) })

	start, end := pts[0].Value, pts[len(pts)-1].Value
	g := types.Growth{
		Start:        start,
		End:          end,
		NominalDelta: end - start,
	}
	if start != 0 {
		g.PercentDelta = g.NominalDelta / start * 100
	}
	return g, true
}
