package regional

import (
	"math"
	"sort"

	"harga-pangan-go/internal/dataset"
	apperrors "harga-pangan-go/internal/errors"
	"harga-pangan-go/internal/types"
)

const (
	MinTopN     = 3
	MaxTopN     = 25
	DefaultTopN = 10
)

// MeanByLocation averages one commodity per location key. Rows with an empty
// key are ignored and locations without a single valid value are dropped.
// The result is ordered by location.
func MeanByLocation(ds *dataset.Dataset, locationCol, commodity string) ([]types.RegionMean, error) {
	keys, ok := ds.LocationKeys(locationCol)
	if !ok {
		return nil, apperrors.NewColumnNotFoundError(ds.Name(), locationCol)
	}
	vals, ok := ds.Numeric(commodity)
	if !ok {
		return nil, apperrors.NewColumnNotFoundError(ds.Name(), commodity)
	}

	type acc struct {
		sum float64
		n   int
	}
	groups := map[string]*acc{}
	for i, k := range keys {
		if k == "" {
			continue
		}
		a, seen := groups[k]
		if !seen {
			a = &acc{}
			groups[k] = a
		}
		if math.IsNaN(vals[i]) {
			continue
		}
		a.sum += vals[i]
		a.n++
	}

	out := make([]types.RegionMean, 0, len(groups))
	for k, a := range groups {
		if a.n == 0 {
			continue
		}
		out = append(out, types.RegionMean{Location: k, Mean: a.sum / float64(a.n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out, nil
}

// ClampTopN bounds a requested ranking size to [MinTopN, min(MaxTopN, total)].
// It never exceeds total, so fewer than MinTopN locations yields all of them.
func ClampTopN(n, total int) int {
	if total <= 0 {
		return 0
	}
	hi := MaxTopN
	if total < hi {
		hi = total
	}
	if n < MinTopN {
		n = MinTopN
	}
	if n > hi {
		n = hi
	}
	return n
}

// RankRegions ranks locations by their mean price of commodity. Expensive is
// descending, Cheap ascending; ties are broken by location name.
func RankRegions(ds *dataset.Dataset, locationCol, commodity string, n int) (types.Ranking, error) {
	means, err := MeanByLocation(ds, locationCol, commodity)
	if err != nil {
		return types.Ranking{}, err
	}
	total := len(means)
	n = ClampTopN(n, total)

	desc := append([]types.RegionMean(nil), means...)
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].Mean > desc[j].Mean })
	asc := append([]types.RegionMean(nil), means...)
	sort.SliceStable(asc, func(i, j int) bool { return asc[i].Mean < asc[j].Mean })

	return types.Ranking{
		Commodity: commodity,
		N:         n,
		Total:     total,
		Expensive: desc[:n],
		Cheap:     asc[:n],
	}, nil
}
