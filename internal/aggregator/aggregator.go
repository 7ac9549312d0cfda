package aggregator

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"harga-pangan-go/internal/dataset"
	apperrors "harga-pangan-go/internal/errors"
	"harga-pangan-go/internal/types"
)

// ComputeTrend averages every commodity across locations for each distinct
// period. Points come back in ascending period order, one per period.
func ComputeTrend(ds *dataset.Dataset, cols []string) ([]types.TrendPoint, error) {
	if !ds.HasPeriod() {
		return nil, apperrors.NewColumnNotFoundError(ds.Name(), ds.Schema().PeriodColumn)
	}
	series := make(map[string][]float64, len(cols))
	for _, c := range cols {
		vals, ok := ds.Numeric(c)
		if !ok {
			return nil, apperrors.NewColumnNotFoundError(ds.Name(), c)
		}
		series[c] = vals
	}

	rowsByPeriod := map[time.Time][]int{}
	for i, p := range ds.Periods() {
		rowsByPeriod[p] = append(rowsByPeriod[p], i)
	}

	periods := ds.DistinctPeriods()
	out := make([]types.TrendPoint, 0, len(periods))
	buf := make([]float64, 0, ds.Len())
	for _, p := range periods {
		tp := types.TrendPoint{Period: p, Means: make(map[string]types.Price, len(cols))}
		for _, c := range cols {
			buf = buf[:0]
			for _, r := range rowsByPeriod[p] {
				buf = append(buf, series[c][r])
			}
			tp.Means[c] = types.Price(mean(buf))
		}
		out = append(out, tp)
	}
	return out, nil
}

// AggregateSeries collapses the selected commodities of each trend point into a
// single row-wise mean. An empty selection means every commodity in all.
func AggregateSeries(trend []types.TrendPoint, selection, all []string) ([]types.SeriesPoint, error) {
	if len(selection) == 0 {
		selection = all
	}
	known := make(map[string]struct{}, len(all))
	for _, c := range all {
		known[c] = struct{}{}
	}
	for _, c := range selection {
		if _, ok := known[c]; !ok {
			return nil, apperrors.NewColumnNotFoundError("trend", c)
		}
	}

	out := make([]types.SeriesPoint, 0, len(trend))
	buf := make([]float64, 0, len(selection))
	for _, tp := range trend {
		buf = buf[:0]
		for _, c := range selection {
			v, ok := tp.Means[c]
			if !ok {
				continue
			}
			buf = append(buf, float64(v))
		}
		out = append(out, types.SeriesPoint{Period: tp.Period, Value: types.Price(mean(buf))})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out, nil
}

// mean skips NaN values and is NaN when nothing is left
func mean(vals []float64) float64 {
	valid := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return math.NaN()
	}
	return stat.Mean(valid, nil)
}
