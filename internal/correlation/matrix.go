package correlation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"harga-pangan-go/internal/dataset"
	apperrors "harga-pangan-go/internal/errors"
	"harga-pangan-go/internal/types"
)

// MinColumns is the smallest selection a matrix can be computed for
const MinColumns = 2

// CorrelationMatrix computes Pearson coefficients between every pair of cols
// using pairwise-complete rows. Labels keep the order of cols. Coefficients
// that cannot be computed (fewer than two shared rows, zero variance) are NaN.
func CorrelationMatrix(ds *dataset.Dataset, cols []string) (types.Matrix, error) {
	if len(cols) < MinColumns {
		return types.Matrix{}, fmt.Errorf("correlation needs at least %d commodities, got %d: %w",
			MinColumns, len(cols), apperrors.ErrEmptySelection)
	}
	series := make([][]float64, len(cols))
	for i, c := range cols {
		vals, ok := ds.Numeric(c)
		if !ok {
			return types.Matrix{}, apperrors.NewColumnNotFoundError(ds.Name(), c)
		}
		series[i] = vals
	}

	m := types.Matrix{
		Labels: append([]string(nil), cols...),
		Values: make([][]types.Price, len(cols)),
	}
	for i := range m.Values {
		m.Values[i] = make([]types.Price, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := pearson(series[i], series[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m.Values[i][j] = types.Price(r)
			m.Values[j][i] = types.Price(r)
		}
	}
	return m, nil
}

func pearson(a, b []float64) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for k := range a {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		x = append(x, a[k])
		y = append(y, b[k])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	switch {
	case math.IsNaN(r) || math.IsInf(r, 0):
		return math.NaN()
	case r > 1:
		return 1
	case r < -1:
		return -1
	}
	return r
}
