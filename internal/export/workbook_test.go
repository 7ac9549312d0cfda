package export

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"harga-pangan-go/internal/pipeline"
	"harga-pangan-go/internal/types"
)

func reopen(t *testing.T, f *excelize.File) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	out, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	return out
}

func TestWorkbook(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	trend := &pipeline.TrendView{
		Status: pipeline.StatusOK,
		Trend: []types.TrendPoint{
			{Period: jan, Means: map[string]types.Price{"cabai": 50, "beras": 10}},
			{Period: feb, Means: map[string]types.Price{"cabai": types.Price(math.NaN()), "beras": 20}},
		},
		Aggregate: []types.SeriesPoint{{Period: jan, Value: 30}, {Period: feb, Value: 20}},
	}
	regions := &pipeline.RegionView{
		Status: pipeline.StatusOK,
		Ranking: &types.Ranking{
			N:         1,
			Expensive: []types.RegionMean{{Location: "Kota B", Mean: 60}},
			Cheap:     []types.RegionMean{{Location: "Kota A", Mean: 40}},
		},
	}
	corr := &pipeline.CorrelationView{Status: pipeline.StatusNeedMoreInput, Message: "select at least 2 commodities"}

	f, err := Workbook(trend, regions, corr)
	require.NoError(t, err)
	wb := reopen(t, f)

	assert.Equal(t, []string{SheetSummary, SheetTrend, SheetRegions}, wb.GetSheetList())

	rows, err := wb.GetRows(SheetTrend)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Periode", "beras", "cabai", "Rata_rata_pilihan"}, rows[0])
	assert.Equal(t, []string{"2024-01-01", "10", "50", "30"}, rows[1])
	assert.Equal(t, "", rows[2][2])

	rows, err = wb.GetRows(SheetRegions)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "Kota B", "60", "Kota A", "40"}, rows[1])

	rows, err = wb.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{SheetCorrelation, "need_more_input", "select at least 2 commodities"}, rows[4])
}

func TestWorkbook_Correlation(t *testing.T) {
	corr := &pipeline.CorrelationView{
		Status: pipeline.StatusOK,
		Matrix: &types.Matrix{
			Labels: []string{"beras", "gula"},
			Values: [][]types.Price{{1, 0.5}, {0.5, 1}},
		},
	}
	f, err := Workbook(nil, nil, corr)
	require.NoError(t, err)
	wb := reopen(t, f)

	rows, err := wb.GetRows(SheetCorrelation)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "beras", "gula"}, rows[0])
	assert.Equal(t, []string{"gula", "0.5", "1"}, rows[2])
}
