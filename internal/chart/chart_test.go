package chart

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "harga-pangan-go/internal/errors"
	"harga-pangan-go/internal/pipeline"
	"harga-pangan-go/internal/types"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func trendView() *pipeline.TrendView {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &pipeline.TrendView{
		Selected: []string{"beras_premium", "cabai_merah"},
		Trend: []types.TrendPoint{
			{Period: jan, Means: map[string]types.Price{"beras_premium": 14000, "cabai_merah": 50000}},
			{Period: feb, Means: map[string]types.Price{"beras_premium": 14200, "cabai_merah": types.Price(math.NaN())}},
			{Period: mar, Means: map[string]types.Price{"beras_premium": 14500, "cabai_merah": 42000}},
		},
		Aggregate: []types.SeriesPoint{{Period: jan, Value: 32000}, {Period: feb, Value: 14200}, {Period: mar, Value: 28250}},
	}
}

func TestTrendPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TrendPNG(&buf, trendView()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestTrendPNG_AggregateOnly(t *testing.T) {
	v := trendView()
	v.Selected = []string{}

	var buf bytes.Buffer
	require.NoError(t, TrendPNG(&buf, v))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestTrendPNG_NothingToDraw(t *testing.T) {
	err := TrendPNG(&bytes.Buffer{}, &pipeline.TrendView{Selected: []string{"beras"}})
	assert.True(t, errors.Is(err, apperrors.ErrEmptySelection))
}

func TestRankingPNG(t *testing.T) {
	r := &types.Ranking{
		Commodity: "bawang_merah",
		N:         3,
		Expensive: []types.RegionMean{{Location: "Kota C", Mean: 30}, {Location: "Kota B", Mean: 20}, {Location: "Kota A", Mean: 10}},
		Cheap:     []types.RegionMean{{Location: "Kota A", Mean: 10}, {Location: "Kota B", Mean: 20}, {Location: "Kota C", Mean: 30}},
	}
	for _, side := range []Side{Expensive, Cheap} {
		t.Run(string(side), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RankingPNG(&buf, r, side))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
		})
	}

	err := RankingPNG(&bytes.Buffer{}, &types.Ranking{}, Expensive)
	assert.True(t, errors.Is(err, apperrors.ErrEmptySelection))
}
