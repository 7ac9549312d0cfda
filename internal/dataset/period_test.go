package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func fixture(t *testing.T) *Dataset {
	t.Helper()
	ds, err := FromRecords("clean", [][]string{
		{"Periode", "Kab/Kota", "beras_premium"},
		{"2024-01-01", "Kota A", "14000"},
		{"2024-02-01", "Kota A", "14200"},
		{"2024-03-01", "Kota A", "14400"},
		{"2024-01-01", "Kota B", "15000"},
		{"2024-02-01", "Kota B", "15200"},
		{"2024-03-01", "Kota B", "15400"},
	}, DefaultSchema())
	require.NoError(t, err)
	return ds
}

func TestFilterByPeriod(t *testing.T) {
	ds := fixture(t)

	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"full range", month(2024, 1), month(2024, 3), 6},
		{"inclusive bounds", month(2024, 2), month(2024, 2), 2},
		{"mid-month end excludes later month", month(2024, 1), time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), 4},
		{"start time of day ignored", time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC), month(2024, 3), 2},
		{"outside range", month(2023, 1), month(2023, 12), 0},
		{"inverted range", month(2024, 3), month(2024, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FilterByPeriod(ds, tt.start, tt.end)
			assert.Equal(t, tt.want, out.Len())
			assert.LessOrEqual(t, out.Len(), ds.Len())
			for _, p := range out.Periods() {
				assert.True(t, Within(p, tt.start, tt.end))
			}
			if tt.want == 0 {
				assert.True(t, out.Empty())
				assert.True(t, out.HasPeriod())
			}
		})
	}
}

func TestFilterByPeriod_DoesNotShareStorage(t *testing.T) {
	ds := fixture(t)
	out := FilterByPeriod(ds, month(2024, 1), month(2024, 3))

	vals, _ := out.Numeric("beras_premium")
	vals[0] = -1

	orig, _ := ds.Numeric("beras_premium")
	assert.Equal(t, 14000.0, orig[0])
}

func TestFilterByPeriod_NoPeriodColumn(t *testing.T) {
	ds := fixture(t)
	ds.periods = nil

	out := FilterByPeriod(ds, month(2030, 1), month(2030, 1))
	assert.Equal(t, ds.Len(), out.Len())
}

func TestDistinctPeriodsAndRange(t *testing.T) {
	ds := fixture(t)

	assert.Equal(t, []time.Time{month(2024, 1), month(2024, 2), month(2024, 3)}, ds.DistinctPeriods())

	first, last, ok := ds.PeriodRange()
	require.True(t, ok)
	assert.Equal(t, month(2024, 1), first)
	assert.Equal(t, month(2024, 3), last)

	_, _, ok = FilterByPeriod(ds, month(2020, 1), month(2020, 1)).PeriodRange()
	assert.False(t, ok)
}

func TestLocationColumn(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		row    []string
		want   string
		source LocationSource
	}{
		{"declared", []string{"Periode", "provinsi", "Kab/Kota", "gula"}, []string{"2024-01-01", "Jawa Barat", "Kota Bandung", "1"}, "Kab/Kota", LocationDeclared},
		{"first text column", []string{"Periode", "kode", "nama_wilayah", "gula"}, []string{"2024-01-01", "3273", "Kota Bandung", "1"}, "nama_wilayah", LocationFirstText},
		{"first column", []string{"Periode", "kode", "gula"}, []string{"2024-01-01", "3273", "1"}, "Periode", LocationFirstColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := FromRecords("clean", [][]string{tt.header, tt.row}, DefaultSchema())
			require.NoError(t, err)
			col, src := ds.LocationColumn()
			assert.Equal(t, tt.want, col)
			assert.Equal(t, tt.source, src)

			keys, ok := ds.LocationKeys(col)
			require.True(t, ok)
			assert.Len(t, keys, 1)
			assert.NotEmpty(t, keys[0])
		})
	}
}

func TestSummarize(t *testing.T) {
	ds := fixture(t)
	ov := Summarize(&Bundle{Clean: ds, Winsor: ds, Commodities: CommodityColumns(ds)})

	assert.Equal(t, 1, ov.Commodities)
	assert.Equal(t, 3, ov.Periods)
	assert.Equal(t, 2, ov.Locations)
	assert.Equal(t, month(2024, 1), ov.FirstPeriod)
	assert.Equal(t, month(2024, 3), ov.LastPeriod)
}
