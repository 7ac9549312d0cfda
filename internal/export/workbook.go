package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"harga-pangan-go/internal/pipeline"
	"harga-pangan-go/internal/types"
)

const (
	SheetSummary     = "Ringkasan"
	SheetTrend       = "Tren_Nasional"
	SheetRegions     = "Perbandingan_Wilayah"
	SheetCorrelation = "Korelasi"
)

// Workbook writes the given views into one sheet each. Nil views and views
// whose status is not ok are listed on the summary sheet only.
func Workbook(trend *pipeline.TrendView, regions *pipeline.RegionView, corr *pipeline.CorrelationView) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	w := &sheetWriter{f: f}
	w.row(SheetSummary, 1, "Dibuat", time.Now().UTC().Format(time.RFC3339))
	w.row(SheetSummary, 2, "Tabel", "Status", "Keterangan")

	r := 3
	if trend != nil {
		w.row(SheetSummary, r, SheetTrend, string(trend.Status), trend.Message)
		if trend.Status == pipeline.StatusOK {
			w.trend(trend)
		}
		r++
	}
	if regions != nil {
		w.row(SheetSummary, r, SheetRegions, string(regions.Status), regions.Message)
		if regions.Status == pipeline.StatusOK && regions.Ranking != nil {
			w.regions(regions)
		}
		r++
	}
	if corr != nil {
		w.row(SheetSummary, r, SheetCorrelation, string(corr.Status), corr.Message)
		if corr.Status == pipeline.StatusOK && corr.Matrix != nil {
			w.correlation(*corr.Matrix)
		}
	}
	if w.err != nil {
		return nil, fmt.Errorf("export workbook: %w", w.err)
	}
	return f, nil
}

// sheetWriter keeps the first error so the sheet builders stay linear
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) sheet(name string) {
	if w.err != nil {
		return
	}
	_, w.err = w.f.NewSheet(name)
}

func (w *sheetWriter) row(sheet string, r int, values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *sheetWriter) trend(v *pipeline.TrendView) {
	w.sheet(SheetTrend)
	cols := trendColumns(v.Trend)

	header := []interface{}{"Periode"}
	for _, c := range cols {
		header = append(header, c)
	}
	header = append(header, "Rata_rata_pilihan")
	w.row(SheetTrend, 1, header...)

	agg := make(map[time.Time]types.Price, len(v.Aggregate))
	for _, p := range v.Aggregate {
		agg[p.Period] = p.Value
	}
	for i, tp := range v.Trend {
		vals := []interface{}{tp.Period.Format("2006-01-02")}
		for _, c := range cols {
			vals = append(vals, cellValue(tp.Means[c]))
		}
		vals = append(vals, cellValue(agg[tp.Period]))
		w.row(SheetTrend, i+2, vals...)
	}
}

func (w *sheetWriter) regions(v *pipeline.RegionView) {
	w.sheet(SheetRegions)
	w.row(SheetRegions, 1, "Peringkat", "Termahal", "Rata_rata", "Termurah", "Rata_rata")
	rk := v.Ranking
	for i := 0; i < rk.N; i++ {
		w.row(SheetRegions, i+2, i+1,
			rk.Expensive[i].Location, rk.Expensive[i].Mean,
			rk.Cheap[i].Location, rk.Cheap[i].Mean)
	}
}

func (w *sheetWriter) correlation(m types.Matrix) {
	w.sheet(SheetCorrelation)
	header := []interface{}{""}
	for _, l := range m.Labels {
		header = append(header, l)
	}
	w.row(SheetCorrelation, 1, header...)
	for i, l := range m.Labels {
		vals := []interface{}{l}
		for _, v := range m.Values[i] {
			vals = append(vals, cellValue(v))
		}
		w.row(SheetCorrelation, i+2, vals...)
	}
}

// trendColumns returns commodity names in stable order
func trendColumns(trend []types.TrendPoint) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, tp := range trend {
		for c := range tp.Means {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// undefined values become empty cells
func cellValue(p types.Price) interface{} {
	if !p.Valid() {
		return nil
	}
	return float64(p)
}
