package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	apperrors "harga-pangan-go/internal/errors"
	"harga-pangan-go/internal/logger"
)

// missing cell tokens, normalized to gota's NaN marker before type detection
var missingTokens = map[string]struct{}{
	"": {}, "NA": {}, "NaN": {}, "nan": {}, "null": {}, "None": {}, "<NA>": {}, "N/A": {},
}

func isMissing(v string) bool {
	_, ok := missingTokens[strings.TrimSpace(v)]
	return ok
}

// Bundle is the result of loading the clean and winsorized tables together.
type Bundle struct {
	Clean       *Dataset
	Winsor      *Dataset
	Commodities []string
}

type Loader struct {
	schema     Schema
	retryLimit time.Duration
}

type Option func(*Loader)

// WithRetryLimit bounds the total time spent retrying a transient read failure
func WithRetryLimit(d time.Duration) Option {
	return func(l *Loader) { l.retryLimit = d }
}

func NewLoader(schema Schema, opts ...Option) *Loader {
	l := &Loader{schema: schema, retryLimit: 2 * time.Second}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Loader) Schema() Schema { return l.schema }

// Load reads the clean and winsorized tables and detects the commodity columns.
// Any error here is fatal for the session.
func (l *Loader) Load(ctx context.Context, cleanPath, winsorPath string) (*Bundle, error) {
	log := logger.New().Component("dataset.loader")

	clean, err := l.loadTable(ctx, "clean", cleanPath)
	if err != nil {
		return nil, fmt.Errorf("load clean: %w", err)
	}
	wins, err := l.loadTable(ctx, "winsorized", winsorPath)
	if err != nil {
		return nil, fmt.Errorf("load winsorized: %w", err)
	}

	cols := CommodityColumns(clean)
	for _, c := range cols {
		if k, ok := wins.Kind(c); !ok || k != KindNumeric {
			return nil, fmt.Errorf("%w: commodity %q missing from winsorized table", apperrors.ErrSchemaMismatch, c)
		}
	}

	log.WithFields(map[string]interface{}{
		"clean_rows":  clean.Len(),
		"winsor_rows": wins.Len(),
		"commodities": len(cols),
	}).Info("price tables loaded")

	return &Bundle{Clean: clean, Winsor: wins, Commodities: cols}, nil
}

// LoadGeo reads the optional coordinates table. A missing file yields (nil, nil):
// the map feature is unavailable but nothing else is affected.
func (l *Loader) LoadGeo(ctx context.Context, path string) (*Dataset, error) {
	log := logger.New().Component("dataset.geo").WithField("path", path)

	geo, err := l.loadTable(ctx, "geo", path)
	if err != nil {
		if errors.Is(err, apperrors.ErrSourceNotFound) {
			log.WithField("reason", apperrors.ErrSourceNotFound.Error()).Info("geo table absent, map disabled")
			return nil, nil
		}
		return nil, fmt.Errorf("load geo: %w", err)
	}
	log.WithField("rows", geo.Len()).Info("geo table loaded")
	return geo, nil
}

func (l *Loader) loadTable(ctx context.Context, name, path string) (*Dataset, error) {
	var records [][]string
	op := func() error {
		recs, err := readRecords(path)
		if err != nil {
			if os.IsNotExist(err) {
				return backoff.Permanent(fmt.Errorf("%s: %w", path, apperrors.ErrSourceNotFound))
			}
			return err
		}
		records = recs
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxElapsedTime = l.retryLimit
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return FromRecords(name, records, l.schema)
}

// readRecords returns header + data rows of a CSV or the first sheet of an XLSX file
func readRecords(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

func readWorkbook(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return rows, nil
	}
	// GetRows trims trailing empty cells; pad to the header width
	width := len(rows[0])
	for i, r := range rows {
		if len(r) < width {
			padded := make([]string, width)
			copy(padded, r)
			rows[i] = padded
		}
	}
	return rows, nil
}

// FromRecords builds a Dataset from a header row followed by data rows.
// If the schema's period column is not in the header, the first column is taken
// to be the period column. Every period value must parse.
func FromRecords(name string, records [][]string, schema Schema) (*Dataset, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, apperrors.NewParseError(name, "header", 0, "", fmt.Errorf("table has no header"))
	}
	header := append([]string(nil), records[0]...)
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if indexOf(header, schema.PeriodColumn) < 0 {
		header[0] = schema.PeriodColumn
	}
	width := len(header)
	rows := records[1:]

	if len(rows) == 0 {
		return emptyDataset(name, header, schema), nil
	}

	normalized := make([][]string, 0, len(rows)+1)
	normalized = append(normalized, header)
	for i, r := range rows {
		if len(r) != width {
			return nil, apperrors.NewParseError(name, "row", i+1, strings.Join(r, ","),
				fmt.Errorf("expected %d fields, got %d", width, len(r)))
		}
		nr := make([]string, width)
		for j, v := range r {
			v = strings.TrimSpace(v)
			if isMissing(v) {
				v = "NaN"
			}
			nr[j] = v
		}
		normalized = append(normalized, nr)
	}

	df := dataframe.LoadRecords(normalized,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	)
	if df.Err != nil {
		return nil, apperrors.NewParseError(name, "table", 0, "", df.Err)
	}

	names := df.Names()
	types := df.Types()
	ds := &Dataset{
		name:    name,
		schema:  schema,
		columns: names,
		kinds:   make(map[string]ColumnKind, len(names)),
		numeric: make(map[string][]float64),
		text:    make(map[string][]string),
		rows:    len(rows),
	}

	for i, col := range names {
		if col == schema.PeriodColumn {
			periods, err := parsePeriodColumn(name, col, rows, i)
			if err != nil {
				return nil, err
			}
			ds.periods = periods
			ds.kinds[col] = KindPeriod
			continue
		}
		switch {
		case types[i] == series.Int || types[i] == series.Float:
			ds.kinds[col] = KindNumeric
			ds.numeric[col] = df.Col(col).Float()
		case allMissing(rows, i):
			// pandas reads an all-empty column as float64
			ds.kinds[col] = KindNumeric
			ds.numeric[col] = nanColumn(len(rows))
		case types[i] == series.Bool:
			ds.kinds[col] = KindBool
			ds.text[col] = rawColumn(rows, i)
		default:
			ds.kinds[col] = KindText
			ds.text[col] = rawColumn(rows, i)
		}
	}
	return ds, nil
}

// emptyDataset keeps the header of a table without data rows; no column is numeric
func emptyDataset(name string, header []string, schema Schema) *Dataset {
	ds := &Dataset{
		name:    name,
		schema:  schema,
		columns: header,
		kinds:   make(map[string]ColumnKind, len(header)),
		periods: []time.Time{},
		numeric: make(map[string][]float64),
		text:    make(map[string][]string),
	}
	for _, col := range header {
		if col == schema.PeriodColumn {
			ds.kinds[col] = KindPeriod
			continue
		}
		ds.kinds[col] = KindText
		ds.text[col] = []string{}
	}
	return ds
}

func parsePeriodColumn(source, col string, rows [][]string, idx int) ([]time.Time, error) {
	out := make([]time.Time, len(rows))
	for r, row := range rows {
		p, err := ParsePeriod(row[idx])
		if err != nil {
			return nil, apperrors.NewParseError(source, col, r+1, row[idx], err)
		}
		out[r] = p
	}
	return out, nil
}

func rawColumn(rows [][]string, idx int) []string {
	out := make([]string, len(rows))
	for r, row := range rows {
		v := strings.TrimSpace(row[idx])
		if isMissing(v) {
			v = ""
		}
		out[r] = v
	}
	return out
}

func allMissing(rows [][]string, idx int) bool {
	for _, row := range rows {
		if !isMissing(row[idx]) {
			return false
		}
	}
	return true
}

func nanColumn(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}
