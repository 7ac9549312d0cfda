package dataset

import (
	"math"
	"sort"
	"time"
)

type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumeric
	KindBool
	KindPeriod
)

func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBool:
		return "bool"
	case KindPeriod:
		return "period"
	default:
		return "text"
	}
}

// PriceRecord is one row of a price table.
type PriceRecord struct {
	Location  string
	Period    time.Time
	Prices    map[string]float64
	Latitude  float64
	Longitude float64
	HasCoords bool
}

// Dataset is an immutable, column-oriented price table. Missing numeric values are NaN,
// missing text values are empty strings. Derived datasets never share backing arrays
// with their source.
type Dataset struct {
	name    string
	schema  Schema
	columns []string
	kinds   map[string]ColumnKind
	periods []time.Time
	numeric map[string][]float64
	text    map[string][]string
	rows    int
}

func (d *Dataset) Name() string { return d.name }

func (d *Dataset) Schema() Schema { return d.schema }

func (d *Dataset) Len() int { return d.rows }

func (d *Dataset) Empty() bool { return d.rows == 0 }

// Columns returns column names in file order
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.kinds[name]
	return ok
}

func (d *Dataset) Kind(name string) (ColumnKind, bool) {
	k, ok := d.kinds[name]
	return k, ok
}

func (d *Dataset) HasPeriod() bool {
	return d.periods != nil
}

// Periods returns the period column. The slice must not be modified.
func (d *Dataset) Periods() []time.Time {
	return d.periods
}

// Numeric returns the values of a numeric column. The slice must not be modified.
func (d *Dataset) Numeric(name string) ([]float64, bool) {
	v, ok := d.numeric[name]
	return v, ok
}

// Text returns the values of a text column. The slice must not be modified.
func (d *Dataset) Text(name string) ([]string, bool) {
	v, ok := d.text[name]
	return v, ok
}

// NumericColumns lists numeric columns in file order
func (d *Dataset) NumericColumns() []string {
	var out []string
	for _, c := range d.columns {
		if d.kinds[c] == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// TextColumns lists text columns in file order
func (d *Dataset) TextColumns() []string {
	var out []string
	for _, c := range d.columns {
		if d.kinds[c] == KindText {
			out = append(out, c)
		}
	}
	return out
}

// PeriodRange returns the earliest and latest period. ok is false for an empty
// dataset or one without a period column.
func (d *Dataset) PeriodRange() (first, last time.Time, ok bool) {
	if len(d.periods) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = d.periods[0], d.periods[0]
	for _, p := range d.periods[1:] {
		if p.Before(first) {
			first = p
		}
		if p.After(last) {
			last = p
		}
	}
	return first, last, true
}

// DistinctPeriods returns the distinct periods in ascending order
func (d *Dataset) DistinctPeriods() []time.Time {
	seen := make(map[time.Time]struct{}, len(d.periods))
	var out []time.Time
	for _, p := range d.periods {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Record materializes row i
func (d *Dataset) Record(i int) PriceRecord {
	rec := PriceRecord{Prices: make(map[string]float64)}
	if d.periods != nil {
		rec.Period = d.periods[i]
	}
	if loc, _ := d.LocationColumn(); loc != "" {
		if vals, ok := d.text[loc]; ok {
			rec.Location = vals[i]
		}
	}
	for _, c := range d.columns {
		vals, ok := d.numeric[c]
		if !ok {
			continue
		}
		switch c {
		case d.schema.LatitudeColumn:
			rec.Latitude = vals[i]
		case d.schema.LongitudeColumn:
			rec.Longitude = vals[i]
		default:
			if !d.schema.excluded(c) {
				rec.Prices[c] = vals[i]
			}
		}
	}
	lat, hasLat := d.numeric[d.schema.LatitudeColumn]
	lon, hasLon := d.numeric[d.schema.LongitudeColumn]
	rec.HasCoords = hasLat && hasLon && !math.IsNaN(lat[i]) && !math.IsNaN(lon[i])
	return rec
}

// subset copies the rows at idx into a new dataset
func (d *Dataset) subset(idx []int) *Dataset {
	out := &Dataset{
		name:    d.name,
		schema:  d.schema,
		columns: append([]string(nil), d.columns...),
		kinds:   make(map[string]ColumnKind, len(d.kinds)),
		numeric: make(map[string][]float64, len(d.numeric)),
		text:    make(map[string][]string, len(d.text)),
		rows:    len(idx),
	}
	for k, v := range d.kinds {
		out.kinds[k] = v
	}
	if d.periods != nil {
		out.periods = make([]time.Time, len(idx))
		for i, r := range idx {
			out.periods[i] = d.periods[r]
		}
	}
	for name, vals := range d.numeric {
		col := make([]float64, len(idx))
		for i, r := range idx {
			col[i] = vals[r]
		}
		out.numeric[name] = col
	}
	for name, vals := range d.text {
		col := make([]string, len(idx))
		for i, r := range idx {
			col[i] = vals[r]
		}
		out.text[name] = col
	}
	return out
}

// CommodityColumns returns the numeric columns that are not technical columns, in file order.
func CommodityColumns(d *Dataset) []string {
	var out []string
	for _, c := range d.NumericColumns() {
		if d.schema.excluded(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}
