package dataset

import (
	"math"
	"strconv"
)

type LocationSource string

const (
	LocationDeclared     LocationSource = "declared"
	LocationFirstText    LocationSource = "first_text_column"
	LocationFirstColumn  LocationSource = "first_column"
	LocationUnresolvable LocationSource = "none"
)

// LocationColumn resolves the column holding the regency/city key.
// The declared schema column wins when present; otherwise the first text column;
// otherwise the first column of any type.
func (d *Dataset) LocationColumn() (string, LocationSource) {
	if d.schema.LocationColumn != "" && d.HasColumn(d.schema.LocationColumn) {
		return d.schema.LocationColumn, LocationDeclared
	}
	if text := d.TextColumns(); len(text) > 0 {
		return text[0], LocationFirstText
	}
	if len(d.columns) > 0 {
		return d.columns[0], LocationFirstColumn
	}
	return "", LocationUnresolvable
}

// LocationKeys returns the location key of every row as strings, whatever the
// column's kind. Missing keys are empty.
func (d *Dataset) LocationKeys(col string) ([]string, bool) {
	if vals, ok := d.text[col]; ok {
		return vals, true
	}
	if vals, ok := d.numeric[col]; ok {
		out := make([]string, len(vals))
		for i, v := range vals {
			if math.IsNaN(v) {
				continue
			}
			out[i] = formatKey(v)
		}
		return out, true
	}
	if col == d.schema.PeriodColumn && d.periods != nil {
		out := make([]string, len(d.periods))
		for i, p := range d.periods {
			out[i] = p.Format("2006-01-02")
		}
		return out, true
	}
	return nil, false
}

func formatKey(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
