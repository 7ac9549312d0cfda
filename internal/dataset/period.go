package dataset

import (
	"fmt"
	"strings"
	"time"
)

var periodLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01",
	"2006/01/02",
	"2006/01",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"Jan 2006",
	"January 2006",
	"Jan-06",
}

// ParsePeriod parses a date-like cell into a UTC timestamp.
func ParsePeriod(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty period")
	}
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized period %q", v)
}

// day truncates t to its calendar date
func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Within reports whether t falls in [start, end], comparing calendar dates.
func Within(t, start, end time.Time) bool {
	d := day(t)
	return !d.Before(day(start)) && !d.After(day(end))
}

// FilterByPeriod returns a copy of ds restricted to rows whose period lies in
// [start, end], both bounds inclusive at day granularity. An inverted range
// matches nothing. A dataset without a period column is copied unfiltered.
func FilterByPeriod(ds *Dataset, start, end time.Time) *Dataset {
	if !ds.HasPeriod() {
		all := make([]int, ds.Len())
		for i := range all {
			all[i] = i
		}
		return ds.subset(all)
	}
	idx := make([]int, 0, ds.Len())
	for i, p := range ds.periods {
		if Within(p, start, end) {
			idx = append(idx, i)
		}
	}
	return ds.subset(idx)
}
