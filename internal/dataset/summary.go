package dataset

import (
	"harga-pangan-go/internal/logger"
	"harga-pangan-go/internal/types"
)

// Summarize produces the header figures of the dashboard: how many commodities,
// observation periods and regencies/cities the clean table covers.
func Summarize(b *Bundle) types.Overview {
	log := logger.New().Component("dataset.summary")

	ov := types.Overview{
		Commodities: len(b.Commodities),
		Periods:     len(b.Clean.DistinctPeriods()),
	}
	if first, last, ok := b.Clean.PeriodRange(); ok {
		ov.FirstPeriod, ov.LastPeriod = first, last
	}

	locCol, source := b.Clean.LocationColumn()
	if keys, ok := b.Clean.LocationKeys(locCol); ok {
		seen := map[string]struct{}{}
		for _, k := range keys {
			if k == "" {
				continue
			}
			seen[k] = struct{}{}
		}
		ov.Locations = len(seen)
	}

	log.WithFields(map[string]interface{}{
		"commodities":     ov.Commodities,
		"periods":         ov.Periods,
		"locations":       ov.Locations,
		"location_column": locCol,
		"location_source": source,
	}).Info("dataset summarization complete")
	return ov
}
