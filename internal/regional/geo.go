package regional

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"harga-pangan-go/internal/dataset"
	apperrors "harga-pangan-go/internal/errors"
	"harga-pangan-go/internal/types"
)

type geoKey struct {
	location string
	lat, lon float64
}

// AggregateGeo averages commodity per (location, latitude, longitude) over
// [start, end]. A geo table without periods is used unfiltered. Rows missing
// a coordinate are dropped. Points are ordered by location then coordinates.
func AggregateGeo(geo *dataset.Dataset, commodity string, start, end time.Time) (types.GeoAggregate, error) {
	if geo == nil {
		return types.GeoAggregate{}, fmt.Errorf("geo dataset: %w", apperrors.ErrSourceNotFound)
	}
	schema := geo.Schema()
	for _, col := range []string{commodity, schema.LatitudeColumn, schema.LongitudeColumn} {
		if _, ok := geo.Numeric(col); !ok {
			return types.GeoAggregate{}, apperrors.NewColumnNotFoundError(geo.Name(), col)
		}
	}
	locCol, _ := geo.LocationColumn()
	if geo.HasPeriod() {
		geo = dataset.FilterByPeriod(geo, start, end)
	}
	keys, ok := geo.LocationKeys(locCol)
	if !ok {
		return types.GeoAggregate{}, apperrors.NewColumnNotFoundError(geo.Name(), locCol)
	}
	vals, _ := geo.Numeric(commodity)
	lats, _ := geo.Numeric(schema.LatitudeColumn)
	lons, _ := geo.Numeric(schema.LongitudeColumn)

	type acc struct {
		sum float64
		n   int
	}
	groups := map[geoKey]*acc{}
	for i := 0; i < geo.Len(); i++ {
		if keys[i] == "" || math.IsNaN(lats[i]) || math.IsNaN(lons[i]) {
			continue
		}
		k := geoKey{location: keys[i], lat: lats[i], lon: lons[i]}
		a, seen := groups[k]
		if !seen {
			a = &acc{}
			groups[k] = a
		}
		if !math.IsNaN(vals[i]) {
			a.sum += vals[i]
			a.n++
		}
	}

	points := make([]types.GeoPoint, 0, len(groups))
	for k, a := range groups {
		if a.n == 0 {
			continue
		}
		points = append(points, types.GeoPoint{
			Location:  k.location,
			Latitude:  k.lat,
			Longitude: k.lon,
			Mean:      types.Price(a.sum / float64(a.n)),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Location != points[j].Location {
			return points[i].Location < points[j].Location
		}
		if points[i].Latitude != points[j].Latitude {
			return points[i].Latitude < points[j].Latitude
		}
		return points[i].Longitude < points[j].Longitude
	})

	agg := types.GeoAggregate{Commodity: commodity, Points: points}
	if len(points) == 0 {
		return agg, nil
	}
	bounds, center, err := frame(points)
	if err != nil {
		return types.GeoAggregate{}, err
	}
	agg.Bounds = bounds
	agg.Center = center
	return agg, nil
}

// frame computes the bounding box and centroid of the points for map framing
func frame(points []types.GeoPoint) (*types.Bounds, []float64, error) {
	flat := make([]float64, 0, 2*len(points))
	for _, p := range points {
		flat = append(flat, p.Longitude, p.Latitude)
	}
	mp := geom.NewMultiPointFlat(geom.XY, flat)

	b := mp.Bounds()
	bounds := &types.Bounds{
		MinLatitude:  b.Min(1),
		MinLongitude: b.Min(0),
		MaxLatitude:  b.Max(1),
		MaxLongitude: b.Max(0),
	}

	c, err := xy.Centroid(mp)
	if err != nil {
		return nil, nil, fmt.Errorf("geo centroid: %w", err)
	}
	return bounds, []float64{c.Y(), c.X()}, nil
}
