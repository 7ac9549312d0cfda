package types

import (
	"math"
	"strconv"
	"time"
)

// Price is a mean price in rupiah. NaN marks an undefined value and encodes as JSON null.
type Price float64

func (p Price) MarshalJSON() ([]byte, error) {
	f := float64(p)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Price(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*p = Price(f)
	return nil
}

// Valid reports whether p holds a defined value
func (p Price) Valid() bool {
	return !math.IsNaN(float64(p)) && !math.IsInf(float64(p), 0)
}

// TrendPoint is the national mean of each commodity for one period.
type TrendPoint struct {
	Period time.Time        `json:"period"`
	Means  map[string]Price `json:"means"`
}

// SeriesPoint is one value of a single aggregate series.
type SeriesPoint struct {
	Period time.Time `json:"period"`
	Value  Price     `json:"value"`
}

type Growth struct {
	Start        Price `json:"start_price"`
	End          Price `json:"end_price"`
	NominalDelta Price `json:"nominal_delta"`
	PercentDelta Price `json:"percent_delta"`
}

type RegionMean struct {
	Location string  `json:"location"`
	Mean     float64 `json:"mean"`
}

type Ranking struct {
	Commodity string       `json:"commodity"`
	N         int          `json:"n"`
	Total     int          `json:"total_locations"`
	Expensive []RegionMean `json:"top_expensive"`
	Cheap     []RegionMean `json:"top_cheap"`
}

// CheapDisplay returns the cheapest locations ordered the way the bar chart shows them,
// highest of the cheap set first.
func (r Ranking) CheapDisplay() []RegionMean {
	out := make([]RegionMean, len(r.Cheap))
	for i, m := range r.Cheap {
		out[len(r.Cheap)-1-i] = m
	}
	return out
}

type GeoPoint struct {
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Mean      Price   `json:"mean"`
}

type Bounds struct {
	MinLatitude  float64 `json:"min_latitude"`
	MinLongitude float64 `json:"min_longitude"`
	MaxLatitude  float64 `json:"max_latitude"`
	MaxLongitude float64 `json:"max_longitude"`
}

type GeoAggregate struct {
	Commodity string     `json:"commodity"`
	Points    []GeoPoint `json:"points"`
	Bounds    *Bounds    `json:"bounds,omitempty"`
	Center    []float64  `json:"center,omitempty"` // [lat, lon]
}

// Matrix is a square matrix indexed by Labels on both axes.
type Matrix struct {
	Labels []string  `json:"labels"`
	Values [][]Price `json:"values"`
}

// At returns the coefficient for the pair (a, b) and whether both labels exist.
func (m Matrix) At(a, b string) (Price, bool) {
	i, j := -1, -1
	for k, l := range m.Labels {
		if l == a {
			i = k
		}
		if l == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return Price(math.NaN()), false
	}
	return m.Values[i][j], true
}

type Overview struct {
	Commodities int       `json:"commodities"`
	Periods     int       `json:"periods"`
	Locations   int       `json:"locations"`
	FirstPeriod time.Time `json:"first_period"`
	LastPeriod  time.Time `json:"last_period"`
}
