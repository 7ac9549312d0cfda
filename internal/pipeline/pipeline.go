package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"harga-pangan-go/internal/actionable"
	"harga-pangan-go/internal/aggregator"
	"harga-pangan-go/internal/correlation"
	"harga-pangan-go/internal/dataset"
	apperrors "harga-pangan-go/internal/errors"
	"harga-pangan-go/internal/grouping"
	"harga-pangan-go/internal/logger"
	"harga-pangan-go/internal/regional"
	"harga-pangan-go/internal/types"
)

type Status string

const (
	StatusOK             Status = "ok"
	StatusNoData         Status = "no_data"
	StatusNeedMoreInput  Status = "need_more_input"
	StatusUnavailable    Status = "unavailable"
	StatusColumnNotFound Status = "column_not_found"
)

// Paths locates the input tables
type Paths struct {
	Clean  string
	Winsor string
	Geo    string
}

// Service recomputes one view per call from the cached tables. It holds no
// per-request state, so concurrent calls are independent.
type Service struct {
	cache *dataset.Cache
	paths Paths
}

func NewService(cache *dataset.Cache, paths Paths) *Service {
	return &Service{cache: cache, paths: paths}
}

func (s *Service) Cache() *dataset.Cache { return s.cache }

func (s *Service) log() *logger.Logger {
	return logger.New().Component("pipeline")
}

type OverviewView struct {
	types.Overview
	CommodityNames []string        `json:"commodity_names"`
	Groups         grouping.Groups `json:"groups"`
	GeoAvailable   bool            `json:"geo_available"`
}

func (s *Service) Overview(ctx context.Context) (OverviewView, error) {
	b, err := s.cache.Data(ctx, s.paths.Clean, s.paths.Winsor)
	if err != nil {
		return OverviewView{}, err
	}
	geo, err := s.cache.Geo(ctx, s.paths.Geo)
	if err != nil {
		return OverviewView{}, err
	}
	return OverviewView{
		Overview:       dataset.Summarize(b),
		CommodityNames: append([]string(nil), b.Commodities...),
		Groups:         grouping.GroupCommodities(b.Commodities),
		GeoAvailable:   geo != nil,
	}, nil
}

func (s *Service) Groups(ctx context.Context) (grouping.Groups, error) {
	b, err := s.cache.Data(ctx, s.paths.Clean, s.paths.Winsor)
	if err != nil {
		return nil, err
	}
	return grouping.GroupCommodities(b.Commodities), nil
}

// TrendRequest selects the national trend view. Zero dates default to the
// dataset's range. A nil Commodities picks the group's default selection; a
// non-nil empty one means none were chosen.
type TrendRequest struct {
	Start       time.Time
	End         time.Time
	Group       string
	Commodities []string
}

type TrendView struct {
	Status     Status                 `json:"status"`
	Message    string                 `json:"message,omitempty"`
	Start      time.Time              `json:"start"`
	End        time.Time              `json:"end"`
	Group      string                 `json:"group"`
	Candidates []string               `json:"candidates"`
	Selected   []string               `json:"selected"`
	Trend      []types.TrendPoint     `json:"trend"`
	Aggregate  []types.SeriesPoint    `json:"aggregate"`
	Growth     *types.Growth          `json:"growth,omitempty"`
	Insight    *actionable.ActionCard `json:"insight,omitempty"`
}

func (s *Service) Trend(ctx context.Context, req TrendRequest) (TrendView, error) {
	b, err := s.cache.Data(ctx, s.paths.Clean, s.paths.Winsor)
	if err != nil {
		return TrendView{}, err
	}
	groups := grouping.GroupCommodities(b.Commodities)
	group := grouping.All
	if req.Group != "" {
		g, ok := groups.Lookup(req.Group)
		if !ok {
			return TrendView{}, apperrors.Invalid("group", "unknown group %q", req.Group)
		}
		group = g.Name
	}
	candidates := groups.Candidates(group, b.Commodities)

	selected := req.Commodities
	if selected == nil {
		selected = grouping.DefaultSelection(candidates)
	}
	if err := requireKnown("commodities", selected, b.Commodities); err != nil {
		return TrendView{}, err
	}

	start, end := s.window(b.Clean, req.Start, req.End)
	view := TrendView{
		Status:     StatusOK,
		Start:      start,
		End:        end,
		Group:      group,
		Candidates: candidates,
		Selected:   selected,
	}

	filtered := dataset.FilterByPeriod(b.Clean, start, end)
	if filtered.Empty() {
		view.Status = StatusNoData
		view.Message = "no data in the selected period"
		return view, nil
	}

	view.Trend, err = aggregator.ComputeTrend(filtered, b.Commodities)
	if err != nil {
		return TrendView{}, err
	}
	view.Aggregate, err = aggregator.AggregateSeries(view.Trend, selected, b.Commodities)
	if err != nil {
		return TrendView{}, err
	}
	if g, ok := aggregator.ComputeGrowth(view.Aggregate); ok {
		card := actionable.ForGrowth(g)
		view.Growth = &g
		view.Insight = &card
	}
	if len(selected) == 0 {
		view.Status = StatusNeedMoreInput
		view.Message = "select at least one commodity to plot; the aggregate covers every commodity"
	}

	s.log().WithFields(map[string]interface{}{
		"group":    group,
		"selected": len(selected),
		"periods":  len(view.Trend),
		"status":   view.Status,
	}).Debug("trend computed")
	return view, nil
}

type RegionRequest struct {
	Start     time.Time
	End       time.Time
	Commodity string
	TopN      int
}

type MapView struct {
	Status    Status              `json:"status"`
	Message   string              `json:"message,omitempty"`
	Aggregate *types.GeoAggregate `json:"aggregate,omitempty"`
}

type RegionView struct {
	Status         Status                 `json:"status"`
	Message        string                 `json:"message,omitempty"`
	Start          time.Time              `json:"start"`
	End            time.Time              `json:"end"`
	Commodity      string                 `json:"commodity"`
	LocationColumn string                 `json:"location_column"`
	Ranking        *types.Ranking         `json:"ranking,omitempty"`
	Map            MapView                `json:"map"`
	Insight        *actionable.ActionCard `json:"insight,omitempty"`
}

func (s *Service) Regions(ctx context.Context, req RegionRequest) (RegionView, error) {
	b, err := s.cache.Data(ctx, s.paths.Clean, s.paths.Winsor)
	if err != nil {
		return RegionView{}, err
	}
	commodity := req.Commodity
	if commodity == "" {
		if len(b.Commodities) == 0 {
			return RegionView{Status: StatusNeedMoreInput, Message: "no commodities in dataset"}, nil
		}
		commodity = b.Commodities[0]
	}
	if err := requireKnown("commodity", []string{commodity}, b.Commodities); err != nil {
		return RegionView{}, err
	}
	n := req.TopN
	if n == 0 {
		n = regional.DefaultTopN
	}

	start, end := s.window(b.Winsor, req.Start, req.End)
	view := RegionView{Status: StatusOK, Start: start, End: end, Commodity: commodity}

	filtered := dataset.FilterByPeriod(b.Winsor, start, end)
	locCol, source := filtered.LocationColumn()
	view.LocationColumn = locCol
	if source != dataset.LocationDeclared {
		s.log().WithFields(map[string]interface{}{
			"column": locCol,
			"source": source,
		}).Warn("location column not declared, using fallback")
	}

	if filtered.Empty() {
		view.Status = StatusNoData
		view.Message = "no data in the selected period"
	} else {
		ranking, err := regional.RankRegions(filtered, locCol, commodity, n)
		if err != nil {
			return RegionView{}, err
		}
		if ranking.Total == 0 {
			view.Status = StatusNoData
			view.Message = fmt.Sprintf("no %s prices in the selected period", commodity)
		} else {
			card := actionable.ForRanking(ranking)
			view.Ranking = &ranking
			view.Insight = &card
		}
	}

	view.Map, err = s.mapView(ctx, commodity, start, end)
	if err != nil {
		return RegionView{}, err
	}
	return view, nil
}

// mapView runs the spatial step. Absent geo data and a commodity missing from
// it degrade the map only.
func (s *Service) mapView(ctx context.Context, commodity string, start, end time.Time) (MapView, error) {
	geo, err := s.cache.Geo(ctx, s.paths.Geo)
	if err != nil {
		return MapView{}, err
	}
	if geo == nil {
		return MapView{Status: StatusUnavailable, Message: "geo data not available"}, nil
	}
	agg, err := regional.AggregateGeo(geo, commodity, start, end)
	if err != nil {
		var cnf *apperrors.ColumnNotFoundError
		if errors.As(err, &cnf) {
			s.log().WithError(err).Warn("map skipped")
			return MapView{Status: StatusColumnNotFound, Message: cnf.Error()}, nil
		}
		return MapView{}, err
	}
	if len(agg.Points) == 0 {
		return MapView{Status: StatusNoData, Message: "no located prices in the selected period"}, nil
	}
	return MapView{Status: StatusOK, Aggregate: &agg}, nil
}

// CorrelationRequest selects commodities for the matrix. All, or a nil
// Commodities, selects every commodity.
type CorrelationRequest struct {
	Commodities []string
	All         bool
}

type CorrelationView struct {
	Status   Status                 `json:"status"`
	Message  string                 `json:"message,omitempty"`
	Selected []string               `json:"selected"`
	Matrix   *types.Matrix          `json:"matrix,omitempty"`
	Insight  *actionable.ActionCard `json:"insight,omitempty"`
}

func (s *Service) Correlation(ctx context.Context, req CorrelationRequest) (CorrelationView, error) {
	b, err := s.cache.Data(ctx, s.paths.Clean, s.paths.Winsor)
	if err != nil {
		return CorrelationView{}, err
	}
	selected := req.Commodities
	if req.All || selected == nil {
		selected = append([]string(nil), b.Commodities...)
	}
	if err := requireKnown("commodities", selected, b.Commodities); err != nil {
		return CorrelationView{}, err
	}

	view := CorrelationView{Status: StatusOK, Selected: selected}
	if len(selected) < correlation.MinColumns {
		view.Status = StatusNeedMoreInput
		view.Message = fmt.Sprintf("select at least %d commodities", correlation.MinColumns)
		return view, nil
	}
	if b.Winsor.Empty() {
		view.Status = StatusNoData
		view.Message = "winsorized table is empty"
		return view, nil
	}

	m, err := correlation.CorrelationMatrix(b.Winsor, selected)
	if err != nil {
		return CorrelationView{}, err
	}
	card := actionable.ForCorrelation(m)
	view.Matrix = &m
	view.Insight = &card
	return view, nil
}

// window fills zero bounds from the dataset's period range
func (s *Service) window(ds *dataset.Dataset, start, end time.Time) (time.Time, time.Time) {
	first, last, ok := ds.PeriodRange()
	if !ok {
		return start, end
	}
	if start.IsZero() {
		start = first
	}
	if end.IsZero() {
		end = last
	}
	return start, end
}

func requireKnown(field string, cols, known []string) error {
	set := make(map[string]struct{}, len(known))
	for _, k := range known {
		set[k] = struct{}{}
	}
	for _, c := range cols {
		if _, ok := set[c]; !ok {
			return apperrors.Invalid(field, "unknown commodity %q", c)
		}
	}
	return nil
}
