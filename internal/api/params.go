package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "harga-pangan-go/internal/errors"
	"harga-pangan-go/internal/pipeline"
)

// parseDate accepts YYYY-MM-DD or YYYY-MM. A month given as the upper bound
// covers the whole month.
func parseDate(field, v string, upper bool) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return time.Time{}, apperrors.Invalid(field, "expected YYYY-MM or YYYY-MM-DD, got %q", v)
	}
	if upper {
		t = t.AddDate(0, 1, -1)
	}
	return t, nil
}

func parseRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	start, err := parseDate("start", q.Get("start"), false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate("end", q.Get("end"), true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// parseList returns nil when the parameter is absent and an empty slice when
// it is present but blank.
func parseList(r *http.Request, name string) []string {
	q := r.URL.Query()
	if _, ok := q[name]; !ok {
		return nil
	}
	out := []string{}
	for _, v := range q[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func trendRequest(r *http.Request) (pipeline.TrendRequest, error) {
	start, end, err := parseRange(r)
	if err != nil {
		return pipeline.TrendRequest{}, err
	}
	return pipeline.TrendRequest{
		Start:       start,
		End:         end,
		Group:       r.URL.Query().Get("group"),
		Commodities: parseList(r, "commodities"),
	}, nil
}

func regionRequest(r *http.Request) (pipeline.RegionRequest, error) {
	start, end, err := parseRange(r)
	if err != nil {
		return pipeline.RegionRequest{}, err
	}
	req := pipeline.RegionRequest{Start: start, End: end, Commodity: r.URL.Query().Get("commodity")}
	if v := r.URL.Query().Get("n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return pipeline.RegionRequest{}, apperrors.Invalid("n", "expected a positive integer, got %q", v)
		}
		req.TopN = n
	}
	return req, nil
}

func correlationRequest(r *http.Request) (pipeline.CorrelationRequest, error) {
	req := pipeline.CorrelationRequest{Commodities: parseList(r, "commodities")}
	if v := r.URL.Query().Get("all"); v != "" {
		all, err := strconv.ParseBool(v)
		if err != nil {
			return pipeline.CorrelationRequest{}, apperrors.Invalid("all", "expected a boolean, got %q", v)
		}
		req.All = all
	}
	return req, nil
}
