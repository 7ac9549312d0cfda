package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"harga-pangan-go/internal/chart"
	apperrors "harga-pangan-go/internal/errors"
	"harga-pangan-go/internal/export"
	"harga-pangan-go/internal/logger"
	"harga-pangan-go/internal/metrics"
	"harga-pangan-go/internal/pipeline"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler exposes the dashboard views over HTTP
type Handler struct {
	svc     *pipeline.Service
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewHandler(svc *pipeline.Service, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, metrics: m, log: logger.New().Component("api")}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "ok")
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Get("/overview", h.overview)
			r.Get("/groups", h.groups)
			r.Get("/trend", h.trend)
			r.Get("/regions", h.regions)
			r.Get("/correlation", h.correlation)
			r.Post("/cache/invalidate", h.invalidate)
		})
		r.Get("/export.xlsx", h.exportWorkbook)
		r.Get("/charts/trend.png", h.trendChart)
		r.Get("/charts/regions.png", h.regionsChart)
	})
	return r
}

// requestLogger pins a request id on the request and response, then logs the outcome
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := logger.RequestID(r)
		r.Header.Set("X-Request-ID", id)
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.log.WithRequest(r).
			WithField("status", ww.Status()).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			Info("request handled")
	})
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Overview(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, v)
}

func (h *Handler) groups(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Groups(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, g)
}

func (h *Handler) trend(w http.ResponseWriter, r *http.Request) {
	req, err := trendRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := h.svc.Trend(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, v)
}

func (h *Handler) regions(w http.ResponseWriter, r *http.Request) {
	req, err := regionRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := h.svc.Regions(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, v)
}

func (h *Handler) correlation(w http.ResponseWriter, r *http.Request) {
	req, err := correlationRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := h.svc.Correlation(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, v)
}

func (h *Handler) invalidate(w http.ResponseWriter, r *http.Request) {
	h.svc.Cache().Invalidate()
	render.JSON(w, r, map[string]string{"status": "invalidated"})
}

func (h *Handler) exportWorkbook(w http.ResponseWriter, r *http.Request) {
	treq, err := trendRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rreq, err := regionRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	creq, err := correlationRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	tv, err := h.svc.Trend(r.Context(), treq)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rv, err := h.svc.Regions(r.Context(), rreq)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	cv, err := h.svc.Correlation(r.Context(), creq)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	f, err := export.Workbook(&tv, &rv, &cv)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="harga_pangan.xlsx"`)
	if err := f.Write(w); err != nil {
		h.log.WithRequest(r).WithField("error", err.Error()).Error("failed to write workbook")
	}
}

func (h *Handler) trendChart(w http.ResponseWriter, r *http.Request) {
	req, err := trendRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := h.svc.Trend(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if v.Status == pipeline.StatusNoData {
		h.fail(w, r, fmt.Errorf("%s: %w", v.Message, apperrors.ErrEmptySelection))
		return
	}
	h.png(w, r, func(w io.Writer) error { return chart.TrendPNG(w, &v) })
}

func (h *Handler) regionsChart(w http.ResponseWriter, r *http.Request) {
	req, err := regionRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	side := chart.Side(r.URL.Query().Get("side"))
	switch side {
	case "":
		side = chart.Expensive
	case chart.Expensive, chart.Cheap:
	default:
		h.fail(w, r, apperrors.Invalid("side", "expected expensive or cheap, got %q", side))
		return
	}
	v, err := h.svc.Regions(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if v.Ranking == nil {
		h.fail(w, r, fmt.Errorf("%s: %w", v.Message, apperrors.ErrEmptySelection))
		return
	}
	h.png(w, r, func(w io.Writer) error { return chart.RankingPNG(w, v.Ranking, side) })
}

// png renders into the response once the chart has been drawn without error
func (h *Handler) png(w http.ResponseWriter, r *http.Request, draw func(io.Writer) error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.WithRequest(r).WithField("error", err.Error()).Warn("failed to write chart")
	}
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// fail writes err as a JSON body. Load failures surface as 500 without details.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var cnf *apperrors.ColumnNotFoundError
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput), errors.As(err, &cnf):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrEmptySelection):
		status = http.StatusUnprocessableEntity
	}

	entry := h.log.WithRequest(r).WithField("error", err.Error()).WithField("status", status)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		entry.Error("request failed")
		msg = "internal error: failed to compute view"
	} else {
		entry.Warn("request rejected")
	}

	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg, RequestID: r.Header.Get("X-Request-ID")})
}
