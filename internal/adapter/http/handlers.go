package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"accidentdash/internal/adapter/charts"
	"accidentdash/internal/dataset"
	"accidentdash/internal/domain"
	"accidentdash/internal/observability"
	"accidentdash/internal/query"
)

// Handler maps HTTP requests onto the filter engine and aggregation layer.
// It holds the immutable snapshot; every request builds a fresh Selection
// from query parameters and recomputes.
type Handler struct {
	snap     *dataset.Snapshot
	metrics  *observability.Metrics
	logger   *slog.Logger
	validate *validator.Validate
	geoCap   int
}

// NewHandler creates a Handler serving the given snapshot.
func NewHandler(snap *dataset.Snapshot, metrics *observability.Metrics, logger *slog.Logger, geoCap int) *Handler {
	return &Handler{
		snap:     snap,
		metrics:  metrics,
		logger:   logger,
		validate: validator.New(),
		geoCap:   geoCap,
	}
}

// CheckReadiness reports ready once a snapshot is held in memory.
func (h *Handler) CheckReadiness(_ context.Context) error {
	if h.snap == nil {
		return errors.New("dataset snapshot not loaded")
	}
	return nil
}

// RegisterRoutes mounts the dashboard endpoints onto the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/options", h.handleOptions)
	r.Get("/dashboard", h.handleDashboard)
	r.Get("/accidents", h.handleAccidents)
	r.Get("/aggregates/severity", h.handleSeverity)
	r.Get("/aggregates/monthly", h.handleMonthly)
	r.Get("/aggregates/weather", h.handleWeather)
	r.Get("/charts/severity.png", h.handleSeverityChart)
	r.Get("/charts/monthly.png", h.handleMonthlyChart)
	r.Get("/charts/weather.png", h.handleWeatherChart)
}

// optionsResponse lists the values the UI may offer in its filter controls.
type optionsResponse struct {
	States     []string               `json:"states"`
	Years      []int                  `json:"years"`
	Severities []int                  `json:"severities"`
	Metrics    []domain.WeatherMetric `json:"metrics"`
}

func (h *Handler) handleOptions(w http.ResponseWriter, _ *http.Request) {
	h.metrics.QueriesTotal.WithLabelValues("options").Inc()
	writeJSON(w, http.StatusOK, optionsResponse{
		States:     h.snap.States,
		Years:      h.snap.Years,
		Severities: domain.SeverityLevels(),
		Metrics:    domain.WeatherMetrics(),
	})
}

// meta describes the snapshot and view a response was computed from.
type meta struct {
	SnapshotID     string    `json:"snapshot_id"`
	GeneratedAt    time.Time `json:"generated_at"`
	TotalRecords   int       `json:"total_records"`
	MatchedRecords int       `json:"matched_records"`
}

type weatherHistogram struct {
	Metric domain.WeatherMetric `json:"metric"`
	Unit   string               `json:"unit"`
	Bins   []query.Bin          `json:"bins"`
}

// dashboardResponse carries all four aggregates for one filter selection.
type dashboardResponse struct {
	Meta     meta                  `json:"meta"`
	Geo      query.GeoPoints       `json:"geo"`
	Severity []query.SeverityCount `json:"severity_counts"`
	Monthly  []query.MonthCount    `json:"monthly_trend"`
	Weather  weatherHistogram      `json:"weather_histogram"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}
	view := h.filter("dashboard", sel)

	writeJSON(w, http.StatusOK, dashboardResponse{
		Meta:     h.meta(view),
		Geo:      query.SampleGeoPoints(view, h.geoCap),
		Severity: query.SeverityCounts(view),
		Monthly:  query.MonthlyTrend(view),
		Weather: weatherHistogram{
			Metric: sel.Metric,
			Unit:   sel.Metric.Unit(),
			Bins:   query.WeatherHistogram(view, sel.Metric),
		},
	})
}

func (h *Handler) handleAccidents(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}
	view := h.filter("accidents", sel)

	writeJSON(w, http.StatusOK, struct {
		Meta meta            `json:"meta"`
		Geo  query.GeoPoints `json:"geo"`
	}{h.meta(view), query.SampleGeoPoints(view, h.geoCap)})
}

func (h *Handler) handleSeverity(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}
	view := h.filter("severity", sel)

	writeJSON(w, http.StatusOK, struct {
		Meta   meta                  `json:"meta"`
		Counts []query.SeverityCount `json:"severity_counts"`
	}{h.meta(view), query.SeverityCounts(view)})
}

func (h *Handler) handleMonthly(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}
	view := h.filter("monthly", sel)

	writeJSON(w, http.StatusOK, struct {
		Meta  meta               `json:"meta"`
		Trend []query.MonthCount `json:"monthly_trend"`
	}{h.meta(view), query.MonthlyTrend(view)})
}

func (h *Handler) handleWeather(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}
	view := h.filter("weather", sel)

	writeJSON(w, http.StatusOK, struct {
		Meta      meta             `json:"meta"`
		Histogram weatherHistogram `json:"weather_histogram"`
	}{h.meta(view), weatherHistogram{
		Metric: sel.Metric,
		Unit:   sel.Metric.Unit(),
		Bins:   query.WeatherHistogram(view, sel.Metric),
	}})
}

func (h *Handler) handleSeverityChart(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}
	view := h.filter("severity_chart", sel)

	png, err := charts.RenderSeverityBar(query.SeverityCounts(view))
	if err != nil {
		h.renderError(w, "severity", err)
		return
	}
	writePNG(w, png)
}

func (h *Handler) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}
	view := h.filter("monthly_chart", sel)

	png, err := charts.RenderMonthlyLine(query.MonthlyTrend(view))
	if err != nil {
		h.renderError(w, "monthly", err)
		return
	}
	writePNG(w, png)
}

func (h *Handler) handleWeatherChart(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}
	view := h.filter("weather_chart", sel)

	png, err := charts.RenderWeatherBar(query.WeatherHistogram(view, sel.Metric), sel.Metric)
	if err != nil {
		h.renderError(w, "weather", err)
		return
	}
	writePNG(w, png)
}

// selection parses and validates the filter selection from query parameters.
// On failure it writes a 400 response and returns ok=false.
func (h *Handler) selection(w http.ResponseWriter, r *http.Request) (query.Selection, bool) {
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return query.Selection{}, false
	}
	if err := h.validate.Struct(sel); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid filter selection: %v", err))
		return query.Selection{}, false
	}

	minYear, maxYear := h.snap.YearBounds()
	return sel.Normalized(minYear, maxYear), true
}

// filter runs the filter engine and records query metrics.
func (h *Handler) filter(endpoint string, sel query.Selection) []domain.Record {
	start := time.Now()
	view := query.Filter(h.snap.Records, sel)

	h.metrics.QueriesTotal.WithLabelValues(endpoint).Inc()
	h.metrics.QueryDuration.Observe(time.Since(start).Seconds())
	h.metrics.FilteredViewSize.Observe(float64(len(view)))

	h.logger.Debug("filter applied",
		"endpoint", endpoint,
		"state", sel.State,
		"year_min", sel.YearMin,
		"year_max", sel.YearMax,
		"matched", len(view),
	)
	return view
}

func (h *Handler) meta(view []domain.Record) meta {
	return meta{
		SnapshotID:     h.snap.ID,
		GeneratedAt:    domain.Now().UTC(),
		TotalRecords:   len(h.snap.Records),
		MatchedRecords: len(view),
	}
}

func (h *Handler) renderError(w http.ResponseWriter, name string, err error) {
	h.logger.Error("chart render failed", "chart", name, "error", err)
	writeError(w, http.StatusInternalServerError, "chart rendering failed")
}

// parseSelection reads filter parameters from the request:
// state, severity (repeated and/or comma-separated), year_min, year_max,
// metric. An absent severity parameter means "no severity predicate"; a
// present-but-empty one selects nothing.
func parseSelection(r *http.Request) (query.Selection, error) {
	q := r.URL.Query()
	var sel query.Selection

	sel.State = strings.ToUpper(strings.TrimSpace(q.Get("state")))

	if values, present := q["severity"]; present {
		sel.Severities = []int{}
		for _, v := range values {
			for _, part := range strings.Split(v, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				n, err := strconv.Atoi(part)
				if err != nil {
					return query.Selection{}, fmt.Errorf("severity must be an integer, got %q", part)
				}
				sel.Severities = append(sel.Severities, n)
			}
		}
	}

	var err error
	if sel.YearMin, err = parseYearParam(q.Get("year_min"), "year_min"); err != nil {
		return query.Selection{}, err
	}
	if sel.YearMax, err = parseYearParam(q.Get("year_max"), "year_max"); err != nil {
		return query.Selection{}, err
	}

	metric, err := domain.ParseWeatherMetric(q.Get("metric"))
	if err != nil {
		return query.Selection{}, err
	}
	sel.Metric = metric

	return sel, nil
}

func parseYearParam(s, name string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, s)
	}
	return n, nil
}
