package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"powerview/internal/api/models"
	"powerview/internal/config"
	"powerview/internal/costbreakdown"
	"powerview/internal/data"
	"powerview/internal/intervalgroup"
	"powerview/internal/leak"
	"powerview/internal/model"
	"powerview/internal/observability"

	"github.com/gin-gonic/gin"
)

// SeriesHandler prepares interval series and serves cached results
type SeriesHandler struct {
	cfg      *config.Config
	bindings []costbreakdown.Binding
	cache    *data.ResultCache
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewSeriesHandler creates a new series handler. The config supplies the default
// timezone and interval and the cost breakdown bindings.
func NewSeriesHandler(cfg *config.Config, cache *data.ResultCache, metrics *observability.Metrics, logger *slog.Logger) (*SeriesHandler, error) {
	if cfg == nil {
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}
	bindings, err := cfg.Bindings()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SeriesHandler{
		cfg:      cfg,
		bindings: bindings,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Prepare handles POST /api/v1/series
func (h *SeriesHandler) Prepare(c *gin.Context) {
	var req models.PrepareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	tz := req.Timezone
	if tz == "" {
		tz = h.cfg.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		badRequest(c, "INVALID_TIMEZONE", err.Error())
		return
	}
	name := req.Interval
	if name == "" {
		name = h.cfg.Interval
	}

	group, err := intervalgroup.New(loc, name, h.bindings, intervalgroup.WithLogger(h.logger))
	if err != nil {
		respondError(c, "INVALID_INTERVAL", err)
		return
	}
	raw, err := data.GroupByLabel(&model.ReadingsDocument{
		Start:    req.Start,
		End:      req.End,
		Readings: req.Readings,
	})
	if err != nil {
		respondError(c, "INVALID_READINGS", err)
		return
	}

	started := time.Now()
	prepared, err := group.Prepare(raw)
	h.metrics.Prepared(name, time.Since(started), err)
	if err != nil {
		respondError(c, "PREPARE_ERROR", err)
		return
	}
	for _, s := range prepared.Skipped {
		h.metrics.SkippedSeries(s.Code.String())
	}

	id := h.cache.Put(prepared)
	h.logger.Info("prepared series", "id", id, "interval", name, "timezone", loc.String(),
		"labels", len(prepared.NormalizedDuration.Series()), "skipped", len(prepared.Skipped))
	c.JSON(http.StatusOK, buildPrepareResponse(id, prepared, req.Options.IncludeNormalized))
}

// Get handles GET /api/v1/series/:id
func (h *SeriesHandler) Get(c *gin.Context) {
	prepared, ok := h.lookup(c, c.Param("id"))
	if !ok {
		return
	}
	includeNormalized := c.Query("include_normalized") == "true"
	c.JSON(http.StatusOK, buildPrepareResponse(c.Param("id"), prepared, includeNormalized))
}

// Leak handles POST /api/v1/leak
func (h *SeriesHandler) Leak(c *gin.Context) {
	var req models.LeakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	prepared, ok := h.lookup(c, req.ID)
	if !ok {
		return
	}
	code := req.Code
	if code == (model.MetricCode{}) {
		code = model.ColdWaterVolume1Delta
	}
	series := prepared.NormalizedDuration.Get(req.Label)
	if series == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "LABEL_NOT_FOUND",
				Message: "label " + req.Label + " is not part of result " + req.ID,
			},
		})
		return
	}

	checker := leak.NewChecker(leak.WithLogger(h.logger))
	value, err := checker.Characteristic(series, code, req.From.UTC(), req.To.UTC())
	if err != nil {
		respondError(c, "LEAK_ERROR", err)
		return
	}
	verdict := leakVerdict(value)
	h.metrics.LeakCheck(verdict)
	c.JSON(http.StatusOK, models.LeakResponse{
		Label:   series.Label(),
		Code:    code,
		Verdict: verdict,
		Value:   value,
	})
}

func (h *SeriesHandler) lookup(c *gin.Context, id string) (*intervalgroup.Prepared, bool) {
	prepared, ok := h.cache.Get(id)
	if !ok {
		h.metrics.CacheMiss()
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RESULT_NOT_FOUND",
				Message: "no prepared result with id " + id + " (it may have expired)",
			},
		})
		return nil, false
	}
	h.metrics.CacheHit()
	return prepared, true
}

func leakVerdict(v *model.UnitValue) string {
	switch {
	case v == nil:
		return "INSUFFICIENT_DATA"
	case v.Value > 0:
		return "LEAK"
	default:
		return "NO_LEAK"
	}
}

func buildPrepareResponse(id string, p *intervalgroup.Prepared, includeNormalized bool) models.PrepareResponse {
	resp := models.PrepareResponse{
		ID:              id,
		Interval:        p.Interval,
		Timezone:        p.Location.String(),
		Categories:      p.Categories,
		LocalCategories: p.LocalCategories(),
		Series:          []models.SeriesResponse{},
		Skipped:         p.Skipped,
	}
	if resp.Skipped == nil {
		resp.Skipped = []intervalgroup.Skipped{}
	}
	for _, ls := range p.NormalizedDuration.Series() {
		for _, mc := range ls.MetricCodes() {
			resp.Series = append(resp.Series, models.SeriesResponse{
				Label:  ls.Label(),
				Code:   mc,
				Values: ls.Values(mc),
			})
		}
	}
	if includeNormalized {
		for _, ls := range p.Normalized.Series() {
			for _, mc := range ls.MetricCodes() {
				resp.Normalized = append(resp.Normalized, models.NormalizedResponse{
					Label:  ls.Label(),
					Code:   mc,
					Values: ls.Values(mc),
				})
			}
		}
	}
	return resp
}
