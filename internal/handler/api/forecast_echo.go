package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	models "SalesPulse/internal/domain/models"
	cachesvc "SalesPulse/internal/service/cache"
	"SalesPulse/internal/service/metrics"
	"SalesPulse/internal/services/trend"
	"SalesPulse/internal/usecase"
	xhttp "SalesPulse/pkg/http"
	xlogger "SalesPulse/pkg/logger"
	"SalesPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// ForecastEchoHandler exposes the trend and forecast endpoints.
type ForecastEchoHandler struct {
	logger     *xlogger.Logger
	analyzer   *usecase.TrendAnalyzer
	forecaster *usecase.Forecaster
	history    *usecase.SnapshotHistory
	respCache  cachesvc.BytesCache
	respTTL    time.Duration
}

func NewForecastEchoHandler(
	logger *xlogger.Logger,
	analyzer *usecase.TrendAnalyzer,
	forecaster *usecase.Forecaster,
	history *usecase.SnapshotHistory,
	respCache cachesvc.BytesCache,
	respTTL time.Duration,
) *ForecastEchoHandler {
	if respTTL <= 0 {
		respTTL = 10 * time.Minute
	}
	return &ForecastEchoHandler{
		logger:     logger,
		analyzer:   analyzer,
		forecaster: forecaster,
		history:    history,
		respCache:  respCache,
		respTTL:    respTTL,
	}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/trend", h.Trend)
	g.GET("/seasonal", h.Seasonal)
	g.GET("/outliers", h.Outliers)
	g.GET("/growth", h.Growth)
	g.GET("/forecast", h.Forecast)
	g.POST("/scenarios", h.ScenariosPost)
	g.GET("/scenarios", h.Scenarios)
	g.GET("/forecast/history", h.History)
}

func (h *ForecastEchoHandler) Trend(c echo.Context) error {
	start := time.Now()
	req := &models.TrendRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.AnalyzeTrend(c.Request().Context(), *req)
	if err != nil {
		return h.analysisError(c, "trend", err)
	}
	metrics.ForecastLatency.WithLabelValues("trend").Observe(time.Since(start).Seconds())
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Seasonal(c echo.Context) error {
	start := time.Now()
	req := &models.SeasonalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.AnalyzeSeasonal(c.Request().Context(), *req)
	if err != nil {
		return h.analysisError(c, "seasonal", err)
	}
	metrics.ForecastLatency.WithLabelValues("seasonal").Observe(time.Since(start).Seconds())
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Outliers(c echo.Context) error {
	start := time.Now()
	req := &models.OutlierRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.AnalyzeOutliers(c.Request().Context(), *req)
	if err != nil {
		return h.analysisError(c, "outliers", err)
	}
	metrics.ForecastLatency.WithLabelValues("outliers").Observe(time.Since(start).Seconds())
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Growth(c echo.Context) error {
	start := time.Now()
	req := &models.GrowthRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.AnalyzeGrowth(c.Request().Context(), *req)
	if err != nil {
		return h.analysisError(c, "growth", err)
	}
	metrics.ForecastLatency.WithLabelValues("growth").Observe(time.Since(start).Seconds())
	return xhttp.SuccessResponse(c, res)
}

// Forecast returns the orchestration envelope directly: the dashboard
// reads {success, forecast, error} rather than the APIResponse wrapper.
// Successful envelopes are memoized per parameter set; refreshes land
// within the TTL so stale reads are bounded.
func (h *ForecastEchoHandler) Forecast(c echo.Context) error {
	start := time.Now()
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := forecastCacheKey(req)
	if h.respCache != nil {
		if b, ok, err := h.respCache.GetBytes(key); err == nil && ok {
			metrics.ForecastCacheHits.WithLabelValues("forecast", "hit").Inc()
			return c.JSONBlob(http.StatusOK, b)
		}
		metrics.ForecastCacheHits.WithLabelValues("forecast", "miss").Inc()
	}

	env := h.forecaster.Generate(c.Request().Context(), *req)
	if !env.Success {
		metrics.ForecastErrors.WithLabelValues("forecast").Inc()
		h.logger.Error("forecast failed",
			xlogger.String("pipeline", req.Pipeline),
			xlogger.String("error", env.Error))
	} else if h.respCache != nil {
		if b, err := json.Marshal(env); err == nil {
			if cerr := h.respCache.SetBytes(key, b, h.respTTL); cerr != nil {
				h.logger.Warn("forecast response cache write failed", xlogger.Error(cerr))
			}
		}
	}
	metrics.ForecastLatency.WithLabelValues("forecast").Observe(time.Since(start).Seconds())
	return c.JSON(envelopeStatus(env.Success), env)
}

func forecastCacheKey(req *models.ForecastRequest) string {
	return fmt.Sprintf("resp:forecast:%s:%d:%d:%g:%d:%g:%s:%d:%s:%s",
		req.Pipeline, req.Periods, req.Window, req.Alpha, req.SeasonLength,
		req.Confidence, req.Unit, req.Days, strings.Join(req.Methods, ","),
		weightsKeyPart(req.Weights))
}

// weightsKeyPart renders the weight overrides in sorted key order so
// equal maps always memoize to the same entry.
func weightsKeyPart(w map[string]float64) string {
	if len(w) == 0 {
		return ""
	}
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, w[k])
	}
	return strings.Join(parts, ",")
}

// Scenarios handles GET requests using default scenario specs.
func (h *ForecastEchoHandler) Scenarios(c echo.Context) error {
	return h.scenarios(c, &models.ScenarioRequest{})
}

// ScenariosPost handles POST requests carrying caller-supplied specs.
func (h *ForecastEchoHandler) ScenariosPost(c echo.Context) error {
	return h.scenarios(c, &models.ScenarioRequest{})
}

func (h *ForecastEchoHandler) scenarios(c echo.Context, req *models.ScenarioRequest) error {
	start := time.Now()
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	env := h.forecaster.Scenarios(c.Request().Context(), *req)
	if !env.Success {
		metrics.ForecastErrors.WithLabelValues("scenarios").Inc()
		h.logger.Error("scenario generation failed",
			xlogger.String("pipeline", req.Pipeline),
			xlogger.String("error", env.Error))
	}
	metrics.ForecastLatency.WithLabelValues("scenarios").Observe(time.Since(start).Seconds())
	return c.JSON(envelopeStatus(env.Success), env)
}

// History serves archived snapshots for the dashboard's accuracy view.
func (h *ForecastEchoHandler) History(c echo.Context) error {
	pipeline := c.QueryParam("pipeline")
	if pipeline == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("pipeline is required"))
	}
	now := time.Now().UTC()
	from := util.ParseTimeDefault(c.QueryParam("from"), now.AddDate(0, -1, 0))
	to := util.ParseTimeDefault(c.QueryParam("to"), now)
	limit := util.ParseIntDefault(c.QueryParam("limit"), 100)

	rows, err := h.history.Recent(c.Request().Context(), pipeline, from, to, limit)
	if err != nil {
		metrics.ForecastErrors.WithLabelValues("history").Inc()
		h.logger.Error("history query failed",
			xlogger.String("pipeline", pipeline),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("querying forecast history"))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// analysisError maps engine errors onto HTTP: short history is the
// caller's problem (422), anything else is ours (500).
func (h *ForecastEchoHandler) analysisError(c echo.Context, endpoint string, err error) error {
	metrics.ForecastErrors.WithLabelValues(endpoint).Inc()
	if errors.Is(err, trend.ErrInsufficientData) {
		return xhttp.AppErrorResponse(c, xhttp.UnprocessableError("not enough history for this computation"))
	}
	h.logger.Error(endpoint+" usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}

func envelopeStatus(success bool) int {
	if success {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}
