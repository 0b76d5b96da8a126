package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SalesPulse/internal/domain/models"
	cachesvc "SalesPulse/internal/service/cache"
	"SalesPulse/internal/usecase"
	"SalesPulse/pkg/logger"
)

type fakeSource struct {
	calls int
}

func (s *fakeSource) FetchDeals(_ context.Context, pipeline string, _, _ time.Time) ([]*models.Deal, error) {
	s.calls++
	now := time.Now().UTC().Truncate(24 * time.Hour)
	deals := make([]*models.Deal, 0, 10)
	for i := 0; i < 10; i++ {
		deals = append(deals, &models.Deal{
			ID:       "d",
			Pipeline: pipeline,
			Amount:   float64(100 + 10*i),
			Date:     now.AddDate(0, 0, i-9),
		})
	}
	return deals, nil
}

func (s *fakeSource) Pipelines(context.Context) ([]string, error) { return []string{"smb"}, nil }

func (s *fakeSource) Health(context.Context) error { return nil }

type noopMetrics struct{}

func (noopMetrics) RecordSnapshotSent(string, string)  {}
func (noopMetrics) RecordError(string)                 {}
func (noopMetrics) RecordPipelineValue(string, float64) {}
func (noopMetrics) RecordLatency(string, float64)      {}

func newTestHandler(t *testing.T, src *fakeSource) (*echo.Echo, *ForecastEchoHandler) {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)

	builder := usecase.NewSeriesBuilder(src, nil, time.Minute, log)
	forecaster := usecase.NewForecaster(builder, nil, noopMetrics{}, log)
	analyzer := usecase.NewTrendAnalyzer(builder)

	h := NewForecastEchoHandler(log, analyzer, forecaster, nil, cachesvc.NewTTLCache(), time.Minute)
	e := echo.New()
	h.RegisterRoutes(e)
	return e, h
}

func TestForecastEndpoint(t *testing.T) {
	e, _ := newTestHandler(t, &fakeSource{})

	req := httptest.NewRequest(http.MethodGet, "/api/forecast?pipeline=smb&periods=3", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"model":"ensemble"`)
}

func TestForecastEndpointMemoizesResponses(t *testing.T) {
	src := &fakeSource{}
	e, _ := newTestHandler(t, src)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/forecast?pipeline=smb&periods=3", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// the second request is served from the response cache
	assert.Equal(t, 1, src.calls)
}

func TestForecastEndpointRequiresPipeline(t *testing.T) {
	e, _ := newTestHandler(t, &fakeSource{})

	req := httptest.NewRequest(http.MethodGet, "/api/forecast", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrendEndpoint(t *testing.T) {
	e, _ := newTestHandler(t, &fakeSource{})

	req := httptest.NewRequest(http.MethodGet, "/api/trend?pipeline=smb", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"moving_average"`)
	assert.Equal(t, "private, max-age=60", rec.Header().Get(echo.HeaderCacheControl))
}

func TestForecastCacheKeyDistinguishesParams(t *testing.T) {
	base := &models.ForecastRequest{Pipeline: "smb", Periods: 3, Window: 3, Alpha: 0.3, SeasonLength: 12, Confidence: 0.95, Unit: "month", Days: 90}
	other := *base
	other.Periods = 6

	assert.NotEqual(t, forecastCacheKey(base), forecastCacheKey(&other))
	assert.True(t, strings.HasPrefix(forecastCacheKey(base), "resp:forecast:smb:"))

	// weight overrides change the response, so they change the key,
	// and map iteration order must not
	weighted := *base
	weighted.Weights = map[string]float64{"linear_regression": 0.5, "moving_average": 0.5}
	sameWeights := *base
	sameWeights.Weights = map[string]float64{"moving_average": 0.5, "linear_regression": 0.5}

	assert.NotEqual(t, forecastCacheKey(base), forecastCacheKey(&weighted))
	assert.Equal(t, forecastCacheKey(&weighted), forecastCacheKey(&sameWeights))
}
