package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"SalesPulse/internal/domain/models"
	pkgcache "SalesPulse/pkg/cache"
	"SalesPulse/pkg/logger"
)

func testLogger() *logger.Logger {
	l, _ := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	return l
}

type stubSource struct {
	deals     []*models.Deal
	err       error
	pipelines []string
	calls     int
}

func (s *stubSource) FetchDeals(_ context.Context, _ string, _, _ time.Time) ([]*models.Deal, error) {
	s.calls++
	return s.deals, s.err
}

func (s *stubSource) Pipelines(_ context.Context) ([]string, error) { return s.pipelines, nil }

func (s *stubSource) Health(_ context.Context) error { return nil }

type stubMetrics struct {
	mu     sync.Mutex
	errors map[string]int
	sent   map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{errors: make(map[string]int), sent: make(map[string]int)}
}

func (m *stubMetrics) RecordSnapshotSent(sink, pipeline string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[sink+"/"+pipeline]++
}

func (m *stubMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *stubMetrics) RecordPipelineValue(string, float64) {}

func (m *stubMetrics) RecordLatency(string, float64) {}

type stubPublisher struct {
	mu      sync.Mutex
	batches [][]*models.ForecastSnapshot
	err     error
}

func (p *stubPublisher) Publish(_ context.Context, s *models.ForecastSnapshot) error {
	return p.PublishBatch(context.Background(), []*models.ForecastSnapshot{s})
}

func (p *stubPublisher) PublishBatch(_ context.Context, snaps []*models.ForecastSnapshot) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches = append(p.batches, snaps)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

type stubStore struct {
	mu      sync.Mutex
	batches [][]*models.ForecastSnapshot
	err     error
}

func (s *stubStore) Init(context.Context) error { return nil }

func (s *stubStore) Store(ctx context.Context, snap *models.ForecastSnapshot) error {
	return s.StoreBatch(ctx, []*models.ForecastSnapshot{snap})
}

func (s *stubStore) StoreBatch(_ context.Context, snaps []*models.ForecastSnapshot) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, snaps)
	return nil
}

func (s *stubStore) Query(context.Context, string, time.Time, time.Time, int) ([]*models.ForecastSnapshot, error) {
	return nil, nil
}

func (s *stubStore) Health(context.Context) error { return nil }

func (s *stubStore) Close() error { return nil }

// fakeCache is an in-memory cache.Service backed by JSON, mirroring the
// Redis implementation's round-trip semantics.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string][]byte)} }

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	b, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return pkgcache.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *fakeCache) Exists(_ context.Context, keys ...string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		if _, ok := c.data[k]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func (c *fakeCache) Increment(context.Context, string) (int64, error) { return 0, nil }

func (c *fakeCache) Expire(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

func (c *fakeCache) MSet(context.Context, map[string]interface{}, time.Duration) error {
	return nil
}

func (c *fakeCache) MGet(context.Context, ...string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (c *fakeCache) TryLock(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

func (c *fakeCache) Unlock(context.Context, string) error { return nil }

func forecastRequest(pipeline string, periods int) models.ForecastRequest {
	return models.ForecastRequest{
		Pipeline:     pipeline,
		Periods:      periods,
		Window:       3,
		Alpha:        0.3,
		SeasonLength: 12,
		Confidence:   0.95,
		Unit:         "month",
		Days:         30,
	}
}

func scenarioRequest(pipeline string, periods int) models.ScenarioRequest {
	return models.ScenarioRequest{
		Pipeline:   pipeline,
		Periods:    periods,
		Confidence: 0.95,
		Unit:       "month",
		Days:       30,
	}
}

// dealsOverDays builds one deal per day ending today, oldest first.
func dealsOverDays(pipeline string, amounts []float64) []*models.Deal {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	deals := make([]*models.Deal, len(amounts))
	for i, amt := range amounts {
		deals[i] = &models.Deal{
			ID:       "d",
			Pipeline: pipeline,
			Amount:   amt,
			Date:     now.AddDate(0, 0, -(len(amounts) - 1 - i)),
		}
	}
	return deals
}
