package middleware

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SalesPulse/internal/domain/models"
)

type recordingArchiver struct {
	mu    sync.Mutex
	snaps []*models.ForecastSnapshot
	err   error
}

func (a *recordingArchiver) Archive(_ context.Context, s *models.ForecastSnapshot) error {
	if a.err != nil {
		return a.err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snaps = append(a.snaps, s)
	return nil
}

type countingMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{errors: make(map[string]int)}
}

func (m *countingMetrics) RecordSnapshotSent(string, string) {}

func (m *countingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *countingMetrics) RecordPipelineValue(string, float64) {}

func (m *countingMetrics) RecordLatency(string, float64) {}

func validSnap(step int) *models.ForecastSnapshot {
	return &models.ForecastSnapshot{
		ForecastID:  "forecast-20250801-cafef00d",
		Pipeline:    "smb",
		GeneratedAt: time.Now().UTC(),
		Method:      "ensemble",
		Step:        step,
		Value:       100,
		Lower:       80,
		Upper:       120,
		Confidence:  0.95,
	}
}

func TestProcessForwardsValidSnapshot(t *testing.T) {
	arch := &recordingArchiver{}
	p := NewSnapshotPipeline(arch, newCountingMetrics())

	require.NoError(t, p.Process(context.Background(), validSnap(1)))
	assert.Len(t, arch.snaps, 1)
}

func TestProcessRejectsInvalidSnapshots(t *testing.T) {
	arch := &recordingArchiver{}
	m := newCountingMetrics()
	p := NewSnapshotPipeline(arch, m)

	cases := map[string]*models.ForecastSnapshot{
		"nil":            nil,
		"empty pipeline": {ForecastID: "x", Step: 1, Value: 1},
		"empty id":       {Pipeline: "smb", Step: 1, Value: 1},
		"zero step":      {ForecastID: "x", Pipeline: "smb", Step: 0, Value: 1},
		"nan value":      {ForecastID: "x", Pipeline: "smb", Step: 1, Value: math.NaN()},
		"bad bounds":     {ForecastID: "x", Pipeline: "smb", Step: 1, Value: 200, Lower: 10, Upper: 50},
	}
	for name, s := range cases {
		assert.Error(t, p.Process(context.Background(), s), name)
	}
	assert.Empty(t, arch.snaps)
	assert.Equal(t, len(cases), m.errors["pipeline_validate"])
}

func TestProcessThrottlesPerPipeline(t *testing.T) {
	arch := &recordingArchiver{}
	m := newCountingMetrics()
	p := NewSnapshotPipeline(arch, m, WithMaxRPS(1), WithBurst(1))

	// the single token passes, an immediate second snapshot is dropped
	require.NoError(t, p.Process(context.Background(), validSnap(1)))
	require.NoError(t, p.Process(context.Background(), validSnap(2)))

	assert.Len(t, arch.snaps, 1)
	assert.Equal(t, 1, m.errors["pipeline_throttle"])

	// a different pipeline has its own bucket
	other := validSnap(1)
	other.Pipeline = "enterprise"
	require.NoError(t, p.Process(context.Background(), other))
	assert.Len(t, arch.snaps, 2)
}

func TestProcessAdmitsWholeForecastBurst(t *testing.T) {
	arch := &recordingArchiver{}
	m := newCountingMetrics()
	p := NewSnapshotPipeline(arch, m, WithMaxRPS(1), WithBurst(24))

	// a 24-step forecast arrives as back-to-back Process calls; every
	// step must reach the archiver, only the 25th hits the throttle
	for step := 1; step <= 24; step++ {
		require.NoError(t, p.Process(context.Background(), validSnap(step)))
	}
	assert.Len(t, arch.snaps, 24)
	assert.Zero(t, m.errors["pipeline_throttle"])

	require.NoError(t, p.Process(context.Background(), validSnap(25)))
	assert.Len(t, arch.snaps, 24)
	assert.Equal(t, 1, m.errors["pipeline_throttle"])
}

func TestProcessBuffersOnArchiveError(t *testing.T) {
	arch := &recordingArchiver{err: assert.AnError}
	m := newCountingMetrics()
	p := NewSnapshotPipeline(arch, m, WithBufferSize(4))

	err := p.Process(context.Background(), validSnap(1))
	require.Error(t, err)
	assert.Equal(t, 1, m.errors["pipeline_archive"])
	assert.Equal(t, 1, len(p.bufCh))
}

func TestStartDrainsBuffer(t *testing.T) {
	arch := &recordingArchiver{err: assert.AnError}
	p := NewSnapshotPipeline(arch, newCountingMetrics(), WithBufferSize(4), WithMaxRPS(1000))

	_ = p.Process(context.Background(), validSnap(1))

	// downstream recovers; the flusher should drain the buffer
	arch.err = nil
	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool {
		arch.mu.Lock()
		defer arch.mu.Unlock()
		return len(arch.snaps) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
