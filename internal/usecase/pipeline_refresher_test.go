package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mid "SalesPulse/internal/middleware"
)

func newTestRefresher(src *stubSource, arch *collectingArchiver, m *stubMetrics) *PipelineRefresher {
	b := NewSeriesBuilder(src, nil, time.Minute, testLogger())
	pipe := mid.NewSnapshotPipeline(arch, m,
		mid.WithMaxRPS(50),
		mid.WithBurst(64),
		mid.WithBufferSize(2000),
	)
	f := NewForecaster(b, pipe, m, testLogger())
	return NewPipelineRefresher(src, b, f, m, pipe, time.Hour, 180, testLogger())
}

func TestRefreshPipelinePersistsLabeledConfidence(t *testing.T) {
	src := &stubSource{deals: dealsOverDays("smb", []float64{
		100, 110, 120, 130, 140, 150, 160, 170, 180, 190, 200, 210,
	})}
	arch := &collectingArchiver{}
	r := newTestRefresher(src, arch, newStubMetrics())

	require.NoError(t, r.RefreshPipeline(context.Background(), "smb"))

	// the refresh request pins 95%; history rows must carry that label,
	// not a zero that happens to render 95% bands
	require.NotEmpty(t, arch.snaps)
	for _, s := range arch.snaps {
		assert.Equal(t, 0.95, s.Confidence)
		assert.Equal(t, "smb", s.Pipeline)
	}
}

func TestRefreshPipelinePropagatesGenerateFailure(t *testing.T) {
	src := &stubSource{err: assert.AnError}
	r := newTestRefresher(src, &collectingArchiver{}, newStubMetrics())

	err := r.RefreshPipeline(context.Background(), "smb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smb")
}
