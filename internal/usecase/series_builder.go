package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"SalesPulse/internal/domain/models"
	drepo "SalesPulse/internal/domain/repository"
	pkgcache "SalesPulse/pkg/cache"
	"SalesPulse/pkg/logger"
)

// SeriesBuilder turns raw pipeline deals into a daily revenue series,
// memoized in the cache so repeated dashboard calls don't hammer the
// spreadsheet gateway.
type SeriesBuilder struct {
	source drepo.DealSource
	cache  pkgcache.Service
	ttl    time.Duration
	log    *logger.Logger
}

func NewSeriesBuilder(source drepo.DealSource, cache pkgcache.Service, ttl time.Duration, log *logger.Logger) *SeriesBuilder {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SeriesBuilder{source: source, cache: cache, ttl: ttl, log: log}
}

// DailySeries fetches the last `days` of deals for a pipeline and
// aggregates them into one observation per calendar day. A cached
// series is served when fresh.
func (b *SeriesBuilder) DailySeries(ctx context.Context, pipeline string, days int) (models.Series, error) {
	if days <= 0 {
		days = 90
	}
	key := pkgcache.GenerateKeyWithParams("series", pipeline, days)

	if b.cache != nil {
		var cached models.Series
		err := b.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, pkgcache.ErrCacheMiss) {
			b.log.Warn("series cache read failed",
				logger.String("pipeline", pipeline),
				logger.Error(err))
		}
	}

	now := time.Now().UTC()
	deals, err := b.source.FetchDeals(ctx, pipeline, now.AddDate(0, 0, -days), now)
	if err != nil {
		return models.Series{}, fmt.Errorf("build series %s: %w", pipeline, err)
	}
	s := aggregateDaily(deals)

	if b.cache != nil {
		if err := b.cache.Set(ctx, key, s, b.ttl); err != nil {
			b.log.Warn("series cache write failed",
				logger.String("pipeline", pipeline),
				logger.Error(err))
		}
	}
	return s, nil
}

// Invalidate drops every cached series for a pipeline, forcing the next
// read to refetch.
func (b *SeriesBuilder) Invalidate(ctx context.Context, pipeline string) error {
	if b.cache == nil {
		return nil
	}
	return b.cache.DeleteByPattern(ctx, fmt.Sprintf("series:%s:*", pipeline))
}

// aggregateDaily sums deal amounts per UTC calendar day. Days with no
// deals produce no observation; the engine's x-axis handles gaps.
func aggregateDaily(deals []*models.Deal) models.Series {
	if len(deals) == 0 {
		return models.Series{}
	}
	byDay := make(map[time.Time]float64, len(deals))
	for _, d := range deals {
		if d == nil {
			continue
		}
		day := d.Date.UTC().Truncate(24 * time.Hour)
		byDay[day] += d.Amount
	}

	points := make([]models.Observation, 0, len(byDay))
	for day, total := range byDay {
		points = append(points, models.Observation{Timestamp: day, HasTime: true, Value: total})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })
	return models.Series{Points: points, Timed: true}
}
