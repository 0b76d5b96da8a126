package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SalesPulse/internal/domain/models"
	domrepo "SalesPulse/internal/domain/repository"
	pkgkafka "SalesPulse/pkg/kafka"
	"SalesPulse/pkg/logger"
	"SalesPulse/pkg/queue"
)

// DealEventsHandler consumes CRM change events from Kafka, drops the
// affected pipeline's cached series, and schedules a forecast refresh
// through the job queue.
type DealEventsHandler struct {
	topic   string
	builder *SeriesBuilder
	queue   queue.QueueService
	metrics domrepo.Metrics
	log     *logger.Logger
}

func NewDealEventsHandler(topic string, builder *SeriesBuilder, q queue.QueueService, metrics domrepo.Metrics, log *logger.Logger) *DealEventsHandler {
	return &DealEventsHandler{topic: topic, builder: builder, queue: q, metrics: metrics, log: log}
}

func (h *DealEventsHandler) Topic() string { return h.topic }

func (h *DealEventsHandler) Handle(ctx context.Context, b []byte) error {
	var ev models.DealChangeEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if ev.Pipeline == "" {
		h.metrics.RecordError("consumer_event_invalid")
		return fmt.Errorf("deal event missing pipeline")
	}
	if !ev.Timestamp.IsZero() {
		h.metrics.RecordLatency("event_e2e_seconds", time.Since(ev.Timestamp).Seconds())
	}

	if err := h.builder.Invalidate(ctx, ev.Pipeline); err != nil {
		h.metrics.RecordError("consumer_invalidate")
		return fmt.Errorf("invalidate %s: %w", ev.Pipeline, err)
	}

	if h.queue != nil {
		err := h.queue.PublishMessage(ctx, RefreshMessageType, RefreshPayload{Pipeline: ev.Pipeline})
		if err != nil {
			h.metrics.RecordError("consumer_enqueue")
			return fmt.Errorf("enqueue refresh %s: %w", ev.Pipeline, err)
		}
	}

	h.log.Debug("deal change handled",
		logger.String("pipeline", ev.Pipeline),
		logger.String("kind", ev.Kind),
		logger.String("change_id", ev.ChangeID))
	return nil
}

var _ pkgkafka.MessageHandler = (*DealEventsHandler)(nil)
