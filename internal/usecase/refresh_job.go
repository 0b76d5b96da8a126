package usecase

import (
	"context"
	"fmt"

	"SalesPulse/pkg/logger"
	"SalesPulse/pkg/queue"
)

// RefreshMessageType is the queue message type for forecast refreshes.
const RefreshMessageType = "pipeline_refresh"

// RefreshPayload is the queue payload carried by refresh messages.
type RefreshPayload struct {
	Pipeline string `json:"pipeline"`
}

// RefreshJob drains pipeline refresh messages from the queue. CRM sync
// bursts collapse into at most one in-flight refresh per worker rather
// than one per changed deal.
type RefreshJob struct {
	refresher *PipelineRefresher
	log       *logger.Logger
}

func NewRefreshJob(refresher *PipelineRefresher, log *logger.Logger) *RefreshJob {
	return &RefreshJob{refresher: refresher, log: log}
}

func (j *RefreshJob) Name() string { return "pipeline_refresh_job" }

func (j *RefreshJob) Type() string { return RefreshMessageType }

func (j *RefreshJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[RefreshPayload](payload)
	if err != nil {
		return fmt.Errorf("refresh payload: %w", err)
	}
	if p.Pipeline == "" {
		return fmt.Errorf("refresh payload missing pipeline")
	}
	return j.refresher.RefreshPipeline(ctx, p.Pipeline)
}

var _ queue.Job = (*RefreshJob)(nil)
