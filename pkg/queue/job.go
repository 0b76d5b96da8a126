package queue

import "context"

// Job is a registered consumer of one message type. The refresh worker
// implements it to drain pipeline recompute messages.
type Job interface {
	// Name identifies the job in logs and metrics.
	Name() string

	// Type is the message type this job consumes.
	Type() string

	// Handle processes one message payload.
	Handle(ctx context.Context, payload interface{}) error
}
