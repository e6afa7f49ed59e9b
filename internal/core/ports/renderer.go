package ports

import (
	"context"
	"time"
)

// Renderer presents reload/preparation/index-update progress to the user.
// It is driven by span lifecycle events bridged from a Tracer (see
// telemetry.Bridge) plus direct plan/log notifications from the tracer
// that created those spans.
type Renderer interface {
	// Start prepares the renderer to receive events.
	Start(ctx context.Context) error
	// Stop flushes any buffered output. It does not block for completion;
	// callers awaiting full drain should use Wait.
	Stop() error
	// Wait blocks until the renderer has finished presenting buffered
	// output. Synchronous renderers return immediately.
	Wait() error

	// OnPlanEmit announces a batch of scheduled operations (e.g. the
	// preparation/index-update tasks a reload or index request produced)
	// for the given target set.
	OnPlanEmit(operations []string, dependencies map[string][]string, targets []string)
	// OnTaskStart announces that the span identified by spanID has begun.
	// parentID is empty for a root span.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)
	// OnTaskLog streams a chunk of output attributed to spanID.
	OnTaskLog(spanID string, data []byte)
	// OnTaskComplete announces that the span identified by spanID has
	// ended, with err set if it failed.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
