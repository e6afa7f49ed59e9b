package ports

import "context"

// Span is the minimal capability the core needs from a tracing span: start
// it, end it, record an error, and attach small attributes. Concrete spans
// are backed by OpenTelemetry; the core never imports otel directly.
type Span interface {
	End()
	RecordError(err error)
	SetAttribute(key string, value any)
}

// Tracer starts spans around suspension points that cross a component
// boundary (reload, preparation, index-store update) so latency is
// observable without threading tracing concerns through control flow.
type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Span)
}
