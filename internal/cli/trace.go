package cli

import (
	"context"

	"github.com/charmbracelet/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/matzehuels/eventline/pkg/observability"
)

// enableTracing records pipeline stages as spans and logs each finished span
// at debug level.
func (c *CLI) enableTracing() {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(&logExporter{logger: c.Logger}))
	observability.SetPipelineHooks(observability.NewTracingHooks(tp.Tracer(appName)))
	c.Logger.Debug("tracing enabled")
}

// logExporter writes spans to a charm logger.
type logExporter struct {
	logger *log.Logger
}

func (e *logExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		kv := []any{
			"trace", s.SpanContext().TraceID().String(),
			"duration", s.EndTime().Sub(s.StartTime()),
			"status", s.Status().Code.String(),
		}
		for _, a := range s.Attributes() {
			kv = append(kv, string(a.Key), a.Value.Emit())
		}
		e.logger.Debug("span "+s.Name(), kv...)
	}
	return nil
}

func (e *logExporter) Shutdown(context.Context) error { return nil }

var _ sdktrace.SpanExporter = (*logExporter)(nil)
