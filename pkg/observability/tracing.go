package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names emitted by TracingHooks.
const (
	SpanImport = "eventline.import"
	SpanLayout = "eventline.layout"
	SpanRender = "eventline.render"
)

// TracingHooks turns completed pipeline stages into OpenTelemetry spans.
// Each span is recorded when its stage completes, backdated to the stage's
// start, so no state is kept between the start and complete events.
type TracingHooks struct {
	NoopPipelineHooks
	tracer trace.Tracer
}

// NewTracingHooks returns pipeline hooks that record spans with tracer.
func NewTracingHooks(tracer trace.Tracer) *TracingHooks {
	return &TracingHooks{tracer: tracer}
}

func (h *TracingHooks) OnImportComplete(ctx context.Context, path string, taskCount int, d time.Duration, err error) {
	h.record(ctx, SpanImport, d, err,
		attribute.String("eventline.path", path),
		attribute.Int("eventline.tasks", taskCount),
	)
}

func (h *TracingHooks) OnLayoutComplete(ctx context.Context, nodeCount, maxLevel int, d time.Duration, err error) {
	h.record(ctx, SpanLayout, d, err,
		attribute.Int("eventline.nodes", nodeCount),
		attribute.Int("eventline.max_level", maxLevel),
	)
}

func (h *TracingHooks) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	h.record(ctx, SpanRender, d, err,
		attribute.String("eventline.formats", strings.Join(formats, ",")),
	)
}

func (h *TracingHooks) record(ctx context.Context, name string, d time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, span := h.tracer.Start(ctx, name,
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(attrs...),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End(trace.WithTimestamp(end))
}

var _ PipelineHooks = (*TracingHooks)(nil)
