package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// traceHandler wraps an slog.Handler, injecting trace_id/span_id into every
// record when a recording span is active on the record's context (spec
// §4.13). Wrapping rather than reimplementing JSON formatting mirrors the
// pack's delegate-wrapping style used throughout internal/observability.
type traceHandler struct {
	delegate slog.Handler
}

func newTraceHandler(delegate slog.Handler) *traceHandler {
	return &traceHandler{delegate: delegate}
}

func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.delegate.Enabled(ctx, level)
}

func (h *traceHandler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		record = record.Clone()
		record.AddAttrs(
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
		)
	}
	return h.delegate.Handle(ctx, record)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{delegate: h.delegate.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{delegate: h.delegate.WithGroup(name)}
}
