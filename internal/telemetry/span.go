package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span is a thin wrapper over trace.Span giving call sites a small,
// stable surface (SetAttributes/RecordError/End) instead of reaching into
// the otel API directly at every one of §4.1-§4.12's entry points.
type Span struct {
	span trace.Span
}

// StartSpan starts a span named "<component>.<operation>" and tags it with
// the component/operation attributes every entry point in spec §4.13 carries.
func StartSpan(ctx context.Context, component, operation string) (context.Context, Span) {
	tracer := otel.Tracer("commitjournal")
	ctx, span := tracer.Start(ctx, component+"."+operation)
	span.SetAttributes(
		attribute.String("component", component),
		attribute.String("operation", operation),
	)
	return ctx, Span{span: span}
}

// SetAttributes forwards to the underlying span.
func (s Span) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}

// RecordError records err on the span along with an error_category
// attribute (spec §4.13) and marks the span status as errored.
func (s Span) RecordError(err error, category string) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
	s.span.SetAttributes(attribute.String("error_category", category))
}

// End ends the span.
func (s Span) End() {
	s.span.End()
}

// Attr builds an attribute.KeyValue from a Go value, dispatching on the
// dynamic type so call sites can write telemetry.Attr("count", 3) without
// picking attribute.Int/String/Bool themselves.
func Attr(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
