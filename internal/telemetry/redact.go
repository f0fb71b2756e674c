package telemetry

import (
	"context"
	"regexp"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
)

const redactedValue = "[redacted]"

// sensitivePatterns matches attribute keys that must never reach an
// exporter unredacted: API keys, auth tokens, connection strings, and
// query-string parameters (spec §4.13).
var sensitivePatterns = regexp.MustCompile(`(?i)(api[_-]?key|token|secret|password|authorization|connection[_-]?string|dsn|query)`)

// redactingTracerProvider wraps a delegate TracerProvider, sanitizing
// attribute values on every span it hands out. It reuses the wrapping
// technique from the pack's filteringTracerProvider (delegate + per-call
// interception) but redacts attribute values instead of suppressing whole
// spans — the same shape, a different policy.
type redactingTracerProvider struct {
	embedded.TracerProvider
	delegate trace.TracerProvider
	debug    bool
}

func newRedactingTracerProvider(delegate trace.TracerProvider, debug bool) trace.TracerProvider {
	return &redactingTracerProvider{delegate: delegate, debug: debug}
}

func (p *redactingTracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return &redactingTracer{delegate: p.delegate.Tracer(name, opts...), debug: p.debug}
}

type redactingTracer struct {
	embedded.Tracer
	delegate trace.Tracer
	debug    bool
}

func (t *redactingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	ctx, span := t.delegate.Start(ctx, name, opts...)
	if t.debug {
		// Debug mode relaxes sanitization for local work, per spec §4.13.
		return ctx, span
	}
	return ctx, &redactingSpan{Span: span}
}

// redactingSpan intercepts SetAttributes to scrub sensitive values before
// they reach the delegate span (and therefore any exporter).
type redactingSpan struct {
	trace.Span
}

func (s *redactingSpan) SetAttributes(kv ...attribute.KeyValue) {
	sanitized := make([]attribute.KeyValue, len(kv))
	for i, a := range kv {
		if sensitivePatterns.MatchString(string(a.Key)) {
			sanitized[i] = attribute.String(string(a.Key), redactedValue)
			continue
		}
		sanitized[i] = a
	}
	s.Span.SetAttributes(sanitized...)
}
