// Package telemetry is the observability spine (C14): spans, RED metrics,
// and structured JSON logs correlated by trace/span ID.
//
// The teacher (untoldecay/BeadsLog) carries no telemetry stack at all —
// this package is adopted wholesale from the pack repo Sumatoshi-tech-codefang's
// internal/observability, whose filteringTracerProvider wrapping technique
// is repurposed here from span suppression to attribute redaction, and
// whose RED-metrics shape is reused directly for the counters/histograms
// spec.md §4.13 asks for.
//
// Provider wiring (endpoints, resource attribution policy) is out of scope
// per spec.md §1 — Init takes exporter endpoints rather than choosing them.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// ExporterSpec matches the `telemetry.exporters` config shape from spec §6.
type ExporterSpec struct {
	Type     string // console | otlp | prometheus
	Endpoint string
}

// Config is the subset of application config telemetry.Init consumes.
type Config struct {
	Enabled       bool
	ServiceName   string
	Exporters     []ExporterSpec
	Debug         bool // relaxes redaction for local work, per spec §4.13
	BreakerLimit  int  // consecutive failed operations before metrics recording stops
}

var (
	initOnce   sync.Once
	globalMu   sync.Mutex
	globalRed  *REDMetrics
	globalCfg  Config
	breaker    = &circuitBreaker{}
	noopTracer = otel.Tracer("commitjournal.noop")
)

// Init wires the process-global tracer/meter providers and default slog
// logger. It is safe to call at most once per process; subsequent calls
// are no-ops, matching the teacher's own "telemetry state is process-global,
// initialized once at startup" model (spec §5).
func Init(ctx context.Context, cfg Config) error {
	var initErr error
	initOnce.Do(func() {
		globalMu.Lock()
		globalCfg = cfg
		globalMu.Unlock()
		breaker.limit = cfg.BreakerLimit
		if breaker.limit <= 0 {
			breaker.limit = 5
		}

		if !cfg.Enabled {
			installLogger(cfg)
			return
		}

		res, err := sdkresource.New(ctx,
			sdkresource.WithAttributes(
				attribute.String("service.name", firstNonEmpty(cfg.ServiceName, "commitjournal")),
			),
		)
		if err != nil {
			initErr = fmt.Errorf("telemetry: build resource: %w", err)
			return
		}

		tp, mp, err := buildProviders(ctx, res, cfg.Exporters)
		if err != nil {
			initErr = fmt.Errorf("telemetry: build providers: %w", err)
			return
		}

		redacted := newRedactingTracerProvider(tp, cfg.Debug)
		otel.SetTracerProvider(redacted)
		otel.SetMeterProvider(mp)

		rm, err := NewREDMetrics(mp.Meter("commitjournal"))
		if err != nil {
			initErr = fmt.Errorf("telemetry: build RED metrics: %w", err)
			return
		}
		globalMu.Lock()
		globalRed = rm
		globalMu.Unlock()

		installLogger(cfg)
	})
	return initErr
}

func buildProviders(ctx context.Context, res *sdkresource.Resource, specs []ExporterSpec) (trace.TracerProvider, metric.MeterProvider, error) {
	var spanProcessors []sdktrace.TracerProviderOption
	var metricReaders []sdkmetric.Option
	spanProcessors = append(spanProcessors, sdktrace.WithResource(res))
	metricReaders = append(metricReaders, sdkmetric.WithResource(res))

	for _, spec := range specs {
		switch spec.Type {
		case "console":
			// Console exporters are the out-of-scope exporter *wiring*
			// concern (spec §1); a no-op resource-only provider still
			// gives callers real spans/metrics to attach attributes to.
		case "otlp":
			if spec.Endpoint == "" {
				continue
			}
			traceExp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(spec.Endpoint), otlptracegrpc.WithInsecure())
			if err != nil {
				return nil, nil, fmt.Errorf("otlp trace exporter: %w", err)
			}
			spanProcessors = append(spanProcessors, sdktrace.WithBatcher(traceExp))

			metricExp, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpoint(spec.Endpoint), otlpmetricgrpc.WithInsecure())
			if err != nil {
				return nil, nil, fmt.Errorf("otlp metric exporter: %w", err)
			}
			metricReaders = append(metricReaders, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)))
		case "prometheus":
			promExp, err := prometheus.New()
			if err != nil {
				return nil, nil, fmt.Errorf("prometheus exporter: %w", err)
			}
			metricReaders = append(metricReaders, sdkmetric.WithReader(promExp))
		}
	}

	tp := sdktrace.NewTracerProvider(spanProcessors...)
	mp := sdkmetric.NewMeterProvider(metricReaders...)
	return tp, mp, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Metrics returns the process-global RED metrics instrument set, or nil if
// telemetry was never enabled.
func Metrics() *REDMetrics {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalRed
}

// RecordOperation is the one-call-site helper every public entry point
// (§4.1-§4.12) uses to emit its span + RED metrics together.
func RecordOperation(ctx context.Context, component, operation string, fn func(ctx context.Context, span Span) error) error {
	start := time.Now()
	ctx, span := StartSpan(ctx, component, operation)
	defer span.End()

	err := fn(ctx, span)

	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err, categorize(err))
	}
	span.SetAttributes(Attr("duration_ms", time.Since(start).Milliseconds()))

	if rm := Metrics(); rm != nil && breaker.allow() {
		rm.RecordRequest(ctx, component+"."+operation, status, time.Since(start))
		if err != nil {
			breaker.fail()
		} else {
			breaker.reset()
		}
	}
	return err
}

func categorize(err error) string {
	type categorized interface{ Category() string }
	if c, ok := err.(categorized); ok {
		return c.Category()
	}
	return "unknown"
}

// circuitBreaker disables metrics recording after N consecutive
// operations that RecordOperation saw return an error; exporter errors
// are not observed. Once open it stays open for the rest of the process,
// since reset is only reached while recording is allowed. It never
// disables spans/logs themselves, only the metrics recording path.
type circuitBreaker struct {
	limit int
	fails int32
	open  int32
}

func (b *circuitBreaker) allow() bool {
	return atomic.LoadInt32(&b.open) == 0
}

func (b *circuitBreaker) fail() {
	n := atomic.AddInt32(&b.fails, 1)
	if int(n) >= b.limit {
		atomic.StoreInt32(&b.open, 1)
	}
}

func (b *circuitBreaker) reset() {
	atomic.StoreInt32(&b.fails, 0)
	atomic.StoreInt32(&b.open, 0)
}

func installLogger(cfg Config) {
	handler := newTraceHandler(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(slog.New(handler))
}
