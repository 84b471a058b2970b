package docx

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/benjaminschreck/go-docxtree"

// MetricsRecorder records packaging metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordPart records one rendered part and its size.
	RecordPart(ctx context.Context, name string, sizeBytes int64)

	// RecordPackage records a finished (or failed) package write.
	RecordPackage(ctx context.Context, parts int, sizeBytes int64, duration time.Duration, err error)
}

type otelMetrics struct {
	writes      metric.Int64Counter
	writeErrors metric.Int64Counter
	parts       metric.Int64Counter
	partSize    metric.Int64Histogram
	packageSize metric.Int64Histogram
	latency     metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter(instrumentationName)

	writes, err := meter.Int64Counter("docx.package.writes",
		metric.WithDescription("Number of package writes"),
	)
	if err != nil {
		return nil, err
	}

	writeErrors, err := meter.Int64Counter("docx.package.errors",
		metric.WithDescription("Number of failed package writes"),
	)
	if err != nil {
		return nil, err
	}

	parts, err := meter.Int64Counter("docx.package.parts",
		metric.WithDescription("Number of parts rendered into packages"),
	)
	if err != nil {
		return nil, err
	}

	partSize, err := meter.Int64Histogram("docx.part.size_bytes",
		metric.WithDescription("Rendered part size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	packageSize, err := meter.Int64Histogram("docx.package.size_bytes",
		metric.WithDescription("Uncompressed package content size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("docx.package.latency_ms",
		metric.WithDescription("Package write latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		writes:      writes,
		writeErrors: writeErrors,
		parts:       parts,
		partSize:    partSize,
		packageSize: packageSize,
		latency:     latency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder backed by the global OTel
// meter provider, or a no-op recorder if the instruments cannot be created.
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		GetLogger().Warn("metrics initialization failed, using no-op recorder", "error", err)
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordPart(ctx context.Context, name string, sizeBytes int64) {
	attrs := metric.WithAttributes(attribute.String("part", name))
	m.parts.Add(ctx, 1, attrs)
	m.partSize.Record(ctx, sizeBytes, attrs)
}

func (m *otelMetrics) RecordPackage(ctx context.Context, parts int, sizeBytes int64, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.writes.Add(ctx, 1, attrs)
	m.latency.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		m.writeErrors.Add(ctx, 1)
		return
	}
	m.packageSize.Record(ctx, sizeBytes, metric.WithAttributes(attribute.Int("parts", parts)))
}

// SpanManager handles trace span lifecycle for package writes.
type SpanManager interface {
	StartWriteSpan(ctx context.Context, parts int) (context.Context, trace.Span)
	EndSpanWithError(span trace.Span, err error)
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager using the global OTel tracer provider.
func NewSpanManager() SpanManager {
	return otelSpanManager{}
}

func (otelSpanManager) StartWriteSpan(ctx context.Context, parts int) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, "docx.write",
		trace.WithAttributes(attribute.Int("docx.parts", parts)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

func (NoopMetrics) RecordPart(_ context.Context, _ string, _ int64) {}

func (NoopMetrics) RecordPackage(_ context.Context, _ int, _ int64, _ time.Duration, _ error) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

func (NoopSpanManager) StartWriteSpan(ctx context.Context, _ int) (context.Context, trace.Span) {
	return ctx, noop.Span{}
}

func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
