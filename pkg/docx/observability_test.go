package docx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupMetricsTest(t *testing.T) *sdkmetric.ManualReader {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	original := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() {
		otel.SetMeterProvider(original)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	})
	return reader
}

func setupTracingTest(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	})
	return exporter
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumInt64(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is %T", m.Name, m.Data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestPackageMetrics(t *testing.T) {
	reader := setupMetricsTest(t)
	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	doc := newTestDocument(WithMetrics(m))
	_, err = doc.Generate(ctx)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	assert.Equal(t, int64(1), sumInt64(t, findMetric(&rm, "docx.package.writes")))
	assert.Equal(t, int64(4), sumInt64(t, findMetric(&rm, "docx.package.parts")))

	size := findMetric(&rm, "docx.package.size_bytes")
	require.NotNil(t, size)
	hist, ok := size.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.Positive(t, hist.DataPoints[0].Sum)

	require.NotNil(t, findMetric(&rm, "docx.part.size_bytes"))
	require.NotNil(t, findMetric(&rm, "docx.package.latency_ms"))
}

func TestPackageMetricsOnError(t *testing.T) {
	reader := setupMetricsTest(t)
	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	doc := newTestDocument(WithMetrics(m))
	require.NoError(t, doc.AddPart("word/bad.xml", failingPart{err: errors.New("bad")}))
	_, err = doc.Generate(ctx)
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	assert.Equal(t, int64(1), sumInt64(t, findMetric(&rm, "docx.package.errors")))
	assert.Equal(t, int64(1), sumInt64(t, findMetric(&rm, "docx.package.writes")))
}

func TestNewMetricsRecorder(t *testing.T) {
	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)
	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop)
}

func TestWriteSpan(t *testing.T) {
	exporter := setupTracingTest(t)

	doc := newTestDocument(WithSpanManager(NewSpanManager()))
	_, err := doc.Generate(context.Background())
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "docx.write", s.Name)
	assert.Equal(t, codes.Ok, s.Status.Code)
	assert.Contains(t, s.Attributes, attribute.Int("docx.parts", 4))

	require.Len(t, s.Events, 4)
	for _, e := range s.Events {
		assert.Equal(t, "part.written", e.Name)
	}
	assert.Contains(t, s.Events[0].Attributes, attribute.String("part", PartContentTypes))
}

func TestWriteSpanError(t *testing.T) {
	exporter := setupTracingTest(t)

	doc := newTestDocument(WithSpanManager(NewSpanManager()))
	require.NoError(t, doc.AddPart("word/bad.xml", failingPart{err: errors.New("bad")}))
	_, err := doc.Generate(context.Background())
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	require.Len(t, spans[0].Events, 1, "no part is written")
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestNoopObservability(t *testing.T) {
	ctx := context.Background()
	var m MetricsRecorder = NoopMetrics{}
	m.RecordPart(ctx, "a", 1)
	m.RecordPackage(ctx, 1, 1, time.Millisecond, nil)

	var s SpanManager = NoopSpanManager{}
	ctx2, span := s.StartWriteSpan(ctx, 1)
	assert.Equal(t, ctx, ctx2)
	assert.False(t, span.IsRecording())
	s.AddSpanEvent(ctx2, "event")
	s.EndSpanWithError(span, errors.New("ignored"))
}
