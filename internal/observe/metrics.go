// Package observe provides application-wide observability primitives for
// Shuddhi: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Shuddhi metrics.
const meterName = "github.com/shuddhi-ai/shuddhi"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// PassDuration tracks per-pass latency. Use with attribute:
	//   attribute.String("kind", ...) — dictionary, llm-grammar or llm-style.
	PassDuration metric.Float64Histogram

	// PipelineDuration tracks end-to-end correction run latency.
	PipelineDuration metric.Float64Histogram

	// --- Counters ---

	// ProviderRequests counts grammar provider API calls. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("op", ...), attribute.String("status", ...)
	ProviderRequests metric.Int64Counter

	// CorrectionsApplied counts emitted corrections. Use with attributes:
	//   attribute.String("source", ...), attribute.String("type", ...)
	CorrectionsApplied metric.Int64Counter

	// DictionaryFallbacks counts runs served from the static fallback list
	// because the remote table was unreachable.
	DictionaryFallbacks metric.Int64Counter

	// --- Error counters ---

	// ProviderErrors counts grammar provider errors. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("op", ...)
	ProviderErrors metric.Int64Counter

	// --- Gauges ---

	// ActiveRuns tracks the number of correction runs in flight.
	ActiveRuns metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). LLM passes
// dominate the upper buckets; dictionary passes the lower ones.
var latencyBuckets = []float64{
	0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.PassDuration, err = m.Float64Histogram("shuddhi.pass.duration",
		metric.WithDescription("Latency of one pipeline pass by kind."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.PipelineDuration, err = m.Float64Histogram("shuddhi.pipeline.duration",
		metric.WithDescription("End-to-end correction run latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.ProviderRequests, err = m.Int64Counter("shuddhi.provider.requests",
		metric.WithDescription("Total grammar provider API requests by provider, op, and status."),
	); err != nil {
		return nil, err
	}
	if met.CorrectionsApplied, err = m.Int64Counter("shuddhi.corrections.applied",
		metric.WithDescription("Total corrections emitted by source and type."),
	); err != nil {
		return nil, err
	}
	if met.DictionaryFallbacks, err = m.Int64Counter("shuddhi.dictionary.fallbacks",
		metric.WithDescription("Total runs served from the static fallback dictionary."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.ProviderErrors, err = m.Int64Counter("shuddhi.provider.errors",
		metric.WithDescription("Total grammar provider errors by provider and op."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveRuns, err = m.Int64UpDownCounter("shuddhi.active_runs",
		metric.WithDescription("Number of correction runs in flight."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("shuddhi.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordPassDuration records one pipeline pass's latency in seconds, tagged
// with the pass kind.
func (m *Metrics) RecordPassDuration(ctx context.Context, kind string, seconds float64) {
	m.PassDuration.Record(ctx, seconds,
		metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordProviderRequest is a convenience method that records a provider
// request counter increment with the standard attribute set.
func (m *Metrics) RecordProviderRequest(ctx context.Context, provider, op, status string) {
	m.ProviderRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("op", op),
			attribute.String("status", status),
		),
	)
}

// RecordProviderError is a convenience method that records a provider error
// counter increment.
func (m *Metrics) RecordProviderError(ctx context.Context, provider, op string) {
	m.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("op", op),
		),
	)
}

// RecordCorrections records n corrections emitted by one pass.
func (m *Metrics) RecordCorrections(ctx context.Context, source, ctype string, n int64) {
	if n == 0 {
		return
	}
	m.CorrectionsApplied.Add(ctx, n,
		metric.WithAttributes(
			attribute.String("source", source),
			attribute.String("type", ctype),
		),
	)
}

// RecordDictionaryFallback records one run served from the static fallback
// list.
func (m *Metrics) RecordDictionaryFallback(ctx context.Context) {
	m.DictionaryFallbacks.Add(ctx, 1)
}
