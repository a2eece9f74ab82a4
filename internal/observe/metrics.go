// Package observe provides observability primitives for ReadCoach:
// OpenTelemetry metrics for the analysis engine, exported through a
// Prometheus bridge so the standard /metrics endpoint keeps working.
//
// A package-level default [Metrics] instance ([Default]) is provided for
// convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all ReadCoach metrics.
const meterName = "github.com/readcoach-ai/readcoach"

// Metrics holds all OpenTelemetry metric instruments for the service.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// AnalysisDuration tracks wall-clock latency of one analysis call.
	AnalysisDuration metric.Float64Histogram

	// Analyses counts analysis calls. Use with attribute:
	//   attribute.String("status", "ok" | "invalid" | "error")
	Analyses metric.Int64Counter

	// OverallScore records the distribution of overall scores handed out.
	OverallScore metric.Int64Histogram

	// ProblemWords records how many practice words each analysis produced.
	ProblemWords metric.Int64Histogram

	// InFlight tracks currently running analysis requests.
	InFlight metric.Int64UpDownCounter
}

// durationBuckets defines histogram bucket boundaries (in seconds) sized for
// a pure in-memory computation over short passages.
var durationBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1,
}

// scoreBuckets covers the normalized 0–100 score range.
var scoreBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.AnalysisDuration, err = m.Float64Histogram("readcoach.analysis.duration",
		metric.WithDescription("Latency of one reading analysis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Analyses, err = m.Int64Counter("readcoach.analysis.count",
		metric.WithDescription("Number of analysis calls, by status."),
	); err != nil {
		return nil, err
	}
	if met.OverallScore, err = m.Int64Histogram("readcoach.analysis.overall_score",
		metric.WithDescription("Distribution of overall scores."),
		metric.WithExplicitBucketBoundaries(scoreBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ProblemWords, err = m.Int64Histogram("readcoach.analysis.problem_words",
		metric.WithDescription("Number of practice words per analysis."),
	); err != nil {
		return nil, err
	}
	if met.InFlight, err = m.Int64UpDownCounter("readcoach.analysis.in_flight",
		metric.WithDescription("Currently running analysis requests."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// RecordAnalysis records one completed analysis: its latency, status, and —
// when the call succeeded — the score and practice-list size.
func (m *Metrics) RecordAnalysis(ctx context.Context, elapsed time.Duration, status string, overallScore, problemWords int) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.AnalysisDuration.Record(ctx, elapsed.Seconds(), attrs)
	m.Analyses.Add(ctx, 1, attrs)
	if status == "ok" {
		m.OverallScore.Record(ctx, int64(overallScore))
		m.ProblemWords.Record(ctx, int64(problemWords))
	}
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the shared [Metrics] instance built from the global OTel
// meter provider. Instruments on the global provider never fail to create;
// before [InitProvider] runs they are no-ops.
func Default() *Metrics {
	defaultOnce.Do(func() {
		m, err := NewMetrics(otel.GetMeterProvider())
		if err != nil {
			// The no-op provider cannot fail; a real provider failing here
			// means instrument names clash, which is a programming error.
			panic(err)
		}
		defaultMetrics = m
	})
	return defaultMetrics
}
