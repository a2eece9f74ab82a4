package observe_test

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/readcoach-ai/readcoach/internal/observe"
)

// collect gathers all metric names currently recorded on the reader.
func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]bool {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	names := make(map[string]bool)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			names[m.Name] = true
		}
	}
	return names
}

func TestRecordAnalysis_Success(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	m.RecordAnalysis(context.Background(), 2*time.Millisecond, "ok", 85, 3)

	names := collect(t, reader)
	for _, want := range []string{
		"readcoach.analysis.duration",
		"readcoach.analysis.count",
		"readcoach.analysis.overall_score",
		"readcoach.analysis.problem_words",
	} {
		if !names[want] {
			t.Errorf("metric %q not recorded; got %v", want, names)
		}
	}
}

func TestRecordAnalysis_FailureSkipsScore(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	m.RecordAnalysis(context.Background(), time.Millisecond, "invalid", 0, 0)

	names := collect(t, reader)
	if !names["readcoach.analysis.count"] {
		t.Errorf("count not recorded for failed analysis")
	}
	if names["readcoach.analysis.overall_score"] {
		t.Errorf("score recorded for a failed analysis")
	}
}
