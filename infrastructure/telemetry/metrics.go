// Package telemetry provides OpenTelemetry metrics for the selection
// pipeline.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordSelection(ctx context.Context, mode, method string, ambiguous bool, duration time.Duration)
	RecordStageDuration(ctx context.Context, stage string, duration time.Duration)
	RecordPolicyFiltered(ctx context.Context, tool, kind string)
	RecordTieBreak(ctx context.Context, provider string, success bool, duration time.Duration)
	RecordCatalogReload(ctx context.Context, success bool, tools int)
	RecordError(ctx context.Context, errorType string)
}

// MetricsProvider records pipeline metrics on the global meter provider.
type MetricsProvider struct {
	meter metric.Meter

	selections     metric.Int64Counter
	policyFiltered metric.Int64Counter
	tieBreaks      metric.Int64Counter
	catalogReloads metric.Int64Counter
	errors         metric.Int64Counter

	selectionDuration metric.Float64Histogram
	stageDuration     metric.Float64Histogram
	tieBreakDuration  metric.Float64Histogram

	initErr error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the instrumentation scope name.
	MeterName string
	// MeterVersion is the instrumentation scope version.
	MeterVersion string
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/selector-go",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config = DefaultMetricsConfig()
	}

	meter := otel.GetMeterProvider().Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{meter: meter}
	mp.initErr = mp.initInstruments()
	return mp
}

func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.selections, err = mp.meter.Int64Counter(
		"selector.selections",
		metric.WithDescription("Number of completed selections"),
		metric.WithUnit("{selection}"),
	)
	if err != nil {
		return err
	}

	mp.policyFiltered, err = mp.meter.Int64Counter(
		"selector.policy.filtered",
		metric.WithDescription("Candidates removed by policy enforcement"),
		metric.WithUnit("{candidate}"),
	)
	if err != nil {
		return err
	}

	mp.tieBreaks, err = mp.meter.Int64Counter(
		"selector.oracle.tiebreaks",
		metric.WithDescription("Number of oracle tie-break calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return err
	}

	mp.catalogReloads, err = mp.meter.Int64Counter(
		"selector.catalog.reloads",
		metric.WithDescription("Number of catalog reload attempts"),
		metric.WithUnit("{reload}"),
	)
	if err != nil {
		return err
	}

	mp.errors, err = mp.meter.Int64Counter(
		"selector.errors",
		metric.WithDescription("Number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	mp.selectionDuration, err = mp.meter.Float64Histogram(
		"selector.selection.duration",
		metric.WithDescription("End to end selection duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.stageDuration, err = mp.meter.Float64Histogram(
		"selector.stage.duration",
		metric.WithDescription("Per stage pipeline duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.tieBreakDuration, err = mp.meter.Float64Histogram(
		"selector.oracle.duration",
		metric.WithDescription("Oracle tie-break round trip duration"),
		metric.WithUnit("ms"),
	)
	return err
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordSelection records one completed selection.
func (mp *MetricsProvider) RecordSelection(ctx context.Context, mode, method string, ambiguous bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("selection.mode", mode),
		attribute.String("selection.method", method),
		attribute.Bool("selection.ambiguous", ambiguous),
	}
	mp.selections.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.selectionDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordStageDuration records one pipeline stage duration.
func (mp *MetricsProvider) RecordStageDuration(ctx context.Context, stage string, duration time.Duration) {
	mp.stageDuration.Record(ctx, float64(duration.Milliseconds()),
		metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordPolicyFiltered records a candidate removed by policy.
func (mp *MetricsProvider) RecordPolicyFiltered(ctx context.Context, tool, kind string) {
	mp.policyFiltered.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool.name", tool),
		attribute.String("violation.kind", kind),
	))
}

// RecordTieBreak records an oracle tie-break attempt.
func (mp *MetricsProvider) RecordTieBreak(ctx context.Context, provider string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("oracle.provider", provider),
		attribute.Bool("success", success),
	}
	mp.tieBreaks.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.tieBreakDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordCatalogReload records a catalog reload attempt.
func (mp *MetricsProvider) RecordCatalogReload(ctx context.Context, success bool, tools int) {
	mp.catalogReloads.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("success", success),
		attribute.Int("tools", tools),
	))
}

// RecordError records an error.
func (mp *MetricsProvider) RecordError(ctx context.Context, errorType string) {
	mp.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("error.type", errorType)))
}

// NoopMetrics is a no-op recorder for tests or disabled metrics.
type NoopMetrics struct{}

func (NoopMetrics) RecordSelection(context.Context, string, string, bool, time.Duration) {}
func (NoopMetrics) RecordStageDuration(context.Context, string, time.Duration)           {}
func (NoopMetrics) RecordPolicyFiltered(context.Context, string, string)                 {}
func (NoopMetrics) RecordTieBreak(context.Context, string, bool, time.Duration)          {}
func (NoopMetrics) RecordCatalogReload(context.Context, bool, int)                       {}
func (NoopMetrics) RecordError(context.Context, string)                                  {}

var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = NoopMetrics{}
)
