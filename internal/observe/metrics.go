// Package observe exposes the analysis pipeline's OpenTelemetry metrics and
// an optional Prometheus scrape endpoint.
//
// Tests should build [Metrics] with [NewMetrics] and their own
// [metric.MeterProvider]; [DefaultMetrics] uses the global provider.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/olivier-w/flashlight"

// Metrics holds the instruments recorded by the monitor pipeline. All fields
// are safe for concurrent use.
type Metrics struct {
	// FramesAnalyzed counts frames turned into bars.
	FramesAnalyzed metric.Int64Counter

	// FramesRejected counts frames the bander refused. Use with attribute:
	//   attribute.String("reason", ...)
	FramesRejected metric.Int64Counter

	// BanderDuration tracks the time spent in one ComputeBars call.
	BanderDuration metric.Float64Histogram

	// Hue is the most recent hue in degrees.
	Hue metric.Float64Gauge

	// TorchLevel is the most recent torch intensity, 0 when off.
	TorchLevel metric.Float64Gauge

	// TorchOn counts off to on transitions of the torch.
	TorchOn metric.Int64Counter
}

// banderBuckets are histogram boundaries in seconds; one frame should take
// well under a millisecond.
var banderBuckets = []float64{
	0.00001, 0.000025, 0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01,
}

// NewMetrics creates all instruments using mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.FramesAnalyzed, err = m.Int64Counter("flashlight.frames.analyzed",
		metric.WithDescription("Frames folded into band energies."),
	); err != nil {
		return nil, err
	}
	if met.FramesRejected, err = m.Int64Counter("flashlight.frames.rejected",
		metric.WithDescription("Frames rejected by the bander, by reason."),
	); err != nil {
		return nil, err
	}
	if met.BanderDuration, err = m.Float64Histogram("flashlight.bander.duration",
		metric.WithDescription("Time to compute the bars of one frame."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(banderBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Hue, err = m.Float64Gauge("flashlight.hue",
		metric.WithDescription("Current display hue."),
		metric.WithUnit("deg"),
	); err != nil {
		return nil, err
	}
	if met.TorchLevel, err = m.Float64Gauge("flashlight.torch.level",
		metric.WithDescription("Current torch intensity, 0 when off."),
	); err != nil {
		return nil, err
	}
	if met.TorchOn, err = m.Int64Counter("flashlight.torch.on",
		metric.WithDescription("Times the torch switched from off to on."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a shared [Metrics] built on [otel.GetMeterProvider].
// Call it after [InitProvider] so the instruments reach the exporter.
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

// RecordFrame records one successful ComputeBars call.
func (m *Metrics) RecordFrame(ctx context.Context, took time.Duration) {
	m.FramesAnalyzed.Add(ctx, 1)
	m.BanderDuration.Record(ctx, took.Seconds())
}

// RecordRejected records a frame the bander refused.
func (m *Metrics) RecordRejected(ctx context.Context, reason string) {
	m.FramesRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordOutputs records the hue in degrees and the torch intensity. turnedOn
// marks an off to on transition.
func (m *Metrics) RecordOutputs(ctx context.Context, hueDegrees, torch float64, turnedOn bool) {
	m.Hue.Record(ctx, hueDegrees)
	m.TorchLevel.Record(ctx, torch)
	if turnedOn {
		m.TorchOn.Add(ctx, 1)
	}
}
