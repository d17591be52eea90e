// Package monitor connects the capture side to the display side. The
// producer goroutine runs frames through the bander; the UI pulls snapshots,
// which advance the hue once per new bar vector.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/olivier-w/flashlight/internal/hue"
	"github.com/olivier-w/flashlight/internal/observe"
	"github.com/olivier-w/flashlight/internal/spectral"
	"github.com/olivier-w/flashlight/internal/torch"
)

// sidesDivisor turns the bar total into a polygon side count.
const sidesDivisor = 50

// VolumeSource reports the current metered volume in dB.
type VolumeSource interface {
	Volume() float32
}

// Options configures a Monitor. Volume and Torch are required.
type Options struct {
	Volume  VolumeSource
	Torch   *torch.Settings
	Metrics *observe.Metrics // optional
	Logger  *slog.Logger     // optional
}

// Snapshot is everything the display needs for one refresh.
type Snapshot struct {
	Bars       spectral.Bars
	Generation uint64
	Hue        float32
	Color      hue.Color
	Volume     float32
	Threshold  float32
	Strict     bool
	Torch      torch.Level
	Overlay    float32
	Sides      float32
}

// Monitor owns the bander and hue tracker for one session.
type Monitor struct {
	bander  *spectral.Bander
	tracker *hue.Tracker
	volume  VolumeSource
	torch   *torch.Settings
	metrics *observe.Metrics
	logger  *slog.Logger

	mu     sync.Mutex
	seen   uint64 // bander generation last fed to the tracker
	lastOn bool
}

// New creates a Monitor with a fresh bander and a tracker at hue.Initial.
func New(opts Options) *Monitor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		bander:  spectral.NewBander(),
		tracker: hue.NewTracker(),
		volume:  opts.Volume,
		torch:   opts.Torch,
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// Torch returns the settings the monitor evaluates the torch with.
func (m *Monitor) Torch() *torch.Settings {
	return m.torch
}

// Run analyses frames until the channel is closed or ctx is done.
func (m *Monitor) Run(ctx context.Context, frames <-chan []int16) error {
	m.logger.Debug("monitor started")
	defer m.logger.Debug("monitor stopped")
	for {
		select {
		case <-ctx.Done():
			return nil
		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			if err := m.Analyze(ctx, frame); err != nil {
				m.logger.Warn("frame skipped", "err", err)
			}
		}
	}
}

// Analyze computes the bars of one frame.
func (m *Monitor) Analyze(ctx context.Context, frame []int16) error {
	start := time.Now()
	_, err := m.bander.ComputeBars(frame)
	if err != nil {
		if m.metrics != nil && errors.Is(err, spectral.ErrFrameLength) {
			m.metrics.RecordRejected(ctx, "frame_length")
		}
		return err
	}
	if m.metrics != nil {
		m.metrics.RecordFrame(ctx, time.Since(start))
	}
	return nil
}

// Snapshot reads the latest bars and derives the display state from them.
// The hue moves only when the bars are newer than the previous snapshot's.
func (m *Monitor) Snapshot() Snapshot {
	bars, gen := m.bander.Latest()

	m.mu.Lock()
	defer m.mu.Unlock()

	h := m.tracker.Hue()
	fresh := gen != m.seen
	if fresh {
		h = m.tracker.Update(bars[:])
		m.seen = gen
	}

	volume := m.volume.Volume()
	threshold := m.torch.Threshold()
	level := m.torch.Level(volume)
	turnedOn := level.On && !m.lastOn
	m.lastOn = level.On

	if m.metrics != nil && (fresh || turnedOn) {
		m.metrics.RecordOutputs(context.Background(), float64(h)*360, float64(level.Intensity), turnedOn)
	}

	return Snapshot{
		Bars:       bars,
		Generation: gen,
		Hue:        h,
		Color:      hue.DisplayColor(h),
		Volume:     volume,
		Threshold:  threshold,
		Strict:     m.torch.Strict(),
		Torch:      level,
		Overlay:    torch.OverlayOpacity(volume, threshold),
		Sides:      PolygonSides(bars),
	}
}

// PolygonSides is the side count of the pulsing shape: the bar total over 50.
func PolygonSides(bars spectral.Bars) float32 {
	return bars.Sum() / sidesDivisor
}
