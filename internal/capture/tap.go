package capture

import (
	"encoding/binary"
	"log/slog"
	"sync"
	"sync/atomic"
)

const bytesPerSample = 2

// Tap observes the interleaved s16le PCM that is about to be played, mixes
// it down to mono and turns it into analysis frames and meter readings.
// Frames are delivered on a buffered channel; when the consumer falls behind
// frames are dropped rather than stalling playback.
type Tap struct {
	mu      sync.Mutex
	framer  *Framer
	meter   *Meter
	frames  chan []int16
	carry   []byte
	mono    []int16
	closed  bool
	dropped atomic.Uint64
	logger  *slog.Logger
}

// NewTap creates a Tap whose frame channel holds up to backlog frames.
func NewTap(meter *Meter, backlog int, logger *slog.Logger) *Tap {
	if backlog < 1 {
		backlog = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tap{
		framer: NewFramer(),
		meter:  meter,
		frames: make(chan []int16, backlog),
		logger: logger,
	}
}

// Frames returns the channel of analysis frames. It is closed by Close.
func (t *Tap) Frames() <-chan []int16 {
	return t.frames
}

// Dropped returns how many frames were discarded because the consumer was busy.
func (t *Tap) Dropped() uint64 {
	return t.dropped.Load()
}

// ObservePCM consumes a chunk of interleaved s16le PCM with the given channel
// count. Chunks may split samples; the remainder is kept for the next call.
func (t *Tap) ObservePCM(pcm []byte, channels int) {
	if channels < 1 || len(pcm) == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	data := pcm
	if len(t.carry) > 0 {
		data = append(t.carry, pcm...)
	}
	frameBytes := channels * bytesPerSample
	whole := len(data) / frameBytes * frameBytes
	t.mono = downmix(t.mono[:0], data[:whole], channels)
	// data may alias carry, so the remainder is saved after mixing.
	t.carry = append(t.carry[:0], data[whole:]...)
	if len(t.mono) == 0 {
		return
	}

	t.framer.Push(t.mono, t.emit)
}

func (t *Tap) emit(frame []int16) {
	t.meter.Observe(frame)
	select {
	case t.frames <- frame:
	default:
		if t.dropped.Add(1)%100 == 1 {
			t.logger.Debug("analysis frame dropped", "total", t.dropped.Load())
		}
	}
}

// Reset discards partial input and reports silence, e.g. after a pause or seek.
func (t *Tap) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.carry = t.carry[:0]
	t.framer.Reset()
	t.meter.Reset()
}

// Close stops the Tap and closes the frame channel.
func (t *Tap) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	close(t.frames)
}

// downmix averages interleaved s16le channels into dst.
func downmix(dst []int16, pcm []byte, channels int) []int16 {
	frameBytes := channels * bytesPerSample
	for off := 0; off+frameBytes <= len(pcm); off += frameBytes {
		var sum int32
		for ch := range channels {
			sum += int32(int16(binary.LittleEndian.Uint16(pcm[off+ch*bytesPerSample:])))
		}
		dst = append(dst, int16(sum/int32(channels)))
	}
	return dst
}
