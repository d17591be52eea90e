package capture

import (
	"encoding/binary"
	"io"
	"log/slog"
	"testing"

	"github.com/olivier-w/flashlight/internal/spectral"
)

func pcm16(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDownmixAveragesChannels(t *testing.T) {
	got := downmix(nil, pcm16(100, 300, -200, -400, 7, 8), 2)
	want := []int16{200, -300, 7}
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestTapHandlesSplitSamples(t *testing.T) {
	tap := NewTap(NewMeter(), 4, discardLogger())

	stereo := make([]int16, 2*spectral.SampleCount)
	for i := range spectral.SampleCount {
		stereo[2*i] = int16(i)
		stereo[2*i+1] = int16(i)
	}
	raw := pcm16(stereo...)

	// Split at odd byte offsets so samples and sample frames straddle reads.
	tap.ObservePCM(raw[:3], 2)
	tap.ObservePCM(raw[3:1001], 2)
	tap.ObservePCM(raw[1001:], 2)

	select {
	case frame := <-tap.Frames():
		for i, v := range frame {
			if v != int16(i) {
				t.Fatalf("frame sample %d = %d, want %d", i, v, i)
			}
		}
	default:
		t.Fatal("expected one frame")
	}
	if tap.meter.Volume() <= spectral.DecibelFloor {
		t.Fatal("expected meter to register the frame")
	}
}

func TestTapDropsWhenConsumerIsBehind(t *testing.T) {
	tap := NewTap(NewMeter(), 1, discardLogger())
	mono := pcm16(make([]int16, 3*spectral.SampleCount)...)
	tap.ObservePCM(mono, 1)

	// 3072 samples yield 5 frames with a 512 hop; only one fits.
	if got := tap.Dropped(); got != 4 {
		t.Fatalf("expected 4 dropped frames, got %d", got)
	}
	if len(tap.Frames()) != 1 {
		t.Fatalf("expected one buffered frame, got %d", len(tap.Frames()))
	}
}

func TestTapCloseStopsDelivery(t *testing.T) {
	tap := NewTap(NewMeter(), 4, discardLogger())
	tap.Close()
	tap.Close()
	tap.ObservePCM(pcm16(make([]int16, 2*spectral.SampleCount)...), 1)

	if _, ok := <-tap.Frames(); ok {
		t.Fatal("expected closed channel")
	}
}

func TestTapResetClearsState(t *testing.T) {
	tap := NewTap(NewMeter(), 4, discardLogger())
	tap.ObservePCM(pcm16(constant(5000, 600)...), 1)
	tap.ObservePCM([]byte{1}, 1)
	tap.meter.Observe(constant(5000, 8))

	tap.Reset()
	if tap.framer.Pending() != 0 || len(tap.carry) != 0 {
		t.Fatal("expected empty buffers after reset")
	}
	if tap.meter.Volume() != spectral.DecibelFloor {
		t.Fatal("expected meter at floor after reset")
	}
}
