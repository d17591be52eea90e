package player

import (
	"errors"
	"io"
	"testing"
	"time"
)

type stubSeekDecoder struct {
	pos        int64
	length     int64
	sampleRate int
	channels   int
	seekErr    error
}

func (d *stubSeekDecoder) Read([]byte) (int, error) { return 0, io.EOF }

func (d *stubSeekDecoder) Seek(offset int64, whence int) (int64, error) {
	if d.seekErr != nil {
		return d.pos, d.seekErr
	}
	switch whence {
	case io.SeekStart:
		d.pos = offset
	case io.SeekCurrent:
		d.pos += offset
	case io.SeekEnd:
		d.pos = d.length + offset
	}
	return d.pos, nil
}

func (d *stubSeekDecoder) Length() int64     { return d.length }
func (d *stubSeekDecoder) SampleRate() int   { return d.sampleRate }
func (d *stubSeekDecoder) ChannelCount() int { return d.channels }

type recordingObserver struct {
	chunks   int
	bytes    int
	channels int
	resets   int
}

func (o *recordingObserver) ObservePCM(pcm []byte, channels int) {
	o.chunks++
	o.bytes += len(pcm)
	o.channels = channels
}

func (o *recordingObserver) Reset() { o.resets++ }

func TestClampSeekByteOffsetClampsAndAligns(t *testing.T) {
	got := clampSeekByteOffset(3900*time.Millisecond, 10, 10, 4)
	if got != 8 {
		t.Fatalf("expected clamped aligned seek offset 8, got %d", got)
	}

	got = clampSeekByteOffset(-1*time.Second, 10, 100, 4)
	if got != 0 {
		t.Fatalf("expected negative seek to clamp to 0, got %d", got)
	}
}

func TestSeekToClampsAlignsAndResetsObserver(t *testing.T) {
	dec := &stubSeekDecoder{length: 41, sampleRate: outputRate, channels: 2}
	obs := &recordingObserver{}
	p := &Player{
		decoder:     dec,
		counter:     &tapReader{observer: obs},
		bytesPerSec: 10,
	}

	if err := p.SeekTo(3900 * time.Millisecond); err != nil {
		t.Fatalf("SeekTo returned error: %v", err)
	}
	if dec.pos != 36 {
		t.Fatalf("expected decoder seek position 36, got %d", dec.pos)
	}
	if got := p.counter.Pos(); got != 36 {
		t.Fatalf("expected counter position 36, got %d", got)
	}
	if obs.resets != 1 {
		t.Fatalf("expected observer reset once, got %d", obs.resets)
	}
}

func TestSeekToReportsDecoderError(t *testing.T) {
	dec := &stubSeekDecoder{length: 100, seekErr: errors.New("boom")}
	p := &Player{decoder: dec, counter: &tapReader{}, bytesPerSec: 10}

	if err := p.SeekTo(time.Second); err == nil {
		t.Fatal("expected seek error")
	}
	if got := p.counter.Pos(); got != 0 {
		t.Fatalf("counter moved on failed seek: %d", got)
	}
}

func TestTapReaderForwardsChunks(t *testing.T) {
	obs := &recordingObserver{}
	data := make([]byte, 4096)
	tr := &tapReader{reader: &stubPCMDecoder{data: data}, observer: obs, channels: 2}

	n, err := io.Copy(io.Discard, tr)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if n != int64(len(data)) || obs.bytes != len(data) {
		t.Fatalf("read %d bytes, observer saw %d, want %d", n, obs.bytes, len(data))
	}
	if obs.channels != 2 {
		t.Fatalf("observer channels = %d, want 2", obs.channels)
	}
	if tr.Pos() != int64(len(data)) {
		t.Fatalf("Pos() = %d, want %d", tr.Pos(), len(data))
	}
}

func TestTogglePauseResetsObserver(t *testing.T) {
	obs := &recordingObserver{}
	p := &Player{counter: &tapReader{observer: obs}}

	p.TogglePause()
	if !p.Paused() || obs.resets != 1 {
		t.Fatalf("paused=%v resets=%d, want paused with one reset", p.Paused(), obs.resets)
	}
	p.TogglePause()
	if p.Paused() || obs.resets != 1 {
		t.Fatalf("paused=%v resets=%d, want playing with one reset", p.Paused(), obs.resets)
	}
}

func TestVolumeClamps(t *testing.T) {
	p := &Player{volume: 0.8}
	p.AdjustVolume(0.5)
	if p.Volume() != 1 {
		t.Fatalf("Volume() = %v, want 1", p.Volume())
	}
	p.SetVolume(-3)
	if p.Volume() != 0 {
		t.Fatalf("Volume() = %v, want 0", p.Volume())
	}
}

func TestPlayerCloseRunsCleanupOnce(t *testing.T) {
	calls := 0
	p := &Player{
		stopMon: make(chan struct{}),
		cleanup: func() {
			calls++
		},
	}

	p.Close()
	p.Close()

	if calls != 1 {
		t.Fatalf("expected cleanup to run once, got %d", calls)
	}
}

func TestMetadataLabel(t *testing.T) {
	if got := (Metadata{Title: "Song"}).Label(); got != "Song" {
		t.Fatalf("Label() = %q", got)
	}
	if got := (Metadata{Title: "Song", Artist: "Band"}).Label(); got != "Band - Song" {
		t.Fatalf("Label() = %q", got)
	}
}

func TestReadMetadataFallsBackToFileName(t *testing.T) {
	m := ReadMetadata("/music/some track.flac")
	if m.Title != "some track" {
		t.Fatalf("Title = %q, want %q", m.Title, "some track")
	}
}
