package player

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// PCMObserver receives a copy of every chunk of PCM handed to the audio
// output. Reset is called whenever playback jumps.
type PCMObserver interface {
	ObservePCM(pcm []byte, channels int)
	Reset()
}

// tapReader sits between the decoder and oto. It tracks the playback
// position in bytes and shows each chunk to the observer.
type tapReader struct {
	mu       sync.Mutex
	reader   io.Reader
	pos      int64
	observer PCMObserver
	channels int
}

func (tr *tapReader) Read(p []byte) (int, error) {
	n, err := tr.reader.Read(p)
	if n > 0 && tr.observer != nil {
		tr.observer.ObservePCM(p[:n], tr.channels)
	}
	tr.mu.Lock()
	tr.pos += int64(n)
	tr.mu.Unlock()
	return n, err
}

func (tr *tapReader) Pos() int64 {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.pos
}

func (tr *tapReader) SetPos(pos int64) {
	tr.mu.Lock()
	tr.pos = pos
	tr.mu.Unlock()
	if tr.observer != nil {
		tr.observer.Reset()
	}
}

// Player plays one local audio file and feeds what it plays to an observer.
type Player struct {
	file        *os.File
	decoder     audioDecoder
	counter     *tapReader
	otoCtx      *oto.Context
	otoPlayer   *oto.Player
	bytesPerSec int64
	duration    time.Duration
	volume      float64
	paused      bool
	done        chan struct{}
	stopMon     chan struct{}
	cleanup     func()
	mu          sync.Mutex
	closed      bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   outputRate,
			ChannelCount: outputChannels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// New opens path and starts playing it at the given volume. observer may be
// nil.
func New(path string, observer PCMObserver, volume float64) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src, err := openDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	dec, err := newResampler(src)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("preparing playback: %w", err)
	}

	ctx, err := initOto()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening audio output: %w", err)
	}

	p := &Player{
		file:        f,
		decoder:     dec,
		counter:     &tapReader{reader: dec, observer: observer, channels: outputChannels},
		otoCtx:      ctx,
		bytesPerSec: int64(outputRate * outputFrameSize),
		volume:      clampVolume(volume),
		done:        make(chan struct{}),
		stopMon:     make(chan struct{}),
	}
	p.duration = bytesToDuration(dec.Length(), p.bytesPerSec)
	p.cleanup = func() { f.Close() }

	p.otoPlayer = ctx.NewPlayer(p.counter)
	p.otoPlayer.SetVolume(p.volume)
	p.otoPlayer.Play()

	go p.monitor()

	return p, nil
}

func (p *Player) monitor() {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopMon:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		finished := !p.paused && p.counter.Pos() >= p.decoder.Length()
		p.mu.Unlock()
		if finished {
			close(p.done)
			return
		}
	}
}

// Done returns a channel that closes when playback reaches the end.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// TogglePause toggles between play and pause. The observer is reset on
// pause so the meter falls to silence.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.paused {
		if p.otoPlayer != nil {
			p.otoPlayer.Play()
		}
		p.paused = false
		return
	}
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	p.paused = true
	if p.counter != nil && p.counter.observer != nil {
		p.counter.observer.Reset()
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	return bytesToDuration(p.counter.Pos(), p.bytesPerSec)
}

// Duration returns the total duration of the track.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// Seek moves playback by delta from the current position.
func (p *Player) Seek(delta time.Duration) error {
	return p.SeekTo(p.Position() + delta)
}

// SeekTo moves playback to target, clamped to the track and aligned to a
// frame boundary.
func (p *Player) SeekTo(target time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	newPos := clampSeekByteOffset(target, p.bytesPerSec, p.decoder.Length(), outputFrameSize)
	if _, err := p.decoder.Seek(newPos, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to %s: %w", target, err)
	}
	p.counter.SetPos(newPos)

	// A fresh oto player drops whatever the old one had buffered.
	if p.otoCtx != nil {
		p.otoPlayer.Pause()
		p.otoPlayer = p.otoCtx.NewPlayer(p.counter)
		p.otoPlayer.SetVolume(p.volume)
		if !p.paused {
			p.otoPlayer.Play()
		}
	}
	return nil
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = clampVolume(v)
	if p.otoPlayer != nil {
		p.otoPlayer.SetVolume(p.volume)
	}
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v)
}

// Close stops playback and releases the file. It is safe to call more than
// once.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.stopMon != nil {
		close(p.stopMon)
	}
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	if p.cleanup != nil {
		p.cleanup()
	}
}

func clampSeekByteOffset(target time.Duration, bytesPerSec, length, frameSize int64) int64 {
	pos := int64(target.Seconds() * float64(bytesPerSec))
	pos = min(max(pos, 0), length)
	return pos - pos%frameSize
}

func clampVolume(v float64) float64 {
	return min(max(v, 0), 1)
}

func bytesToDuration(n, bytesPerSec int64) time.Duration {
	if bytesPerSec <= 0 {
		return 0
	}
	return time.Duration(float64(n) / float64(bytesPerSec) * float64(time.Second))
}
