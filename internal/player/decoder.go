package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

const bytesPerSample = 2 // all decoders emit s16le

// audioDecoder is implemented by all format-specific decoders. Read yields
// interleaved s16le PCM; Length and Seek are in output bytes.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
	ChannelCount() int
}

// openDecoder picks a decoder by file extension.
func openDecoder(f *os.File) (audioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// pcmState is the bookkeeping shared by decoders that convert source samples
// to s16le: converted bytes not yet handed out and the output position.
type pcmState struct {
	pending  []byte
	pos      int64
	length   int64
	channels int
}

// drain serves p from pending bytes. ok is false when nothing was pending.
func (s *pcmState) drain(p []byte) (n int, ok bool) {
	if len(s.pending) == 0 {
		return 0, false
	}
	n = copy(p, s.pending)
	s.pending = s.pending[n:]
	s.pos += int64(n)
	return n, true
}

// deliver copies raw into p and keeps the rest for the next Read.
func (s *pcmState) deliver(p, raw []byte) int {
	n := copy(p, raw)
	if n < len(raw) {
		s.pending = raw[n:]
	}
	s.pos += int64(n)
	return n
}

// resolve turns a Seek request into a clamped output position.
func (s *pcmState) resolve(offset int64, whence int) int64 {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = s.pos + offset
	case io.SeekEnd:
		next = s.length + offset
	}
	return min(max(next, 0), s.length)
}

func (s *pcmState) moved(pos int64) {
	s.pending = nil
	s.pos = pos
}

func (s *pcmState) frameBytes() int64 {
	return int64(s.channels) * bytesPerSample
}

func clamp16(v int) int16 {
	return int16(min(max(v, -32768), 32767))
}

func putSample(raw []byte, i int, v int16) {
	binary.LittleEndian.PutUint16(raw[i*bytesPerSample:], uint16(v))
}

// --- MP3 ---

// mp3Decoder passes go-mp3 output through; it is always 16-bit stereo.
type mp3Decoder struct {
	dec *mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{dec: dec}, nil
}

func (d *mp3Decoder) Read(p []byte) (int, error) { return d.dec.Read(p) }
func (d *mp3Decoder) Seek(offset int64, whence int) (int64, error) {
	return d.dec.Seek(offset, whence)
}
func (d *mp3Decoder) Length() int64     { return d.dec.Length() }
func (d *mp3Decoder) SampleRate() int   { return d.dec.SampleRate() }
func (d *mp3Decoder) ChannelCount() int { return 2 }

// --- WAV ---

type wavDecoder struct {
	pcmState
	file       *os.File
	pcmStart   int64 // file offset of the first PCM byte
	sampleRate int
	srcDepth   int
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	depth := int(dec.BitDepth)
	switch depth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported WAV bit depth: %d", depth)
	}
	if channels < 1 {
		return nil, fmt.Errorf("invalid WAV channel count: %d", channels)
	}

	pcmStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating WAV PCM data: %w", err)
	}

	srcFrame := int64(channels * depth / 8)
	return &wavDecoder{
		pcmState: pcmState{
			length:   dec.PCMLen() / srcFrame * int64(channels) * bytesPerSample,
			channels: channels,
		},
		file:       f,
		pcmStart:   pcmStart,
		sampleRate: int(dec.SampleRate),
		srcDepth:   depth,
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}
	if d.pos >= d.length {
		return 0, io.EOF
	}

	srcWidth := d.srcDepth / 8
	samples := min(max(len(p)/bytesPerSample, 1), int((d.length-d.pos)/bytesPerSample))
	src := make([]byte, samples*srcWidth)
	n, err := io.ReadFull(d.file, src)
	samples = n / srcWidth
	if samples == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, samples*bytesPerSample)
	for i := range samples {
		b := src[i*srcWidth:]
		var v int
		switch d.srcDepth {
		case 8:
			v = (int(b[0]) - 128) << 8 // 8-bit WAV is unsigned
		case 16:
			v = int(int16(binary.LittleEndian.Uint16(b)))
		case 24:
			s := int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16
			v = int(s >> 8)
		case 32:
			v = int(int32(binary.LittleEndian.Uint32(b)) >> 16)
		}
		putSample(raw, i, clamp16(v))
	}

	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return d.deliver(p, raw), err
}

func (d *wavDecoder) Seek(offset int64, whence int) (int64, error) {
	next := d.resolve(offset, whence)
	frame := next / d.frameBytes()
	srcPos := frame * int64(d.channels*d.srcDepth/8)
	if _, err := d.file.Seek(d.pcmStart+srcPos, io.SeekStart); err != nil {
		return d.pos, err
	}
	d.moved(frame * d.frameBytes())
	return d.pos, nil
}

func (d *wavDecoder) Length() int64     { return d.length }
func (d *wavDecoder) SampleRate() int   { return d.sampleRate }
func (d *wavDecoder) ChannelCount() int { return d.channels }

// --- FLAC ---

type flacDecoder struct {
	pcmState
	stream     *flac.Stream
	sampleRate int
	bps        int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	channels := int(info.NChannels)
	return &flacDecoder{
		pcmState: pcmState{
			length:   int64(info.NSamples) * int64(channels) * bytesPerSample,
			channels: channels,
		},
		stream:     stream,
		sampleRate: int(info.SampleRate),
		bps:        int(info.BitsPerSample),
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	n := int(frame.Subframes[0].NSamples)
	raw := make([]byte, n*d.channels*bytesPerSample)
	for i := range n {
		for ch := range d.channels {
			v := int(frame.Subframes[ch].Samples[i])
			if d.bps > 16 {
				v >>= d.bps - 16
			} else if d.bps < 16 {
				v <<= 16 - d.bps
			}
			putSample(raw, i*d.channels+ch, clamp16(v))
		}
	}
	return d.deliver(p, raw), nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	next := d.resolve(offset, whence)
	sample, err := d.stream.Seek(uint64(next / d.frameBytes()))
	if err != nil {
		return d.pos, err
	}
	d.moved(int64(sample) * d.frameBytes())
	return d.pos, nil
}

func (d *flacDecoder) Length() int64     { return d.length }
func (d *flacDecoder) SampleRate() int   { return d.sampleRate }
func (d *flacDecoder) ChannelCount() int { return d.channels }

// --- Ogg Vorbis ---

type oggDecoder struct {
	pcmState
	reader  *oggvorbis.Reader
	samples []float32
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	channels := reader.Channels()
	return &oggDecoder{
		pcmState: pcmState{
			length:   reader.Length() * int64(channels) * bytesPerSample,
			channels: channels,
		},
		reader: reader,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	want := max(len(p)/bytesPerSample, d.channels)
	if cap(d.samples) < want {
		d.samples = make([]float32, want)
	}
	n, err := d.reader.Read(d.samples[:want])
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*bytesPerSample)
	for i, s := range d.samples[:n] {
		putSample(raw, i, int16(min(max(s, -1), 1)*32767))
	}
	return d.deliver(p, raw), err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	next := d.resolve(offset, whence)
	frame := next / d.frameBytes()
	if err := d.reader.SetPosition(frame); err != nil {
		return d.pos, err
	}
	d.moved(frame * d.frameBytes())
	return d.pos, nil
}

func (d *oggDecoder) Length() int64     { return d.length }
func (d *oggDecoder) SampleRate() int   { return d.reader.SampleRate() }
func (d *oggDecoder) ChannelCount() int { return d.channels }
