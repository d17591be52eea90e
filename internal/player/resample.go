package player

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	outputRate      = 48000
	outputChannels  = 2
	outputFrameSize = outputChannels * bytesPerSample
)

// resampler presents any audioDecoder as 48 kHz stereo s16le, the only
// format the shared oto context is opened with. Rates are converted by
// linear interpolation between neighbouring source frames.
type resampler struct {
	src          audioDecoder
	passthrough  bool
	srcRate      int
	srcChannels  int
	srcFrameSize int
	srcFrames    int64
	outFrames    int64

	br      *bufio.Reader
	frame   []byte
	outPos  int64 // next output frame
	nextSrc int64 // index of the next source frame to read
	a, b    [outputChannels]int16
}

func newResampler(src audioDecoder) (audioDecoder, error) {
	rate := src.SampleRate()
	if rate <= 0 {
		return nil, fmt.Errorf("unsupported sample rate: %d", rate)
	}
	channels := src.ChannelCount()
	if channels < 1 {
		return nil, fmt.Errorf("unsupported channel count: %d", channels)
	}
	if rate == outputRate && channels == outputChannels {
		return &resampler{src: src, passthrough: true}, nil
	}

	frameSize := channels * bytesPerSample
	srcFrames := src.Length() / int64(frameSize)
	return &resampler{
		src:          src,
		srcRate:      rate,
		srcChannels:  channels,
		srcFrameSize: frameSize,
		srcFrames:    srcFrames,
		outFrames:    srcFrames * outputRate / int64(rate),
		br:           bufio.NewReaderSize(src, 64*1024),
		frame:        make([]byte, frameSize),
	}, nil
}

func (r *resampler) SampleRate() int   { return outputRate }
func (r *resampler) ChannelCount() int { return outputChannels }

func (r *resampler) Length() int64 {
	if r.passthrough {
		return r.src.Length()
	}
	return r.outFrames * outputFrameSize
}

func (r *resampler) Read(p []byte) (int, error) {
	if r.passthrough {
		return r.src.Read(p)
	}
	if r.outPos >= r.outFrames {
		return 0, io.EOF
	}
	if len(p) < outputFrameSize {
		return 0, io.ErrShortBuffer
	}

	n := 0
	for n+outputFrameSize <= len(p) && r.outPos < r.outFrames {
		num := r.outPos * int64(r.srcRate)
		if err := r.advanceTo(num / outputRate); err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		frac := num % outputRate
		for ch := range outputChannels {
			binary.LittleEndian.PutUint16(p[n+ch*bytesPerSample:], uint16(lerp16(r.a[ch], r.b[ch], frac)))
		}
		n += outputFrameSize
		r.outPos++
	}
	return n, nil
}

// advanceTo loads source frames idx and idx+1 into a and b. On the last
// source frame both hold the same samples.
func (r *resampler) advanceTo(idx int64) error {
	for r.nextSrc < idx+2 && r.nextSrc < r.srcFrames {
		f, err := r.readFrame()
		if err != nil {
			return err
		}
		r.a, r.b = r.b, f
		r.nextSrc++
	}
	if r.nextSrc == idx+1 {
		r.a = r.b
	}
	return nil
}

// readFrame reads one source frame and folds it to stereo: mono is
// duplicated, extra channels are averaged into left (even) and right (odd).
func (r *resampler) readFrame() ([outputChannels]int16, error) {
	var out [outputChannels]int16
	if _, err := io.ReadFull(r.br, r.frame); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return out, err
	}

	if r.srcChannels == 1 {
		s := int16(binary.LittleEndian.Uint16(r.frame))
		return [outputChannels]int16{s, s}, nil
	}

	var sum [outputChannels]int32
	var count [outputChannels]int32
	for ch := range r.srcChannels {
		s := int16(binary.LittleEndian.Uint16(r.frame[ch*bytesPerSample:]))
		sum[ch%outputChannels] += int32(s)
		count[ch%outputChannels]++
	}
	for ch := range outputChannels {
		out[ch] = int16(sum[ch] / count[ch])
	}
	return out, nil
}

func (r *resampler) Seek(offset int64, whence int) (int64, error) {
	if r.passthrough {
		return r.src.Seek(offset, whence)
	}

	length := r.Length()
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = r.outPos*outputFrameSize + offset
	case io.SeekEnd:
		next = length + offset
	default:
		return r.outPos * outputFrameSize, fmt.Errorf("invalid seek whence: %d", whence)
	}
	next = min(max(next, 0), length)

	outFrame := next / outputFrameSize
	srcFrame := outFrame * int64(r.srcRate) / outputRate
	if _, err := r.src.Seek(srcFrame*int64(r.srcFrameSize), io.SeekStart); err != nil {
		return r.outPos * outputFrameSize, err
	}
	r.br.Reset(r.src)
	r.outPos = outFrame
	r.nextSrc = srcFrame
	return outFrame * outputFrameSize, nil
}

// lerp16 interpolates frac/outputRate of the way from a to b.
func lerp16(a, b int16, frac int64) int16 {
	if frac == 0 || a == b {
		return a
	}
	diff := int64(b) - int64(a)
	return int16(int64(a) + diff*frac/outputRate)
}
