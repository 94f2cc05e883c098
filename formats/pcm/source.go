// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	goaudio "github.com/go-audio/audio"
)

var (
	ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")
	// ErrNotSkippable is returned by SkipBytes when the chunk reader does
	// not track its remaining length.
	ErrNotSkippable = errors.New("PCM chunk reader cannot skip")
)

// Reader is the part of a go-audio decoder a Source reads from.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// FrameSkipper is implemented by readers that can move forward without
// decoding the frames in between.
type FrameSkipper interface {
	SkipFrames(frames int64) error
}

// OpenFunc builds a fresh Reader positioned at the first PCM frame of rs,
// which has been rewound to its start.
type OpenFunc func(rs io.ReadSeeker) (Reader, error)

// Source adapts a go-audio integer PCM decoder to audio.Source. Seeking
// rewinds the stream, reopens the decoder and skips to the target frame,
// by cursor when the reader is a FrameSkipper and by decoding otherwise.
type Source struct {
	rs   io.ReadSeeker
	open OpenFunc
	dec  Reader

	sampleRate int
	channels   int
	scale      float32
	buf        *goaudio.IntBuffer
}

// NewSource wraps dec, which was opened from rs with open.
func NewSource(rs io.ReadSeeker, open OpenFunc, dec Reader, sampleRate, channels, bitDepth int) (*Source, error) {
	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	return &Source{
		rs:         rs,
		open:       open,
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
		scale:      scale,
	}, nil
}

func fullScale(bitDepth int) (float32, error) {
	switch bitDepth {
	case 16:
		return 1 << 15, nil
	case 24:
		return 1 << 23, nil
	case 32:
		return 1 << 31, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Close() error    { return nil }
func (s *Source) BufSize() int {
	if s.buf != nil {
		return cap(s.buf.Data)
	}
	return 4096
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := s.read(len(dst))
	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, err
		}
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v) / s.scale
	}

	if err == io.EOF {
		err = nil
	}
	return n, err
}

func (s *Source) read(samples int) (int, error) {
	if s.buf == nil || cap(s.buf.Data) < samples {
		s.buf = &goaudio.IntBuffer{
			Data:   make([]int, samples),
			Format: s.dec.Format(),
		}
	} else {
		s.buf.Data = s.buf.Data[:samples]
	}

	return s.dec.PCMBuffer(s.buf)
}

// Seek moves to the frame at pos. A position past the end leaves the
// source exhausted.
func (s *Source) Seek(pos time.Duration) error {
	if pos < 0 {
		pos = 0
	}

	if _, err := s.rs.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind: %w", err)
	}
	dec, err := s.open(s.rs)
	if err != nil {
		return fmt.Errorf("reopen: %w", err)
	}
	s.dec = dec

	frames := int64(pos.Seconds() * float64(s.sampleRate))
	if sk, ok := dec.(FrameSkipper); ok {
		if err := sk.SkipFrames(frames); err != nil {
			return fmt.Errorf("skip: %w", err)
		}
		return nil
	}

	skip := int(frames) * s.channels
	for skip > 0 {
		n, err := s.read(min(skip, 4096-4096%s.channels))
		if n == 0 || err != nil {
			break
		}
		skip -= n
	}

	return nil
}

// SkipBytes moves the stream behind a go-audio PCM chunk forward by n
// bytes. chunk is the chunk's reader, a limit over s. The skip stops at
// the end of the chunk.
func SkipBytes(s io.Seeker, chunk io.Reader, n int64) error {
	lr, ok := chunk.(*io.LimitedReader)
	if !ok {
		return ErrNotSkippable
	}

	n = min(max(n, 0), lr.N)
	if _, err := s.Seek(n, io.SeekCurrent); err != nil {
		return err
	}
	lr.N -= n

	return nil
}

// ReadSeeker returns r as an io.ReadSeeker, buffering it in memory when it
// cannot seek.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
