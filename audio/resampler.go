// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/ik5/audplay/utils"
)

// blockFrames is how many source frames the resampler pulls per refill.
const blockFrames = 1024

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// A playback speed factor scales the step through the source, so speed
// changes shift pitch the same way a tape would.
// Includes basic anti-aliasing filtering when downsampling.
type Resampler struct {
	src      Source
	srcRate  float64
	dstRate  float64
	ratio    float64 // srcRate / dstRate - how many source frames per output frame at speed 1
	channels int

	speed atomic.Uint64 // math.Float64bits of the speed factor

	// Ring buffer holding 4 frames for cubic interpolation
	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames   [4][]float32
	hasFrame [4]bool
	primed   bool

	// Fractional position between frames[1] and frames[2]
	pos float64

	// Block of source samples and the read cursor into it
	srcBuf []float32
	srcPos int
	srcLen int
	eof    bool

	// Simple low-pass filter state for anti-aliasing (when downsampling)
	filterState []float32
	useFilter   bool
	filterAlpha float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	// Enable simple low-pass filter when downsampling
	useFilter := ratio > 1.0
	var filterAlpha float32
	if useFilter {
		// One-pole low-pass with cutoff near the destination Nyquist.
		filterAlpha = 0.5
	}

	r := &Resampler{
		src:         src,
		srcRate:     float64(src.SampleRate()),
		dstRate:     float64(dstRate),
		ratio:       ratio,
		channels:    channels,
		srcBuf:      make([]float32, blockFrames*channels),
		useFilter:   useFilter,
		filterAlpha: filterAlpha,
		filterState: make([]float32, channels),
	}
	r.speed.Store(math.Float64bits(1))

	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// Speed returns the current playback speed factor.
func (r *Resampler) Speed() float64 {
	return math.Float64frombits(r.speed.Load())
}

// SetSpeed changes the playback speed factor. It is safe to call while
// another goroutine reads samples. Non-positive values are ignored.
func (r *Resampler) SetSpeed(speed float64) {
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return
	}
	r.speed.Store(math.Float64bits(speed))
}

// Seek repositions the source and restarts interpolation at the new position.
func (r *Resampler) Seek(pos time.Duration) error {
	if err := Seek(r.src, pos); err != nil {
		return err
	}

	r.primed = false
	r.pos = 0
	r.srcPos, r.srcLen = 0, 0
	r.eof = false
	for i := range r.hasFrame {
		r.hasFrame[i] = false
	}
	clear(r.filterState)

	return nil
}

// nextFrame copies the next source frame into dst. It reports false once
// the source is exhausted.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	for r.srcPos >= r.srcLen {
		if r.eof {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.srcBuf)
		r.srcPos = 0
		r.srcLen = n - n%r.channels
		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}
	}

	copy(dst, r.srcBuf[r.srcPos:r.srcPos+r.channels])
	r.srcPos += r.channels

	if r.useFilter {
		for c := range r.channels {
			// One-pole low-pass: y[n] = alpha * x[n] + (1-alpha) * y[n-1]
			dst[c] = r.filterAlpha*dst[c] + (1-r.filterAlpha)*r.filterState[c]
			r.filterState[c] = dst[c]
		}
	}

	return true, nil
}

// prime fills the ring so that frames[1] holds the first source frame.
func (r *Resampler) prime() error {
	ok, err := r.nextFrame(r.frames[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}

	// Initialize filter state with first frame to avoid warm-up transients
	if r.useFilter {
		copy(r.filterState, r.frames[1])
	}

	copy(r.frames[0], r.frames[1])
	r.hasFrame[0], r.hasFrame[1] = true, true

	for i := 2; i < 4; i++ {
		ok, err := r.nextFrame(r.frames[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.frames[i], r.frames[i-1])
		}
		r.hasFrame[i] = ok
	}

	r.primed = true

	return nil
}

// advance shifts the ring by one frame: [0,1,2,3] -> [1,2,3,next]
func (r *Resampler) advance() error {
	copy(r.frames[0], r.frames[1])
	copy(r.frames[1], r.frames[2])
	copy(r.frames[2], r.frames[3])
	r.hasFrame[0] = r.hasFrame[1]
	r.hasFrame[1] = r.hasFrame[2]
	r.hasFrame[2] = r.hasFrame[3]

	ok, err := r.nextFrame(r.frames[3])
	if err != nil {
		return err
	}
	if !ok {
		// Duplicate the edge frame so interpolation stays bounded
		copy(r.frames[3], r.frames[2])
	}
	r.hasFrame[3] = ok

	return nil
}

// ReadSamples produces dst samples at r.dstRate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	step := r.ratio * r.Speed()
	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.hasFrame[1] {
			// Source exhausted
			return written * r.channels, io.EOF
		}

		alpha := float32(r.pos)
		base := written * r.channels

		for c := range r.channels {
			dst[base+c] = utils.CubicInterpolate(
				r.frames[0][c], r.frames[1][c], r.frames[2][c], r.frames[3][c], alpha)
		}

		written++
		r.pos += step
	}

	return written * r.channels, nil
}
