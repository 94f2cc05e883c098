// SPDX-License-Identifier: EPL-2.0

package visualizer

import (
	"fmt"
	"math"
	"time"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/dsp"
)

const (
	bandQ = 1.4

	// windowSeconds is the span of audio each published level covers.
	windowSeconds = 0.046

	// levelGain maps typical music RMS onto the [0, 1] display range.
	levelGain = 8.0
)

// Analyzer passes its source through unchanged while measuring the energy
// of the first channel in each band.
type Analyzer struct {
	src      audio.Source
	levels   *Levels
	channels int

	coeffs [BandCount]dsp.Coeffs
	states [BandCount]dsp.State
	energy [BandCount]float64

	window  int
	count   int
	channel int
}

func NewAnalyzer(src audio.Source, levels *Levels) *Analyzer {
	sr := float64(src.SampleRate())
	a := &Analyzer{
		src:      src,
		levels:   levels,
		channels: max(src.Channels(), 1),
		window:   max(int(sr*windowSeconds), 1),
	}

	for i, f := range Frequencies {
		if f >= sr/2 {
			a.coeffs[i] = dsp.Identity()
			continue
		}
		a.coeffs[i] = dsp.Bandpass(f, bandQ, sr)
	}

	return a
}

func (a *Analyzer) SampleRate() int { return a.src.SampleRate() }
func (a *Analyzer) Channels() int   { return a.src.Channels() }
func (a *Analyzer) BufSize() int    { return a.src.BufSize() }

func (a *Analyzer) Close() error {
	if err := a.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// Seek forwards to the source and restarts the measurement window.
func (a *Analyzer) Seek(pos time.Duration) error {
	err := audio.Seek(a.src, pos)
	a.Reset()

	return err
}

// Reset clears filter memory and the partial window.
func (a *Analyzer) Reset() {
	for i := range a.states {
		a.states[i].Reset()
	}
	a.energy = [BandCount]float64{}
	a.count = 0
	a.channel = 0
}

func (a *Analyzer) ReadSamples(dst []float32) (int, error) {
	n, err := a.src.ReadSamples(dst)

	for i := range n {
		ch := a.channel
		a.channel++
		if a.channel == a.channels {
			a.channel = 0
		}
		if ch != 0 {
			continue
		}

		x := float64(dst[i])
		for b := range BandCount {
			y := a.states[b].Process(&a.coeffs[b], x)
			a.energy[b] += y * y
		}

		a.count++
		if a.count >= a.window {
			a.publish()
		}
	}

	return n, err
}

func (a *Analyzer) publish() {
	for b := range BandCount {
		rms := math.Sqrt(a.energy[b] / float64(a.count))
		a.levels.Set(b, float32(min(rms*levelGain, 1)))
		a.energy[b] = 0
	}
	a.count = 0
}
