// SPDX-License-Identifier: EPL-2.0

package visualizer

import (
	"math"
	"sync/atomic"
)

// BandCount is the number of analysis bands.
const BandCount = 10

// Frequencies are the band centers in Hz.
var Frequencies = [BandCount]float64{32, 64, 125, 250, 500, 1000, 2000, 4000, 8000, 16000}

// Levels publishes the latest band levels. Any goroutine may read while
// the analyzer writes; each band is an independent atomic.
type Levels struct {
	bands [BandCount]atomic.Uint32
}

func NewLevels() *Levels {
	return &Levels{}
}

// Set stores the level of band i.
func (l *Levels) Set(i int, v float32) {
	l.bands[i].Store(math.Float32bits(v))
}

// Get returns the level of band i.
func (l *Levels) Get(i int) float32 {
	return math.Float32frombits(l.bands[i].Load())
}

// Snapshot returns every band level in [0, 1].
func (l *Levels) Snapshot() [BandCount]float32 {
	var out [BandCount]float32
	for i := range out {
		out[i] = l.Get(i)
	}
	return out
}

// Reset zeroes every band.
func (l *Levels) Reset() {
	for i := range l.bands {
		l.bands[i].Store(0)
	}
}
