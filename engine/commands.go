// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/ik5/audplay/equalizer"

// Command is an instruction for the render goroutine. Commands are
// values; each one is handled exactly once, in submission order.
type Command interface {
	command()
}

// Play replaces whatever is playing with the file at Path.
type Play struct{ Path string }

// Pause toggles between paused and playing.
type Pause struct{}

// Stop discards the current track.
type Stop struct{}

// SetVolume sets the output volume, clamped to [0, 1].
type SetVolume struct{ Volume float32 }

// Seek jumps to Position seconds into the current track.
type Seek struct{ Position float64 }

// SetSpeed sets the playback speed factor, clamped to [0.25, 4].
type SetSpeed struct{ Speed float32 }

// PreloadNext names the track to continue with when the current one ends.
type PreloadNext struct{ Path string }

// SetEqBand sets one band gain, clamped to [-12, 12] dB.
type SetEqBand struct {
	Band   int
	GainDB float32
}

// SetEqEnabled switches the equalizer on or off.
type SetEqEnabled struct{ Enabled bool }

// SetEqPreset applies gains, preamp and name verbatim.
type SetEqPreset struct {
	Bands  [equalizer.BandCount]float32
	Preamp float32
	Name   string
}

// SetEqPreamp sets the preamp, clamped to [-12, 12] dB.
type SetEqPreamp struct{ PreampDB float32 }

func (Play) command()         {}
func (Pause) command()        {}
func (Stop) command()         {}
func (SetVolume) command()    {}
func (Seek) command()         {}
func (SetSpeed) command()     {}
func (PreloadNext) command()  {}
func (SetEqBand) command()    {}
func (SetEqEnabled) command() {}
func (SetEqPreset) command()  {}
func (SetEqPreamp) command()  {}
