// SPDX-License-Identifier: EPL-2.0

package equalizer

import (
	"fmt"
	"time"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/dsp"
)

// Stage applies the equalizer to the source it wraps.
//
// Per sample it multiplies by the preamp, runs the five band filters in
// series on that channel's memory and soft clips the result. Coefficients
// are refreshed from the Store at the first channel of a frame, and only
// when the store version moved.
type Stage struct {
	src        audio.Source
	store      *Store
	sampleRate int
	channels   int

	coeffs  [BandCount]dsp.Coeffs
	states  [][BandCount]dsp.State
	preamp  float64
	enabled bool

	version uint64
	channel int
}

// NewStage wraps src. Settings are read once here; later changes are
// picked up through the store version.
func NewStage(src audio.Source, store *Store) *Stage {
	s := &Stage{
		src:        src,
		store:      store,
		sampleRate: src.SampleRate(),
		channels:   max(src.Channels(), 1),
	}
	s.states = make([][BandCount]dsp.State, s.channels)

	s.version = store.Version()
	s.apply(store.Snapshot())

	return s
}

func (s *Stage) SampleRate() int { return s.sampleRate }
func (s *Stage) Channels() int   { return s.src.Channels() }
func (s *Stage) BufSize() int    { return s.src.BufSize() }

func (s *Stage) Close() error {
	if err := s.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// Seek forwards to the wrapped source and always clears the filter memory,
// whether or not the source could seek.
func (s *Stage) Seek(pos time.Duration) error {
	err := audio.Seek(s.src, pos)
	s.Reset()

	return err
}

// Reset zeroes every filter and restarts the channel counter.
func (s *Stage) Reset() {
	for ch := range s.states {
		for b := range s.states[ch] {
			s.states[ch][b].Reset()
		}
	}
	s.channel = 0
}

func (s *Stage) apply(st Settings) {
	wasEnabled := s.enabled

	s.coeffs = st.Coefficients(s.sampleRate)
	s.preamp = dsp.DBToLinear(float64(st.PreampDB))
	s.enabled = st.Enabled

	if wasEnabled && !s.enabled {
		for ch := range s.states {
			for b := range s.states[ch] {
				s.states[ch][b].Reset()
			}
		}
	}
}

// refresh picks up new settings when the version moved. When the lock is
// busy the previous coefficients stay and the next frame retries.
func (s *Stage) refresh() {
	v := s.store.Version()
	if v == s.version {
		return
	}

	st, ok := s.store.TrySnapshot()
	if !ok {
		return
	}

	s.version = v
	s.apply(st)
}

func (s *Stage) ReadSamples(dst []float32) (int, error) {
	n, err := s.src.ReadSamples(dst)

	for i := range n {
		if s.channel == 0 {
			s.refresh()
		}
		ch := s.channel
		s.channel++
		if s.channel == s.channels {
			s.channel = 0
		}

		if !s.enabled {
			continue
		}

		v := float64(dst[i]) * s.preamp
		state := &s.states[ch]
		for b := range BandCount {
			v = state[b].Process(&s.coeffs[b], v)
		}
		dst[i] = float32(dsp.SoftClip(v))
	}

	return n, err
}
