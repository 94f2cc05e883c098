// SPDX-License-Identifier: EPL-2.0

package engine

import "sync/atomic"

// State is the playback status shared with readers on other goroutines.
// Position is only meaningful while Playing is true.
type State struct {
	playing    atomic.Bool
	paused     atomic.Bool
	positionMS atomic.Uint64
}

// Playing reports whether a track is loaded and has not ended, paused or not.
func (s *State) Playing() bool { return s.playing.Load() }

// Paused reports whether playback is paused.
func (s *State) Paused() bool { return s.paused.Load() }

// PositionMS is the playback position in milliseconds.
func (s *State) PositionMS() uint64 { return s.positionMS.Load() }

// Position is the playback position in seconds.
func (s *State) Position() float64 {
	return float64(s.positionMS.Load()) / 1000
}

// IsPlaying reports whether audio is audibly advancing.
func (s *State) IsPlaying() bool {
	return s.playing.Load() && !s.paused.Load()
}

func (s *State) reset() {
	s.playing.Store(false)
	s.paused.Store(false)
	s.positionMS.Store(0)
}
