// SPDX-License-Identifier: EPL-2.0

package equalizer

import (
	"errors"
	"sync"
	"sync/atomic"
)

var ErrBandOutOfRange = errors.New("equalizer band out of range")

// Store holds the live equalizer settings.
//
// Writers mutate under the write lock and then bump the version. Readers on
// the audio path compare Version against the value they last saw and only
// take a snapshot when it moved, so the common case is a single atomic load.
type Store struct {
	mu       sync.RWMutex
	settings Settings
	version  atomic.Uint64
}

func NewStore(initial Settings) *Store {
	return &Store{settings: initial}
}

// Version returns the change counter. It only ever grows.
func (s *Store) Version() uint64 {
	return s.version.Load()
}

// Snapshot returns a copy of the current settings.
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings
}

// TrySnapshot is Snapshot without blocking. ok is false while a writer
// holds or waits for the lock.
func (s *Store) TrySnapshot() (Settings, bool) {
	if !s.mu.TryRLock() {
		return Settings{}, false
	}
	defer s.mu.RUnlock()

	return s.settings, true
}

func (s *Store) update(fn func(*Settings)) {
	s.mu.Lock()
	fn(&s.settings)
	s.mu.Unlock()

	s.version.Add(1)
}

// SetBand changes the gain of one band and marks the preset as custom.
func (s *Store) SetBand(band int, gainDB float32) error {
	if band < 0 || band >= BandCount {
		return ErrBandOutOfRange
	}

	s.update(func(st *Settings) {
		st.Bands[band].GainDB = gainDB
		st.PresetName = CustomPreset
	})

	return nil
}

func (s *Store) SetEnabled(enabled bool) {
	s.update(func(st *Settings) {
		st.Enabled = enabled
	})
}

// SetPreset applies gains, preamp and name exactly as given.
func (s *Store) SetPreset(bands [BandCount]float32, preampDB float32, name string) {
	s.update(func(st *Settings) {
		for i := range st.Bands {
			st.Bands[i].GainDB = bands[i]
		}
		st.PreampDB = preampDB
		st.PresetName = name
	})
}

func (s *Store) SetPreamp(preampDB float32) {
	s.update(func(st *Settings) {
		st.PreampDB = preampDB
	})
}

// Replace swaps in a complete settings value, e.g. one loaded from disk.
func (s *Store) Replace(settings Settings) {
	s.update(func(st *Settings) {
		*st = settings
	})
}
