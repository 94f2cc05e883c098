// SPDX-License-Identifier: EPL-2.0

// Package store persists equalizer settings in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/ik5/audplay/equalizer"
)

const schema = `CREATE TABLE IF NOT EXISTS eq_settings (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	enabled     INTEGER NOT NULL DEFAULT 1,
	preamp_db   REAL    NOT NULL DEFAULT 0,
	band1_gain  REAL    NOT NULL DEFAULT 0,
	band2_gain  REAL    NOT NULL DEFAULT 0,
	band3_gain  REAL    NOT NULL DEFAULT 0,
	band4_gain  REAL    NOT NULL DEFAULT 0,
	band5_gain  REAL    NOT NULL DEFAULT 0,
	preset_name TEXT    NOT NULL DEFAULT 'Flat'
)`

// SQLite keeps the single equalizer settings row.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the database at path.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		schema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init settings db: %w", err)
		}
	}

	return &SQLite{db: db}, nil
}

// Load returns the stored settings. ok is false when nothing was saved
// yet. Band layout comes from equalizer.DefaultBands; only gains are
// stored.
func (s *SQLite) Load(ctx context.Context) (settings equalizer.Settings, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings = equalizer.DefaultSettings()
	var gains [equalizer.BandCount]float64
	var enabled int
	var preamp float64

	err = s.db.QueryRowContext(ctx, `SELECT enabled, preamp_db,
		band1_gain, band2_gain, band3_gain, band4_gain, band5_gain, preset_name
		FROM eq_settings WHERE id = 1`).
		Scan(&enabled, &preamp, &gains[0], &gains[1], &gains[2], &gains[3], &gains[4], &settings.PresetName)
	if errors.Is(err, sql.ErrNoRows) {
		return equalizer.DefaultSettings(), false, nil
	}
	if err != nil {
		return equalizer.DefaultSettings(), false, fmt.Errorf("load equalizer settings: %w", err)
	}

	settings.Enabled = enabled != 0
	settings.PreampDB = float32(preamp)
	for i, g := range gains {
		settings.Bands[i].GainDB = float32(g)
	}

	return settings, true, nil
}

// Save writes settings, replacing any previous row.
func (s *SQLite) Save(ctx context.Context, settings equalizer.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	enabled := 0
	if settings.Enabled {
		enabled = 1
	}
	g := settings.Gains()

	_, err := s.db.ExecContext(ctx, `INSERT INTO eq_settings
		(id, enabled, preamp_db, band1_gain, band2_gain, band3_gain, band4_gain, band5_gain, preset_name)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			enabled=excluded.enabled,
			preamp_db=excluded.preamp_db,
			band1_gain=excluded.band1_gain,
			band2_gain=excluded.band2_gain,
			band3_gain=excluded.band3_gain,
			band4_gain=excluded.band4_gain,
			band5_gain=excluded.band5_gain,
			preset_name=excluded.preset_name`,
		enabled, float64(settings.PreampDB),
		float64(g[0]), float64(g[1]), float64(g[2]), float64(g[3]), float64(g[4]),
		settings.PresetName)
	if err != nil {
		return fmt.Errorf("save equalizer settings: %w", err)
	}

	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
