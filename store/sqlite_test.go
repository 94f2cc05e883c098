// SPDX-License-Identifier: EPL-2.0

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audplay/equalizer"
)

func openTemp(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.db")
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, path
}

func TestSQLite_LoadEmpty(t *testing.T) {
	t.Parallel()

	db, _ := openTemp(t)

	got, ok, err := db.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, equalizer.DefaultSettings(), got)
}

func TestSQLite_SaveLoad(t *testing.T) {
	t.Parallel()

	db, _ := openTemp(t)
	ctx := context.Background()

	want := equalizer.DefaultSettings()
	want.Enabled = false
	want.PreampDB = -3.5
	want.PresetName = "Rock"
	for i, g := range []float32{5, 3, -1, 3, 5} {
		want.Bands[i].GainDB = g
	}

	require.NoError(t, db.Save(ctx, want))

	got, ok, err := db.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestSQLite_SaveReplaces(t *testing.T) {
	t.Parallel()

	db, _ := openTemp(t)
	ctx := context.Background()

	first := equalizer.DefaultSettings()
	first.PresetName = "First"
	require.NoError(t, db.Save(ctx, first))

	second := equalizer.DefaultSettings()
	second.PresetName = equalizer.CustomPreset
	second.Bands[2].GainDB = 7
	require.NoError(t, db.Save(ctx, second))

	var rows int
	require.NoError(t, db.db.QueryRow(`SELECT COUNT(*) FROM eq_settings`).Scan(&rows))
	assert.Equal(t, 1, rows)

	got, _, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestSQLite_SingleRow(t *testing.T) {
	t.Parallel()

	db, _ := openTemp(t)

	_, err := db.db.Exec(`INSERT INTO eq_settings (id) VALUES (2)`)
	assert.Error(t, err, "only row id 1 is allowed")
}

func TestSQLite_Reopen(t *testing.T) {
	t.Parallel()

	db, path := openTemp(t)
	ctx := context.Background()

	want := equalizer.DefaultSettings()
	want.PreampDB = 2
	require.NoError(t, db.Save(ctx, want))
	require.NoError(t, db.Close())

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()

	got, ok, err := again.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
