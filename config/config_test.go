// SPDX-License-Identifier: EPL-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/ik5/audplay/equalizer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Overlay(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
output:
  sample_rate: 48000
  buffer: 40ms
engine:
  poll_interval: 50ms
log:
  level: debug
settings_db: /tmp/eq.db
equalizer:
  enabled: false
  preamp_db: -2
  bands: [1, 2, 3, 4, 5]
`))
	require.NoError(t, err)

	assert.Equal(t, 48000, cfg.Output.SampleRate)
	assert.Equal(t, 2, cfg.Output.Channels, "unset keys keep defaults")
	assert.Equal(t, 40*time.Millisecond, cfg.Output.Buffer)
	assert.Equal(t, 50*time.Millisecond, cfg.Engine.PollInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "/tmp/eq.db", cfg.SettingsDB)

	require.NotNil(t, cfg.Equalizer)
	require.NotNil(t, cfg.Equalizer.Enabled)
	assert.False(t, *cfg.Equalizer.Enabled)

	p, err := cfg.Equalizer.Resolve()
	require.NoError(t, err)
	assert.Equal(t, equalizer.Preset{
		Name:     equalizer.CustomPreset,
		Bands:    [equalizer.BandCount]float32{1, 2, 3, 4, 5},
		PreampDB: -2,
	}, p)
}

func TestParse_NamedPreset(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("equalizer:\n  preset: bass boost\n"))
	require.NoError(t, err)

	p, err := cfg.Equalizer.Resolve()
	require.NoError(t, err)

	want, ok := equalizer.PresetByName("Bass Boost")
	require.True(t, ok)
	assert.Equal(t, want, p)
	assert.Nil(t, cfg.Equalizer.Enabled, "enabled untouched when omitted")
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{name: "low rate", yaml: "output: {sample_rate: 100}"},
		{name: "channels", yaml: "output: {channels: 0}"},
		{name: "negative buffer", yaml: "output: {buffer: -1s}"},
		{name: "poll", yaml: "engine: {poll_interval: 0s}"},
		{name: "level", yaml: "log: {level: loud}"},
		{name: "format", yaml: "log: {format: xml}"},
		{name: "preset", yaml: "equalizer: {preset: nope}"},
		{name: "band count", yaml: "equalizer: {bands: [1, 2]}"},
		{name: "band range", yaml: "equalizer: {bands: [1, 2, 30, 4, 5]}"},
		{name: "preamp range", yaml: "equalizer: {preamp_db: -13}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParse_UnknownKey(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("outptu: {sample_rate: 48000}"))
	assert.Error(t, err)
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcher_Reload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audplay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: {level: info}\n"), 0o600))

	changes := make(chan Config, 8)
	w, err := Watch(path, zaptest.NewLogger(t), func(c Config) { changes <- c })
	require.NoError(t, err)
	defer w.Close()

	// an invalid version is skipped
	require.NoError(t, os.WriteFile(path, []byte("log: {level: loud}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("x: 1"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("log: {level: error}\n"), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.Log.Level == "error" {
				require.NoError(t, w.Close())
				require.NoError(t, w.Close())
				return
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}
