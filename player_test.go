// SPDX-License-Identifier: EPL-2.0

package audplay

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/ik5/audplay/config"
	"github.com/ik5/audplay/equalizer"
	"github.com/ik5/audplay/internal/outputtest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestPlayer(t *testing.T, cfg config.Config) *Player {
	t.Helper()

	dev := outputtest.NewDevice(cfg.Output.SampleRate, cfg.Output.Channels)
	p, err := NewPlayer(context.Background(), cfg, zaptest.NewLogger(t), PlayerOptions{OpenDevice: dev.Open})
	require.NoError(t, err)

	return p
}

func TestPlayer_SettingsRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.SettingsDB = filepath.Join(t.TempDir(), "settings.db")

	p := newTestPlayer(t, cfg)
	assert.Equal(t, equalizer.DefaultSettings(), p.EqualizerSettings())

	require.NoError(t, p.SetEqBand(1, 4))
	require.NoError(t, p.SetEqPreamp(-2))
	require.Eventually(t, func() bool {
		return p.EqualizerSettings().PreampDB == -2
	}, time.Second, time.Millisecond)

	require.NoError(t, p.SaveSettings(context.Background()))
	saved := p.EqualizerSettings()
	require.NoError(t, p.Close())

	again := newTestPlayer(t, cfg)
	defer again.Close()

	assert.Equal(t, saved, again.EqualizerSettings())
	assert.Equal(t, equalizer.CustomPreset, again.EqualizerSettings().PresetName)
}

func TestPlayer_SeedsFromConfig(t *testing.T) {
	t.Parallel()

	off := false
	cfg := config.Default()
	cfg.Equalizer = &config.Equalizer{Preset: "rock", Enabled: &off}

	p := newTestPlayer(t, cfg)
	defer p.Close()

	got := p.EqualizerSettings()
	rock, _ := equalizer.PresetByName("Rock")
	assert.Equal(t, rock.Bands, got.Gains())
	assert.Equal(t, rock.PreampDB, got.PreampDB)
	assert.Equal(t, "Rock", got.PresetName)
	assert.False(t, got.Enabled)
}

func TestPlayer_SavedSettingsWinOverConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.SettingsDB = filepath.Join(t.TempDir(), "settings.db")

	p := newTestPlayer(t, cfg)
	require.NoError(t, p.SetEqPreamp(3))
	require.Eventually(t, func() bool {
		return p.EqualizerSettings().PreampDB == 3
	}, time.Second, time.Millisecond)
	require.NoError(t, p.SaveSettings(context.Background()))
	require.NoError(t, p.Close())

	cfg.Equalizer = &config.Equalizer{Preset: "pop"}
	again := newTestPlayer(t, cfg)
	defer again.Close()

	assert.Equal(t, float32(3), again.EqualizerSettings().PreampDB)
}

func TestPlayer_ApplyConfig(t *testing.T) {
	t.Parallel()

	p := newTestPlayer(t, config.Default())
	defer p.Close()

	on := true
	cfg := config.Default()
	cfg.Equalizer = &config.Equalizer{Bands: []float32{1, 1, 1, 1, 1}, PreampDB: -1, Enabled: &on}

	require.NoError(t, p.ApplyConfig(cfg))
	assert.Eventually(t, func() bool {
		st := p.EqualizerSettings()
		return st.Gains() == [equalizer.BandCount]float32{1, 1, 1, 1, 1} && st.PreampDB == -1
	}, time.Second, time.Millisecond)

	require.NoError(t, p.ApplyConfig(config.Default()), "no equalizer section is a no-op")
}

func TestPlayer_SaveWithoutDB(t *testing.T) {
	t.Parallel()

	p := newTestPlayer(t, config.Default())
	defer p.Close()

	assert.ErrorIs(t, p.SaveSettings(context.Background()), ErrNoSettingsDB)
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"aiff", "mp3", "ogg", "wav"}, DefaultRegistry().Formats())

	for _, name := range []string{"a.wav", "a.WAVE", "a.mp3", "a.ogg", "a.oga", "a.aif", "a.aiff"} {
		_, err := DefaultRegistry().Lookup(name)
		assert.NoError(t, err, name)
	}
}
