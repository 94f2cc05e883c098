// SPDX-License-Identifier: EPL-2.0

package engine_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/engine"
	"github.com/ik5/audplay/equalizer"
	"github.com/ik5/audplay/formats/wav"
	"github.com/ik5/audplay/internal/outputtest"
	"github.com/ik5/audplay/output"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// writeWAV stores one second of a quiet mono tone.
func writeWAV(t *testing.T, name string) string {
	t.Helper()

	samples := make([]int16, 8000)
	for i := range samples {
		samples[i] = 1000
	}

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wav.WriteWAV16(f, samples, 8000, 1))
	require.NoError(t, f.Close())

	return path
}

func newController(t *testing.T, open func() (output.Device, error)) *engine.Controller {
	t.Helper()

	registry := audio.NewRegistry()
	registry.Register("wav", wav.Decoder{})

	ctl, err := engine.New(engine.Options{
		OpenDevice:   open,
		Registry:     registry,
		Logger:       zaptest.NewLogger(t),
		PollInterval: 5 * time.Millisecond,
	})
	require.NoError(t, err)

	return ctl
}

func TestController_PlayPauseStop(t *testing.T) {
	t.Parallel()

	dev := outputtest.NewDevice(8000, 2)
	ctl := newController(t, dev.Open)
	defer ctl.Close()

	require.NoError(t, ctl.Play(writeWAV(t, "a.wav")))
	assert.Eventually(t, ctl.IsPlaying, time.Second, time.Millisecond)

	require.NoError(t, ctl.Pause())
	assert.Eventually(t, ctl.IsPaused, time.Second, time.Millisecond)
	assert.False(t, ctl.IsPlaying())

	require.NoError(t, ctl.Stop())
	assert.Eventually(t, func() bool {
		return !ctl.IsPaused() && !ctl.State().Playing()
	}, time.Second, time.Millisecond)
	assert.Zero(t, ctl.Position())
}

func TestController_EqualizerVisibleImmediately(t *testing.T) {
	t.Parallel()

	dev := outputtest.NewDevice(8000, 2)
	ctl := newController(t, dev.Open)
	defer ctl.Close()

	require.NoError(t, ctl.SetEqBand(0, 6))
	require.NoError(t, ctl.SetEqPreamp(-3))

	assert.Eventually(t, func() bool {
		st := ctl.EqualizerSettings()
		return st.Bands[0].GainDB == 6 && st.PreampDB == -3
	}, time.Second, time.Millisecond)
	assert.Equal(t, equalizer.CustomPreset, ctl.EqualizerSettings().PresetName)

	rock, ok := equalizer.PresetByName("rock")
	require.True(t, ok)
	require.NoError(t, ctl.ApplyPreset(rock))
	assert.Eventually(t, func() bool {
		return ctl.EqualizerSettings().PresetName == rock.Name
	}, time.Second, time.Millisecond)

	bands := [equalizer.BandCount]float32{1.5, -2, 0, 3.25, -7}
	require.NoError(t, ctl.SetEqPreset(bands, -1.5, "Mine"))
	assert.Eventually(t, func() bool {
		return ctl.EqualizerSettings().PresetName == "Mine"
	}, time.Second, time.Millisecond)

	st := ctl.EqualizerSettings()
	assert.Equal(t, bands, st.Gains())
	assert.Equal(t, float32(-1.5), st.PreampDB)
}

func TestController_DeviceInitFailure(t *testing.T) {
	t.Parallel()

	ctl := newController(t, outputtest.Failing)

	select {
	case <-ctl.Done():
	case <-time.After(time.Second):
		t.Fatal("render goroutine did not exit")
	}

	var initErr *engine.DeviceInitError
	require.ErrorAs(t, ctl.Err(), &initErr)
	assert.ErrorIs(t, ctl.Err(), outputtest.ErrOpen)

	assert.ErrorIs(t, ctl.Play("song.wav"), engine.ErrClosed, "no one is left to run commands")
	assert.False(t, ctl.IsPlaying())
	assert.NoError(t, ctl.Close())
}

func TestController_SendAfterClose(t *testing.T) {
	t.Parallel()

	dev := outputtest.NewDevice(8000, 2)
	ctl := newController(t, dev.Open)

	require.NoError(t, ctl.Close())
	require.NoError(t, ctl.Close(), "close is idempotent")

	assert.ErrorIs(t, ctl.Pause(), engine.ErrClosed)
	assert.ErrorIs(t, ctl.Send(engine.Stop{}), engine.ErrClosed)
	assert.NoError(t, ctl.Err())
}

func TestController_ConcurrentSenders(t *testing.T) {
	t.Parallel()

	dev := outputtest.NewDevice(8000, 2)
	ctl := newController(t, dev.Open)
	defer ctl.Close()

	done := make(chan struct{})
	for i := range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := range 50 {
				_ = ctl.SetEqBand((i+j)%equalizer.BandCount, float32(j%12))
			}
		}()
	}
	for range 8 {
		<-done
	}

	assert.Eventually(t, func() bool {
		return ctl.Equalizer().Version() == 400
	}, time.Second, time.Millisecond)
}
