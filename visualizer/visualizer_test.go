// SPDX-License-Identifier: EPL-2.0

package visualizer

import (
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/internal/audiotest"
)

func tone(sampleRate, channels, frames int, freq, amp float64) *audiotest.MockSource {
	return audiotest.NewMockSource(sampleRate, channels, frames, func(sample, _ int) float32 {
		return float32(amp * math.Sin(2*math.Pi*freq*float64(sample)/float64(sampleRate)))
	})
}

func drain(t *testing.T, src audio.Source) []float32 {
	t.Helper()

	buf := make([]float32, 512)
	var out []float32
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
	}
}

func TestLevels(t *testing.T) {
	t.Parallel()

	l := NewLevels()
	l.Set(3, 0.75)

	assert.Equal(t, float32(0.75), l.Get(3))
	snap := l.Snapshot()
	assert.Equal(t, float32(0.75), snap[3])
	assert.Zero(t, snap[0])

	l.Reset()
	assert.Equal(t, [BandCount]float32{}, l.Snapshot())
}

func TestLevels_ConcurrentReadWrite(t *testing.T) {
	t.Parallel()

	l := NewLevels()
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 1000 {
			l.Set(i%BandCount, float32(i%100)/100)
		}
	}()
	go func() {
		defer wg.Done()
		for range 1000 {
			for _, v := range l.Snapshot() {
				if v < 0 || v > 1 {
					t.Errorf("level %v outside [0, 1]", v)
					return
				}
			}
		}
	}()
	wg.Wait()
}

func TestAnalyzer_PassesSamplesThrough(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(tone(44100, 2, 5000, 440, 0.5), NewLevels())

	assert.Equal(t, drain(t, tone(44100, 2, 5000, 440, 0.5)), drain(t, a))
	assert.Equal(t, 44100, a.SampleRate())
	assert.Equal(t, 2, a.Channels())
}

func TestAnalyzer_ToneLandsInItsBand(t *testing.T) {
	t.Parallel()

	levels := NewLevels()
	_ = drain(t, NewAnalyzer(tone(44100, 1, 44100, 1000, 0.05), levels))

	snap := levels.Snapshot()
	want := 0.05 / math.Sqrt2 * levelGain

	assert.InDelta(t, want, snap[5], 0.03, "1 kHz band")
	for _, b := range []int{0, 1, 2, 9} {
		assert.Less(t, snap[b], snap[5]/4, "band %d should be far below the 1 kHz band", b)
	}
}

func TestAnalyzer_LevelsClampToOne(t *testing.T) {
	t.Parallel()

	levels := NewLevels()
	_ = drain(t, NewAnalyzer(tone(44100, 1, 8000, 250, 1), levels))

	assert.Equal(t, float32(1), levels.Get(3))
}

func TestAnalyzer_BandsAboveNyquistBypass(t *testing.T) {
	t.Parallel()

	levels := NewLevels()
	a := NewAnalyzer(tone(22050, 1, 22050, 1000, 0.05), levels)

	assert.True(t, a.coeffs[9].IsIdentity(), "16 kHz band at 22.05 kHz should be bypass")
	assert.False(t, a.coeffs[8].IsIdentity())

	_ = drain(t, a)

	want := 0.05 / math.Sqrt2 * levelGain
	assert.InDelta(t, want, levels.Get(9), 0.01, "bypass band measures the raw signal")
}

func TestAnalyzer_WindowLength(t *testing.T) {
	t.Parallel()

	levels := NewLevels()
	a := NewAnalyzer(audiotest.NewConstantSource(1000, 1, 100, 0.5), levels)
	require.Equal(t, 46, a.window)

	buf := make([]float32, 45)
	_, err := a.ReadSamples(buf)
	require.NoError(t, err)
	assert.Equal(t, [BandCount]float32{}, levels.Snapshot(), "nothing published before a full window")

	_, err = a.ReadSamples(buf[:1])
	require.NoError(t, err)
	assert.NotZero(t, levels.Get(0), "window complete after 46 samples")
	assert.Zero(t, a.count)
}

func TestAnalyzer_OnlyFirstChannel(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(44100, 2, 8000, func(sample, channel int) float32 {
		if channel == 0 {
			return 0
		}
		return float32(math.Sin(2 * math.Pi * 1000 * float64(sample) / 44100))
	})

	levels := NewLevels()
	_ = drain(t, NewAnalyzer(src, levels))

	assert.Equal(t, [BandCount]float32{}, levels.Snapshot())
}

func TestAnalyzer_SeekResets(t *testing.T) {
	t.Parallel()

	src := tone(1000, 2, 5000, 50, 0.5)
	a := NewAnalyzer(src, NewLevels())

	buf := make([]float32, 30)
	_, err := a.ReadSamples(buf)
	require.NoError(t, err)
	require.NotZero(t, a.count)

	require.NoError(t, a.Seek(2*time.Second))
	assert.Zero(t, a.count)
	assert.Zero(t, a.channel)
	assert.Equal(t, [BandCount]float64{}, a.energy)
	assert.Equal(t, 2000, src.Position())

	require.NoError(t, a.Close())
	assert.True(t, src.Closed())
}
