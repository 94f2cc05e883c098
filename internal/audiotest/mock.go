// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
	"math"
	"sync"
	"time"
)

// ErrSeekFailed is returned by sources built with FailSeek.
var ErrSeekFailed = errors.New("audiotest: seek failed")

// MockSource is a test helper that generates audio data for testing.
// It implements audio.Source and audio.Seeker (without importing the audio
// package to avoid cycles).
type MockSource struct {
	mu sync.Mutex

	sampleRate   int
	channels     int
	totalSamples int // Total samples to generate (per channel)
	generated    int // Samples generated so far (per channel)
	waveform     func(sample int, channel int) float32

	failSeek bool
	seeks    []time.Duration
	closed   bool
}

// NewMockSource creates a new mock audio source.
// totalSamples is the total number of samples per channel to generate.
// waveform is a function that generates sample values given sample index and channel.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 {
		return 0.0
	})
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, _ int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 {
		return value
	})
}

// NewSliceSource plays back interleaved samples verbatim.
func NewSliceSource(sampleRate, channels int, samples []float32) *MockSource {
	data := append([]float32(nil), samples...)
	return NewMockSource(sampleRate, channels, len(data)/channels, func(sample int, channel int) float32 {
		return data[sample*channels+channel]
	})
}

// FailSeek makes every subsequent Seek return ErrSeekFailed without moving.
func (m *MockSource) FailSeek() *MockSource {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failSeek = true
	return m
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}

// Seeks returns every position passed to Seek, in call order.
func (m *MockSource) Seeks() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]time.Duration(nil), m.seeks...)
}

// Position returns the index of the next frame to be generated.
func (m *MockSource) Position() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.generated
}

// Reset resets the generated sample counter to allow re-reading
func (m *MockSource) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generated = 0
}

// Seek moves the generator to the frame nearest pos.
func (m *MockSource) Seek(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seeks = append(m.seeks, pos)
	if m.failSeek {
		return ErrSeekFailed
	}

	frame := int(pos.Seconds() * float64(m.sampleRate))
	m.generated = min(max(frame, 0), m.totalSamples)

	return nil
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	framesToWrite := min(len(dst)/m.channels, m.totalSamples-m.generated)

	for frame := range framesToWrite {
		sampleIndex := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(sampleIndex, ch)
		}
	}

	m.generated += framesToWrite
	samplesWritten := framesToWrite * m.channels

	if m.generated >= m.totalSamples {
		return samplesWritten, io.EOF
	}

	return samplesWritten, nil
}
