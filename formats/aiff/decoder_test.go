// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audplay/audio"
)

// writeAIFF encodes 16-bit samples and returns the file contents.
func writeAIFF(t *testing.T, samples []int, sampleRate, channels int) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.aiff")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	enc := aiff.NewEncoder(f, sampleRate, 16, channels)
	buf := &goaudio.IntBuffer{
		Data:   samples,
		Format: &goaudio.Format{SampleRate: sampleRate, NumChannels: channels},
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func readAll(t *testing.T, src audio.Source) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, 64)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestDecoder_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "text", data: []byte("This is not AIFF data")},
		{name: "empty", data: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrNotAiffFile) {
				t.Errorf("Decode() error = %v, want %v", err, ErrNotAiffFile)
			}
		})
	}
}

func TestDecoder_RoundTrip(t *testing.T) {
	t.Parallel()

	samples := []int{0, 16384, -16384, 32767, -32768, 100}
	src, err := Decoder{}.Decode(bytes.NewReader(writeAIFF(t, samples, 22050, 2)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if src.SampleRate() != 22050 {
		t.Errorf("SampleRate() = %d, want 22050", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}

	got := readAll(t, src)
	if len(got) != len(samples) {
		t.Fatalf("read %d samples, want %d", len(got), len(samples))
	}
	for i, s := range samples {
		if want := float32(s) / 32768; got[i] != want {
			t.Errorf("sample[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestSource_Seek(t *testing.T) {
	t.Parallel()

	samples := make([]int, 1000)
	for i := range samples {
		samples[i] = i * 10
	}

	src, err := Decoder{}.Decode(bytes.NewReader(writeAIFF(t, samples, 1000, 1)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if err := audio.Seek(src, 600*time.Millisecond); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}

	got := readAll(t, src)
	if len(got) != 400 {
		t.Fatalf("read %d samples after seek, want 400", len(got))
	}
	if want := float32(6000) / 32768; got[0] != want {
		t.Errorf("first sample = %v, want %v", got[0], want)
	}
}
