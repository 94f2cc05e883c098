// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestCubicInterpolate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		y0, y1, y2, y3 float32
		x              float32
		want           float32
		tolerance      float32
	}{
		{"start returns y1", 0, 1, 2, 3, 0, 1, 0.001},
		{"end returns y2", 0, 1, 2, 3, 1, 2, 0.001},
		{"linear data stays linear", 1, 2, 3, 4, 0.25, 2.25, 0.001},
		{"constant data", 0.5, 0.5, 0.5, 0.5, 0.7, 0.5, 0.0001},
		{"negative values", -1, -0.5, 0.5, 1, 0.5, 0, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CubicInterpolate(tt.y0, tt.y1, tt.y2, tt.y3, tt.x)
			if math.Abs(float64(got-tt.want)) > float64(tt.tolerance) {
				t.Errorf("CubicInterpolate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	if got := Clamp(5.0, 0.0, 1.0); got != 1 {
		t.Errorf("Clamp(5, 0, 1) = %v, want 1", got)
	}
	if got := Clamp(-13, -12, 12); got != -12 {
		t.Errorf("Clamp(-13, -12, 12) = %v, want -12", got)
	}
	if got := Clamp(float32(0.3), 0.25, 4); got != 0.3 {
		t.Errorf("Clamp(0.3, 0.25, 4) = %v, want 0.3", got)
	}
}

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input float32
		want  int16
	}{
		{0, 0},
		{1, math.MaxInt16},
		{-1, -math.MaxInt16},
		{0.5, 16383},
		{-0.5, -16383},
		{1.5, math.MaxInt16},
		{-2, -math.MaxInt16},
	}

	for _, tt := range tests {
		if got := Float32ToInt16(tt.input); got != tt.want {
			t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestInt16ToFloat32(t *testing.T) {
	t.Parallel()

	if got := Int16ToFloat32(math.MinInt16); got != -1 {
		t.Errorf("Int16ToFloat32(MinInt16) = %v, want -1", got)
	}
	if got := Int16ToFloat32(16384); got != 0.5 {
		t.Errorf("Int16ToFloat32(16384) = %v, want 0.5", got)
	}
}

func TestPutFloat32LE(t *testing.T) {
	t.Parallel()

	src := []float32{0.5, -1, 0.25}
	dst := make([]byte, 10) // room for two values only

	n := PutFloat32LE(dst, src)
	if n != 8 {
		t.Fatalf("PutFloat32LE() = %d, want 8", n)
	}

	for i := range 2 {
		got := math.Float32frombits(binary.LittleEndian.Uint32(dst[i*4:]))
		if got != src[i] {
			t.Errorf("value %d = %v, want %v", i, got, src[i])
		}
	}
}

func TestPutFloat32LE_ZeroAllocs(t *testing.T) {
	src := make([]float32, 512)
	dst := make([]byte, 2048)

	allocs := testing.AllocsPerRun(100, func() {
		PutFloat32LE(dst, src)
	})
	if allocs != 0 {
		t.Errorf("PutFloat32LE() allocated %v times, want 0", allocs)
	}
}

func BenchmarkCubicInterpolate(b *testing.B) {
	var sink float32
	for b.Loop() {
		sink = CubicInterpolate(0.1, 0.2, 0.3, 0.4, 0.5)
	}
	_ = sink
}
