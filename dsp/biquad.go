// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"fmt"
	"math"
	"strings"
)

// FilterType selects the coefficient formula of a band.
type FilterType int

const (
	LowShelf FilterType = iota
	Peaking
	HighShelf
)

var filterTypeNames = [...]string{
	LowShelf:  "low_shelf",
	Peaking:   "peaking",
	HighShelf: "high_shelf",
}

func (t FilterType) String() string {
	if t < 0 || int(t) >= len(filterTypeNames) {
		return fmt.Sprintf("FilterType(%d)", int(t))
	}
	return filterTypeNames[t]
}

func (t FilterType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(filterTypeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFilterType, int(t))
	}
	return []byte(filterTypeNames[t]), nil
}

func (t *FilterType) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range filterTypeNames {
		if n == name {
			*t = FilterType(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownFilterType, name)
}

// Coeffs are biquad coefficients normalized by a0.
type Coeffs struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Identity returns coefficients that pass the input through unchanged.
func Identity() Coeffs {
	return Coeffs{B0: 1}
}

// IsIdentity reports whether c passes the input through unchanged.
func (c Coeffs) IsIdentity() bool {
	return c == Identity()
}

// Design computes the cookbook coefficients for a shelf or peaking band.
func Design(t FilterType, freq, gainDB, q, sampleRate float64) Coeffs {
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * freq / sampleRate
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	var b0, b1, b2, a0, a1, a2 float64

	switch t {
	case LowShelf:
		sqrtA2 := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) - (a-1)*cosW0 + sqrtA2)
		b1 = 2 * a * ((a - 1) - (a+1)*cosW0)
		b2 = a * ((a + 1) - (a-1)*cosW0 - sqrtA2)
		a0 = (a + 1) + (a-1)*cosW0 + sqrtA2
		a1 = -2 * ((a - 1) + (a+1)*cosW0)
		a2 = (a + 1) + (a-1)*cosW0 - sqrtA2
	case HighShelf:
		sqrtA2 := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) + (a-1)*cosW0 + sqrtA2)
		b1 = -2 * a * ((a - 1) + (a+1)*cosW0)
		b2 = a * ((a + 1) + (a-1)*cosW0 - sqrtA2)
		a0 = (a + 1) - (a-1)*cosW0 + sqrtA2
		a1 = 2 * ((a - 1) - (a+1)*cosW0)
		a2 = (a + 1) - (a-1)*cosW0 - sqrtA2
	default:
		b0 = 1 + alpha*a
		b1 = -2 * cosW0
		b2 = 1 - alpha*a
		a0 = 1 + alpha/a
		a1 = -2 * cosW0
		a2 = 1 - alpha/a
	}

	return normalize(b0, b1, b2, a0, a1, a2)
}

// Bandpass computes a constant 0 dB peak gain bandpass centered on freq.
func Bandpass(freq, q, sampleRate float64) Coeffs {
	w0 := 2 * math.Pi * freq / sampleRate
	alpha := math.Sin(w0) / (2 * q)

	return normalize(alpha, 0, -alpha, 1+alpha, -2*math.Cos(w0), 1-alpha)
}

func normalize(b0, b1, b2, a0, a1, a2 float64) Coeffs {
	return Coeffs{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

// State is the direct form I memory of one biquad on one channel.
type State struct {
	x1, x2 float64
	y1, y2 float64
}

// Process filters a single sample.
func (s *State) Process(c *Coeffs, x float64) float64 {
	y := c.B0*x + c.B1*s.x1 + c.B2*s.x2 - c.A1*s.y1 - c.A2*s.y2

	s.x2, s.x1 = s.x1, x
	s.y2, s.y1 = s.y1, y

	return y
}

// Reset zeroes the filter memory.
func (s *State) Reset() {
	*s = State{}
}
