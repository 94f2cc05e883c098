// SPDX-License-Identifier: EPL-2.0

// Package dsp holds the filter math shared by the equalizer and the visualizer.
//
// Everything here is pure: coefficient design is a deterministic function of
// its inputs, and a State only changes through Process and Reset. Filters use
// the audio EQ cookbook biquad forms, normalized so that a0 == 1:
//
//	c := dsp.Design(dsp.Peaking, 1000, 6, 1.0, 48000)
//	var st dsp.State
//	y := st.Process(&c, x)
//
// Samples flow through as float64 to keep the recursive terms stable at low
// frequencies; callers convert at the edges of their float32 buffers.
package dsp
