// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files.
// AIFF is Apple's standard audio file format, commonly used on macOS.
//
//	file, _ := os.Open("audio.aif")
//	source, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
// Integer PCM at 16, 24 or 32 bits is supported, mono or multi-channel,
// at any sample rate. AIFF stores samples big-endian; the returned
// audio.Source yields float32 values normalized to [-1.0, 1.0) regardless.
//
// Sources implement audio.Seeker by re-decoding from the start of the
// file up to the requested position.
package aiff
