// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer PCM decoders (WAV, AIFF) to
// audio.Source.
//
// Samples are normalized by the full scale of their bit depth, so a 16-bit
// value of -32768 becomes -1.0. Only 16, 24 and 32 bit streams are
// accepted.
//
// Seeking is implemented by rewinding the underlying stream, reopening the
// decoder and discarding frames up to the target, which keeps the decoder
// state consistent with whatever chunk layout the file uses.
package pcm
