// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes WAV files.
//
// Decoding goes through github.com/go-audio/wav, so files with extra
// chunks (LIST, fact, odd-sized padding) are handled. Integer PCM at 16,
// 24 or 32 bits is accepted, with any channel count and sample rate.
// Samples come out as float32 in [-1.0, 1.0).
//
//	file, _ := os.Open("audio.wav")
//	source, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // ErrNotWavFile, ErrOnlyPCMSupported, ...
//	}
//
// Sources implement audio.Seeker. When the input is not an io.ReadSeeker
// it is read into memory first.
//
// # Writing
//
// WriteWAV16 writes a complete 16-bit file in one call:
//
//	err := wav.WriteWAV16(file, samples, 44100, 2)
//
// Writer streams samples to an io.WriteSeeker and patches the header sizes
// on Close, for output whose length is not known up front.
//
// # File Format
//
// Files produced here use the canonical 44 byte layout:
//   - RIFF header (12 bytes)
//   - fmt chunk (24 bytes): audio format, sample rate, channels, bit depth
//   - data chunk: interleaved little-endian samples
package wav
