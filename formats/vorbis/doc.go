// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis to decode Ogg Vorbis files.
// Vorbis is a free, open-source lossy audio compression format.
//
//	file, _ := os.Open("audio.ogg")
//	source, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    // errors.Is(err, vorbis.ErrNotVorbisFile)
//	}
//
// Any channel count and sample rate the stream declares is passed through.
// ReadSamples only ever returns whole frames, so a destination shorter
// than one frame reads nothing.
//
// Sources implement audio.Seeker when the input is an io.ReadSeeker;
// oggvorbis locates the target granule position itself.
package vorbis
