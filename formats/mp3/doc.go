// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio using
// github.com/hajimehoshi/go-mp3.
//
//	file, _ := os.Open("song.mp3")
//	source, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // errors.Is(err, mp3.ErrNotMP3File)
//	}
//
// go-mp3 always produces 16-bit stereo, so the returned source reports two
// channels even for mono files; use audio.NewChannelMixer to fold it down.
// Samples are normalized to float32 in [-1.0, 1.0).
//
// # Seeking
//
// The source implements audio.Seeker when the input is an io.Seeker (an
// *os.File, for example). Positions are converted to a byte offset in the
// decoded stream, which go-mp3 maps back to the enclosing MP3 frame.
// Seeking a non-seekable input fails with audio.ErrNotSeekable or the
// decoder's error.
//
// MP3 writing is not supported.
package mp3
