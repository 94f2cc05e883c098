// SPDX-License-Identifier: EPL-2.0

// Package audplay is a real-time audio player with a five band parametric
// equalizer and a ten band level visualizer.
//
// Playback runs on a dedicated render goroutine (package engine). The
// application talks to it through commands and reads back position,
// equalizer settings and visualizer levels without blocking.
//
// # Supported Formats
//
// DefaultRegistry decodes:
//   - WAV (integer PCM) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (integer PCM) via formats/aiff
//
// # Quick Start
//
//	cfg := config.Default()
//	p, err := audplay.NewPlayer(ctx, cfg, logger, audplay.PlayerOptions{})
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	p.Play("song.mp3")
//	p.SetEqBand(0, 6) // +6 dB at 60 Hz
//	fmt.Println(p.Position(), p.VisualizerLevels())
//
// # Signal Path
//
// Each track flows through
//
//	decoder -> visualizer -> equalizer -> channel mixer -> resampler -> device
//
// The equalizer applies a preamp, five biquad filters (low shelf at 60 Hz,
// peaking at 250 Hz, 1 kHz and 4 kHz, high shelf at 16 kHz) and a soft
// clipper. The resampler converts to the device rate and applies the
// playback speed.
//
// # Offline Rendering
//
// Render runs the same chain into a 16-bit WAV file, which is handy for
// comparing presets without an audio device:
//
//	src, _ := audplay.DefaultRegistry().Open("in.ogg")
//	out, _ := os.Create("out.wav")
//	frames, err := audplay.Render(src, eq, audplay.RenderOptions{
//	    SampleRate: 44100, Channels: 2, BufferSize: 4096,
//	}, out)
//
// # Settings
//
// Equalizer settings can be saved to a SQLite database (package store) and
// are restored on start. The YAML configuration (package config) selects
// the output format, logging and the database path, and its equalizer
// section is re-applied whenever the file changes.
package audplay
