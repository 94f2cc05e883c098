// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming primitives every playback pipeline is built from.
//
// This package contains the core building blocks:
//   - Source interface for pull-based audio input
//   - Seeker for sources that can reposition their stream
//   - Resampler for device rate conversion and playback speed
//   - ChannelMixer for mapping a source onto the device channel layout
//   - Registry for decoder lookup by format or file extension
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders, DSP stages and the output sink all speak this interface, so a
// pipeline is a chain of Sources, each pulling from the one it wraps.
//
// # Seeking
//
// Stages that hold per-position state implement Seeker, forward the seek to
// the source they wrap and drop their own state:
//
//	if err := audio.Seek(src, 90*time.Second); err != nil {
//	    // best effort: errors.Is(err, audio.ErrNotSeekable)
//	}
//
// # Resampling and Speed
//
// The Resampler changes the sample rate using cubic interpolation and
// scales the step through the source by a speed factor that may be changed
// from another goroutine while samples are being read:
//
//	resampler := audio.NewResampler(source, 48000)
//	resampler.SetSpeed(1.25)
//
// # Channel Mapping
//
// ChannelMixer adapts a source to the device layout. Mono is duplicated,
// multi-channel to mono is averaged:
//
//	stereo := audio.NewChannelMixer(source, 2)
//	mono := audio.NewMonoMixer(source)
//
// # Format Registry
//
// The registry maps format keys to decoders and can open files directly:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	src, err := registry.Open("/music/track.wav")
//
// Open fails with *OpenError when the file cannot be opened or no decoder
// matches its extension, and with *DecodeError when the decoder rejects it.
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// # Error Handling
//
// Sources return io.EOF when no more data is available:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // Process n samples from buf
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
