// SPDX-License-Identifier: EPL-2.0

/*
Package engine runs audio playback on a dedicated render goroutine and
exposes it through a Controller.

The Controller turns method calls into Command values and pushes them onto
an unbounded queue; it never blocks on decoding or device I/O. The render
goroutine owns the output device, the current output.Sink and all timing
bookkeeping. It wakes when commands arrive, when the sink runs dry, or on a
poll interval, and after every wake-up it refreshes the shared State.

# Pipeline

Each track is decoded through an audio.Registry and wrapped as

	decoder -> visualizer.Analyzer -> equalizer.Stage -> sink

The sink adapts the result to the device channel count and sample rate and
applies the playback speed. Equalizer settings live in an equalizer.Store
shared with the UI; a change is picked up by the playing track within one
frame. Visualizer levels are published to a visualizer.Levels.

# Lifecycle

	ctl, err := engine.New(engine.Options{
		OpenDevice: func() (output.Device, error) {
			return output.OpenOto(output.OtoConfig{SampleRate: 44100, Channels: 2})
		},
		Registry: audplay.DefaultRegistry(),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer ctl.Close()

	ctl.Play("song.mp3")
	ctl.PreloadNext("next.flac")

If the device cannot be opened the render goroutine exits, Done is closed
and Err returns a *DeviceInitError. Commands are still accepted and
discarded.

# Position

Position is wall-clock time since playback started, minus time spent
paused, plus any seek offset. It is not scaled by playback speed.

# Gapless playback

PreloadNext stores a path. When the current track plays out and playback
is not paused, the stored track is opened and appended to the same sink,
so the device keeps running. Without a preloaded track the engine reports
that nothing is playing.
*/
package engine
