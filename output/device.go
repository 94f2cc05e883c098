// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player is one stream on an output device. The device pulls little-endian
// float32 samples from the reader the player was created with.
type Player interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
	// Seek discards the device buffer and forwards to the reader.
	Seek(offset int64, whence int) (int64, error)
}

// Device creates players at a fixed rate and channel layout.
type Device interface {
	SampleRate() int
	Channels() int
	NewPlayer(r io.Reader) Player
}

// OtoConfig selects the device format.
type OtoConfig struct {
	SampleRate int
	Channels   int
	// Buffer is the driver buffer length; zero keeps the driver default.
	Buffer time.Duration
}

// OtoDevice plays through the system audio driver.
type OtoDevice struct {
	ctx        *oto.Context
	sampleRate int
	channels   int
}

// OpenOto initializes the audio driver and waits until it is ready.
// Only one device may be opened per process.
func OpenOto(cfg OtoConfig) (*OtoDevice, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   cfg.Buffer,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	return &OtoDevice{
		ctx:        ctx,
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
	}, nil
}

func (d *OtoDevice) SampleRate() int { return d.sampleRate }
func (d *OtoDevice) Channels() int   { return d.channels }

func (d *OtoDevice) NewPlayer(r io.Reader) Player {
	return d.ctx.NewPlayer(r)
}

// Err reports a driver failure, if any.
func (d *OtoDevice) Err() error {
	return d.ctx.Err()
}
