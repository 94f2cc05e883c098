// SPDX-License-Identifier: EPL-2.0

// Package outputtest provides an in-memory output device for tests.
package outputtest

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync"

	"github.com/ik5/audplay/output"
)

// ErrOpen is what a Device built with Failing hands back from Open.
var ErrOpen = errors.New("outputtest: device unavailable")

// Device records the players created on it. Nothing is pulled unless the
// test calls Pull on a player.
type Device struct {
	mu         sync.Mutex
	sampleRate int
	channels   int
	players    []*Player
}

func NewDevice(sampleRate, channels int) *Device {
	return &Device{sampleRate: sampleRate, channels: channels}
}

func (d *Device) SampleRate() int { return d.sampleRate }
func (d *Device) Channels() int   { return d.channels }

func (d *Device) NewPlayer(r io.Reader) output.Player {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := &Player{r: r, volume: 1}
	d.players = append(d.players, p)
	return p
}

// Players returns every player created so far, oldest first.
func (d *Device) Players() []*Player {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]*Player(nil), d.players...)
}

// Last returns the most recent player, or nil.
func (d *Device) Last() *Player {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.players) == 0 {
		return nil
	}
	return d.players[len(d.players)-1]
}

// Open returns an opener that always yields d.
func (d *Device) Open() (output.Device, error) {
	return d, nil
}

// Failing is an opener that always fails with ErrOpen.
func Failing() (output.Device, error) {
	return nil, ErrOpen
}

// Player is a fake device stream.
type Player struct {
	mu      sync.Mutex
	r       io.Reader
	playing bool
	volume  float64
	flushes int
}

func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *Player) Seek(offset int64, whence int) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.flushes++
	s, ok := p.r.(io.Seeker)
	if !ok {
		return 0, errors.New("outputtest: reader is not seekable")
	}
	return s.Seek(offset, whence)
}

// Flushes counts Seek calls.
func (p *Player) Flushes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushes
}

// Pull reads n samples the way the audio driver would, regardless of
// whether the player is playing.
func (p *Player) Pull(n int) []float32 {
	buf := make([]byte, n*4)
	got, _ := io.ReadFull(p.r, buf)

	out := make([]float32, got/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out
}
