// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/equalizer"
	"github.com/ik5/audplay/output"
	"github.com/ik5/audplay/visualizer"
)

// DefaultPollInterval is how often the render goroutine refreshes the
// position and checks for the end of a track when nothing else wakes it.
const DefaultPollInterval = 100 * time.Millisecond

var (
	ErrNoDevice   = errors.New("no device opener configured")
	ErrNoRegistry = errors.New("no decoder registry configured")
)

// Options configures a Controller. OpenDevice and Registry are required.
type Options struct {
	// OpenDevice is called once, on the render goroutine.
	OpenDevice func() (output.Device, error)
	Registry   *audio.Registry

	// Equalizer holds the shared settings. Defaults to a flat, enabled
	// equalizer.
	Equalizer *equalizer.Store
	// Levels receives visualizer output. Defaults to a fresh set.
	Levels *visualizer.Levels

	Logger       *zap.Logger
	Clock        clock.Clock
	PollInterval time.Duration
}

// Controller is the handle the application holds. Its methods are safe for
// concurrent use and never block on audio work.
type Controller struct {
	log    *zap.Logger
	queue  *queue
	state  *State
	eq     *equalizer.Store
	levels *visualizer.Levels

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

// New starts the render goroutine and returns its controller. A device
// that fails to open is reported through Err and Done, and commands sent
// afterwards fail with ErrClosed.
func New(opts Options) (*Controller, error) {
	c, r, err := newController(opts)
	if err != nil {
		return nil, err
	}

	go func() {
		defer close(c.done)
		err := r.run(c.stop)
		c.queue.close()
		if err != nil {
			c.setErr(err)
		}
	}()

	return c, nil
}

func newController(opts Options) (*Controller, *renderer, error) {
	if opts.OpenDevice == nil {
		return nil, nil, ErrNoDevice
	}
	if opts.Registry == nil {
		return nil, nil, ErrNoRegistry
	}
	if opts.Equalizer == nil {
		opts.Equalizer = equalizer.NewStore(equalizer.DefaultSettings())
	}
	if opts.Levels == nil {
		opts.Levels = visualizer.NewLevels()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	c := &Controller{
		log:    opts.Logger,
		queue:  newQueue(),
		state:  &State{},
		eq:     opts.Equalizer,
		levels: opts.Levels,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	r := &renderer{
		log:        opts.Logger.Named("render"),
		clock:      opts.Clock,
		poll:       opts.PollInterval,
		openDevice: opts.OpenDevice,
		registry:   opts.Registry,
		queue:      c.queue,
		state:      c.state,
		eq:         c.eq,
		levels:     c.levels,
		volume:     1,
		speed:      1,
	}

	return c, r, nil
}

// Send enqueues cmd. It fails only after Close.
func (c *Controller) Send(cmd Command) error {
	return c.queue.push(cmd)
}

func (c *Controller) Play(path string) error { return c.Send(Play{Path: path}) }
func (c *Controller) Pause() error           { return c.Send(Pause{}) }
func (c *Controller) Stop() error            { return c.Send(Stop{}) }

func (c *Controller) SetVolume(volume float32) error {
	return c.Send(SetVolume{Volume: volume})
}

// Seek jumps to secs seconds into the current track.
func (c *Controller) Seek(secs float64) error {
	return c.Send(Seek{Position: secs})
}

func (c *Controller) SetSpeed(speed float32) error {
	return c.Send(SetSpeed{Speed: speed})
}

func (c *Controller) PreloadNext(path string) error {
	return c.Send(PreloadNext{Path: path})
}

func (c *Controller) SetEqBand(band int, gainDB float32) error {
	return c.Send(SetEqBand{Band: band, GainDB: gainDB})
}

func (c *Controller) SetEqEnabled(enabled bool) error {
	return c.Send(SetEqEnabled{Enabled: enabled})
}

// SetEqPreset replaces every band gain and the preamp. The values are
// stored as given.
func (c *Controller) SetEqPreset(bands [equalizer.BandCount]float32, preampDB float32, name string) error {
	return c.Send(SetEqPreset{Bands: bands, Preamp: preampDB, Name: name})
}

// ApplyPreset sends the gains and preamp of p under its name.
func (c *Controller) ApplyPreset(p equalizer.Preset) error {
	return c.SetEqPreset(p.Bands, p.PreampDB, p.Name)
}

func (c *Controller) SetEqPreamp(preampDB float32) error {
	return c.Send(SetEqPreamp{PreampDB: preampDB})
}

// Position is the playback position in seconds.
func (c *Controller) Position() float64 { return c.state.Position() }

// IsPlaying reports whether a track is audibly advancing.
func (c *Controller) IsPlaying() bool { return c.state.IsPlaying() }

func (c *Controller) IsPaused() bool { return c.state.Paused() }

// State exposes the shared playback status.
func (c *Controller) State() *State { return c.state }

// EqualizerSettings returns a copy of the current equalizer settings.
func (c *Controller) EqualizerSettings() equalizer.Settings {
	return c.eq.Snapshot()
}

// Equalizer returns the shared settings store.
func (c *Controller) Equalizer() *equalizer.Store { return c.eq }

// VisualizerLevels returns the latest level of every visualizer band.
func (c *Controller) VisualizerLevels() [visualizer.BandCount]float32 {
	return c.levels.Snapshot()
}

// Done is closed when the render goroutine exits.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Err returns the reason the render goroutine stopped early, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}

func (c *Controller) setErr(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

// Close stops the render goroutine and waits for it to release the device.
// Later sends fail with ErrClosed.
func (c *Controller) Close() error {
	c.closeOnce.Do(func() {
		c.queue.close()
		close(c.stop)
	})
	<-c.done

	return nil
}
