// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/equalizer"
	"github.com/ik5/audplay/output"
	"github.com/ik5/audplay/utils"
	"github.com/ik5/audplay/visualizer"
)

const (
	minSpeed = 0.25
	maxSpeed = 4.0
)

// renderer owns the device, the sink and the timing bookkeeping. Every
// field is touched only by the render goroutine; other goroutines see the
// shared State, the equalizer Store and the visualizer Levels.
type renderer struct {
	log        *zap.Logger
	clock      clock.Clock
	poll       time.Duration
	openDevice func() (output.Device, error)
	registry   *audio.Registry

	queue  *queue
	state  *State
	eq     *equalizer.Store
	levels *visualizer.Levels

	device  output.Device
	sink    *output.Sink
	session string

	startedAt    time.Time
	pausedOffset time.Duration
	volume       float64
	speed        float64
	next         string
}

// run opens the device and serves commands until stop is closed.
func (r *renderer) run(stop <-chan struct{}) error {
	dev, err := r.openDevice()
	if err != nil {
		r.log.Error("audio device unavailable, render loop exiting", zap.Error(err))
		return &DeviceInitError{Err: err}
	}
	r.device = dev
	defer r.teardown()

	r.log.Debug("render loop started",
		zap.Int("sample_rate", dev.SampleRate()),
		zap.Int("channels", dev.Channels()))

	for {
		var drained, finished <-chan struct{}
		if r.sink != nil {
			drained = r.sink.Drained()
			finished = r.sink.Finished()
		}

		select {
		case <-stop:
			return nil
		case <-r.queue.ready:
			for _, cmd := range r.queue.drain() {
				r.dispatch(cmd)
			}
		case <-drained:
		case <-finished:
			r.sink.CloseFinished()
		case <-r.clock.After(r.poll):
		}

		r.tick()
	}
}

// dispatch runs one command; a panic is logged and the loop carries on.
func (r *renderer) dispatch(cmd Command) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("command panicked",
				zap.String("command", fmt.Sprintf("%T", cmd)),
				zap.Any("panic", p))
		}
	}()

	r.handle(cmd)
}

func (r *renderer) handle(cmd Command) {
	switch c := cmd.(type) {
	case Play:
		r.play(c.Path)
	case Pause:
		r.togglePause()
	case Stop:
		r.stop()
	case SetVolume:
		if !finite(c.Volume) {
			return
		}
		r.volume = float64(utils.Clamp(c.Volume, 0, 1))
		if r.sink != nil {
			r.sink.SetVolume(r.volume)
		}
	case Seek:
		r.seek(c.Position)
	case SetSpeed:
		if !finite(c.Speed) {
			return
		}
		r.speed = float64(utils.Clamp(c.Speed, minSpeed, maxSpeed))
		if r.sink != nil {
			r.sink.SetSpeed(r.speed)
		}
	case PreloadNext:
		r.next = c.Path
	case SetEqBand:
		if !finite(c.GainDB) {
			return
		}
		gain := utils.Clamp(c.GainDB, equalizer.MinGainDB, equalizer.MaxGainDB)
		if err := r.eq.SetBand(c.Band, gain); err != nil {
			r.log.Warn("ignoring equalizer band", zap.Int("band", c.Band), zap.Error(err))
		}
	case SetEqEnabled:
		r.eq.SetEnabled(c.Enabled)
	case SetEqPreset:
		r.eq.SetPreset(c.Bands, c.Preamp, c.Name)
	case SetEqPreamp:
		if !finite(c.PreampDB) {
			return
		}
		r.eq.SetPreamp(utils.Clamp(c.PreampDB, equalizer.MinGainDB, equalizer.MaxGainDB))
	default:
		r.log.Warn("unknown command", zap.String("command", fmt.Sprintf("%T", cmd)))
	}
}

// open decodes path and wraps it in a fresh analyzer and equalizer.
func (r *renderer) open(path string) (audio.Source, error) {
	src, err := r.registry.Open(path)
	if err != nil {
		return nil, err
	}

	return equalizer.NewStage(visualizer.NewAnalyzer(src, r.levels), r.eq), nil
}

func (r *renderer) play(path string) {
	src, err := r.open(path)
	if err != nil {
		r.log.Warn("cannot play", zap.String("path", path), zap.Error(err))
		return
	}

	r.dropSink()

	sink := output.NewSink(r.device, r.log)
	sink.SetVolume(r.volume)
	sink.SetSpeed(r.speed)
	sink.Append(src)
	sink.Play()

	r.sink = sink
	r.next = ""
	r.session = uuid.NewString()
	r.startedAt = r.clock.Now()
	r.pausedOffset = 0

	r.state.positionMS.Store(0)
	r.state.paused.Store(false)
	r.state.playing.Store(true)

	r.log.Info("playing", zap.String("path", path), zap.String("session", r.session))
}

func (r *renderer) togglePause() {
	if r.sink == nil {
		return
	}

	now := r.clock.Now()
	if r.sink.IsPaused() {
		r.startedAt = now
		r.sink.Play()
		r.state.paused.Store(false)
		r.log.Debug("resumed", zap.String("session", r.session))
		return
	}

	r.pausedOffset += now.Sub(r.startedAt)
	r.sink.Pause()
	r.state.paused.Store(true)
	if r.state.playing.Load() {
		r.state.positionMS.Store(durationMS(r.pausedOffset))
	}
	r.log.Debug("paused", zap.String("session", r.session), zap.Duration("at", r.pausedOffset))
}

func (r *renderer) stop() {
	r.dropSink()
	r.state.reset()
	r.pausedOffset = 0
	r.next = ""
	r.levels.Reset()
	r.log.Debug("stopped", zap.String("session", r.session))
}

func (r *renderer) seek(secs float64) {
	if r.sink == nil {
		return
	}
	if secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		secs = 0
	}

	pos := time.Duration(secs * float64(time.Second))
	if err := r.sink.Seek(pos); err != nil {
		r.log.Warn("seek failed", zap.Duration("to", pos), zap.String("session", r.session), zap.Error(err))
	}

	r.pausedOffset = pos
	r.startedAt = r.clock.Now()
	r.state.positionMS.Store(uint64(secs * 1000))
}

// tick refreshes the position and moves on to the preloaded track once the
// current one has played out.
func (r *renderer) tick() {
	if r.sink == nil {
		return
	}

	if r.state.playing.Load() && !r.state.paused.Load() {
		elapsed := r.clock.Now().Sub(r.startedAt)
		r.state.positionMS.Store(durationMS(r.pausedOffset + elapsed))
	}

	if r.sink.Empty() && !r.sink.IsPaused() && r.state.playing.Load() {
		r.advance()
	}
}

func (r *renderer) advance() {
	next := r.next
	r.next = ""

	if next == "" {
		r.state.playing.Store(false)
		r.log.Debug("track finished", zap.String("session", r.session))
		return
	}

	src, err := r.open(next)
	if err != nil {
		r.state.playing.Store(false)
		r.log.Warn("cannot continue with preloaded track", zap.String("path", next), zap.Error(err))
		return
	}

	r.sink.Append(src)
	r.session = uuid.NewString()
	r.startedAt = r.clock.Now()
	r.pausedOffset = 0
	r.state.positionMS.Store(0)

	r.log.Info("gapless transition", zap.String("path", next), zap.String("session", r.session))
}

func (r *renderer) dropSink() {
	if r.sink == nil {
		return
	}
	r.sink.Stop()
	r.sink = nil
}

func (r *renderer) teardown() {
	r.dropSink()
	r.state.reset()
	r.log.Debug("render loop stopped")
}

func durationMS(d time.Duration) uint64 {
	if d < 0 {
		return 0
	}
	return uint64(d / time.Millisecond)
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
