// SPDX-License-Identifier: EPL-2.0

package output

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/utils"
)

const scratchSamples = 4096

// track is one queued source converted to the device format.
type track struct {
	mu   sync.Mutex // held while the track is read or seeked
	head *audio.Resampler
}

// Sink feeds a queue of sources to one device player, back to back.
// When the queue runs dry the device receives silence, Empty reports true
// and one notification is sent on Drained.
//
// The device reader never blocks on a seek and never closes a source:
// a track that is being seeked plays silence, and finished tracks wait
// on Finished until the owner calls CloseFinished.
type Sink struct {
	log      *zap.Logger
	player   Player
	rate     int
	channels int

	mu       sync.Mutex // guards queue, finished, speed and scratch
	queue    []*track
	finished []*track
	speed    float64
	scratch  []float32

	empty    atomic.Bool
	paused   atomic.Bool
	stopped  atomic.Bool
	drained  chan struct{}
	finishes chan struct{}
}

// NewSink creates a sink with its own player on device. It starts out
// empty and not playing.
func NewSink(device Device, log *zap.Logger) *Sink {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Sink{
		log:      log,
		rate:     device.SampleRate(),
		channels: device.Channels(),
		speed:    1,
		scratch:  make([]float32, scratchSamples-scratchSamples%max(device.Channels(), 1)),
		drained:  make(chan struct{}, 1),
		finishes: make(chan struct{}, 1),
	}
	s.empty.Store(true)
	s.player = device.NewPlayer(&pump{sink: s})

	return s
}

// Append queues src after whatever is already playing.
func (s *Sink) Append(src audio.Source) {
	head := audio.NewResampler(audio.NewChannelMixer(src, s.channels), s.rate)

	s.mu.Lock()
	head.SetSpeed(s.speed)
	s.queue = append(s.queue, &track{head: head})
	s.empty.Store(false)
	s.mu.Unlock()
}

// Len returns the number of queued sources, including the current one.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.queue)
}

// Empty reports whether every queued source has finished.
func (s *Sink) Empty() bool { return s.empty.Load() }

// Drained receives a value each time the queue runs dry.
func (s *Sink) Drained() <-chan struct{} { return s.drained }

// Finished receives a value when played out sources are waiting for
// CloseFinished.
func (s *Sink) Finished() <-chan struct{} { return s.finishes }

// CloseFinished closes every source that has played out and returns how
// many there were.
func (s *Sink) CloseFinished() int {
	s.mu.Lock()
	done := s.finished
	s.finished = nil
	s.mu.Unlock()

	for _, t := range done {
		s.closeTrack(t)
	}
	return len(done)
}

func (s *Sink) Play() {
	s.paused.Store(false)
	s.player.Play()
}

func (s *Sink) Pause() {
	s.paused.Store(true)
	s.player.Pause()
}

func (s *Sink) IsPaused() bool { return s.paused.Load() }

func (s *Sink) SetVolume(volume float64) {
	s.player.SetVolume(volume)
}

// SetSpeed applies to the current source and everything queued after it.
func (s *Sink) SetSpeed(speed float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.speed = speed
	for _, t := range s.queue {
		t.head.SetSpeed(speed)
	}
}

// Seek moves the current source to pos and drops audio the device has
// buffered from the old position. Only the current track is locked, so
// the device keeps reading (silence) while the source repositions.
func (s *Sink) Seek(pos time.Duration) error {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return audio.ErrNoSource
	}
	t := s.queue[0]
	s.mu.Unlock()

	t.mu.Lock()
	err := audio.Seek(t.head, pos)
	t.mu.Unlock()

	if _, ferr := s.player.Seek(0, io.SeekCurrent); ferr != nil {
		s.log.Debug("flush device buffer", zap.Error(ferr))
	}

	return err
}

// Stop silences the player and closes every queued and finished source.
// The sink cannot be reused.
func (s *Sink) Stop() {
	s.stopped.Store(true)
	s.Pause()

	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, t := range queue {
		t.mu.Lock()
		s.closeTrack(t)
		t.mu.Unlock()
	}
	s.CloseFinished()
	s.empty.Store(true)
}

func (s *Sink) closeTrack(t *track) {
	if err := t.head.Close(); err != nil {
		s.log.Warn("close source", zap.Error(err))
	}
}

// fill writes up to len(p)/4 samples and pads the rest with silence.
func (s *Sink) fill(p []byte) int {
	samples := len(p) / 4

	s.mu.Lock()
	defer s.mu.Unlock()

	filled := 0
	for filled < samples && len(s.queue) > 0 && !s.stopped.Load() {
		want := min(samples-filled, len(s.scratch))
		want -= want % s.channels
		if want == 0 {
			break
		}

		t := s.queue[0]
		if !t.mu.TryLock() {
			// seeking
			break
		}
		n, err := t.head.ReadSamples(s.scratch[:want])
		t.mu.Unlock()
		filled += utils.PutFloat32LE(p[filled*4:], s.scratch[:n]) / 4

		if err != nil {
			if err != io.EOF {
				s.log.Warn("source failed, skipping", zap.Error(err))
			}
			s.queue = s.queue[1:]
			s.finished = append(s.finished, t)
			notify(s.finishes)
			continue
		}
		if n == 0 {
			break
		}
	}

	clear(p[filled*4 : samples*4])

	if len(s.queue) == 0 && !s.empty.Swap(true) {
		notify(s.drained)
	}

	return samples * 4
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// pump is the reader handed to the device. It never reports EOF so the
// player keeps running across gaps between sources.
type pump struct {
	sink *Sink
}

func (p *pump) Read(b []byte) (int, error) {
	return p.sink.fill(b), nil
}

// Seek lets the player flush its buffer; the stream has no position.
func (p *pump) Seek(int64, int) (int64, error) {
	return 0, nil
}
