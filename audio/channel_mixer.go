// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"time"
)

// ChannelMixer maps the channels of src onto a fixed output layout.
// Mono sources are duplicated across every output channel, multi-channel
// sources are averaged down to mono, and sources with more channels than
// the output keep their leading channels.
type ChannelMixer struct {
	src Source
	out int
	tmp []float32
}

// NewChannelMixer creates a mixer producing outChannels interleaved channels.
func NewChannelMixer(src Source, outChannels int) *ChannelMixer {
	if outChannels < 1 {
		outChannels = 1
	}

	return &ChannelMixer{
		src: src,
		out: outChannels,
		tmp: make([]float32, 4096),
	}
}

// NewMonoMixer creates a mixer that averages all channels down to mono.
func NewMonoMixer(src Source) *ChannelMixer {
	return NewChannelMixer(src, 1)
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.out }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }
func (m *ChannelMixer) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *ChannelMixer) Seek(pos time.Duration) error {
	return Seek(m.src, pos)
}

func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}

	in := m.src.Channels()
	if in == m.out {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.out
	samplesNeeded := frames * in

	// Grow tmp buffer if needed (but don't shrink to avoid thrashing)
	if cap(m.tmp) < samplesNeeded {
		m.tmp = make([]float32, max(samplesNeeded, 8192))
	}
	m.tmp = m.tmp[:samplesNeeded]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	got := n / in

	switch {
	case m.out == 1 && in == 2:
		for f := range got {
			idx := f << 1
			dst[f] = (m.tmp[idx] + m.tmp[idx+1]) * 0.5
		}
	case m.out == 1:
		inv := float32(1.0) / float32(in)
		for f := range got {
			sum := float32(0)
			base := f * in
			for c := range in {
				sum += m.tmp[base+c]
			}
			dst[f] = sum * inv
		}
	case in == 1:
		for f := range got {
			v := m.tmp[f]
			base := f * m.out
			for c := range m.out {
				dst[base+c] = v
			}
		}
	case in > m.out:
		for f := range got {
			copy(dst[f*m.out:(f+1)*m.out], m.tmp[f*in:f*in+m.out])
		}
	default:
		// Fewer input channels than output: repeat the last input channel
		for f := range got {
			base := f * m.out
			copy(dst[base:base+in], m.tmp[f*in:(f+1)*in])
			for c := in; c < m.out; c++ {
				dst[base+c] = m.tmp[f*in+in-1]
			}
		}
	}

	return got * m.out, err
}
