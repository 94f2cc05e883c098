// SPDX-License-Identifier: EPL-2.0

package audplay

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/equalizer"
	"github.com/ik5/audplay/formats/wav"
	"github.com/ik5/audplay/utils"
	"github.com/ik5/audplay/visualizer"
)

var ErrInvalidRenderOptions = errors.New("sample rate, channels and buffer size must be positive")

// RenderOptions selects the output format of Render.
type RenderOptions struct {
	SampleRate int
	Channels   int
	// BufferSize is the number of samples processed per step.
	BufferSize int
	// Levels, when set, receives visualizer output as the file renders.
	Levels *visualizer.Levels
}

// Render runs src through the equalizer held by eq and writes the result
// to w as a 16-bit WAV file. It returns the number of frames written.
//
// The pipeline is the same one used for playback:
//
//	src -> analyzer (optional) -> equalizer -> channel mixer -> resampler
//
// Render closes src.
func Render(src audio.Source, eq *equalizer.Store, opts RenderOptions, w io.WriteSeeker) (int, error) {
	if opts.SampleRate <= 0 || opts.Channels <= 0 || opts.BufferSize <= 0 {
		return 0, ErrInvalidRenderOptions
	}

	if opts.Levels != nil {
		src = visualizer.NewAnalyzer(src, opts.Levels)
	}
	head := audio.NewResampler(
		audio.NewChannelMixer(equalizer.NewStage(src, eq), opts.Channels),
		opts.SampleRate,
	)
	defer head.Close()

	out, err := wav.NewWriter(w, opts.SampleRate, opts.Channels)
	if err != nil {
		return 0, err
	}

	bufSize := max(opts.BufferSize-opts.BufferSize%opts.Channels, opts.Channels)
	buf := make([]float32, bufSize)
	pcm16 := make([]int16, bufSize)
	samples := 0

	for {
		n, err := head.ReadSamples(buf)
		if n > 0 {
			for i, x := range buf[:n] {
				pcm16[i] = utils.Float32ToInt16(x)
			}
			if werr := out.Write(pcm16[:n]); werr != nil {
				return samples / opts.Channels, werr
			}
			samples += n
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return samples / opts.Channels, fmt.Errorf("render: %w", err)
		}
	}

	return samples / opts.Channels, out.Close()
}
