// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/formats/pcm"
)

const formatPCM = 1

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.ReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec, err := open(rs)
	if err != nil {
		return nil, err
	}

	return pcm.NewSource(rs, reopen, reader{dec}, int(dec.SampleRate), int(dec.NumChans), int(dec.BitDepth))
}

func open(rs io.ReadSeeker) (*gowav.Decoder, error) {
	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != formatPCM {
		return nil, ErrOnlyPCMSupported
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 || dec.Format() == nil {
		return nil, ErrUnsupportedWavLayout
	}

	return dec, nil
}

func reopen(rs io.ReadSeeker) (pcm.Reader, error) {
	dec, err := open(rs)
	if err != nil {
		return nil, err
	}
	return reader{dec}, nil
}

// reader seeks by moving the file cursor inside the data chunk.
type reader struct {
	*gowav.Decoder
}

func (r reader) SkipFrames(frames int64) error {
	if !r.WasPCMAccessed() {
		if err := r.FwdToPCM(); err != nil {
			return err
		}
	}
	if r.PCMChunk == nil {
		return gowav.ErrPCMChunkNotFound
	}

	blockAlign := int64(r.NumChans) * int64((r.BitDepth+7)/8)
	return pcm.SkipBytes(r.Decoder, r.PCMChunk.R, frames*blockAlign)
}
