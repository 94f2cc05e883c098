// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"io"

	"github.com/go-audio/aiff"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/formats/pcm"
)

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, err := pcm.ReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec, err := open(rs)
	if err != nil {
		return nil, err
	}

	return pcm.NewSource(rs, reopen, reader{dec}, dec.SampleRate, int(dec.NumChans), int(dec.BitDepth))
}

func open(rs io.ReadSeeker) (*aiff.Decoder, error) {
	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	if dec.NumChans == 0 || dec.SampleRate == 0 || dec.Format() == nil {
		return nil, ErrUnsupportedAiffLayout
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

// reader seeks by moving the file cursor inside the SSND chunk.
type reader struct {
	*aiff.Decoder
}

func (r reader) SkipFrames(frames int64) error {
	if !r.WasPCMAccessed() {
		if err := r.FwdToPCM(); err != nil {
			return err
		}
	}
	if r.PCMChunk == nil {
		return ErrNoSoundData
	}

	blockAlign := int64(r.NumChans) * int64((r.BitDepth+7)/8)
	return pcm.SkipBytes(r.Decoder, r.PCMChunk.R, frames*blockAlign)
}
