// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidChannels = errors.New("channel count must be positive")

const headerSize = 44

// WriteWAV16 writes interleaved 16-bit PCM samples as a canonical WAV file.
func WriteWAV16(w io.Writer, samples []int16, sampleRate, channels int) error {
	if channels < 1 {
		return ErrInvalidChannels
	}

	const bitsPerSample = 16
	blockAlign := uint16(channels * bitsPerSample / 8)
	byteRate := uint32(sampleRate) * uint32(blockAlign)
	dataSize := uint32(len(samples) * 2)

	header := make([]byte, headerSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w", err)
	}

	const chunkSize = 8192
	if len(samples) == 0 {
		return nil
	}

	buf := make([]byte, min(len(samples), chunkSize)*2)
	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		buf = buf[:len(chunk)*2]

		for j, s := range chunk {
			binary.LittleEndian.PutUint16(buf[j*2:], uint16(s))
		}

		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

// Writer streams 16-bit PCM to a seekable destination and fills in the
// header sizes on Close.
type Writer struct {
	w          io.WriteSeeker
	sampleRate int
	channels   int
	samples    int
	buf        []byte
}

// NewWriter writes a placeholder header to w.
func NewWriter(w io.WriteSeeker, sampleRate, channels int) (*Writer, error) {
	if err := WriteWAV16(w, nil, sampleRate, channels); err != nil {
		return nil, err
	}

	return &Writer{w: w, sampleRate: sampleRate, channels: channels}, nil
}

func (w *Writer) Write(samples []int16) error {
	if cap(w.buf) < len(samples)*2 {
		w.buf = make([]byte, len(samples)*2)
	}
	w.buf = w.buf[:len(samples)*2]

	for i, s := range samples {
		binary.LittleEndian.PutUint16(w.buf[i*2:], uint16(s))
	}

	if _, err := w.w.Write(w.buf); err != nil {
		return fmt.Errorf("%w", err)
	}
	w.samples += len(samples)

	return nil
}

// Close rewrites the size fields. It does not close the destination.
func (w *Writer) Close() error {
	dataSize := uint32(w.samples * 2)
	size := make([]byte, 4)

	binary.LittleEndian.PutUint32(size, 36+dataSize)
	if _, err := w.w.Seek(4, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}
	if _, err := w.w.Write(size); err != nil {
		return fmt.Errorf("%w", err)
	}

	binary.LittleEndian.PutUint32(size, dataSize)
	if _, err := w.w.Seek(40, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}
	if _, err := w.w.Write(size); err != nil {
		return fmt.Errorf("%w", err)
	}

	_, err := w.w.Seek(0, io.SeekEnd)
	return err
}
