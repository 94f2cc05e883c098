// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/formats/wav"
)

// Example_decoding writes a short file and decodes it again.
func Example_decoding() {
	data := new(bytes.Buffer)
	_ = wav.WriteWAV16(data, []int16{100, 200, 300, 400, 500, 600}, 16000, 2)

	source, err := wav.Decoder{}.Decode(data)
	if err != nil {
		fmt.Printf("Decode error: %v\n", err)
		return
	}

	fmt.Printf("Sample rate: %d Hz\n", source.SampleRate())
	fmt.Printf("Channels: %d\n", source.Channels())

	buf := make([]float32, 10)
	n, err := source.ReadSamples(buf)
	if err != nil && err != io.EOF {
		fmt.Printf("Read error: %v\n", err)
		return
	}

	fmt.Printf("Read %d samples\n", n)
	// Output:
	// Sample rate: 16000 Hz
	// Channels: 2
	// Read 6 samples
}

// Example_seeking jumps into the middle of a decoded file.
func Example_seeking() {
	samples := make([]int16, 8000)
	for i := range samples {
		samples[i] = int16(i)
	}

	data := new(bytes.Buffer)
	_ = wav.WriteWAV16(data, samples, 8000, 1)

	source, _ := wav.Decoder{}.Decode(bytes.NewReader(data.Bytes()))
	if err := audio.Seek(source, 500*time.Millisecond); err != nil {
		fmt.Println("seek:", err)
		return
	}

	buf := make([]float32, 1)
	_, _ = source.ReadSamples(buf)
	fmt.Printf("%.0f\n", buf[0]*32768)
	// Output:
	// 4000
}

// Example_errorNotWAV shows the error for foreign input.
func Example_errorNotWAV() {
	_, err := wav.Decoder{}.Decode(bytes.NewReader([]byte("This is not a WAV file, it is text.")))
	fmt.Println(err)
	// Output:
	// not a WAV file
}
