// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Seeker is implemented by sources that can reposition their stream.
// Pipeline stages implement it by forwarding to the source they wrap
// and dropping any state that belongs to the old position.
type Seeker interface {
	Seek(pos time.Duration) error
}

// Seek repositions src when it supports seeking.
func Seek(src Source, pos time.Duration) error {
	s, ok := src.(Seeker)
	if !ok {
		return ErrNotSeekable
	}
	if pos < 0 {
		pos = 0
	}

	return s.Seek(pos)
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// extAliases maps secondary file extensions to their registry format key.
var extAliases = map[string]string{
	"wave": "wav",
	"oga":  "ogg",
	"aif":  "aiff",
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// Formats returns the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

// Lookup resolves the decoder for a file path by its extension.
func (r *Registry) Lookup(path string) (Decoder, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if alias, ok := extAliases[ext]; ok {
		ext = alias
	}

	d, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}

	return d, nil
}

// Open opens path, decodes it with the decoder registered for its
// extension and returns a Source that closes the file on Close.
func (r *Registry) Open(path string) (Source, error) {
	d, err := r.Lookup(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	src, err := d.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, &DecodeError{Path: path, Err: err}
	}

	return &fileSource{Source: src, file: f}, nil
}

// fileSource ties the lifetime of an opened file to the decoded source.
type fileSource struct {
	Source
	file io.Closer
}

func (s *fileSource) Seek(pos time.Duration) error {
	return Seek(s.Source, pos)
}

func (s *fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.file.Close())
}
