// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize    = errors.New("dst size must be multiple of channels")
	ErrNotSeekable       = errors.New("source does not support seeking")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrNoSource is returned by stages asked to act on a source they do
	// not have, such as seeking an empty output queue.
	ErrNoSource = errors.New("no source")
)

// OpenError reports a file that could not be opened or has no decoder.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// DecodeError reports a file whose contents the decoder rejected.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
