// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"fmt"
)

var ErrClosed = errors.New("engine closed")

// DeviceInitError means the output device could not be opened. The render
// goroutine stops; the rest of the process is unaffected.
type DeviceInitError struct {
	Err error
}

func (e *DeviceInitError) Error() string {
	return fmt.Sprintf("audio device init: %v", e.Err)
}

func (e *DeviceInitError) Unwrap() error { return e.Err }
