// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"errors"
	"math"
)

var ErrUnknownFilterType = errors.New("unknown filter type")

// DBToLinear converts decibels to a linear amplitude factor.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// SoftClip leaves [-1, 1] untouched and folds anything beyond it through an
// exponential saturation curve.
func SoftClip(v float64) float64 {
	switch {
	case v > 1:
		return 1 - math.Exp(1-v)*0.5
	case v < -1:
		return -1 + math.Exp(v+1)*0.5
	default:
		return v
	}
}
