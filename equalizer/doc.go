// SPDX-License-Identifier: EPL-2.0

// Package equalizer implements a five band parametric equalizer.
//
// Settings are owned by a Store shared between the goroutine that edits them
// and every Stage that renders audio with them:
//
//	store := equalizer.NewStore(equalizer.DefaultSettings())
//	stage := equalizer.NewStage(src, store)
//
//	store.SetBand(0, 6) // picked up by stage at its next frame
//
// The bands are a 60 Hz low shelf, peaking filters at 250 Hz, 1 kHz and
// 4 kHz, and a 16 kHz high shelf. A disabled equalizer passes samples
// through untouched; otherwise the preamp is applied, the bands run in
// series and the result is soft clipped.
package equalizer
