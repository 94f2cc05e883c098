// SPDX-License-Identifier: EPL-2.0

// Package visualizer measures band energy for a spectrum display.
//
// An Analyzer sits in the pipeline ahead of the equalizer, so the display
// reflects the source material regardless of equalizer settings. Every
// 46 ms of audio it publishes one level per band into a shared Levels value
// that a UI can poll at any rate:
//
//	levels := visualizer.NewLevels()
//	src = visualizer.NewAnalyzer(src, levels)
//	...
//	bars := levels.Snapshot()
package visualizer
