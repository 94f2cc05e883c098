// SPDX-License-Identifier: EPL-2.0

package equalizer

import "strings"

// Preset is a named set of band gains and preamp.
type Preset struct {
	Name     string
	Bands    [BandCount]float32
	PreampDB float32
}

var builtinPresets = []Preset{
	{Name: "Flat", Bands: [BandCount]float32{0, 0, 0, 0, 0}, PreampDB: 0},
	{Name: "More Bass", Bands: [BandCount]float32{6, 4, 0, 0, 0}, PreampDB: -2},
	{Name: "Rock", Bands: [BandCount]float32{4, 2, -1, 3, 4}, PreampDB: -1},
	{Name: "Pop", Bands: [BandCount]float32{-1, 2, 4, 2, -1}, PreampDB: 0},
	{Name: "Jazz", Bands: [BandCount]float32{3, 1, -1, 2, 4}, PreampDB: 0},
	{Name: "Classical", Bands: [BandCount]float32{0, 0, 0, 2, 4}, PreampDB: 0},
	{Name: "R&B", Bands: [BandCount]float32{5, 3, -1, 2, 3}, PreampDB: -1},
	{Name: "Vocal Boost", Bands: [BandCount]float32{-2, 0, 4, 3, 1}, PreampDB: 0},
}

// Presets returns the built-in presets in display order.
func Presets() []Preset {
	return append([]Preset(nil), builtinPresets...)
}

// PresetByName finds a built-in preset, ignoring case.
func PresetByName(name string) (Preset, bool) {
	for _, p := range builtinPresets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}
