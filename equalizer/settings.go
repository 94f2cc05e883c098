// SPDX-License-Identifier: EPL-2.0

package equalizer

import (
	"math"

	"github.com/ik5/audplay/dsp"
)

// BandCount is the fixed number of equalizer bands.
const BandCount = 5

const (
	// MinGainDB and MaxGainDB bound user-supplied band gains and preamp.
	MinGainDB = -12
	MaxGainDB = 12

	// bypassGainDB is the magnitude at or below which a band is left flat.
	bypassGainDB = 0.01

	// CustomPreset is the preset name after an individual band was edited.
	CustomPreset = "Custom"
)

// BandSettings describes one equalizer band.
type BandSettings struct {
	Frequency  float32        `json:"frequency" yaml:"frequency"`
	GainDB     float32        `json:"gain_db" yaml:"gain_db"`
	Q          float32        `json:"q" yaml:"q"`
	FilterType dsp.FilterType `json:"filter_type" yaml:"filter_type"`
	Label      string         `json:"label" yaml:"label"`
}

// Settings is the full equalizer configuration.
type Settings struct {
	Enabled    bool                    `json:"enabled" yaml:"enabled"`
	PreampDB   float32                 `json:"preamp_db" yaml:"preamp_db"`
	Bands      [BandCount]BandSettings `json:"bands" yaml:"bands"`
	PresetName string                  `json:"preset_name" yaml:"preset_name"`
}

// DefaultBands returns the fixed band layout with every gain at 0 dB.
func DefaultBands() [BandCount]BandSettings {
	return [BandCount]BandSettings{
		{Frequency: 60, Q: 0.707, FilterType: dsp.LowShelf, Label: "60Hz"},
		{Frequency: 250, Q: 1.0, FilterType: dsp.Peaking, Label: "250Hz"},
		{Frequency: 1000, Q: 1.0, FilterType: dsp.Peaking, Label: "1kHz"},
		{Frequency: 4000, Q: 1.0, FilterType: dsp.Peaking, Label: "4kHz"},
		{Frequency: 16000, Q: 0.707, FilterType: dsp.HighShelf, Label: "16kHz"},
	}
}

// DefaultSettings returns an enabled, flat equalizer.
func DefaultSettings() Settings {
	return Settings{
		Enabled:    true,
		Bands:      DefaultBands(),
		PresetName: "Flat",
	}
}

// Gains returns the per-band gains in band order.
func (s Settings) Gains() [BandCount]float32 {
	var g [BandCount]float32
	for i, b := range s.Bands {
		g[i] = b.GainDB
	}
	return g
}

// Coefficients designs the filter of every band for sampleRate. Bands
// are flat when the equalizer is disabled or their gain is negligible.
func (s Settings) Coefficients(sampleRate int) [BandCount]dsp.Coeffs {
	var out [BandCount]dsp.Coeffs

	for i, b := range s.Bands {
		if !s.Enabled || math.Abs(float64(b.GainDB)) <= bypassGainDB {
			out[i] = dsp.Identity()
			continue
		}

		out[i] = dsp.Design(b.FilterType, float64(b.Frequency), float64(b.GainDB),
			float64(b.Q), float64(sampleRate))
	}

	return out
}
