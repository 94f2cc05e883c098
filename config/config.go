// SPDX-License-Identifier: EPL-2.0

// Package config loads the audplay YAML configuration and watches it for
// changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audplay/equalizer"
	"github.com/ik5/audplay/internal/logging"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Output     Output     `yaml:"output"`
	Engine     Engine     `yaml:"engine"`
	Log        Log        `yaml:"log"`
	SettingsDB string     `yaml:"settings_db"`
	Equalizer  *Equalizer `yaml:"equalizer,omitempty"`
}

// Output describes the device stream.
type Output struct {
	SampleRate int           `yaml:"sample_rate"`
	Channels   int           `yaml:"channels"`
	Buffer     time.Duration `yaml:"buffer"` // 0 lets the driver decide
}

type Engine struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Equalizer optionally seeds the equalizer. Preset takes precedence over
// Bands.
type Equalizer struct {
	Enabled  *bool     `yaml:"enabled,omitempty"`
	PreampDB float32   `yaml:"preamp_db"`
	Preset   string    `yaml:"preset,omitempty"`
	Bands    []float32 `yaml:"bands,omitempty"`
}

func Default() Config {
	return Config{
		Output: Output{SampleRate: 44100, Channels: 2},
		Engine: Engine{PollInterval: 100 * time.Millisecond},
		Log:    Log{Level: "INFO", Format: "console"},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Output.SampleRate < 8000 || c.Output.SampleRate > 384000 {
		fail("output.sample_rate %d out of range [8000, 384000]", c.Output.SampleRate)
	}
	if c.Output.Channels < 1 || c.Output.Channels > 8 {
		fail("output.channels %d out of range [1, 8]", c.Output.Channels)
	}
	if c.Output.Buffer < 0 {
		fail("output.buffer must not be negative")
	}
	if c.Engine.PollInterval <= 0 {
		fail("engine.poll_interval must be positive")
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		fail("log.level %q unknown", c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "console" && f != "json" {
		fail("log.format %q must be console or json", c.Log.Format)
	}
	if c.Equalizer != nil {
		if _, err := c.Equalizer.Resolve(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Resolve turns the section into a preset. A named preset supplies its own
// gains and preamp; otherwise Bands and PreampDB form a custom preset.
func (e Equalizer) Resolve() (equalizer.Preset, error) {
	if e.Preset != "" {
		p, ok := equalizer.PresetByName(e.Preset)
		if !ok {
			return equalizer.Preset{}, fmt.Errorf("%w: equalizer.preset %q unknown", ErrInvalid, e.Preset)
		}
		return p, nil
	}

	if len(e.Bands) != 0 && len(e.Bands) != equalizer.BandCount {
		return equalizer.Preset{}, fmt.Errorf("%w: equalizer.bands needs %d values, got %d",
			ErrInvalid, equalizer.BandCount, len(e.Bands))
	}
	if !inGainRange(e.PreampDB) {
		return equalizer.Preset{}, fmt.Errorf("%w: equalizer.preamp_db %v out of range", ErrInvalid, e.PreampDB)
	}

	p := equalizer.Preset{Name: equalizer.CustomPreset, PreampDB: e.PreampDB}
	for i, g := range e.Bands {
		if !inGainRange(g) {
			return equalizer.Preset{}, fmt.Errorf("%w: equalizer.bands[%d] %v out of range", ErrInvalid, i, g)
		}
		p.Bands[i] = g
	}
	return p, nil
}

func inGainRange(v float32) bool {
	return v >= equalizer.MinGainDB && v <= equalizer.MaxGainDB
}
