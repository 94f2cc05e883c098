// SPDX-License-Identifier: EPL-2.0

package audplay

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ik5/audplay/config"
	"github.com/ik5/audplay/engine"
	"github.com/ik5/audplay/equalizer"
	"github.com/ik5/audplay/output"
	"github.com/ik5/audplay/store"
)

var ErrNoSettingsDB = errors.New("no settings database configured")

// Player is an engine controller with its equalizer settings persisted.
type Player struct {
	*engine.Controller

	log      *zap.Logger
	settings *store.SQLite
}

// PlayerOptions overrides parts of the wiring, mainly for tests.
type PlayerOptions struct {
	// OpenDevice defaults to the system audio driver.
	OpenDevice func() (output.Device, error)
}

// NewPlayer builds the equalizer from the settings database (falling back
// to the config's equalizer section, then to a flat curve) and starts the
// engine on the configured output device.
func NewPlayer(ctx context.Context, cfg config.Config, log *zap.Logger, opts PlayerOptions) (*Player, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.OpenDevice == nil {
		out := output.OtoConfig{
			SampleRate: cfg.Output.SampleRate,
			Channels:   cfg.Output.Channels,
			Buffer:     cfg.Output.Buffer,
		}
		opts.OpenDevice = func() (output.Device, error) {
			return output.OpenOto(out)
		}
	}

	eq := equalizer.NewStore(equalizer.DefaultSettings())
	p := &Player{log: log}

	restored := false
	if cfg.SettingsDB != "" {
		db, err := store.Open(cfg.SettingsDB)
		if err != nil {
			return nil, err
		}
		p.settings = db

		saved, ok, err := db.Load(ctx)
		if err != nil {
			db.Close()
			return nil, err
		}
		if ok {
			eq.Replace(saved)
			restored = true
			log.Debug("equalizer restored", zap.String("preset", saved.PresetName))
		}
	}
	if !restored && cfg.Equalizer != nil {
		if err := seedEqualizer(eq, *cfg.Equalizer); err != nil {
			p.closeSettings()
			return nil, err
		}
	}

	ctl, err := engine.New(engine.Options{
		OpenDevice:   opts.OpenDevice,
		Registry:     DefaultRegistry(),
		Equalizer:    eq,
		Logger:       log,
		PollInterval: cfg.Engine.PollInterval,
	})
	if err != nil {
		p.closeSettings()
		return nil, err
	}
	p.Controller = ctl

	return p, nil
}

func seedEqualizer(eq *equalizer.Store, section config.Equalizer) error {
	preset, err := section.Resolve()
	if err != nil {
		return err
	}

	eq.SetPreset(preset.Bands, preset.PreampDB, preset.Name)
	if section.Enabled != nil {
		eq.SetEnabled(*section.Enabled)
	}
	return nil
}

// ApplyConfig sends the equalizer section of a reloaded config to the
// engine. Other sections only take effect on restart.
func (p *Player) ApplyConfig(cfg config.Config) error {
	if cfg.Equalizer == nil {
		return nil
	}

	preset, err := cfg.Equalizer.Resolve()
	if err != nil {
		return err
	}
	if err := p.ApplyPreset(preset); err != nil {
		return err
	}
	if cfg.Equalizer.Enabled != nil {
		return p.SetEqEnabled(*cfg.Equalizer.Enabled)
	}
	return nil
}

// SaveSettings stores the current equalizer settings.
func (p *Player) SaveSettings(ctx context.Context) error {
	if p.settings == nil {
		return ErrNoSettingsDB
	}
	if err := p.settings.Save(ctx, p.EqualizerSettings()); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Close stops the engine and closes the settings database.
func (p *Player) Close() error {
	return errors.Join(p.Controller.Close(), p.closeSettings())
}

func (p *Player) closeSettings() error {
	if p.settings == nil {
		return nil
	}
	err := p.settings.Close()
	p.settings = nil
	return err
}
