// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ik5/audplay/equalizer"
	"github.com/ik5/audplay/visualizer"
)

var (
	errUsage   = errors.New("usage")
	errUnknown = errors.New("unknown command, try help")
)

// player is what the shell drives; *audplay.Player satisfies it.
type player interface {
	Play(path string) error
	Pause() error
	Stop() error
	Seek(secs float64) error
	SetVolume(volume float32) error
	SetSpeed(speed float32) error
	PreloadNext(path string) error
	SetEqBand(band int, gainDB float32) error
	SetEqEnabled(enabled bool) error
	SetEqPreamp(preampDB float32) error
	ApplyPreset(p equalizer.Preset) error
	SaveSettings(ctx context.Context) error

	Position() float64
	IsPlaying() bool
	IsPaused() bool
	EqualizerSettings() equalizer.Settings
	VisualizerLevels() [visualizer.BandCount]float32
}

type shell struct {
	p   player
	out io.Writer
}

const helpText = `commands:
  play <file>          play a file now
  next <file>          continue with <file> when the current track ends
  pause                toggle pause
  stop                 stop playback
  seek <seconds>       jump within the current track
  vol <0..1>           output volume
  speed <0.25..4>      playback speed
  eq on|off            enable or bypass the equalizer
  eq band <1..5> <dB>  set one band gain (-12..12)
  eq preamp <dB>       set the preamp (-12..12)
  eq preset <name>     apply a built-in preset
  eq show              print the equalizer settings
  presets              list built-in presets
  pos                  print position and state
  levels               print visualizer levels
  save                 store the equalizer settings
  quit                 leave`

var completions = []string{
	"play", "next", "pause", "stop", "seek", "vol", "speed",
	"eq on", "eq off", "eq band", "eq preamp", "eq preset", "eq show",
	"presets", "pos", "levels", "save", "help", "quit",
}

// exec runs one input line. quit is true when the user asked to leave.
func (s *shell) exec(ctx context.Context, line string) (quit bool, err error) {
	cmd, rest := cut(line)

	switch cmd {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
		return false, nil
	case "play":
		if rest == "" {
			return false, fmt.Errorf("%w: play <file>", errUsage)
		}
		return false, s.p.Play(rest)
	case "next":
		if rest == "" {
			return false, fmt.Errorf("%w: next <file>", errUsage)
		}
		return false, s.p.PreloadNext(rest)
	case "pause":
		return false, s.p.Pause()
	case "stop":
		return false, s.p.Stop()
	case "seek":
		secs, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return false, fmt.Errorf("%w: seek <seconds>", errUsage)
		}
		return false, s.p.Seek(secs)
	case "vol", "volume":
		v, err := parseFloat32(rest)
		if err != nil {
			return false, fmt.Errorf("%w: vol <0..1>", errUsage)
		}
		return false, s.p.SetVolume(v)
	case "speed":
		v, err := parseFloat32(rest)
		if err != nil {
			return false, fmt.Errorf("%w: speed <0.25..4>", errUsage)
		}
		return false, s.p.SetSpeed(v)
	case "eq":
		return false, s.eq(rest)
	case "presets":
		for _, p := range equalizer.Presets() {
			fmt.Fprintf(s.out, "  %-12s %v preamp %+.1f dB\n", p.Name, p.Bands, p.PreampDB)
		}
		return false, nil
	case "pos":
		state := "stopped"
		switch {
		case s.p.IsPaused():
			state = "paused"
		case s.p.IsPlaying():
			state = "playing"
		}
		fmt.Fprintf(s.out, "%s %.1fs\n", state, s.p.Position())
		return false, nil
	case "levels":
		s.printLevels()
		return false, nil
	case "save":
		if err := s.p.SaveSettings(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "equalizer settings saved")
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", errUnknown, cmd)
	}
}

func (s *shell) eq(args string) error {
	sub, rest := cut(args)

	switch sub {
	case "on", "off":
		return s.p.SetEqEnabled(sub == "on")
	case "band":
		f := strings.Fields(rest)
		if len(f) != 2 {
			return fmt.Errorf("%w: eq band <1..5> <dB>", errUsage)
		}
		band, err := strconv.Atoi(f[0])
		if err != nil || band < 1 || band > equalizer.BandCount {
			return fmt.Errorf("%w: band must be 1..%d", errUsage, equalizer.BandCount)
		}
		gain, err := parseFloat32(f[1])
		if err != nil {
			return fmt.Errorf("%w: eq band <1..5> <dB>", errUsage)
		}
		return s.p.SetEqBand(band-1, gain)
	case "preamp":
		v, err := parseFloat32(rest)
		if err != nil {
			return fmt.Errorf("%w: eq preamp <dB>", errUsage)
		}
		return s.p.SetEqPreamp(v)
	case "preset":
		p, ok := equalizer.PresetByName(rest)
		if !ok {
			return fmt.Errorf("%w: no preset %q, see presets", errUsage, rest)
		}
		return s.p.ApplyPreset(p)
	case "show", "":
		st := s.p.EqualizerSettings()
		fmt.Fprintf(s.out, "enabled %v, preset %q, preamp %+.1f dB\n", st.Enabled, st.PresetName, st.PreampDB)
		for i, b := range st.Bands {
			fmt.Fprintf(s.out, "  %d %-6s %-10s %+5.1f dB\n", i+1, b.Label, b.FilterType, b.GainDB)
		}
		return nil
	default:
		return fmt.Errorf("%w: eq on|off|band|preamp|preset|show", errUsage)
	}
}

const barWidth = 30

func (s *shell) printLevels() {
	levels := s.p.VisualizerLevels()
	for i, v := range levels {
		n := int(v*barWidth + 0.5)
		fmt.Fprintf(s.out, "%6s |%-*s| %.2f\n", bandLabel(visualizer.Frequencies[i]), barWidth, strings.Repeat("#", n), v)
	}
}

func bandLabel(hz float64) string {
	if hz >= 1000 {
		return strconv.FormatFloat(hz/1000, 'f', -1, 64) + "k"
	}
	return strconv.FormatFloat(hz, 'f', -1, 64)
}

func cut(line string) (string, string) {
	head, tail, _ := strings.Cut(strings.TrimSpace(line), " ")
	return strings.ToLower(head), strings.TrimSpace(tail)
}

func parseFloat32(s string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	return float32(v), err
}
