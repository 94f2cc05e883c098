// SPDX-License-Identifier: EPL-2.0

// Command audplay is an interactive audio player with a five band
// equalizer. It can also render a file through the equalizer to WAV.
//
//	audplay [-config file] [file]
//	audplay [-config file] render [-preset name] [-rate hz] [-channels n] in out.wav
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/ik5/audplay"
	"github.com/ik5/audplay/config"
	"github.com/ik5/audplay/equalizer"
	"github.com/ik5/audplay/internal/logging"
	"github.com/ik5/audplay/store"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("audplay", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "YAML configuration file")
	dbPath := fs.String("db", "", "equalizer settings database (overrides settings_db)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	switch {
	case *dbPath != "":
		cfg.SettingsDB = *dbPath
	case cfg.SettingsDB == "":
		cfg.SettingsDB = defaultSettingsDB()
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rest := fs.Args()
	if len(rest) > 0 && rest[0] == "render" {
		if err := runRender(ctx, cfg, rest[1:], os.Stdout); err != nil {
			log.Error("render failed", zap.Error(err))
			return 1
		}
		return 0
	}

	if err := runShell(ctx, cfg, *cfgPath, log, rest); err != nil {
		log.Error("audplay", zap.Error(err))
		return 1
	}
	return 0
}

// newLogger builds the logger from the config log section. The
// environment level, when set, wins over the file.
func newLogger(section config.Log) (*zap.Logger, error) {
	lc := logging.DefaultConfig()
	if _, ok := logging.ParseLevel(os.Getenv(logging.EnvLevel)); !ok {
		lc.Level, _ = logging.ParseLevel(section.Level)
	}
	if section.Format != "" {
		lc.Format = section.Format
	}
	return logging.New(lc)
}

func defaultSettingsDB() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "audplay")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "settings.db")
}

func runShell(ctx context.Context, cfg config.Config, cfgPath string, log *zap.Logger, files []string) error {
	p, err := audplay.NewPlayer(ctx, cfg, log, audplay.PlayerOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Warn("close", zap.Error(err))
		}
	}()

	if cfgPath != "" {
		w, err := config.Watch(cfgPath, log, func(c config.Config) {
			if err := p.ApplyConfig(c); err != nil {
				log.Warn("config not applied", zap.Error(err))
			}
		})
		if err != nil {
			log.Warn("config watch disabled", zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	if len(files) > 0 {
		if err := p.Play(files[0]); err != nil {
			return err
		}
		// one track can be queued ahead
		if len(files) > 1 {
			if err := p.PreloadNext(files[1]); err != nil {
				return err
			}
		}
	}

	items := make([]readline.PrefixCompleterInterface, 0, len(completions))
	for _, c := range completions {
		switch c {
		case "play", "next":
			items = append(items, readline.PcItem(c, readline.PcItemDynamic(listFiles)))
		default:
			items = append(items, readline.PcItem(c))
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "audplay> ",
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sh := &shell{p: p, out: rl.Stdout()}
	go func() {
		select {
		case <-ctx.Done():
			rl.Close()
		case <-p.Done():
			rl.Close()
		}
	}()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if err != nil {
			// io.EOF, a signal, or the engine stopped
			if e := p.Err(); e != nil {
				return e
			}
			return nil
		}

		quit, err := sh.exec(ctx, line)
		if err != nil {
			fmt.Fprintln(rl.Stderr(), err)
		}
		if quit {
			return nil
		}
	}
}

// listFiles completes the path under the cursor.
func listFiles(line string) []string {
	_, partial, _ := strings.Cut(strings.TrimLeft(line, " "), " ")
	dir := filepath.Dir(partial)
	if partial == "" || strings.HasSuffix(partial, string(filepath.Separator)) {
		dir = partial
	}
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if dir != "." || strings.HasPrefix(partial, "./") {
			name = filepath.Join(dir, name)
		}
		if e.IsDir() {
			name += string(filepath.Separator)
		}
		names = append(names, name)
	}
	return names
}

func runRender(ctx context.Context, cfg config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	preset := fs.String("preset", "", "equalizer preset (default: saved settings)")
	rate := fs.Int("rate", cfg.Output.SampleRate, "output sample rate")
	channels := fs.Int("channels", cfg.Output.Channels, "output channels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: render [flags] in out.wav")
	}

	eq, err := renderEqualizer(ctx, cfg, *preset)
	if err != nil {
		return err
	}

	src, err := audplay.DefaultRegistry().Open(fs.Arg(0))
	if err != nil {
		return err
	}

	out, err := os.Create(fs.Arg(1))
	if err != nil {
		src.Close()
		return err
	}

	frames, err := audplay.Render(src, eq, audplay.RenderOptions{
		SampleRate: *rate,
		Channels:   *channels,
		BufferSize: 4096,
	}, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s: %d frames, %.2fs at %d Hz\n",
		fs.Arg(1), frames, float64(frames)/float64(*rate), *rate)
	return nil
}

// renderEqualizer picks the curve for an offline render: the named preset,
// else the saved settings, else the config equalizer section.
func renderEqualizer(ctx context.Context, cfg config.Config, preset string) (*equalizer.Store, error) {
	eq := equalizer.NewStore(equalizer.DefaultSettings())

	if preset != "" {
		p, ok := equalizer.PresetByName(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
		eq.SetPreset(p.Bands, p.PreampDB, p.Name)
		return eq, nil
	}

	if cfg.SettingsDB != "" {
		if _, err := os.Stat(cfg.SettingsDB); err == nil {
			db, err := store.Open(cfg.SettingsDB)
			if err != nil {
				return nil, err
			}
			defer db.Close()

			saved, ok, err := db.Load(ctx)
			if err != nil {
				return nil, err
			}
			if ok {
				eq.Replace(saved)
				return eq, nil
			}
		}
	}

	if cfg.Equalizer != nil {
		p, err := cfg.Equalizer.Resolve()
		if err != nil {
			return nil, err
		}
		eq.SetPreset(p.Bands, p.PreampDB, p.Name)
		if cfg.Equalizer.Enabled != nil {
			eq.SetEnabled(*cfg.Equalizer.Enabled)
		}
	}
	return eq, nil
}
