// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a config file whenever it is written or replaced.
type Watcher struct {
	path     string
	log      *zap.Logger
	watcher  *fsnotify.Watcher
	onChange func(Config)
	closed   chan struct{}
	done     chan struct{}
	once     sync.Once
	err      error
}

// Watch calls onChange with every valid new version of the file at path.
// Invalid versions are logged and skipped. The parent directory is watched
// so editors that replace the file are noticed.
func Watch(path string, log *zap.Logger, onChange func(Config)) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}

	w := &Watcher{
		path:     abs,
		log:      log,
		watcher:  fw,
		onChange: onChange,
		closed:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.loop()

	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case <-w.closed:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			cfg, err := Load(w.path)
			if err != nil {
				w.log.Warn("config reload failed", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.log.Info("config reloaded", zap.String("path", w.path))
			w.onChange(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", zap.Error(err))
		}
	}
}

// Close stops watching and waits for the reload goroutine to exit.
func (w *Watcher) Close() error {
	w.once.Do(func() {
		close(w.closed)
		w.err = w.watcher.Close()
		<-w.done
	})
	return w.err
}
