// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package routefile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"rivaas.dev/routematch"
)

// ErrWatcherClosed is returned by Run when the watcher was closed.
var ErrWatcherClosed = errors.New("route file watcher closed")

// Watcher reloads an Engine whenever its route file changes. A file that
// fails to load or build leaves the engine's current table in place.
type Watcher struct {
	path   string
	engine *routematch.Engine
	opts   *options
	fs     *fsnotify.Watcher

	reloads  atomic.Uint64
	failures atomic.Uint64
}

// NewWatcher watches path for changes. The file's directory is watched
// rather than the file, so editors that replace files atomically are seen.
func NewWatcher(path string, engine *routematch.Engine, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("routefile: resolving %s: %w", path, err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("routefile: failed to create file watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("routefile: watching %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:   abs,
		engine: engine,
		opts:   newOptions(opts),
		fs:     fs,
	}, nil
}

// Reload loads the file and swaps it into the engine.
func (w *Watcher) Reload(ctx context.Context) error {
	eps, err := load(ctx, w.path, w.opts)
	if err == nil {
		err = w.engine.Reload(eps)
	}

	if err != nil {
		w.failures.Add(1)
		w.opts.logger.Error("route file reload failed", "path", w.path, "error", err)
	} else {
		w.reloads.Add(1)
		w.opts.logger.Info("route file reloaded",
			"path", w.path,
			"routes", len(eps),
			"generation", w.engine.Generation())
	}

	if w.opts.onReload != nil {
		w.opts.onReload(err)
	}
	return err
}

// Run processes file events until ctx is done or the watcher is closed.
// Bursts of events are coalesced into one reload after the debounce
// interval. Run returns nil when ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if !w.relevant(event) {
				continue
			}
			w.opts.logger.Debug("route file changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.opts.debounce)
			} else {
				timer.Reset(w.opts.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			w.opts.logger.Warn("route file watcher error", "path", w.path, "error", err)

		case <-fire:
			fire = nil
			_ = w.Reload(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Stats returns the number of successful and failed reloads.
func (w *Watcher) Stats() (reloads, failures uint64) {
	return w.reloads.Load(), w.failures.Load()
}

// Close stops watching. A running Run returns ErrWatcherClosed.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
