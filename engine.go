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

package routematch

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// Engine serves matches from a Table that can be replaced at runtime.
// Reload builds the new table off to the side and swaps it in atomically;
// a Match that loaded the old table completes against it.
type Engine struct {
	current    atomic.Pointer[Table]
	generation atomic.Uint64
	reloads    atomic.Uint64
	failures   atomic.Uint64

	mu     sync.Mutex // serializes Reload
	opts   []Option
	logger *slog.Logger
}

// NewEngine builds the initial table from endpoints. The options apply to
// every table the engine builds.
func NewEngine(endpoints []Endpoint, opts ...Option) (*Engine, error) {
	t, err := Build(endpoints, opts...)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		opts:   slices.Clone(opts),
		logger: t.cfg.logger,
	}
	e.current.Store(t)
	e.generation.Store(1)
	return e, nil
}

// Match resolves path against the current table.
func (e *Engine) Match(path string) (*Result, bool) {
	return e.current.Load().Match(path)
}

// Table returns the current table.
func (e *Engine) Table() *Table {
	return e.current.Load()
}

// Generation returns the number of tables the engine has served, starting
// at 1 for the initial table.
func (e *Engine) Generation() uint64 {
	return e.generation.Load()
}

// Reload replaces the current table with one built from endpoints. If the
// build fails, the current table stays in place and the error is returned.
// The retired table's cache is cleared after the swap.
func (e *Engine) Reload(endpoints []Endpoint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := Build(endpoints, e.opts...)
	if err != nil {
		e.failures.Add(1)
		e.logger.Error("route table reload failed", "generation", e.generation.Load(), "error", err)
		return err
	}

	old := e.current.Swap(t)
	gen := e.generation.Add(1)
	e.reloads.Add(1)
	old.ClearCache()

	e.logger.Info("route table reloaded",
		"generation", gen,
		"routes", t.Len(),
		"previous_routes", old.Len())
	return nil
}

// ClearCache drops the current table's cached matches.
func (e *Engine) ClearCache() {
	e.current.Load().ClearCache()
}

// EngineStats extends the current table's Stats with reload counters.
type EngineStats struct {
	Stats
	Generation     uint64
	Reloads        uint64
	ReloadFailures uint64
}

// Stats returns the current table's stats and the engine's reload counters.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Stats:          e.current.Load().Stats(),
		Generation:     e.generation.Load(),
		Reloads:        e.reloads.Load(),
		ReloadFailures: e.failures.Load(),
	}
}
