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
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"rivaas.dev/routematch/cache"
	"rivaas.dev/routematch/compiler"
	"rivaas.dev/routematch/constraint"
)

// Table is an immutable set of compiled endpoints. Match may be called from
// any number of goroutines; only the match cache is shared mutable state.
type Table struct {
	cfg     *config
	inst    *instruments
	entries []*entry
	exact   *compiler.ExactIndex[*entry]
	tree    *compiler.Tree[*entry]
	cache   *cache.Cache[*Result] // nil when caching is disabled

	exactHits   atomic.Uint64
	treeLookups atomic.Uint64
	treeHits    atomic.Uint64
	misses      atomic.Uint64
	rejections  atomic.Uint64
}

// Stats is a snapshot of a table's shape and counters. Counters cover
// resolutions only; paths served from the cache are counted in Cache.
type Stats struct {
	StaticRoutes int                // Endpoints in the exact-match index
	TreeRoutes   int                // Endpoints in the tree
	Tree         compiler.TreeStats // Tree shape

	ExactHits   uint64 // Resolved by the exact-match index
	TreeLookups uint64 // Tree walks performed
	TreeHits    uint64 // Tree walks that matched
	Misses      uint64 // Resolutions that matched nothing
	Rejections  uint64 // Terminals rejected by constraints

	Cache cache.Stats
}

// Build compiles endpoints into a Table. Every endpoint is checked, and all
// failures are returned together as a joined error of *RouteError values.
// Endpoints are copied; the slice may be reused after Build returns.
func Build(endpoints []Endpoint, opts ...Option) (*Table, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	inst, err := newInstruments(cfg.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("routematch: creating instruments: %w", err)
	}

	t, err := build(endpoints, cfg, inst)
	if err != nil {
		inst.buildErrors.Add(context.Background(), 1)
		cfg.logger.Warn("route table build failed", "endpoints", len(endpoints), "error", err)
		return nil, err
	}
	inst.builds.Add(context.Background(), 1)
	return t, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(endpoints []Endpoint, opts ...Option) *Table {
	t, err := Build(endpoints, opts...)
	if err != nil {
		panic(fmt.Sprintf("routematch.MustBuild: %v", err))
	}
	return t
}

func build(endpoints []Endpoint, cfg *config, inst *instruments) (*Table, error) {
	start := time.Now()
	t := &Table{
		cfg:     cfg,
		inst:    inst,
		entries: make([]*entry, 0, len(endpoints)),
		exact:   compiler.NewExactIndex[*entry](),
	}
	builder := compiler.NewBuilder[*entry]()
	shapes := make(map[string]*entry)
	var errs []error

	for i := range endpoints {
		e, err := t.compile(i, &endpoints[i])
		if err != nil {
			errs = append(errs, &RouteError{Index: i, Template: endpoints[i].Template, Err: err})
			continue
		}

		if e.template.Static() {
			if prev, replaced := t.exact.Add(e.template.Raw, e); replaced {
				errs = append(errs, duplicateError(e, prev))
				continue
			}
		} else {
			displaced := builder.InsertTemplate(e.template, e)
			for _, prev := range displaced {
				errs = append(errs, duplicateError(e, prev))
			}
			if len(displaced) > 0 {
				continue
			}
		}

		t.entries = append(t.entries, e)
		cfg.diagnose(e, shapes)
		cfg.logger.Debug("route compiled",
			"template", e.template.Raw,
			"method", e.endpoint.Method,
			"static", e.template.Static(),
			"params", len(e.template.Params))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	t.tree = builder.Freeze(compiler.FreezeOptions[*entry]{
		Accept:    t.accept,
		Backtrack: cfg.backtrack,
	})

	// A static path can also be a tree terminal via an omitted optional
	// parameter. The exact index would always win, so treat it as a clash.
	for _, e := range t.entries {
		if !e.template.Static() {
			continue
		}
		if other, ok := t.tree.LiteralTerminal(e.template.Raw); ok {
			errs = append(errs, duplicateError(e, other))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	t.exact.Freeze(cfg.bloomSize, cfg.bloomHashFunctions)

	if cfg.cacheEnabled {
		t.cache = cache.New[*Result](
			cache.WithShards(cfg.cacheShards),
			cache.WithCapacity(cfg.cacheCapacity),
		)
	}

	st := t.tree.Stats()
	cfg.logger.Info("route table built",
		"routes", len(t.entries),
		"static", t.exact.Len(),
		"tree_routes", t.tree.Templates(),
		"tree_nodes", st.Nodes,
		"max_depth", st.MaxDepth,
		"cache", cfg.cacheEnabled,
		"duration", time.Since(start))

	return t, nil
}

// compile parses one endpoint's template and resolves its constraints.
func (t *Table) compile(index int, ep *Endpoint) (*entry, error) {
	tpl, err := compiler.ParseTemplate(ep.Template)
	if err != nil {
		return nil, err
	}

	for _, name := range slices.Sorted(maps.Keys(ep.Constraints)) {
		if !slices.Contains(tpl.Params, name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownConstraintParam, name)
		}
		if ep.Constraints[name] == nil {
			return nil, fmt.Errorf("%w: parameter %q", ErrNilConstraint, name)
		}
	}

	e := &entry{index: index, endpoint: ep.clone(), template: tpl}

	inline := tpl.Constraints()
	for _, name := range tpl.Params {
		var validators []constraint.Validator
		if exprs := inline[name]; len(exprs) > 0 {
			v, err := t.cfg.registry.ParseAll(exprs)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", name, err)
			}
			validators = append(validators, v)
		}
		if v := ep.Constraints[name]; v != nil {
			validators = append(validators, v)
		}
		if v := constraint.All(validators...); v != nil {
			e.checks = append(e.checks, boundConstraint{param: name, validator: v})
		}
	}

	if tpl.Static() {
		e.static = newResult(e, nil)
	}
	return e, nil
}

func duplicateError(e, prev *entry) error {
	return &RouteError{
		Index:    e.index,
		Template: e.endpoint.Template,
		Err:      fmt.Errorf("%w: conflicts with endpoint %d (%q)", ErrDuplicateRoute, prev.index, prev.endpoint.Template),
	}
}

func (t *Table) accept(e *entry, b *compiler.Bindings) bool {
	if e.accept(b) {
		return true
	}
	t.rejections.Add(1)
	t.inst.rejections.Add(context.Background(), 1)
	return false
}

// Match resolves path to an endpoint. Exact paths are served by the index
// without touching the tree; other paths are resolved by the tree with
// literal segments taking precedence over parameters. Failed constraints
// fold into a miss. An empty path is treated as "/", and a path without a
// leading slash is matched as if it had one.
func (t *Table) Match(path string) (*Result, bool) {
	path = normalizePath(path)
	if t.cache == nil {
		r, src := t.resolve(path)
		t.inst.recordMatch(src, r != nil)
		return r, r != nil
	}

	// Callers that wait on another goroutine's computation never run the
	// closure and are counted as shared.
	src := sourceShared
	r, cached := t.cache.GetOrCompute(path, func() *Result {
		var r *Result
		r, src = t.resolve(path)
		return r
	})
	if cached {
		src = sourceCache
	}
	t.inst.recordMatch(src, r != nil)
	return r, r != nil
}

// normalizePath gives the exact index, the tree and the cache one spelling
// of path.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if path[0] != '/' {
		return "/" + path
	}
	return path
}

func (t *Table) resolve(path string) (*Result, source) {
	if e, ok := t.exact.Lookup(path); ok {
		t.exactHits.Add(1)
		return e.static, sourceExact
	}
	if t.tree.Templates() == 0 {
		t.misses.Add(1)
		return nil, sourceNone
	}

	t.treeLookups.Add(1)
	b := compiler.AcquireBindings()
	defer compiler.ReleaseBindings(b)

	e, ok := t.tree.Match(path, b)
	if !ok {
		t.misses.Add(1)
		return nil, sourceNone
	}
	t.treeHits.Add(1)
	return newResult(e, b.All()), sourceTree
}

// ClearCache drops every cached match. Later matches recompute and produce
// the same results.
func (t *Table) ClearCache() {
	if t.cache != nil {
		t.cache.Clear()
	}
}

// CacheLen returns the number of cached paths, including cached misses.
func (t *Table) CacheLen() int {
	if t.cache == nil {
		return 0
	}
	return t.cache.Len()
}

// Endpoints returns copies of the table's endpoints in registration order.
func (t *Table) Endpoints() []Endpoint {
	out := make([]Endpoint, len(t.entries))
	for i, e := range t.entries {
		out[i] = *e.endpoint.clone()
	}
	return out
}

// Len returns the number of endpoints in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Stats returns a snapshot of the table's shape and counters.
func (t *Table) Stats() Stats {
	s := Stats{
		StaticRoutes: t.exact.Len(),
		TreeRoutes:   t.tree.Templates(),
		Tree:         t.tree.Stats(),
		ExactHits:    t.exactHits.Load(),
		TreeLookups:  t.treeLookups.Load(),
		TreeHits:     t.treeHits.Load(),
		Misses:       t.misses.Load(),
		Rejections:   t.rejections.Load(),
	}
	if t.cache != nil {
		s.Cache = t.cache.Stats()
	}
	return s
}

// Match resolves path against t. It is equivalent to t.Match(path).
func Match(t *Table, path string) (*Result, bool) {
	return t.Match(path)
}

// ClearCache drops every cached match of t.
func ClearCache(t *Table) {
	t.ClearCache()
}

func (c *config) diagnose(e *entry, shapes map[string]*entry) {
	tpl := e.template
	c.emit(DiagRouteRegistered, "route registered", map[string]any{
		"template": tpl.Raw,
		"method":   e.endpoint.Method,
		"params":   len(tpl.Params),
	})
	if len(tpl.Params) > c.paramWarnThreshold {
		c.emit(DiagHighParamCount, "route has a high parameter count", map[string]any{
			"template":  tpl.Raw,
			"params":    len(tpl.Params),
			"threshold": c.paramWarnThreshold,
		})
	}
	if tpl.Static() {
		return
	}

	for _, seg := range tpl.Segments {
		if seg.Optional {
			prefix := tpl.Raw[:seg.Offset-1]
			if prefix == "" {
				prefix = "/"
			}
			c.emit(DiagOptionalPrefix, "optional parameter also matches the shorter path", map[string]any{
				"template": tpl.Raw,
				"path":     prefix,
			})
			break
		}
	}

	key := shapeKey(tpl)
	prev, ok := shapes[key]
	if !ok {
		shapes[key] = e
		return
	}
	if len(prev.checks) == 0 || !c.backtrack {
		c.emit(DiagRouteShadowed, "route is unreachable behind an earlier route of the same shape", map[string]any{
			"template":    tpl.Raw,
			"shadowed_by": prev.template.Raw,
		})
	}
}

// shapeKey renders a template with parameter names and constraints removed.
// Templates with equal keys compete for the same paths.
func shapeKey(tpl *compiler.Template) string {
	var sb strings.Builder
	for _, seg := range tpl.Segments {
		sb.WriteByte('/')
		switch seg.Kind {
		case compiler.SegmentLiteral:
			sb.WriteString(seg.Literal)
		default:
			sb.WriteString(seg.Literal)
			sb.WriteString("{}")
			if seg.Optional {
				sb.WriteByte('?')
			}
			sb.WriteString(seg.Suffix)
		}
	}
	return sb.String()
}
