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

package compiler

import (
	"sort"
	"strings"
)

// edge is a literal child. Slices of edges replace maps after Freeze.
type edge[E comparable] struct {
	label string
	node  *Node[E]
}

// paramEdge is a parameter child. A non-empty suffix must end the segment
// and is not part of the captured value.
type paramEdge[E comparable] struct {
	name   string
	suffix string
	node   *Node[E]
}

// Node is a frozen tree vertex.
type Node[E comparable] struct {
	endpoint E
	terminal bool
	optional bool

	literals []edge[E]      // sorted by label
	prefixes []edge[E]      // mixed-segment prefixes, longest first
	params   []paramEdge[E] // suffixed edges first, then registration order
}

// Endpoint returns the endpoint attached to n, if any.
func (n *Node[E]) Endpoint() (E, bool) {
	return n.endpoint, n.terminal
}

// Optional reports whether the parameter leading to n was declared optional.
func (n *Node[E]) Optional() bool {
	return n.optional
}

func (n *Node[E]) findLiteral(segment string) *Node[E] {
	lits := n.literals
	switch len(lits) {
	case 0:
		return nil
	case 1:
		if lits[0].label == segment {
			return lits[0].node
		}
		return nil
	}
	i := sort.Search(len(lits), func(i int) bool { return lits[i].label >= segment })
	if i < len(lits) && lits[i].label == segment {
		return lits[i].node
	}
	return nil
}

// TreeStats describes the shape of a frozen tree.
type TreeStats struct {
	Nodes     int // Vertices, including mixed-segment prefix vertices
	Terminals int // Vertices carrying an endpoint
	Params    int // Parameter edges
	MaxDepth  int // Deepest segment level
}

// Tree is an immutable route tree. Any number of goroutines may call Match
// concurrently.
type Tree[E comparable] struct {
	root      *Node[E]
	accept    func(E, *Bindings) bool
	backtrack bool
	templates int
	stats     TreeStats
}

// Root returns the root vertex.
func (t *Tree[E]) Root() *Node[E] {
	return t.root
}

// Stats returns shape statistics collected during Freeze.
func (t *Tree[E]) Stats() TreeStats {
	return t.stats
}

// Templates returns the number of templates the tree was built from.
func (t *Tree[E]) Templates() int {
	return t.templates
}

// Match resolves path against the tree, recording captures in b. On success
// b holds exactly the bindings of the matched path; on failure it is left
// empty. Captured values are substrings of path.
func (t *Tree[E]) Match(path string, b *Bindings) (E, bool) {
	s := search[E]{tree: t, b: b}

	var found bool
	if path == "/" || path == "" {
		found = s.terminal(t.root)
	} else {
		found = s.walk(t.root, path)
	}

	if !found {
		b.Reset()
		var zero E
		return zero, false
	}
	return s.result, true
}

// search carries the state of one Match call.
type search[E comparable] struct {
	tree   *Tree[E]
	b      *Bindings
	result E
	stop   bool // a terminal rejected its bindings and backtracking is off
}

func (s *search[E]) terminal(n *Node[E]) bool {
	if !n.terminal {
		return false
	}
	if s.tree.accept == nil || s.tree.accept(n.endpoint, s.b) {
		s.result = n.endpoint
		return true
	}
	if !s.tree.backtrack {
		s.stop = true
	}
	return false
}

// walk matches the remaining path below n. Literal edges are tried before
// mixed-segment prefixes, and those before whole-segment parameters.
func (s *search[E]) walk(n *Node[E], path string) bool {
	if path == "" {
		return s.terminal(n)
	}
	if path[0] == '/' {
		path = path[1:]
	}

	segment, rest := path, ""
	if i := strings.IndexByte(path, '/'); i >= 0 {
		segment, rest = path[:i], path[i:]
	}
	if segment == "" {
		return false
	}

	if child := n.findLiteral(segment); child != nil {
		if s.walk(child, rest) {
			return true
		}
		if s.stop {
			return false
		}
	}

	for i := range n.prefixes {
		p := &n.prefixes[i]
		value, ok := strings.CutPrefix(segment, p.label)
		if !ok || value == "" {
			continue
		}
		if s.params(p.node, value, rest) {
			return true
		}
		if s.stop {
			return false
		}
	}

	return s.params(n, segment, rest)
}

// params tries every parameter edge of n against value.
func (s *search[E]) params(n *Node[E], value, rest string) bool {
	for i := range n.params {
		p := &n.params[i]
		captured := value
		if p.suffix != "" {
			trimmed, ok := strings.CutSuffix(value, p.suffix)
			if !ok {
				continue
			}
			captured = trimmed
		}
		if captured == "" {
			continue
		}

		mark := s.b.mark()
		s.b.push(p.name, captured)
		if s.walk(p.node, rest) {
			return true
		}
		s.b.truncate(mark)
		if s.stop {
			return false
		}
	}
	return false
}

// LiteralTerminal follows only literal edges along path and returns the
// endpoint at the node it reaches. It finds terminals that a fully literal
// path shares with the tree, such as the parent of an optional parameter.
func (t *Tree[E]) LiteralTerminal(path string) (E, bool) {
	n := t.root
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		if segment == "" {
			continue
		}
		if n = n.findLiteral(segment); n == nil {
			var zero E
			return zero, false
		}
	}
	return n.Endpoint()
}
