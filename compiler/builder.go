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
	"cmp"
	"slices"
)

// buildNode is the mutable form of a tree vertex. Each child belongs to
// exactly one parent.
type buildNode[E comparable] struct {
	endpoint E
	terminal bool
	optional bool

	literals map[string]*buildNode[E]
	prefixes map[string]*buildNode[E]
	params   []*buildParam[E] // registration order
}

// buildParam is a parameter edge keyed by name and literal suffix.
type buildParam[E comparable] struct {
	name   string
	suffix string
	node   *buildNode[E]
}

func (n *buildNode[E]) literal(text string) *buildNode[E] {
	if n.literals == nil {
		n.literals = make(map[string]*buildNode[E], 4)
	}
	child := n.literals[text]
	if child == nil {
		child = &buildNode[E]{}
		n.literals[text] = child
	}
	return child
}

func (n *buildNode[E]) prefix(text string) *buildNode[E] {
	if n.prefixes == nil {
		n.prefixes = make(map[string]*buildNode[E], 2)
	}
	child := n.prefixes[text]
	if child == nil {
		child = &buildNode[E]{}
		n.prefixes[text] = child
	}
	return child
}

func (n *buildNode[E]) param(name, suffix string) *buildNode[E] {
	for _, p := range n.params {
		if p.name == name && p.suffix == suffix {
			return p.node
		}
	}
	p := &buildParam[E]{name: name, suffix: suffix, node: &buildNode[E]{}}
	n.params = append(n.params, p)
	return p.node
}

// Builder constructs a route tree. It is not safe for concurrent use; call
// Freeze once every template is inserted and share the resulting Tree.
type Builder[E comparable] struct {
	root  buildNode[E]
	count int
}

// NewBuilder returns an empty builder.
func NewBuilder[E comparable]() *Builder[E] {
	return &Builder[E]{}
}

// Insert parses raw and inserts it. See InsertTemplate.
func (b *Builder[E]) Insert(raw string, ep E) ([]E, error) {
	t, err := ParseTemplate(raw)
	if err != nil {
		return nil, err
	}
	return b.InsertTemplate(t, ep), nil
}

// InsertTemplate adds every terminal node t produces and attaches ep to them.
//
// The builder does not reject duplicates: a terminal node that already holds
// a different endpoint is overwritten, and the displaced endpoints are
// returned so the caller can refuse the registration.
//
// An optional parameter produces two paths, one through the parameter and one
// that skips the segment. A trailing optional parameter therefore also marks
// its parent node as terminal.
func (b *Builder[E]) InsertTemplate(t *Template, ep E) []E {
	var replaced []E
	b.insert(&b.root, t.Segments, ep, &replaced)
	b.count++
	return replaced
}

func (b *Builder[E]) insert(n *buildNode[E], segs []Segment, ep E, replaced *[]E) {
	if len(segs) == 0 {
		if n.terminal && n.endpoint != ep {
			*replaced = append(*replaced, n.endpoint)
		}
		n.endpoint = ep
		n.terminal = true
		return
	}

	seg, rest := &segs[0], segs[1:]
	switch seg.Kind {
	case SegmentLiteral:
		b.insert(n.literal(seg.Literal), rest, ep, replaced)

	case SegmentParam:
		child := n.param(seg.Name, "")
		if seg.Optional {
			child.optional = true
		}
		b.insert(child, rest, ep, replaced)
		if seg.Optional {
			b.insert(n, rest, ep, replaced)
		}

	case SegmentMixed:
		target := n
		if seg.Literal != "" {
			target = n.prefix(seg.Literal)
		}
		b.insert(target.param(seg.Name, seg.Suffix), rest, ep, replaced)
	}
}

// Len returns the number of templates inserted.
func (b *Builder[E]) Len() int {
	return b.count
}

// FreezeOptions configures the frozen tree.
type FreezeOptions[E comparable] struct {
	// Accept is consulted at the first terminal node a match reaches, with
	// the bindings captured along the way. A nil Accept accepts everything.
	Accept func(ep E, b *Bindings) bool

	// Backtrack continues the search into alternative branches when Accept
	// rejects a terminal. When false, the first rejection ends the match.
	Backtrack bool
}

// Freeze converts the builder into an immutable Tree. Literal children are
// sorted for binary search, mixed-segment prefixes longest first, and
// parameter edges with a literal suffix ahead of bare ones (registration
// order otherwise). The builder must not be used afterwards.
func (b *Builder[E]) Freeze(opts FreezeOptions[E]) *Tree[E] {
	t := &Tree[E]{
		accept:    opts.Accept,
		backtrack: opts.Backtrack,
		templates: b.count,
	}
	t.root = freezeNode(&b.root, &t.stats, 0)
	return t
}

func freezeNode[E comparable](bn *buildNode[E], st *TreeStats, depth int) *Node[E] {
	st.Nodes++
	st.MaxDepth = max(st.MaxDepth, depth)
	if bn.terminal {
		st.Terminals++
	}

	n := &Node[E]{
		endpoint: bn.endpoint,
		terminal: bn.terminal,
		optional: bn.optional,
	}

	if len(bn.literals) > 0 {
		n.literals = make([]edge[E], 0, len(bn.literals))
		for label, child := range bn.literals {
			n.literals = append(n.literals, edge[E]{label: label, node: freezeNode(child, st, depth+1)})
		}
		slices.SortFunc(n.literals, func(a, b edge[E]) int { return cmp.Compare(a.label, b.label) })
	}

	if len(bn.prefixes) > 0 {
		n.prefixes = make([]edge[E], 0, len(bn.prefixes))
		for label, child := range bn.prefixes {
			// The prefix vertex sits inside the segment, not below it.
			n.prefixes = append(n.prefixes, edge[E]{label: label, node: freezeNode(child, st, depth)})
		}
		slices.SortFunc(n.prefixes, func(a, b edge[E]) int {
			if c := cmp.Compare(len(b.label), len(a.label)); c != 0 {
				return c
			}
			return cmp.Compare(a.label, b.label)
		})
	}

	if len(bn.params) > 0 {
		n.params = make([]paramEdge[E], 0, len(bn.params))
		for _, p := range bn.params {
			st.Params++
			n.params = append(n.params, paramEdge[E]{name: p.name, suffix: p.suffix, node: freezeNode(p.node, st, depth+1)})
		}
		slices.SortStableFunc(n.params, func(a, b paramEdge[E]) int {
			return cmp.Compare(len(b.suffix), len(a.suffix))
		})
	}

	return n
}
