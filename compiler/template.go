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

import "strings"

// SegmentKind classifies one "/"-delimited template segment.
type SegmentKind uint8

const (
	// SegmentLiteral matches its text exactly ("users").
	SegmentLiteral SegmentKind = iota
	// SegmentParam captures the whole segment ("{id}", "{id:int}", "{id?}").
	SegmentParam
	// SegmentMixed captures part of the segment between literal text ("v{version}", "{name}.json").
	SegmentMixed
)

// String returns the kind name.
func (k SegmentKind) String() string {
	switch k {
	case SegmentLiteral:
		return "literal"
	case SegmentParam:
		return "param"
	case SegmentMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// Segment is one parsed template segment.
type Segment struct {
	Kind        SegmentKind
	Literal     string   // Text for literal segments, prefix for mixed segments
	Suffix      string   // Literal text after the closing brace (mixed only)
	Name        string   // Parameter name without constraints or '?'
	Constraints []string // Constraint expressions in declaration order
	Optional    bool     // Declared with a trailing '?'
	Offset      int      // Byte offset of the segment in Template.Raw
}

// Template is a parsed route template.
type Template struct {
	Raw      string    // Normalized template text
	Segments []Segment // Empty for the root template "/"
	Params   []string  // Parameter names in declaration order
}

// Static reports whether the template has no parameters. Static templates are
// served by the exact-match index and never enter the tree.
func (t *Template) Static() bool {
	return len(t.Params) == 0
}

// Constraints returns the inline constraint expressions keyed by parameter
// name. Parameters without constraints are omitted.
func (t *Template) Constraints() map[string][]string {
	var out map[string][]string
	for i := range t.Segments {
		seg := &t.Segments[i]
		if len(seg.Constraints) == 0 {
			continue
		}
		if out == nil {
			out = make(map[string][]string)
		}
		out[seg.Name] = seg.Constraints
	}
	return out
}

// Normalize trims surrounding whitespace and ensures a leading slash.
// A blank template stays blank.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw[0] == '/' {
		return raw
	}
	return "/" + raw
}

// SplitTemplate splits a normalized template into raw segments. Slashes
// inside braces do not split, so constraint arguments may contain "/".
func SplitTemplate(template string) ([]string, error) {
	segs, _, err := splitTemplate(template)
	return segs, err
}

func splitTemplate(tpl string) ([]string, []int, error) {
	if tpl == "/" {
		return nil, nil, nil
	}

	segs := make([]string, 0, strings.Count(tpl, "/"))
	offs := make([]int, 0, cap(segs))
	depth := 0
	start := 1

	for i := 1; i < len(tpl); i++ {
		switch tpl[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return nil, nil, &TemplateError{Template: tpl, Offset: i, Err: ErrUnbalancedBraces}
			}
			depth--
		case '/':
			if depth > 0 {
				continue
			}
			if i == start {
				return nil, nil, &TemplateError{Template: tpl, Offset: i, Err: ErrEmptySegment}
			}
			segs = append(segs, tpl[start:i])
			offs = append(offs, start)
			start = i + 1
		}
	}

	if depth != 0 {
		return nil, nil, &TemplateError{Template: tpl, Offset: len(tpl), Err: ErrUnbalancedBraces}
	}
	if start >= len(tpl) {
		return nil, nil, &TemplateError{Template: tpl, Offset: len(tpl) - 1, Err: ErrEmptySegment}
	}

	segs = append(segs, tpl[start:])
	offs = append(offs, start)
	return segs, offs, nil
}

// ParseTemplate normalizes and parses a route template.
func ParseTemplate(raw string) (*Template, error) {
	tpl := Normalize(raw)
	if tpl == "" {
		return nil, &TemplateError{Template: raw, Err: ErrEmptyTemplate}
	}

	parts, offs, err := splitTemplate(tpl)
	if err != nil {
		return nil, err
	}

	t := &Template{Raw: tpl, Segments: make([]Segment, 0, len(parts))}
	for i, part := range parts {
		seg, err := parseSegment(tpl, part, offs[i])
		if err != nil {
			return nil, err
		}
		if seg.Kind != SegmentLiteral {
			for _, name := range t.Params {
				if name == seg.Name {
					return nil, &TemplateError{Template: tpl, Offset: seg.Offset, Err: ErrDuplicateParam}
				}
			}
			t.Params = append(t.Params, seg.Name)
		}
		t.Segments = append(t.Segments, seg)
	}

	return t, nil
}

func parseSegment(tpl, part string, off int) (Segment, error) {
	open := strings.IndexByte(part, '{')
	if open < 0 {
		return Segment{Kind: SegmentLiteral, Literal: part, Offset: off}, nil
	}

	closing := -1
	depth := 0
scan:
	for i := open; i < len(part); i++ {
		switch part[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				closing = i
				break scan
			}
		}
	}
	if closing < 0 {
		return Segment{}, &TemplateError{Template: tpl, Offset: off + open, Err: ErrUnbalancedBraces}
	}

	prefix, body, suffix := part[:open], part[open+1:closing], part[closing+1:]
	if strings.ContainsAny(suffix, "{}") {
		return Segment{}, &TemplateError{Template: tpl, Offset: off + closing + 1, Err: ErrMultipleParams}
	}

	seg := Segment{Kind: SegmentParam, Offset: off}
	if prefix != "" || suffix != "" {
		seg.Kind = SegmentMixed
		seg.Literal = prefix
		seg.Suffix = suffix
	}

	if b, ok := strings.CutSuffix(body, "?"); ok {
		seg.Optional = true
		body = b
	}

	name, rest, hasConstraints := strings.Cut(body, ":")
	if n, ok := strings.CutSuffix(name, "?"); ok && hasConstraints {
		// "{id?:int}" is accepted as a spelling of "{id:int?}".
		seg.Optional = true
		name = n
	}
	if name == "" {
		return Segment{}, &TemplateError{Template: tpl, Offset: off + open, Err: ErrEmptyParamName}
	}
	if !validParamName(name) {
		return Segment{}, &TemplateError{Template: tpl, Offset: off + open, Err: ErrInvalidParamName}
	}
	seg.Name = name

	if hasConstraints {
		seg.Constraints = splitConstraints(rest)
		for _, c := range seg.Constraints {
			if c == "" {
				return Segment{}, &TemplateError{Template: tpl, Offset: off + open, Err: ErrEmptyConstraint}
			}
		}
	}

	if seg.Optional && seg.Kind == SegmentMixed {
		return Segment{}, &TemplateError{Template: tpl, Offset: off, Err: ErrOptionalMixed}
	}

	return seg, nil
}

// splitConstraints splits "int:range(1,10)" on colons outside parentheses.
func splitConstraints(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := range len(s) {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

func validParamName(name string) bool {
	for i := range len(name) {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-', c == '.':
		default:
			return false
		}
	}
	return true
}
