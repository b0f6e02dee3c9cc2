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

package constraint

import "strings"

// Validator reports whether a captured parameter value is acceptable.
// Implementations must be stateless and safe for concurrent use.
type Validator interface {
	// Valid reports whether value satisfies the constraint.
	Valid(value string) bool

	// Message describes the constraint for diagnostics, e.g. "must be an integer".
	Message() string
}

// funcValidator adapts a plain predicate to Validator.
type funcValidator struct {
	message string
	fn      func(string) bool
}

func (f funcValidator) Valid(value string) bool { return f.fn(value) }
func (f funcValidator) Message() string         { return f.message }

// Func returns a Validator backed by fn.
func Func(message string, fn func(value string) bool) Validator {
	return funcValidator{message: message, fn: fn}
}

// chain requires every member to accept the value.
type chain []Validator

func (c chain) Valid(value string) bool {
	for _, v := range c {
		if !v.Valid(value) {
			return false
		}
	}
	return true
}

func (c chain) Message() string {
	msgs := make([]string, 0, len(c))
	for _, v := range c {
		msgs = append(msgs, v.Message())
	}
	return strings.Join(msgs, "; ")
}

// All combines validators so that a value must satisfy each of them.
// Nil validators are skipped and nested chains are flattened. All returns nil
// when nothing remains, and the single validator unchanged when only one does.
func All(validators ...Validator) Validator {
	flat := make(chain, 0, len(validators))
	for _, v := range validators {
		switch v := v.(type) {
		case nil:
		case chain:
			flat = append(flat, v...)
		default:
			flat = append(flat, v)
		}
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return flat
	}
}

// Explain returns the message of the first validator in v that rejects
// value, or "" when value is accepted.
func Explain(v Validator, value string) string {
	if v == nil {
		return ""
	}
	if c, ok := v.(chain); ok {
		for _, member := range c {
			if !member.Valid(value) {
				return member.Message()
			}
		}
		return ""
	}
	if v.Valid(value) {
		return ""
	}
	return v.Message()
}
