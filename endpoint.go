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
	"maps"

	"rivaas.dev/routematch/compiler"
	"rivaas.dev/routematch/constraint"
)

// Endpoint is one route registration: a template with the value to return
// when a path matches it.
//
// Build copies the endpoint, so the caller may reuse or modify it afterwards.
// Handler is stored by reference and never inspected.
type Endpoint struct {
	// Template is the route template, e.g. "/users/{id:int}" or
	// "/files/{name}.pdf". A missing leading slash is added.
	Template string

	// Method is carried for the host's use (e.g. HTTP method dispatch).
	// Matching does not consult it.
	Method string

	// Handler is the opaque value delivered with a match.
	Handler any

	// Constraints maps parameter names to additional validators. They are
	// combined with any inline constraints declared in the template.
	Constraints map[string]constraint.Validator

	// Metadata is free-form data returned with the endpoint.
	Metadata map[string]string
}

// clone returns a copy that shares nothing mutable with e.
func (e Endpoint) clone() *Endpoint {
	out := e
	out.Constraints = maps.Clone(e.Constraints)
	out.Metadata = maps.Clone(e.Metadata)
	return &out
}

// boundConstraint is a validator attached to one named parameter.
type boundConstraint struct {
	param     string
	validator constraint.Validator
}

// entry is a compiled endpoint as stored in the table.
type entry struct {
	index    int
	endpoint *Endpoint
	template *compiler.Template
	checks   []boundConstraint // in template parameter order
	static   *Result           // shared result for parameterless templates
}

// accept validates the captured parameters against the endpoint's
// constraints. A parameter that was not captured (an omitted optional
// segment) is not checked.
func (e *entry) accept(b *compiler.Bindings) bool {
	for _, c := range e.checks {
		value, ok := b.Get(c.param)
		if !ok {
			continue
		}
		if !c.validator.Valid(value) {
			return false
		}
	}
	return true
}
