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

import "rivaas.dev/routematch/compiler"

// Result is a successful match. It is immutable and safe to share between
// goroutines; cached results are returned to every caller of the same path.
type Result struct {
	endpoint *Endpoint
	template string
	params   []compiler.Param
}

func newResult(e *entry, params []compiler.Param) *Result {
	r := &Result{endpoint: e.endpoint, template: e.template.Raw}
	if len(params) > 0 {
		r.params = make([]compiler.Param, len(params))
		copy(r.params, params)
	}
	return r
}

// Endpoint returns the matched endpoint. The returned value belongs to the
// table and must not be modified.
func (r *Result) Endpoint() *Endpoint {
	return r.endpoint
}

// Handler returns the matched endpoint's handler.
func (r *Result) Handler() any {
	return r.endpoint.Handler
}

// Template returns the normalized template that matched.
func (r *Result) Template() string {
	return r.template
}

// Param returns the captured value of the named parameter. Omitted optional
// parameters are absent.
func (r *Result) Param(name string) (string, bool) {
	for i := range r.params {
		if r.params[i].Key == name {
			return r.params[i].Value, true
		}
	}
	return "", false
}

// Params returns the captured parameters as a new map.
func (r *Result) Params() map[string]string {
	out := make(map[string]string, len(r.params))
	for _, p := range r.params {
		out[p.Key] = p.Value
	}
	return out
}

// Len returns the number of captured parameters.
func (r *Result) Len() int {
	return len(r.params)
}

// Each calls fn for every captured parameter in path order until fn
// returns false.
func (r *Result) Each(fn func(name, value string) bool) {
	for _, p := range r.params {
		if !fn(p.Key, p.Value) {
			return
		}
	}
}
