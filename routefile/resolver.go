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

// HandlerResolver maps handler names from a route file to handler values.
type HandlerResolver interface {
	Resolve(name string) (any, bool)
}

// Handlers is a HandlerResolver backed by a map.
type Handlers map[string]any

// Resolve returns the handler registered under name.
func (h Handlers) Resolve(name string) (any, bool) {
	v, ok := h[name]
	return v, ok
}

// ResolverFunc is a function adapter for HandlerResolver.
type ResolverFunc func(name string) (any, bool)

func (f ResolverFunc) Resolve(name string) (any, bool) {
	return f(name)
}
