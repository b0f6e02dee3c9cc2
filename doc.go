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

// Package routematch resolves request paths to registered endpoints.
//
// Endpoints are compiled once into an immutable [Table]. Fully literal
// templates go into an exact-match index; templates with parameters go into
// a segment tree that is searched with backtracking, literal segments first.
//
// # Templates
//
//	/users/me                literal
//	/users/{id}              parameter
//	/users/{id:int}          constrained parameter
//	/archive/{year:range(1990,2100)}/{month?}
//	/api/v{version}/status   mixed segment
//	/files/{name}.pdf        literal suffix
//
// Inline constraints are resolved through a [constraint.Registry]; more can
// be attached per parameter with [Endpoint.Constraints].
//
// # Quick Start
//
//	t, err := routematch.Build([]routematch.Endpoint{
//	    {Template: "/users/me", Handler: me},
//	    {Template: "/users/{id:int}", Handler: user},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if r, ok := t.Match("/users/42"); ok {
//	    id, _ := r.Param("id") // "42"
//	    _ = r.Handler()
//	}
//
// # Constraints and Backtracking
//
// Constraints are checked at the first terminal a path reaches. By default a
// failed check is a miss. With [WithConstraintBacktracking] the search goes on
// into sibling branches instead.
//
// # Caching and Reload
//
// Each table caches results per path, including misses. [Engine] holds the
// current table and swaps in a rebuilt one on [Engine.Reload]; the retired
// table's cache is cleared.
package routematch
