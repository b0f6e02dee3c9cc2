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

// Package constraint provides pluggable validators for captured route
// parameters.
//
// A constraint is attached to a parameter name on a single endpoint. It is a
// pure predicate over the captured string: it never sees the request, never
// holds mutable state, and is safe to share across goroutines.
//
// Constraints are usually written inline in a route template and resolved
// through a [Registry] when the route table is built:
//
//	/orders/{id:int}
//	/files/{name:regex(^[a-z]+\.pdf$)}
//	/pages/{n:int:range(1,500)}
//
// Built-in names:
//
//	int, long, numeric, float, decimal, bool
//	alpha, alphanumeric, slug, guid, uuid, date, datetime
//	length(n), length(min,max), minlength(n), maxlength(n)
//	min(n), max(n), range(min,max)
//	regex(expr), enum(a|b|c)
//
// Custom constraints are registered by name:
//
//	reg := constraint.NewRegistry()
//	_ = reg.Register("even", func(arg string) (constraint.Validator, error) {
//	    return constraint.Func("must be even", func(v string) bool {
//	        n, err := strconv.Atoi(v)
//	        return err == nil && n%2 == 0
//	    }), nil
//	})
package constraint
