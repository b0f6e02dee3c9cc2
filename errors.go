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
	"errors"
	"fmt"

	"rivaas.dev/routematch/compiler"
)

var (
	// ErrDuplicateRoute indicates that two endpoints resolve to the same
	// terminal: equal static paths, equal templates, or a static path equal
	// to the prefix of an optional parameter.
	ErrDuplicateRoute = errors.New("duplicate route")

	// ErrUnknownConstraintParam indicates that an endpoint constrains a
	// parameter its template does not declare.
	ErrUnknownConstraintParam = errors.New("constraint for undeclared parameter")

	// ErrNilConstraint indicates a nil validator in Endpoint.Constraints.
	ErrNilConstraint = errors.New("nil constraint validator")

	// ErrNilRegistry indicates that WithConstraintRegistry was given nil.
	ErrNilRegistry = errors.New("constraint registry is nil")

	// ErrBloomHashFunctionsInvalid indicates that the number of bloom hash functions must be positive.
	ErrBloomHashFunctionsInvalid = errors.New("bloom hash functions must be positive")

	// ErrCacheConfigInvalid indicates a negative cache shard count or capacity.
	ErrCacheConfigInvalid = errors.New("cache configuration invalid")
)

// TemplateError reports a malformed route template.
type TemplateError = compiler.TemplateError

// RouteError ties a construction error to the endpoint that caused it.
type RouteError struct {
	Index    int    // Position in the slice given to Build
	Template string // Template as given
	Err      error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("endpoint %d (%q): %v", e.Index, e.Template, e.Err)
}

func (e *RouteError) Unwrap() error {
	return e.Err
}
