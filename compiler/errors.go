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
	"errors"
	"fmt"
)

var (
	// ErrEmptyTemplate indicates a blank route template.
	ErrEmptyTemplate = errors.New("empty route template")

	// ErrEmptySegment indicates "//" or a trailing "/" in a template.
	ErrEmptySegment = errors.New("empty path segment")

	// ErrUnbalancedBraces indicates an unterminated "{" or a stray "}".
	ErrUnbalancedBraces = errors.New("unbalanced braces")

	// ErrEmptyParamName indicates "{}" or "{:int}".
	ErrEmptyParamName = errors.New("empty parameter name")

	// ErrInvalidParamName indicates a parameter name with unsupported characters.
	ErrInvalidParamName = errors.New("invalid parameter name")

	// ErrDuplicateParam indicates the same parameter name twice in one template.
	ErrDuplicateParam = errors.New("duplicate parameter name")

	// ErrMultipleParams indicates more than one parameter inside one segment.
	ErrMultipleParams = errors.New("segment declares more than one parameter")

	// ErrOptionalMixed indicates an optional parameter sharing its segment with literal text.
	ErrOptionalMixed = errors.New("optional parameter must occupy a whole segment")

	// ErrEmptyConstraint indicates "{id:}" or "{id::int}".
	ErrEmptyConstraint = errors.New("empty constraint")
)

// TemplateError describes why a route template could not be compiled.
type TemplateError struct {
	Template string // Normalized template text
	Offset   int    // Byte offset of the offending segment or character
	Err      error  // One of the Err* sentinels
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("route template %q (offset %d): %v", e.Template, e.Offset, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}
