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

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrUnknownConstraint indicates that a constraint name is not registered.
	ErrUnknownConstraint = errors.New("unknown constraint")

	// ErrConstraintArgs indicates that a constraint received invalid arguments.
	ErrConstraintArgs = errors.New("invalid constraint arguments")

	// ErrConstraintSyntax indicates a malformed constraint expression.
	ErrConstraintSyntax = errors.New("malformed constraint expression")

	// ErrInvalidConstraintName indicates a name that cannot be registered.
	ErrInvalidConstraintName = errors.New("invalid constraint name")
)

// Factory builds a Validator from the raw text between the parentheses of a
// constraint expression. arg is empty for expressions without parentheses.
type Factory func(arg string) (Validator, error)

// Registry resolves constraint expressions such as "int" or "range(1,10)".
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry pre-populated with the built-in constraints.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory, 24)}
	for name, f := range builtinFactories() {
		r.factories[name] = f
	}
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidConstraintName, name)
	}
	if f == nil {
		return fmt.Errorf("%w: nil factory for %q", ErrInvalidConstraintName, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
	return nil
}

// Names returns the registered constraint names in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// Parse resolves one expression: a name optionally followed by "(args)".
func (r *Registry) Parse(expr string) (Validator, error) {
	name, arg, err := splitExpr(expr)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConstraint, name)
	}

	v, err := f(arg)
	if err != nil {
		return nil, fmt.Errorf("constraint %q: %w", expr, err)
	}
	return v, nil
}

// ParseAll resolves every expression and combines the results with All.
func (r *Registry) ParseAll(exprs []string) (Validator, error) {
	validators := make([]Validator, 0, len(exprs))
	for _, expr := range exprs {
		v, err := r.Parse(expr)
		if err != nil {
			return nil, err
		}
		validators = append(validators, v)
	}
	return All(validators...), nil
}

// splitExpr separates "name(arg)" into its parts.
func splitExpr(expr string) (name, arg string, err error) {
	open := strings.IndexByte(expr, '(')
	if open < 0 {
		if !validName(expr) {
			return "", "", fmt.Errorf("%w: %q", ErrConstraintSyntax, expr)
		}
		return expr, "", nil
	}
	if !strings.HasSuffix(expr, ")") {
		return "", "", fmt.Errorf("%w: %q is missing ')'", ErrConstraintSyntax, expr)
	}
	name = expr[:open]
	if !validName(name) {
		return "", "", fmt.Errorf("%w: %q", ErrConstraintSyntax, expr)
	}
	return name, expr[open+1 : len(expr)-1], nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := range len(name) {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

func builtinFactories() map[string]Factory {
	return map[string]Factory{
		"int":          noArgs(Int),
		"long":         noArgs(Long),
		"numeric":      noArgs(Numeric),
		"float":        noArgs(Float),
		"double":       noArgs(Float),
		"decimal":      noArgs(Decimal),
		"bool":         noArgs(Bool),
		"alpha":        noArgs(Alpha),
		"alphanumeric": noArgs(Alphanumeric),
		"slug":         noArgs(Slug),
		"guid":         noArgs(UUID),
		"uuid":         noArgs(UUID),
		"date":         noArgs(Date),
		"datetime":     noArgs(DateTime),
		"length":       lengthFactory,
		"minlength":    oneInt(func(n int64) Validator { return MinLength(int(n)) }),
		"maxlength":    oneInt(func(n int64) Validator { return MaxLength(int(n)) }),
		"min":          oneInt(Min),
		"max":          oneInt(Max),
		"range":        rangeFactory,
		"regex":        regexFactory,
		"enum":         enumFactory,
	}
}

func noArgs(ctor func() Validator) Factory {
	return func(arg string) (Validator, error) {
		if arg != "" {
			return nil, fmt.Errorf("%w: takes no arguments", ErrConstraintArgs)
		}
		return ctor(), nil
	}
}

func oneInt(ctor func(int64) Validator) Factory {
	return func(arg string) (Validator, error) {
		nums, err := parseInts(arg, 1)
		if err != nil {
			return nil, err
		}
		return ctor(nums[0]), nil
	}
}

func lengthFactory(arg string) (Validator, error) {
	if strings.Contains(arg, ",") {
		nums, err := parseInts(arg, 2)
		if err != nil {
			return nil, err
		}
		if nums[0] < 0 || nums[0] > nums[1] {
			return nil, fmt.Errorf("%w: length(%s) is empty", ErrConstraintArgs, arg)
		}
		return Length(int(nums[0]), int(nums[1])), nil
	}
	nums, err := parseInts(arg, 1)
	if err != nil {
		return nil, err
	}
	if nums[0] < 0 {
		return nil, fmt.Errorf("%w: negative length", ErrConstraintArgs)
	}
	return Length(int(nums[0]), int(nums[0])), nil
}

func rangeFactory(arg string) (Validator, error) {
	nums, err := parseInts(arg, 2)
	if err != nil {
		return nil, err
	}
	if nums[0] > nums[1] {
		return nil, fmt.Errorf("%w: range(%s) is empty", ErrConstraintArgs, arg)
	}
	return Range(nums[0], nums[1]), nil
}

func regexFactory(arg string) (Validator, error) {
	if arg == "" {
		return nil, fmt.Errorf("%w: regex requires an expression", ErrConstraintArgs)
	}
	return Pattern(arg)
}

func enumFactory(arg string) (Validator, error) {
	if arg == "" {
		return nil, fmt.Errorf("%w: enum requires at least one value", ErrConstraintArgs)
	}
	return Enum(strings.Split(arg, "|")...), nil
}

func parseInts(arg string, want int) ([]int64, error) {
	parts := strings.Split(arg, ",")
	if arg == "" || len(parts) != want {
		return nil, fmt.Errorf("%w: want %d integer argument(s), got %q", ErrConstraintArgs, want, arg)
	}
	nums := make([]int64, want)
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrConstraintArgs, p)
		}
		nums[i] = n
	}
	return nums, nil
}
