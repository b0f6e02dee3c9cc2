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

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"rivaas.dev/routematch"
	"rivaas.dev/routematch/constraint"
)

var (
	// ErrInvalidFile indicates a route file that fails schema validation.
	ErrInvalidFile = errors.New("invalid route file")

	// ErrUnknownHandler indicates a handler name the resolver does not know.
	ErrUnknownHandler = errors.New("unknown handler")
)

// File is the decoded content of a route file.
type File struct {
	Routes []Route `json:"routes" yaml:"routes" toml:"routes" validate:"dive"`
}

// Route is one endpoint entry of a route file.
type Route struct {
	Template    string              `json:"template" yaml:"template" toml:"template" validate:"required"`
	Method      string              `json:"method,omitempty" yaml:"method,omitempty" toml:"method,omitempty" validate:"omitempty,oneof=GET HEAD POST PUT PATCH DELETE OPTIONS CONNECT TRACE"`
	Handler     string              `json:"handler" yaml:"handler" toml:"handler" validate:"required"`
	Constraints map[string][]string `json:"constraints,omitempty" yaml:"constraints,omitempty" toml:"constraints,omitempty" validate:"omitempty,dive,keys,required,endkeys,min=1,dive,required"`
	Metadata    map[string]string   `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func fileValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their file keys
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Parse decodes and validates route file content.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	if err := decode(data, format, &f); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the file against its schema. All violations are reported
// in one error wrapping ErrInvalidFile.
func (f *File) Validate() error {
	err := fileValidator().Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "File.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidFile, strings.Join(msgs, "; "))
}

// Encode renders the file in the given format.
func (f *File) Encode(format Format) ([]byte, error) {
	return encode(f, format)
}

// Endpoints converts the file's routes to endpoints. Handler names are
// resolved through resolver, and constraint expressions through registry.
// A nil resolver uses each handler name as the handler; a nil registry uses
// the built-in constraints. All failures are returned together.
func (f *File) Endpoints(resolver HandlerResolver, registry *constraint.Registry) ([]routematch.Endpoint, error) {
	if registry == nil {
		registry = defaultRegistry
	}

	out := make([]routematch.Endpoint, 0, len(f.Routes))
	var errs []error
	for i, r := range f.Routes {
		ep := routematch.Endpoint{
			Template: r.Template,
			Method:   r.Method,
			Handler:  r.Handler,
			Metadata: r.Metadata,
		}

		if resolver != nil {
			h, ok := resolver.Resolve(r.Handler)
			if !ok {
				errs = append(errs, fmt.Errorf("routes[%d]: %w: %q", i, ErrUnknownHandler, r.Handler))
				continue
			}
			ep.Handler = h
		}

		if len(r.Constraints) > 0 {
			ep.Constraints = make(map[string]constraint.Validator, len(r.Constraints))
			for _, param := range slices.Sorted(maps.Keys(r.Constraints)) {
				v, err := registry.ParseAll(r.Constraints[param])
				if err != nil {
					errs = append(errs, fmt.Errorf("routes[%d].constraints.%s: %w", i, param, err))
					continue
				}
				ep.Constraints[param] = v
			}
		}

		out = append(out, ep)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

var defaultRegistry = constraint.NewRegistry()
