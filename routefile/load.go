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
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/routematch"
	"rivaas.dev/routematch/constraint"
)

const (
	tracerName      = "rivaas.dev/routematch/routefile"
	defaultDebounce = 100 * time.Millisecond
)

// Option configures Load and Watcher.
type Option func(*options)

type options struct {
	format         Format
	resolver       HandlerResolver
	registry       *constraint.Registry
	tracerProvider trace.TracerProvider
	logger         *slog.Logger
	debounce       time.Duration
	onReload       func(error)
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:   slog.New(slog.DiscardHandler),
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	return o
}

// WithFormat overrides format detection by file extension.
func WithFormat(f Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithResolver sets the resolver for handler names.
func WithResolver(r HandlerResolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithRegistry sets the registry for constraint expressions in the file's
// constraints section.
func WithRegistry(r *constraint.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithTracerProvider sets the tracer provider for load spans.
//
// Default: the global provider from otel.GetTracerProvider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithLogger sets the logger used by Watcher.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDebounce sets how long Watcher waits after the last change before
// reloading.
//
// Default: 100ms
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithOnReload registers a callback invoked after every reload attempt the
// Watcher makes, with the attempt's error.
func WithOnReload(fn func(error)) Option {
	return func(o *options) {
		o.onReload = fn
	}
}

// Load reads, validates, and converts the route file at path.
func Load(ctx context.Context, path string, opts ...Option) ([]routematch.Endpoint, error) {
	return load(ctx, path, newOptions(opts))
}

// LoadFile reads and validates the route file at path without converting it.
func LoadFile(ctx context.Context, path string, opts ...Option) (*File, error) {
	o := newOptions(opts)
	ctx, span := o.tracerProvider.Tracer(tracerName).Start(ctx, "routefile.LoadFile",
		trace.WithAttributes(attribute.String("routefile.path", path)))
	defer span.End()

	f, err := readFile(ctx, path, o)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("routefile.routes", len(f.Routes)))
	return f, nil
}

func load(ctx context.Context, path string, o *options) ([]routematch.Endpoint, error) {
	ctx, span := o.tracerProvider.Tracer(tracerName).Start(ctx, "routefile.Load",
		trace.WithAttributes(attribute.String("routefile.path", path)))
	defer span.End()

	f, err := readFile(ctx, path, o)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	eps, err := f.Endpoints(o.resolver, o.registry)
	if err != nil {
		err = fmt.Errorf("routefile: %s: %w", path, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("routefile.routes", len(eps)))
	return eps, nil
}

func readFile(ctx context.Context, path string, o *options) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format := o.format
	if format == "" {
		var err error
		if format, err = FormatFromPath(path); err != nil {
			return nil, fmt.Errorf("routefile: %w", err)
		}
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("routefile.format", string(format)))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("routefile: reading %s: %w", path, err)
	}

	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("routefile: %s: %w", path, err)
	}
	return f, nil
}
