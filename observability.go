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
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "rivaas.dev/routematch"

// source is where a match was resolved.
type source uint8

const (
	sourceNone source = iota
	sourceExact
	sourceTree
	sourceCache
	sourceShared
)

// Attribute sets are built once so recording does not allocate.
var sourceAttrs = [...]metric.AddOption{
	sourceNone:   metric.WithAttributeSet(attribute.NewSet(attribute.String("routematch.source", "none"))),
	sourceExact:  metric.WithAttributeSet(attribute.NewSet(attribute.String("routematch.source", "exact"))),
	sourceTree:   metric.WithAttributeSet(attribute.NewSet(attribute.String("routematch.source", "tree"))),
	sourceCache:  metric.WithAttributeSet(attribute.NewSet(attribute.String("routematch.source", "cache"))),
	sourceShared: metric.WithAttributeSet(attribute.NewSet(attribute.String("routematch.source", "shared"))),
}

// instruments holds the OpenTelemetry instruments a table records to.
type instruments struct {
	matches     metric.Int64Counter
	misses      metric.Int64Counter
	rejections  metric.Int64Counter
	builds      metric.Int64Counter
	buildErrors metric.Int64Counter
}

func newInstruments(mp metric.MeterProvider) (*instruments, error) {
	m := mp.Meter(meterName)
	inst := &instruments{}
	var err error

	if inst.matches, err = m.Int64Counter("routematch.matches",
		metric.WithDescription("Successful path matches by resolution source"),
		metric.WithUnit("{match}")); err != nil {
		return nil, err
	}
	if inst.misses, err = m.Int64Counter("routematch.misses",
		metric.WithDescription("Paths that matched no endpoint"),
		metric.WithUnit("{match}")); err != nil {
		return nil, err
	}
	if inst.rejections, err = m.Int64Counter("routematch.constraint.rejections",
		metric.WithDescription("Terminals rejected by parameter constraints"),
		metric.WithUnit("{rejection}")); err != nil {
		return nil, err
	}
	if inst.builds, err = m.Int64Counter("routematch.builds",
		metric.WithDescription("Route tables built"),
		metric.WithUnit("{build}")); err != nil {
		return nil, err
	}
	if inst.buildErrors, err = m.Int64Counter("routematch.build.errors",
		metric.WithDescription("Route table builds that failed"),
		metric.WithUnit("{build}")); err != nil {
		return nil, err
	}
	return inst, nil
}

// recordMatch counts one Match call. Cache hits are attributed to the cache
// whether or not the cached result is a match; callers that joined another
// goroutine's in-flight computation are attributed to shared.
func (i *instruments) recordMatch(src source, matched bool) {
	ctx := context.Background()
	if !matched {
		i.misses.Add(ctx, 1, sourceAttrs[src])
		return
	}
	i.matches.Add(ctx, 1, sourceAttrs[src])
}
