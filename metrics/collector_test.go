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

package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/routematch"
)

func newEngine(t *testing.T) *routematch.Engine {
	t.Helper()

	e, err := routematch.NewEngine([]routematch.Endpoint{
		{Template: "/health"},
		{Template: "/users/{id:int}"},
	})
	require.NoError(t, err)
	return e
}

func TestCollector(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	for _, p := range []string{"/health", "/health", "/users/1", "/users/x"} {
		e.Match(p)
	}
	c := NewCollector(e)

	const want = `
# HELP routematch_resolutions_total Paths resolved by the current table, by source.
# TYPE routematch_resolutions_total counter
routematch_resolutions_total{source="exact"} 1
routematch_resolutions_total{source="none"} 1
routematch_resolutions_total{source="tree"} 1
# HELP routematch_cache_requests_total Match cache lookups by result.
# TYPE routematch_cache_requests_total counter
routematch_cache_requests_total{result="hit"} 1
routematch_cache_requests_total{result="miss"} 3
# HELP routematch_constraint_rejections_total Terminals rejected by parameter constraints.
# TYPE routematch_constraint_rejections_total counter
routematch_constraint_rejections_total 1
# HELP routematch_routes Endpoints in the current table by index.
# TYPE routematch_routes gauge
routematch_routes{index="exact"} 1
routematch_routes{index="tree"} 1
# HELP routematch_cache_entries Paths held in the current table's match cache.
# TYPE routematch_cache_entries gauge
routematch_cache_entries 3
`
	err := testutil.CollectAndCompare(c, strings.NewReader(want),
		"routematch_resolutions_total",
		"routematch_cache_requests_total",
		"routematch_constraint_rejections_total",
		"routematch_routes",
		"routematch_cache_entries",
	)
	assert.NoError(t, err)
	assert.Equal(t, 16, testutil.CollectAndCount(c))
}

func TestCollector_Reload(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	require.NoError(t, e.Reload([]routematch.Endpoint{{Template: "/only"}}))
	require.Error(t, e.Reload([]routematch.Endpoint{{Template: "/{"}}))

	const want = `
# HELP routematch_table_generation Generation of the table currently serving matches.
# TYPE routematch_table_generation gauge
routematch_table_generation 2
# HELP routematch_reloads_total Successful table reloads.
# TYPE routematch_reloads_total counter
routematch_reloads_total 1
# HELP routematch_reload_failures_total Table reloads that failed to build.
# TYPE routematch_reload_failures_total counter
routematch_reload_failures_total 1
`
	err := testutil.CollectAndCompare(NewCollector(e), strings.NewReader(want),
		"routematch_table_generation", "routematch_reloads_total", "routematch_reload_failures_total")
	assert.NoError(t, err)
}

func TestCollector_Options(t *testing.T) {
	t.Parallel()

	c := NewCollector(newEngine(t),
		WithNamespace("edge"),
		WithConstLabels(prometheus.Labels{"table": "public"}))

	const want = `
# HELP edge_table_generation Generation of the table currently serving matches.
# TYPE edge_table_generation gauge
edge_table_generation{table="public"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(want), "edge_table_generation"))

	reg := prometheus.NewPedanticRegistry()
	assert.NoError(t, reg.Register(c))
	problems, err := testutil.CollectAndLint(c)
	require.NoError(t, err)
	assert.Empty(t, problems)
}
