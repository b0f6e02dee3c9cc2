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
	"github.com/prometheus/client_golang/prometheus"

	"rivaas.dev/routematch"
)

// StatsSource is implemented by *routematch.Engine.
type StatsSource interface {
	Stats() routematch.EngineStats
}

// Collector is a prometheus.Collector reporting engine statistics. Table
// counters restart from zero when the engine swaps in a new table.
type Collector struct {
	source StatsSource

	generation     *prometheus.Desc
	reloads        *prometheus.Desc
	reloadFailures *prometheus.Desc
	routes         *prometheus.Desc
	treeNodes      *prometheus.Desc
	resolutions    *prometheus.Desc
	rejections     *prometheus.Desc
	cacheEntries   *prometheus.Desc
	cacheRequests  *prometheus.Desc
	cacheShared    *prometheus.Desc
	cacheDropped   *prometheus.Desc
	cacheEvictions *prometheus.Desc
}

// CollectorOption configures a Collector.
type CollectorOption func(*collectorConfig)

type collectorConfig struct {
	namespace   string
	constLabels prometheus.Labels
}

// WithNamespace sets the metric name prefix.
//
// Default: "routematch"
func WithNamespace(ns string) CollectorOption {
	return func(c *collectorConfig) {
		c.namespace = ns
	}
}

// WithConstLabels attaches labels to every metric, e.g. to tell several
// engines apart.
func WithConstLabels(labels prometheus.Labels) CollectorOption {
	return func(c *collectorConfig) {
		c.constLabels = labels
	}
}

// NewCollector returns a collector for source.
func NewCollector(source StatsSource, opts ...CollectorOption) *Collector {
	cfg := &collectorConfig{namespace: "routematch"}
	for _, opt := range opts {
		opt(cfg)
	}

	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(cfg.namespace, "", name), help, labels, cfg.constLabels)
	}

	return &Collector{
		source:         source,
		generation:     desc("table_generation", "Generation of the table currently serving matches."),
		reloads:        desc("reloads_total", "Successful table reloads."),
		reloadFailures: desc("reload_failures_total", "Table reloads that failed to build."),
		routes:         desc("routes", "Endpoints in the current table by index.", "index"),
		treeNodes:      desc("tree_nodes", "Vertices in the current table's tree."),
		resolutions:    desc("resolutions_total", "Paths resolved by the current table, by source.", "source"),
		rejections:     desc("constraint_rejections_total", "Terminals rejected by parameter constraints."),
		cacheEntries:   desc("cache_entries", "Paths held in the current table's match cache."),
		cacheRequests:  desc("cache_requests_total", "Match cache lookups by result.", "result"),
		cacheShared:    desc("cache_shared_total", "Cache misses that joined a computation already in flight."),
		cacheDropped:   desc("cache_dropped_total", "Results not stored because the cache was full."),
		cacheEvictions: desc("cache_evictions_total", "Entries removed by cache clears."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.generation
	ch <- c.reloads
	ch <- c.reloadFailures
	ch <- c.routes
	ch <- c.treeNodes
	ch <- c.resolutions
	ch <- c.rejections
	ch <- c.cacheEntries
	ch <- c.cacheRequests
	ch <- c.cacheShared
	ch <- c.cacheDropped
	ch <- c.cacheEvictions
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()

	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}
	counter := func(d *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}

	gauge(c.generation, float64(s.Generation))
	counter(c.reloads, s.Reloads)
	counter(c.reloadFailures, s.ReloadFailures)

	gauge(c.routes, float64(s.StaticRoutes), "exact")
	gauge(c.routes, float64(s.TreeRoutes), "tree")
	gauge(c.treeNodes, float64(s.Tree.Nodes))

	counter(c.resolutions, s.ExactHits, "exact")
	counter(c.resolutions, s.TreeHits, "tree")
	counter(c.resolutions, s.Misses, "none")
	counter(c.rejections, s.Rejections)

	gauge(c.cacheEntries, float64(s.Cache.Entries))
	counter(c.cacheRequests, s.Cache.Hits, "hit")
	counter(c.cacheRequests, s.Cache.Misses, "miss")
	counter(c.cacheShared, s.Cache.Shared)
	counter(c.cacheDropped, s.Cache.Dropped)
	counter(c.cacheEvictions, s.Cache.Evictions)
}
