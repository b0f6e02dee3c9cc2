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

// Package metrics exposes route matching statistics to Prometheus.
//
// Two paths are offered. [Collector] reads [routematch.Engine] statistics at
// scrape time and needs no instrumentation in the match path. The
// OpenTelemetry counters recorded by routematch can also be exported by
// passing a provider from [NewPrometheusMeterProvider] or
// [NewStdoutMeterProvider] to [routematch.WithMeterProvider].
//
// Basic usage:
//
//	engine, _ := routematch.NewEngine(endpoints)
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(metrics.NewCollector(engine))
package metrics
