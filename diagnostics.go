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

// DiagnosticEvent is an informational event raised while building a table.
// Diagnostics never change the outcome of Build.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	DiagRouteRegistered DiagnosticKind = "route_registered"
	DiagHighParamCount  DiagnosticKind = "route_param_count_high"
	DiagRouteShadowed   DiagnosticKind = "route_shadowed"
	DiagOptionalPrefix  DiagnosticKind = "route_optional_prefix"
)

// DiagnosticHandler receives diagnostic events from Build.
//
// Example with logging:
//
//	handler := routematch.DiagnosticHandlerFunc(func(e routematch.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}

func (c *config) emit(kind DiagnosticKind, message string, fields map[string]any) {
	if c.diagnostics == nil {
		return
	}
	c.diagnostics.OnDiagnostic(DiagnosticEvent{Kind: kind, Message: message, Fields: fields})
}
