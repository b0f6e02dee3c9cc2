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

package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"rivaas.dev/routematch"
	"rivaas.dev/routematch/metrics"
)

// matchOutput is the JSON form of one resolved path.
type matchOutput struct {
	Path     string            `json:"path"`
	Matched  bool              `json:"matched"`
	Template string            `json:"template,omitempty"`
	Method   string            `json:"method,omitempty"`
	Handler  any               `json:"handler,omitempty"`
	Params   map[string]string `json:"params,omitempty"`

	paramText string // "k=v" pairs in path order
}

func newMatchCmd(flags *globalFlags) *cobra.Command {
	var (
		output      string
		showMetrics bool
		otelStdout  bool
	)

	cmd := &cobra.Command{
		Use:   "match FILE PATH...",
		Short: "Resolve paths against a route file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" {
				return fmt.Errorf("invalid --output %q: want text or json", output)
			}

			var extra []routematch.Option
			if otelStdout {
				mp, err := metrics.NewStdoutMeterProvider(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer func() { _ = mp.Shutdown(cmd.Context()) }()
				extra = append(extra, routematch.WithMeterProvider(mp))
			}

			engine, err := flags.loadEngine(cmd.Context(), cmd, args[0], extra...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			results := make([]matchOutput, 0, len(args)-1)
			for _, path := range args[1:] {
				results = append(results, resolve(engine, path))
			}

			if err := writeMatches(out, output, results); err != nil {
				return err
			}

			if showMetrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(metrics.NewCollector(engine))
				return metrics.WriteText(out, reg)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print Prometheus metrics after matching")
	cmd.Flags().BoolVar(&otelStdout, "otel-stdout", false, "export OpenTelemetry metrics to stderr")
	return cmd
}

func resolve(engine *routematch.Engine, path string) matchOutput {
	r, ok := engine.Match(path)
	if !ok {
		return matchOutput{Path: path}
	}
	return matchOutput{
		Path:     path,
		Matched:  true,
		Template: r.Template(),
		Method:   r.Endpoint().Method,
		Handler:  r.Handler(),
		Params:   r.Params(),

		paramText: formatParams(r),
	}
}

func writeMatches(w io.Writer, output string, results []matchOutput) error {
	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, m := range results {
		if !m.Matched {
			fmt.Fprintf(w, "%s -> no match\n", m.Path)
			continue
		}
		fmt.Fprintf(w, "%s -> %s (handler %v)", m.Path, m.Template, m.Handler)
		if m.paramText != "" {
			fmt.Fprintf(w, " %s", m.paramText)
		}
		fmt.Fprintln(w)
	}
	return nil
}
