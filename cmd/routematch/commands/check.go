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
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"rivaas.dev/routematch"
)

func newCheckCmd(flags *globalFlags) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a route file and compile it",
		Long: `Validate a route file, compile every route, and report diagnostics
such as shadowed routes or routes with many parameters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var events []routematch.DiagnosticEvent
			collect := routematch.DiagnosticHandlerFunc(func(e routematch.DiagnosticEvent) {
				if e.Kind != routematch.DiagRouteRegistered {
					events = append(events, e)
				}
			})

			engine, err := flags.loadEngine(cmd.Context(), cmd, args[0], routematch.WithDiagnostics(collect))
			if err != nil {
				return err
			}
			table := engine.Table()

			out := cmd.OutOrStdout()
			for _, e := range events {
				fmt.Fprintf(out, "warning: %s: %s%s\n", e.Kind, e.Message, formatFields(e.Fields))
			}

			st := table.Stats()
			fmt.Fprintf(out, "ok: %d routes (%d exact, %d tree, %d nodes)\n",
				table.Len(), st.StaticRoutes, st.TreeRoutes, st.Tree.Nodes)

			if strict && len(events) > 0 {
				return fmt.Errorf("%d diagnostic(s) reported", len(events))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any diagnostic is reported")
	return cmd
}

func formatFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var s string
	for _, k := range keys {
		s += fmt.Sprintf(" %s=%v", k, fields[k])
	}
	return s
}
