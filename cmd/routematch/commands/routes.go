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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rivaas.dev/routematch/routefile"
)

func newRoutesCmd(flags *globalFlags) *cobra.Command {
	var convert string

	cmd := &cobra.Command{
		Use:   "routes FILE",
		Short: "List the routes of a route file",
		Long: `List the routes of a route file, or re-encode the file in another
format with --convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := flags.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts, err := flags.fileOptions(logger)
			if err != nil {
				return err
			}

			f, err := routefile.LoadFile(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if convert != "" {
				format, err := routefile.ParseFormat(convert)
				if err != nil {
					return err
				}
				data, err := f.Encode(format)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "METHOD\tTEMPLATE\tHANDLER")
			for _, r := range f.Routes {
				method := r.Method
				if method == "" {
					method = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", method, r.Template, r.Handler)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&convert, "convert", "", "write the file in this format (yaml, toml, json) instead of listing")
	return cmd
}
