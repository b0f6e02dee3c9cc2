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

// Package commands implements the routematch command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"rivaas.dev/routematch"
	"rivaas.dev/routematch/routefile"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	format    string
	backtrack bool
}

// Execute runs the command line with os.Args.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "routematch",
		Short: "Check route files and resolve paths against them",
		Long: `routematch compiles a route file (YAML, TOML, or JSON) into a route
table and answers which endpoint a path resolves to.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVar(&flags.format, "format", "", "route file format (yaml, toml, json); inferred from the extension by default")
	pf.BoolVar(&flags.backtrack, "backtrack", false, "continue into sibling routes when constraints reject a match")

	root.AddCommand(newCheckCmd(flags))
	root.AddCommand(newMatchCmd(flags))
	root.AddCommand(newRoutesCmd(flags))
	root.AddCommand(newWatchCmd(flags))

	return root
}

func (f *globalFlags) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", f.logLevel)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func (f *globalFlags) fileOptions(logger *slog.Logger) ([]routefile.Option, error) {
	opts := []routefile.Option{routefile.WithLogger(logger)}
	if f.format != "" {
		format, err := routefile.ParseFormat(f.format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, routefile.WithFormat(format))
	}
	return opts, nil
}

func (f *globalFlags) tableOptions(logger *slog.Logger, extra ...routematch.Option) []routematch.Option {
	return append([]routematch.Option{
		routematch.WithLogger(logger),
		routematch.WithConstraintBacktracking(f.backtrack),
	}, extra...)
}

// loadEngine loads path and builds an engine serving it.
func (f *globalFlags) loadEngine(ctx context.Context, cmd *cobra.Command, path string, extra ...routematch.Option) (*routematch.Engine, error) {
	logger, err := f.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	fileOpts, err := f.fileOptions(logger)
	if err != nil {
		return nil, err
	}

	eps, err := routefile.Load(ctx, path, fileOpts...)
	if err != nil {
		return nil, err
	}
	return routematch.NewEngine(eps, f.tableOptions(logger, extra...)...)
}

// formatParams renders parameters as "k=v" pairs in path order.
func formatParams(r *routematch.Result) string {
	var parts []string
	r.Each(func(name, value string) bool {
		parts = append(parts, name+"="+value)
		return true
	})
	return strings.Join(parts, " ")
}
