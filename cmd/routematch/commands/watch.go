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
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rivaas.dev/routematch/routefile"
)

func newWatchCmd(flags *globalFlags) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Recompile a route file whenever it changes",
		Long: `Watch a route file and rebuild the route table on every change,
reporting failures without replacing the last good table. Stops on
interrupt.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine, err := flags.loadEngine(ctx, cmd, args[0])
			if err != nil {
				return err
			}

			logger, err := flags.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts, err := flags.fileOptions(logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			opts = append(opts,
				routefile.WithDebounce(debounce),
				routefile.WithOnReload(func(err error) {
					if err != nil {
						fmt.Fprintf(out, "reload failed: %v\n", err)
						return
					}
					fmt.Fprintf(out, "reloaded: generation %d, %d routes\n", engine.Generation(), engine.Table().Len())
				}))

			w, err := routefile.NewWatcher(args[0], engine, opts...)
			if err != nil {
				return err
			}
			defer func() { _ = w.Close() }()

			fmt.Fprintf(out, "watching %s (%d routes)\n", args[0], engine.Table().Len())
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "wait this long after the last change before reloading")
	return cmd
}
