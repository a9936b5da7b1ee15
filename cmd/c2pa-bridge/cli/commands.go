// Copyright 2025 The c2pa-go Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli implements the c2pa-bridge commands.
package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/duggaraju/c2pa-go/cmd/c2pa-bridge/cli/options"
	"github.com/duggaraju/c2pa-go/pkg/c2pa"
	"github.com/duggaraju/c2pa-go/pkg/logging"
	"github.com/duggaraju/c2pa-go/pkg/tracing"
	"github.com/spf13/cobra"
	cobracompletefig "github.com/withfig/autocomplete-tools/integrations/cobra"
	"sigs.k8s.io/release-utils/version"
)

// app is the state shared by the commands of one invocation.
type app struct {
	root   options.RootOptions
	logger *logging.DefaultLogger

	outMu sync.Mutex
}

// New returns the root command.
func New() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:               "c2pa-bridge",
		Short:             "Sign and inspect content credentials.",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := options.NewViper(a.root.ConfigFile)
			if err != nil {
				return err
			}
			if err := options.ApplyConfig(v, cmd.Flags()); err != nil {
				return err
			}

			a.logger = a.root.NewLogger()
			if err := tracing.InitFromEnv(); err != nil {
				a.logger.Warn("tracing disabled: %v", err)
			}
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx); err != nil {
				a.logger.Warn("failed to flush traces: %v", err)
			}
			return a.logger.Close()
		},
	}
	a.root.AddFlags(cmd)

	cmd.AddCommand(a.signCommand())
	cmd.AddCommand(a.readCommand())
	versionCmd := version.WithFont("starwars")
	versionCmd.PostRun = func(cmd *cobra.Command, _ []string) {
		a.printf(cmd, "Engine version: %s\n", c2pa.Version())
	}
	cmd.AddCommand(versionCmd)
	cmd.AddCommand(cobracompletefig.CreateCompletionSpecCommand())
	return cmd
}

// timeoutContext returns the command context bounded by --timeout.
func (a *app) timeoutContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.root.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.root.Timeout)
}

// printf writes to the command output; concurrent signs share it.
func (a *app) printf(cmd *cobra.Command, format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

// exitError carries a process exit status.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func exitf(code int, format string, args ...any) error {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}
