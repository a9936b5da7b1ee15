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

package cli

import (
	"fmt"

	"github.com/duggaraju/c2pa-go/cmd/c2pa-bridge/cli/options"
	"github.com/duggaraju/c2pa-go/pkg/c2pa"
	"github.com/spf13/cobra"
)

func (a *app) readCommand() *cobra.Command {
	o := &options.ReadOptions{}
	cmd := &cobra.Command{
		Use:   "read [OPTIONS] INPUT",
		Short: "Print the content credential of an asset.",
		Long: `Print the content credential of an asset as JSON.

    The credential embedded in INPUT is read, or the .c2pa sidecar next to it
    when nothing is embedded. The report lists the validation results for the
    asset digest and the claim signature.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := c2pa.ReaderFromFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to open reader: %w", err)
			}
			text, err := reader.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)

			if !reader.Valid() {
				a.logger.Warn("credential of %s did not validate", args[0])
				if o.RequireValid {
					return exitf(2, "credential of %s did not validate", args[0])
				}
			}
			return nil
		},
	}
	o.AddFlags(cmd)
	return cmd
}
