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

// Package options defines the flags of the c2pa-bridge CLI.
package options

import (
	"time"

	"github.com/duggaraju/c2pa-go/pkg/logging"
	"github.com/spf13/cobra"
)

// EnvPrefix is the prefix of environment variables that set flags, e.g.
// C2PA_BRIDGE_LOG_LEVEL for --log-level.
const EnvPrefix = "C2PA_BRIDGE"

// DefaultTimeout bounds one command.
const DefaultTimeout = 3 * time.Minute

// RootOptions are the flags every command accepts.
type RootOptions struct {
	ConfigFile string        // --config
	LogLevel   string        // --log-level
	LogFormat  string        // --log-format
	LogFile    string        // --log-file
	Timeout    time.Duration // --timeout
}

var _ FlagAdder = (*RootOptions)(nil)

// AddFlags registers the root flags as persistent flags.
func (o *RootOptions) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.ConfigFile, "config", "",
		"configuration file (yaml, json or toml) supplying flag defaults")
	_ = cmd.MarkPersistentFlagFilename("config", "yaml", "yml", "json", "toml")

	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "info",
		"minimum log level (debug, info, warn, error, silent)")
	cmd.PersistentFlags().StringVar(&o.LogFormat, "log-format", "text",
		"log output format (text, json)")
	cmd.PersistentFlags().StringVar(&o.LogFile, "log-file", "",
		"write logs to this file, rotated at 10 MB, instead of stderr")
	_ = cmd.MarkPersistentFlagFilename("log-file", "log", "txt")

	cmd.PersistentFlags().DurationVarP(&o.Timeout, "timeout", "t", DefaultTimeout,
		"timeout for commands")
}

// NewLogger builds the logger the flags describe.
func (o *RootOptions) NewLogger() *logging.DefaultLogger {
	opts := logging.LoggerOptions{
		Level:  logging.ParseLogLevel(o.LogLevel),
		Format: logging.ParseLogFormat(o.LogFormat),
	}
	if o.LogFile != "" {
		opts.File = &logging.FileOptions{
			Path:       o.LogFile,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		}
	}
	return logging.NewLoggerWithOptions(opts)
}
