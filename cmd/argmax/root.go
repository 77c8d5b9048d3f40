// Copyright 2025 go-highway Authors
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

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-argmax/internal/config"
	"github.com/ajroetker/go-argmax/internal/log"
)

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "argmax",
		Short:         "Top-K class selection over score matrices",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newSelectCmd(), newInfoCmd())
	return rootCmd
}

// loadConfig layers defaults, the --config file, the environment and the
// flags that were explicitly set, then validates the result and applies
// the log level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(flagOverrides(cmd))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

func flagOverrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("top-k") {
		v, _ := flags.GetInt("top-k")
		o.TopK = &v
	}
	if flags.Changed("values") {
		v, _ := flags.GetBool("values")
		o.IncludeValues = &v
	}
	if flags.Changed("workers") {
		v, _ := flags.GetInt("workers")
		o.Workers = &v
	}
	if flags.Changed("format") {
		v, _ := flags.GetString("format")
		o.Format = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		o.LogLevel = &v
	}
	return o
}
