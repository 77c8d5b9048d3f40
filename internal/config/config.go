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

// Package config holds the runtime knobs of the argmax command. Values are
// layered: defaults, then an optional YAML file, then ARGMAX_* environment
// variables, then command-line overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-argmax/internal/log"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatTable, FormatJSON, FormatCSV}

var levels = []string{log.LevelDebug, log.LevelInfo, log.LevelWarn, log.LevelError, log.LevelFatal}

// Config captures the knobs for one run.
type Config struct {
	TopK          int    `yaml:"top_k"`
	IncludeValues bool   `yaml:"include_values"`
	Workers       int    `yaml:"workers"`
	Format        string `yaml:"format"`
	LogLevel      string `yaml:"log_level"`
}

// Overrides captures explicitly supplied values. Nil fields are left alone.
type Overrides struct {
	TopK          *int
	IncludeValues *bool
	Workers       *int
	Format        *string
	LogLevel      *string
}

// Default returns top_k 1, indices only, GOMAXPROCS workers, table output.
func Default() *Config {
	return &Config{
		TopK:     1,
		Workers:  0,
		Format:   FormatTable,
		LogLevel: log.LevelInfo,
	}
}

// Load reads a YAML file over Default. Unknown keys are rejected. The
// result is not validated; call Validate after applying overrides.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Environment variables read by ApplyEnv.
const (
	EnvTopK          = "ARGMAX_TOP_K"
	EnvIncludeValues = "ARGMAX_INCLUDE_VALUES"
	EnvWorkers       = "ARGMAX_WORKERS"
	EnvFormat        = "ARGMAX_FORMAT"
	EnvLogLevel      = "ARGMAX_LOG_LEVEL"
)

// ApplyEnv overrides c from ARGMAX_* variables looked up with getenv.
// Empty variables are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvTopK); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTopK, err)
		}
		c.TopK = n
	}
	if v := getenv(EnvIncludeValues); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvIncludeValues, err)
		}
		c.IncludeValues = b
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v := getenv(EnvFormat); v != "" {
		c.Format = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	return nil
}

// ApplyOverrides updates c with every non-nil override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.TopK != nil {
		c.TopK = *o.TopK
	}
	if o.IncludeValues != nil {
		c.IncludeValues = *o.IncludeValues
	}
	if o.Workers != nil {
		c.Workers = *o.Workers
	}
	if o.Format != nil {
		c.Format = *o.Format
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
}

// Validate verifies the config is runnable. Whether top_k fits the input
// is only known once the input is read.
func (c *Config) Validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be >= 1, got %d", c.TopK)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("format must be one of %v, got %q", Formats, c.Format)
	}
	if !slices.Contains(levels, c.LogLevel) {
		return fmt.Errorf("log_level must be one of %v, got %q", levels, c.LogLevel)
	}
	return nil
}
