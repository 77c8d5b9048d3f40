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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "argmax.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.TopK)
	assert.Equal(t, FormatTable, cfg.Format)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "top_k: 3\ninclude_values: true\nworkers: 2\nformat: json\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{TopK: 3, IncludeValues: true, Workers: 2, Format: FormatJSON, LogLevel: "info"}, cfg)
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "open config")

	_, err = Load(writeConfig(t, "top_k: 2\nbogus: 1\n"))
	assert.ErrorContains(t, err, "parse config")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvTopK:          "4",
		EnvIncludeValues: "true",
		EnvWorkers:       "8",
		EnvFormat:        "csv",
		EnvLogLevel:      "debug",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, &Config{TopK: 4, IncludeValues: true, Workers: 8, Format: FormatCSV, LogLevel: "debug"}, cfg)
}

func TestApplyEnvInvalid(t *testing.T) {
	for _, key := range []string{EnvTopK, EnvIncludeValues, EnvWorkers} {
		cfg := Default()
		err := cfg.ApplyEnv(func(k string) string {
			if k == key {
				return "not-a-number"
			}
			return ""
		})
		assert.ErrorContains(t, err, key)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := &Config{TopK: 3, IncludeValues: true, Workers: 2, Format: FormatJSON, LogLevel: "warn"}
	k, values := 7, false
	cfg.ApplyOverrides(Overrides{TopK: &k, IncludeValues: &values})

	assert.Equal(t, 7, cfg.TopK)
	assert.False(t, cfg.IncludeValues, "explicit false must override")
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, FormatJSON, cfg.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"top_k zero", func(c *Config) { c.TopK = 0 }, "top_k"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"bad format", func(c *Config) { c.Format = "xml" }, "format"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
