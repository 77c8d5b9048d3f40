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

package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevLevel := Level()
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		_ = SetLevel(prevLevel)
	})
	return &buf
}

func TestSetLevel(t *testing.T) {
	buf := captureOutput(t)

	require.NoError(t, SetLevel(LevelWarn))
	assert.Equal(t, "warn", Level())
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden 1")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "WARN")
}

func TestSetLevelDebug(t *testing.T) {
	buf := captureOutput(t)

	require.NoError(t, SetLevel(LevelDebug))
	Debugf("rows=%d", 3)
	assert.Contains(t, buf.String(), "rows=3")
	assert.Contains(t, buf.String(), "log_test.go", "caller should point at the call site")
}

func TestSetLevelUnknown(t *testing.T) {
	_ = captureOutput(t)

	require.NoError(t, SetLevel(LevelError))
	err := SetLevel("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verbose")
	assert.Equal(t, "error", Level(), "unknown level must not change the current level")
}
