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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ajroetker/go-argmax/hwy"
	"github.com/ajroetker/go-argmax/hwy/contrib/topk"
	"github.com/ajroetker/go-argmax/hwy/contrib/workerpool"
	"github.com/ajroetker/go-argmax/internal/log"
	"github.com/ajroetker/go-argmax/layers/argmax"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	prev := log.Level()
	t.Cleanup(func() { _ = log.SetLevel(prev) })

	var out bytes.Buffer
	cmd := NewCLI()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSelectCSV(t *testing.T) {
	path := writeFile(t, "scores.csv", "1,2,3\n3,2,1\n")
	out, err := runCLI(t, "", "select", "-k", "2", "--values", "--format", "csv", "--log-level", "error", path)
	require.NoError(t, err)

	want := strings.Join([]string{
		"file,row,rank,index,value",
		path + ",0,0,2,3",
		path + ",0,1,1,2",
		path + ",1,0,0,3",
		path + ",1,1,1,2",
	}, "\n") + "\n"
	assert.Equal(t, want, out)
}

func TestSelectJSONStdin(t *testing.T) {
	out, err := runCLI(t, " [[0.1, 0.9, 0.4, 0.9]]", "select", "-k", "2", "--values", "--format", "json", "--log-level", "error")
	require.NoError(t, err)

	var got []fileResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "-", got[0].Name)
	require.Len(t, got[0].Rows, 1)
	assert.Equal(t, []int{1, 3}, got[0].Rows[0].Indices)
	assert.InDeltaSlice(t, []float64{0.9, 0.9}, got[0].Rows[0].Values, 1e-6)
}

func TestSelectCSVStdinSniffed(t *testing.T) {
	out, err := runCLI(t, "0.1,0.9,0.4,0.2\n", "select", "--format", "csv", "--log-level", "error", "-")
	require.NoError(t, err)
	assert.Equal(t, "file,row,rank,index\n-,0,0,1\n", out)
}

func TestSelectMultipleFilesKeepArgumentOrder(t *testing.T) {
	a := writeFile(t, "a.json", "[[5, 1], [1, 5]]")
	b := writeFile(t, "b.csv", "7,8,9\n")
	out, err := runCLI(t, "", "select", "--format", "json", "--precision", "float64", "--log-level", "error", a, b)
	require.NoError(t, err)

	var got []fileResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0].Name)
	assert.Equal(t, []rowResult{{Row: 0, Indices: []int{0}}, {Row: 1, Indices: []int{1}}}, got[0].Rows)
	assert.Equal(t, b, got[1].Name)
	assert.Equal(t, []rowResult{{Row: 0, Indices: []int{2}}}, got[1].Rows)
}

func TestSelectTable(t *testing.T) {
	path := writeFile(t, "scores.json", "[[1, 2, 3]]")
	out, err := runCLI(t, "", "select", "-k", "3", "--values", "--log-level", "error", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"FILE", "ROW", "RANK", "INDEX", "VALUE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{path, "0", "2", "0", "1"}, strings.Fields(lines[3]))
}

func TestSelectTopKAboveClasses(t *testing.T) {
	path := writeFile(t, "scores.csv", "1,2\n")
	_, err := runCLI(t, "", "select", "-k", "3", "--log-level", "error", path)
	require.ErrorIs(t, err, topk.ErrConfiguration)
	assert.Contains(t, err.Error(), path)
}

func TestSelectConfigAndEnv(t *testing.T) {
	cfgPath := writeFile(t, "argmax.yaml", "top_k: 2\ninclude_values: true\nformat: csv\nlog_level: error\n")
	input := writeFile(t, "scores.csv", "4,9,1\n")

	out, err := runCLI(t, "", "select", "--config", cfgPath, input)
	require.NoError(t, err)
	assert.Equal(t, "file,row,rank,index,value\n"+input+",0,0,1,9\n"+input+",0,1,0,4\n", out)

	// Environment overrides the file, flags override the environment.
	t.Setenv("ARGMAX_TOP_K", "1")
	t.Setenv("ARGMAX_INCLUDE_VALUES", "true")
	out, err = runCLI(t, "", "select", "--config", cfgPath, "--values=false", input)
	require.NoError(t, err)
	assert.Equal(t, "file,row,rank,index\n"+input+",0,0,1\n", out)
}

func TestSelectErrors(t *testing.T) {
	path := writeFile(t, "scores.csv", "1,2\n")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero k", []string{"select", "-k", "0", path}, "top_k"},
		{"bad format", []string{"select", "--format", "xml", path}, "format"},
		{"bad precision", []string{"select", "--precision", "float16", path}, "precision"},
		{"stdin twice", []string{"select", "-", "-"}, "standard input"},
		{"missing file", []string{"select", filepath.Join(t.TempDir(), "nope.csv")}, "nope.csv"},
		{"ragged csv", []string{"select", writeFile(t, "ragged.csv", "1,2\n3\n")}, "decode csv"},
		{"non numeric", []string{"select", writeFile(t, "words.csv", "a,b\n")}, "line 1 column 1"},
		{"ragged json", []string{"select", writeFile(t, "ragged.json", "[[1, 2], [3]]")}, "row 1 has 1 columns, want 2"},
		{"no columns", []string{"select", writeFile(t, "blank.json", "[[]]")}, "no columns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", append(tt.args, "--log-level", "error")...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSelectEmptyInput(t *testing.T) {
	out, err := runCLI(t, "  \n", "select", "--format", "csv", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "file,row,rank,index\n", out)
}

func TestSelectEmptyInputJSON(t *testing.T) {
	for _, stdin := range []string{"", "[]"} {
		out, err := runCLI(t, stdin, "select", "--format", "json", "--log-level", "error")
		require.NoError(t, err)

		var got []struct {
			Name string          `json:"name"`
			Rows json.RawMessage `json:"rows"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 1)
		assert.JSONEq(t, "[]", string(got[0].Rows), "stdin %q", stdin)
	}
}

func TestReadMatrix(t *testing.T) {
	scores, err := readMatrix("-", strings.NewReader("1,2,3\n4,5,6\n"))
	require.NoError(t, err)
	r, c := scores.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, []float64{4, 5, 6}, mat.Row(nil, 1, scores))

	empty, err := readMatrix("-", strings.NewReader("   "))
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestRunLayerFromMatrix(t *testing.T) {
	scores := mat.NewDense(2, 4, []float64{
		0.1, 0.9, 0.4, 0.9,
		3, -1, 2, 5,
	})
	pool := workerpool.New(2)
	defer pool.Close()

	got, err := runLayer[float64](argmax.Param{TopK: 2, OutMaxVal: true}, pool, scores)
	require.NoError(t, err)
	assert.Equal(t, []rowResult{
		{Row: 0, Indices: []int{1, 3}, Values: []float64{0.9, 0.9}},
		{Row: 1, Indices: []int{3, 0}, Values: []float64{5, 3}},
	}, got)

	got, err = runLayer[float32](argmax.Param{TopK: 1}, pool, scores)
	require.NoError(t, err)
	assert.Equal(t, []rowResult{{Row: 0, Indices: []int{1}}, {Row: 1, Indices: []int{3}}}, got)

	got, err = runLayer[float32](argmax.Param{TopK: 1}, pool, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInfo(t *testing.T) {
	out, err := runCLI(t, "", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "target:     "+hwy.CurrentName())
	assert.Contains(t, out, fmt.Sprintf("lanes:      float32=%d float64=%d int32=%d",
		hwy.MaxLanes[float32](), hwy.MaxLanes[float64](), hwy.MaxLanes[int32]()))
	assert.Contains(t, out, "gomaxprocs:")
}
