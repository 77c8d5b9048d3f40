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

// Command argmax reports the top-K classes of every row of score matrices.
//
// Usage:
//
//	argmax select -k 2 --values scores.csv
//	argmax select -k 5 --format json a.json b.json
//	cat scores.json | argmax select -k 1
//	argmax info
//
// Inputs are JSON arrays of rows ([[0.1, 0.9], ...]) or CSV files with one
// row per line. Settings come from --config, then ARGMAX_* environment
// variables, then flags.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewCLI().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
