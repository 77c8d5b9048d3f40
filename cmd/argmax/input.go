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
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// stdinName is the argument that selects standard input.
const stdinName = "-"

// readMatrix reads a score matrix from name, or from stdin when name is
// "-". The format follows the extension; stdin and unknown extensions are
// sniffed: a leading '[' means JSON, anything else CSV. An input without
// rows yields a nil matrix.
func readMatrix(name string, stdin io.Reader) (*mat.Dense, error) {
	rows, err := readRows(name, stdin)
	if err != nil {
		return nil, err
	}
	return denseFromRows(rows)
}

// denseFromRows packs rectangular rows into a matrix.
func denseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, errors.New("rows have no columns")
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

func readRows(name string, stdin io.Reader) ([][]float64, error) {
	var r io.Reader
	if name == stdinName {
		r = stdin
	} else {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return decodeJSON(r)
	case ".csv":
		return decodeCSV(r)
	}

	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	if first == '[' {
		return decodeJSON(br)
	}
	return decodeCSV(br)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if strings.IndexByte(" \t\r\n", b) < 0 {
			return b, br.UnreadByte()
		}
	}
}

func decodeJSON(r io.Reader) ([][]float64, error) {
	var rows [][]float64
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return rows, nil
}

func decodeCSV(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	rows := make([][]float64, len(records))
	for i, rec := range records {
		rows[i] = make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("decode csv: line %d column %d: %w", i+1, j+1, err)
			}
			rows[i][j] = v
		}
	}
	return rows, nil
}
