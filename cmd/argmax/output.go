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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/ajroetker/go-argmax/internal/config"
)

func writeResults(w io.Writer, format string, withValues bool, results []fileResult) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case config.FormatCSV:
		return writeCSV(w, withValues, results)
	case config.FormatTable:
		writeTable(w, withValues, results)
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func header(withValues bool) []string {
	h := []string{"file", "row", "rank", "index"}
	if withValues {
		h = append(h, "value")
	}
	return h
}

// records flattens results into one record per (row, rank).
func records(withValues bool, results []fileResult) [][]string {
	var out [][]string
	for _, f := range results {
		for _, r := range f.Rows {
			for rank, idx := range r.Indices {
				rec := []string{f.Name, strconv.Itoa(r.Row), strconv.Itoa(rank), strconv.Itoa(idx)}
				if withValues {
					rec = append(rec, strconv.FormatFloat(r.Values[rank], 'g', -1, f.bits))
				}
				out = append(out, rec)
			}
		}
	}
	return out
}

func writeCSV(w io.Writer, withValues bool, results []fileResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header(withValues)); err != nil {
		return err
	}
	if err := cw.WriteAll(records(withValues, results)); err != nil {
		return err
	}
	return cw.Error()
}

func writeTable(w io.Writer, withValues bool, results []fileResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header(withValues))
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(records(withValues, results))
	table.Render()
}
