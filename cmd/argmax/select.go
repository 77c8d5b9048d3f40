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
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/ajroetker/go-argmax/blob"
	"github.com/ajroetker/go-argmax/hwy"
	"github.com/ajroetker/go-argmax/hwy/contrib/workerpool"
	"github.com/ajroetker/go-argmax/internal/log"
	"github.com/ajroetker/go-argmax/layers/argmax"
)

// rowResult is the selection for one input row, best first.
type rowResult struct {
	Row     int       `json:"row"`
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values,omitempty"`
}

// fileResult is the selection for every row of one input.
type fileResult struct {
	Name string      `json:"name"`
	Rows []rowResult `json:"rows"`

	// bits is the precision values were computed in, for formatting.
	bits int
}

func newSelectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select [FILE...]",
		Short: "Report the top-K classes of every row",
		Long: `Report the top-K classes of every row of each FILE.

FILE is a JSON array of rows or a CSV file with one row per line. With no
FILE, or when FILE is -, standard input is read. Files are processed
concurrently and reported in argument order.`,
		RunE: selectHandler,
	}
	cmd.Flags().IntP("top-k", "k", 1, "Number of classes to report per row")
	cmd.Flags().Bool("values", false, "Also report the selected scores")
	cmd.Flags().Int("workers", 0, "Worker goroutines for large inputs (0 = GOMAXPROCS)")
	cmd.Flags().String("format", "table", "Output format (table, json, csv)")
	cmd.Flags().String("precision", "float32", "Computation precision (float32, float64)")
	return cmd
}

func selectHandler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	precision, _ := cmd.Flags().GetString("precision")
	if precision != "float32" && precision != "float64" {
		return fmt.Errorf("precision must be float32 or float64, got %q", precision)
	}

	if len(args) == 0 {
		args = []string{stdinName}
	}
	if n := countOf(args, stdinName); n > 1 {
		return errors.New("standard input can only be read once")
	}

	pool := workerpool.New(cfg.Workers)
	defer pool.Close()
	param := argmax.Param{TopK: cfg.TopK, OutMaxVal: cfg.IncludeValues}
	log.Debugf("select: files=%d top_k=%d values=%t workers=%d precision=%s",
		len(args), cfg.TopK, cfg.IncludeValues, pool.NumWorkers(), precision)

	results := make([]fileResult, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, name := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scores, err := readMatrix(name, cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			res := fileResult{Name: name}
			switch precision {
			case "float32":
				res.Rows, err = runLayer[float32](param, pool, scores)
				res.bits = 32
			default:
				res.Rows, err = runLayer[float64](param, pool, scores)
				res.bits = 64
			}
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			results[i] = res
			log.Infof("%s: rows=%d top_k=%d", name, len(res.Rows), cfg.TopK)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return writeResults(cmd.OutOrStdout(), cfg.Format, cfg.IncludeValues, results)
}

func countOf(args []string, name string) int {
	n := 0
	for _, a := range args {
		if a == name {
			n++
		}
	}
	return n
}

// runLayer pushes the rows of scores through an ArgMax layer of precision
// T. A nil scores matrix has no rows.
func runLayer[T hwy.Floats](param argmax.Param, pool *workerpool.Pool, scores *mat.Dense) ([]rowResult, error) {
	if scores == nil {
		return []rowResult{}, nil
	}

	in := blob.FromMatrix[T](scores)
	out, err := blob.New[T](blob.Shape{})
	if err != nil {
		return nil, err
	}
	layer, err := argmax.New[T](param, argmax.WithPool(pool))
	if err != nil {
		return nil, err
	}
	bottom, top := []*blob.Blob[T]{in}, []*blob.Blob[T]{out}
	if err := layer.SetUp(bottom, top); err != nil {
		return nil, err
	}
	if err := layer.Forward(bottom, top); err != nil {
		return nil, err
	}

	// Each item of the top blob is a row of k indices followed, with
	// values, by k scores.
	k := param.TopK
	selected := blob.ToDense(out)
	var values mat.Matrix
	if param.OutMaxVal {
		values = selected.Slice(0, in.Num(), k, 2*k)
	}
	results := make([]rowResult, in.Num())
	for n := range results {
		r := rowResult{Row: n, Indices: make([]int, k)}
		for j := range k {
			r.Indices[j] = int(selected.At(n, j))
		}
		if values != nil {
			r.Values = mat.Row(nil, n, values)
		}
		results[n] = r
	}
	return results, nil
}
