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

package topk

import (
	"fmt"
	"math"

	"github.com/ajroetker/go-argmax/hwy"
	"github.com/ajroetker/go-argmax/hwy/contrib/workerpool"
)

const (
	// MinParallelSelectOps is the minimum total element count (num*dim)
	// before SelectParallel hands rows to the pool.
	MinParallelSelectOps = 16384

	// SelectRowBatch is the number of rows a worker claims at a time.
	SelectRowBatch = 4
)

// Selector picks the top K entries per row. Its configuration is fixed at
// construction; a Selector holds no other state and is safe for
// concurrent use.
type Selector[T hwy.Floats] struct {
	topK          int
	includeValues bool
}

// New returns a Selector reporting the topK best entries per row, and
// their values when includeValues is set. It fails with a
// *ConfigurationError if topK < 1.
func New[T hwy.Floats](topK int, includeValues bool) (*Selector[T], error) {
	if topK < 1 {
		return nil, &ConfigurationError{Constraint: ConstraintMinTopK, TopK: topK}
	}
	return &Selector[T]{topK: topK, includeValues: includeValues}, nil
}

// TopK returns the number of entries selected per row.
func (s *Selector[T]) TopK() int { return s.topK }

// IncludeValues reports whether selected values are emitted.
func (s *Selector[T]) IncludeValues() bool { return s.includeValues }

// Validate checks that a [num, dim] batch can be processed. It fails with
// a *ConfigurationError if top_k > dim and with a *ShapeError for a
// negative num or a dim too large for int32 indices.
func (s *Selector[T]) Validate(num, dim int) error {
	if num < 0 {
		return &ShapeError{Field: "num", Got: num, Want: ">= 0"}
	}
	if s.topK > dim {
		return &ConfigurationError{Constraint: ConstraintMaxTopK, TopK: s.topK, Dim: dim}
	}
	if dim > math.MaxInt32 {
		return &ShapeError{Field: "dim", Got: dim, Want: fmt.Sprintf("<= %d", math.MaxInt32)}
	}
	return nil
}

// Shape is the layout of an Output, derived from the configuration and the
// number of rows only.
type Shape struct {
	Num       int
	TopK      int
	HasValues bool
}

// OutputShape returns the Output shape for a batch of num rows.
func (s *Selector[T]) OutputShape(num int) Shape {
	return Shape{Num: num, TopK: s.topK, HasValues: s.includeValues}
}

// Output holds the selection for a batch, row-major: row r occupies
// [r*TopK, (r+1)*TopK) of Indices and, when present, of Values.
type Output[T hwy.Floats] struct {
	Shape   Shape
	Indices []int32
	// Values is nil unless Shape.HasValues.
	Values []T
}

// NewOutput allocates an Output for num rows.
func (s *Selector[T]) NewOutput(num int) *Output[T] {
	return NewOutput[T](s.OutputShape(num))
}

// NewOutput allocates an Output of the given shape.
func NewOutput[T hwy.Floats](shape Shape) *Output[T] {
	out := &Output[T]{
		Shape:   shape,
		Indices: make([]int32, shape.Num*shape.TopK),
	}
	if shape.HasValues {
		out.Values = make([]T, shape.Num*shape.TopK)
	}
	return out
}

// RowIndices returns the selected column indices of row r, best first.
func (o *Output[T]) RowIndices(r int) []int32 {
	k := o.Shape.TopK
	return o.Indices[r*k : (r+1)*k : (r+1)*k]
}

// RowValues returns the selected values of row r, best first, or nil when
// the output carries no values.
func (o *Output[T]) RowValues(r int) []T {
	if o.Values == nil {
		return nil
	}
	k := o.Shape.TopK
	return o.Values[r*k : (r+1)*k : (r+1)*k]
}

// Select fills out with the selection of every row of the row-major
// [num, dim] input. All preconditions are checked before any row is read;
// on error out is left untouched.
func (s *Selector[T]) Select(input []T, num, dim int, out *Output[T]) error {
	return s.SelectParallel(nil, input, num, dim, out)
}

// SelectParallel is Select with rows spread over pool. It runs
// sequentially when pool is nil or num*dim is below MinParallelSelectOps.
// The result is identical to Select.
func (s *Selector[T]) SelectParallel(pool *workerpool.Pool, input []T, num, dim int, out *Output[T]) error {
	if err := s.check(input, num, dim, out); err != nil {
		return err
	}
	if num == 0 {
		return nil
	}

	if pool == nil || num*dim < MinParallelSelectOps {
		s.selectRows(input, dim, out, 0, num)
		return nil
	}
	pool.ParallelForAtomicBatched(num, SelectRowBatch, func(start, end int) {
		s.selectRows(input, dim, out, start, end)
	})
	return nil
}

func (s *Selector[T]) check(input []T, num, dim int, out *Output[T]) error {
	if err := s.Validate(num, dim); err != nil {
		return err
	}
	if len(input) != num*dim {
		return &ShapeError{Field: "input length", Got: len(input), Want: fmt.Sprintf("%d (num=%d * dim=%d)", num*dim, num, dim)}
	}
	if out == nil {
		return &ShapeError{Field: "output rows", Got: 0, Want: fmt.Sprintf("%d, output is nil", num)}
	}
	want := s.OutputShape(num)
	if out.Shape != want {
		return &ShapeError{Field: "output rows", Got: out.Shape.Num, Want: fmt.Sprintf("%d with top_k=%d values=%t", want.Num, want.TopK, want.HasValues)}
	}
	if len(out.Indices) != num*s.topK {
		return &ShapeError{Field: "output indices length", Got: len(out.Indices), Want: fmt.Sprint(num * s.topK)}
	}
	if s.includeValues && len(out.Values) != num*s.topK {
		return &ShapeError{Field: "output values length", Got: len(out.Values), Want: fmt.Sprint(num * s.topK)}
	}
	return nil
}

// selectRows processes rows [start, end) with one heap for the whole range.
func (s *Selector[T]) selectRows(input []T, dim int, out *Output[T], start, end int) {
	var h *boundedHeap[T]
	if s.topK > 1 {
		h = newBoundedHeap[T](s.topK)
	}
	for r := start; r < end; r++ {
		s.selectRow(h, input[r*dim:(r+1)*dim], out.RowIndices(r), out.RowValues(r))
	}
}

// SelectRow writes the selection of a single row into indices and, when
// the Selector includes values and values is non-nil, into values.
// It panics if row is shorter than TopK or the destinations are shorter
// than TopK.
func (s *Selector[T]) SelectRow(row []T, indices []int32, values []T) {
	if len(row) < s.topK {
		panic(fmt.Sprintf("topk: row of %d entries is shorter than top_k=%d", len(row), s.topK))
	}
	if len(indices) < s.topK || (values != nil && len(values) < s.topK) {
		panic(fmt.Sprintf("topk: destination shorter than top_k=%d", s.topK))
	}
	var h *boundedHeap[T]
	if s.topK > 1 {
		h = newBoundedHeap[T](s.topK)
	}
	s.selectRow(h, row, indices[:s.topK], values)
}

func (s *Selector[T]) selectRow(h *boundedHeap[T], row []T, indices []int32, values []T) {
	if !s.includeValues {
		values = nil
	}
	if s.topK == 1 {
		best := argmaxRow(row)
		indices[0] = best
		if values != nil {
			values[0] = row[best]
		}
		return
	}

	h.reset()
	for j, v := range row {
		h.offer(v, int32(j))
	}
	h.drain(indices, values)
}
