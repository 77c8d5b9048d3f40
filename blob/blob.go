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

// Package blob provides the 4D (num, channels, height, width) numeric buffer
// that layers exchange. Data is stored row-major with width varying
// fastest, so a blob of shape (num, c, h, w) viewed as a matrix has num rows
// of c*h*w columns.
package blob

import (
	"fmt"

	"github.com/ajroetker/go-argmax/hwy"
)

// Shape is the extent of a blob along its four axes.
type Shape struct {
	Num      int
	Channels int
	Height   int
	Width    int
}

// Count returns the number of elements of the shape.
func (s Shape) Count() int {
	return s.Num * s.Channels * s.Height * s.Width
}

// Dim returns the number of elements per item, Count()/Num.
// It returns 0 for an empty batch.
func (s Shape) Dim() int {
	if s.Num == 0 {
		return 0
	}
	return s.Count() / s.Num
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", s.Num, s.Channels, s.Height, s.Width)
}

// Validate fails if any axis is negative.
func (s Shape) Validate() error {
	if s.Num < 0 || s.Channels < 0 || s.Height < 0 || s.Width < 0 {
		return fmt.Errorf("blob: negative dimension in shape %s", s)
	}
	return nil
}

// Blob is a 4D buffer of T.
type Blob[T hwy.Floats] struct {
	shape Shape
	data  []T
}

// New returns a zeroed blob of the given shape.
func New[T hwy.Floats](shape Shape) (*Blob[T], error) {
	b := &Blob[T]{}
	if err := b.Reshape(shape); err != nil {
		return nil, err
	}
	return b, nil
}

// FromRows builds a (len(rows), dim, 1, 1) blob, copying the rows.
// Every row must have the same length.
func FromRows[T hwy.Floats](rows [][]T) (*Blob[T], error) {
	dim := 0
	if len(rows) > 0 {
		dim = len(rows[0])
	}
	data := make([]T, 0, len(rows)*dim)
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("blob: row %d has %d columns, want %d", i, len(row), dim)
		}
		data = append(data, row...)
	}
	return &Blob[T]{shape: Shape{Num: len(rows), Channels: dim, Height: 1, Width: 1}, data: data}, nil
}

// Shape returns the current shape.
func (b *Blob[T]) Shape() Shape { return b.shape }

// Num returns the batch size.
func (b *Blob[T]) Num() int { return b.shape.Num }

// Count returns the number of elements.
func (b *Blob[T]) Count() int { return len(b.data) }

// Data returns the backing slice. Writes through it are visible in the blob.
func (b *Blob[T]) Data() []T { return b.data }

// Reshape changes the shape, reallocating only when the new shape holds
// more elements than the current capacity. Retained elements keep their
// flat position; newly exposed elements are zeroed.
func (b *Blob[T]) Reshape(shape Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	count := shape.Count()
	if count > cap(b.data) {
		grown := make([]T, count)
		copy(grown, b.data)
		b.data = grown
	} else {
		old := len(b.data)
		b.data = b.data[:count]
		if count > old {
			clear(b.data[old:])
		}
	}
	b.shape = shape
	return nil
}

// Offset returns the flat index of element (n, c, h, w).
// It panics if any coordinate is out of range.
func (b *Blob[T]) Offset(n, c, h, w int) int {
	s := b.shape
	if n < 0 || n >= s.Num || c < 0 || c >= s.Channels || h < 0 || h >= s.Height || w < 0 || w >= s.Width {
		panic(fmt.Sprintf("blob: offset (%d, %d, %d, %d) out of range for shape %s", n, c, h, w, s))
	}
	return ((n*s.Channels+c)*s.Height+h)*s.Width + w
}

// At returns element (n, c, h, w).
func (b *Blob[T]) At(n, c, h, w int) T {
	return b.data[b.Offset(n, c, h, w)]
}

// Set stores v at (n, c, h, w).
func (b *Blob[T]) Set(n, c, h, w int, v T) {
	b.data[b.Offset(n, c, h, w)] = v
}

// Item returns the Dim() elements of batch item n.
func (b *Blob[T]) Item(n int) []T {
	dim := b.shape.Dim()
	return b.data[n*dim : (n+1)*dim]
}
