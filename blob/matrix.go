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

package blob

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ajroetker/go-argmax/hwy"
)

// FromMatrix copies m into a (rows, cols, 1, 1) blob of precision T.
// A nil m yields an empty blob.
func FromMatrix[T hwy.Floats](m mat.Matrix) *Blob[T] {
	if m == nil {
		return &Blob[T]{}
	}
	r, c := m.Dims()
	data := make([]T, r*c)
	if d, ok := m.(*mat.Dense); ok {
		raw := d.RawMatrix()
		for i := range r {
			row := raw.Data[i*raw.Stride : i*raw.Stride+c]
			for j, v := range row {
				data[i*c+j] = T(v)
			}
		}
	} else {
		for i := range r {
			for j := range c {
				data[i*c+j] = T(m.At(i, j))
			}
		}
	}
	return &Blob[T]{shape: Shape{Num: r, Channels: c, Height: 1, Width: 1}, data: data}
}

// ToDense copies b into a Num x Dim dense matrix. An empty blob yields nil,
// since gonum does not allow zero-sized matrices.
func ToDense[T hwy.Floats](b *Blob[T]) *mat.Dense {
	r, c := b.shape.Num, b.shape.Dim()
	if r == 0 || c == 0 {
		return nil
	}
	data := make([]float64, len(b.data))
	for i, v := range b.data {
		data[i] = float64(v)
	}
	return mat.NewDense(r, c, data)
}
