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

// Package hwy holds the numeric type constraints shared by the kernels in
// hwy/contrib and reports the instruction set detected for this runtime.
//
// Kernels are written once as generic functions over these constraints and
// instantiated per precision by the caller:
//
//	import "github.com/ajroetker/go-argmax/hwy"
//
//	func Largest[T hwy.Floats](row []T) T { ... }
package hwy

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// Lanes is a constraint for all element types a kernel may operate on.
type Lanes interface {
	Floats | SignedInts
}

// IsNaN reports whether v is an IEEE 754 "not-a-number" value.
// It is the generic counterpart of math.IsNaN and avoids the float64
// conversion for float32 inputs.
func IsNaN[T Floats](v T) bool {
	return v != v
}
