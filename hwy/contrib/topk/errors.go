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
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("topk: invalid configuration")

// ErrShape is matched by every *ShapeError via errors.Is.
var ErrShape = errors.New("topk: shape mismatch")

// Constraints reported by ConfigurationError.
const (
	ConstraintMinTopK = "top_k >= 1"
	ConstraintMaxTopK = "top_k <= dim"
)

// ConfigurationError reports a top_k that is invalid on its own or for the
// shape of the input batch.
type ConfigurationError struct {
	// Constraint is the violated precondition, one of the Constraint* values.
	Constraint string
	TopK       int
	// Dim is the number of classes of the offending input. Zero when the
	// error was raised at construction time.
	Dim int
}

func (e *ConfigurationError) Error() string {
	switch e.Constraint {
	case ConstraintMinTopK:
		return fmt.Sprintf("topk: top_k must not be less than 1 (top_k=%d)", e.TopK)
	case ConstraintMaxTopK:
		return fmt.Sprintf("topk: top_k must be less than or equal to the number of classes (top_k=%d, dim=%d)", e.TopK, e.Dim)
	default:
		return fmt.Sprintf("topk: %s violated (top_k=%d, dim=%d)", e.Constraint, e.TopK, e.Dim)
	}
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ShapeError reports input or output buffers that disagree with the
// declared batch shape.
type ShapeError struct {
	Field string
	Got   int
	Want  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("topk: %s is %d, want %s", e.Field, e.Got, e.Want)
}

// Is reports whether target is ErrShape.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}
