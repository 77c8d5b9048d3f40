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

// Package argmax implements the ArgMax layer: for every item of the bottom
// blob it reports the indices of the top_k largest entries, and optionally
// their values, in the top blob.
//
// The top blob has shape (num, 1, top_k, 1), or (num, 2, top_k, 1) when
// out_max_val is set. Channel 0 holds the class indices, converted to T;
// channel 1 holds the matching values. Entries are ordered best first, with
// ties going to the lower class index.
package argmax

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-argmax/blob"
	"github.com/ajroetker/go-argmax/hwy"
	"github.com/ajroetker/go-argmax/hwy/contrib/topk"
	"github.com/ajroetker/go-argmax/hwy/contrib/workerpool"
	"github.com/ajroetker/go-argmax/internal/log"
)

// Type is the layer type name.
const Type = "ArgMax"

// Param configures the layer.
type Param struct {
	// TopK is the number of classes reported per item.
	TopK int `yaml:"top_k"`
	// OutMaxVal adds the selected values as a second channel.
	OutMaxVal bool `yaml:"out_max_val"`
}

// DefaultParam returns top_k 1 without values.
func DefaultParam() Param {
	return Param{TopK: 1}
}

// ParseParam decodes a YAML document over DefaultParam. Unknown fields are
// rejected. An empty document yields the defaults.
func ParseParam(data []byte) (Param, error) {
	p := DefaultParam()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Param{}, fmt.Errorf("argmax: parse param: %w", err)
	}
	return p, nil
}

// Option configures a Layer.
type Option func(*options)

type options struct {
	pool *workerpool.Pool
}

// WithPool spreads the items of large batches across pool.
func WithPool(pool *workerpool.Pool) Option {
	return func(o *options) { o.pool = pool }
}

// Layer is an ArgMax layer for precision T. Its parameters are fixed at
// construction.
type Layer[T hwy.Floats] struct {
	param    Param
	selector *topk.Selector[T]
	pool     *workerpool.Pool
}

// New returns a layer for param. It fails if TopK < 1.
func New[T hwy.Floats](param Param, opts ...Option) (*Layer[T], error) {
	sel, err := topk.New[T](param.TopK, param.OutMaxVal)
	if err != nil {
		return nil, fmt.Errorf("argmax: %w", err)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Layer[T]{param: param, selector: sel, pool: o.pool}, nil
}

// Type returns "ArgMax".
func (l *Layer[T]) Type() string { return Type }

// Param returns the layer parameters.
func (l *Layer[T]) Param() Param { return l.param }

// ExactNumBottomBlobs is the number of inputs the layer takes.
func (l *Layer[T]) ExactNumBottomBlobs() int { return 1 }

// ExactNumTopBlobs is the number of outputs the layer produces.
func (l *Layer[T]) ExactNumTopBlobs() int { return 1 }

// OutputShape validates a bottom shape and returns the top shape it
// requires. It fails with a *topk.ConfigurationError when top_k exceeds
// the number of classes.
func (l *Layer[T]) OutputShape(bottom blob.Shape) (blob.Shape, error) {
	if err := bottom.Validate(); err != nil {
		return blob.Shape{}, fmt.Errorf("argmax: %w", err)
	}
	if err := l.selector.Validate(bottom.Num, classes(bottom)); err != nil {
		return blob.Shape{}, fmt.Errorf("argmax: bottom %s: %w", bottom, err)
	}
	channels := 1
	if l.param.OutMaxVal {
		channels = 2
	}
	return blob.Shape{Num: bottom.Num, Channels: channels, Height: l.param.TopK, Width: 1}, nil
}

// classes is the number of scores per item. An empty batch still has a
// class count.
func classes(s blob.Shape) int {
	return s.Channels * s.Height * s.Width
}

// SetUp checks the blob counts and the bottom shape, then reshapes top[0]
// to the shape Forward writes.
func (l *Layer[T]) SetUp(bottom, top []*blob.Blob[T]) error {
	if err := l.checkBlobs(bottom, top); err != nil {
		return err
	}
	shape, err := l.OutputShape(bottom[0].Shape())
	if err != nil {
		return err
	}
	if err := top[0].Reshape(shape); err != nil {
		return fmt.Errorf("argmax: %w", err)
	}
	log.Debugf("argmax: setup top_k=%d out_max_val=%t bottom=%s top=%s target=%s",
		l.param.TopK, l.param.OutMaxVal, bottom[0].Shape(), shape, hwy.CurrentName())
	return nil
}

// Forward fills top[0], which must already have the shape SetUp gives it.
// Nothing is written when an error is returned.
func (l *Layer[T]) Forward(bottom, top []*blob.Blob[T]) error {
	if err := l.checkBlobs(bottom, top); err != nil {
		return err
	}
	in, out := bottom[0], top[0]
	want, err := l.OutputShape(in.Shape())
	if err != nil {
		return err
	}
	if got := out.Shape(); got != want {
		return fmt.Errorf("argmax: top shape %s, want %s: %w", got, want, topk.ErrShape)
	}

	num, dim := in.Num(), classes(in.Shape())
	sel := l.selector.NewOutput(num)
	if err := l.selector.SelectParallel(l.pool, in.Data(), num, dim, sel); err != nil {
		return fmt.Errorf("argmax: %w", err)
	}

	k := l.param.TopK
	scatter := func(start, end int) {
		for n := start; n < end; n++ {
			indices, values := sel.RowIndices(n), sel.RowValues(n)
			for j := range k {
				out.Set(n, 0, j, 0, T(indices[j]))
				if values != nil {
					out.Set(n, 1, j, 0, values[j])
				}
			}
		}
	}
	// Items occupy disjoint ranges of the top blob.
	if l.pool != nil && num*dim >= topk.MinParallelSelectOps {
		l.pool.ParallelFor(num, scatter)
	} else {
		scatter(0, num)
	}
	return nil
}

func (l *Layer[T]) checkBlobs(bottom, top []*blob.Blob[T]) error {
	if len(bottom) != l.ExactNumBottomBlobs() {
		return fmt.Errorf("argmax: got %d bottom blobs, want %d", len(bottom), l.ExactNumBottomBlobs())
	}
	if len(top) != l.ExactNumTopBlobs() {
		return fmt.Errorf("argmax: got %d top blobs, want %d", len(top), l.ExactNumTopBlobs())
	}
	if bottom[0] == nil || top[0] == nil {
		return errors.New("argmax: nil blob")
	}
	return nil
}
