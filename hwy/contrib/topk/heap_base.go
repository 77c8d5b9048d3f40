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

import "github.com/ajroetker/go-argmax/hwy"

// ranksAbove reports whether entry (va, ia) is ordered before (vb, ib):
// larger value first, NaN after everything else, lower index on ties.
func ranksAbove[T hwy.Floats](va T, ia int32, vb T, ib int32) bool {
	aNaN, bNaN := hwy.IsNaN(va), hwy.IsNaN(vb)
	switch {
	case aNaN || bNaN:
		if aNaN && bNaN {
			return ia < ib
		}
		return bNaN
	case va != vb:
		return va > vb
	default:
		return ia < ib
	}
}

type entry[T hwy.Floats] struct {
	value T
	index int32
}

// boundedHeap keeps the k best entries offered so far. The root is the
// lowest ranked of them, so a new entry only needs to beat the root.
type boundedHeap[T hwy.Floats] struct {
	items []entry[T]
	k     int
}

func newBoundedHeap[T hwy.Floats](k int) *boundedHeap[T] {
	return &boundedHeap[T]{items: make([]entry[T], 0, k), k: k}
}

func (h *boundedHeap[T]) reset() {
	h.items = h.items[:0]
}

// below reports whether items[i] must sit above items[j] in the heap.
func (h *boundedHeap[T]) below(i, j int) bool {
	a, b := h.items[i], h.items[j]
	return ranksAbove(b.value, b.index, a.value, a.index)
}

func (h *boundedHeap[T]) offer(v T, i int32) {
	if len(h.items) < h.k {
		h.items = append(h.items, entry[T]{value: v, index: i})
		h.siftUp(len(h.items) - 1)
		return
	}
	root := h.items[0]
	if ranksAbove(v, i, root.value, root.index) {
		h.items[0] = entry[T]{value: v, index: i}
		h.siftDown(0)
	}
}

func (h *boundedHeap[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.below(i, parent) {
			return
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *boundedHeap[T]) siftDown(i int) {
	n := len(h.items)
	for {
		lowest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.below(left, lowest) {
			lowest = left
		}
		if right < n && h.below(right, lowest) {
			lowest = right
		}
		if lowest == i {
			return
		}
		h.items[i], h.items[lowest] = h.items[lowest], h.items[i]
		i = lowest
	}
}

// drain empties the heap into indices (and values, when non-nil) in
// descending rank order. Both must hold at least len(h.items) elements.
func (h *boundedHeap[T]) drain(indices []int32, values []T) {
	for n := len(h.items); n > 0; n-- {
		worst := h.items[0]
		indices[n-1] = worst.index
		if values != nil {
			values[n-1] = worst.value
		}
		h.items[0] = h.items[n-1]
		h.items = h.items[:n-1]
		h.siftDown(0)
	}
}

// argmaxRow returns the index of the highest ranked entry of row.
// row must not be empty.
func argmaxRow[T hwy.Floats](row []T) int32 {
	var best int32
	for i := 1; i < len(row); i++ {
		if ranksAbove(row[i], int32(i), row[best], best) {
			best = int32(i)
		}
	}
	return best
}
