// Package topk selects the K largest entries of each row of a row-major
// [num, dim] score matrix and reports their column indices, optionally
// together with the selected values.
//
// # Ordering
//
// Selected entries of a row are reported in descending order of value.
// Equal values are reported lowest column index first. NaN ranks below
// every other value, -Inf included, so a NaN is only selected when a row
// holds fewer than K non-NaN values. The order is therefore a strict total
// order over the entries of a row, and output is fully deterministic.
//
// # Algorithm
//
// Each row is streamed once through a bounded heap holding the K best
// entries seen so far, O(dim log K) per row. K == 1 degenerates to a
// linear argmax scan. Rows are independent; SelectParallel spreads row
// batches over a workerpool.Pool.
//
// # Example Usage
//
//	sel, err := topk.New[float32](2, true)
//	if err != nil {
//	    return err
//	}
//	out := sel.NewOutput(num)
//	if err := sel.Select(scores, num, dim, out); err != nil {
//	    return err
//	}
//	best := out.RowIndices(0) // e.g. [1 3]
//
// Configuration errors (K < 1, K > dim) are reported as *ConfigurationError
// before any row is read.
package topk
