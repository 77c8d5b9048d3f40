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

package topk_test

import (
	"fmt"

	"github.com/ajroetker/go-argmax/hwy/contrib/topk"
)

func ExampleSelector_Select() {
	scores := []float32{
		1, 2, 3,
		3, 2, 1,
	}
	sel, err := topk.New[float32](2, true)
	if err != nil {
		panic(err)
	}
	out := sel.NewOutput(2)
	if err := sel.Select(scores, 2, 3, out); err != nil {
		panic(err)
	}
	for r := range 2 {
		fmt.Println(out.RowIndices(r), out.RowValues(r))
	}
	// Output:
	// [2 1] [3 2]
	// [0 1] [3 2]
}

func ExampleSelector_Validate() {
	sel, _ := topk.New[float64](5, false)
	fmt.Println(sel.Validate(8, 3))
	// Output:
	// topk: top_k must be less than or equal to the number of classes (top_k=5, dim=3)
}
