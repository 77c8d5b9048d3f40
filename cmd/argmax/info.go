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
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-argmax/hwy"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the detected CPU target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			features := hwy.Features()
			if len(features) == 0 {
				features = []string{"none"}
			}
			fmt.Fprintf(w, "target:     %s\n", hwy.CurrentName())
			fmt.Fprintf(w, "width:      %d bytes\n", hwy.CurrentWidth())
			fmt.Fprintf(w, "features:   %s\n", strings.Join(features, ","))
			fmt.Fprintf(w, "lanes:      float32=%d float64=%d int32=%d\n",
				hwy.MaxLanes[float32](), hwy.MaxLanes[float64](), hwy.MaxLanes[int32]())
			fmt.Fprintf(w, "gomaxprocs: %d\n", runtime.GOMAXPROCS(0))
			return nil
		},
	}
}
