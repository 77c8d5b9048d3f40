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

//go:build amd64

package hwy

import "golang.org/x/sys/cpu"

func init() {
	detect()
}

func detect() {
	if NoSimdEnv() {
		setScalarMode()
		return
	}

	features = nil
	// SSE2 is part of the x86-64 baseline.
	currentLevel = DispatchSSE2
	currentWidth = 16
	probe("sse2", cpu.X86.HasSSE2)
	probe("sse41", cpu.X86.HasSSE41)
	probe("fma", cpu.X86.HasFMA)

	if probe("avx2", cpu.X86.HasAVX2) {
		currentLevel = DispatchAVX2
		currentWidth = 32
	}
	if probe("avx512f", cpu.X86.HasAVX512F) && cpu.X86.HasAVX512BW {
		currentLevel = DispatchAVX512
		currentWidth = 64
	}
}
