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

package fine

import (
	"github.com/ajroetker/go-sparse-strips/hwy"
)

// Kernel is the contract every backend implements. Methods assume their
// operands were validated by an Executor: pixel buffers hold whole pixels,
// masks hold one byte per pixel and float slices have matching lengths.
//
// Implementations are stateless and safe for concurrent use. For the same
// inputs every implementation writes the same bytes and strips; SumCoverage may differ
// from the scalar result by the rounding of a reordered summation.
type Kernel interface {
	// Level identifies the backend.
	Level() hwy.DispatchLevel

	// Lanes is the number of pixels processed per vector step. Pixels past
	// the last full step go through the scalar kernel.
	Lanes() int

	// ComposeFill composes c over every pixel of dst.
	ComposeFill(dst []byte, c Color, op Compose)

	// ComposeMask composes c over dst, pixel j weighted by coverage mask[j].
	ComposeMask(dst []byte, c Color, mask []byte, op Compose)

	// CoverageToAlpha converts signed coverage areas to 8-bit alphas.
	CoverageToAlpha(dst []byte, areas []float64, rule FillRule)

	// RenderStrips computes the strips and packed coverage of the sorted
	// tiles, appending to strips and alphas.
	RenderStrips(tiles []LineTile, rule FillRule, strips []Strip, alphas []uint32) ([]Strip, []uint32)

	// AccumulateCoverage adds src to dst element-wise.
	AccumulateCoverage(dst, src []float64)

	// ScaleCoverage stores src[i]*s into dst[i].
	ScaleCoverage(dst, src []float64, s float64)

	// SumCoverage returns the sum of areas, 0 if empty.
	SumCoverage(areas []float64) float64

	// MaxCoverage returns the largest absolute value in areas, 0 if empty.
	MaxCoverage(areas []float64) float64
}

// kernels holds the backends compiled into this binary. Vector backends add
// themselves from init functions in their build-tagged files.
var kernels = map[hwy.DispatchLevel]Kernel{
	hwy.DispatchScalar: scalarKernel{},
}

// Compiled reports the vector backends compiled into this binary. Building
// with -tags noasm or -tags purego leaves only the scalar backend, as does
// building for amd64 without GOEXPERIMENT=simd.
func Compiled() hwy.Capabilities {
	var c hwy.Capabilities
	_, c.AVX2 = kernels[hwy.DispatchAVX2]
	_, c.NEON = kernels[hwy.DispatchNEON]
	return c
}

// KernelFor returns the backend for level without checking that the CPU
// supports it. Prefer NewExecutor, which does.
func KernelFor(level hwy.DispatchLevel) (Kernel, error) {
	k, ok := kernels[level]
	if !ok {
		return nil, hwy.BackendUnavailable(level, "not compiled into this binary")
	}
	return k, nil
}
