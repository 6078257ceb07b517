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

//go:build arm64 && !noasm && !purego

package fine

import (
	"github.com/cwbudde/algo-vecmath/arch/arm64/neon"

	"github.com/ajroetker/go-sparse-strips/hwy"
)

func init() {
	kernels[hwy.DispatchNEON] = neonKernel{}
}

// neonKernel runs the float kernels on the vecmath NEON assembly.
//
// Go has no arm64 SIMD intrinsics, so compositing uses the portable 4-lane
// asm.Uint32x4 emulation, and CoverageToAlpha and RenderStrips use the
// scalar code. Their results are identical to the scalar backend's.
type neonKernel struct{}

func (neonKernel) Level() hwy.DispatchLevel { return hwy.DispatchNEON }

func (neonKernel) Lanes() int { return lanesX4 }

func (neonKernel) ComposeFill(dst []byte, c Color, op Compose) {
	composeFillX4(dst, c, op)
}

func (neonKernel) ComposeMask(dst []byte, c Color, mask []byte, op Compose) {
	composeMaskX4(dst, c, mask, op)
}

func (neonKernel) CoverageToAlpha(dst []byte, areas []float64, rule FillRule) {
	scalarKernel{}.CoverageToAlpha(dst, areas, rule)
}

func (neonKernel) RenderStrips(tiles []LineTile, rule FillRule, strips []Strip, alphas []uint32) ([]Strip, []uint32) {
	return scalarKernel{}.RenderStrips(tiles, rule, strips, alphas)
}

func (neonKernel) AccumulateCoverage(dst, src []float64) {
	neon.AddBlockInPlace(dst, src)
}

func (neonKernel) ScaleCoverage(dst, src []float64, s float64) {
	neon.ScaleBlock(dst, src, s)
}

func (neonKernel) SumCoverage(areas []float64) float64 {
	return neon.Sum(areas)
}

func (neonKernel) MaxCoverage(areas []float64) float64 {
	return neon.MaxAbs(areas)
}
