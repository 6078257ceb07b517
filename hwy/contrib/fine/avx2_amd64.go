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

//go:build amd64 && goexperiment.simd && !noasm && !purego

package fine

import (
	"github.com/cwbudde/algo-vecmath/arch/amd64/avx2"

	"github.com/ajroetker/go-sparse-strips/hwy"
)

func init() {
	kernels[hwy.DispatchAVX2] = avx2Kernel{}
}

// avx2Kernel composes 8 pixels per step and converts coverage 4 values per
// step on simd/archsimd vectors. The float kernels run on the vecmath AVX2
// assembly. Without GOEXPERIMENT=simd, amd64 builds carry only the scalar
// backend.
type avx2Kernel struct{}

func (avx2Kernel) Level() hwy.DispatchLevel { return hwy.DispatchAVX2 }

func (avx2Kernel) Lanes() int { return lanesX8 }

func (avx2Kernel) ComposeFill(dst []byte, c Color, op Compose) {
	composeFillAVX2(dst, c, op)
}

func (avx2Kernel) ComposeMask(dst []byte, c Color, mask []byte, op Compose) {
	composeMaskAVX2(dst, c, mask, op)
}

func (avx2Kernel) CoverageToAlpha(dst []byte, areas []float64, rule FillRule) {
	coverageToAlphaAVX2(dst, areas, rule)
}

func (avx2Kernel) RenderStrips(tiles []LineTile, rule FillRule, strips []Strip, alphas []uint32) ([]Strip, []uint32) {
	return renderStrips(tiles, rule, strips, alphas, accumulateTileAVX2, coverageToAlphaAVX2)
}

func (avx2Kernel) AccumulateCoverage(dst, src []float64) {
	avx2.AddBlockInPlace(dst, src)
}

func (avx2Kernel) ScaleCoverage(dst, src []float64, s float64) {
	avx2.ScaleBlock(dst, src, s)
}

func (avx2Kernel) SumCoverage(areas []float64) float64 {
	return avx2.Sum(areas)
}

func (avx2Kernel) MaxCoverage(areas []float64) float64 {
	return avx2.MaxAbs(areas)
}
