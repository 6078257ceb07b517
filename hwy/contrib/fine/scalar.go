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
	"math"

	"github.com/cwbudde/algo-vecmath/arch/generic"

	"github.com/ajroetker/go-sparse-strips/hwy"
)

// div255 divides a product of two bytes by 255 exactly, using only
// shifts and adds.
func div255(x uint32) uint32 {
	return (x + 1 + (x >> 8)) >> 8
}

// fillFactors returns the Porter-Duff source and destination factors, scaled
// to [0, 255], for source alpha as and destination alpha ab. Plus has no
// factors since it saturates instead.
func fillFactors(op Compose, as, ab uint32) (fa, fb uint32) {
	switch op {
	case Clear:
		return 0, 0
	case Copy:
		return 255, 0
	case Dest:
		return 0, 255
	case SrcOver:
		return 255, 255 - as
	case DestOver:
		return 255 - ab, 255
	case SrcIn:
		return ab, 0
	case DestIn:
		return 0, as
	case SrcOut:
		return 255 - ab, 0
	case DestOut:
		return 0, 255 - as
	case SrcAtop:
		return ab, 255 - as
	case DestAtop:
		return 255 - ab, as
	case Xor:
		return 255 - ab, 255 - as
	}
	panic("fine: no fill factors for " + op.String())
}

// scalarKernel is the portable backend. It is always compiled, and the vector
// backends use it for the pixels that do not fill a whole register.
type scalarKernel struct{}

func (scalarKernel) Level() hwy.DispatchLevel { return hwy.DispatchScalar }

func (scalarKernel) Lanes() int { return 1 }

func (scalarKernel) ComposeFill(dst []byte, c Color, op Compose) {
	if op == Plus {
		for i := range dst {
			dst[i] = uint8(min(255, uint32(c[i&3])+uint32(dst[i])))
		}
		return
	}
	as := uint32(c[3])
	for p := 0; p+4 <= len(dst); p += 4 {
		px := dst[p : p+4 : p+4]
		fa, fb := fillFactors(op, as, uint32(px[3]))
		for i := range 4 {
			px[i] = uint8(div255(uint32(c[i])*fa) + div255(uint32(px[i])*fb))
		}
	}
}

func (scalarKernel) ComposeMask(dst []byte, c Color, mask []byte, op Compose) {
	as := uint32(c[3])
	for j, m := range mask {
		px := dst[4*j : 4*j+4 : 4*j+4]
		am := uint32(m)
		inv := 255 - am
		ab := uint32(px[3])
		for i := range 4 {
			cs, cb := uint32(c[i]), uint32(px[i])
			var v uint32
			switch op {
			case Clear:
				v = div255(cb * inv)
			case Copy:
				v = div255(cs*am) + div255(inv*cb)
			case Dest:
				v = cb
			case SrcOver:
				v = div255(cb*(255-div255(am*as)) + cs*am)
			case DestOver:
				v = cb + div255(cs*div255(am*(255-ab)))
			case SrcIn:
				v = div255(cs*div255(am*ab)) + div255(inv*cb)
			case DestIn:
				v = div255(cb*div255(am*as)) + div255(inv*cb)
			case SrcOut:
				v = div255(cs*div255((255-ab)*am)) + div255(inv*cb)
			case DestOut:
				v = div255(cb * (255 - div255(as*am)))
			case SrcAtop:
				v = div255(cs*div255(ab*am)) + div255(cb*(255-div255(as*am)))
			case DestAtop:
				v = div255(cs*div255((255-ab)*am)) + div255(cb*div255(as*am)) + div255(cb*inv)
			case Xor:
				v = div255(div255(cs*am)*(255-ab)) + div255(cb*(255-div255(as*am)))
			case Plus:
				v = min(255, div255(cs*am)+cb)
			}
			px[i] = uint8(v)
		}
	}
}

func (scalarKernel) CoverageToAlpha(dst []byte, areas []float64, rule FillRule) {
	for i, a := range areas {
		dst[i] = coverageAlpha(a, rule)
	}
}

// coverageAlpha converts a signed coverage area to an 8-bit alpha. NaN
// coverage is treated as empty.
func coverageAlpha(area float64, rule FillRule) uint8 {
	a := math.Abs(area)
	var f float64
	switch rule {
	case NonZero:
		f = min(a, 1)
	case EvenOdd:
		// 2.68 is 68% covered, 1.68 is 32% covered.
		w := a - 2*math.Floor(a*0.5)
		if w > 1 {
			f = 2 - w
		} else {
			f = w
		}
	}
	if !(f >= 0) {
		return 0
	}
	// Not fused into a multiply-add, to round like the vector forms.
	return uint8(float64(f*255) + 0.5)
}

func (scalarKernel) AccumulateCoverage(dst, src []float64) {
	generic.AddBlockInPlace(dst, src)
}

func (scalarKernel) ScaleCoverage(dst, src []float64, s float64) {
	generic.ScaleBlock(dst, src, s)
}

func (scalarKernel) SumCoverage(areas []float64) float64 {
	return generic.Sum(areas)
}

func (scalarKernel) MaxCoverage(areas []float64) float64 {
	return generic.MaxAbs(areas)
}
