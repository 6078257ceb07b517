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
	"math"
	"simd/archsimd"

	"github.com/ajroetker/go-sparse-strips/hwy/asm"
)

// AVX2 forms of the kernels, on 256-bit registers: 8 pixels with one
// Int32x8 per channel, or 4 float64 coverage values.
//
// Constants are broadcast inside each function rather than at package
// level, so that the package loads on CPUs without AVX2.

const lanesX8 = 8

func composeFillAVX2(dst []byte, c Color, op Compose) {
	n := len(dst) / 4
	c255 := archsimd.BroadcastInt32x8(255)
	sr := archsimd.BroadcastInt32x8(int32(c[0]))
	sg := archsimd.BroadcastInt32x8(int32(c[1]))
	sb := archsimd.BroadcastInt32x8(int32(c[2]))
	sa := archsimd.BroadcastInt32x8(int32(c[3]))

	for i := 0; i+lanesX8 <= n; i += lanesX8 {
		block := dst[4*i : 4*(i+lanesX8)]
		r, g, b, a := asm.LoadRGBA8x8(block)
		if op == Plus {
			r, g, b, a = sr.Add(r).Min(c255), sg.Add(g).Min(c255), sb.Add(b).Min(c255), sa.Add(a).Min(c255)
		} else {
			fa, fb := fillFactorsAVX2(op, sa, a, c255)
			r = fillChannelAVX2(sr, r, fa, fb)
			g = fillChannelAVX2(sg, g, fa, fb)
			b = fillChannelAVX2(sb, b, fa, fb)
			a = fillChannelAVX2(sa, a, fa, fb)
		}
		asm.StoreRGBA8x8(block, r, g, b, a)
	}
	if tail := n / lanesX8 * lanesX8; tail < n {
		scalarKernel{}.ComposeFill(dst[4*tail:], c, op)
	}
}

func fillFactorsAVX2(op Compose, as, ab, c255 archsimd.Int32x8) (fa, fb archsimd.Int32x8) {
	zero := c255.Sub(c255)
	switch op {
	case Clear:
		return zero, zero
	case Copy:
		return c255, zero
	case Dest:
		return zero, c255
	case SrcOver:
		return c255, c255.Sub(as)
	case DestOver:
		return c255.Sub(ab), c255
	case SrcIn:
		return ab, zero
	case DestIn:
		return zero, as
	case SrcOut:
		return c255.Sub(ab), zero
	case DestOut:
		return zero, c255.Sub(as)
	case SrcAtop:
		return ab, c255.Sub(as)
	case DestAtop:
		return c255.Sub(ab), as
	case Xor:
		return c255.Sub(ab), c255.Sub(as)
	}
	panic("fine: no fill factors for " + op.String())
}

func fillChannelAVX2(cs, cb, fa, fb archsimd.Int32x8) archsimd.Int32x8 {
	return asm.Div255x8(cs.Mul(fa)).Add(asm.Div255x8(cb.Mul(fb)))
}

func composeMaskAVX2(dst []byte, c Color, mask []byte, op Compose) {
	n := len(mask)
	c255 := archsimd.BroadcastInt32x8(255)
	sr := archsimd.BroadcastInt32x8(int32(c[0]))
	sg := archsimd.BroadcastInt32x8(int32(c[1]))
	sb := archsimd.BroadcastInt32x8(int32(c[2]))
	sa := archsimd.BroadcastInt32x8(int32(c[3]))

	for i := 0; i+lanesX8 <= n; i += lanesX8 {
		block := dst[4*i : 4*(i+lanesX8)]
		r, g, b, a := asm.LoadRGBA8x8(block)
		am := asm.BroadcastMask8(mask[i:])
		inv := c255.Sub(am)
		invAb := c255.Sub(a)
		asAm := asm.Div255x8(sa.Mul(am))
		invAsAm := c255.Sub(asAm)
		r = maskChannelAVX2(op, sr, r, am, a, inv, invAb, asAm, invAsAm, c255)
		g = maskChannelAVX2(op, sg, g, am, a, inv, invAb, asAm, invAsAm, c255)
		b = maskChannelAVX2(op, sb, b, am, a, inv, invAb, asAm, invAsAm, c255)
		a = maskChannelAVX2(op, sa, a, am, a, inv, invAb, asAm, invAsAm, c255)
		asm.StoreRGBA8x8(block, r, g, b, a)
	}
	if tail := n / lanesX8 * lanesX8; tail < n {
		scalarKernel{}.ComposeMask(dst[4*tail:], c, mask[tail:], op)
	}
}

// maskChannelAVX2 composes one channel, cs over cb, at coverage am. ab is
// the destination alpha; the remaining operands are derived from it and
// shared by the four channels.
func maskChannelAVX2(op Compose, cs, cb, am, ab, inv, invAb, asAm, invAsAm, c255 archsimd.Int32x8) archsimd.Int32x8 {
	d := asm.Div255x8
	switch op {
	case Clear:
		return d(cb.Mul(inv))
	case Copy:
		return d(cs.Mul(am)).Add(d(inv.Mul(cb)))
	case Dest:
		return cb
	case SrcOver:
		return d(cb.Mul(invAsAm).Add(cs.Mul(am)))
	case DestOver:
		return cb.Add(d(cs.Mul(d(am.Mul(invAb)))))
	case SrcIn:
		return d(cs.Mul(d(am.Mul(ab)))).Add(d(inv.Mul(cb)))
	case DestIn:
		return d(cb.Mul(asAm)).Add(d(inv.Mul(cb)))
	case SrcOut:
		return d(cs.Mul(d(invAb.Mul(am)))).Add(d(inv.Mul(cb)))
	case DestOut:
		return d(cb.Mul(invAsAm))
	case SrcAtop:
		return d(cs.Mul(d(ab.Mul(am)))).Add(d(cb.Mul(invAsAm)))
	case DestAtop:
		return d(cs.Mul(d(invAb.Mul(am)))).Add(d(cb.Mul(asAm))).Add(d(cb.Mul(inv)))
	case Xor:
		return d(d(cs.Mul(am)).Mul(invAb)).Add(d(cb.Mul(invAsAm)))
	case Plus:
		return d(cs.Mul(am)).Add(cb).Min(c255)
	}
	panic("fine: unknown compose operator " + op.String())
}

// absF64x4 clears the sign bits.
func absF64x4(v archsimd.Float64x4) archsimd.Float64x4 {
	return v.AsInt64x4().And(archsimd.BroadcastInt64x4(math.MaxInt64)).AsFloat64x4()
}

// coverageFractionAVX2 is the vector form of the fraction computed by
// coverageAlpha, with the same operations in the same order.
func coverageFractionAVX2(area archsimd.Float64x4, rule FillRule) archsimd.Float64x4 {
	zero := archsimd.BroadcastFloat64x4(0)
	one := archsimd.BroadcastFloat64x4(1)
	a := absF64x4(area)
	var f archsimd.Float64x4
	switch rule {
	case NonZero:
		f = a.Min(one)
	case EvenOdd:
		two := archsimd.BroadcastFloat64x4(2)
		w := a.Sub(a.Mul(archsimd.BroadcastFloat64x4(0.5)).Floor().Mul(two))
		f = two.Sub(w).Merge(w, w.Greater(one))
	}
	// NaN coverage, including Inf mod 2, is empty.
	return zero.Merge(f, a.IsNaN().Or(f.IsNaN()))
}

func coverageToAlphaAVX2(dst []byte, areas []float64, rule FillRule) {
	n := len(areas)
	c255 := archsimd.BroadcastFloat64x4(255)
	half := archsimd.BroadcastFloat64x4(0.5)
	var t [4]float64
	for i := 0; i+4 <= n; i += 4 {
		f := coverageFractionAVX2(archsimd.LoadFloat64x4Slice(areas[i:]), rule)
		f.Mul(c255).Add(half).Store(&t)
		dst[i] = uint8(t[0])
		dst[i+1] = uint8(t[1])
		dst[i+2] = uint8(t[2])
		dst[i+3] = uint8(t[3])
	}
	if tail := n / 4 * 4; tail < n {
		scalarKernel{}.CoverageToAlpha(dst[tail:], areas[tail:], rule)
	}
}

// accumulateTileAVX2 is accumulateTile with the StripHeight rows of a
// column in one register.
func accumulateTileAVX2(areas *stripAreas, t *LineTile, x0, x1 uint32) {
	p0x, p0y := float64(t.P0.X), float64(t.P0.Y)
	p1x, p1y := float64(t.P1.X), float64(t.P1.Y)
	invSlope := (p1x - p0x) / (p1y - p0y)

	zero := archsimd.BroadcastFloat64x4(0)
	one := archsimd.BroadcastFloat64x4(1)
	rows := archsimd.LoadFloat64x4Slice([]float64{0, 1, 2, 3})

	relY := archsimd.BroadcastFloat64x4(p0y).Sub(rows)
	y0 := relY.Max(zero).Min(one)
	y1 := archsimd.BroadcastFloat64x4(p1y).Sub(rows).Max(zero).Min(one)
	dy := y0.Sub(y1)
	// Rows the line misses get a zero slope, keeping their lanes finite;
	// they then add a*0.
	slope := zero.Merge(archsimd.BroadcastFloat64x4(invSlope), dy.Equal(zero))
	dy0 := y0.Sub(relY).Mul(slope)
	dy1 := y1.Sub(relY).Mul(slope)

	var edge archsimd.Float64x4
	edgeSign := 0
	if p0x == 0 {
		edge = rows.Sub(archsimd.BroadcastFloat64x4(p0y)).Add(one).Max(zero).Min(one)
		edgeSign = 1
	} else if p1x == 0 {
		edge = rows.Sub(archsimd.BroadcastFloat64x4(p1y)).Add(one).Max(zero).Min(one)
		edgeSign = -1
	}

	eps := archsimd.BroadcastFloat64x4(1e-6)
	half := archsimd.BroadcastFloat64x4(0.5)
	for x := x0; x < x1; x++ {
		col := areas[x*StripHeight : (x+1)*StripHeight]
		area := archsimd.LoadFloat64x4Slice(col)
		relX := archsimd.BroadcastFloat64x4(p0x - float64(x))
		xx0 := relX.Add(dy0)
		xx1 := relX.Add(dy1)
		xmin0 := xx0.Min(xx1)
		xmax := xx0.Max(xx1)
		xmin := xmin0.Min(one).Sub(eps)
		b := xmax.Min(one)
		c := b.Max(zero)
		d := xmin.Max(zero)
		a := b.Add(half.Mul(d.Mul(d).Sub(c.Mul(c)))).Sub(xmin).Div(xmax.Sub(xmin))
		area = area.Add(a.Mul(dy))
		switch edgeSign {
		case 1:
			area = area.Add(edge)
		case -1:
			area = area.Sub(edge)
		}
		area.StoreSlice(col)
	}
}
