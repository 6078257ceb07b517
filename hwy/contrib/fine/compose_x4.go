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
	"github.com/ajroetker/go-sparse-strips/hwy/asm"
)

// Compositing 4 pixels (one 128-bit register of bytes) at a time, one
// asm.Uint32x4 per channel. Used by the NEON backend. asm.Uint32x4 is a
// portable lane type, so this path runs, and is tested, on every host.

const lanesX4 = 4

func fillFactorsX4(op Compose, as, ab asm.Uint32x4) (fa, fb asm.Uint32x4) {
	var zero asm.Uint32x4
	c255 := asm.BroadcastUint32x4(255)
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

func composeFillX4(dst []byte, c Color, op Compose) {
	var src [4]asm.Uint32x4
	for i := range src {
		src[i] = asm.BroadcastUint32x4(uint32(c[i]))
	}
	c255 := asm.BroadcastUint32x4(255)
	hwy.ProcessWithTail(len(dst)/4, lanesX4,
		func(offset int) {
			block := dst[4*offset : 4*(offset+lanesX4)]
			var px [4]asm.Uint32x4
			px[0], px[1], px[2], px[3] = asm.LoadRGBA8x4(block)
			if op == Plus {
				for i := range px {
					px[i] = src[i].Add(px[i]).Min(c255)
				}
			} else {
				fa, fb := fillFactorsX4(op, src[3], px[3])
				for i := range px {
					px[i] = asm.Div255x4(src[i].Mul(fa)).Add(asm.Div255x4(px[i].Mul(fb)))
				}
			}
			asm.StoreRGBA8x4(block, px[0], px[1], px[2], px[3])
		},
		func(offset, count int) {
			scalarKernel{}.ComposeFill(dst[4*offset:4*(offset+count)], c, op)
		},
	)
}

func composeMaskX4(dst []byte, c Color, mask []byte, op Compose) {
	d := asm.Div255x4
	var src [4]asm.Uint32x4
	for i := range src {
		src[i] = asm.BroadcastUint32x4(uint32(c[i]))
	}
	c255 := asm.BroadcastUint32x4(255)
	as := src[3]
	hwy.ProcessWithTail(len(mask), lanesX4,
		func(offset int) {
			block := dst[4*offset : 4*(offset+lanesX4)]
			var px [4]asm.Uint32x4
			px[0], px[1], px[2], px[3] = asm.LoadRGBA8x4(block)
			am := asm.BroadcastMask4(mask[offset : offset+lanesX4])
			ab := px[3]
			inv := c255.Sub(am)
			invAb := c255.Sub(ab)
			asAm := d(as.Mul(am))
			// 1 - as*am, shared by the operators that keep part of the destination.
			invAsAm := c255.Sub(asAm)
			for i := range px {
				cs, cb := src[i], px[i]
				var v asm.Uint32x4
				switch op {
				case Clear:
					v = d(cb.Mul(inv))
				case Copy:
					v = d(cs.Mul(am)).Add(d(inv.Mul(cb)))
				case Dest:
					v = cb
				case SrcOver:
					v = d(cb.Mul(invAsAm).Add(cs.Mul(am)))
				case DestOver:
					v = cb.Add(d(cs.Mul(d(am.Mul(invAb)))))
				case SrcIn:
					v = d(cs.Mul(d(am.Mul(ab)))).Add(d(inv.Mul(cb)))
				case DestIn:
					v = d(cb.Mul(asAm)).Add(d(inv.Mul(cb)))
				case SrcOut:
					v = d(cs.Mul(d(invAb.Mul(am)))).Add(d(inv.Mul(cb)))
				case DestOut:
					v = d(cb.Mul(invAsAm))
				case SrcAtop:
					v = d(cs.Mul(d(ab.Mul(am)))).Add(d(cb.Mul(invAsAm)))
				case DestAtop:
					v = d(cs.Mul(d(invAb.Mul(am)))).Add(d(cb.Mul(asAm))).Add(d(cb.Mul(inv)))
				case Xor:
					v = d(d(cs.Mul(am)).Mul(invAb)).Add(d(cb.Mul(invAsAm)))
				case Plus:
					v = d(cs.Mul(am)).Add(cb).Min(c255)
				}
				px[i] = v
			}
			asm.StoreRGBA8x4(block, px[0], px[1], px[2], px[3])
		},
		func(offset, count int) {
			scalarKernel{}.ComposeMask(dst[4*offset:4*(offset+count)], c, mask[offset:offset+count], op)
		},
	)
}
