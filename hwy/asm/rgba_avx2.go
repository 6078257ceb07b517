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

//go:build amd64 && goexperiment.simd

package asm

import "simd/archsimd"

// LoadRGBA8x8 deinterleaves 8 RGBA8 pixels (32 bytes, one AVX2 register)
// from px. Each 32-bit lane holds one pixel, so the channels are split out
// with shifts and masks.
func LoadRGBA8x8(px []byte) (r, g, b, a archsimd.Int32x8) {
	v := archsimd.LoadUint8x32Slice(px[:32]).AsInt32x8()
	lo := archsimd.BroadcastInt32x8(0xff)
	r = v.And(lo)
	g = v.ShiftAllRight(8).And(lo)
	b = v.ShiftAllRight(16).And(lo)
	a = v.ShiftAllRight(24).And(lo)
	return r, g, b, a
}

// StoreRGBA8x8 interleaves the channel vectors back into 8 pixels of px,
// keeping the low 8 bits of each lane.
func StoreRGBA8x8(px []byte, r, g, b, a archsimd.Int32x8) {
	lo := archsimd.BroadcastInt32x8(0xff)
	v := r.And(lo).
		Or(g.And(lo).ShiftAllLeft(8)).
		Or(b.And(lo).ShiftAllLeft(16)).
		Or(a.ShiftAllLeft(24))
	v.AsUint8x32().StoreSlice(px[:32])
}

// BroadcastMask8 widens 8 coverage bytes into one vector.
func BroadcastMask8(m []byte) archsimd.Int32x8 {
	return archsimd.LoadUint8x16SlicePart(m[:8]).ExtendLo8ToUint32().AsInt32x8()
}

// Div255x8 is Div255x4 for 8 lanes. Lanes must be non-negative.
func Div255x8(x archsimd.Int32x8) archsimd.Int32x8 {
	return x.Add(archsimd.BroadcastInt32x8(1)).Add(x.ShiftAllRight(8)).ShiftAllRight(8)
}
