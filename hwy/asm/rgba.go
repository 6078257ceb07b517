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

package asm

// Pixel helpers move interleaved RGBA8 pixels in and out of one vector per
// channel (structure of arrays), widening each byte to a 32-bit lane so that
// products of two channels never overflow.

// LoadRGBA8x4 deinterleaves 4 RGBA8 pixels (16 bytes, one NEON register)
// from px.
func LoadRGBA8x4(px []byte) (r, g, b, a Uint32x4) {
	_ = px[15]
	for i := range 4 {
		r[i] = uint32(px[4*i])
		g[i] = uint32(px[4*i+1])
		b[i] = uint32(px[4*i+2])
		a[i] = uint32(px[4*i+3])
	}
	return r, g, b, a
}

// StoreRGBA8x4 interleaves the channel vectors back into 4 pixels of px,
// keeping the low 8 bits of each lane.
func StoreRGBA8x4(px []byte, r, g, b, a Uint32x4) {
	_ = px[15]
	for i := range 4 {
		px[4*i] = uint8(r[i])
		px[4*i+1] = uint8(g[i])
		px[4*i+2] = uint8(b[i])
		px[4*i+3] = uint8(a[i])
	}
}

// BroadcastMask4 widens 4 coverage bytes into one vector.
func BroadcastMask4(m []byte) Uint32x4 {
	_ = m[3]
	return Uint32x4{uint32(m[0]), uint32(m[1]), uint32(m[2]), uint32(m[3])}
}

// Div255x4 computes (x + 1 + (x >> 8)) >> 8 in every lane, which equals
// x / 255 for all products of two bytes.
func Div255x4(x Uint32x4) Uint32x4 {
	return x.Add(BroadcastUint32x4(1)).Add(x.ShiftAllRight(8)).ShiftAllRight(8)
}
