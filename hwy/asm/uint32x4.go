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

// Uint32x4 holds 4 uint32 lanes, the shape of a 128-bit NEON register.
//
// The operations are portable Go over an array, not NEON instructions. The
// Go compiler has no arm64 SIMD intrinsics, so this type gives the NEON
// backend its 4-lane structure and lets the same code run, and be tested,
// on every host.
type Uint32x4 [4]uint32

// BroadcastUint32x4 creates a vector with all lanes set to the given value.
func BroadcastUint32x4(v uint32) Uint32x4 {
	return Uint32x4{v, v, v, v}
}

// LoadUint32x4Slice loads 4 uint32 values from a slice.
func LoadUint32x4Slice(s []uint32) Uint32x4 {
	return Uint32x4(s[:4])
}

// Get returns the element at the given index.
func (v Uint32x4) Get(i int) uint32 {
	return v[i]
}

// StoreSlice stores the vector to a slice.
func (v Uint32x4) StoreSlice(s []uint32) {
	copy(s[:4], v[:])
}

// Add performs element-wise addition.
func (v Uint32x4) Add(o Uint32x4) Uint32x4 {
	return Uint32x4{v[0] + o[0], v[1] + o[1], v[2] + o[2], v[3] + o[3]}
}

// Sub performs element-wise subtraction.
func (v Uint32x4) Sub(o Uint32x4) Uint32x4 {
	return Uint32x4{v[0] - o[0], v[1] - o[1], v[2] - o[2], v[3] - o[3]}
}

// Mul performs element-wise multiplication, keeping the low 32 bits.
func (v Uint32x4) Mul(o Uint32x4) Uint32x4 {
	return Uint32x4{v[0] * o[0], v[1] * o[1], v[2] * o[2], v[3] * o[3]}
}

// Min returns the element-wise minimum.
func (v Uint32x4) Min(o Uint32x4) Uint32x4 {
	return Uint32x4{min(v[0], o[0]), min(v[1], o[1]), min(v[2], o[2]), min(v[3], o[3])}
}

// ShiftAllRight shifts every lane right by n bits.
func (v Uint32x4) ShiftAllRight(n uint64) Uint32x4 {
	return Uint32x4{v[0] >> n, v[1] >> n, v[2] >> n, v[3] >> n}
}
