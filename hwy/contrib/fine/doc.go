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

// Package fine provides the fine-rasterization kernels of a sparse-strip
// renderer: Porter-Duff compositing of a solid premultiplied RGBA8 color into
// pixel buffers, with and without per-pixel coverage, float64 coverage
// accumulation, and the strip rendering that turns path lines into packed
// coverage. Rasterizer builds a Scene of wide-tile commands from filled
// paths, and Renderer draws it.
//
// Every kernel has a portable scalar implementation and, where the target
// supports it, AVX2 (amd64, built with GOEXPERIMENT=simd) and NEON (arm64)
// implementations. All backends
// produce bit-identical bytes; float reductions that reassociate additions
// (SumCoverage) stay within a documented bound of the scalar result.
//
// The backend is chosen by an hwy.Dispatcher. Package-level functions use
// Default, which honours the HWY_BACKEND, AVX2, NEON and HWY_NO_SIMD
// environment variables:
//
//	dst := make([]byte, 4*n)
//	err := fine.ComposeFill(dst, fine.Color{255, 0, 0, 255}, fine.SrcOver)
//
// To pin a backend explicitly:
//
//	ex, err := fine.NewExecutor(hwy.WithOverride(hwy.Force(hwy.DispatchNEON)))
//	if hwy.IsBackendUnavailable(err) {
//	    // NEON is not compiled in or not supported by this CPU.
//	}
//
// Pixel buffers are row- or column-major sequences of 4-byte pixels; the
// kernels only care about pixel order, never about image geometry. Tile
// arranges pixels the way the wide-tile renderer does.
package fine
