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
	"encoding/binary"
	"os"
	"sync"

	"github.com/ajroetker/go-sparse-strips/hwy"
)

// Executor runs kernels on one resolved backend. It validates every call
// before touching the destination, so a failed call leaves it unchanged.
// An Executor is safe for concurrent use.
type Executor struct {
	kernel Kernel
}

// NewExecutor resolves a backend among the compiled ones with an
// hwy.Dispatcher configured by opts. Without options the CPU is inspected and
// the best backend is chosen. A forced backend that cannot run yields an
// error satisfying hwy.IsBackendUnavailable.
func NewExecutor(opts ...hwy.Option) (*Executor, error) {
	return newExecutor(hwy.NewDispatcher(Compiled(), opts...))
}

func newExecutor(d *hwy.Dispatcher) (*Executor, error) {
	level, err := d.Level()
	if err != nil {
		return nil, err
	}
	k, err := KernelFor(level)
	if err != nil {
		return nil, err
	}
	return &Executor{kernel: k}, nil
}

// ForLevel returns an Executor for level, failing if it is not compiled in or
// not supported by the CPU.
func ForLevel(level hwy.DispatchLevel) (*Executor, error) {
	return NewExecutor(hwy.WithOverride(hwy.Force(level)))
}

var defaultExecutor = sync.OnceValues(func() (*Executor, error) {
	ov, err := hwy.OverrideFromEnv(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	return NewExecutor(hwy.WithOverride(ov))
})

// Default returns the process-wide Executor, configured from the
// environment on first use (see hwy.OverrideFromEnv). Its backend, or the
// error explaining why the forced backend cannot run, never changes.
func Default() (*Executor, error) {
	return defaultExecutor()
}

// Level returns the backend this Executor runs on.
func (e *Executor) Level() hwy.DispatchLevel {
	return e.kernel.Level()
}

// Kernel returns the backend implementation.
func (e *Executor) Kernel() Kernel {
	return e.kernel
}

func checkPixels(dst []byte) error {
	if len(dst)%4 != 0 {
		return hwy.InvalidInputf("fine: pixel buffer length %d is not a multiple of 4", len(dst))
	}
	return nil
}

// ComposeFill composes c over every pixel of dst with op.
func (e *Executor) ComposeFill(dst []byte, c Color, op Compose) error {
	if err := checkPixels(dst); err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}
	if err := op.validate(); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}
	e.kernel.ComposeFill(dst, c, op)
	return nil
}

// ComposeMask composes c over dst with op, weighting pixel j by the coverage
// mask[j] (0 leaves Dest semantics, 255 is full coverage). The mask must have
// exactly one byte per pixel.
func (e *Executor) ComposeMask(dst []byte, c Color, mask []byte, op Compose) error {
	if err := checkPixels(dst); err != nil {
		return err
	}
	if len(mask)*4 != len(dst) {
		return hwy.InvalidInputf("fine: mask has %d entries for %d pixels", len(mask), len(dst)/4)
	}
	if err := c.validate(); err != nil {
		return err
	}
	if err := op.validate(); err != nil {
		return err
	}
	if len(mask) == 0 {
		return nil
	}
	e.kernel.ComposeMask(dst, c, mask, op)
	return nil
}

// ComposeStrip is ComposeMask with coverage packed the way strips store it:
// alphas[k] covers the column of StripHeight pixels starting at pixel
// k*StripHeight, byte j (little-endian) being the coverage of its pixel j.
func (e *Executor) ComposeStrip(dst []byte, c Color, alphas []uint32, op Compose) error {
	if err := checkPixels(dst); err != nil {
		return err
	}
	if len(alphas)*StripHeight*4 != len(dst) {
		return hwy.InvalidInputf("fine: %d strip columns for %d pixels", len(alphas), len(dst)/4)
	}
	var buf [TileWidth * StripHeight]byte
	mask := buf[:0]
	if len(alphas)*StripHeight > len(buf) {
		mask = make([]byte, 0, len(alphas)*StripHeight)
	}
	for _, a := range alphas {
		mask = binary.LittleEndian.AppendUint32(mask, a)
	}
	return e.ComposeMask(dst, c, mask, op)
}

// CoverageToAlpha converts the signed coverage areas into alphas using rule.
// dst and areas must have the same length.
func (e *Executor) CoverageToAlpha(dst []byte, areas []float64, rule FillRule) error {
	if len(dst) != len(areas) {
		return hwy.InvalidInputf("fine: %d alphas for %d areas", len(dst), len(areas))
	}
	if err := rule.validate(); err != nil {
		return err
	}
	e.kernel.CoverageToAlpha(dst, areas, rule)
	return nil
}

// RenderStrips computes the strips and packed coverage of tiles, as made by
// MakeTiles, and appends them to strips and alphas. Strip columns index the
// grown alphas, so alphas may carry the coverage of earlier paths.
func (e *Executor) RenderStrips(tiles []LineTile, rule FillRule, strips []Strip, alphas []uint32) ([]Strip, []uint32, error) {
	if err := rule.validate(); err != nil {
		return strips, alphas, err
	}
	if !tilesSorted(tiles) {
		return strips, alphas, hwy.InvalidInputf("fine: tiles are not sorted by row and column")
	}
	for i := range tiles {
		t := &tiles[i]
		if t.X < -1 {
			return strips, alphas, hwy.InvalidInputf("fine: tile %d has column %d < -1", i, t.X)
		}
		if !finite(t.P0.X) || !finite(t.P0.Y) || !finite(t.P1.X) || !finite(t.P1.Y) {
			return strips, alphas, hwy.InvalidInputf("fine: tile %d has a non-finite point", i)
		}
	}
	strips, alphas = e.kernel.RenderStrips(tiles, rule, strips, alphas)
	return strips, alphas, nil
}

// AccumulateCoverage adds src to dst element-wise.
func (e *Executor) AccumulateCoverage(dst, src []float64) error {
	if len(dst) != len(src) {
		return hwy.InvalidInputf("fine: accumulating %d areas into %d", len(src), len(dst))
	}
	e.kernel.AccumulateCoverage(dst, src)
	return nil
}

// ScaleCoverage stores src[i]*s into dst[i].
func (e *Executor) ScaleCoverage(dst, src []float64, s float64) error {
	if len(dst) != len(src) {
		return hwy.InvalidInputf("fine: scaling %d areas into %d", len(src), len(dst))
	}
	e.kernel.ScaleCoverage(dst, src, s)
	return nil
}

// SumCoverage returns the sum of areas. Vector backends add in a different
// order than the scalar one, so results agree only to within rounding.
func (e *Executor) SumCoverage(areas []float64) float64 {
	return e.kernel.SumCoverage(areas)
}

// MaxCoverage returns the largest absolute value in areas, or 0.
func (e *Executor) MaxCoverage(areas []float64) float64 {
	return e.kernel.MaxCoverage(areas)
}
