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
)

// Strip is a run of StripHeight-tall pixel columns with partial coverage.
// Its coverage is Col, Col+1, ... in the alpha buffer, up to the Col of the
// next strip. Pixels between a strip and the next one in the same row are
// fully inside the shape when the next strip's Winding is active under the
// fill rule.
type Strip struct {
	X       int32
	Y       uint32
	Col     uint32
	Winding int32
}

// stripAreas holds the signed coverage of one cell, column by column:
// pixel (x, y) is at x*StripHeight + y.
type stripAreas [StripHeight * StripHeight]float64

// accumulateFunc adds the coverage of t to columns [x0, x1) of areas.
type accumulateFunc func(areas *stripAreas, t *LineTile, x0, x1 uint32)

// renderStrips walks the sorted tiles cell by cell, accumulating the
// coverage of each cell's lines and appending it to alphas, packed one
// uint32 per column. A strip is appended to strips whenever a run of
// adjacent cells starts. alphas may already hold columns of earlier paths.
func renderStrips(tiles []LineTile, rule FillRule, strips []Strip, alphas []uint32,
	accumulate accumulateFunc, toAlpha func(dst []byte, areas []float64, rule FillRule)) ([]Strip, []uint32) {
	if len(tiles) == 0 {
		return strips, alphas
	}
	var (
		stripStart = true
		cols       = uint32(len(alphas))
		prev       = &tiles[0]
		fp         = prev.footprint()
		segStart   = 0
		delta      int32
	)
	for i := 1; i < len(tiles); i++ {
		t := &tiles[i]
		if !prev.sameLoc(t) {
			startDelta := delta
			sameStrip := prev.sameStrip(t)
			if sameStrip {
				// The run continues into the next cell: include the last column.
				fp |= footprintIndex(StripHeight - 1)
			}
			x0, x1 := fp.x0(), fp.x1()
			if fp == 0 {
				x0, x1 = 0, 0
			}

			var areas stripAreas
			for k := range areas {
				areas[k] = float64(startDelta)
			}
			for j := segStart; j < i; j++ {
				delta += tiles[j].delta()
				accumulate(&areas, &tiles[j], x0, x1)
			}
			var buf [len(areas)]byte
			lo, hi := x0*StripHeight, x1*StripHeight
			toAlpha(buf[lo:hi], areas[lo:hi], rule)
			for k := lo; k < hi; k += StripHeight {
				alphas = append(alphas, binary.LittleEndian.Uint32(buf[k:]))
			}

			if stripStart {
				strips = append(strips, Strip{
					X:       StripHeight*prev.X + int32(x0),
					Y:       StripHeight * uint32(prev.Y),
					Col:     cols,
					Winding: startDelta,
				})
			}
			cols += x1 - x0
			fp = 0
			if sameStrip {
				fp = footprintIndex(0)
			}
			stripStart = !sameStrip
			segStart = i
			if prev.Y != t.Y {
				delta = 0
			}
		}
		fp |= t.footprint()
		prev = t
	}
	return strips, alphas
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// accumulateTile adds the area of every pixel of columns [x0, x1) that
// lies left of the line in t, signed by the line's direction.
//
// Products are converted explicitly so that they are never fused into
// multiply-adds; the vector forms round every step the same way.
func accumulateTile(areas *stripAreas, t *LineTile, x0, x1 uint32) {
	p0x, p0y := float64(t.P0.X), float64(t.P0.Y)
	p1x, p1y := float64(t.P1.X), float64(t.P1.Y)
	invSlope := (p1x - p0x) / (p1y - p0y)

	for x := x0; x < x1; x++ {
		relX := p0x - float64(x)
		for y := range StripHeight {
			fy := float64(y)
			relY := p0y - fy
			// The part of row y the line spans, 0 if it misses the row.
			y0 := clamp01(relY)
			y1 := clamp01(p1y - fy)
			dy := y0 - y1

			area := &areas[int(x)*StripHeight+y]
			if dy != 0 {
				// Where the line enters and leaves the row, relative to the
				// pixel's left edge.
				xx0 := relX + float64((y0-relY)*invSlope)
				xx1 := relX + float64((y1-relY)*invSlope)
				xmin0 := min(xx0, xx1)
				xmax := max(xx0, xx1)
				// Offset by 1e-6 so that xmax - xmin is never zero.
				xmin := min(xmin0, 1) - 1e-6
				b := min(xmax, 1)
				c := max(b, 0)
				d := max(xmin, 0)
				a := (b + float64(0.5*(float64(d*d)-float64(c*c))) - xmin) / (xmax - xmin)
				*area += float64(a * dy)
			}
			// Lines crossing the cell's left edge cover the whole width of the
			// rows they span.
			if p0x == 0 {
				*area += clamp01(fy - p0y + 1)
			} else if p1x == 0 {
				*area -= clamp01(fy - p1y + 1)
			}
		}
	}
}

func (scalarKernel) RenderStrips(tiles []LineTile, rule FillRule, strips []Strip, alphas []uint32) ([]Strip, []uint32) {
	return renderStrips(tiles, rule, strips, alphas, accumulateTile, scalarKernel{}.CoverageToAlpha)
}
