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
	"cmp"
	"math"
	"math/bits"
	"slices"
)

// Point is a position in pixels.
type Point struct {
	X, Y float32
}

// Line is a straight path segment from P0 to P1, in pixels. Closed shapes
// are given as the list of their edges.
type Line struct {
	P0, P1 Point
}

// LineTile is the part of one line that crosses one StripHeight x StripHeight
// cell. X and Y index the cell; P0 and P1 are relative to its top-left
// corner, in pixels, so both lie in [0, StripHeight].
//
// A point with X == 0 marks a crossing of the cell's left edge. Lines that
// merely end on a vertical grid line are moved right by a tiny amount so
// that this holds.
type LineTile struct {
	// X is clamped to -1: cells left of the pixmap only contribute winding.
	X int32
	Y uint16

	P0, P1 Point
}

const (
	// sentinelY is the cell row of the sentinel tiles MakeTiles appends,
	// and one past the last row MakeTiles keeps.
	sentinelY = 0x3fff

	// maxTileX clamps cell columns so that they sort before the sentinels.
	maxTileX = 0x3ffc

	cellScale     float32 = StripHeight
	fracCellScale float32 = 8192 * StripHeight
	nudgeFactor   float32 = 0.0000001
)

func newLineTile(x, y float32, p0, p1 Point) LineTile {
	return LineTile{
		X:  int32(min(max(x, -1), maxTileX)),
		Y:  uint16(y),
		P0: p0,
		P1: p1,
	}
}

func (t *LineTile) sameLoc(o *LineTile) bool {
	return t.X == o.X && t.Y == o.Y
}

// sameStrip reports whether o is in the same row as t and at most one cell
// away, so that the two cells join into one strip.
func (t *LineTile) sameStrip(o *LineTile) bool {
	return t.Y == o.Y && o.X-t.X <= 1 && t.X-o.X <= 1
}

// delta is the winding the line adds to every pixel right of it in the row
// of cells: +1 when it leaves through the top edge, -1 when it enters there.
func (t *LineTile) delta() int32 {
	var d int32
	if t.P1.Y == 0 {
		d++
	}
	if t.P0.Y == 0 {
		d--
	}
	return d
}

// footprint returns the columns of the cell the line touches.
func (t *LineTile) footprint() footprint {
	start := uint32(clampCell(floor32(min(t.P0.X, t.P1.X))))
	end := uint32(clampCell(ceil32(max(t.P0.X, t.P1.X))))
	end = min(max(start+1, end), StripHeight)
	return footprintRange(start, end)
}

// sortKey orders tiles by row, then column, with all cells left of the
// pixmap first.
func (t *LineTile) sortKey() uint32 {
	return uint32(t.Y)<<16 | uint32(max(t.X+1, 0))
}

func clampCell(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	return min(v, StripHeight)
}

// footprint is a bit set of the columns of a cell, or of a run of cells
// when columns past StripHeight are set.
type footprint uint32

func footprintIndex(i uint32) footprint {
	return 1 << i
}

func footprintRange(start, end uint32) footprint {
	return footprint(1<<end - 1<<start)
}

// x0 is the first column, or 32 if f is empty.
func (f footprint) x0() uint32 {
	return uint32(bits.TrailingZeros32(uint32(f)))
}

// x1 is one past the last column, or 0 if f is empty.
func (f footprint) x1() uint32 {
	return uint32(32 - bits.LeadingZeros32(uint32(f)))
}

func floor32(v float32) float32 { return float32(math.Floor(float64(v))) }

func ceil32(v float32) float32 { return float32(math.Ceil(float64(v))) }

func signum32(v float32) float32 {
	if math.Signbit(float64(v)) {
		return -1
	}
	return 1
}

// spanned is the number of cells between two cell coordinates, at least 1.
func spanned(a, b float32) uint32 {
	return uint32(max(ceil32(max(a, b))-floor32(min(a, b)), 1))
}

// nudge moves a point on a vertical grid line slightly to the right; only
// true crossings may have a cell-relative x of 0.
func nudge(p Point) Point {
	if _, frac := math.Modf(float64(p.X)); frac == 0 {
		p.X += 1 / fracCellScale
	}
	return p
}

func scaleUp(v float32) float32 { return v * cellScale }

func scaleDown(p Point) Point {
	return Point{p.X * (1 / cellScale), p.Y * (1 / cellScale)}
}

// MakeTiles splits lines into the cells they cross and appends the
// resulting tiles to dst, sorted by row and column, followed by two
// sentinel tiles that close the last strip. Cells above the pixmap are
// dropped. Line coordinates must be finite.
func MakeTiles(dst []LineTile, lines []Line) []LineTile {
	start := len(dst)
	push := func(x, y float32, p0, p1 Point) {
		if y >= 0 && y < sentinelY {
			dst = append(dst, newLineTile(x, y, p0, p1))
		}
	}

	for _, l := range lines {
		s0 := nudge(scaleDown(l.P0))
		s1 := nudge(scaleDown(l.P1))
		countX := spanned(s0.X, s1.X)
		countY := spanned(s0.Y, s1.Y)

		x := floor32(s0.X)
		if s0.X == x && s1.X < x {
			// s0 is on the right edge of the previous cell.
			x--
		}
		y := floor32(s0.Y)
		if s0.Y == y && s1.Y < y {
			// s0 is on the bottom edge of the cell above.
			y--
		}
		packed0 := Point{scaleUp(s0.X - x), scaleUp(s0.Y - y)}

		switch {
		case countX == 1 && countY == 1:
			push(x, y, packed0, Point{scaleUp(s1.X - x), scaleUp(s1.Y - y)})

		case countX == 1:
			// A vertical column of cells; every cell but the last is crossed at
			// its top or bottom edge.
			invSlope := (s1.X - s0.X) / (s1.Y - s0.Y)
			sign := signum32(s1.Y - s0.Y)
			xclip0 := (s0.X - x) + (y-s0.Y)*invSlope
			yclip, flip := scaleUp(0), scaleUp(1)
			if sign > 0 {
				xclip0 += invSlope
				yclip, flip = scaleUp(1), scaleUp(-1)
			}
			last := packed0
			for i := range countY - 1 {
				xclip := xclip0 + float32(i)*sign*invSlope
				p := Point{max(scaleUp(xclip), nudgeFactor), yclip}
				push(x, y, last, p)
				last = Point{p.X, p.Y + flip}
				y += sign
			}
			push(x, y, last, Point{scaleUp(s1.X - x), scaleUp(s1.Y - y)})

		case countY == 1:
			// A horizontal row of cells.
			slope := (s1.Y - s0.Y) / (s1.X - s0.X)
			sign := signum32(s1.X - s0.X)
			yclip0 := (s0.Y - y) + (x-s0.X)*slope
			xclip, flip := scaleUp(0), scaleUp(1)
			if sign > 0 {
				yclip0 += slope
				xclip, flip = scaleUp(1), scaleUp(-1)
			}
			last := packed0
			for i := range countX - 1 {
				yclip := yclip0 + float32(i)*sign*slope
				p := Point{xclip, max(scaleUp(yclip), nudgeFactor)}
				push(x, y, last, p)
				last = Point{p.X + flip, p.Y}
				x += sign
			}
			push(x, y, last, Point{scaleUp(s1.X - x), scaleUp(s1.Y - y)})

		default:
			// Walk the grid along the line, stepping to whichever grid line
			// it crosses next.
			recipDX := 1 / (s1.X - s0.X)
			signX := signum32(s1.X - s0.X)
			recipDY := 1 / (s1.Y - s0.Y)
			signY := signum32(s1.Y - s0.Y)

			tClipX := (x - s0.X) * recipDX
			xclip, flipX := scaleUp(0), scaleUp(1)
			if signX > 0 {
				tClipX += recipDX
				xclip, flipX = scaleUp(1), scaleUp(-1)
			}
			tClipY := (y - s0.Y) * recipDY
			yclip, flipY := scaleUp(0), scaleUp(1)
			if signY > 0 {
				tClipY += recipDY
				yclip, flipY = scaleUp(1), scaleUp(-1)
			}

			x1 := x + float32(countX-1)*signX
			y1 := y + float32(countY-1)*signY
			xi, yi := x, y
			last := packed0
			for {
				// Compare with the walk direction rather than for equality;
				// rounding can step past the target cell.
				doneX := (signX > 0 && xi >= x1) || (signX < 0 && xi <= x1)
				doneY := (signY > 0 && yi >= y1) || (signY < 0 && yi <= y1)
				if doneX && doneY {
					break
				}
				if tClipY < tClipX {
					xi0 := s0.X + (s1.X-s0.X)*tClipY - xi
					p := Point{max(scaleUp(xi0), nudgeFactor), yclip}
					push(xi, yi, last, p)
					tClipY += abs32(recipDY)
					yi += signY
					last = Point{p.X, p.Y + flipY}
				} else {
					yi0 := s0.Y + (s1.Y-s0.Y)*tClipX - yi
					p := Point{xclip, max(scaleUp(yi0), nudgeFactor)}
					push(xi, yi, last, p)
					tClipX += abs32(recipDX)
					xi += signX
					last = Point{p.X + flipX, p.Y}
				}
			}
			push(xi, yi, last, Point{scaleUp(s1.X - xi), scaleUp(s1.Y - yi)})
		}
	}

	slices.SortStableFunc(dst[start:], func(a, b LineTile) int {
		return cmp.Compare(a.sortKey(), b.sortKey())
	})
	// The sentinels produce one extra strip past the last row, so every real
	// strip has a successor to take its width from.
	return append(dst,
		LineTile{X: 0x3ffd, Y: sentinelY},
		LineTile{X: 0x3fff, Y: sentinelY},
	)
}

func abs32(v float32) float32 { return float32(math.Abs(float64(v))) }

// tilesSorted reports whether tiles are in the order MakeTiles produces.
func tilesSorted(tiles []LineTile) bool {
	return slices.IsSortedFunc(tiles, func(a, b LineTile) int {
		return cmp.Compare(a.sortKey(), b.sortKey())
	})
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}
