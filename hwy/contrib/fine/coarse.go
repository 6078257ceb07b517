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
)

// Rasterizer builds a Scene from filled paths: it splits each path into
// tiles, renders their strips on an Executor and turns the strips into
// commands of the wide tiles they cover. Paths are drawn in the order they
// are filled. A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	ex            *Executor
	width, height int
	tilesX        int
	scene         Scene

	tiles  []LineTile
	strips []Strip
}

// NewRasterizer returns a Rasterizer for a width x height pixmap whose
// kernels run on ex.
func NewRasterizer(ex *Executor, width, height int) (*Rasterizer, error) {
	if width <= 0 || height <= 0 || width > StripHeight*maxTileX || height > StripHeight*sentinelY {
		return nil, hwy.InvalidInputf("fine: invalid rasterizer size %dx%d", width, height)
	}
	r := &Rasterizer{
		ex:     ex,
		width:  width,
		height: height,
		tilesX: (width + TileWidth - 1) / TileWidth,
	}
	tilesY := (height + StripHeight - 1) / StripHeight
	r.scene.Tiles = make([]WideTile, 0, r.tilesX*tilesY)
	for y := range tilesY {
		for x := range r.tilesX {
			r.scene.Tiles = append(r.scene.Tiles, WideTile{X: x, Y: y})
		}
	}
	return r, nil
}

// Reset clears every path drawn so far.
func (r *Rasterizer) Reset() {
	for i := range r.scene.Tiles {
		wt := &r.scene.Tiles[i]
		wt.Background = Transparent
		wt.Cmds = wt.Cmds[:0]
	}
	r.scene.Alphas = r.scene.Alphas[:0]
}

// Scene returns the commands of every path drawn since the last Reset. The
// Scene is owned by the Rasterizer and valid until its next Fill or Reset.
func (r *Rasterizer) Scene() *Scene {
	return &r.scene
}

// Fill draws the closed path made of lines with color c and operator op.
// Pixels are inside according to rule.
func (r *Rasterizer) Fill(lines []Line, rule FillRule, c Color, op Compose) error {
	if err := rule.validate(); err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}
	if err := op.validate(); err != nil {
		return err
	}
	for i, l := range lines {
		if !finite(l.P0.X) || !finite(l.P0.Y) || !finite(l.P1.X) || !finite(l.P1.Y) {
			return hwy.InvalidInputf("fine: line %d has a non-finite point", i)
		}
	}

	r.tiles = MakeTiles(r.tiles[:0], lines)
	var err error
	r.strips, r.scene.Alphas, err = r.ex.RenderStrips(r.tiles, rule, r.strips[:0], r.scene.Alphas)
	if err != nil {
		return err
	}
	r.generateCommands(rule, c, op)
	return nil
}

// generateCommands adds a strip command for every strip and a fill command
// for the inside span between a strip and the next one in its row.
func (r *Rasterizer) generateCommands(rule FillRule, c Color, op Compose) {
	strips := r.strips
	for i := 0; i+1 < len(strips); i++ {
		s := strips[i]
		if s.X >= int32(r.width) {
			continue
		}
		if s.Y >= uint32(r.height) {
			// Strips are sorted, so the rest are below the pixmap too.
			break
		}
		next := strips[i+1]

		// Strips may start left of the pixmap; skip their columns there.
		var adjust uint32
		if s.X < 0 {
			adjust = uint32(-s.X)
		}
		x0 := uint32(s.X + int32(adjust))
		row := int(s.Y / StripHeight)
		rowStart := row * r.tilesX
		col := s.Col + adjust
		var width uint32
		if next.Col > col {
			width = next.Col - col
		}
		x1 := x0 + width

		x := x0
		xt1 := min(int((x1+TileWidth-1)/TileWidth), r.tilesX)
		for xt := int(x0 / TileWidth); xt < xt1; xt++ {
			w := min(x1, uint32(xt+1)*TileWidth) - x
			wt := &r.scene.Tiles[rowStart+xt]
			wt.Cmds = append(wt.Cmds, Cmd{
				Kind:       CmdStrip,
				X:          int(x % TileWidth),
				Width:      int(w),
				AlphaIndex: int(col),
				Color:      c,
				Op:         op,
			})
			x += w
			col += w
		}

		if rule.active(next.Winding) && row == int(next.Y/StripHeight) && next.X >= 0 {
			x2 := min(uint32(next.X), uint32(r.width))
			x = x1
			fxt1 := min(int((x2+TileWidth-1)/TileWidth), r.tilesX)
			for xt := int(x1 / TileWidth); xt < fxt1 && x < x2; xt++ {
				w := min(x2, uint32(xt+1)*TileWidth) - x
				r.scene.Tiles[rowStart+xt].fill(int(x%TileWidth), int(w), c, op)
				x += w
			}
		}
	}
}

// fill adds a fill command. Covering the whole tile with an opaque color
// hides everything drawn before, so the tile restarts from that color.
func (wt *WideTile) fill(x, width int, c Color, op Compose) {
	if x == 0 && width == TileWidth && c.Opaque() && (op == SrcOver || op == Copy) {
		wt.Cmds = wt.Cmds[:0]
		wt.Background = c
		return
	}
	wt.Cmds = append(wt.Cmds, Cmd{Kind: CmdFill, X: x, Width: width, Color: c, Op: op})
}
