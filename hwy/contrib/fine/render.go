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
	"github.com/ajroetker/go-sparse-strips/hwy/contrib/workerpool"
)

// CmdKind distinguishes the commands of a wide tile.
type CmdKind uint8

const (
	// CmdFill composes a color over whole columns.
	CmdFill CmdKind = iota
	// CmdStrip composes a color over columns weighted by strip coverage.
	CmdStrip
)

// Cmd is one drawing command of a wide tile. Columns are tile-relative.
type Cmd struct {
	Kind  CmdKind
	X     int
	Width int
	// AlphaIndex is the first coverage column of a strip in Scene.Alphas.
	AlphaIndex int
	Color      Color
	Op         Compose
}

// WideTile lists the commands for the tile at tile coordinates (X, Y).
type WideTile struct {
	X, Y       int
	Background Color
	Cmds       []Cmd
}

// Scene is the output of coarse rasterization: per-tile command lists plus
// the packed strip coverage they refer to.
type Scene struct {
	Tiles  []WideTile
	Alphas []uint32
}

// Run executes one command against the tile.
func (t *Tile) Run(cmd Cmd, alphas []uint32) error {
	switch cmd.Kind {
	case CmdFill:
		return t.Fill(cmd.X, cmd.Width, cmd.Color, cmd.Op)
	case CmdStrip:
		if cmd.AlphaIndex < 0 || cmd.AlphaIndex > len(alphas) {
			return hwy.InvalidInputf("fine: alpha index %d outside %d alpha columns", cmd.AlphaIndex, len(alphas))
		}
		return t.Strip(cmd.X, cmd.Width, alphas[cmd.AlphaIndex:], cmd.Color, cmd.Op)
	}
	return hwy.InvalidInputf("fine: unknown command kind %d", cmd.Kind)
}

// Renderer runs fine rasterization for whole scenes, one wide tile per
// worker at a time.
type Renderer struct {
	ex      *Executor
	pool    *workerpool.Pool
	scratch []*Tile
}

// NewRenderer returns a Renderer whose kernels run on ex, distributing tiles
// over pool. The pool may be shared with other Renderers.
func NewRenderer(ex *Executor, pool *workerpool.Pool) *Renderer {
	scratch := make([]*Tile, pool.NumWorkers())
	for i := range scratch {
		scratch[i] = NewTile(ex)
	}
	return &Renderer{ex: ex, pool: pool, scratch: scratch}
}

// Executor returns the executor the Renderer runs kernels on.
func (r *Renderer) Executor() *Executor {
	return r.ex
}

// Render draws scene into p. Every command is checked before any pixel is
// written, so an invalid scene leaves p unchanged. Tiles must not repeat
// coordinates. Render must not be called concurrently on one Renderer.
func (r *Renderer) Render(p *Pixmap, scene *Scene) error {
	if err := p.validate(); err != nil {
		return err
	}
	if err := scene.validate(p); err != nil {
		return err
	}
	return r.pool.ForEach(len(scene.Tiles), func(slot, i int) error {
		wt := &scene.Tiles[i]
		t := r.scratch[slot]
		if err := t.Clear(wt.Background); err != nil {
			return err
		}
		for _, cmd := range wt.Cmds {
			if err := t.Run(cmd, scene.Alphas); err != nil {
				return err
			}
		}
		return t.Pack(p, wt.X, wt.Y)
	})
}

// Unpremultiply converts p to straight alpha using the pool.
func (r *Renderer) Unpremultiply(p *Pixmap) error {
	if err := p.validate(); err != nil {
		return err
	}
	r.pool.ParallelFor(p.Height, func(start, end int) {
		unpremultiply(p.Data[start*p.Width*4 : end*p.Width*4])
	})
	return nil
}

func (s *Scene) validate(p *Pixmap) error {
	seen := make(map[[2]int]bool, len(s.Tiles))
	for i := range s.Tiles {
		wt := &s.Tiles[i]
		if wt.X < 0 || wt.Y < 0 || wt.X >= p.TilesX() || wt.Y >= p.TilesY() {
			return hwy.InvalidInputf("fine: tile (%d, %d) outside %dx%d pixmap", wt.X, wt.Y, p.Width, p.Height)
		}
		if seen[[2]int{wt.X, wt.Y}] {
			return hwy.InvalidInputf("fine: tile (%d, %d) listed twice", wt.X, wt.Y)
		}
		seen[[2]int{wt.X, wt.Y}] = true
		if err := wt.Background.validate(); err != nil {
			return err
		}
		for _, cmd := range wt.Cmds {
			if err := s.validateCmd(cmd); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Scene) validateCmd(cmd Cmd) error {
	if cmd.X < 0 || cmd.Width < 0 || cmd.X+cmd.Width > TileWidth {
		return hwy.InvalidInputf("fine: columns [%d, %d) outside tile of width %d", cmd.X, cmd.X+cmd.Width, TileWidth)
	}
	if err := cmd.Color.validate(); err != nil {
		return err
	}
	if err := cmd.Op.validate(); err != nil {
		return err
	}
	switch cmd.Kind {
	case CmdFill:
	case CmdStrip:
		if cmd.AlphaIndex < 0 || cmd.AlphaIndex+cmd.Width > len(s.Alphas) {
			return hwy.InvalidInputf("fine: strip needs alpha columns [%d, %d) of %d",
				cmd.AlphaIndex, cmd.AlphaIndex+cmd.Width, len(s.Alphas))
		}
	default:
		return hwy.InvalidInputf("fine: unknown command kind %d", cmd.Kind)
	}
	return nil
}
