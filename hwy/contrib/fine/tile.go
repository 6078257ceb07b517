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
	"github.com/grailbio/base/simd"

	"github.com/ajroetker/go-sparse-strips/hwy"
)

const (
	// TileWidth is the width in pixels of a wide tile.
	TileWidth = 256

	// StripHeight is the height in pixels of a strip and of a wide tile.
	StripHeight = 4

	// columnBytes is the size of one strip column: StripHeight RGBA8 pixels.
	columnBytes = StripHeight * 4

	// TileBytes is the size of a wide tile's scratch buffer.
	TileBytes = TileWidth * columnBytes
)

// Tile is the scratch buffer of one wide tile, TileWidth x StripHeight
// pixels stored column by column: the StripHeight pixels of column x occupy
// bytes [x*16, x*16+16). This is the layout ComposeStrip expects.
//
// A Tile is not safe for concurrent use; give each goroutine its own.
type Tile struct {
	ex  *Executor
	buf [TileBytes]byte
}

// NewTile returns a transparent tile whose kernels run on ex.
func NewTile(ex *Executor) *Tile {
	return &Tile{ex: ex}
}

// Bytes returns the scratch buffer.
func (t *Tile) Bytes() []byte {
	return t.buf[:]
}

// Pixel returns the pixel at column x, row y of the tile.
func (t *Tile) Pixel(x, y int) Color {
	return Color([4]byte(t.buf[x*columnBytes+y*4:][:4]))
}

// Clear sets every pixel to c.
func (t *Tile) Clear(c Color) error {
	if err := c.validate(); err != nil {
		return err
	}
	if c[0] == c[1] && c[1] == c[2] && c[2] == c[3] {
		simd.Memset8(t.buf[:], c[0])
		return nil
	}
	for i := 0; i < len(t.buf); i += 4 {
		copy(t.buf[i:i+4], c[:])
	}
	return nil
}

func (t *Tile) columns(x, width int) ([]byte, error) {
	if x < 0 || width < 0 || x+width > TileWidth {
		return nil, hwy.InvalidInputf("fine: columns [%d, %d) outside tile of width %d", x, x+width, TileWidth)
	}
	return t.buf[x*columnBytes : (x+width)*columnBytes], nil
}

// Fill composes c over width whole columns starting at column x. An opaque
// color composed with SrcOver is written with Copy, which is equivalent.
func (t *Tile) Fill(x, width int, c Color, op Compose) error {
	dst, err := t.columns(x, width)
	if err != nil {
		return err
	}
	if op == SrcOver && c.Opaque() {
		op = Copy
	}
	return t.ex.ComposeFill(dst, c, op)
}

// Strip composes c over width columns starting at column x, weighted by the
// packed coverage alphas[0:width].
func (t *Tile) Strip(x, width int, alphas []uint32, c Color, op Compose) error {
	dst, err := t.columns(x, width)
	if err != nil {
		return err
	}
	if len(alphas) < width {
		return hwy.InvalidInputf("fine: strip of width %d has only %d alpha columns", width, len(alphas))
	}
	return t.ex.ComposeStrip(dst, c, alphas[:width], op)
}

// Pack copies the tile into p as the wide tile at tile coordinates (tx, ty),
// that is at pixel (tx*TileWidth, ty*StripHeight). Pixels falling outside
// the pixmap are dropped.
func (t *Tile) Pack(p *Pixmap, tx, ty int) error {
	if err := p.validate(); err != nil {
		return err
	}
	if tx < 0 || ty < 0 || tx >= p.TilesX() || ty >= p.TilesY() {
		return hwy.InvalidInputf("fine: tile (%d, %d) outside %dx%d pixmap", tx, ty, p.Width, p.Height)
	}
	x0, y0 := tx*TileWidth, ty*StripHeight
	width := min(p.Width-x0, TileWidth)
	height := min(p.Height-y0, StripHeight)
	for j := range height {
		row := p.Data[((y0+j)*p.Width+x0)*4:][:width*4]
		for i := range width {
			copy(row[i*4:i*4+4], t.buf[i*columnBytes+j*4:])
		}
	}
	return nil
}
