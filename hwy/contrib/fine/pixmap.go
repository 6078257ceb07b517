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
	"math"

	"github.com/ajroetker/go-sparse-strips/hwy"
)

// Pixmap is a row-major image of premultiplied RGBA8 pixels.
type Pixmap struct {
	Width, Height int
	Data          []byte
}

// NewPixmap returns a transparent width x height pixmap.
func NewPixmap(width, height int) (*Pixmap, error) {
	if width < 0 || height < 0 {
		return nil, hwy.InvalidInputf("fine: invalid pixmap size %dx%d", width, height)
	}
	return &Pixmap{Width: width, Height: height, Data: make([]byte, width*height*4)}, nil
}

// validate checks that Data holds exactly Width x Height pixels.
func (p *Pixmap) validate() error {
	if p == nil {
		return hwy.InvalidInputf("fine: nil pixmap")
	}
	if p.Width < 0 || p.Height < 0 {
		return hwy.InvalidInputf("fine: invalid pixmap size %dx%d", p.Width, p.Height)
	}
	if len(p.Data) != p.Width*p.Height*4 {
		return hwy.InvalidInputf("fine: %dx%d pixmap has %d bytes, want %d",
			p.Width, p.Height, len(p.Data), p.Width*p.Height*4)
	}
	return nil
}

// TilesX returns the number of wide tile columns covering the pixmap.
func (p *Pixmap) TilesX() int {
	return (p.Width + TileWidth - 1) / TileWidth
}

// TilesY returns the number of wide tile rows covering the pixmap.
func (p *Pixmap) TilesY() int {
	return (p.Height + StripHeight - 1) / StripHeight
}

// At returns the pixel at (x, y).
func (p *Pixmap) At(x, y int) Color {
	return Color([4]byte(p.Data[(y*p.Width+x)*4:][:4]))
}

// Unpremultiply converts the pixmap to straight alpha in place, for
// consumers such as PNG encoders. Transparent pixels are left as they are.
func (p *Pixmap) Unpremultiply() error {
	if err := p.validate(); err != nil {
		return err
	}
	unpremultiply(p.Data)
	return nil
}

func unpremultiply(px []byte) {
	for i := 0; i+4 <= len(px); i += 4 {
		a := px[i+3]
		if a == 0 {
			continue
		}
		alpha := float32(a) * (1.0 / 255)
		for c := range 3 {
			px[i+c] = uint8(min(255, math.Round(float64(float32(px[i+c])/alpha))))
		}
	}
}
