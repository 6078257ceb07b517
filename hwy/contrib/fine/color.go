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
	"fmt"

	"github.com/ajroetker/go-sparse-strips/hwy"
)

// Color is a premultiplied RGBA8 color: no color component exceeds alpha.
type Color [4]uint8

// Transparent is the zero color.
var Transparent = Color{}

// Opaque reports whether the color has full alpha.
func (c Color) Opaque() bool {
	return c[3] == 255
}

// Premultiply converts a straight-alpha color to premultiplied form.
func Premultiply(r, g, b, a uint8) Color {
	mul := func(x uint8) uint8 { return uint8(div255(uint32(x) * uint32(a))) }
	return Color{mul(r), mul(g), mul(b), a}
}

func (c Color) validate() error {
	for i := range 3 {
		if c[i] > c[3] {
			return hwy.InvalidInputf("fine: color %v is not premultiplied: component %d exceeds alpha", c, i)
		}
	}
	return nil
}

// Compose is a Porter-Duff compositing operator.
type Compose uint8

// Porter-Duff operators, see https://www.w3.org/TR/compositing-1/.
const (
	Clear Compose = iota
	Copy
	Dest
	SrcOver
	DestOver
	SrcIn
	DestIn
	SrcOut
	DestOut
	SrcAtop
	DestAtop
	Xor
	Plus

	numCompose
)

var composeNames = [numCompose]string{
	Clear:    "clear",
	Copy:     "copy",
	Dest:     "dest",
	SrcOver:  "src-over",
	DestOver: "dest-over",
	SrcIn:    "src-in",
	DestIn:   "dest-in",
	SrcOut:   "src-out",
	DestOut:  "dest-out",
	SrcAtop:  "src-atop",
	DestAtop: "dest-atop",
	Xor:      "xor",
	Plus:     "plus",
}

// ComposeOps lists every operator.
func ComposeOps() []Compose {
	ops := make([]Compose, numCompose)
	for i := range ops {
		ops[i] = Compose(i)
	}
	return ops
}

func (op Compose) String() string {
	if op < numCompose {
		return composeNames[op]
	}
	return fmt.Sprintf("compose(%d)", uint8(op))
}

// ParseCompose returns the operator with the given name, as printed by String.
func ParseCompose(name string) (Compose, error) {
	for i, n := range composeNames {
		if n == name {
			return Compose(i), nil
		}
	}
	return 0, hwy.InvalidInputf("fine: unknown compose operator %q", name)
}

func (op Compose) validate() error {
	if op >= numCompose {
		return hwy.InvalidInputf("fine: unknown compose operator %d", uint8(op))
	}
	return nil
}

// FillRule selects how signed coverage areas become alpha.
type FillRule uint8

const (
	// NonZero treats any winding as inside, clamping |area| to 1.
	NonZero FillRule = iota
	// EvenOdd alternates inside and outside with each unit of winding.
	EvenOdd
)

func (r FillRule) String() string {
	switch r {
	case NonZero:
		return "nonzero"
	case EvenOdd:
		return "evenodd"
	}
	return fmt.Sprintf("fillrule(%d)", uint8(r))
}

// active reports whether pixels with the given winding number are inside.
func (r FillRule) active(winding int32) bool {
	if r == EvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

func (r FillRule) validate() error {
	if r > EvenOdd {
		return hwy.InvalidInputf("fine: unknown fill rule %d", uint8(r))
	}
	return nil
}
