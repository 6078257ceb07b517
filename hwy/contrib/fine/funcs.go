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

// Package-level kernels run on the Default executor. They fail with the
// Default error when the environment forces a backend that cannot run.

// ComposeFill composes c over every pixel of dst using the Default executor.
func ComposeFill(dst []byte, c Color, op Compose) error {
	e, err := Default()
	if err != nil {
		return err
	}
	return e.ComposeFill(dst, c, op)
}

// ComposeMask composes c over dst weighted by mask using the Default executor.
func ComposeMask(dst []byte, c Color, mask []byte, op Compose) error {
	e, err := Default()
	if err != nil {
		return err
	}
	return e.ComposeMask(dst, c, mask, op)
}

// ComposeStrip composes c over dst weighted by packed strip coverage using
// the Default executor.
func ComposeStrip(dst []byte, c Color, alphas []uint32, op Compose) error {
	e, err := Default()
	if err != nil {
		return err
	}
	return e.ComposeStrip(dst, c, alphas, op)
}

// CoverageToAlpha converts coverage areas to alphas using the Default executor.
func CoverageToAlpha(dst []byte, areas []float64, rule FillRule) error {
	e, err := Default()
	if err != nil {
		return err
	}
	return e.CoverageToAlpha(dst, areas, rule)
}

// RenderStrips computes the strips and coverage of tiles using the Default
// executor.
func RenderStrips(tiles []LineTile, rule FillRule, strips []Strip, alphas []uint32) ([]Strip, []uint32, error) {
	e, err := Default()
	if err != nil {
		return strips, alphas, err
	}
	return e.RenderStrips(tiles, rule, strips, alphas)
}
