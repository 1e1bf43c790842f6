// seehuhn.de/go/tracescore - scoring traced drawings
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package raster

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrInvalidSize is wrapped by RasterizationError when a canvas
	// dimension is zero or negative.
	ErrInvalidSize = errors.New("invalid canvas size")

	// ErrUnknownGlyph is wrapped by RasterizationError when a glyph name is
	// not in the catalog.
	ErrUnknownGlyph = errors.New("unknown glyph")

	// ErrInvalidWidth is wrapped by RasterizationError when a stroke width
	// is not positive.
	ErrInvalidWidth = errors.New("invalid stroke width")
)

// RasterizationError reports a mask that could not be produced.
type RasterizationError struct {
	Op    string // "strokes" or "reference"
	Glyph string // empty for stroke rasterization
	Size  image.Point
	Err   error
}

func (e *RasterizationError) Error() string {
	if e.Glyph != "" {
		return fmt.Sprintf("raster: %s %q at %dx%d: %v", e.Op, e.Glyph, e.Size.X, e.Size.Y, e.Err)
	}
	return fmt.Sprintf("raster: %s at %dx%d: %v", e.Op, e.Size.X, e.Size.Y, e.Err)
}

func (e *RasterizationError) Unwrap() error { return e.Err }
