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

// Package mask implements binary occupancy masks and the morphological
// operations used for tolerant coverage scoring.
package mask

import (
	"fmt"
	"image"
)

// Mask is a fixed-size grid of occupied/empty pixels in row-major order.
type Mask struct {
	width  int
	height int
	bits   []bool
}

// New returns an empty mask. Negative dimensions are treated as zero.
func New(width, height int) *Mask {
	width = max(width, 0)
	height = max(height, 0)
	return &Mask{
		width:  width,
		height: height,
		bits:   make([]bool, width*height),
	}
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.height }

// Size returns the mask dimensions.
func (m *Mask) Size() image.Point { return image.Point{X: m.width, Y: m.height} }

// Bounds returns the mask dimensions as a rectangle anchored at the origin.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// At reports whether the pixel (x, y) is occupied.
// Pixels outside the mask are empty.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return false
	}
	return m.bits[y*m.width+x]
}

// Set marks the pixel (x, y). Coordinates outside the mask are ignored.
func (m *Mask) Set(x, y int, occupied bool) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.bits[y*m.width+x] = occupied
}

// Count returns the number of occupied pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// IsEmpty reports whether no pixel is occupied.
func (m *Mask) IsEmpty() bool {
	for _, b := range m.bits {
		if b {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of m.
func (m *Mask) Clone() *Mask {
	c := New(m.width, m.height)
	copy(c.bits, m.bits)
	return c
}

// SameSize reports whether m and other have equal dimensions.
func (m *Mask) SameSize(other *Mask) bool {
	return m.width == other.width && m.height == other.height
}

// Contains reports whether every occupied pixel of other is occupied in m.
func (m *Mask) Contains(other *Mask) (bool, error) {
	if !m.SameSize(other) {
		return false, &DimensionMismatchError{A: m.Size(), B: other.Size()}
	}
	for i, b := range other.bits {
		if b && !m.bits[i] {
			return false, nil
		}
	}
	return true, nil
}

// Image returns a grayscale rendering of m: occupied pixels are black,
// empty pixels are white.
func (m *Mask) Image() *image.Gray {
	img := image.NewGray(m.Bounds())
	for y := range m.height {
		row := img.Pix[y*img.Stride : y*img.Stride+m.width]
		for x := range m.width {
			if m.bits[y*m.width+x] {
				row[x] = 0
			} else {
				row[x] = 0xFF
			}
		}
	}
	return img
}

// DimensionMismatchError is returned when two masks of different size are
// combined.
type DimensionMismatchError struct {
	A, B image.Point
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("mask: dimension mismatch %dx%d vs %dx%d", e.A.X, e.A.Y, e.B.X, e.B.Y)
}
