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

package mask

import "image"

// DefaultThreshold is the channel value below which a painted pixel counts
// as occupied.
const DefaultThreshold = 200

// Binarize converts a painted image into a mask. Each pixel is composited
// over white; it is occupied if it is not fully transparent and at least one
// color channel falls below threshold. Fully transparent pixels are
// background regardless of their color.
func Binarize(img image.Image, threshold uint8) *Mask {
	b := img.Bounds()
	m := New(b.Dx(), b.Dy())

	if g, ok := img.(*image.Gray); ok {
		for y := range m.height {
			row := g.Pix[(y+b.Min.Y-g.Rect.Min.Y)*g.Stride+(b.Min.X-g.Rect.Min.X):]
			bits := m.bits[y*m.width : (y+1)*m.width]
			for x := range bits {
				bits[x] = row[x] < threshold
			}
		}
		return m
	}

	t := uint32(threshold)
	for y := range m.height {
		for x := range m.width {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if a == 0 {
				continue
			}
			// premultiplied color over an opaque white background
			bg := 0xFFFF - a
			r = (r + bg) >> 8
			g = (g + bg) >> 8
			bl = (bl + bg) >> 8
			if r < t || g < t || bl < t {
				m.bits[y*m.width+x] = true
			}
		}
	}
	return m
}
