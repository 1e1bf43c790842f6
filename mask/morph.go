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

// Dilate returns m grown by radius pixels using 8-connected expansion:
// every pixel within Chebyshev distance radius of an occupied pixel is
// occupied. This equals radius iterations of 3×3 dilation. For radius ≤ 0
// the result is a copy of m.
func (m *Mask) Dilate(radius int) *Mask {
	if radius <= 0 {
		return m.Clone()
	}

	// The square structuring element is separable: dilate rows, then
	// columns.
	tmp := New(m.width, m.height)
	for y := range m.height {
		dilateLine(m.bits, tmp.bits, y*m.width, 1, m.width, radius)
	}
	out := New(m.width, m.height)
	for x := range m.width {
		dilateLine(tmp.bits, out.bits, x, m.width, m.height, radius)
	}
	return out
}

// dilateLine dilates the n samples src[start], src[start+stride], ... into
// dst using a sliding window of half-width r.
func dilateLine(src, dst []bool, start, stride, n, r int) {
	count := 0
	for i := range min(r, n) {
		if src[start+i*stride] {
			count++
		}
	}
	for i := range n {
		if j := i + r; j < n && src[start+j*stride] {
			count++
		}
		if j := i - r - 1; j >= 0 && src[start+j*stride] {
			count--
		}
		dst[start+i*stride] = count > 0
	}
}

// NeighborCount returns the number of occupied pixels among the eight
// neighbors of (x, y).
func (m *Mask) NeighborCount(x, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if (dx != 0 || dy != 0) && m.At(x+dx, y+dy) {
				n++
			}
		}
	}
	return n
}

// Boundary returns the occupied pixels of m that have at least one
// 8-connected neighbor outside m. Pixels on the image edge always count as
// boundary pixels.
func (m *Mask) Boundary() *Mask {
	return m.boundary(0)
}

// SignificantBoundary returns the boundary pixels which have at least
// minNeighbors occupied neighbors. Isolated speckles and thin spurs are
// dropped.
func (m *Mask) SignificantBoundary(minNeighbors int) *Mask {
	return m.boundary(minNeighbors)
}

func (m *Mask) boundary(minNeighbors int) *Mask {
	out := New(m.width, m.height)
	for y := range m.height {
		for x := range m.width {
			if !m.bits[y*m.width+x] {
				continue
			}
			n := m.NeighborCount(x, y)
			if n < 8 && n >= minNeighbors {
				out.bits[y*m.width+x] = true
			}
		}
	}
	return out
}
