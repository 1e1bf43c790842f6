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

// Package testcases holds drawing scenarios with the scores they are
// expected to receive. The scenarios are shared between the tests and the
// tools in the export and genpdf subdirectories.
package testcases

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Scenario is a set of strokes drawn over one target.
type Scenario struct {
	Name        string       // lowercase a-z and _ only
	Width       int          // canvas width in pixels
	Height      int          // canvas height in pixels
	Glyph       string       // reference glyph
	Offset      vec.Vec2     // glyph offset as a fraction of the canvas size
	StrokeWidth float64      // line width (>0)
	Strokes     [][]vec.Vec2 // the drawn strokes, in canvas coordinates
	Inside      Band         // expected inside score
	Outside     Band         // expected outside score
}

// Band is a closed interval of acceptable scores.
type Band struct {
	Min, Max float64
}

// Contains reports whether v lies in the band.
func (b Band) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// exactly returns the band containing only v.
func exactly(v float64) Band {
	return Band{Min: v, Max: v}
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// line returns a two-point stroke.
func line(x1, y1, x2, y2 float64) []vec.Vec2 {
	return []vec.Vec2{pt(x1, y1), pt(x2, y2)}
}

// chords fills a disc with horizontal strokes, spacing apart, whose end
// points lie on the circle of radius r.
func chords(cx, cy, r, spacing float64) [][]vec.Vec2 {
	var res [][]vec.Vec2
	n := int(r / spacing)
	for i := -n; i <= n; i++ {
		dy := float64(i) * spacing
		half := math.Sqrt(r*r - dy*dy)
		res = append(res, line(cx-half, cy+dy, cx+half, cy+dy))
	}
	return res
}

// hatch covers the rectangle [x0, x1] × [y0, y1] with horizontal strokes.
// Every stroke has a middle point, so that strokes crossing the canvas
// center have a point near it.
func hatch(x0, y0, x1, y1, spacing float64) [][]vec.Vec2 {
	var res [][]vec.Vec2
	for y := y0; y <= y1; y += spacing {
		res = append(res, []vec.Vec2{pt(x0, y), pt((x0+x1)/2, y), pt(x1, y)})
	}
	return res
}

// ring approximates the circle of radius r by a closed polyline.
func ring(cx, cy, r float64, n int) []vec.Vec2 {
	res := make([]vec.Vec2, n+1)
	for i := range n + 1 {
		a := 2 * math.Pi * float64(i) / float64(n)
		res[i] = pt(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	return res
}
