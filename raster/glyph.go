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
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// kappa is the control point distance for approximating a quarter circle
// with a cubic Bézier curve: 4/3 * (sqrt(2) - 1).
const kappa = 0.5522847498307936

// glyphs maps glyph names to outline builders. Each builder returns a
// closed outline which fits into a size×size square centered on the
// origin, with the y-axis pointing down.
var glyphs = map[string]func(size float64) *path.Data{
	"circle.fill": circleGlyph,
	"star.fill":   starGlyph,
	"arrow.right": arrowGlyph,
	"plus":        plusGlyph,
}

// Glyphs returns the names of all known glyphs in sorted order.
func Glyphs() []string {
	names := make([]string, 0, len(glyphs))
	for name := range glyphs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// HasGlyph reports whether name is a known glyph.
func HasGlyph(name string) bool {
	_, ok := glyphs[name]
	return ok
}

// GlyphOutline returns the outline of the named glyph at the given size.
func GlyphOutline(name string, size float64) (*path.Data, bool) {
	build, ok := glyphs[name]
	if !ok {
		return nil, false
	}
	return build(size), true
}

func circleGlyph(size float64) *path.Data {
	r := size / 2
	k := r * kappa
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: r, Y: 0}).
		CubeTo(vec.Vec2{X: r, Y: -k}, vec.Vec2{X: k, Y: -r}, vec.Vec2{X: 0, Y: -r}).
		CubeTo(vec.Vec2{X: -k, Y: -r}, vec.Vec2{X: -r, Y: -k}, vec.Vec2{X: -r, Y: 0}).
		CubeTo(vec.Vec2{X: -r, Y: k}, vec.Vec2{X: -k, Y: r}, vec.Vec2{X: 0, Y: r}).
		CubeTo(vec.Vec2{X: k, Y: r}, vec.Vec2{X: r, Y: k}, vec.Vec2{X: r, Y: 0}).
		Close()
}

// starGlyph is a five-pointed star with one point up. The inner radius is
// the one of a regular pentagram.
func starGlyph(size float64) *path.Data {
	outer := size / 2
	inner := outer * 0.381966
	p := &path.Data{}
	for i := range 10 {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		angle := -math.Pi/2 + float64(i)*math.Pi/5
		pt := vec.Vec2{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
		if i == 0 {
			p = p.MoveTo(pt)
		} else {
			p = p.LineTo(pt)
		}
	}
	return p.Close()
}

func arrowGlyph(size float64) *path.Data {
	return polygon(size, []vec.Vec2{
		{X: -0.5, Y: -0.1},
		{X: 0.1, Y: -0.1},
		{X: 0.1, Y: -0.35},
		{X: 0.5, Y: 0},
		{X: 0.1, Y: 0.35},
		{X: 0.1, Y: 0.1},
		{X: -0.5, Y: 0.1},
	})
}

// plusGlyph has arms of thickness size/6.
func plusGlyph(size float64) *path.Data {
	const t = 1.0 / 12
	return polygon(size, []vec.Vec2{
		{X: -t, Y: -0.5}, {X: t, Y: -0.5}, {X: t, Y: -t},
		{X: 0.5, Y: -t}, {X: 0.5, Y: t}, {X: t, Y: t},
		{X: t, Y: 0.5}, {X: -t, Y: 0.5}, {X: -t, Y: t},
		{X: -0.5, Y: t}, {X: -0.5, Y: -t}, {X: -t, Y: -t},
	})
}

// polygon scales unit-square vertices by size and closes the outline.
func polygon(size float64, pts []vec.Vec2) *path.Data {
	p := (&path.Data{}).MoveTo(pts[0].Mul(size))
	for _, pt := range pts[1:] {
		p = p.LineTo(pt.Mul(size))
	}
	return p.Close()
}
