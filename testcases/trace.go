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

package testcases

import "seehuhn.de/go/geom/vec"

var traceCases = []Scenario{
	{
		Name:        "circle_chords",
		Width:       300,
		Height:      300,
		Glyph:       "circle.fill",
		StrokeWidth: 10,
		Strokes:     chords(150, 150, 115, 10),
		Inside:      Band{60, 97},
		Outside:     exactly(0),
	},
	{
		Name:        "circle_ring",
		Width:       300,
		Height:      300,
		Glyph:       "circle.fill",
		StrokeWidth: 10,
		Strokes:     [][]vec.Vec2{ring(150, 150, 125, 96)},
		Inside:      Band{5, 25},
		Outside:     Band{0, 1},
	},
	{
		Name:        "star_center_dash",
		Width:       400,
		Height:      600,
		Glyph:       "star.fill",
		Offset:      pt(-0.1, 0.1),
		StrokeWidth: 10,
		Strokes:     [][]vec.Vec2{line(150, 360, 170, 360)},
		Inside:      Band{0.5, 3},
		Outside:     exactly(0),
	},
	{
		Name:        "arrow_shaft",
		Width:       400,
		Height:      600,
		Glyph:       "arrow.right",
		Offset:      pt(0.1, 0.1),
		StrokeWidth: 10,
		Strokes:     [][]vec.Vec2{line(130, 360, 350, 360)},
		Inside:      Band{8, 16},
		Outside:     exactly(0),
	},
}
