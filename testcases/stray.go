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

var strayCases = []Scenario{
	{
		Name:        "circle_top_edge",
		Width:       300,
		Height:      300,
		Glyph:       "circle.fill",
		StrokeWidth: 10,
		Strokes:     [][]vec.Vec2{line(5, 5, 295, 5)},
		Inside:      exactly(0),
		Outside:     Band{4, 8},
	},
	{
		Name:        "circle_hatch_full",
		Width:       300,
		Height:      300,
		Glyph:       "circle.fill",
		StrokeWidth: 10,
		Strokes:     hatch(-10, 0, 310, 300, 8),
		Inside:      Band{99, 100},
		Outside:     Band{55, 80},
	},
	{
		Name:        "star_far_scribble",
		Width:       400,
		Height:      600,
		Glyph:       "star.fill",
		Offset:      pt(-0.1, 0.1),
		StrokeWidth: 10,
		Strokes:     hatch(250, 20, 390, 100, 10),
		Inside:      exactly(0),
		Outside:     Band{45, 80},
	},
}
