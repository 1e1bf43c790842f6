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

// placementCases have no stroke point within the nominal glyph square, so
// the inside score is zero even where the strokes cross the glyph.
var placementCases = []Scenario{
	{
		Name:        "circle_diagonal",
		Width:       300,
		Height:      300,
		Glyph:       "circle.fill",
		StrokeWidth: 10,
		Strokes:     [][]vec.Vec2{line(10, 10, 290, 290)},
		Inside:      exactly(0),
		Outside:     Band{1, 5},
	},
	{
		Name:        "circle_outside_corner",
		Width:       300,
		Height:      300,
		Glyph:       "circle.fill",
		StrokeWidth: 10,
		Strokes:     [][]vec.Vec2{line(280, 280, 295, 295)},
		Inside:      exactly(0),
		Outside:     Band{0.2, 1.5},
	},
}
