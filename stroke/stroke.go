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

// Package stroke defines the freehand strokes produced by the input surface.
package stroke

import (
	"errors"
	"slices"

	"github.com/google/uuid"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// ErrEmpty is returned when a stroke is created without any points.
var ErrEmpty = errors.New("stroke: no points")

// Point is a location in canvas coordinates. The y axis points down.
type Point = vec.Vec2

// Stroke is an ordered, non-empty sequence of points captured from a single
// gesture. Strokes are immutable: the point storage is never exposed, and
// edits are expressed by replacing whole stroke lists.
//
// The zero value is not a valid stroke; use [New].
type Stroke struct {
	id     uuid.UUID
	points []Point
}

// New returns a stroke through the given points. The points are copied.
func New(points []Point) (Stroke, error) {
	if len(points) == 0 {
		return Stroke{}, ErrEmpty
	}
	return Stroke{
		id:     uuid.New(),
		points: slices.Clone(points),
	}, nil
}

// ID returns the identity of the stroke. Two strokes created from the same
// points have different IDs.
func (s Stroke) ID() uuid.UUID { return s.id }

// Len returns the number of points.
func (s Stroke) Len() int { return len(s.points) }

// At returns the i-th point.
func (s Stroke) At(i int) Point { return s.points[i] }

// Points returns a copy of the points.
func (s Stroke) Points() []Point { return slices.Clone(s.points) }

// IsZero reports whether s is the zero Stroke.
func (s Stroke) IsZero() bool { return s.id == uuid.Nil }

// Bounds returns the smallest rectangle containing all points.
// The rectangle is empty for the zero Stroke.
func (s Stroke) Bounds() rect.Rect {
	if len(s.points) == 0 {
		return rect.Rect{}
	}
	b := rect.Rect{
		LLx: s.points[0].X, LLy: s.points[0].Y,
		URx: s.points[0].X, URy: s.points[0].Y,
	}
	for _, p := range s.points[1:] {
		b.LLx = min(b.LLx, p.X)
		b.LLy = min(b.LLy, p.Y)
		b.URx = max(b.URx, p.X)
		b.URy = max(b.URy, p.Y)
	}
	return b
}

// AnyIn reports whether any point of any stroke lies in the half-open
// rectangle [LLx, URx) × [LLy, URy).
func AnyIn(strokes []Stroke, r rect.Rect) bool {
	for _, s := range strokes {
		for _, p := range s.points {
			if p.X >= r.LLx && p.X < r.URx && p.Y >= r.LLy && p.Y < r.URy {
				return true
			}
		}
	}
	return false
}

// Path converts the strokes into a path with one open subpath per stroke.
// A stroke with a single point becomes a lone MoveTo.
func Path(strokes []Stroke) *path.Data {
	p := &path.Data{}
	for _, s := range strokes {
		if len(s.points) == 0 {
			continue
		}
		p = p.MoveTo(s.points[0])
		for _, pt := range s.points[1:] {
			p = p.LineTo(pt)
		}
	}
	return p
}
