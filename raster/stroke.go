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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// strokeSegment represents a line segment in user coordinates
type strokeSegment struct {
	A, B vec.Vec2 // endpoints in user space
	T    vec.Vec2 // unit tangent (A→B direction)
	N    vec.Vec2 // unit normal (90° CCW from T)
}

// Stroke renders the path as a stroked outline using Width, Cap and Join.
// Every subpath is treated as a polyline. The outline is assembled from
// one polygon per segment body, join and cap; all polygons share one
// orientation, so that overlapping parts of the stroke are painted once.
//
// A subpath consisting of a lone MoveTo produces no output. A subpath whose
// points all coincide produces a dot of diameter Width when Cap is round.
//
// The emit callback receives coverage row-by-row; its slice argument is
// valid only during the call.
func (r *Rasterizer) Stroke(p *path.Data, emit func(y, xMin int, coverage []uint8)) {
	r.flattenPath(p)
	if len(r.segsOffsets) == 0 && len(r.dots) == 0 {
		return
	}
	w, h, ok := r.begin()
	if !ok {
		return
	}

	d := r.Width / 2
	if r.Cap == graphics.LineCapRound {
		for _, pt := range r.dots {
			r.addDisc(pt, d)
		}
	}
	for i := range r.segsOffsets {
		r.strokeSubpath(r.getSubpathSegments(i), r.subpathClosed[i], d)
	}

	r.finish(w, h, emit)
}

// getSubpathSegments returns the segments for subpath i as a slice into segs.
func (r *Rasterizer) getSubpathSegments(i int) []strokeSegment {
	start := r.segsOffsets[i]
	end := len(r.segs)
	if i+1 < len(r.segsOffsets) {
		end = r.segsOffsets[i+1]
	}
	return r.segs[start:end]
}

// flattenPath splits p into subpaths of line segments.
//   - r.segs: all segments from all subpaths, contiguous
//   - r.segsOffsets: start index of each subpath in segs
//   - r.subpathClosed: whether each subpath is closed
//   - r.dots: subpaths which have drawing commands but no extent
func (r *Rasterizer) flattenPath(p *path.Data) {
	r.segs = r.segs[:0]
	r.segsOffsets = r.segsOffsets[:0]
	r.subpathClosed = r.subpathClosed[:0]
	r.dots = r.dots[:0]

	var current, start vec.Vec2
	startIdx := 0
	inSubpath := false
	sawDrawing := false

	endSubpath := func(closed bool) {
		switch {
		case len(r.segs) > startIdx:
			r.segsOffsets = append(r.segsOffsets, startIdx)
			r.subpathClosed = append(r.subpathClosed, closed)
		case sawDrawing:
			r.dots = append(r.dots, start)
		}
		startIdx = len(r.segs)
		inSubpath = false
		sawDrawing = false
	}

	coordIdx := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if inSubpath {
				endSubpath(false)
			}
			current = p.Coords[coordIdx]
			start = current
			inSubpath = true
			coordIdx++

		case path.CmdLineTo:
			pt := p.Coords[coordIdx]
			coordIdx++
			if !inSubpath {
				continue
			}
			sawDrawing = true
			r.addStrokeSegment(current, pt)
			current = pt

		case path.CmdQuadTo:
			p1, p2 := p.Coords[coordIdx], p.Coords[coordIdx+1]
			coordIdx += 2
			if !inSubpath {
				continue
			}
			sawDrawing = true
			r.flattenQuadratic(current, p1, p2, r.addStrokeSegment)
			current = p2

		case path.CmdCubeTo:
			p1, p2, p3 := p.Coords[coordIdx], p.Coords[coordIdx+1], p.Coords[coordIdx+2]
			coordIdx += 3
			if !inSubpath {
				continue
			}
			sawDrawing = true
			r.flattenCubic(current, p1, p2, p3, r.addStrokeSegment)
			current = p3

		case path.CmdClose:
			if !inSubpath {
				continue
			}
			if current != start {
				r.addStrokeSegment(current, start)
			}
			sawDrawing = true
			endSubpath(true)
			current = start
		}
	}
	if inSubpath {
		endSubpath(false)
	}
}

// addStrokeSegment adds a line segment to the flattening buffer.
func (r *Rasterizer) addStrokeSegment(a, b vec.Vec2) {
	d := b.Sub(a)
	length := d.Length()
	if length < zeroLengthThreshold {
		return // skip degenerate segment
	}
	t := d.Mul(1 / length)         // unit tangent
	n := vec.Vec2{X: -t.Y, Y: t.X} // unit normal (90° CCW)
	r.segs = append(r.segs, strokeSegment{A: a, B: b, T: t, N: n})
}

// flattenQuadratic flattens a quadratic Bézier and calls emit for each line
// segment. All points are in user space; the segment count is chosen so
// that the device-space error stays below Flatness.
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(from, to vec.Vec2)) {
	e := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25))

	n := 1
	if errDev := e.Length(); errDev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(errDev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		pt := p0.Mul(omt * omt).Add(p1.Mul(2 * omt * t)).Add(p2.Mul(t * t))
		emit(prev, pt)
		prev = pt
	}
}

// flattenCubic flattens a cubic Bézier using Wang's formula for the
// segment count.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(from, to vec.Vec2)) {
	d1 := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2))
	d2 := r.transformLinear(p1.Sub(p2.Mul(2)).Add(p3))

	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		if nf := math.Sqrt(3 * m / (4 * r.Flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		pt := p0.Mul(omt * omt * omt).
			Add(p1.Mul(3 * omt * omt * t)).
			Add(p2.Mul(3 * omt * t * t)).
			Add(p3.Mul(t * t * t))
		emit(prev, pt)
		prev = pt
	}
}

// strokeSubpath adds the outline polygons for one subpath.
func (r *Rasterizer) strokeSubpath(segs []strokeSegment, closed bool, d float64) {
	last := len(segs) - 1
	for i := range segs {
		seg := &segs[i]
		a, b := seg.A, seg.B
		if !closed && r.Cap == graphics.LineCapSquare {
			if i == 0 {
				a = a.Sub(seg.T.Mul(d))
			}
			if i == last {
				b = b.Add(seg.T.Mul(d))
			}
		}
		r.poly = append(r.poly[:0],
			a.Add(seg.N.Mul(d)),
			b.Add(seg.N.Mul(d)),
			b.Sub(seg.N.Mul(d)),
			a.Sub(seg.N.Mul(d)),
		)
		r.addPolygon()

		if i < last {
			r.addJoin(seg.B, seg, &segs[i+1], d)
		}
	}

	if closed {
		r.addJoin(segs[last].B, &segs[last], &segs[0], d)
	} else if r.Cap == graphics.LineCapRound {
		r.addDisc(segs[0].A, d)
		r.addDisc(segs[last].B, d)
	}
}

// addJoin adds the corner geometry at P between two consecutive segments.
func (r *Rasterizer) addJoin(P vec.Vec2, s1, s2 *strokeSegment, d float64) {
	sinTheta := s1.T.X*s2.T.Y - s1.T.Y*s2.T.X
	if sinTheta > -collinearityThreshold && sinTheta < collinearityThreshold && s1.T.Dot(s2.T) > 0 {
		return // straight continuation, the bodies already meet
	}

	if r.Join == graphics.LineJoinRound {
		r.addDisc(P, d)
		return
	}

	// Bevel: fill the wedge between the two offset ends on both sides. The
	// wedge on the inner side lies inside the segment bodies.
	r.poly = append(r.poly[:0], P, P.Add(s1.N.Mul(d)), P.Add(s2.N.Mul(d)))
	r.addPolygon()
	r.poly = append(r.poly[:0], P, P.Sub(s1.N.Mul(d)), P.Sub(s2.N.Mul(d)))
	r.addPolygon()
}

// addDisc adds a circle of the given radius, flattened to the Flatness
// tolerance in device space.
func (r *Rasterizer) addDisc(center vec.Vec2, radius float64) {
	if radius <= 0 {
		return
	}
	devRadius := max(
		r.transformLinear(vec.Vec2{X: radius, Y: 0}).Length(),
		r.transformLinear(vec.Vec2{X: 0, Y: radius}).Length(),
	)

	// For a chord subtending angle θ on a circle of radius r, the maximum
	// deviation (sagitta) is r*(1 - cos(θ/2)).
	n := minArcSegments
	if devRadius > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/devRadius)
		if step > 0 && !math.IsNaN(step) {
			n = max(n, int(math.Ceil(2*math.Pi/step)))
		}
	}

	r.poly = r.poly[:0]
	for i := range n {
		angle := 2 * math.Pi * float64(i) / float64(n)
		r.poly = append(r.poly, center.Add(vec.Vec2{
			X: radius * math.Cos(angle),
			Y: radius * math.Sin(angle),
		}))
	}
	r.addPolygon()
}

// addPolygon feeds r.poly to the scan converter as a closed polygon with
// positive orientation, reversing it if necessary.
func (r *Rasterizer) addPolygon() {
	poly := r.poly
	if len(poly) < 3 {
		return
	}

	// shoelace formula
	var area float64
	prev := poly[len(poly)-1]
	for _, p := range poly {
		area += prev.X*p.Y - p.X*prev.Y
		prev = p
	}
	if area == 0 {
		return
	}

	if area > 0 {
		r.moveTo(poly[0])
		for _, p := range poly[1:] {
			r.lineTo(p)
		}
	} else {
		r.moveTo(poly[len(poly)-1])
		for i := len(poly) - 2; i >= 0; i-- {
			r.lineTo(poly[i])
		}
	}
	r.z.ClosePath()
}

// collinearityThreshold is used to detect nearly collinear segments
// where no join is needed.
const collinearityThreshold = 1e-6
