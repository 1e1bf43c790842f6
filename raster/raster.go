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

// Package raster paints strokes and reference glyphs into binary masks.
package raster

import (
	"image"
	"image/draw"
	"slices"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Rasterizer converts paths to per-pixel coverage values between 0
// (outside) and 255 (inside). Create one instance and reuse it for
// multiple paths; internal buffers grow as needed but never shrink.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM transforms from user space to device space. Must be non-singular.
	CTM matrix.Matrix

	// Clip bounds output to this device-coordinate rectangle.
	// Coordinates must be integer-aligned.
	Clip rect.Rect

	// Flatness controls arc and curve approximation accuracy in device
	// pixels. Must be positive.
	Flatness float64

	// Width sets stroke thickness in user-space units.
	Width float64

	// Cap sets the style for the ends of open subpaths.
	Cap graphics.LineCapStyle

	// Join sets the style for corners. Miter joins are drawn as bevels.
	Join graphics.LineJoinStyle

	z   *vector.Rasterizer
	pix []uint8 // coverage image storage, reused across calls

	// geometry emitted since begin
	empty bool

	// stroke flattening buffers
	segs          []strokeSegment // all segments from all subpaths, contiguous
	segsOffsets   []int           // start index of each subpath in segs
	subpathClosed []bool          // whether each subpath is closed
	dots          []vec.Vec2      // subpaths without orientation
	poly          []vec.Vec2      // outline polygon under construction
}

// NewRasterizer returns a Rasterizer for the given clip rectangle, with an
// identity CTM, unit width, and round caps and joins.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:      matrix.Identity,
		Clip:     clip,
		Flatness: defaultFlatness,
		Width:    1,
		Cap:      graphics.LineCapRound,
		Join:     graphics.LineJoinRound,
	}
}

// Fill fills the path using the nonzero winding rule. Open subpaths are
// closed implicitly. The emit callback receives the non-zero part of each
// row of coverage; its slice argument is valid only during the call.
func (r *Rasterizer) Fill(p *path.Data, emit func(y, xMin int, coverage []uint8)) {
	w, h, ok := r.begin()
	if !ok {
		return
	}

	open := false
	coordIdx := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				r.z.ClosePath()
			}
			r.moveTo(p.Coords[coordIdx])
			open = true
			coordIdx++

		case path.CmdLineTo:
			r.lineTo(p.Coords[coordIdx])
			coordIdx++

		case path.CmdQuadTo:
			// affine maps preserve Bézier curves
			bx, by := r.device(p.Coords[coordIdx])
			cx, cy := r.device(p.Coords[coordIdx+1])
			r.z.QuadTo(bx, by, cx, cy)
			r.empty = false
			coordIdx += 2

		case path.CmdCubeTo:
			bx, by := r.device(p.Coords[coordIdx])
			cx, cy := r.device(p.Coords[coordIdx+1])
			dx, dy := r.device(p.Coords[coordIdx+2])
			r.z.CubeTo(bx, by, cx, cy, dx, dy)
			r.empty = false
			coordIdx += 3

		case path.CmdClose:
			if open {
				r.z.ClosePath()
				open = false
			}
		}
	}
	if open {
		r.z.ClosePath()
	}

	r.finish(w, h, emit)
}

// begin prepares the scan converter for a new path.
func (r *Rasterizer) begin() (w, h int, ok bool) {
	w = int(r.Clip.URx - r.Clip.LLx)
	h = int(r.Clip.URy - r.Clip.LLy)
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	if r.z == nil {
		r.z = vector.NewRasterizer(w, h)
	} else {
		r.z.Reset(w, h)
	}
	// Reset restores draw.Over; Src overwrites every pixel so the coverage
	// buffer never needs clearing.
	r.z.DrawOp = draw.Src
	r.empty = true
	return w, h, true
}

// finish scan-converts the accumulated geometry and emits the rows.
func (r *Rasterizer) finish(w, h int, emit func(y, xMin int, coverage []uint8)) {
	if r.empty {
		return
	}

	r.pix = slices.Grow(r.pix[:0], w*h)[:w*h]
	dst := &image.Alpha{
		Pix:    r.pix,
		Stride: w,
		Rect:   image.Rect(0, 0, w, h),
	}
	r.z.Draw(dst, dst.Rect, image.Opaque, image.Point{})

	x0 := int(r.Clip.LLx)
	y0 := int(r.Clip.LLy)
	for y := range h {
		row := r.pix[y*w : (y+1)*w]
		if trimmed, offset := trimZeros(row); trimmed != nil {
			emit(y0+y, x0+offset, trimmed)
		}
	}
}

// device maps a user-space point to scan converter coordinates.
func (r *Rasterizer) device(p vec.Vec2) (float32, float32) {
	x := r.CTM[0]*p.X + r.CTM[2]*p.Y + r.CTM[4] - r.Clip.LLx
	y := r.CTM[1]*p.X + r.CTM[3]*p.Y + r.CTM[5] - r.Clip.LLy
	return float32(x), float32(y)
}

func (r *Rasterizer) moveTo(p vec.Vec2) {
	x, y := r.device(p)
	r.z.MoveTo(x, y)
}

func (r *Rasterizer) lineTo(p vec.Vec2) {
	x, y := r.device(p)
	r.z.LineTo(x, y)
	r.empty = false
}

// transformLinear applies only the 2×2 linear part of CTM to a vector.
// Used for CTM-aware tolerance checking where translation is irrelevant.
func (r *Rasterizer) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// trimZeros returns the non-zero portion of coverage and its starting offset.
// Returns nil, 0 if coverage is entirely zero.
func trimZeros(coverage []uint8) (trimmed []uint8, offset int) {
	n := len(coverage)
	lo := 0
	for lo < n && coverage[lo] == 0 {
		lo++
	}
	if lo == n {
		return nil, 0
	}
	hi := n - 1
	for hi > lo && coverage[hi] == 0 {
		hi--
	}
	return coverage[lo : hi+1], lo
}

// Default values for rasterizer parameters.
const (
	// defaultFlatness is the default arc flattening tolerance in device
	// pixels. 0.25 is below the threshold of visual perception.
	defaultFlatness = 0.25

	// zeroLengthThreshold is the minimum length for a stroke segment.
	// Segments shorter than this are skipped.
	zeroLengthThreshold = 1e-10

	// minArcSegments bounds the polygon used for very small dots from below.
	minArcSegments = 4
)
