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
	"image"
	"sync"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/tracescore/mask"
	"seehuhn.de/go/tracescore/stroke"
)

// DefaultGlyphSize is the extent of a reference glyph in canvas units.
const DefaultGlyphSize = 250

// DefaultPainter is used by RasterizeStrokes and RasterizeReference.
var DefaultPainter = &Painter{
	GlyphSize: DefaultGlyphSize,
	Threshold: mask.DefaultThreshold,
	Flatness:  defaultFlatness,
}

// Painter paints black shapes onto a white canvas and binarizes the
// result. A Painter may be used concurrently.
type Painter struct {
	// GlyphSize is the extent of reference glyphs in canvas units.
	GlyphSize float64

	// Threshold is passed to mask.Binarize.
	Threshold uint8

	// Flatness is the curve approximation tolerance in pixels.
	Flatness float64

	pool sync.Pool
}

// RasterizeStrokes renders strokes with DefaultPainter.
func RasterizeStrokes(strokes []stroke.Stroke, size image.Point, width float64) (*mask.Mask, error) {
	return DefaultPainter.Strokes(strokes, size, width)
}

// RasterizeReference renders an unrotated glyph with DefaultPainter.
func RasterizeReference(glyph string, size image.Point, offset vec.Vec2) (*mask.Mask, error) {
	return DefaultPainter.Reference(glyph, size, offset, 0)
}

// Strokes renders every stroke as a polyline of the given width with
// round caps and joins. Strokes with fewer than two points contribute no
// line segments. The returned mask has exactly the given size.
func (p *Painter) Strokes(strokes []stroke.Stroke, size image.Point, width float64) (*mask.Mask, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, &RasterizationError{Op: "strokes", Size: size, Err: ErrInvalidSize}
	}
	if !(width > 0) {
		return nil, &RasterizationError{Op: "strokes", Size: size, Err: ErrInvalidWidth}
	}

	var lines []stroke.Stroke
	for _, s := range strokes {
		if s.Len() >= 2 {
			lines = append(lines, s)
		}
	}

	return p.paint(size, func(r *Rasterizer, emit func(y, xMin int, coverage []uint8)) {
		if len(lines) == 0 {
			return
		}
		r.CTM = matrix.Identity
		r.Width = width
		r.Cap = graphics.LineCapRound
		r.Join = graphics.LineJoinRound
		r.Stroke(stroke.Path(lines), emit)
	}), nil
}

// Reference renders the named glyph, GlyphSize units across, centered at
// size/2 + size*offset and rotated clockwise by rotationDeg degrees.
func (p *Painter) Reference(glyph string, size image.Point, offset vec.Vec2, rotationDeg float64) (*mask.Mask, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, &RasterizationError{Op: "reference", Glyph: glyph, Size: size, Err: ErrInvalidSize}
	}
	outline, ok := GlyphOutline(glyph, p.glyphSize())
	if !ok {
		return nil, &RasterizationError{Op: "reference", Glyph: glyph, Size: size, Err: ErrUnknownGlyph}
	}

	center := GlyphCenter(size, offset)
	return p.paint(size, func(r *Rasterizer, emit func(y, xMin int, coverage []uint8)) {
		r.CTM = matrix.RotateDeg(rotationDeg).Translate(center.X, center.Y)
		r.Fill(outline, emit)
	}), nil
}

// GlyphCenter returns the canvas position of a glyph placed with the
// given offset: size/2 + size*offset.
func GlyphCenter(size image.Point, offset vec.Vec2) vec.Vec2 {
	w, h := float64(size.X), float64(size.Y)
	return vec.Vec2{X: w/2 + w*offset.X, Y: h/2 + h*offset.Y}
}

// paint runs draw on a white canvas of the given size and binarizes the
// result. Coverage c is painted as gray level 255-c.
func (p *Painter) paint(size image.Point, draw func(*Rasterizer, func(y, xMin int, coverage []uint8))) *mask.Mask {
	img := image.NewGray(image.Rectangle{Max: size})
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}

	r := p.rasterizer(size)
	defer p.pool.Put(r)

	draw(r, func(y, xMin int, coverage []uint8) {
		row := img.Pix[y*img.Stride+xMin:]
		for i, c := range coverage {
			row[i] = 0xff - c
		}
	})

	threshold := p.Threshold
	if threshold == 0 {
		threshold = mask.DefaultThreshold
	}
	return mask.Binarize(img, threshold)
}

func (p *Painter) rasterizer(size image.Point) *Rasterizer {
	clip := rect.Rect{URx: float64(size.X), URy: float64(size.Y)}
	r, _ := p.pool.Get().(*Rasterizer)
	if r == nil {
		r = NewRasterizer(clip)
	}
	r.Clip = clip
	r.Flatness = defaultFlatness
	if p.Flatness > 0 {
		r.Flatness = p.Flatness
	}
	return r
}

func (p *Painter) glyphSize() float64 {
	if p.GlyphSize > 0 {
		return p.GlyphSize
	}
	return DefaultGlyphSize
}

// GlyphPath returns the outline of glyph in canvas coordinates, as placed
// by Reference.
func (p *Painter) GlyphPath(glyph string, size image.Point, offset vec.Vec2, rotationDeg float64) (*path.Data, bool) {
	outline, ok := GlyphOutline(glyph, p.glyphSize())
	if !ok {
		return nil, false
	}
	center := GlyphCenter(size, offset)
	m := matrix.RotateDeg(rotationDeg).Translate(center.X, center.Y)
	res := &path.Data{Cmds: outline.Cmds, Coords: make([]vec.Vec2, len(outline.Coords))}
	for i, c := range outline.Coords {
		res.Coords[i] = vec.Vec2{
			X: m[0]*c.X + m[2]*c.Y + m[4],
			Y: m[1]*c.X + m[3]*c.Y + m[5],
		}
	}
	return res, true
}
