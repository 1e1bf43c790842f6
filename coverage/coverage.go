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

// Package coverage compares a drawing mask against a reference mask with a
// tolerance zone around the reference.
//
// The reference is grown by Options.DilationRadius pixels; the grown area is
// the shape against which inside coverage is measured. Drawn pixels beyond
// the grown area count as outside, except for pixels close to a
// significant boundary pixel of the original reference, which are treated
// as edge noise.
package coverage

import (
	"errors"
	"image"

	"seehuhn.de/go/tracescore/mask"
)

// ErrNilMask is returned when a drawing or reference mask is missing.
var ErrNilMask = errors.New("coverage: nil mask")

// Options controls the tolerance zone.
type Options struct {
	// DilationRadius is the growth of the reference mask, in pixels, using
	// 8-connected expansion.
	DilationRadius int

	// BoundarySearchRadius is the distance, in pixels, from a significant
	// boundary pixel within which drawn pixels are not counted as outside.
	BoundarySearchRadius int

	// MinConnectedPixels is the number of occupied 8-neighbors a boundary
	// pixel needs to be significant.
	MinConnectedPixels int
}

// DefaultOptions returns the canonical scoring tolerances.
func DefaultOptions() Options {
	return Options{
		DilationRadius:       4,
		BoundarySearchRadius: 5,
		MinConnectedPixels:   3,
	}
}

// Result is the outcome of one comparison.
type Result struct {
	// Inside is the percentage of the grown reference covered by the
	// drawing, in [0, 100].
	Inside float64

	// Outside is the number of significant outside pixels as a percentage
	// of the grown reference area, in [0, 100].
	Outside float64

	ShapePixels      int // pixels of the grown reference
	CoveredPixels    int // drawn pixels inside the grown reference
	OutsidePixels    int // drawn pixels counted as outside
	SuppressedPixels int // drawn pixels outside, but close to the boundary
}

// Reference is a reference mask with its tolerance zone precomputed.
// It is immutable and may be shared between goroutines.
type Reference struct {
	size     image.Point
	dilated  *mask.Mask
	suppress *mask.Mask
	shape    int
}

// Prepare computes the grown reference and the boundary suppression zone
// for ref.
func Prepare(ref *mask.Mask, opts Options) (*Reference, error) {
	if ref == nil {
		return nil, ErrNilMask
	}
	dilated := ref.Dilate(opts.DilationRadius)
	suppress := ref.SignificantBoundary(opts.MinConnectedPixels).
		Dilate(opts.BoundarySearchRadius)
	return &Reference{
		size:     ref.Size(),
		dilated:  dilated,
		suppress: suppress,
		shape:    dilated.Count(),
	}, nil
}

// Size returns the dimensions of the reference mask.
func (r *Reference) Size() image.Point { return r.size }

// ShapePixels returns the area of the grown reference.
func (r *Reference) ShapePixels() int { return r.shape }

// Dilated returns a copy of the grown reference mask.
func (r *Reference) Dilated() *mask.Mask { return r.dilated.Clone() }

// Compare scores drawing against the reference. A drawing of a different
// size gives a *mask.DimensionMismatchError. An empty reference gives the
// zero Result.
func (r *Reference) Compare(drawing *mask.Mask) (Result, error) {
	if drawing == nil {
		return Result{}, ErrNilMask
	}
	if drawing.Size() != r.size {
		return Result{}, &mask.DimensionMismatchError{A: drawing.Size(), B: r.size}
	}
	if r.shape == 0 {
		return Result{}, nil
	}

	res := Result{ShapePixels: r.shape}
	for y := range r.size.Y {
		for x := range r.size.X {
			switch {
			case r.dilated.At(x, y):
				if drawing.At(x, y) {
					res.CoveredPixels++
				}
			case !drawing.At(x, y):
				// empty outside pixel
			case r.suppress.At(x, y):
				res.SuppressedPixels++
			default:
				res.OutsidePixels++
			}
		}
	}

	res.Inside = percent(res.CoveredPixels, r.shape)
	if res.OutsidePixels > 0 {
		res.Outside = percent(res.OutsidePixels, r.shape)
	}
	return res, nil
}

// Compare scores drawing against ref with the given options.
func Compare(drawing, ref *mask.Mask, opts Options) (Result, error) {
	if drawing == nil || ref == nil {
		return Result{}, ErrNilMask
	}
	if !drawing.SameSize(ref) {
		return Result{}, &mask.DimensionMismatchError{A: drawing.Size(), B: ref.Size()}
	}
	prepared, err := Prepare(ref, opts)
	if err != nil {
		return Result{}, err
	}
	return prepared.Compare(drawing)
}

// Calculate scores drawing against ref with DefaultOptions. Missing masks,
// mismatched dimensions and an empty reference all give the zero Result.
func Calculate(drawing, ref *mask.Mask) Result {
	res, err := Compare(drawing, ref, DefaultOptions())
	if err != nil {
		return Result{}
	}
	return res
}

func percent(n, total int) float64 {
	return min(100, float64(n)/float64(total)*100)
}
