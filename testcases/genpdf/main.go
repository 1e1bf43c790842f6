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

// Command genpdf draws every scenario as a PDF page, with the reference
// glyph in gray and the strokes in black on top, and renders the pages to
// PNGs using Ghostscript. The images are for visual inspection only.
package main

import (
	"fmt"
	"image"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/tracescore/raster"
	"seehuhn.de/go/tracescore/testcases"
)

const outDir = "testdata/scenarios"

func main() {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			name := category + "_" + sc.Name
			pdfPath := filepath.Join(outDir, name+".pdf")
			pngPath := filepath.Join(outDir, name+".png")

			if err := generatePDF(sc, pdfPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}

			if err := renderPNG(pdfPath, pngPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
		}
	}
}

func generatePDF(sc testcases.Scenario, pdfPath string) error {
	// Page size in points (1 point = 1 pixel at 72 DPI)
	paper := &pdf.Rectangle{
		URx: float64(sc.Width),
		URy: float64(sc.Height),
	}

	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// PDF origin is bottom-left; canvas coordinates are top-left.
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, float64(sc.Height)})

	size := image.Pt(sc.Width, sc.Height)
	outline, ok := raster.DefaultPainter.GlyphPath(sc.Glyph, size, sc.Offset, 0)
	if !ok {
		return fmt.Errorf("unknown glyph %q", sc.Glyph)
	}
	page.SetFillColor(color.DeviceGray(0.8))

	// PDF has no quadratic segments, so these are converted to cubics.
	idx := 0
	var last, first vec.Vec2
	for _, cmd := range outline.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			c := outline.Coords[idx]
			page.MoveTo(c.X, c.Y)
			last, first = c, c
			idx++
		case path.CmdLineTo:
			c := outline.Coords[idx]
			page.LineTo(c.X, c.Y)
			last = c
			idx++
		case path.CmdQuadTo:
			c, d := outline.Coords[idx], outline.Coords[idx+1]
			b1 := last.Add(c.Sub(last).Mul(2.0 / 3.0))
			b2 := d.Add(c.Sub(d).Mul(2.0 / 3.0))
			page.CurveTo(b1.X, b1.Y, b2.X, b2.Y, d.X, d.Y)
			last = d
			idx += 2
		case path.CmdCubeTo:
			b, c, d := outline.Coords[idx], outline.Coords[idx+1], outline.Coords[idx+2]
			page.CurveTo(b.X, b.Y, c.X, c.Y, d.X, d.Y)
			last = d
			idx += 3
		case path.CmdClose:
			page.ClosePath()
			last = first
		}
	}
	page.Fill()

	page.SetStrokeColor(color.DeviceGray(0))
	page.SetLineWidth(sc.StrokeWidth)
	page.SetLineCap(graphics.LineCapRound)
	page.SetLineJoin(graphics.LineJoinRound)
	for _, s := range sc.Strokes {
		if len(s) < 2 {
			continue
		}
		page.MoveTo(s[0].X, s[0].Y)
		for _, p := range s[1:] {
			page.LineTo(p.X, p.Y)
		}
		page.Stroke()
	}

	return page.Close()
}

func renderPNG(pdfPath, pngPath string) error {
	// -sDEVICE=pnggray: 8-bit grayscale
	// -r72: 72 DPI (1 point = 1 pixel)
	// -dGraphicsAlphaBits=4: 4x supersampling for anti-aliasing
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
