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

// Command export writes the drawing scenarios to JSON, so that the
// expected scores can be checked against other scoring implementations.
// Run from the module root directory.
package main

import (
	"encoding/json"
	"maps"
	"os"
	"slices"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/tracescore/testcases"
)

func main() {
	var out struct {
		Scenarios []jsonScenario `json:"scenarios"`
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			out.Scenarios = append(out.Scenarios, toJSON(category, sc))
		}
	}

	if err := os.MkdirAll("testdata", 0755); err != nil {
		panic(err)
	}
	f, err := os.Create("testdata/scenarios.json")
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

type jsonScenario struct {
	Name        string        `json:"name"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Glyph       string        `json:"glyph"`
	Offset      []float64     `json:"offset"`
	StrokeWidth float64       `json:"stroke_width"`
	Strokes     [][][]float64 `json:"strokes"`
	Inside      [2]float64    `json:"inside"`
	Outside     [2]float64    `json:"outside"`
}

func toJSON(category string, sc testcases.Scenario) jsonScenario {
	js := jsonScenario{
		Name:        category + "_" + sc.Name,
		Width:       sc.Width,
		Height:      sc.Height,
		Glyph:       sc.Glyph,
		Offset:      []float64{sc.Offset.X, sc.Offset.Y},
		StrokeWidth: sc.StrokeWidth,
		Inside:      [2]float64{sc.Inside.Min, sc.Inside.Max},
		Outside:     [2]float64{sc.Outside.Min, sc.Outside.Max},
	}
	for _, s := range sc.Strokes {
		js.Strokes = append(js.Strokes, pointsToJSON(s))
	}
	return js
}

func pointsToJSON(pts []vec.Vec2) [][]float64 {
	res := make([][]float64, len(pts))
	for i, p := range pts {
		res[i] = []float64{p.X, p.Y}
	}
	return res
}
