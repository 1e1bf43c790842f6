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

// Package tracescore scores freehand tracings of target silhouettes.
//
// A drawing is a list of strokes. The strokes are painted into a binary
// mask (package raster), compared against a tolerant version of the
// target's mask (package coverage), and the resulting inside/outside
// percentages drive a per-game state machine (package session) which
// tracks the strokes of each target, supports undo and redo, and removes
// strokes that stray too far outside the target.
//
// The root package only holds the module-wide logger. By default nothing
// is logged; call [SetLogger] to enable output.
package tracescore
