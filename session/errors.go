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

package session

import (
	"errors"
	"fmt"
)

var (
	// ErrFinished is returned for stroke operations after the last target
	// has been finished.
	ErrFinished = errors.New("session: finished")

	// ErrNotLastTarget is returned by Finish before the last target.
	ErrNotLastTarget = errors.New("session: not on the last target")

	// ErrClosed is returned by the methods of a closed Session.
	ErrClosed = errors.New("session: closed")

	// ErrInvalidConfig is wrapped by configuration errors.
	ErrInvalidConfig = errors.New("session: invalid configuration")
)

// InvalidStrokeIndexError reports a removal whose stroke is no longer at
// the flagged index.
type InvalidStrokeIndexError struct {
	Index int // flagged index
	Len   int // number of active strokes
}

func (e *InvalidStrokeIndexError) Error() string {
	return fmt.Sprintf("session: stroke index %d no longer valid (%d active strokes)", e.Index, e.Len)
}
