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
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"seehuhn.de/go/tracescore/stroke"
	"seehuhn.de/go/tracescore/target"
)

// State describes what a session is doing.
type State int

// These are the session states. Evaluating and AutoRemoving are reported
// while strokes are present and a score computation or a removal is
// outstanding; drawing continues in both.
const (
	Idle State = iota
	Drawing
	Evaluating
	AutoRemoving
	Advancing
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Evaluating:
		return "evaluating"
	case AutoRemoving:
		return "auto-removing"
	case Advancing:
		return "advancing"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// EventKind identifies an Event.
type EventKind int

// These are the event kinds.
const (
	EventStrokeAdded EventKind = iota
	EventUndo
	EventRedo
	EventScored
	EventReadyToAdvance
	EventRemovalScheduled
	EventRemovalCancelled
	EventStrokeRemoved
	EventAdvanced
	EventFinished
	EventReset
	EventSettingsChanged
)

var eventNames = [...]string{
	EventStrokeAdded:      "stroke-added",
	EventUndo:             "undo",
	EventRedo:             "redo",
	EventScored:           "scored",
	EventReadyToAdvance:   "ready-to-advance",
	EventRemovalScheduled: "removal-scheduled",
	EventRemovalCancelled: "removal-cancelled",
	EventStrokeRemoved:    "stroke-removed",
	EventAdvanced:         "advanced",
	EventFinished:         "finished",
	EventReset:            "reset",
	EventSettingsChanged:  "settings-changed",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event reports a change of the session, together with the state after
// the change.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
}

// Removal describes a stroke flagged for automatic removal.
type Removal struct {
	Index    int           // position in the active strokes
	StrokeID uuid.UUID     // identity of the flagged stroke
	Delay    time.Duration // time until the removal

	token uint64
}

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	Index        int
	Target       target.Target
	TargetCount  int
	IsLastTarget bool
	State        State

	Inside  float64
	Outside float64

	CanUndo        bool
	CanRedo        bool
	ReadyToAdvance bool

	// PendingRemoval is nil unless a stroke is flagged for removal.
	PendingRemoval *Removal

	Active    []stroke.Stroke
	Completed [][]stroke.Stroke

	StrokeWidth float64
	Canvas      image.Point
	Generation  uint64
}
