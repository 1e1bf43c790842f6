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
	"math"
	"slices"

	"seehuhn.de/go/tracescore/scoring"
	"seehuhn.de/go/tracescore/stroke"
	"seehuhn.de/go/tracescore/target"
)

// Machine holds the strokes drawn for a sequence of targets. All state
// changes go through its methods, each of which returns the events it
// produced. Scores are computed outside the Machine: BeginScore returns the
// request for the current stroke list and ApplyScore feeds the result back.
//
// A Machine is not safe for concurrent use.
type Machine struct {
	targets []target.Target
	cfg     Config

	index     int
	completed [][]stroke.Stroke
	active    []stroke.Stroke
	undo      []stroke.Stroke
	finished  bool

	canvas image.Point
	width  float64

	inside, outside float64
	ready           bool

	removal    *Removal
	removalSeq uint64

	// generation counts changes of the inputs to scoring; scoredGen is
	// the generation of the last applied score.
	generation  uint64
	scoredGen   uint64
	scoredCount int
	inFlight    bool
}

// NewMachine returns a Machine positioned on the first of targets.
func NewMachine(targets []target.Target, cfg Config) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(targets); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &Machine{
		targets: slices.Clone(targets),
		cfg:     cfg,
		canvas:  cfg.Canvas(),
		width:   cfg.StrokeWidth,
	}, nil
}

// State returns the current state.
func (m *Machine) State() State {
	switch {
	case m.finished:
		return Finished
	case m.removal != nil:
		return AutoRemoving
	case m.inFlight:
		return Evaluating
	case len(m.active) > 0:
		return Drawing
	default:
		return Idle
	}
}

// Append adds a newly drawn stroke and clears the undo log.
func (m *Machine) Append(s stroke.Stroke) ([]Event, error) {
	if m.finished {
		return nil, ErrFinished
	}
	if s.IsZero() || s.Len() == 0 {
		return nil, stroke.ErrEmpty
	}
	m.active = append(m.active, s)
	m.undo = nil
	m.changed()
	return m.events(EventStrokeAdded), nil
}

// Undo moves the last active stroke to the undo log. Undoing a stroke
// which is flagged for removal cancels the removal. Undo is a no-op
// without active strokes.
func (m *Machine) Undo() ([]Event, error) {
	if m.finished {
		return nil, ErrFinished
	}
	n := len(m.active)
	if n == 0 {
		return nil, nil
	}
	s := m.active[n-1]
	m.active = m.active[:n-1:n-1]
	m.undo = append(m.undo, s)

	var evs []Event
	if m.removal != nil && m.removal.Index >= len(m.active) {
		m.removal = nil
		evs = m.events(EventRemovalCancelled)
	}
	m.changed()
	return append(evs, m.events(EventUndo)...), nil
}

// Redo moves the last stroke of the undo log back to the active strokes.
// The rest of the undo log is kept. Redo is a no-op with an empty log.
func (m *Machine) Redo() ([]Event, error) {
	if m.finished {
		return nil, ErrFinished
	}
	n := len(m.undo)
	if n == 0 {
		return nil, nil
	}
	m.active = append(m.active, m.undo[n-1])
	m.undo = m.undo[:n-1:n-1]
	m.changed()
	return m.events(EventRedo), nil
}

// Advance freezes the active strokes and moves to the next target. On the
// last target Advance is a no-op; use Finish there.
func (m *Machine) Advance() ([]Event, error) {
	if m.finished {
		return nil, ErrFinished
	}
	if m.isLast() {
		return nil, nil
	}

	evs := m.cancelRemoval()
	m.completed = append(m.completed, m.active)
	m.active = nil
	m.undo = nil
	m.index++
	m.changed()

	ev := m.event(EventAdvanced)
	ev.Snapshot.State = Advancing
	return append(evs, ev), nil
}

// Finish ends the session on the last target. The active strokes are kept
// for display.
func (m *Machine) Finish() ([]Event, error) {
	if m.finished {
		return nil, nil
	}
	if !m.isLast() {
		return nil, ErrNotLastTarget
	}
	evs := m.cancelRemoval()
	m.finished = true
	m.inFlight = false
	return append(evs, m.events(EventFinished)...), nil
}

// Reset discards all strokes and returns to the first target.
func (m *Machine) Reset() []Event {
	evs := m.cancelRemoval()
	m.index = 0
	m.completed = nil
	m.active = nil
	m.undo = nil
	m.finished = false
	m.changed()
	return append(evs, m.events(EventReset)...)
}

// SetStrokeWidth changes the width used to rasterize strokes.
func (m *Machine) SetStrokeWidth(width float64) ([]Event, error) {
	if !(width > 0) || math.IsInf(width, 0) {
		return nil, fmt.Errorf("%w: stroke width %g", ErrInvalidConfig, width)
	}
	if width == m.width {
		return nil, nil
	}
	m.width = width
	m.changed()
	return m.events(EventSettingsChanged), nil
}

// SetCanvasSize changes the canvas size.
func (m *Machine) SetCanvasSize(size image.Point) ([]Event, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrInvalidConfig, size.X, size.Y)
	}
	if size == m.canvas {
		return nil, nil
	}
	m.canvas = size
	m.changed()
	return m.events(EventSettingsChanged), nil
}

// NeedsScore reports whether the scores are outdated.
func (m *Machine) NeedsScore() bool {
	return !m.finished && m.scoredGen != m.generation
}

// CountChanged reports whether the number of active strokes differs from
// the number at the last applied score.
func (m *Machine) CountChanged() bool {
	return !m.finished && len(m.active) != m.scoredCount
}

// Generation returns the current generation of the scoring inputs.
func (m *Machine) Generation() uint64 { return m.generation }

// BeginScore returns the scoring request for the current strokes and
// marks a score as in flight.
func (m *Machine) BeginScore() (scoring.Request, bool) {
	if m.finished {
		return scoring.Request{}, false
	}
	m.inFlight = true
	return scoring.Request{
		Generation:  m.generation,
		Target:      m.targets[m.index],
		Canvas:      m.canvas,
		Strokes:     slices.Clone(m.active),
		StrokeWidth: m.width,
	}, true
}

// ApplyScore stores a scoring result. Results for an outdated generation
// are discarded. A failed score counts as zero. When the outside score
// exceeds the threshold, the last active stroke is flagged for removal.
func (m *Machine) ApplyScore(res scoring.Result, err error) []Event {
	m.inFlight = false
	if m.finished || res.Generation != m.generation {
		return nil
	}
	if err != nil {
		res = scoring.Result{Generation: res.Generation}
	}

	m.scoredGen = m.generation
	m.scoredCount = len(m.active)
	m.inside = res.Inside
	m.outside = res.Outside
	wasReady := m.ready
	m.ready = m.inside >= m.targets[m.index].Difficulty.CompletionThreshold()

	evs := m.events(EventScored)
	if m.ready && !wasReady {
		evs = append(evs, m.event(EventReadyToAdvance))
	}
	if m.outside > m.cfg.OutsideThreshold && m.removal == nil && len(m.active) > 0 {
		last := len(m.active) - 1
		m.removalSeq++
		m.removal = &Removal{
			Index:    last,
			StrokeID: m.active[last].ID(),
			Delay:    m.cfg.RemovalDelay,
			token:    m.removalSeq,
		}
		evs = append(evs, m.event(EventRemovalScheduled))
	}
	return evs
}

// PendingRemoval returns the flagged stroke, if any.
func (m *Machine) PendingRemoval() (Removal, bool) {
	if m.removal == nil {
		return Removal{}, false
	}
	return *m.removal, true
}

// ExecuteRemoval removes the stroke flagged by the removal with the given
// token. The removed stroke is not put on the undo log. If the flagged
// index no longer holds the flagged stroke, nothing is removed and an
// *InvalidStrokeIndexError is returned. Tokens of cancelled or completed
// removals are ignored.
func (m *Machine) ExecuteRemoval(token uint64) ([]Event, error) {
	r := m.removal
	if r == nil || r.token != token || m.finished {
		return nil, nil
	}
	m.removal = nil

	if r.Index >= len(m.active) || m.active[r.Index].ID() != r.StrokeID {
		err := &InvalidStrokeIndexError{Index: r.Index, Len: len(m.active)}
		return m.events(EventRemovalCancelled), err
	}

	m.active = slices.Delete(slices.Clip(m.active), r.Index, r.Index+1)
	m.outside = 0
	m.changed()
	return m.events(EventStrokeRemoved), nil
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() Snapshot {
	completed := make([][]stroke.Stroke, len(m.completed))
	for i, set := range m.completed {
		completed[i] = slices.Clone(set)
	}
	var removal *Removal
	if m.removal != nil {
		r := *m.removal
		removal = &r
	}
	return Snapshot{
		Index:          m.index,
		Target:         m.targets[m.index],
		TargetCount:    len(m.targets),
		IsLastTarget:   m.isLast(),
		State:          m.State(),
		Inside:         m.inside,
		Outside:        m.outside,
		CanUndo:        len(m.active) > 0,
		CanRedo:        len(m.undo) > 0,
		ReadyToAdvance: m.ready,
		PendingRemoval: removal,
		Active:         slices.Clone(m.active),
		Completed:      completed,
		StrokeWidth:    m.width,
		Canvas:         m.canvas,
		Generation:     m.generation,
	}
}

func (m *Machine) isLast() bool {
	return m.index == len(m.targets)-1
}

// changed records a change of the scoring inputs. Without active strokes
// the scores are known to be zero and no computation is needed.
func (m *Machine) changed() {
	m.generation++
	if len(m.active) == 0 {
		m.inside, m.outside = 0, 0
		m.ready = false
		m.scoredGen = m.generation
		m.scoredCount = 0
	}
}

func (m *Machine) cancelRemoval() []Event {
	if m.removal == nil {
		return nil
	}
	m.removal = nil
	return m.events(EventRemovalCancelled)
}

func (m *Machine) event(kind EventKind) Event {
	return Event{Kind: kind, Snapshot: m.Snapshot()}
}

func (m *Machine) events(kind EventKind) []Event {
	return []Event{m.event(kind)}
}
