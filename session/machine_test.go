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
	"image"
	"testing"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/tracescore/scoring"
	"seehuhn.de/go/tracescore/stroke"
	"seehuhn.de/go/tracescore/target"
)

func mustStroke(t *testing.T, pts ...vec.Vec2) stroke.Stroke {
	t.Helper()
	if len(pts) == 0 {
		pts = []vec.Vec2{{X: 10, Y: 10}, {X: 20, Y: 20}}
	}
	s, err := stroke.New(pts)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func newMachine(t *testing.T, targets []target.Target) *Machine {
	t.Helper()
	m, err := NewMachine(targets, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func oneTarget() []target.Target {
	return []target.Target{{Glyph: "circle.fill"}}
}

func ids(strokes []stroke.Stroke) []string {
	res := make([]string, len(strokes))
	for i, s := range strokes {
		res[i] = s.ID().String()
	}
	return res
}

func sameStrokes(a, b []stroke.Stroke) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID() != b[i].ID() {
			return false
		}
	}
	return true
}

func kinds(evs []Event) []EventKind {
	res := make([]EventKind, len(evs))
	for i, ev := range evs {
		res[i] = ev.Kind
	}
	return res
}

func hasKind(evs []Event, kind EventKind) bool {
	for _, ev := range evs {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

// score runs one scoring round with the given result.
func score(m *Machine, inside, outside float64) []Event {
	req, _ := m.BeginScore()
	return m.ApplyScore(scoring.Result{
		Generation: req.Generation,
		Inside:     inside,
		Outside:    outside,
	}, nil)
}

func TestUndoRedoRestores(t *testing.T) {
	m := newMachine(t, oneTarget())
	var drawn []stroke.Stroke
	for range 3 {
		s := mustStroke(t)
		drawn = append(drawn, s)
		if _, err := m.Append(s); err != nil {
			t.Fatal(err)
		}
	}

	for range 2 {
		if _, err := m.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	if snap := m.Snapshot(); !sameStrokes(snap.Active, drawn[:1]) || !snap.CanRedo {
		t.Fatalf("after undo: active %v, canRedo %t", ids(snap.Active), snap.CanRedo)
	}
	for range 2 {
		if _, err := m.Redo(); err != nil {
			t.Fatal(err)
		}
	}

	snap := m.Snapshot()
	if !sameStrokes(snap.Active, drawn) {
		t.Errorf("active = %v, want %v", ids(snap.Active), ids(drawn))
	}
	if snap.CanRedo || !snap.CanUndo {
		t.Errorf("canUndo=%t canRedo=%t", snap.CanUndo, snap.CanRedo)
	}
}

func TestUndoLogClearing(t *testing.T) {
	m := newMachine(t, oneTarget())
	for range 2 {
		if _, err := m.Append(mustStroke(t)); err != nil {
			t.Fatal(err)
		}
	}
	m.Undo()
	m.Undo()

	// Redo keeps the remaining undo log.
	if _, err := m.Redo(); err != nil {
		t.Fatal(err)
	}
	if !m.Snapshot().CanRedo {
		t.Fatal("redo cleared the undo log")
	}

	// A new stroke clears it.
	if _, err := m.Append(mustStroke(t)); err != nil {
		t.Fatal(err)
	}
	if m.Snapshot().CanRedo {
		t.Error("append after undo kept the undo log")
	}
}

func TestUndoRedoNoop(t *testing.T) {
	m := newMachine(t, oneTarget())
	for _, op := range []func() ([]Event, error){m.Undo, m.Redo} {
		evs, err := op()
		if err != nil || len(evs) != 0 {
			t.Errorf("no-op produced %v, %v", kinds(evs), err)
		}
	}
	if m.Generation() != 0 {
		t.Errorf("generation = %d after no-ops", m.Generation())
	}
}

func TestAdvance(t *testing.T) {
	m := newMachine(t, target.DefaultCatalog())
	s1, s2 := mustStroke(t), mustStroke(t)
	m.Append(s1)
	m.Append(s2)
	m.Undo()
	m.Redo()
	score(m, 40, 10)

	evs, err := m.Advance()
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 1 || evs[0].Kind != EventAdvanced || evs[0].Snapshot.State != Advancing {
		t.Fatalf("events = %v", kinds(evs))
	}

	snap := m.Snapshot()
	if snap.Index != 1 || snap.Target.Glyph != "star.fill" {
		t.Errorf("index = %d (%s), want 1", snap.Index, snap.Target.Glyph)
	}
	if len(snap.Completed) != 1 || !sameStrokes(snap.Completed[0], []stroke.Stroke{s1, s2}) {
		t.Errorf("completed = %d sets", len(snap.Completed))
	}
	if len(snap.Active) != 0 || snap.CanRedo || snap.Inside != 0 || snap.Outside != 0 || snap.ReadyToAdvance {
		t.Errorf("state not reset: %+v", snap)
	}
	if snap.State != Idle {
		t.Errorf("state = %v, want idle", snap.State)
	}
}

func TestCompletedCountMatchesIndex(t *testing.T) {
	m := newMachine(t, target.DefaultCatalog())
	for i := range 5 {
		m.Append(mustStroke(t))
		if _, err := m.Advance(); err != nil {
			t.Fatal(err)
		}
		snap := m.Snapshot()
		if len(snap.Completed) != snap.Index {
			t.Fatalf("step %d: %d completed sets at index %d", i, len(snap.Completed), snap.Index)
		}
	}
	snap := m.Snapshot()
	if snap.Index != 2 || !snap.IsLastTarget {
		t.Errorf("index = %d, want last target 2", snap.Index)
	}
	if len(snap.Active) != 3 {
		t.Errorf("advance on the last target changed the strokes: %d", len(snap.Active))
	}
}

func TestFinish(t *testing.T) {
	m := newMachine(t, target.DefaultCatalog())
	if _, err := m.Finish(); !errors.Is(err, ErrNotLastTarget) {
		t.Errorf("Finish on target 0: %v", err)
	}
	m.Advance()
	m.Advance()
	m.Append(mustStroke(t))

	evs, err := m.Finish()
	if err != nil || !hasKind(evs, EventFinished) {
		t.Fatalf("Finish: %v, %v", kinds(evs), err)
	}
	snap := m.Snapshot()
	if snap.State != Finished || len(snap.Active) != 1 {
		t.Errorf("state %v with %d strokes", snap.State, len(snap.Active))
	}

	if _, err := m.Append(mustStroke(t)); !errors.Is(err, ErrFinished) {
		t.Errorf("Append after Finish: %v", err)
	}
	if _, err := m.Undo(); !errors.Is(err, ErrFinished) {
		t.Errorf("Undo after Finish: %v", err)
	}
	if _, ok := m.BeginScore(); ok {
		t.Error("BeginScore after Finish")
	}
	if m.NeedsScore() {
		t.Error("finished session needs a score")
	}

	m.Reset()
	if snap := m.Snapshot(); snap.State != Idle || snap.Index != 0 || len(snap.Completed) != 0 {
		t.Errorf("after Reset: %+v", snap)
	}
}

func TestStates(t *testing.T) {
	m := newMachine(t, oneTarget())
	if m.State() != Idle {
		t.Errorf("initial state %v", m.State())
	}
	m.Append(mustStroke(t))
	if m.State() != Drawing {
		t.Errorf("after append: %v", m.State())
	}
	req, ok := m.BeginScore()
	if !ok || m.State() != Evaluating {
		t.Errorf("while scoring: %v", m.State())
	}
	m.ApplyScore(scoring.Result{Generation: req.Generation, Outside: 90}, nil)
	if m.State() != AutoRemoving {
		t.Errorf("after bad score: %v", m.State())
	}
}

func TestStaleScoreDiscarded(t *testing.T) {
	m := newMachine(t, oneTarget())
	m.Append(mustStroke(t))
	req, _ := m.BeginScore()
	m.Append(mustStroke(t))

	evs := m.ApplyScore(scoring.Result{Generation: req.Generation, Inside: 50, Outside: 80}, nil)
	if len(evs) != 0 {
		t.Errorf("stale result produced %v", kinds(evs))
	}
	if snap := m.Snapshot(); snap.Inside != 0 || snap.Outside != 0 || snap.PendingRemoval != nil {
		t.Errorf("stale result applied: %+v", snap)
	}
	if !m.NeedsScore() {
		t.Error("NeedsScore = false after discarded result")
	}

	req, _ = m.BeginScore()
	if len(req.Strokes) != 2 {
		t.Errorf("request has %d strokes, want 2", len(req.Strokes))
	}
}

func TestScoreError(t *testing.T) {
	m := newMachine(t, oneTarget())
	m.Append(mustStroke(t))
	req, _ := m.BeginScore()
	evs := m.ApplyScore(scoring.Result{Generation: req.Generation, Inside: 99, Outside: 99}, errors.New("no"))
	if !hasKind(evs, EventScored) || hasKind(evs, EventRemovalScheduled) {
		t.Errorf("events = %v", kinds(evs))
	}
	if snap := m.Snapshot(); snap.Inside != 0 || snap.Outside != 0 {
		t.Errorf("failed score reported %g/%g", snap.Inside, snap.Outside)
	}
	if m.NeedsScore() {
		t.Error("failed score is retried")
	}
}

func TestReadyToAdvance(t *testing.T) {
	targets := []target.Target{
		{Glyph: "circle.fill", Difficulty: target.Loose},
		{Glyph: "star.fill", Ordinal: 1, Difficulty: target.Precise},
	}
	m := newMachine(t, targets)
	m.Append(mustStroke(t))

	if evs := score(m, 14.9, 0); hasKind(evs, EventReadyToAdvance) {
		t.Error("ready below the loose threshold")
	}
	evs := score(m, 15, 0)
	if !hasKind(evs, EventReadyToAdvance) || !m.Snapshot().ReadyToAdvance {
		t.Error("not ready at the loose threshold")
	}
	m.Append(mustStroke(t))
	if evs := score(m, 20, 0); hasKind(evs, EventReadyToAdvance) {
		t.Error("ready event repeated")
	}

	m.Advance()
	m.Append(mustStroke(t))
	score(m, 90, 0)
	if m.Snapshot().ReadyToAdvance {
		t.Error("precise target ready at 90")
	}
	score(m, 95, 0)
	if !m.Snapshot().ReadyToAdvance {
		t.Error("precise target not ready at 95")
	}
}

func TestAutoRemoval(t *testing.T) {
	m := newMachine(t, target.DefaultCatalog())
	m.Append(mustStroke(t))
	m.Advance()

	good, bad := mustStroke(t), mustStroke(t)
	m.Append(good)
	score(m, 20, 0)
	m.Append(bad)

	evs := score(m, 20, 45)
	if !hasKind(evs, EventRemovalScheduled) {
		t.Fatalf("events = %v", kinds(evs))
	}
	r, ok := m.PendingRemoval()
	if !ok || r.Index != 1 || r.StrokeID != bad.ID() || r.Delay != DefaultConfig().RemovalDelay {
		t.Fatalf("pending removal = %+v", r)
	}

	// a second high score does not schedule another removal
	m.Append(mustStroke(t))
	if evs := score(m, 20, 60); hasKind(evs, EventRemovalScheduled) {
		t.Error("second removal scheduled")
	}

	evs, err := m.ExecuteRemoval(r.token)
	if err != nil || !hasKind(evs, EventStrokeRemoved) {
		t.Fatalf("ExecuteRemoval: %v, %v", kinds(evs), err)
	}
	snap := m.Snapshot()
	if len(snap.Active) != 2 || snap.Active[0].ID() != good.ID() || snap.Active[1].ID() == bad.ID() {
		t.Errorf("active = %v", ids(snap.Active))
	}
	if snap.Outside != 0 || snap.PendingRemoval != nil {
		t.Errorf("outside=%g pending=%v", snap.Outside, snap.PendingRemoval)
	}
	if snap.CanRedo {
		t.Error("removed stroke went to the undo log")
	}
	if len(snap.Completed) != 1 || len(snap.Completed[0]) != 1 {
		t.Error("completed sets changed")
	}

	// the token is used up
	if evs, err := m.ExecuteRemoval(r.token); len(evs) != 0 || err != nil {
		t.Errorf("second execution: %v, %v", kinds(evs), err)
	}
}

func TestAutoRemovalCancelled(t *testing.T) {
	cases := []struct {
		name string
		op   func(m *Machine)
	}{
		{"undo", func(m *Machine) { m.Undo() }},
		{"advance", func(m *Machine) { m.Advance() }},
		{"reset", func(m *Machine) { m.Reset() }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newMachine(t, target.DefaultCatalog())
			m.Append(mustStroke(t))
			score(m, 0, 50)
			r, ok := m.PendingRemoval()
			if !ok {
				t.Fatal("no removal scheduled")
			}

			tc.op(m)
			if _, ok := m.PendingRemoval(); ok {
				t.Fatal("removal still pending")
			}
			after := m.Snapshot()
			evs, err := m.ExecuteRemoval(r.token)
			if len(evs) != 0 || err != nil {
				t.Errorf("cancelled removal executed: %v, %v", kinds(evs), err)
			}
			if !sameStrokes(m.Snapshot().Active, after.Active) {
				t.Error("strokes changed by a cancelled removal")
			}
		})
	}
}

func TestAutoRemovalKeptAfterUndoOfLaterStroke(t *testing.T) {
	m := newMachine(t, oneTarget())
	first := mustStroke(t)
	m.Append(first)
	score(m, 0, 50)
	m.Append(mustStroke(t))
	m.Undo()

	r, ok := m.PendingRemoval()
	if !ok {
		t.Fatal("undo of a later stroke cancelled the removal")
	}
	if _, err := m.ExecuteRemoval(r.token); err != nil {
		t.Fatal(err)
	}
	if snap := m.Snapshot(); len(snap.Active) != 0 || !snap.CanRedo {
		t.Errorf("active=%d canRedo=%t", len(snap.Active), snap.CanRedo)
	}
}

func TestAutoRemovalWrongStroke(t *testing.T) {
	m := newMachine(t, oneTarget())
	m.Append(mustStroke(t))
	score(m, 0, 50)
	r, _ := m.PendingRemoval()

	// replace the stroke list behind the removal's back
	other := mustStroke(t)
	m.active = []stroke.Stroke{other}

	evs, err := m.ExecuteRemoval(r.token)
	var idxErr *InvalidStrokeIndexError
	if !errors.As(err, &idxErr) || idxErr.Index != 0 || idxErr.Len != 1 {
		t.Fatalf("error = %v", err)
	}
	if !hasKind(evs, EventRemovalCancelled) {
		t.Errorf("events = %v", kinds(evs))
	}
	if snap := m.Snapshot(); len(snap.Active) != 1 || snap.Active[0].ID() != other.ID() {
		t.Error("wrong stroke removed")
	}
}

func TestSettings(t *testing.T) {
	m := newMachine(t, oneTarget())
	gen := m.Generation()
	if _, err := m.SetStrokeWidth(0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("width 0: %v", err)
	}
	if _, err := m.SetCanvasSize(image.Point{X: 10}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("height 0: %v", err)
	}
	if m.Generation() != gen {
		t.Error("rejected settings changed the generation")
	}

	m.Append(mustStroke(t))
	score(m, 10, 0)
	if evs, err := m.SetStrokeWidth(20); err != nil || !hasKind(evs, EventSettingsChanged) {
		t.Fatalf("SetStrokeWidth: %v, %v", kinds(evs), err)
	}
	if !m.NeedsScore() {
		t.Error("width change does not trigger a score")
	}
	m.SetCanvasSize(image.Point{X: 300, Y: 300})
	req, _ := m.BeginScore()
	if req.StrokeWidth != 20 || req.Canvas != (image.Point{X: 300, Y: 300}) {
		t.Errorf("request uses width %g, canvas %v", req.StrokeWidth, req.Canvas)
	}
}

func TestNewMachineErrors(t *testing.T) {
	if _, err := NewMachine(nil, DefaultConfig()); !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, target.ErrEmptyCatalog) {
		t.Errorf("no targets: %v", err)
	}
	cfg := DefaultConfig()
	cfg.RescoreInterval = 0
	if _, err := NewMachine(oneTarget(), cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero interval: %v", err)
	}

	m := newMachine(t, oneTarget())
	if _, err := m.Append(stroke.Stroke{}); !errors.Is(err, stroke.ErrEmpty) {
		t.Errorf("zero stroke: %v", err)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m := newMachine(t, target.DefaultCatalog())
	m.Append(mustStroke(t))
	m.Advance()
	m.Append(mustStroke(t))

	snap := m.Snapshot()
	snap.Active[0] = stroke.Stroke{}
	snap.Completed[0][0] = stroke.Stroke{}

	again := m.Snapshot()
	if again.Active[0].IsZero() || again.Completed[0][0].IsZero() {
		t.Error("snapshot shares storage with the machine")
	}
}
