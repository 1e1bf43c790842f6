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

// Package session tracks the strokes drawn over a sequence of targets,
// with undo and redo, scoring and automatic removal of strokes which stray
// too far outside the target.
//
// The state machine itself is Machine. Session runs a Machine on a single
// goroutine, computes scores in the background and drives the removal and
// re-score timers.
package session

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"

	"seehuhn.de/go/tracescore"
	"seehuhn.de/go/tracescore/scoring"
	"seehuhn.de/go/tracescore/stroke"
	"seehuhn.de/go/tracescore/target"
)

// Scorer computes scores for a Session. *scoring.Scorer implements this
// interface.
type Scorer interface {
	Score(ctx context.Context, req scoring.Request) (scoring.Result, error)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. By default tracescore.Logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock for the removal delay and the re-score tick.
func WithClock(c Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithScorer replaces the default *scoring.Scorer.
func WithScorer(sc Scorer) Option {
	return func(s *Session) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// Session owns a Machine and serializes all access to it. Scores are
// computed on a separate goroutine, at most one at a time; changes made
// while a score is in flight cause one follow-up computation.
//
// The methods of Session are safe for concurrent use.
type Session struct {
	cmds   chan func()
	events chan Event
	quit   chan struct{}
	done   chan struct{}

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	cfg    Config
	scorer Scorer
	clock  Clock
	logger *slog.Logger

	// owned by the loop goroutine
	m            *Machine
	inFlight     bool
	drawing      bool
	removalTimer Timer
	tickTimer    Timer
}

// New starts a session over targets.
func New(targets []target.Target, cfg Config, opts ...Option) (*Session, error) {
	m, err := NewMachine(targets, cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		cmds:   make(chan func()),
		events: make(chan Event, cfg.EventBuffer),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		clock:  systemClock{},
		logger: tracescore.Logger(),
		m:      m,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scorer == nil {
		s.scorer = scoring.NewScorer(cfg.ScoringConfig())
	}
	s.logger = s.logger.With("component", "session")

	go s.run()
	return s, nil
}

// Events returns the channel on which state changes are reported. Events
// are dropped when the channel is full. The channel is closed by Close.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Close stops the session. Pending timers are cancelled and in-flight
// score computations are abandoned.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		close(s.quit)
	})
	<-s.done
	return nil
}

// AppendStroke adds a newly drawn stroke.
func (s *Session) AppendStroke(ctx context.Context, st stroke.Stroke) error {
	return s.mutate(ctx, func() ([]Event, error) { return s.m.Append(st) })
}

// Undo removes the last stroke and puts it on the undo log.
func (s *Session) Undo(ctx context.Context) error {
	return s.mutate(ctx, s.m.Undo)
}

// Redo restores the last undone stroke.
func (s *Session) Redo(ctx context.Context) error {
	return s.mutate(ctx, s.m.Redo)
}

// Advance moves to the next target. It does nothing on the last target.
func (s *Session) Advance(ctx context.Context) error {
	return s.mutate(ctx, s.m.Advance)
}

// Finish ends the session on the last target.
func (s *Session) Finish(ctx context.Context) error {
	return s.mutate(ctx, func() ([]Event, error) {
		evs, err := s.m.Finish()
		if err == nil {
			s.stopTick()
		}
		return evs, err
	})
}

// Reset returns to the first target and discards all strokes. Cached
// reference masks are dropped.
func (s *Session) Reset(ctx context.Context) error {
	return s.mutate(ctx, func() ([]Event, error) {
		if inv, ok := s.scorer.(interface{ Invalidate() }); ok {
			inv.Invalidate()
		}
		return s.m.Reset(), nil
	})
}

// SetStrokeWidth changes the width used for scoring.
func (s *Session) SetStrokeWidth(ctx context.Context, width float64) error {
	return s.mutate(ctx, func() ([]Event, error) { return s.m.SetStrokeWidth(width) })
}

// SetCanvasSize changes the canvas size used for scoring.
func (s *Session) SetCanvasSize(ctx context.Context, size image.Point) error {
	return s.mutate(ctx, func() ([]Event, error) { return s.m.SetCanvasSize(size) })
}

// SetDrawing reports whether the user is currently drawing. While drawing,
// a periodic tick re-scores whenever the number of strokes has changed.
func (s *Session) SetDrawing(ctx context.Context, drawing bool) error {
	return s.do(ctx, func() error {
		if drawing == s.drawing {
			return nil
		}
		s.drawing = drawing
		if drawing {
			s.armTick()
		} else {
			s.stopTick()
			s.maybeScore()
		}
		return nil
	})
}

// Snapshot returns the current state.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.do(ctx, func() error {
		snap = s.m.Snapshot()
		return nil
	})
	return snap, err
}

// do runs fn on the loop goroutine and waits for its result.
func (s *Session) do(ctx context.Context, fn func() error) error {
	errc := make(chan error, 1)
	select {
	case s.cmds <- func() { errc <- fn() }:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// mutate runs a Machine operation on the loop goroutine and processes the
// resulting events.
func (s *Session) mutate(ctx context.Context, op func() ([]Event, error)) error {
	return s.do(ctx, func() error {
		evs, err := op()
		s.process(evs)
		return err
	})
}

// post queues fn on the loop goroutine without waiting. It is used by
// timers and score computations.
func (s *Session) post(fn func()) {
	select {
	case s.cmds <- fn:
	case <-s.quit:
	}
}

func (s *Session) run() {
	defer close(s.done)
	defer close(s.events)
	for {
		select {
		case fn := <-s.cmds:
			fn()
		case <-s.quit:
			s.stopRemoval()
			s.stopTick()
			return
		}
	}
}

// process publishes events, updates the timers and starts a score
// computation if the scores are outdated.
func (s *Session) process(evs []Event) {
	for _, ev := range evs {
		switch ev.Kind {
		case EventRemovalScheduled:
			if r := ev.Snapshot.PendingRemoval; r != nil {
				s.armRemoval(*r)
			}
		case EventRemovalCancelled, EventStrokeRemoved:
			s.stopRemoval()
		}
		s.logger.Debug("event",
			"kind", ev.Kind.String(),
			"state", ev.Snapshot.State.String(),
			"target", ev.Snapshot.Index,
			"strokes", len(ev.Snapshot.Active))
		s.emit(ev)
	}
	s.maybeScore()
}

func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("event channel full, dropping event", "kind", ev.Kind.String())
	}
}

// maybeScore starts a score computation unless one is in flight or the
// scores are current.
func (s *Session) maybeScore() {
	if s.inFlight || !s.m.NeedsScore() {
		return
	}
	s.startScore()
}

func (s *Session) startScore() {
	req, ok := s.m.BeginScore()
	if !ok {
		return
	}
	s.inFlight = true
	go func() {
		res, err := s.scorer.Score(s.ctx, req)
		res.Generation = req.Generation
		s.post(func() { s.finishScore(res, err) })
	}()
}

func (s *Session) finishScore(res scoring.Result, err error) {
	s.inFlight = false
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("scoring failed", "generation", res.Generation, "error", err)
	}
	s.process(s.m.ApplyScore(res, err))
}

func (s *Session) armRemoval(r Removal) {
	s.stopRemoval()
	s.removalTimer = s.clock.AfterFunc(r.Delay, func() {
		s.post(func() {
			evs, err := s.m.ExecuteRemoval(r.token)
			var idxErr *InvalidStrokeIndexError
			if errors.As(err, &idxErr) {
				s.logger.Debug("skipping removal", "index", idxErr.Index, "strokes", idxErr.Len)
			}
			s.process(evs)
		})
	})
}

func (s *Session) stopRemoval() {
	if s.removalTimer != nil {
		s.removalTimer.Stop()
		s.removalTimer = nil
	}
}

func (s *Session) armTick() {
	s.stopTick()
	s.tickTimer = s.clock.AfterFunc(s.cfg.RescoreInterval, func() {
		s.post(s.tick)
	})
}

func (s *Session) stopTick() {
	if s.tickTimer != nil {
		s.tickTimer.Stop()
		s.tickTimer = nil
	}
}

// tick re-scores if the number of strokes changed since the last score.
func (s *Session) tick() {
	if !s.drawing {
		return
	}
	if !s.inFlight && s.m.CountChanged() {
		s.startScore()
	}
	s.armTick()
}
