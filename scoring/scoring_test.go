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

package scoring

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/tracescore/coverage"
	"seehuhn.de/go/tracescore/mask"
	"seehuhn.de/go/tracescore/raster"
	"seehuhn.de/go/tracescore/stroke"
	"seehuhn.de/go/tracescore/target"
)

var canvas = image.Point{X: 300, Y: 300}

func mustStroke(t *testing.T, pts ...vec.Vec2) stroke.Stroke {
	t.Helper()
	s, err := stroke.New(pts)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func circleRequest(strokes ...stroke.Stroke) Request {
	return Request{
		Generation:  7,
		Target:      target.Target{Glyph: "circle.fill"},
		Canvas:      canvas,
		Strokes:     strokes,
		StrokeWidth: 10,
	}
}

func TestScoreEmpty(t *testing.T) {
	s := NewScorer(DefaultConfig())
	res, err := s.Score(context.Background(), circleRequest())
	if err != nil {
		t.Fatal(err)
	}
	if res != (Result{Generation: 7}) {
		t.Errorf("Score = %+v, want zero scores", res)
	}
	if s.Cache().Builds() != 0 {
		t.Error("empty stroke list built a reference")
	}
}

func TestScoreOutsidePlacement(t *testing.T) {
	// Both endpoints lie outside the nominal square [25, 275)², but the
	// line crosses the circle.
	s := NewScorer(DefaultConfig())
	line := mustStroke(t, vec.Vec2{X: 10, Y: 10}, vec.Vec2{X: 290, Y: 290})

	res, err := s.Score(context.Background(), circleRequest(line))
	if err != nil {
		t.Fatal(err)
	}
	if res.HasInsideStroke {
		t.Error("HasInsideStroke = true")
	}
	if res.Inside != 0 {
		t.Errorf("Inside = %g, want 0", res.Inside)
	}
	if res.Coverage.Inside <= 0 {
		t.Errorf("coverage inside = %g, want > 0", res.Coverage.Inside)
	}
	if res.Outside <= 0 {
		t.Errorf("Outside = %g, want > 0", res.Outside)
	}
	if res.Generation != 7 {
		t.Errorf("Generation = %d, want 7", res.Generation)
	}
}

func TestScoreErrors(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	s := NewScorer(DefaultConfig(), WithTracerProvider(tp))

	line := mustStroke(t, vec.Vec2{X: 10, Y: 10}, vec.Vec2{X: 20, Y: 20})
	req := circleRequest(line)
	req.Target.Glyph = "heart.fill"

	_, err := s.Score(context.Background(), req)
	if !errors.Is(err, raster.ErrUnknownGlyph) {
		t.Errorf("error = %v, want ErrUnknownGlyph", err)
	}

	req = circleRequest(line)
	req.Canvas = image.Point{X: 0, Y: 300}
	_, err = s.Score(context.Background(), req)
	var rerr *raster.RasterizationError
	if !errors.As(err, &rerr) || !errors.Is(err, raster.ErrInvalidSize) {
		t.Errorf("error = %v, want invalid size", err)
	}

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(spans))
	}
	for _, span := range spans {
		if span.Name() != "scoring.Score" || span.Status().Code != codes.Error {
			t.Errorf("span %q has status %v", span.Name(), span.Status().Code)
		}
	}
}

func TestScoreSpanAttributes(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	s := NewScorer(DefaultConfig(), WithTracerProvider(tp))

	line := mustStroke(t, vec.Vec2{X: 100, Y: 150}, vec.Vec2{X: 200, Y: 150})
	if _, err := s.Score(context.Background(), circleRequest(line)); err != nil {
		t.Fatal(err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs["tracescore.glyph"].AsString() != "circle.fill" {
		t.Errorf("glyph attribute = %v", attrs["tracescore.glyph"])
	}
	if !attrs["tracescore.has_inside_stroke"].AsBool() {
		t.Error("has_inside_stroke attribute not set")
	}
	if attrs["tracescore.inside"].AsFloat64() <= 0 {
		t.Error("inside attribute not set")
	}
}

func TestReferenceCache(t *testing.T) {
	release := make(chan struct{})
	build := func(key CacheKey) (*coverage.Reference, error) {
		<-release
		m := mask.New(key.Canvas.X, key.Canvas.Y)
		m.Set(1, 1, true)
		return coverage.Prepare(m, coverage.DefaultOptions())
	}
	c := NewReferenceCache(build)
	key := CacheKey{Glyph: "plus", Canvas: image.Point{X: 10, Y: 10}, GlyphSize: 5}

	const n = 8
	refs := make([]*coverage.Reference, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref, err := c.Get(context.Background(), key)
			if err != nil {
				t.Error(err)
			}
			refs[i] = ref
		}()
	}
	close(release)
	wg.Wait()

	if c.Builds() < 1 || c.Len() != 1 {
		t.Fatalf("builds=%d len=%d", c.Builds(), c.Len())
	}
	builds := c.Builds()
	ref, err := c.Get(context.Background(), key)
	if err != nil {
		t.Fatal(err)
	}
	if c.Builds() != builds {
		t.Error("cached key was rebuilt")
	}
	if ref == nil || refs[0] == nil {
		t.Error("missing reference")
	}

	c.Invalidate()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Invalidate", c.Len())
	}
	if _, err := c.Get(context.Background(), key); err != nil {
		t.Fatal(err)
	}
	if c.Builds() != builds+1 {
		t.Errorf("builds = %d after Invalidate, want %d", c.Builds(), builds+1)
	}
}

func TestReferenceCacheErrorsAndContext(t *testing.T) {
	fail := errors.New("boom")
	c := NewReferenceCache(func(CacheKey) (*coverage.Reference, error) {
		return nil, fail
	})
	key := CacheKey{Glyph: "plus"}
	if _, err := c.Get(context.Background(), key); !errors.Is(err, fail) {
		t.Errorf("error = %v, want %v", err, fail)
	}
	if c.Len() != 0 {
		t.Error("failed build was cached")
	}

	block := make(chan struct{})
	defer close(block)
	slow := NewReferenceCache(func(CacheKey) (*coverage.Reference, error) {
		<-block
		return nil, fail
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := slow.Get(ctx, key); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
