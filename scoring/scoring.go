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

// Package scoring computes inside and outside scores for the strokes drawn
// over one target.
package scoring

import (
	"context"
	"image"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/tracescore/coverage"
	"seehuhn.de/go/tracescore/mask"
	"seehuhn.de/go/tracescore/raster"
	"seehuhn.de/go/tracescore/stroke"
	"seehuhn.de/go/tracescore/target"
)

const tracerName = "seehuhn.de/go/tracescore/scoring"

// Request describes one scoring attempt.
type Request struct {
	// Generation identifies the stroke list the request was built from. It
	// is copied to the Result.
	Generation uint64

	Target      target.Target
	Canvas      image.Point
	Strokes     []stroke.Stroke
	StrokeWidth float64
}

// Result holds the scores for a Request.
type Result struct {
	Generation uint64

	// Inside is the coverage percentage, forced to 0 when no stroke point
	// lies within the nominal placement of the target.
	Inside float64

	// Outside is the outside percentage.
	Outside float64

	// HasInsideStroke reports whether any stroke point lies within the
	// nominal placement of the target.
	HasInsideStroke bool

	// Coverage is the unmodified comparison result.
	Coverage coverage.Result
}

// Config holds the scoring parameters.
type Config struct {
	// GlyphSize is the extent of the reference glyphs in canvas units.
	GlyphSize float64

	// Threshold is the binarization threshold, see mask.Binarize.
	Threshold uint8

	Coverage coverage.Options
}

// DefaultConfig returns the canonical scoring parameters.
func DefaultConfig() Config {
	return Config{
		GlyphSize: raster.DefaultGlyphSize,
		Threshold: mask.DefaultThreshold,
		Coverage:  coverage.DefaultOptions(),
	}
}

// Scorer scores stroke sets against targets. Scorer is safe for concurrent
// use.
type Scorer struct {
	cfg     Config
	painter *raster.Painter
	cache   *ReferenceCache
	tracer  trace.Tracer
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithTracerProvider sets the provider for score spans. By default the
// global provider is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Scorer) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// NewScorer returns a Scorer with an empty reference cache. Zero fields of
// cfg are replaced by their defaults.
func NewScorer(cfg Config, opts ...Option) *Scorer {
	def := DefaultConfig()
	if cfg.GlyphSize <= 0 {
		cfg.GlyphSize = def.GlyphSize
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.Coverage == (coverage.Options{}) {
		cfg.Coverage = def.Coverage
	}

	s := &Scorer{
		cfg: cfg,
		painter: &raster.Painter{
			GlyphSize: cfg.GlyphSize,
			Threshold: cfg.Threshold,
		},
		tracer: otel.Tracer(tracerName),
	}
	s.cache = NewReferenceCache(s.buildReference)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the parameters in use.
func (s *Scorer) Config() Config { return s.cfg }

// Cache returns the reference cache of s.
func (s *Scorer) Cache() *ReferenceCache { return s.cache }

// Invalidate drops all cached references.
func (s *Scorer) Invalidate() { s.cache.Invalidate() }

// Score rasterizes req.Strokes, compares them against the target and
// applies the placement check. An empty stroke list scores zero without
// rasterizing anything.
func (s *Scorer) Score(ctx context.Context, req Request) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "scoring.Score", trace.WithAttributes(
		attribute.String("tracescore.glyph", req.Target.Glyph),
		attribute.Int("tracescore.strokes", len(req.Strokes)),
		attribute.Int64("tracescore.generation", int64(req.Generation)),
	))
	defer span.End()

	res := Result{Generation: req.Generation}
	if len(req.Strokes) == 0 {
		return res, nil
	}

	var drawing *mask.Mask
	var ref *coverage.Reference
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		drawing, err = s.painter.Strokes(req.Strokes, req.Canvas, req.StrokeWidth)
		return err
	})
	g.Go(func() error {
		var err error
		ref, err = s.Reference(gctx, req.Target, req.Canvas)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	cov, err := ref.Compare(drawing)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	res.Coverage = cov
	res.Outside = cov.Outside
	res.HasInsideStroke = stroke.AnyIn(req.Strokes, req.Target.Placement(req.Canvas, s.cfg.GlyphSize))
	if res.HasInsideStroke {
		res.Inside = cov.Inside
	}

	span.SetAttributes(
		attribute.Float64("tracescore.inside", res.Inside),
		attribute.Float64("tracescore.outside", res.Outside),
		attribute.Bool("tracescore.has_inside_stroke", res.HasInsideStroke),
	)
	return res, nil
}

// Reference returns the prepared reference for t on a canvas of the given
// size, from the cache if possible.
func (s *Scorer) Reference(ctx context.Context, t target.Target, canvas image.Point) (*coverage.Reference, error) {
	return s.cache.Get(ctx, s.key(t.Glyph, t.Offset, canvas))
}

func (s *Scorer) key(glyph string, offset vec.Vec2, canvas image.Point) CacheKey {
	return CacheKey{Glyph: glyph, Offset: offset, Canvas: canvas, GlyphSize: s.cfg.GlyphSize}
}

func (s *Scorer) buildReference(key CacheKey) (*coverage.Reference, error) {
	m, err := s.painter.Reference(key.Glyph, key.Canvas, key.Offset, 0)
	if err != nil {
		return nil, err
	}
	return coverage.Prepare(m, s.cfg.Coverage)
}
