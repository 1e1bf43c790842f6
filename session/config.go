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
	"time"

	"github.com/caarlos0/env/v11"

	"seehuhn.de/go/tracescore/coverage"
	"seehuhn.de/go/tracescore/scoring"
)

// Config holds the session parameters. The struct tags name the
// environment variables read by LoadConfigFromEnv.
type Config struct {
	// OutsideThreshold is the outside percentage above which the last
	// stroke is removed automatically.
	OutsideThreshold float64 `env:"TRACESCORE_OUTSIDE_THRESHOLD" envDefault:"30"`

	// RemovalDelay is the time between flagging a stroke and removing it.
	RemovalDelay time.Duration `env:"TRACESCORE_REMOVAL_DELAY" envDefault:"1s"`

	// RescoreInterval is the period of the re-score tick while the user
	// is drawing.
	RescoreInterval time.Duration `env:"TRACESCORE_RESCORE_INTERVAL" envDefault:"300ms"`

	StrokeWidth  float64 `env:"TRACESCORE_STROKE_WIDTH" envDefault:"10"`
	CanvasWidth  int     `env:"TRACESCORE_CANVAS_WIDTH" envDefault:"400"`
	CanvasHeight int     `env:"TRACESCORE_CANVAS_HEIGHT" envDefault:"600"`

	GlyphSize            float64 `env:"TRACESCORE_GLYPH_SIZE" envDefault:"250"`
	BinarizeThreshold    uint8   `env:"TRACESCORE_BINARIZE_THRESHOLD" envDefault:"200"`
	DilationRadius       int     `env:"TRACESCORE_DILATION_RADIUS" envDefault:"4"`
	BoundarySearchRadius int     `env:"TRACESCORE_BOUNDARY_SEARCH_RADIUS" envDefault:"5"`
	MinConnectedPixels   int     `env:"TRACESCORE_MIN_CONNECTED_PIXELS" envDefault:"3"`

	// EventBuffer is the capacity of the Events channel.
	EventBuffer int `env:"TRACESCORE_EVENT_BUFFER" envDefault:"64"`
}

// DefaultConfig returns the configuration with every field at its default.
func DefaultConfig() Config {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	if err != nil {
		panic(err) // unreachable: the defaults are constants
	}
	return cfg
}

// LoadConfigFromEnv reads the configuration from the environment. Unset
// variables keep their defaults.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that all values are in range.
func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.OutsideThreshold) || c.OutsideThreshold < 0 || c.OutsideThreshold > 100:
		return fmt.Errorf("%w: outside threshold %g not in [0, 100]", ErrInvalidConfig, c.OutsideThreshold)
	case c.RemovalDelay < 0:
		return fmt.Errorf("%w: negative removal delay", ErrInvalidConfig)
	case c.RescoreInterval <= 0:
		return fmt.Errorf("%w: rescore interval must be positive", ErrInvalidConfig)
	case !(c.StrokeWidth > 0):
		return fmt.Errorf("%w: stroke width must be positive", ErrInvalidConfig)
	case c.CanvasWidth <= 0 || c.CanvasHeight <= 0:
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidConfig, c.CanvasWidth, c.CanvasHeight)
	case !(c.GlyphSize > 0):
		return fmt.Errorf("%w: glyph size must be positive", ErrInvalidConfig)
	case c.BinarizeThreshold == 0:
		return fmt.Errorf("%w: binarize threshold must be positive", ErrInvalidConfig)
	case c.DilationRadius < 0 || c.BoundarySearchRadius < 0 || c.MinConnectedPixels < 0:
		return fmt.Errorf("%w: negative tolerance", ErrInvalidConfig)
	case c.EventBuffer < 0:
		return fmt.Errorf("%w: negative event buffer", ErrInvalidConfig)
	}
	return nil
}

// Canvas returns the canvas size.
func (c Config) Canvas() image.Point {
	return image.Point{X: c.CanvasWidth, Y: c.CanvasHeight}
}

// ScoringConfig returns the scoring parameters.
func (c Config) ScoringConfig() scoring.Config {
	return scoring.Config{
		GlyphSize: c.GlyphSize,
		Threshold: c.BinarizeThreshold,
		Coverage: coverage.Options{
			DilationRadius:       c.DilationRadius,
			BoundarySearchRadius: c.BoundarySearchRadius,
			MinConnectedPixels:   c.MinConnectedPixels,
		},
	}
}
