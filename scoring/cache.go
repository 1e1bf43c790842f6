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
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/tracescore/coverage"
)

// CacheKey identifies a prepared reference.
type CacheKey struct {
	Glyph     string
	Offset    vec.Vec2
	Canvas    image.Point
	GlyphSize float64
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s@%g,%g/%dx%d/%g",
		k.Glyph, k.Offset.X, k.Offset.Y, k.Canvas.X, k.Canvas.Y, k.GlyphSize)
}

// ReferenceCache holds prepared reference masks. Concurrent requests for a
// missing key share a single build.
type ReferenceCache struct {
	build func(CacheKey) (*coverage.Reference, error)

	mu      sync.Mutex
	entries map[CacheKey]*coverage.Reference
	epoch   uint64

	group  singleflight.Group
	builds atomic.Int64
}

// NewReferenceCache returns an empty cache which calls build for missing
// keys.
func NewReferenceCache(build func(CacheKey) (*coverage.Reference, error)) *ReferenceCache {
	return &ReferenceCache{
		build:   build,
		entries: make(map[CacheKey]*coverage.Reference),
	}
}

// Get returns the prepared reference for key, building it if needed.
// Failed builds are not cached.
func (c *ReferenceCache) Get(ctx context.Context, key CacheKey) (*coverage.Reference, error) {
	c.mu.Lock()
	ref, ok := c.entries[key]
	epoch := c.epoch
	c.mu.Unlock()
	if ok {
		return ref, nil
	}

	flight := fmt.Sprintf("%d:%s", epoch, key)
	ch := c.group.DoChan(flight, func() (any, error) {
		c.builds.Add(1)
		ref, err := c.build(key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.epoch == epoch {
			c.entries[key] = ref
		}
		c.mu.Unlock()
		return ref, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*coverage.Reference), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops all entries. Builds which are in progress complete, but
// their results are not stored.
func (c *ReferenceCache) Invalidate() {
	c.mu.Lock()
	c.epoch++
	clear(c.entries)
	c.mu.Unlock()
}

// Len returns the number of cached references.
func (c *ReferenceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Builds returns the number of builds started since the cache was created.
func (c *ReferenceCache) Builds() int64 {
	return c.builds.Load()
}
