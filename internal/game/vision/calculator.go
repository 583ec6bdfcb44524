package vision

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/game/core"
)

// DefaultRadius is used when a calculator is built with a non-positive radius
const DefaultRadius = 12

// Calculator owns the published field for one watching actor. Changes only
// mark it dirty; the field is rebuilt on the next Calculate call, so readers
// may see a snapshot that is one frame old.
type Calculator struct {
	graph  *core.Graph
	radius int

	watcher  core.Coordinate
	watching bool
	dirty    bool
	frame    uint64

	current atomic.Pointer[Field]
	logger  zerolog.Logger
}

func NewCalculator(graph *core.Graph, radius int, logger zerolog.Logger) *Calculator {
	if radius <= 0 {
		radius = DefaultRadius
	}
	c := &Calculator{
		graph:  graph,
		radius: radius,
		logger: logger.With().Str("component", "Vision").Logger(),
	}
	c.current.Store(newField(graph.Width(), graph.Height(), core.Coordinate{}, 0))
	graph.OnVisionChange(func(t *core.Tile) {
		c.logger.Debug().Stringer("tile", t.Location()).Msg("Vision mask changed")
		c.Invalidate()
	})
	return c
}

// Watch moves the watching position, marking the field dirty if it changed
func (c *Calculator) Watch(pos core.Coordinate) {
	if c.watching && c.watcher == pos {
		return
	}
	c.watcher = pos
	c.watching = true
	c.dirty = true
}

// Unwatch clears the watcher; the next Calculate publishes an empty field
func (c *Calculator) Unwatch() {
	if c.watching {
		c.watching = false
		c.dirty = true
	}
}

func (c *Calculator) Invalidate() { c.dirty = true }
func (c *Calculator) Dirty() bool { return c.dirty }
func (c *Calculator) Radius() int { return c.radius }

// Calculate rebuilds and publishes the field if anything changed since the
// last call. It returns true when a new field was published.
func (c *Calculator) Calculate() bool {
	if !c.dirty {
		return false
	}
	began := time.Now()
	c.frame++
	f := newField(c.graph.Width(), c.graph.Height(), c.watcher, c.frame)
	if c.watching {
		rayMarch(c.graph, f, c.radius)
	}
	c.current.Store(f)
	c.dirty = false

	c.logger.Debug().
		Stringer("origin", c.watcher).
		Uint64("frame", c.frame).
		Int("visible", f.VisibleCount()).
		Dur("took", time.Since(began)).
		Msg("Vision field rebuilt")
	return true
}

// Field returns the latest published snapshot
func (c *Calculator) Field() *Field {
	return c.current.Load()
}

func (c *Calculator) IsVisible(pos core.Coordinate) bool {
	return c.Field().IsVisible(pos)
}

func (c *Calculator) Distance(pos core.Coordinate) float64 {
	return c.Field().Distance(pos)
}
