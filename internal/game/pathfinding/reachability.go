package pathfinding

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/zyedidia/generic/heap"

	"github.com/DragonMoffon/Temporum/internal/game/core"
)

// Result is everything one reachability query found. It is never mutated
// after Compute returns.
type Result struct {
	Start       *core.Tile
	Budget      int
	Predecessor map[*core.Tile]*core.Tile
	CostSoFar   map[*core.Tile]int
	CostBuckets map[int][]*core.Tile
	Edges       []*core.Tile

	order []*core.Tile
}

func newResult(start *core.Tile, budget int) *Result {
	return &Result{
		Start:       start,
		Budget:      budget,
		Predecessor: make(map[*core.Tile]*core.Tile),
		CostSoFar:   make(map[*core.Tile]int),
		CostBuckets: make(map[int][]*core.Tile),
	}
}

// Empty reports whether the query reached nothing, not even its start
func (r *Result) Empty() bool {
	return r == nil || len(r.CostSoFar) == 0
}

func (r *Result) Reachable(t *core.Tile) bool {
	if r == nil || t == nil {
		return false
	}
	_, ok := r.CostSoFar[t]
	return ok
}

func (r *Result) Cost(t *core.Tile) (int, bool) {
	if r == nil {
		return 0, false
	}
	c, ok := r.CostSoFar[t]
	return c, ok
}

// Tiles returns every reached tile ordered by cost, then discovery
func (r *Result) Tiles() []*core.Tile {
	if r == nil {
		return nil
	}
	out := append([]*core.Tile(nil), r.order...)
	sort.SliceStable(out, func(i, j int) bool {
		return r.CostSoFar[out[i]] < r.CostSoFar[out[j]]
	})
	return out
}

// MaxCost is the largest bucket key
func (r *Result) MaxCost() int {
	highest := 0
	if r == nil {
		return highest
	}
	for c := range r.CostBuckets {
		if c > highest {
			highest = c
		}
	}
	return highest
}

// IsEdge reports whether t borders blocked or out-of-budget space
func (r *Result) IsEdge(t *core.Tile) bool {
	if r == nil {
		return false
	}
	for _, e := range r.Edges {
		if e == t {
			return true
		}
	}
	return false
}

type queryOptions struct {
	require core.ActionKind
}

// QueryOption tunes a single Compute or FindPath call
type QueryOption func(*queryOptions)

// WithRequiredAction limits expansion to tiles offering kind. core.None
// disables the check.
func WithRequiredAction(kind core.ActionKind) QueryOption {
	return func(o *queryOptions) { o.require = kind }
}

func buildOptions(opts []QueryOption) queryOptions {
	o := queryOptions{require: core.Move}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o queryOptions) allows(t *core.Tile) bool {
	return o.require == core.None || t.HasAction(o.require)
}

// Engine runs budgeted uniform-cost searches over a tile graph.
type Engine struct {
	graph  *core.Graph
	logger zerolog.Logger
}

func NewEngine(graph *core.Graph, logger zerolog.Logger) *Engine {
	return &Engine{
		graph:  graph,
		logger: logger.With().Str("component", "Reachability").Logger(),
	}
}

func (e *Engine) Graph() *core.Graph { return e.graph }

type frontierItem struct {
	tile *core.Tile
	cost int
	seq  int
}

func stepCost(cost CostFunc, t *core.Tile) int {
	c := cost(t)
	if c < 1 {
		return 1
	}
	return c
}

// Compute finds every tile reachable from start for at most budget. A nil
// start yields an empty result.
func (e *Engine) Compute(start *core.Tile, budget int, cost CostFunc, opts ...QueryOption) *Result {
	if budget < 0 {
		budget = 0
	}
	res := newResult(start, budget)
	if start == nil {
		e.logger.Debug().Msg("Reachability requested without a start tile")
		return res
	}
	if cost == nil {
		cost = Uniform()
	}
	o := buildOptions(opts)
	began := time.Now()

	seq := 0
	frontier := heap.New[frontierItem](func(a, b frontierItem) bool {
		if a.cost != b.cost {
			return a.cost < b.cost
		}
		return a.seq < b.seq
	})
	frontier.Push(frontierItem{tile: start, cost: 0, seq: seq})
	res.Predecessor[start] = nil
	res.CostSoFar[start] = 0
	res.CostBuckets[0] = []*core.Tile{start}
	res.order = append(res.order, start)

	edgeSet := make(map[*core.Tile]bool)
	markEdge := func(t *core.Tile) {
		if !edgeSet[t] {
			edgeSet[t] = true
			res.Edges = append(res.Edges, t)
		}
	}
	var beyond [][2]*core.Tile

	for frontier.Size() > 0 {
		item, _ := frontier.Pop()
		current := item.tile
		if item.cost > res.CostSoFar[current] {
			continue
		}

		for _, d := range core.AllDirections {
			next, ok := e.graph.Passable(current, d)
			if next == nil || !ok || !o.allows(next) {
				markEdge(current)
				continue
			}
			if next == res.Predecessor[current] {
				continue
			}

			newCost := res.CostSoFar[current] + stepCost(cost, next)
			if newCost > budget {
				beyond = append(beyond, [2]*core.Tile{current, next})
				continue
			}
			known, seen := res.CostSoFar[next]
			if seen && newCost >= known {
				continue
			}
			if seen {
				res.CostBuckets[known] = dropTile(res.CostBuckets[known], next)
				if len(res.CostBuckets[known]) == 0 {
					delete(res.CostBuckets, known)
				}
			} else {
				res.order = append(res.order, next)
			}
			res.Predecessor[next] = current
			res.CostSoFar[next] = newCost
			res.CostBuckets[newCost] = append(res.CostBuckets[newCost], next)
			seq++
			frontier.Push(frontierItem{tile: next, cost: newCost, seq: seq})
		}
	}

	// a step over budget only makes an edge when no cheaper route reached
	// the far tile
	for _, step := range beyond {
		if !res.Reachable(step[1]) {
			markEdge(step[0])
		}
	}

	sort.SliceStable(res.Edges, func(i, j int) bool {
		return res.CostSoFar[res.Edges[i]] < res.CostSoFar[res.Edges[j]]
	})

	e.logger.Debug().
		Stringer("start", start.Location()).
		Int("budget", budget).
		Int("reached", len(res.CostSoFar)).
		Int("edges", len(res.Edges)).
		Dur("took", time.Since(began)).
		Msg("Reachability computed")
	return res
}

func dropTile(tiles []*core.Tile, t *core.Tile) []*core.Tile {
	for i, x := range tiles {
		if x == t {
			return append(tiles[:i:i], tiles[i+1:]...)
		}
	}
	return tiles
}
