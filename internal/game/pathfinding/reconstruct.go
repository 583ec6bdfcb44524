package pathfinding

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/DragonMoffon/Temporum/internal/game/core"
)

// DefaultFallbackRings bounds the search around an unreachable goal
const DefaultFallbackRings = 3

// Reconstruct walks pred back from goal to start. The path excludes start
// and includes goal. It is empty when goal is start or the chain breaks.
func Reconstruct(pred map[*core.Tile]*core.Tile, start, goal *core.Tile) []*core.Tile {
	if start == nil || goal == nil || goal == start {
		return nil
	}
	var path []*core.Tile
	for current := goal; current != start; {
		prev, ok := pred[current]
		if !ok || prev == nil {
			return nil
		}
		path = append(path, current)
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathTo reconstructs the path from the result's start to goal
func (r *Result) PathTo(goal *core.Tile) []*core.Tile {
	if r == nil {
		return nil
	}
	return Reconstruct(r.Predecessor, r.Start, goal)
}

// PathToTarget returns a path toward goal that never fails while anything
// was reached. An unreachable goal is swapped for the cheapest reached
// tile in the nearest ring around it; after maxRings rings a random
// reached tile is used. The chosen target is returned with the path.
func (r *Result) PathToTarget(graph *core.Graph, goal core.Coordinate, rng *rand.Rand, maxRings int) ([]*core.Tile, *core.Tile) {
	if r.Empty() {
		return nil, nil
	}
	if t := graph.Tile(goal); r.Reachable(t) {
		return r.PathTo(t), t
	}
	if maxRings <= 0 {
		maxRings = DefaultFallbackRings
	}

	visited := mapset.New[core.Coordinate]()
	visited.Put(goal)
	ring := []core.Coordinate{goal}
	for depth := 0; depth < maxRings && len(ring) > 0; depth++ {
		var next []core.Coordinate
		var best *core.Tile
		for _, c := range ring {
			for _, n := range c.Neighbors() {
				if visited.Has(n) || !graph.InBounds(n) {
					continue
				}
				visited.Put(n)
				next = append(next, n)
				t := graph.Tile(n)
				if !r.Reachable(t) {
					continue
				}
				if best == nil || r.CostSoFar[t] < r.CostSoFar[best] {
					best = t
				}
			}
		}
		if best != nil {
			return r.PathTo(best), best
		}
		ring = next
	}

	tiles := r.Tiles()
	pick := tiles[len(tiles)-1]
	if rng != nil {
		pick = tiles[rng.Intn(len(tiles))]
	}
	return r.PathTo(pick), pick
}
