package pathfinding

import (
	"github.com/zyedidia/generic/heap"

	"github.com/DragonMoffon/Temporum/internal/game/core"
)

type scoredItem struct {
	tile  *core.Tile
	score float64
	seq   int
}

// FindPath is a single-target A* search with a straight-line heuristic and
// no budget. It returns nil when goal cannot be reached.
func (e *Engine) FindPath(start, goal *core.Tile, cost CostFunc, opts ...QueryOption) []*core.Tile {
	if start == nil || goal == nil || start == goal {
		return nil
	}
	if cost == nil {
		cost = Uniform()
	}
	o := buildOptions(opts)
	if !o.allows(goal) {
		return nil
	}
	target := goal.Location()

	pred := map[*core.Tile]*core.Tile{start: nil}
	costSoFar := map[*core.Tile]int{start: 0}
	seq := 0
	frontier := heap.New[scoredItem](func(a, b scoredItem) bool {
		if a.score != b.score {
			return a.score < b.score
		}
		return a.seq < b.seq
	})
	frontier.Push(scoredItem{tile: start})

	for frontier.Size() > 0 {
		item, _ := frontier.Pop()
		current := item.tile
		if current == goal {
			break
		}
		for _, d := range core.AllDirections {
			next, ok := e.graph.Passable(current, d)
			if !ok || !o.allows(next) {
				continue
			}
			newCost := costSoFar[current] + stepCost(cost, next)
			if known, seen := costSoFar[next]; seen && newCost >= known {
				continue
			}
			costSoFar[next] = newCost
			pred[next] = current
			seq++
			frontier.Push(scoredItem{
				tile:  next,
				score: float64(newCost) + next.Location().EuclideanTo(target),
				seq:   seq,
			})
		}
	}

	path := Reconstruct(pred, start, goal)
	e.logger.Debug().
		Stringer("from", start.Location()).
		Stringer("to", target).
		Int("length", len(path)).
		Msg("Single target path")
	return path
}
