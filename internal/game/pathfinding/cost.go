package pathfinding

import (
	"fmt"
	"math"
	"strings"

	"github.com/DragonMoffon/Temporum/internal/game/core"
)

// CostFunc prices stepping onto a tile. Values below 1 are treated as 1.
type CostFunc func(t *core.Tile) int

// VisibilityReader answers whether a coordinate is currently in view
type VisibilityReader interface {
	IsVisible(c core.Coordinate) bool
}

// Uniform charges one point per step
func Uniform() CostFunc {
	return func(*core.Tile) int { return 1 }
}

// TargetPlayer charges by straight-line distance to target, plus penalty
// for tiles the watcher can currently see.
func TargetPlayer(target core.Coordinate, vis VisibilityReader, penalty int) CostFunc {
	return func(t *core.Tile) int {
		cost := int(math.Round(t.Location().EuclideanTo(target)))
		if cost < 1 {
			cost = 1
		}
		if vis != nil && vis.IsVisible(t.Location()) {
			cost += penalty
		}
		return cost
	}
}

// CostKind names the cost variant an actor searches with
type CostKind int

const (
	CostBase CostKind = iota
	CostTargetPlayer
)

func (k CostKind) String() string {
	switch k {
	case CostBase:
		return "base"
	case CostTargetPlayer:
		return "target_player"
	default:
		return fmt.Sprintf("cost(%d)", int(k))
	}
}

// ParseCostKind maps a data file tag onto a cost variant
func ParseCostKind(name string) (CostKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "base":
		return CostBase, nil
	case "target_player":
		return CostTargetPlayer, nil
	default:
		return CostBase, fmt.Errorf("unknown cost function %q", name)
	}
}
