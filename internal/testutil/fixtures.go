package testutil

import (
	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/game/core"
)

// OpenGrid creates a fully walkable width x height graph
func OpenGrid(width, height int) *core.Graph {
	rows := make([]string, height)
	for y := range rows {
		row := make([]byte, width)
		for x := range row {
			row[x] = '.'
		}
		rows[y] = string(row)
	}
	return GraphFromRows(rows...)
}

// Corridor creates a single row of length walkable tiles
func Corridor(length int) *core.Graph {
	return OpenGrid(length, 1)
}

// GraphFromRows builds a graph from ascii rows:
//
//	.  floor
//	#  wall on floor
//	T  floor with an interactable terminal ("terminal" dialogue)
//	>  floor with a gate to scenario "next" spawning at (0,0)
//	space  no tile
func GraphFromRows(rows ...string) *core.Graph {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	g := core.NewGraph(width, len(rows), zerolog.Nop())
	for y, row := range rows {
		for x, ch := range row {
			c := core.Coordinate{X: x, Y: y}
			switch ch {
			case '.':
				_, _ = g.Place(c, core.Floor())
			case '#':
				_, _ = g.Place(c, core.Floor(), core.Wall())
			case 'T':
				terminal := core.NewPiece("terminal", core.AllOpen, core.AllOpen, core.Interact)
				terminal.Interaction = "terminal"
				_, _ = g.Place(c, core.Floor(), terminal)
			case '>':
				gate := core.NewPiece("gate", core.AllOpen, core.AllOpen, core.LeaveMap)
				gate.Gate = &core.Gate{Scenario: "next"}
				_, _ = g.Place(c, core.Floor(), gate)
			}
		}
	}
	g.FindNeighbours()
	return g
}

// VisibleSet answers visibility queries from a fixed set of coordinates
type VisibleSet map[core.Coordinate]bool

func (v VisibleSet) IsVisible(c core.Coordinate) bool {
	return v[c]
}
