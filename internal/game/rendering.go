package game

import (
	"strings"

	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/game/turn"
)

// CellKind is what a map cell shows, before actors are drawn over it
type CellKind int

const (
	CellEmpty CellKind = iota
	CellFloor
	CellFence
	CellWall
	CellInteract
	CellGate
)

var cellRunes = map[CellKind]rune{
	CellEmpty:    ' ',
	CellFloor:    '.',
	CellFence:    '+',
	CellWall:     '#',
	CellInteract: '?',
	CellGate:     '>',
}

const (
	PlayerRune  = '@'
	BotRune     = 'B'
	ShockedRune = 'b'
	FogRune     = ':'
)

// Cell is one position of the map as the player sees it
type Cell struct {
	At        core.Coordinate
	Kind      CellKind
	Visible   bool
	Reachable bool
	Edge      bool
	// Actor is set only when the actor can be seen
	Actor *turn.Actor
}

// Rune is the plain text glyph for the cell
func (c Cell) Rune(w *World) rune {
	if c.Actor != nil {
		switch {
		case c.Actor.Player:
			return PlayerRune
		case w.botShocked(c.Actor):
			return ShockedRune
		default:
			return BotRune
		}
	}
	if c.Kind != CellEmpty && !c.Visible {
		return FogRune
	}
	return cellRunes[c.Kind]
}

func classify(t *core.Tile) CellKind {
	switch {
	case t == nil:
		return CellEmpty
	case t.HasAction(core.LeaveMap):
		return CellGate
	case t.HasAction(core.Interact):
		return CellInteract
	case t.Directions() == core.AllClosed:
		return CellWall
	case t.Directions() != core.AllOpen:
		return CellFence
	default:
		return CellFloor
	}
}

// Cells lays the map out row by row. With showAll set, fog is lifted.
func (w *World) Cells(showAll bool) [][]Cell {
	width, height := w.graph.Width(), w.graph.Height()
	reach := w.player.Reach
	if w.scheduler.Current() != w.player {
		reach = nil
	}

	rows := make([][]Cell, height)
	for y := 0; y < height; y++ {
		rows[y] = make([]Cell, width)
		for x := 0; x < width; x++ {
			c := core.Coordinate{X: x, Y: y}
			t := w.graph.Tile(c)
			cell := Cell{At: c, Kind: classify(t)}
			if t != nil {
				cell.Visible = showAll || w.Visible(c)
				if reach != nil {
					cell.Reachable = reach.Reachable(t)
					cell.Edge = reach.IsEdge(t)
				}
			}
			rows[y][x] = cell
		}
	}

	for _, a := range w.scheduler.Actors() {
		if !w.graph.InBounds(a.Position) {
			continue
		}
		cell := &rows[a.Position.Y][a.Position.X]
		if a.Player || cell.Visible {
			cell.Actor = a
		}
	}
	return rows
}

// Render draws the map as plain text
func (w *World) Render(showAll bool) string {
	cells := w.Cells(showAll)
	var sb strings.Builder
	if len(cells) > 0 {
		sb.Grow(len(cells) * (len(cells[0]) + 1))
	}
	for _, row := range cells {
		for _, c := range row {
			sb.WriteRune(c.Rune(w))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (w *World) botShocked(a *turn.Actor) bool {
	bot, ok := w.bots[a.ID]
	return ok && bot.Shocked()
}
