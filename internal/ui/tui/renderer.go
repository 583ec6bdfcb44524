package tui

import (
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/DragonMoffon/Temporum/internal/common"
	"github.com/DragonMoffon/Temporum/internal/game"
	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/game/rules"
	"github.com/DragonMoffon/Temporum/internal/ui/control"
)

// MapX and MapY place the map's top left cell on screen
const (
	MapX = 1
	MapY = 1
)

const panelGap = 3

// Renderer draws a controller's view of the world into a tcell screen
type Renderer struct {
	screen tcell.Screen
	styles map[game.CellKind]tcell.Style
	base   tcell.Style
	fog    tcell.Style
	reach  tcell.Color
	edge   tcell.Color
	player tcell.Style
	bot    tcell.Style
	dim    tcell.Style
}

func NewRenderer(screen tcell.Screen, p common.Palette) *Renderer {
	base := tcell.StyleDefault.Background(rgb(p.Background)).Foreground(tcell.ColorWhite)
	floor := base.Foreground(rgb(common.Shade(p.Floor, 1.6)))
	return &Renderer{
		screen: screen,
		styles: map[game.CellKind]tcell.Style{
			game.CellEmpty:    base,
			game.CellFloor:    floor,
			game.CellFence:    floor,
			game.CellWall:     base.Foreground(rgb(common.Shade(p.Wall, 2.5))),
			game.CellInteract: base.Foreground(rgb(p.Edge)).Bold(true),
			game.CellGate:     base.Foreground(rgb(p.Reachable)).Bold(true),
		},
		base:   base,
		fog:    base.Foreground(rgb(common.Shade(p.Floor, 0.6))),
		reach:  rgb(common.Shade(p.Reachable, 0.5)),
		edge:   rgb(common.Shade(p.Edge, 0.5)),
		player: base.Foreground(rgb(p.Player)).Bold(true),
		bot:    base.Foreground(rgb(p.Bot)).Bold(true),
		dim:    base.Foreground(tcell.ColorGray),
	}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// ScreenToTile converts a screen cell to a map coordinate
func ScreenToTile(x, y int) core.Coordinate {
	return core.Coordinate{X: x - MapX, Y: y - MapY}
}

// Draw renders one frame and shows it
func (r *Renderer) Draw(c *control.Controller) {
	r.screen.Fill(' ', r.base)

	w := c.World()
	cells := c.Cells()
	path := make(map[core.Coordinate]bool)
	for _, t := range c.Preview() {
		path[t.Location()] = true
	}

	width := 0
	for y, row := range cells {
		width = len(row)
		for x, cell := range row {
			r.screen.SetContent(MapX+x, MapY+y, r.glyph(w, cell, path[cell.At]), nil, r.style(cell, path[cell.At], cell.At == c.Cursor()))
		}
	}

	px := MapX + width + panelGap
	line := r.drawPanel(c, px, MapY)
	if m := c.Menu(); m != nil {
		line = r.drawMenu(c, m, px, line+1)
	}
	if s := c.Status(); s != "" {
		r.text(px, line+1, s, r.base)
	}
	if !w.Dialogue().IsDone() {
		r.drawDialogue(c, MapX, MapY+len(cells)+1)
	}
	r.screen.Show()
}

func (r *Renderer) glyph(w *game.World, cell game.Cell, onPath bool) rune {
	if onPath && cell.Actor == nil {
		return '*'
	}
	return cell.Rune(w)
}

func (r *Renderer) style(cell game.Cell, onPath, cursor bool) tcell.Style {
	st := r.styles[cell.Kind]
	switch {
	case cell.Actor != nil && cell.Actor.Player:
		st = r.player
	case cell.Actor != nil:
		st = r.bot
	case cell.Kind != game.CellEmpty && !cell.Visible:
		st = r.fog
	}
	switch {
	case cell.Edge:
		st = st.Background(r.edge)
	case cell.Reachable || onPath:
		st = st.Background(r.reach)
	}
	if cursor {
		st = st.Reverse(true)
	}
	return st
}

func (r *Renderer) drawPanel(c *control.Controller, x, y int) int {
	w := c.World()
	r.text(x, y, w.Scenario().Name, r.base.Bold(true))
	y++
	r.text(x, y, common.Tr("ROUND", w.Scheduler().Round()), r.base)
	y++
	if p := w.Player(); p != nil {
		r.text(x, y, common.Tr("INITIATIVE", p.Turn.Tentative, p.Turn.Next), r.base)
		y++
	}
	if cur := w.Scheduler().Current(); cur != nil && cur != w.Player() {
		r.text(x, y, common.Tr("WAITING_FOR", cur.Name), r.dim)
		y++
	}
	return y
}

func (r *Renderer) drawMenu(c *control.Controller, m *rules.Menu, x, y int) int {
	r.text(x, y, fmt.Sprintf("%s %d/%d", m.At, m.Page()+1, m.Pages()), r.dim)
	y++
	pending, hasPending := c.Pending()
	first, second := m.Pair()
	for slot, e := range []rules.Entry{first, second} {
		if !e.Blank() {
			st := r.base
			switch {
			case hasPending && pending.Action == e.Action:
				st = st.Reverse(true)
			case !e.Enabled:
				st = r.dim
			}
			r.text(x, y, fmt.Sprintf("%d. %s", slot+1, common.Tr("ACTION_COST", e.Label, e.Action.Cost())), st)
		}
		y++
	}
	return y
}

func (r *Renderer) drawDialogue(c *control.Controller, x, y int) {
	d := c.World().Dialogue()
	if speaker, page, ok := d.Page(); ok {
		r.text(x, y, speaker+":", r.player)
		r.text(x, y+1, page, r.base)
		r.text(x, y+3, common.Tr("DIALOGUE_CONTINUE")+"  "+common.Tr("DIALOGUE_CLOSE"), r.dim)
		return
	}
	for i, choice := range d.Choices() {
		r.text(x, y+i, fmt.Sprintf("%d. %s", i+1, common.Tr(choice)), r.base)
	}
}

func (r *Renderer) text(x, y int, s string, st tcell.Style) {
	for i, ch := range []rune(s) {
		r.screen.SetContent(x+i, y, ch, nil, st)
	}
}
