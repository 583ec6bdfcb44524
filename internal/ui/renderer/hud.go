package renderer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/DragonMoffon/Temporum/internal/common"
	"github.com/DragonMoffon/Temporum/internal/game/rules"
	"github.com/DragonMoffon/Temporum/internal/ui/control"
)

var (
	PanelColor    = color.RGBA{20, 20, 30, 220}
	BorderColor   = color.RGBA{90, 90, 120, 255}
	TextColor     = color.RGBA{230, 230, 230, 255}
	DisabledColor = color.RGBA{120, 120, 120, 255}
	PendingColor  = color.RGBA{255, 255, 100, 255}
)

const (
	lineHeight = 16
	padding    = 8
	menuWidth  = 180
)

// HUDRenderer draws the text panels over the board: turn info, the action
// menu, the status line and the dialogue box
type HUDRenderer struct {
	defaultFont font.Face
	width       int
	height      int
}

func NewHUDRenderer(f font.Face, width, height int) *HUDRenderer {
	return &HUDRenderer{defaultFont: f, width: width, height: height}
}

// Resize updates the screen size the panels are laid out against
func (h *HUDRenderer) Resize(width, height int) {
	h.width, h.height = width, height
}

func (h *HUDRenderer) Draw(screen *ebiten.Image, c *control.Controller) {
	h.drawTurn(screen, c)
	if m := c.Menu(); m != nil {
		h.drawMenu(screen, c, m)
	}
	if s := c.Status(); s != "" {
		b := text.BoundString(h.defaultFont, s)
		text.Draw(screen, s, h.defaultFont, (h.width-b.Dx())/2, h.height-padding, TextColor)
	}
	if d := c.World().Dialogue(); !d.IsDone() {
		h.drawDialogue(screen, c)
	}
}

func (h *HUDRenderer) drawTurn(screen *ebiten.Image, c *control.Controller) {
	w := c.World()
	lines := []string{
		w.Scenario().Name,
		common.Tr("ROUND", w.Scheduler().Round()),
	}
	if p := w.Player(); p != nil {
		lines = append(lines, common.Tr("INITIATIVE", p.Turn.Tentative, p.Turn.Next))
	}
	if cur := w.Scheduler().Current(); cur != nil && cur != w.Player() {
		lines = append(lines, common.Tr("WAITING_FOR", cur.Name))
	}
	for i, l := range lines {
		text.Draw(screen, l, h.defaultFont, padding, padding+lineHeight*(i+1), TextColor)
	}
}

func (h *HUDRenderer) drawMenu(screen *ebiten.Image, c *control.Controller, m *rules.Menu) {
	x := float32(h.width - menuWidth - padding)
	y := float32(padding)
	height := float32(lineHeight*3 + padding)
	h.panel(screen, x, y, menuWidth, height)

	title := m.At.String()
	if m.Len() > 2 {
		title = fmt.Sprintf("%s  %d/%d", title, m.Page()+1, m.Pages())
	}
	text.Draw(screen, title, h.defaultFont, int(x)+padding, int(y)+lineHeight, DisabledColor)

	pending, hasPending := c.Pending()
	first, second := m.Pair()
	for slot, e := range []rules.Entry{first, second} {
		if e.Blank() {
			continue
		}
		clr := TextColor
		switch {
		case hasPending && pending.Action == e.Action:
			clr = PendingColor
		case !e.Enabled:
			clr = DisabledColor
		}
		label := fmt.Sprintf("%d. %s", slot+1, common.Tr("ACTION_COST", e.Label, e.Action.Cost()))
		text.Draw(screen, label, h.defaultFont, int(x)+padding, int(y)+lineHeight*(slot+2), clr)
	}
}

func (h *HUDRenderer) drawDialogue(screen *ebiten.Image, c *control.Controller) {
	d := c.World().Dialogue()
	boxH := float32(lineHeight*6 + padding*2)
	x, y := float32(padding), float32(h.height)-boxH-lineHeight-padding
	boxW := float32(h.width - padding*2)
	h.panel(screen, x, y, boxW, boxH)

	tx, ty := int(x)+padding, int(y)+padding+lineHeight
	if speaker, page, ok := d.Page(); ok {
		text.Draw(screen, speaker, h.defaultFont, tx, ty, PendingColor)
		text.Draw(screen, page, h.defaultFont, tx, ty+lineHeight, TextColor)
		text.Draw(screen, common.Tr("DIALOGUE_CONTINUE"), h.defaultFont, tx, ty+lineHeight*4, DisabledColor)
	}
	for i, choice := range d.Choices() {
		label := fmt.Sprintf("%d. %s", i+1, common.Tr(choice))
		text.Draw(screen, label, h.defaultFont, tx, ty+lineHeight*(i+1), TextColor)
	}
	hint := common.Tr("DIALOGUE_CLOSE")
	b := text.BoundString(h.defaultFont, hint)
	text.Draw(screen, hint, h.defaultFont, int(x+boxW)-b.Dx()-padding, ty+lineHeight*4, DisabledColor)
}

func (h *HUDRenderer) panel(screen *ebiten.Image, x, y, w, hgt float32) {
	vector.DrawFilledRect(screen, x, y, w, hgt, PanelColor, false)
	vector.StrokeRect(screen, x, y, w, hgt, 1, BorderColor, false)
}
