package renderer

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/DragonMoffon/Temporum/internal/common"
	"github.com/DragonMoffon/Temporum/internal/game"
	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/ui/control"
	"github.com/DragonMoffon/Temporum/internal/ui/iso"
)

var (
	CursorColor = color.RGBA{255, 255, 255, 200}
	PathColor   = color.RGBA{255, 255, 255, 160}
	LabelColor  = color.RGBA{230, 230, 230, 255}
)

// wallLift is how far walls rise above the floor, in tile half heights
const wallLift = 1.2

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// BoardRenderer draws the map as isometric diamonds
type BoardRenderer struct {
	proj        *iso.Projection
	palette     common.Palette
	defaultFont font.Face
	coords      bool
}

func NewBoardRenderer(proj *iso.Projection, palette common.Palette, f font.Face) *BoardRenderer {
	return &BoardRenderer{proj: proj, palette: palette, defaultFont: f}
}

// ShowCoordinates labels every tile with its grid position
func (br *BoardRenderer) ShowCoordinates(on bool) { br.coords = on }

// Draw renders the controller's view of the world
func (br *BoardRenderer) Draw(screen *ebiten.Image, c *control.Controller) {
	cells := c.Cells()
	if len(cells) == 0 {
		return
	}

	order := make([]core.Coordinate, 0, len(cells)*len(cells[0]))
	for y := range cells {
		for x := range cells[y] {
			if cells[y][x].Kind != game.CellEmpty {
				order = append(order, core.Coordinate{X: x, Y: y})
			}
		}
	}
	iso.SortByDepth(order)

	for _, at := range order {
		br.drawCell(screen, cells[at.Y][at.X])
	}

	for _, t := range c.Preview() {
		x, y := br.proj.ToIso(t.Location())
		vector.DrawFilledCircle(screen, float32(x), float32(y), 3, PathColor, true)
	}
	br.strokeDiamond(screen, c.Cursor(), 0, CursorColor)

	w := c.World()
	for _, at := range order {
		cell := cells[at.Y][at.X]
		if cell.Actor != nil {
			br.drawActor(screen, cell, cell.Rune(w))
		}
	}
}

func (br *BoardRenderer) drawCell(screen *ebiten.Image, cell game.Cell) {
	lift := 0.0
	base := br.palette.Floor
	switch cell.Kind {
	case game.CellWall:
		base, lift = br.palette.Wall, wallLift
	case game.CellFence:
		base = common.Shade(br.palette.Floor, 0.8)
	case game.CellInteract:
		base = common.Shade(br.palette.Floor, 1.3)
	case game.CellGate:
		base = common.Shade(br.palette.Edge, 0.7)
		base.A = 255
	}

	if lift > 0 {
		// side faces first, then the raised top
		br.fillDiamond(screen, cell.At, 0, common.Shade(base, 0.6))
	}
	br.fillDiamond(screen, cell.At, lift, base)

	if !cell.Visible {
		br.fillDiamond(screen, cell.At, lift, br.palette.Fog)
		return
	}
	if cell.Reachable {
		br.fillDiamond(screen, cell.At, 0, br.palette.Reachable)
	}
	if cell.Edge {
		br.strokeDiamond(screen, cell.At, 0, br.palette.Edge)
	}
	if br.coords && br.defaultFont != nil {
		x, y := br.proj.ToIso(cell.At)
		label := cell.At.String()
		b := text.BoundString(br.defaultFont, label)
		text.Draw(screen, label, br.defaultFont, int(x)-b.Dx()/2, int(y)+b.Dy()/2, LabelColor)
	}
}

func (br *BoardRenderer) drawActor(screen *ebiten.Image, cell game.Cell, glyph rune) {
	x, y := br.proj.ToIso(cell.At)
	r := float32(br.proj.HalfHeight * 0.6)
	top := float32(y) - r

	clr := br.palette.Bot
	switch glyph {
	case game.PlayerRune:
		clr = br.palette.Player
	case game.ShockedRune:
		clr = common.Shade(br.palette.Bot, 0.5)
	}
	vector.DrawFilledCircle(screen, float32(x), float32(y), r*0.5, common.Shade(clr, 0.4), true)
	vector.DrawFilledCircle(screen, float32(x), top, r, clr, true)

	if br.defaultFont != nil {
		label := string(glyph)
		b := text.BoundString(br.defaultFont, label)
		text.Draw(screen, label, br.defaultFont, int(x)-b.Dx()/2, int(top)+b.Dy()/2, color.White)
	}
}

func (br *BoardRenderer) diamondPath(at core.Coordinate, lift float64) *vector.Path {
	d := br.proj.Diamond(at)
	dy := float32(lift * br.proj.HalfHeight)
	var path vector.Path
	path.MoveTo(float32(d[0][0]), float32(d[0][1])-dy)
	for _, p := range d[1:] {
		path.LineTo(float32(p[0]), float32(p[1])-dy)
	}
	path.Close()
	return &path
}

func (br *BoardRenderer) fillDiamond(screen *ebiten.Image, at core.Coordinate, lift float64, clr color.RGBA) {
	vs, is := br.diamondPath(at, lift).AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = r, g, b, a
	}
	screen.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (br *BoardRenderer) strokeDiamond(screen *ebiten.Image, at core.Coordinate, lift float64, clr color.Color) {
	d := br.proj.Diamond(at)
	dy := lift * br.proj.HalfHeight
	for i := range d {
		a, b := d[i], d[(i+1)%len(d)]
		vector.StrokeLine(screen, float32(a[0]), float32(a[1]-dy), float32(b[0]), float32(b[1]-dy), 2, clr, true)
	}
}
