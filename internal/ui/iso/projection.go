// Package iso maps grid coordinates to screen positions on a 2:1
// isometric diamond grid. Screen y grows downwards.
package iso

import (
	"math"
	"sort"

	"github.com/DragonMoffon/Temporum/internal/game/core"
)

const (
	TileWidth  = 160
	TileHeight = 80
	TileScale  = 0.6
)

// Projection places tile centres on screen. Origin is where the centre of
// tile (0, 0) lands.
type Projection struct {
	HalfWidth  float64
	HalfHeight float64
	OriginX    float64
	OriginY    float64
}

// NewProjection builds a projection for tiles of the given pixel size
func NewProjection(tileWidth, tileHeight int, scale float64) Projection {
	return Projection{
		HalfWidth:  float64(tileWidth) * scale / 2,
		HalfHeight: float64(tileHeight) * scale / 2,
	}
}

// Default is the stock 160x80 tile at 0.6 scale
func Default() Projection {
	return NewProjection(TileWidth, TileHeight, TileScale)
}

// ToIso returns the screen position of the centre of c
func (p Projection) ToIso(c core.Coordinate) (x, y float64) {
	return p.ToIsoF(float64(c.X), float64(c.Y))
}

// ToIsoF projects fractional grid positions, used while actors walk
func (p Projection) ToIsoF(gx, gy float64) (x, y float64) {
	x = p.OriginX + (gx-gy)*p.HalfWidth
	y = p.OriginY + (gx+gy)*p.HalfHeight
	return x, y
}

// FromIso returns the coordinate whose diamond contains the screen point
func (p Projection) FromIso(x, y float64) core.Coordinate {
	u := (x - p.OriginX) / p.HalfWidth
	v := (y - p.OriginY) / p.HalfHeight
	gx := (v + u) / 2
	gy := (v - u) / 2
	return core.Coordinate{
		X: int(math.Floor(gx + 0.5)),
		Y: int(math.Floor(gy + 0.5)),
	}
}

// Diamond returns the top, right, bottom and left corners of the tile at c
func (p Projection) Diamond(c core.Coordinate) [4][2]float64 {
	cx, cy := p.ToIso(c)
	return [4][2]float64{
		{cx, cy - p.HalfHeight},
		{cx + p.HalfWidth, cy},
		{cx, cy + p.HalfHeight},
		{cx - p.HalfWidth, cy},
	}
}

// Centre moves the origin so a width x height map sits in the middle of a
// screen of the given size
func (p *Projection) Centre(width, height, screenWidth, screenHeight int) {
	p.OriginX, p.OriginY = 0, 0
	mx, my := p.ToIsoF(float64(width-1)/2, float64(height-1)/2)
	p.OriginX = float64(screenWidth)/2 - mx
	p.OriginY = float64(screenHeight)/2 - my
}

// Bounds is the screen rectangle covered by a width x height map
func (p Projection) Bounds(width, height int) (minX, minY, maxX, maxY float64) {
	left, _ := p.ToIso(core.Coordinate{X: 0, Y: height - 1})
	right, _ := p.ToIso(core.Coordinate{X: width - 1, Y: 0})
	_, top := p.ToIso(core.Coordinate{X: 0, Y: 0})
	_, bottom := p.ToIso(core.Coordinate{X: width - 1, Y: height - 1})
	return left - p.HalfWidth, top - p.HalfHeight, right + p.HalfWidth, bottom + p.HalfHeight
}

// Depth is the draw order key; lower values are further back
func Depth(c core.Coordinate) int { return c.X + c.Y }

// SortByDepth orders coordinates back to front, left to right within a row
func SortByDepth(cs []core.Coordinate) {
	sort.SliceStable(cs, func(i, j int) bool {
		di, dj := Depth(cs[i]), Depth(cs[j])
		if di != dj {
			return di < dj
		}
		return cs[i].X < cs[j].X
	})
}
