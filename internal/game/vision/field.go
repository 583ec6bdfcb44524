package vision

import (
	"image"
	"image/color"
	"math"

	"github.com/DragonMoffon/Temporum/internal/game/core"
)

const (
	// Opaque and Clear are the two visibility bytes a field stores
	Opaque uint8 = 0
	Clear  uint8 = 255

	// distance bytes hold eighths of a tile
	distanceQuantum = 8
)

// Field is one rasterized line-of-sight snapshot the size of the grid.
// It is read-only once published.
type Field struct {
	Width, Height int
	Origin        core.Coordinate
	Frame         uint64

	visibility []uint8
	distance   []uint8
}

func newField(width, height int, origin core.Coordinate, frame uint64) *Field {
	return &Field{
		Width:      width,
		Height:     height,
		Origin:     origin,
		Frame:      frame,
		visibility: make([]uint8, width*height),
		distance:   make([]uint8, width*height),
	}
}

func (f *Field) index(c core.Coordinate) (int, bool) {
	if f == nil || !c.IsValid(f.Width, f.Height) {
		return 0, false
	}
	return c.ToIndex(f.Width), true
}

// IsVisible reports whether c was in sight when the field was built
func (f *Field) IsVisible(c core.Coordinate) bool {
	idx, ok := f.index(c)
	return ok && f.visibility[idx] == Clear
}

// Distance returns the straight-line distance from the origin in tiles, or
// +Inf for cells out of sight.
func (f *Field) Distance(c core.Coordinate) float64 {
	idx, ok := f.index(c)
	if !ok || f.visibility[idx] != Clear {
		return math.Inf(1)
	}
	return float64(f.distance[idx]) / distanceQuantum
}

// VisibleCount is the number of cells in sight
func (f *Field) VisibleCount() int {
	if f == nil {
		return 0
	}
	n := 0
	for _, v := range f.visibility {
		if v == Clear {
			n++
		}
	}
	return n
}

// Image packs the field into a texture: red holds visibility and green the
// quantized distance.
func (f *Field) Image() *image.NRGBA {
	if f == nil {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i := range f.visibility {
		c := core.FromIndex(i, f.Width)
		img.SetNRGBA(c.X, c.Y, color.NRGBA{R: f.visibility[i], G: f.distance[i], A: 255})
	}
	return img
}

func (f *Field) mark(c core.Coordinate) {
	idx, ok := f.index(c)
	if !ok {
		return
	}
	f.visibility[idx] = Clear
	d := math.Round(c.EuclideanTo(f.Origin) * distanceQuantum)
	if d > 255 {
		d = 255
	}
	f.distance[idx] = uint8(d)
}

// rayMarch fills the field from origin out to radius. A cell is visible
// when the 4-connected grid line from the origin crosses only edges that
// both neighbouring tiles leave open in their vision masks. The last
// crossing only needs the near side open, so a blocker is seen but not
// seen through.
func rayMarch(g *core.Graph, f *Field, radius int) {
	origin := g.Tile(f.Origin)
	if origin == nil {
		return
	}
	f.mark(f.Origin)
	limit := float64(radius)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			target := f.Origin.Add(core.Coordinate{X: dx, Y: dy})
			if g.Tile(target) == nil || target.EuclideanTo(f.Origin) > limit {
				continue
			}
			if lineOfSight(g, origin, dx, dy) {
				f.mark(target)
			}
		}
	}
}

// lineOfSight walks the grid line one axis step at a time, choosing the
// axis whose next cell boundary the true line reaches first.
func lineOfSight(g *core.Graph, from *core.Tile, dx, dy int) bool {
	nx, ny := abs(dx), abs(dy)
	stepX, stepY := core.East, core.South
	if dx < 0 {
		stepX = core.West
	}
	if dy < 0 {
		stepY = core.North
	}

	current := from
	for ix, iy := 0, 0; ix < nx || iy < ny; {
		var d core.Direction
		if (1+2*ix)*ny < (1+2*iy)*nx {
			d = stepX
			ix++
		} else {
			d = stepY
			iy++
		}
		next := g.Neighbour(current, d)
		if next == nil || !current.Vision()[d] {
			return false
		}
		if !next.Vision()[d.Opposite()] {
			return ix == nx && iy == ny
		}
		current = next
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
