package core

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Graph is the arena that owns every tile of a map. Tiles live in a dense
// row-major slice and refer to their neighbours by arena index.
type Graph struct {
	width, height int
	tiles         []*Tile
	count         int
	version       uint64

	visionHooks []func(*Tile)
	logger      zerolog.Logger
}

// NewGraph creates an empty graph of the given size
func NewGraph(width, height int, logger zerolog.Logger) *Graph {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Graph{
		width:  width,
		height: height,
		tiles:  make([]*Tile, width*height),
		logger: logger.With().Str("component", "TileGraph").Logger(),
	}
}

func (g *Graph) Width() int  { return g.width }
func (g *Graph) Height() int { return g.height }

// Len returns the number of tiles present
func (g *Graph) Len() int { return g.count }

// Version increases every time any tile's masks change
func (g *Graph) Version() uint64 { return g.version }

func (g *Graph) InBounds(c Coordinate) bool {
	return c.IsValid(g.width, g.height)
}

// Tile returns the tile at c or nil
func (g *Graph) Tile(c Coordinate) *Tile {
	if !g.InBounds(c) {
		return nil
	}
	return g.tiles[c.ToIndex(g.width)]
}

func (g *Graph) TileAt(x, y int) *Tile {
	return g.Tile(Coordinate{X: x, Y: y})
}

// Place creates the tile at c if needed and puts the pieces on it
func (g *Graph) Place(c Coordinate, pieces ...*Piece) (*Tile, error) {
	if !g.InBounds(c) {
		return nil, WrapTileError(c, ErrInvalidCoordinates)
	}
	idx := c.ToIndex(g.width)
	t := g.tiles[idx]
	if t == nil {
		t = newTile(c, idx)
		g.tiles[idx] = t
		g.count++
	}
	for _, p := range pieces {
		g.addOccupant(t, p)
	}
	return t, nil
}

// FindNeighbours links every tile to the tiles around it. Each tile only
// looks back at its West and North cells and links both ways, which covers
// all four slots once the scan is complete.
func (g *Graph) FindNeighbours() {
	for _, t := range g.tiles {
		if t != nil {
			t.neighbours = [4]int{noNeighbour, noNeighbour, noNeighbour, noNeighbour}
		}
	}
	for _, t := range g.tiles {
		if t == nil {
			continue
		}
		for _, d := range [2]Direction{West, North} {
			other := g.Tile(t.location.Move(d))
			if other == nil {
				continue
			}
			t.neighbours[d] = other.index
			other.neighbours[d.Opposite()] = t.index
		}
	}
	g.logger.Debug().Int("tiles", g.count).Msg("Neighbours linked")
}

// Neighbour returns the tile across edge d, or nil
func (g *Graph) Neighbour(t *Tile, d Direction) *Tile {
	if t == nil || !d.Valid() {
		return nil
	}
	idx := t.neighbours[d]
	if idx == noNeighbour {
		return nil
	}
	return g.tiles[idx]
}

// Passable returns the neighbour across d when both sides allow the crossing
func (g *Graph) Passable(t *Tile, d Direction) (*Tile, bool) {
	n := g.Neighbour(t, d)
	if n == nil {
		return nil, false
	}
	return n, t.directions[d] && n.directions[d.Opposite()]
}

// Each calls fn for every tile in row-major order
func (g *Graph) Each(fn func(*Tile)) {
	for _, t := range g.tiles {
		if t != nil {
			fn(t)
		}
	}
}

// Tiles returns every tile in row-major order
func (g *Graph) Tiles() []*Tile {
	out := make([]*Tile, 0, g.count)
	g.Each(func(t *Tile) { out = append(out, t) })
	return out
}

// OnVisionChange registers fn to run after any tile's vision mask changes
func (g *Graph) OnVisionChange(fn func(*Tile)) {
	g.visionHooks = append(g.visionHooks, fn)
}

// AddPiece places an occupant on an existing tile
func (g *Graph) AddPiece(c Coordinate, p *Piece) error {
	t := g.Tile(c)
	if t == nil {
		return g.inconsistent(c, p, ErrTileNotFound)
	}
	g.addOccupant(t, p)
	return nil
}

// RemovePiece takes an occupant off a tile
func (g *Graph) RemovePiece(c Coordinate, p *Piece) error {
	t := g.Tile(c)
	if t == nil {
		return g.inconsistent(c, p, ErrTileNotFound)
	}
	before := t.directions
	vision := t.vision
	if !t.removeOccupant(p) {
		return g.inconsistent(c, p, ErrPieceNotFound)
	}
	g.afterChange(t, before, vision)
	return nil
}

// AddVisitor puts a transient piece on a tile. Visitors add actions but
// never change the tile's masks.
func (g *Graph) AddVisitor(c Coordinate, p *Piece) error {
	t := g.Tile(c)
	if t == nil {
		return g.inconsistent(c, p, ErrTileNotFound)
	}
	t.addVisitor(p)
	return nil
}

func (g *Graph) RemoveVisitor(c Coordinate, p *Piece) error {
	t := g.Tile(c)
	if t == nil {
		return g.inconsistent(c, p, ErrTileNotFound)
	}
	if !t.removeVisitor(p) {
		return g.inconsistent(c, p, ErrPieceNotFound)
	}
	return nil
}

// MoveVisitor moves a transient piece between tiles
func (g *Graph) MoveVisitor(from, to Coordinate, p *Piece) error {
	if g.Tile(to) == nil {
		return g.inconsistent(to, p, ErrTileNotFound)
	}
	if err := g.RemoveVisitor(from, p); err != nil {
		return err
	}
	return g.AddVisitor(to, p)
}

func (g *Graph) addOccupant(t *Tile, p *Piece) {
	before, vision := t.directions, t.vision
	t.addOccupant(p)
	g.afterChange(t, before, vision)
}

func (g *Graph) afterChange(t *Tile, directions, vision Mask) {
	if t.directions != directions || t.vision != vision {
		g.version++
	}
	if t.vision != vision {
		for _, fn := range g.visionHooks {
			fn(t)
		}
	}
}

// inconsistent reports occupant bookkeeping that points at a missing tile
// or piece. Such state only comes from a broken map loader.
func (g *Graph) inconsistent(c Coordinate, p *Piece, err error) error {
	err = WrapTileError(c, err)
	if debugAssertions {
		panic(fmt.Sprintf("tile graph: %v (piece %v)", err, p))
	}
	g.logger.Warn().Err(err).Stringer("piece", p).Msg("Inconsistent occupant state ignored")
	return err
}
