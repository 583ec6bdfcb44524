package core

import "sort"

const noNeighbour = -1

// Tile is one occupied grid cell. Its masks and action index are derived
// from the occupant list and are rebuilt whenever that list changes.
type Tile struct {
	location   Coordinate
	index      int
	neighbours [4]int

	directions Mask
	vision     Mask

	occupants []*Piece
	visitors  []*Piece
	actions   map[ActionKind][]*Piece
}

func newTile(c Coordinate, index int) *Tile {
	t := &Tile{
		location:   c,
		index:      index,
		neighbours: [4]int{noNeighbour, noNeighbour, noNeighbour, noNeighbour},
		actions:    make(map[ActionKind][]*Piece),
	}
	t.recompute()
	return t
}

func (t *Tile) Location() Coordinate { return t.location }
func (t *Tile) Index() int           { return t.index }
func (t *Tile) Directions() Mask     { return t.directions }
func (t *Tile) Vision() Mask         { return t.vision }

// Occupants returns the pieces that shape this tile. The slice must not be modified.
func (t *Tile) Occupants() []*Piece { return t.occupants }

// Visitors returns transient pieces (actors) standing on the tile.
func (t *Tile) Visitors() []*Piece { return t.visitors }

// Actions returns the pieces exposing the given action
func (t *Tile) Actions(kind ActionKind) []*Piece {
	return t.actions[kind]
}

func (t *Tile) HasAction(kind ActionKind) bool {
	return len(t.actions[kind]) > 0
}

// ActionKinds lists every action offered on the tile in kind order
func (t *Tile) ActionKinds() []ActionKind {
	kinds := make([]ActionKind, 0, len(t.actions))
	for k := range t.actions {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// HasNeighbour reports whether a tile exists across edge d
func (t *Tile) HasNeighbour(d Direction) bool {
	return d.Valid() && t.neighbours[d] != noNeighbour
}

func (t *Tile) String() string {
	return t.location.String()
}

func (t *Tile) addOccupant(p *Piece) {
	t.occupants = append(t.occupants, p)
	t.recompute()
}

func (t *Tile) removeOccupant(p *Piece) bool {
	var ok bool
	t.occupants, ok = without(t.occupants, p)
	if ok {
		t.recompute()
	}
	return ok
}

func (t *Tile) addVisitor(p *Piece) {
	t.visitors = append(t.visitors, p)
	t.reindex()
}

func (t *Tile) removeVisitor(p *Piece) bool {
	var ok bool
	t.visitors, ok = without(t.visitors, p)
	if ok {
		t.reindex()
	}
	return ok
}

// recompute rebuilds both masks from scratch. Removing one of several
// blockers must not reopen an edge another occupant still closes.
func (t *Tile) recompute() {
	t.directions = AllOpen
	t.vision = AllOpen
	for _, p := range t.occupants {
		t.directions = t.directions.And(p.Direction)
		t.vision = t.vision.And(p.Vision)
	}
	t.reindex()
}

func (t *Tile) reindex() {
	clear(t.actions)
	for _, group := range [][]*Piece{t.occupants, t.visitors} {
		for _, p := range group {
			for _, k := range p.Actions {
				t.actions[k] = append(t.actions[k], p)
			}
		}
	}
}

func without(pieces []*Piece, p *Piece) ([]*Piece, bool) {
	for i, q := range pieces {
		if q == p {
			return append(pieces[:i:i], pieces[i+1:]...), true
		}
	}
	return pieces, false
}
