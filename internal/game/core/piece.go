package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Mask holds one flag per direction, indexed by Direction.
type Mask [4]bool

var (
	AllOpen   = Mask{true, true, true, true}
	AllClosed = Mask{}
)

// MaskOf builds a mask in N, E, S, W order
func MaskOf(n, e, s, w bool) Mask {
	return Mask{n, e, s, w}
}

// And returns the directions open in both masks
func (m Mask) And(other Mask) Mask {
	for d := range m {
		m[d] = m[d] && other[d]
	}
	return m
}

func (m Mask) Open(d Direction) bool {
	return d.Valid() && m[d]
}

// String renders the mask as four digits, e.g. "1110"
func (m Mask) String() string {
	var b strings.Builder
	for _, open := range m {
		if open {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ParseMask reads the four digit form written by String. An empty string
// is fully open.
func ParseMask(s string) (Mask, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AllOpen, nil
	}
	if len(s) != 4 {
		return Mask{}, fmt.Errorf("mask %q: want 4 digits", s)
	}
	var m Mask
	for i, ch := range s {
		switch ch {
		case '1':
			m[i] = true
		case '0':
		default:
			return Mask{}, fmt.Errorf("mask %q: unexpected %q", s, ch)
		}
	}
	return m, nil
}

// ActionKind identifies an action an occupant can expose or an actor can take.
type ActionKind int

const (
	None ActionKind = iota
	Move
	EnemyMove
	Hold
	Dash
	Interact
	Shoot
	LeaveMap
	End
)

var actionKindNames = map[ActionKind]string{
	None:      "none",
	Move:      "move",
	EnemyMove: "enemy_move",
	Hold:      "hold",
	Dash:      "dash",
	Interact:  "interact",
	Shoot:     "shoot",
	LeaveMap:  "leave",
	End:       "end",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// ParseActionKind maps a data file name back to its kind
func ParseActionKind(name string) (ActionKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range actionKindNames {
		if n == name {
			return k, nil
		}
	}
	return None, fmt.Errorf("%q: %w", name, ErrUnknownAction)
}

// Gate is the destination of a leave-map piece.
type Gate struct {
	Scenario string
	Spawn    Coordinate
}

// Piece is one object placed on a tile. Its masks veto movement and sight
// through the tile's edges, and its actions are offered to actors on the tile.
type Piece struct {
	ID          string
	Name        string
	Direction   Mask
	Vision      Mask
	Actions     []ActionKind
	Interaction string
	Gate        *Gate
}

// NewPiece creates a piece with a fresh id
func NewPiece(name string, direction, vision Mask, actions ...ActionKind) *Piece {
	return &Piece{
		ID:        uuid.NewString(),
		Name:      name,
		Direction: direction,
		Vision:    vision,
		Actions:   actions,
	}
}

// Floor is an open walkable piece
func Floor() *Piece {
	return NewPiece("floor", AllOpen, AllOpen, Move)
}

// Wall blocks movement and sight on every side
func Wall() *Piece {
	return NewPiece("wall", AllClosed, AllClosed)
}

// Exposes reports whether the piece offers the given action
func (p *Piece) Exposes(kind ActionKind) bool {
	for _, k := range p.Actions {
		if k == kind {
			return true
		}
	}
	return false
}

func (p *Piece) String() string {
	if p == nil {
		return "<nil>"
	}
	return p.Name
}
