package turn

import (
	"github.com/google/uuid"

	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/game/pathfinding"
)

// ActorPhase is where an actor's own action lifecycle stands
type ActorPhase int

const (
	Idle ActorPhase = iota
	ActionPending
	ActionCommitted
)

func (p ActorPhase) String() string {
	switch p {
	case ActionPending:
		return "ActionPending"
	case ActionCommitted:
		return "ActionCommitted"
	default:
		return "Idle"
	}
}

// TurnState is the initiative budget and action slots of one actor.
type TurnState struct {
	Base    int
	Current int
	Next    int

	Pending   Action
	Tentative int
	Running   Action
}

func NewTurnState(base int) *TurnState {
	return &TurnState{Base: base, Current: base, Next: base, Tentative: base}
}

func (s *TurnState) Phase() ActorPhase {
	switch {
	case s.Running != nil:
		return ActionCommitted
	case s.Pending != nil:
		return ActionPending
	default:
		return Idle
	}
}

// reset carries the banked budget into the next turn
func (s *TurnState) reset() {
	s.Current = s.Next
	s.Next = s.Base
	s.Pending = nil
	s.Running = nil
	s.Tentative = s.Current
}

// Controller decides for actors that are not driven by input. Decide is
// called on every tick while the actor is current and has nothing running.
type Controller interface {
	Decide(s *Scheduler, a *Actor)
}

// Actor is anything that takes turns.
type Actor struct {
	ID       string
	Name     string
	Position core.Coordinate
	Player   bool

	// Piece stands on the actor's tile as a visitor
	Piece *core.Piece
	Cost  pathfinding.CostKind
	Turn  *TurnState
	Reach *pathfinding.Result

	Controller Controller
	OnHit      func(shooter *Actor)
}

// NewActor creates an actor whose visitor piece exposes Shoot
func NewActor(name string, at core.Coordinate, base int) *Actor {
	return &Actor{
		ID:       uuid.NewString(),
		Name:     name,
		Position: at,
		Piece:    core.NewPiece(name, core.AllOpen, core.AllOpen, core.Shoot),
		Turn:     NewTurnState(base),
	}
}

// Hit notifies the actor it was shot
func (a *Actor) Hit(shooter *Actor) {
	if a.OnHit != nil {
		a.OnHit(shooter)
	}
}

func (a *Actor) String() string {
	if a == nil {
		return "<nil>"
	}
	return a.Name
}
