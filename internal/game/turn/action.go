package turn

import (
	"fmt"

	"github.com/DragonMoffon/Temporum/internal/game/core"
)

// Action is one of the closed set of things an actor can do with its
// initiative. Cost is fixed when the action is built; the scheduler pays it
// before Begin runs.
type Action interface {
	Kind() core.ActionKind
	Cost() int
	// CanComplete reports whether the action's own preconditions hold now
	CanComplete() bool
	Begin()
	// Tick advances the action and reports whether it has finished
	Tick(dt float64) bool
	Final()

	sealed()
}

// MoveProgress is the walking state of move and enemy-move actions
type MoveProgress struct {
	Remaining []*core.Tile
	Elapsed   float64
}

// Done reports whether every step has been taken
func (p MoveProgress) Done() bool { return len(p.Remaining) == 0 }

// ShotProgress is the projectile animation state of a shot
type ShotProgress struct {
	Frame   int
	Frames  int
	Elapsed float64
}

func (p ShotProgress) Done() bool { return p.Frame >= p.Frames }

// Target names what a new action is aimed at. Only the fields the kind
// needs are read.
type Target struct {
	Tile  *core.Tile
	Piece *core.Piece
	Actor *Actor
}

// NewAction builds the action of the given kind for actor
func NewAction(env *Env, actor *Actor, kind core.ActionKind, target Target) (Action, error) {
	switch kind {
	case core.Move:
		if target.Tile == nil {
			return nil, core.WrapActionError(actor.Name, kind, fmt.Errorf("no destination tile"))
		}
		return NewMove(env, actor, target.Tile), nil
	case core.EnemyMove:
		return NewEnemyMove(env, actor, target.Actor), nil
	case core.Hold:
		return NewHold(env, actor), nil
	case core.Dash:
		return NewDash(env, actor), nil
	case core.End:
		return NewEnd(env, actor), nil
	case core.Interact:
		if target.Tile == nil {
			return nil, core.WrapActionError(actor.Name, kind, fmt.Errorf("no target tile"))
		}
		piece := target.Piece
		if piece == nil {
			if pieces := target.Tile.Actions(core.Interact); len(pieces) > 0 {
				piece = pieces[0]
			}
		}
		return NewInteract(env, actor, target.Tile.Location(), piece), nil
	case core.Shoot:
		return NewShoot(env, actor, target.Actor), nil
	case core.LeaveMap:
		if target.Tile == nil {
			return nil, core.WrapActionError(actor.Name, kind, fmt.Errorf("no gate tile"))
		}
		piece := target.Piece
		if piece == nil {
			if pieces := target.Tile.Actions(core.LeaveMap); len(pieces) > 0 {
				piece = pieces[0]
			}
		}
		return NewLeaveMap(env, actor, target.Tile.Location(), piece), nil
	default:
		return nil, core.WrapActionError(actor.Name, kind, core.ErrUnknownAction)
	}
}

// floor10 rounds a distance down to a whole multiple of ten tiles
func floor10(distance float64) int {
	return int(distance) / 10 * 10
}
