package turn

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/game/events"
	"github.com/DragonMoffon/Temporum/internal/game/pathfinding"
)

// Dialogue is the conversation collaborator opened by interact actions
type Dialogue interface {
	Open(key string) error
	IsDone() bool
}

// MapTransition is called when an actor leaves through a gate
type MapTransition interface {
	Transition(a *Actor, gate core.Gate) error
}

// Settings are the tunables actions read
type Settings struct {
	StepInterval  float64
	ShotFrames    int
	ShootBase     int
	InteractCost  int
	NearRadius    int
	FallbackRings int
	VisionPenalty int
}

func DefaultSettings() Settings {
	return Settings{
		StepInterval:  0.125,
		ShotFrames:    8,
		ShootBase:     5,
		InteractCost:  2,
		NearRadius:    2,
		FallbackRings: pathfinding.DefaultFallbackRings,
		VisionPenalty: 4,
	}
}

// Env is the slice of the world actions and the scheduler work against.
// Fields may be swapped when the world loads a new map.
type Env struct {
	WorldID   string
	Graph     *core.Graph
	Paths     *pathfinding.Engine
	Vision    pathfinding.VisibilityReader
	Dialogue  Dialogue
	Transit   MapTransition
	Publisher events.Publisher
	Rand      *rand.Rand
	Settings  Settings
	Logger    zerolog.Logger

	// Tracked is the actor hostile cost functions steer around
	Tracked *Actor
	// OnMoved runs after every step an actor takes
	OnMoved func(a *Actor)
}

func (e *Env) publish(ev events.Event) {
	if e.Publisher != nil {
		e.Publisher.Publish(ev)
	}
}

// CostFor returns the cost function matching the actor's cost kind
func (e *Env) CostFor(a *Actor) pathfinding.CostFunc {
	if a.Cost == pathfinding.CostTargetPlayer && e.Tracked != nil && e.Tracked != a {
		return pathfinding.TargetPlayer(e.Tracked.Position, e.Vision, e.Settings.VisionPenalty)
	}
	return pathfinding.Uniform()
}

// Reach computes what the actor can reach with its remaining initiative
func (e *Env) Reach(a *Actor) *pathfinding.Result {
	return e.Paths.Compute(e.Graph.Tile(a.Position), a.Turn.Current, e.CostFor(a))
}

// MoveActor steps the actor onto an adjacent tile
func (e *Env) MoveActor(a *Actor, to *core.Tile) {
	from := a.Position
	if a.Piece != nil {
		_ = e.Graph.MoveVisitor(from, to.Location(), a.Piece)
	}
	a.Position = to.Location()
	e.publish(events.NewActorMovedEvent(e.WorldID, a.ID, from, a.Position))
	if e.OnMoved != nil {
		e.OnMoved(a)
	}
}
