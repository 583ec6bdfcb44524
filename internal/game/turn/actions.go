package turn

import (
	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/game/events"
	"github.com/DragonMoffon/Temporum/internal/game/pathfinding"
)

// walker is the shared stepping logic of the two move kinds
type walker struct {
	env      *Env
	actor    *Actor
	path     []*core.Tile
	Progress MoveProgress
}

func (w *walker) Path() []*core.Tile { return w.path }

func (w *walker) begin() {
	w.Progress = MoveProgress{Remaining: append([]*core.Tile(nil), w.path...)}
}

// tick takes at most one step per call, once a full step interval has built up
func (w *walker) tick(dt float64) bool {
	if w.Progress.Done() {
		return true
	}
	w.Progress.Elapsed += dt
	if w.Progress.Elapsed < w.env.Settings.StepInterval {
		return false
	}
	w.Progress.Elapsed -= w.env.Settings.StepInterval
	next := w.Progress.Remaining[0]
	w.Progress.Remaining = w.Progress.Remaining[1:]
	w.env.MoveActor(w.actor, next)
	return w.Progress.Done()
}

func (w *walker) final() {
	w.actor.Reach = w.env.Reach(w.actor)
}

// Move walks the actor toward a chosen tile, as far as its budget allows.
type Move struct {
	walker
	goal *core.Tile
}

// NewMove plans a path to goal. Goals outside the current reachability are
// routed with a single-target search and cut to the remaining initiative.
func NewMove(env *Env, actor *Actor, goal *core.Tile) *Move {
	m := &Move{walker: walker{env: env, actor: actor}, goal: goal}
	path := actor.Reach.PathTo(goal)
	if len(path) == 0 {
		path = env.Paths.FindPath(env.Graph.Tile(actor.Position), goal, env.CostFor(actor))
	}
	if limit := actor.Turn.Current; len(path) > limit {
		if limit < 0 {
			limit = 0
		}
		path = path[:limit]
	}
	m.path = path
	return m
}

func (m *Move) Kind() core.ActionKind { return core.Move }
func (m *Move) Cost() int             { return len(m.path) }
func (m *Move) CanComplete() bool     { return len(m.path) > 0 }
func (m *Move) Begin()                { m.begin() }
func (m *Move) Tick(dt float64) bool  { return m.tick(dt) }
func (m *Move) Final()                { m.final() }
func (m *Move) Goal() *core.Tile      { return m.goal }
func (m *Move) sealed()               {}

// EnemyMove is the hostile version of move: it heads for a random tile
// close to the tracked actor and never stalls.
type EnemyMove struct {
	walker
	target *Actor
	goal   *core.Tile
}

func NewEnemyMove(env *Env, actor *Actor, target *Actor) *EnemyMove {
	m := &EnemyMove{walker: walker{env: env, actor: actor}, target: target}
	reach := env.Reach(actor)
	actor.Reach = reach
	m.goal = m.pickGoal(reach)
	m.path = reach.PathTo(m.goal)
	return m
}

func (m *EnemyMove) pickGoal(reach *pathfinding.Result) *core.Tile {
	if reach.Empty() {
		return nil
	}
	if m.target != nil {
		var near []*core.Tile
		for _, t := range reach.Tiles() {
			if t == reach.Start || t.Location() == m.target.Position {
				continue
			}
			if t.Location().ChebyshevTo(m.target.Position) <= m.env.Settings.NearRadius {
				near = append(near, t)
			}
		}
		if len(near) > 0 {
			return near[m.env.Rand.Intn(len(near))]
		}
	}

	var frontier []*core.Tile
	for _, t := range reach.Edges {
		if t != reach.Start {
			frontier = append(frontier, t)
		}
	}
	if len(frontier) > 0 {
		return frontier[m.env.Rand.Intn(len(frontier))]
	}

	goal := m.actor.Position
	if m.target != nil {
		goal = m.target.Position
	}
	_, picked := reach.PathToTarget(m.env.Graph, goal, m.env.Rand, m.env.Settings.FallbackRings)
	return picked
}

func (m *EnemyMove) Kind() core.ActionKind { return core.EnemyMove }
func (m *EnemyMove) Cost() int             { return len(m.path) }
func (m *EnemyMove) CanComplete() bool     { return true }
func (m *EnemyMove) Goal() *core.Tile      { return m.goal }

// Begin ends the turn outright when there is nowhere to go
func (m *EnemyMove) Begin() {
	if len(m.path) == 0 {
		m.actor.Turn.Current = 0
	}
	m.begin()
}

func (m *EnemyMove) Tick(dt float64) bool { return m.tick(dt) }
func (m *EnemyMove) Final()               { m.final() }
func (m *EnemyMove) sealed()              {}

// Hold spends the whole remaining budget and banks half of it
type Hold struct {
	actor *Actor
	spent int
}

func NewHold(_ *Env, actor *Actor) *Hold {
	return &Hold{actor: actor, spent: actor.Turn.Current}
}

func (h *Hold) Kind() core.ActionKind { return core.Hold }
func (h *Hold) Cost() int             { return h.spent }
func (h *Hold) CanComplete() bool     { return h.spent >= 0 }
func (h *Hold) Begin()                { h.actor.Turn.Next += h.spent / 2 }
func (h *Hold) Tick(float64) bool     { return true }
func (h *Hold) Final()                {}
func (h *Hold) sealed()               {}

// Dash spends the whole remaining budget and borrows half of it from the
// next turn
type Dash struct {
	actor *Actor
	spent int
}

func NewDash(_ *Env, actor *Actor) *Dash {
	return &Dash{actor: actor, spent: actor.Turn.Current}
}

func (d *Dash) Kind() core.ActionKind { return core.Dash }
func (d *Dash) Cost() int             { return d.spent }
func (d *Dash) CanComplete() bool     { return d.spent >= 0 }
func (d *Dash) Begin()                { d.actor.Turn.Next -= d.spent / 2 }
func (d *Dash) Tick(float64) bool     { return true }
func (d *Dash) Final()                {}
func (d *Dash) sealed()               {}

// End gives up the rest of the turn without banking anything
type End struct {
	actor *Actor
	spent int
}

func NewEnd(_ *Env, actor *Actor) *End {
	return &End{actor: actor, spent: actor.Turn.Current}
}

func (e *End) Kind() core.ActionKind { return core.End }
func (e *End) Cost() int             { return e.spent }
func (e *End) CanComplete() bool     { return e.spent >= 0 }
func (e *End) Begin()                {}
func (e *End) Tick(float64) bool     { return true }
func (e *End) Final()                {}
func (e *End) sealed()               {}

// Interact opens a dialogue on an adjacent piece and waits for it to close
type Interact struct {
	env    *Env
	actor  *Actor
	at     core.Coordinate
	piece  *core.Piece
	opened bool
}

func NewInteract(env *Env, actor *Actor, at core.Coordinate, piece *core.Piece) *Interact {
	return &Interact{env: env, actor: actor, at: at, piece: piece}
}

func (i *Interact) Kind() core.ActionKind { return core.Interact }
func (i *Interact) Cost() int             { return i.env.Settings.InteractCost }

func (i *Interact) CanComplete() bool {
	return i.env.Dialogue != nil &&
		i.piece != nil && i.piece.Interaction != "" &&
		i.actor.Position.ChebyshevTo(i.at) <= 1
}

func (i *Interact) Begin() {
	if err := i.env.Dialogue.Open(i.piece.Interaction); err != nil {
		i.env.Logger.Warn().Err(err).Str("dialogue", i.piece.Interaction).Msg("Dialogue failed to open")
		return
	}
	i.opened = true
}

func (i *Interact) Tick(float64) bool { return !i.opened || i.env.Dialogue.IsDone() }
func (i *Interact) Final()            {}
func (i *Interact) sealed()           {}

// Shoot fires at another actor. The shooter must be standing somewhere the
// vision field currently shows.
type Shoot struct {
	env      *Env
	shooter  *Actor
	target   *Actor
	distance float64
	Progress ShotProgress
}

func NewShoot(env *Env, shooter, target *Actor) *Shoot {
	s := &Shoot{env: env, shooter: shooter, target: target}
	if target != nil {
		s.distance = shooter.Position.EuclideanTo(target.Position)
	}
	return s
}

func (s *Shoot) Kind() core.ActionKind { return core.Shoot }

func (s *Shoot) Cost() int {
	return s.env.Settings.ShootBase + floor10(s.distance)/2
}

func (s *Shoot) CanComplete() bool {
	return s.target != nil && s.target != s.shooter &&
		s.env.Vision != nil && s.env.Vision.IsVisible(s.shooter.Position)
}

func (s *Shoot) Begin() {
	s.Progress = ShotProgress{Frames: s.env.Settings.ShotFrames}
}

func (s *Shoot) Tick(dt float64) bool {
	if s.Progress.Done() {
		return true
	}
	s.Progress.Elapsed += dt
	if s.Progress.Elapsed >= s.env.Settings.StepInterval {
		s.Progress.Elapsed -= s.env.Settings.StepInterval
		s.Progress.Frame++
	}
	return s.Progress.Done()
}

func (s *Shoot) Final() {
	s.env.publish(events.NewActorHitEvent(s.env.WorldID, s.shooter.ID, s.target.ID, s.distance))
	s.target.Hit(s.shooter)
}

func (s *Shoot) Target() *Actor { return s.target }
func (s *Shoot) sealed()        {}

// LeaveMap hands the actor to the map transition collaborator. It is free
// but only works while standing on the gate.
type LeaveMap struct {
	env   *Env
	actor *Actor
	at    core.Coordinate
	piece *core.Piece
}

func NewLeaveMap(env *Env, actor *Actor, at core.Coordinate, piece *core.Piece) *LeaveMap {
	return &LeaveMap{env: env, actor: actor, at: at, piece: piece}
}

func (l *LeaveMap) Kind() core.ActionKind { return core.LeaveMap }
func (l *LeaveMap) Cost() int             { return 0 }

func (l *LeaveMap) CanComplete() bool {
	return l.env.Transit != nil && l.piece != nil && l.piece.Gate != nil && l.at == l.actor.Position
}

func (l *LeaveMap) Begin() {
	if err := l.env.Transit.Transition(l.actor, *l.piece.Gate); err != nil {
		l.env.Logger.Error().Err(err).Str("scenario", l.piece.Gate.Scenario).Msg("Map transition failed")
	}
}

func (l *LeaveMap) Tick(float64) bool { return true }
func (l *LeaveMap) Final()            {}
func (l *LeaveMap) sealed()           {}
