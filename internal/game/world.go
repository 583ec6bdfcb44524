package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/ai"
	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/game/dialogue"
	"github.com/DragonMoffon/Temporum/internal/game/events"
	"github.com/DragonMoffon/Temporum/internal/game/layout"
	"github.com/DragonMoffon/Temporum/internal/game/pathfinding"
	"github.com/DragonMoffon/Temporum/internal/game/rules"
	"github.com/DragonMoffon/Temporum/internal/game/turn"
	"github.com/DragonMoffon/Temporum/internal/game/vision"
)

const (
	DefaultPlayerInitiative = 10
	DefaultBotInitiative    = 6
)

// World is the simulation context: the loaded map, its actors and the
// collaborators the actions call into. It is driven from one loop.
type World struct {
	id     string
	config WorldConfig
	bus    *events.EventBus

	library  *layout.Library
	scenario *layout.Scenario
	graph    *core.Graph
	paths    *pathfinding.Engine
	vision   *vision.Calculator

	env       *turn.Env
	scheduler *turn.Scheduler
	menus     *rules.MenuBuilder
	dialogue  *dialogue.Session

	player *turn.Actor
	bots   map[string]*ai.SimpleMoveBot

	stats   *Stats
	ticks   *TickProcessor
	transit *transitRequest

	logger zerolog.Logger
}

type transitRequest struct {
	actor *turn.Actor
	gate  core.Gate
}

// NewWorld builds a world and loads cfg.Start
func NewWorld(ctx context.Context, cfg WorldConfig) (*World, error) {
	return NewWorldInitializer(cfg).Initialize(ctx)
}

func (w *World) ID() string                      { return w.id }
func (w *World) EventBus() *events.EventBus      { return w.bus }
func (w *World) Scenario() *layout.Scenario      { return w.scenario }
func (w *World) Graph() *core.Graph              { return w.graph }
func (w *World) Vision() *vision.Calculator      { return w.vision }
func (w *World) Env() *turn.Env                  { return w.env }
func (w *World) Scheduler() *turn.Scheduler      { return w.scheduler }
func (w *World) Dialogue() *dialogue.Session     { return w.dialogue }
func (w *World) Player() *turn.Actor             { return w.player }
func (w *World) Stats() *Stats                   { return w.stats }
func (w *World) Frames() uint64                  { return w.ticks.Frames() }
func (w *World) Bot(id string) *ai.SimpleMoveBot { return w.bots[id] }

// Tick advances the simulation by dt seconds
func (w *World) Tick(ctx context.Context, dt float64) error {
	return w.ticks.ProcessTick(ctx, dt)
}

// ActorAt returns the scheduled actor standing on c
func (w *World) ActorAt(c core.Coordinate) *turn.Actor {
	for _, a := range w.scheduler.Actors() {
		if a.Position == c {
			return a
		}
	}
	return nil
}

// Visible reports whether the player can currently see c
func (w *World) Visible(c core.Coordinate) bool {
	return w.vision != nil && w.vision.IsVisible(c)
}

// PlayerTurn reports whether the player is current and free to act
func (w *World) PlayerTurn() bool {
	return w.player != nil &&
		w.scheduler.Current() == w.player &&
		w.player.Turn.Running == nil &&
		w.dialogue.IsDone()
}

// Menu lists what the player could do aimed at c
func (w *World) Menu(at core.Coordinate) *rules.Menu {
	return w.menus.Build(w.player, at)
}

// Propose sets a menu entry as the player's pending action
func (w *World) Propose(e rules.Entry) bool {
	if e.Blank() {
		return false
	}
	return w.scheduler.SetPendingAction(w.player, e.Action)
}

// Confirm commits the player's pending action
func (w *World) Confirm() bool {
	return w.scheduler.Commit(w.player)
}

// Cancel drops the player's pending action
func (w *World) Cancel() {
	w.scheduler.ClearPending(w.player)
}

// Perform commits a menu entry straight away
func (w *World) Perform(e rules.Entry) bool {
	if e.Blank() {
		return false
	}
	return w.scheduler.CommitAction(w.player, e.Action)
}

// Preview returns the path the player would walk to reach c this turn
func (w *World) Preview(c core.Coordinate) []*core.Tile {
	if w.player == nil || w.player.Reach == nil {
		return nil
	}
	return w.player.Reach.PathTo(w.graph.Tile(c))
}

// Transition records a gate crossing. The map is swapped once the current
// tick has finished with the scheduler.
func (w *World) Transition(a *turn.Actor, gate core.Gate) error {
	if !a.Player {
		return core.WrapActionError(a.Name, core.LeaveMap, fmt.Errorf("only the player leaves the map: %w", core.ErrActionRejected))
	}
	if w.transit != nil {
		return core.WrapActionError(a.Name, core.LeaveMap, fmt.Errorf("already leaving for %q: %w", w.transit.gate.Scenario, core.ErrActionRejected))
	}
	w.transit = &transitRequest{actor: a, gate: gate}
	w.bus.Publish(events.NewMapTransitionEvent(w.id, a.ID, w.scenario.Name, gate))
	w.logger.Info().
		Str("from", w.scenario.Name).
		Str("to", gate.Scenario).
		Stringer("spawn", gate.Spawn).
		Msg("Map transition requested")
	return nil
}

// TransitionPending reports whether a gate crossing waits for the next tick
func (w *World) TransitionPending() bool { return w.transit != nil }

// applyTransition swaps in the requested map. A map that fails to load
// leaves the current one running.
func (w *World) applyTransition() error {
	req := w.transit
	if req == nil {
		return nil
	}
	w.transit = nil

	next, err := w.prepare(req.gate.Scenario, &req.gate.Spawn)
	if err != nil {
		w.logger.Error().Err(err).Str("to", req.gate.Scenario).Msg("Map transition failed")
		return fmt.Errorf("transition to %q: %w", req.gate.Scenario, err)
	}

	w.scheduler.Suspend("leaving " + w.scenario.Name)
	w.dialogue.Close()
	w.scheduler.Reset()
	w.scheduler.Resume()
	w.install(next)
	return nil
}

// preparedMap is a scenario built and checked but not yet installed
type preparedMap struct {
	scenario *layout.Scenario
	graph    *core.Graph
	start    core.Coordinate
	costs    []pathfinding.CostKind
}

func (w *World) load(name string, spawn *core.Coordinate) error {
	p, err := w.prepare(name, spawn)
	if err != nil {
		return err
	}
	w.install(p)
	return nil
}

func (w *World) prepare(name string, spawn *core.Coordinate) (*preparedMap, error) {
	sc, err := w.library.Get(name)
	if err != nil {
		return nil, err
	}
	g, err := sc.Build(w.logger)
	if err != nil {
		return nil, err
	}

	p := &preparedMap{scenario: sc, graph: g}
	switch {
	case spawn != nil:
		p.start = *spawn
	case sc.Player != nil:
		p.start = sc.Player.At
	default:
		return nil, fmt.Errorf("scenario %q has no player spawn: %w", sc.Name, core.ErrInvalidScenario)
	}
	if g.Tile(p.start) == nil {
		return nil, fmt.Errorf("scenario %q player spawn: %w", sc.Name, core.WrapTileError(p.start, core.ErrTileNotFound))
	}

	for _, b := range sc.Bots {
		kind, err := pathfinding.ParseCostKind(b.Cost)
		if err != nil {
			return nil, fmt.Errorf("scenario %q bot %q: %w", sc.Name, b.Name, err)
		}
		if b.Cost == "" {
			kind = pathfinding.CostTargetPlayer
		}
		p.costs = append(p.costs, kind)
	}
	return p, nil
}

func (w *World) install(p *preparedMap) {
	w.scenario, w.graph = p.scenario, p.graph
	w.paths = pathfinding.NewEngine(p.graph, w.logger)
	w.vision = vision.NewCalculator(p.graph, w.config.VisionRadius, w.logger)
	w.env.Graph = p.graph
	w.env.Paths = w.paths
	w.env.Vision = w.vision

	base := w.config.PlayerInitiative
	if sp := p.scenario.Player; sp != nil && sp.Initiative > 0 {
		base = sp.Initiative
	}
	if w.player == nil {
		w.player = turn.NewActor("player", p.start, base)
		w.player.Player = true
	} else {
		w.player.Position = p.start
		w.player.Turn = turn.NewTurnState(base)
		w.player.Reach = nil
	}
	w.env.Tracked = w.player
	w.vision.Watch(w.player.Position)
	w.scheduler.Add(w.player)

	w.bots = make(map[string]*ai.SimpleMoveBot, len(p.scenario.Bots))
	for i, spawn := range p.scenario.Bots {
		w.scheduler.Add(w.spawnBot(spawn, p.costs[i]))
	}

	w.scheduler.Start()

	width, height := p.scenario.Size()
	w.bus.Publish(events.NewWorldLoadedEvent(w.id, p.scenario.Name, width, height, p.graph.Len(), len(w.scheduler.Actors())))
	w.logger.Info().
		Str("scenario", p.scenario.Name).
		Int("bots", len(w.bots)).
		Stringer("player", w.player.Position).
		Msg("Scenario installed")
}

func (w *World) spawnBot(spawn layout.Spawn, cost pathfinding.CostKind) *turn.Actor {
	base := w.config.BotInitiative
	if spawn.Initiative > 0 {
		base = spawn.Initiative
	}
	name := spawn.Name
	if name == "" {
		name = "bot"
	}
	actor := turn.NewActor(name, spawn.At, base)
	bot := ai.NewSimpleMoveBot(w.config.ShockTurns, w.logger)
	bot.Attach(actor)
	actor.Cost = cost
	w.bots[actor.ID] = bot
	return actor
}

func (w *World) onMoved(a *turn.Actor) {
	if a == w.player {
		w.vision.Watch(a.Position)
	}
}
