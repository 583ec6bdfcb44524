package turn

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/game/events"
	"github.com/DragonMoffon/Temporum/internal/game/states"
)

// Scheduler runs actors one at a time in initiative order. It is driven
// from a single simulation loop and is not safe for concurrent use.
type Scheduler struct {
	env     *Env
	pending []*Actor
	done    []*Actor
	current *Actor

	ctx     *states.SchedulerContext
	machine *states.StateMachine
	logger  zerolog.Logger
}

func NewScheduler(env *Env) *Scheduler {
	logger := env.Logger.With().Str("component", "Scheduler").Logger()
	ctx := states.NewSchedulerContext(env.WorldID, logger)
	return &Scheduler{
		env:     env,
		ctx:     ctx,
		machine: states.NewStateMachine(ctx, env.Publisher),
		logger:  logger,
	}
}

func (s *Scheduler) Env() *Env                         { return s.env }
func (s *Scheduler) Current() *Actor                   { return s.current }
func (s *Scheduler) Round() int                        { return s.ctx.Round }
func (s *Scheduler) Phase() states.SchedulerPhase      { return s.machine.CurrentPhase() }
func (s *Scheduler) History() []states.Transition      { return s.machine.GetHistory() }
func (s *Scheduler) Context() *states.SchedulerContext { return s.ctx }

// Pending returns the actors still to act this round, in order
func (s *Scheduler) Pending() []*Actor { return append([]*Actor(nil), s.pending...) }

// Done returns the actors that already acted this round
func (s *Scheduler) Done() []*Actor { return append([]*Actor(nil), s.done...) }

// Actors returns every scheduled actor: current first, then pending, then done
func (s *Scheduler) Actors() []*Actor {
	out := make([]*Actor, 0, s.ctx.ActorCount)
	if s.current != nil {
		out = append(out, s.current)
	}
	out = append(out, s.pending...)
	return append(out, s.done...)
}

// Find returns the scheduled actor with the given id
func (s *Scheduler) Find(id string) (*Actor, error) {
	for _, a := range s.Actors() {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, core.ErrActorNotFound
}

// Add schedules an actor and places its piece on the graph. Actors added
// mid-round wait until the next round.
func (s *Scheduler) Add(a *Actor) {
	if a.Piece != nil {
		if err := s.env.Graph.AddVisitor(a.Position, a.Piece); err != nil {
			s.logger.Warn().Err(err).Str("actor", a.Name).Msg("Actor placed off the graph")
		}
	}
	if s.Phase() == states.PhaseIdle && s.ctx.Round == 0 {
		s.pending = append(s.pending, a)
	} else {
		s.done = append(s.done, a)
	}
	s.ctx.ActorCount++
	s.env.publish(events.NewActorJoinedEvent(s.env.WorldID, a.ID, a.Name, a.Position))
	s.logger.Debug().Str("actor", a.Name).Int("initiative", a.Turn.Current).Msg("Actor added")
}

// Remove drops an actor from every queue, abandoning any running action.
// Removing the current actor advances to the next one.
func (s *Scheduler) Remove(a *Actor) error {
	var found bool
	s.pending, found = dropActor(s.pending, a)
	if !found {
		s.done, found = dropActor(s.done, a)
	}
	wasCurrent := !found && s.current == a
	if !found && !wasCurrent {
		return core.ErrActorNotFound
	}

	a.Turn.Pending = nil
	a.Turn.Running = nil
	if a.Piece != nil {
		if err := s.env.Graph.RemoveVisitor(a.Position, a.Piece); err != nil {
			s.logger.Warn().Err(err).Str("actor", a.Name).Msg("Actor piece already gone")
		}
	}
	s.ctx.ActorCount--
	s.env.publish(events.NewActorRemovedEvent(s.env.WorldID, a.ID, a.Name, a.Position))

	if wasCurrent {
		s.current = nil
		s.transition(states.PhaseAdvanceToNext, "current actor removed")
		s.ctx.CurrentActor = ""
		s.popNext()
	}
	return nil
}

// Start begins the first round: pending is ordered by current initiative,
// lowest first, and the first actor becomes current.
func (s *Scheduler) Start() {
	if s.current != nil {
		return
	}
	sort.SliceStable(s.pending, func(i, j int) bool {
		return s.pending[i].Turn.Current < s.pending[j].Turn.Current
	})
	if len(s.pending) == 0 && len(s.done) == 0 {
		s.logger.Warn().Msg("Start called with no actors")
		return
	}
	if len(s.pending) == 0 {
		s.reseed()
	} else {
		s.ctx.Round++
		s.publishRound()
	}
	s.popNext()
}

// SetPendingAction previews an action for the current actor. It is stored
// only if the actor can afford it.
func (s *Scheduler) SetPendingAction(a *Actor, act Action) bool {
	if !s.accepts(a, act) {
		return false
	}
	if a.Turn.Current-act.Cost() < 0 {
		s.reject(a, act, "insufficient initiative")
		a.Turn.Pending = nil
		a.Turn.Tentative = a.Turn.Current
		return false
	}
	a.Turn.Pending = act
	a.Turn.Tentative = a.Turn.Current - act.Cost()
	s.env.publish(events.NewActionPendingEvent(s.env.WorldID, a.ID, act.Kind(), act.Cost(), a.Turn.Tentative))
	return true
}

// ClearPending drops the previewed action
func (s *Scheduler) ClearPending(a *Actor) {
	a.Turn.Pending = nil
	a.Turn.Tentative = a.Turn.Current
}

// CommitAction pays the action's cost up front and starts it
func (s *Scheduler) CommitAction(a *Actor, act Action) bool {
	if !s.accepts(a, act) {
		return false
	}
	cost := act.Cost()
	if cost > a.Turn.Current {
		s.reject(a, act, "insufficient initiative")
		return false
	}
	if !act.CanComplete() {
		s.reject(a, act, "preconditions not met")
		return false
	}

	a.Turn.Current -= cost
	a.Turn.Running = act
	a.Turn.Pending = nil
	a.Turn.Tentative = a.Turn.Current
	s.env.publish(events.NewActionCommittedEvent(s.env.WorldID, a.ID, act.Kind(), cost, a.Turn.Current))
	s.logger.Debug().
		Str("actor", a.Name).
		Stringer("kind", act.Kind()).
		Int("cost", cost).
		Int("remaining", a.Turn.Current).
		Msg("Action committed")

	act.Begin()
	return true
}

// Commit commits the actor's pending action, if it has one
func (s *Scheduler) Commit(a *Actor) bool {
	if a.Turn.Pending == nil {
		return false
	}
	return s.CommitAction(a, a.Turn.Pending)
}

// Tick advances the current actor's running action, lets a controller
// decide when nothing is running, and cycles once the turn is spent.
func (s *Scheduler) Tick(dt float64) {
	a := s.current
	if a == nil || !s.Phase().CanReceiveActions() {
		return
	}

	if act := a.Turn.Running; act != nil {
		if act.Tick(dt) {
			act.Final()
			if a.Turn.Running == act {
				a.Turn.Running = nil
			}
			s.env.publish(events.NewActionCompletedEvent(s.env.WorldID, a.ID, act.Kind(), a.Turn.Current))
		}
	} else if a.Controller != nil {
		a.Controller.Decide(s, a)
	}

	if s.current == a && s.Advance(a) {
		s.finishTurn()
	}
}

// Advance reports whether the actor's turn is over
func (s *Scheduler) Advance(a *Actor) bool {
	return a.Turn.Running == nil && a.Turn.Current <= 0
}

// EndTurn carries the banked initiative over and clears the action slots
func (s *Scheduler) EndTurn(a *Actor) {
	a.Turn.reset()
	s.env.publish(events.NewTurnEndedEvent(s.env.WorldID, s.ctx.Round, a.ID, a.Turn.Current))
}

// Cycle files the current actor as done and makes the next one current,
// starting a new round when pending runs dry.
func (s *Scheduler) Cycle() {
	if s.current != nil {
		s.done = append(s.done, s.current)
		s.current = nil
	}
	s.popNext()
}

// Suspend parks the scheduler while the world swaps maps
func (s *Scheduler) Suspend(reason string) {
	s.transition(states.PhaseTransitioning, reason)
}

// Resume leaves a map transition. The queues are rebuilt by the caller.
func (s *Scheduler) Resume() {
	s.transition(states.PhaseIdle, "map loaded")
}

// Reset empties every queue and lifts every actor piece off the graph
func (s *Scheduler) Reset() []*Actor {
	actors := s.Actors()
	for _, a := range actors {
		if a.Piece != nil {
			_ = s.env.Graph.RemoveVisitor(a.Position, a.Piece)
		}
		a.Turn.Pending = nil
		a.Turn.Running = nil
	}
	s.pending, s.done, s.current = nil, nil, nil
	s.ctx.ActorCount = 0
	s.ctx.CurrentActor = ""
	s.ctx.Round = 0
	return actors
}

func (s *Scheduler) finishTurn() {
	a := s.current
	s.transition(states.PhaseCurrentActorDone, "initiative spent")
	s.EndTurn(a)
	s.transition(states.PhaseAdvanceToNext, "turn ended")
	s.Cycle()
}

func (s *Scheduler) popNext() {
	if len(s.pending) == 0 {
		s.reseed()
	}
	if len(s.pending) == 0 {
		s.ctx.CurrentActor = ""
		s.transition(states.PhaseIdle, "no actors left")
		return
	}

	next := s.pending[0]
	s.pending = s.pending[1:]
	s.current = next
	next.Reach = s.env.Reach(next)
	next.Turn.Tentative = next.Turn.Current

	s.ctx.CurrentActor = next.ID
	s.transition(states.PhaseWaitingForCurrentActor, "next actor")
	s.env.publish(events.NewTurnStartedEvent(s.env.WorldID, s.ctx.Round, next.ID, next.Turn.Current, len(next.Reach.CostSoFar)))
}

// reseed moves done back into pending ordered by next initiative
func (s *Scheduler) reseed() {
	if len(s.done) == 0 {
		return
	}
	s.pending = append(s.pending, s.done...)
	s.done = nil
	sort.SliceStable(s.pending, func(i, j int) bool {
		return s.pending[i].Turn.Next < s.pending[j].Turn.Next
	})
	s.ctx.Round++
	s.publishRound()
}

func (s *Scheduler) publishRound() {
	order := make([]string, len(s.pending))
	for i, a := range s.pending {
		order[i] = a.ID
	}
	s.env.publish(events.NewRoundStartedEvent(s.env.WorldID, s.ctx.Round, order))
	s.logger.Info().Int("round", s.ctx.Round).Int("actors", len(order)).Msg("Round started")
}

func (s *Scheduler) accepts(a *Actor, act Action) bool {
	if act == nil {
		return false
	}
	if a != s.current {
		s.reject(a, act, core.ErrNotCurrentActor.Error())
		return false
	}
	if a.Turn.Running != nil {
		s.reject(a, act, "another action is running")
		return false
	}
	if !s.Phase().CanReceiveActions() {
		s.reject(a, act, "scheduler is "+s.Phase().String())
		return false
	}
	return true
}

func (s *Scheduler) reject(a *Actor, act Action, reason string) {
	s.env.publish(events.NewActionRejectedEvent(s.env.WorldID, a.ID, act.Kind(), act.Cost(), reason))
	s.logger.Debug().
		Str("actor", a.Name).
		Stringer("kind", act.Kind()).
		Int("cost", act.Cost()).
		Str("reason", reason).
		Msg("Action rejected")
}

func (s *Scheduler) transition(phase states.SchedulerPhase, reason string) {
	if s.machine.CurrentPhase() == phase {
		return
	}
	if err := s.machine.TransitionTo(phase, reason); err != nil {
		s.logger.Warn().Err(err).Str("reason", reason).Msg("Scheduler phase transition refused")
	}
}

func dropActor(actors []*Actor, a *Actor) ([]*Actor, bool) {
	for i, other := range actors {
		if other == a {
			return append(actors[:i], actors[i+1:]...), true
		}
	}
	return actors, false
}
