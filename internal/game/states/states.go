package states

import (
	"fmt"
)

// IdleState is the resting phase before a round starts or after everyone left
type IdleState struct{}

func NewIdleState() State { return &IdleState{} }

func (s *IdleState) Phase() SchedulerPhase { return PhaseIdle }

func (s *IdleState) Enter(ctx *SchedulerContext) error {
	ctx.CurrentActor = ""
	ctx.Logger.Debug().Int("actors", ctx.ActorCount).Msg("Scheduler idle")
	return nil
}

func (s *IdleState) Exit(ctx *SchedulerContext) error { return nil }

func (s *IdleState) Validate(ctx *SchedulerContext) error { return nil }

// WaitingState holds while the current actor acts
type WaitingState struct{}

func NewWaitingState() State { return &WaitingState{} }

func (s *WaitingState) Phase() SchedulerPhase { return PhaseWaitingForCurrentActor }

func (s *WaitingState) Enter(ctx *SchedulerContext) error {
	ctx.Logger.Debug().
		Str("actor_id", ctx.CurrentActor).
		Int("round", ctx.Round).
		Msg("Waiting for current actor")
	return nil
}

func (s *WaitingState) Exit(ctx *SchedulerContext) error { return nil }

func (s *WaitingState) Validate(ctx *SchedulerContext) error {
	if ctx.CurrentActor == "" {
		return fmt.Errorf("no current actor to wait for")
	}
	return nil
}

// ActorDoneState marks a spent turn before it is filed
type ActorDoneState struct{}

func NewActorDoneState() State { return &ActorDoneState{} }

func (s *ActorDoneState) Phase() SchedulerPhase { return PhaseCurrentActorDone }

func (s *ActorDoneState) Enter(ctx *SchedulerContext) error {
	ctx.TurnsTaken++
	return nil
}

func (s *ActorDoneState) Exit(ctx *SchedulerContext) error { return nil }

func (s *ActorDoneState) Validate(ctx *SchedulerContext) error {
	if ctx.CurrentActor == "" {
		return fmt.Errorf("no current actor to finish")
	}
	return nil
}

// AdvanceState covers filing the finished actor and popping the next
type AdvanceState struct{}

func NewAdvanceState() State { return &AdvanceState{} }

func (s *AdvanceState) Phase() SchedulerPhase { return PhaseAdvanceToNext }

func (s *AdvanceState) Enter(ctx *SchedulerContext) error { return nil }

func (s *AdvanceState) Exit(ctx *SchedulerContext) error { return nil }

func (s *AdvanceState) Validate(ctx *SchedulerContext) error { return nil }

// TransitioningState suspends scheduling while a new map loads
type TransitioningState struct{}

func NewTransitioningState() State { return &TransitioningState{} }

func (s *TransitioningState) Phase() SchedulerPhase { return PhaseTransitioning }

func (s *TransitioningState) Enter(ctx *SchedulerContext) error {
	ctx.Logger.Info().Int("round", ctx.Round).Msg("Map transition started")
	return nil
}

func (s *TransitioningState) Exit(ctx *SchedulerContext) error {
	ctx.Round = 0
	ctx.CurrentActor = ""
	ctx.Logger.Info().Msg("Map transition finished")
	return nil
}

func (s *TransitioningState) Validate(ctx *SchedulerContext) error { return nil }
