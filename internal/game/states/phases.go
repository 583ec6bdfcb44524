package states

import "fmt"

// SchedulerPhase is the global step the turn scheduler is in
type SchedulerPhase int

const (
	// PhaseIdle - no round running, actors may still be joining
	PhaseIdle SchedulerPhase = iota

	// PhaseWaitingForCurrentActor - the current actor is choosing or running actions
	PhaseWaitingForCurrentActor

	// PhaseCurrentActorDone - the current actor spent its budget
	PhaseCurrentActorDone

	// PhaseAdvanceToNext - the finished actor is filed and the next one popped
	PhaseAdvanceToNext

	// PhaseTransitioning - a map transition is replacing the world
	PhaseTransitioning
)

// String returns the string representation of a SchedulerPhase
func (p SchedulerPhase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseWaitingForCurrentActor:
		return "WaitingForCurrentActor"
	case PhaseCurrentActorDone:
		return "CurrentActorDone"
	case PhaseAdvanceToNext:
		return "AdvanceToNext"
	case PhaseTransitioning:
		return "Transitioning"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// CanReceiveActions returns true if the current actor may set or commit actions
func (p SchedulerPhase) CanReceiveActions() bool {
	return p == PhaseWaitingForCurrentActor
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p SchedulerPhase) AllowedTransitions() []SchedulerPhase {
	switch p {
	case PhaseIdle:
		return []SchedulerPhase{PhaseWaitingForCurrentActor, PhaseTransitioning}
	case PhaseWaitingForCurrentActor:
		// The current actor can vanish mid-turn, which skips straight to advancing.
		return []SchedulerPhase{PhaseCurrentActorDone, PhaseAdvanceToNext, PhaseIdle, PhaseTransitioning}
	case PhaseCurrentActorDone:
		return []SchedulerPhase{PhaseAdvanceToNext, PhaseTransitioning}
	case PhaseAdvanceToNext:
		return []SchedulerPhase{PhaseWaitingForCurrentActor, PhaseIdle, PhaseTransitioning}
	case PhaseTransitioning:
		return []SchedulerPhase{PhaseIdle}
	default:
		return []SchedulerPhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p SchedulerPhase) CanTransitionTo(target SchedulerPhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a SchedulerPhase
func ParsePhase(s string) SchedulerPhase {
	for p := PhaseIdle; p <= PhaseTransitioning; p++ {
		if p.String() == s {
			return p
		}
	}
	return PhaseIdle
}
