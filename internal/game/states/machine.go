package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/DragonMoffon/Temporum/internal/game/events"
)

// State represents a scheduler phase with lifecycle callbacks
type State interface {
	// Phase returns the SchedulerPhase this state represents
	Phase() SchedulerPhase

	// Enter is called when transitioning into this state
	Enter(ctx *SchedulerContext) error

	// Exit is called when transitioning out of this state
	Exit(ctx *SchedulerContext) error

	// Validate checks if the state is valid given the context
	Validate(ctx *SchedulerContext) error
}

// Transition represents a state transition in the history
type Transition struct {
	From      SchedulerPhase
	To        SchedulerPhase
	Timestamp time.Time
	Reason    string
}

// StateMachine manages scheduler phase transitions and history
type StateMachine struct {
	mu             sync.RWMutex
	currentPhase   SchedulerPhase
	states         map[SchedulerPhase]State
	context        *SchedulerContext
	history        []Transition
	maxHistorySize int
	publisher      events.Publisher
}

// NewStateMachine creates a new state machine starting in PhaseIdle
func NewStateMachine(ctx *SchedulerContext, publisher events.Publisher) *StateMachine {
	if publisher == nil {
		publisher = events.Discard
	}
	sm := &StateMachine{
		currentPhase:   PhaseIdle,
		states:         make(map[SchedulerPhase]State),
		context:        ctx,
		history:        make([]Transition, 0, 64),
		maxHistorySize: 256,
		publisher:      publisher,
	}

	sm.RegisterState(NewIdleState())
	sm.RegisterState(NewWaitingState())
	sm.RegisterState(NewActorDoneState())
	sm.RegisterState(NewAdvanceState())
	sm.RegisterState(NewTransitioningState())

	return sm
}

// RegisterState registers a state implementation
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[state.Phase()] = state
}

// CurrentPhase returns the current scheduler phase
func (sm *StateMachine) CurrentPhase() SchedulerPhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase
}

// TransitionTo attempts to transition to the specified phase. The
// transition event is published after the machine lock is released.
func (sm *StateMachine) TransitionTo(targetPhase SchedulerPhase, reason string) error {
	previousPhase, err := sm.transition(targetPhase, reason)
	if err != nil {
		return err
	}

	sm.publisher.Publish(events.NewStateTransitionEvent(
		sm.context.WorldID,
		previousPhase.String(),
		targetPhase.String(),
		reason,
	))
	return nil
}

func (sm *StateMachine) transition(targetPhase SchedulerPhase, reason string) (SchedulerPhase, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.currentPhase.CanTransitionTo(targetPhase) {
		return sm.currentPhase, fmt.Errorf("invalid transition from %s to %s", sm.currentPhase, targetPhase)
	}

	currentState, hasCurrentState := sm.states[sm.currentPhase]
	targetState, hasTargetState := sm.states[targetPhase]
	if !hasTargetState {
		return sm.currentPhase, fmt.Errorf("no state implementation for phase %s", targetPhase)
	}

	if err := targetState.Validate(sm.context); err != nil {
		return sm.currentPhase, fmt.Errorf("target state validation failed: %w", err)
	}

	if hasCurrentState {
		if err := currentState.Exit(sm.context); err != nil {
			// Continue with transition despite exit error
			sm.context.Logger.Error().
				Err(err).
				Str("from_phase", sm.currentPhase.String()).
				Str("to_phase", targetPhase.String()).
				Msg("Error exiting state")
		}
	}

	previousPhase := sm.currentPhase
	sm.currentPhase = targetPhase

	if err := targetState.Enter(sm.context); err != nil {
		sm.currentPhase = previousPhase
		return previousPhase, fmt.Errorf("failed to enter state %s: %w", targetPhase, err)
	}

	sm.addToHistory(Transition{
		From:      previousPhase,
		To:        targetPhase,
		Timestamp: time.Now(),
		Reason:    reason,
	})

	sm.context.Logger.Debug().
		Str("from_phase", previousPhase.String()).
		Str("to_phase", targetPhase.String()).
		Str("reason", reason).
		Msg("Scheduler phase transition")

	return previousPhase, nil
}

// addToHistory adds a transition to the history, maintaining max size
func (sm *StateMachine) addToHistory(transition Transition) {
	sm.history = append(sm.history, transition)
	if len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}
}

// GetHistory returns a copy of the transition history
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

// GetContext returns the scheduler context
func (sm *StateMachine) GetContext() *SchedulerContext {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.context
}

// SetMaxHistorySize bounds the retained transition history
func (sm *StateMachine) SetMaxHistorySize(n int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if n < 1 {
		n = 1
	}
	sm.maxHistorySize = n
	if len(sm.history) > n {
		sm.history = sm.history[len(sm.history)-n:]
	}
}

// CanTransition checks whether the current phase allows moving to targetPhase
func (sm *StateMachine) CanTransition(targetPhase SchedulerPhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase.CanTransitionTo(targetPhase)
}
