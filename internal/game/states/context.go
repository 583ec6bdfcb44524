package states

import (
	"github.com/rs/zerolog"
)

// SchedulerContext is what phase states see of the scheduler
type SchedulerContext struct {
	// WorldID identifies the world whose scheduler owns this machine
	WorldID string

	Logger zerolog.Logger

	// Round counts re-seeds of the pending queue, starting at 1
	Round int

	// CurrentActor is the id of the actor whose turn it is, if any
	CurrentActor string

	// ActorCount is the number of actors in pending, done and current
	ActorCount int

	// TurnsTaken counts completed turns across all rounds
	TurnsTaken int
}

// NewSchedulerContext creates a new scheduler context
func NewSchedulerContext(worldID string, logger zerolog.Logger) *SchedulerContext {
	return &SchedulerContext{
		WorldID: worldID,
		Logger:  logger.With().Str("world_id", worldID).Logger(),
	}
}

// HasActors returns true if anything is left to schedule
func (sc *SchedulerContext) HasActors() bool {
	return sc.ActorCount > 0
}
