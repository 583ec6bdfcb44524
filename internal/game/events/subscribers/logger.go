package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.logLevel).
		Str("event_type", event.Type()).
		Str("world_id", event.WorldID()).
		Time("timestamp", event.Timestamp())

	switch e := event.(type) {
	case *events.WorldLoadedEvent:
		logEvent.
			Str("scenario", e.Scenario).
			Int("width", e.Width).
			Int("height", e.Height).
			Int("tiles", e.Tiles).
			Int("actors", e.Actors)

	case *events.MapTransitionEvent:
		logEvent.
			Str("actor_id", e.ActorID).
			Str("from", e.From).
			Str("to", e.To).
			Stringer("spawn", e.Spawn)

	case *events.RoundStartedEvent:
		logEvent.Int("round", e.Round).Strs("order", e.Order)

	case *events.TurnStartedEvent:
		logEvent.
			Int("round", e.Round).
			Str("actor_id", e.ActorID).
			Int("initiative", e.Initiative).
			Int("reachable", e.Reachable)

	case *events.TurnEndedEvent:
		logEvent.
			Int("round", e.Round).
			Str("actor_id", e.ActorID).
			Int("next_initiative", e.NextInitiative)

	case *events.ActionEvent:
		logEvent.
			Str("actor_id", e.ActorID).
			Stringer("action", e.Kind).
			Int("cost", e.Cost).
			Int("remaining", e.Remaining)

	case *events.ActionRejectedEvent:
		logEvent.
			Str("actor_id", e.ActorID).
			Stringer("action", e.Kind).
			Int("cost", e.Cost).
			Str("reason", e.Reason)

	case *events.ActorEvent:
		logEvent.
			Str("actor_id", e.ActorID).
			Str("name", e.Name).
			Stringer("position", e.Position)

	case *events.ActorMovedEvent:
		logEvent.
			Str("actor_id", e.ActorID).
			Stringer("from", e.From).
			Stringer("to", e.To)

	case *events.ActorHitEvent:
		logEvent.
			Str("shooter_id", e.ShooterID).
			Str("target_id", e.TargetID).
			Float64("distance", e.Distance)

	case *events.VisionUpdatedEvent:
		logEvent.
			Stringer("origin", e.Origin).
			Uint64("frame", e.Frame).
			Int("visible", e.Visible)

	case *events.DialogueEvent:
		logEvent.Str("key", e.Key).Str("path", e.Path)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Simulation event")
}
