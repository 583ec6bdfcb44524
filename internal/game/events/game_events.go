package events

import (
	"github.com/DragonMoffon/Temporum/internal/game/core"
)

// Event type constants
const (
	TypeWorldLoaded     = "world.loaded"
	TypeMapTransition   = "world.transition"
	TypeRoundStarted    = "round.started"
	TypeTurnStarted     = "turn.started"
	TypeTurnEnded       = "turn.ended"
	TypeActionPending   = "action.pending"
	TypeActionRejected  = "action.rejected"
	TypeActionCommitted = "action.committed"
	TypeActionCompleted = "action.completed"
	TypeActorJoined     = "actor.joined"
	TypeActorRemoved    = "actor.removed"
	TypeActorMoved      = "actor.moved"
	TypeActorHit        = "actor.hit"
	TypeVisionUpdated   = "vision.updated"
	TypeDialogueOpened  = "dialogue.opened"
	TypeDialogueClosed  = "dialogue.closed"
	TypeStateTransition = "state.transition"
)

// WorldLoadedEvent is published once a scenario has been turned into a graph
type WorldLoadedEvent struct {
	BaseEvent
	Scenario string
	Width    int
	Height   int
	Tiles    int
	Actors   int
}

func NewWorldLoadedEvent(worldID, scenario string, width, height, tiles, actors int) *WorldLoadedEvent {
	return &WorldLoadedEvent{
		BaseEvent: newBase(TypeWorldLoaded, worldID),
		Scenario:  scenario,
		Width:     width,
		Height:    height,
		Tiles:     tiles,
		Actors:    actors,
	}
}

// MapTransitionEvent is published when an actor leaves through a gate
type MapTransitionEvent struct {
	BaseEvent
	ActorID string
	From    string
	To      string
	Spawn   core.Coordinate
}

func NewMapTransitionEvent(worldID, actorID, from string, gate core.Gate) *MapTransitionEvent {
	return &MapTransitionEvent{
		BaseEvent: newBase(TypeMapTransition, worldID),
		ActorID:   actorID,
		From:      from,
		To:        gate.Scenario,
		Spawn:     gate.Spawn,
	}
}

// RoundStartedEvent is published when the pending queue is re-seeded
type RoundStartedEvent struct {
	BaseEvent
	Round int
	Order []string
}

func NewRoundStartedEvent(worldID string, round int, order []string) *RoundStartedEvent {
	return &RoundStartedEvent{
		BaseEvent: newBase(TypeRoundStarted, worldID),
		Round:     round,
		Order:     order,
	}
}

// TurnStartedEvent is published when an actor becomes current
type TurnStartedEvent struct {
	BaseEvent
	Round      int
	ActorID    string
	Initiative int
	Reachable  int
}

func NewTurnStartedEvent(worldID string, round int, actorID string, initiative, reachable int) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent:  newBase(TypeTurnStarted, worldID),
		Round:      round,
		ActorID:    actorID,
		Initiative: initiative,
		Reachable:  reachable,
	}
}

// TurnEndedEvent is published when an actor's budget is spent
type TurnEndedEvent struct {
	BaseEvent
	Round          int
	ActorID        string
	NextInitiative int
}

func NewTurnEndedEvent(worldID string, round int, actorID string, next int) *TurnEndedEvent {
	return &TurnEndedEvent{
		BaseEvent:      newBase(TypeTurnEnded, worldID),
		Round:          round,
		ActorID:        actorID,
		NextInitiative: next,
	}
}

// ActionEvent covers the pending, committed and completed steps of an action
type ActionEvent struct {
	BaseEvent
	ActorID   string
	Kind      core.ActionKind
	Cost      int
	Remaining int
}

func NewActionPendingEvent(worldID, actorID string, kind core.ActionKind, cost, tentative int) *ActionEvent {
	return &ActionEvent{BaseEvent: newBase(TypeActionPending, worldID), ActorID: actorID, Kind: kind, Cost: cost, Remaining: tentative}
}

func NewActionCommittedEvent(worldID, actorID string, kind core.ActionKind, cost, remaining int) *ActionEvent {
	return &ActionEvent{BaseEvent: newBase(TypeActionCommitted, worldID), ActorID: actorID, Kind: kind, Cost: cost, Remaining: remaining}
}

func NewActionCompletedEvent(worldID, actorID string, kind core.ActionKind, remaining int) *ActionEvent {
	return &ActionEvent{BaseEvent: newBase(TypeActionCompleted, worldID), ActorID: actorID, Kind: kind, Remaining: remaining}
}

// ActionRejectedEvent is published when a pending or commit request fails its checks
type ActionRejectedEvent struct {
	BaseEvent
	ActorID string
	Kind    core.ActionKind
	Cost    int
	Reason  string
}

func NewActionRejectedEvent(worldID, actorID string, kind core.ActionKind, cost int, reason string) *ActionRejectedEvent {
	return &ActionRejectedEvent{
		BaseEvent: newBase(TypeActionRejected, worldID),
		ActorID:   actorID,
		Kind:      kind,
		Cost:      cost,
		Reason:    reason,
	}
}

// ActorEvent is published when an actor joins or leaves the scheduler
type ActorEvent struct {
	BaseEvent
	ActorID  string
	Name     string
	Position core.Coordinate
}

func NewActorJoinedEvent(worldID, actorID, name string, at core.Coordinate) *ActorEvent {
	return &ActorEvent{BaseEvent: newBase(TypeActorJoined, worldID), ActorID: actorID, Name: name, Position: at}
}

func NewActorRemovedEvent(worldID, actorID, name string, at core.Coordinate) *ActorEvent {
	return &ActorEvent{BaseEvent: newBase(TypeActorRemoved, worldID), ActorID: actorID, Name: name, Position: at}
}

// ActorMovedEvent is published for every tile step an actor takes
type ActorMovedEvent struct {
	BaseEvent
	ActorID string
	From    core.Coordinate
	To      core.Coordinate
}

func NewActorMovedEvent(worldID, actorID string, from, to core.Coordinate) *ActorMovedEvent {
	return &ActorMovedEvent{BaseEvent: newBase(TypeActorMoved, worldID), ActorID: actorID, From: from, To: to}
}

// ActorHitEvent is published when a shot lands
type ActorHitEvent struct {
	BaseEvent
	ShooterID string
	TargetID  string
	Distance  float64
}

func NewActorHitEvent(worldID, shooterID, targetID string, distance float64) *ActorHitEvent {
	return &ActorHitEvent{
		BaseEvent: newBase(TypeActorHit, worldID),
		ShooterID: shooterID,
		TargetID:  targetID,
		Distance:  distance,
	}
}

// VisionUpdatedEvent is published when a new vision field is swapped in
type VisionUpdatedEvent struct {
	BaseEvent
	Origin  core.Coordinate
	Frame   uint64
	Visible int
}

func NewVisionUpdatedEvent(worldID string, origin core.Coordinate, frame uint64, visible int) *VisionUpdatedEvent {
	return &VisionUpdatedEvent{
		BaseEvent: newBase(TypeVisionUpdated, worldID),
		Origin:    origin,
		Frame:     frame,
		Visible:   visible,
	}
}

// DialogueEvent is published when a conversation opens or runs out of pages
type DialogueEvent struct {
	BaseEvent
	Key  string
	Path string
}

func NewDialogueOpenedEvent(worldID, key string) *DialogueEvent {
	return &DialogueEvent{BaseEvent: newBase(TypeDialogueOpened, worldID), Key: key}
}

func NewDialogueClosedEvent(worldID, key, path string) *DialogueEvent {
	return &DialogueEvent{BaseEvent: newBase(TypeDialogueClosed, worldID), Key: key, Path: path}
}

// StateTransitionEvent is published when the scheduler phase machine transitions
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(worldID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, worldID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
