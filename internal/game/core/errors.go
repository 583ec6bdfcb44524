package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrTileNotFound       = errors.New("no tile at coordinate")
	ErrPieceNotFound      = errors.New("piece not on tile")
	ErrActorNotFound      = errors.New("actor not in scheduler")
	ErrNotCurrentActor    = errors.New("actor is not the current actor")
	ErrActionRejected     = errors.New("action rejected")
	ErrInvalidScenario    = errors.New("invalid scenario")
	ErrUnknownAction      = errors.New("unknown action kind")
	ErrDialogueNotFound   = errors.New("dialogue not found")
	ErrInvalidDialogue    = errors.New("invalid dialogue")
)

// WrapTileError adds the offending coordinate to a tile level error
func WrapTileError(c Coordinate, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("tile %s: %w", c, err)
}

// WrapActionError adds the actor and action kind to an action level error
func WrapActionError(actor string, kind ActionKind, err error) error {
	if err == nil {
		return nil
	}
	if actor == "" {
		return fmt.Errorf("%s action: %w", kind, err)
	}
	return fmt.Errorf("%s: %s: %w", actor, kind, err)
}
