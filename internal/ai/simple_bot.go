package ai

import (
	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/game/pathfinding"
	"github.com/DragonMoffon/Temporum/internal/game/turn"
)

// DefaultShockTurns is how many turns a hit bot sits out
const DefaultShockTurns = 4

// SimpleMoveBot closes in on the tracked actor every turn. A hit leaves it
// shocked, passing whole turns until the timer runs out.
type SimpleMoveBot struct {
	shockTurns int
	shock      int
	endTurn    bool
	logger     zerolog.Logger
}

func NewSimpleMoveBot(shockTurns int, logger zerolog.Logger) *SimpleMoveBot {
	if shockTurns <= 0 {
		shockTurns = DefaultShockTurns
	}
	return &SimpleMoveBot{
		shockTurns: shockTurns,
		logger:     logger.With().Str("component", "SimpleMoveBot").Logger(),
	}
}

// Attach makes the bot the actor's controller and hit handler
func (b *SimpleMoveBot) Attach(a *turn.Actor) {
	a.Controller = b
	a.Cost = pathfinding.CostTargetPlayer
	a.OnHit = b.Hit
}

// Hit restarts the shock timer
func (b *SimpleMoveBot) Hit(shooter *turn.Actor) {
	b.shock = b.shockTurns
	b.logger.Debug().Stringer("shooter", shooter).Int("shock", b.shock).Msg("Bot shocked")
}

func (b *SimpleMoveBot) Shocked() bool { return b.shock > 0 }
func (b *SimpleMoveBot) Shock() int    { return b.shock }

// EndTurnEarly makes the next decision end the turn
func (b *SimpleMoveBot) EndTurnEarly() { b.endTurn = true }

// Decide picks the next action for a; the scheduler calls it while a is
// current and idle.
func (b *SimpleMoveBot) Decide(s *turn.Scheduler, a *turn.Actor) {
	env := s.Env()
	switch {
	case b.shock > 0:
		b.shock--
		b.commitEnd(s, a, "shocked")
	case b.endTurn:
		b.endTurn = false
		b.commitEnd(s, a, "ending early")
	default:
		move := turn.NewEnemyMove(env, a, env.Tracked)
		if !s.CommitAction(a, move) {
			b.commitEnd(s, a, "move rejected")
			return
		}
		goal := a.Position
		if g := move.Goal(); g != nil {
			goal = g.Location()
		}
		b.logger.Debug().
			Str("bot", a.Name).
			Stringer("goal", goal).
			Int("cost", move.Cost()).
			Int("remaining", a.Turn.Current).
			Msg("Bot moving")
	}
}

func (b *SimpleMoveBot) commitEnd(s *turn.Scheduler, a *turn.Actor, reason string) {
	if !s.CommitAction(a, turn.NewEnd(s.Env(), a)) {
		b.logger.Warn().Str("bot", a.Name).Str("reason", reason).Msg("Bot could not end its turn")
		return
	}
	b.logger.Debug().Str("bot", a.Name).Str("reason", reason).Msg("Bot passed")
}
