package ai

import (
	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/game/turn"
)

// DefaultShootChance is how often a wanderer takes an available shot
const DefaultShootChance = 0.3

// TargetLister returns the actors a wanderer may shoot at
type TargetLister func() []*turn.Actor

// Wanderer drives an actor without input: it sometimes shoots a target it
// can see, otherwise walks to a random reachable tile, and ends its turn
// when neither is possible. Headless runs put it on the player.
type Wanderer struct {
	targets     TargetLister
	shootChance float64
	logger      zerolog.Logger
}

func NewWanderer(targets TargetLister, shootChance float64, logger zerolog.Logger) *Wanderer {
	if shootChance < 0 {
		shootChance = 0
	}
	return &Wanderer{
		targets:     targets,
		shootChance: shootChance,
		logger:      logger.With().Str("component", "Wanderer").Logger(),
	}
}

func (w *Wanderer) Attach(a *turn.Actor) {
	a.Controller = w
}

func (w *Wanderer) Decide(s *turn.Scheduler, a *turn.Actor) {
	env := s.Env()
	if w.targets != nil && env.Rand.Float64() < w.shootChance {
		for _, target := range w.targets() {
			if target == a || !env.Vision.IsVisible(target.Position) {
				continue
			}
			shot := turn.NewShoot(env, a, target)
			if shot.Cost() <= a.Turn.Current && shot.CanComplete() && s.CommitAction(a, shot) {
				w.logger.Debug().Str("actor", a.Name).Str("target", target.Name).Int("cost", shot.Cost()).Msg("Shooting")
				return
			}
		}
	}

	if a.Reach != nil {
		var options []*turn.Move
		for _, t := range a.Reach.Tiles() {
			if t.Location() == a.Position {
				continue
			}
			if m := turn.NewMove(env, a, t); m.CanComplete() {
				options = append(options, m)
			}
		}
		if len(options) > 0 {
			m := options[env.Rand.Intn(len(options))]
			if s.CommitAction(a, m) {
				w.logger.Debug().Str("actor", a.Name).Stringer("goal", m.Goal().Location()).Int("cost", m.Cost()).Msg("Wandering")
				return
			}
		}
	}

	if !s.CommitAction(a, turn.NewEnd(env, a)) {
		w.logger.Warn().Str("actor", a.Name).Msg("Could not end turn")
	}
}
