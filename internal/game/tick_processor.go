package game

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/game/events"
)

// TickProcessor runs the phases of one simulation frame: vision is
// rebuilt from last frame's positions, the scheduler advances, and any
// requested map transition is applied last.
type TickProcessor struct {
	world  *World
	frames uint64
	logger zerolog.Logger
}

func NewTickProcessor(w *World) *TickProcessor {
	return &TickProcessor{
		world:  w,
		logger: w.logger,
	}
}

func (tp *TickProcessor) Frames() uint64 { return tp.frames }

// ProcessTick executes a complete frame
func (tp *TickProcessor) ProcessTick(ctx context.Context, dt float64) error {
	if err := tp.checkContext(ctx, "before vision"); err != nil {
		return err
	}
	tp.frames++

	tp.visionPhase()

	if err := tp.checkContext(ctx, "before scheduler"); err != nil {
		return err
	}
	tp.schedulerPhase(dt)

	return tp.transitionPhase()
}

func (tp *TickProcessor) checkContext(ctx context.Context, phase string) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().
			Err(ctx.Err()).
			Uint64("frame", tp.frames).
			Str("phase", phase).
			Msg("Tick cancelled")
		return ctx.Err()
	default:
		return nil
	}
}

func (tp *TickProcessor) visionPhase() {
	w := tp.world
	if !w.vision.Calculate() {
		return
	}
	f := w.vision.Field()
	w.bus.Publish(events.NewVisionUpdatedEvent(w.id, f.Origin, f.Frame, f.VisibleCount()))
}

func (tp *TickProcessor) schedulerPhase(dt float64) {
	tp.world.scheduler.Tick(dt)
}

func (tp *TickProcessor) transitionPhase() error {
	if !tp.world.TransitionPending() {
		return nil
	}
	return tp.world.applyTransition()
}
