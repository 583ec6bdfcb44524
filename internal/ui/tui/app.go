package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/common"
	"github.com/DragonMoffon/Temporum/internal/monitoring"
	"github.com/DragonMoffon/Temporum/internal/ui/control"
)

// App runs the terminal client loop: events are read on their own
// goroutine and applied on the frame ticker's goroutine.
type App struct {
	screen   tcell.Screen
	ctrl     *control.Controller
	renderer *Renderer
	monitor  *monitoring.FrameMonitor
	tickRate int
	logger   zerolog.Logger
}

func NewApp(screen tcell.Screen, ctrl *control.Controller, palette common.Palette, tickRate int, monitor *monitoring.FrameMonitor, logger zerolog.Logger) *App {
	if tickRate <= 0 {
		tickRate = 30
	}
	if monitor == nil {
		monitor = monitoring.NewFrameMonitor(0, 0, logger)
	}
	return &App{
		screen:   screen,
		ctrl:     ctrl,
		renderer: NewRenderer(screen, palette),
		monitor:  monitor,
		tickRate: tickRate,
		logger:   logger.With().Str("component", "TUI").Logger(),
	}
}

// Run blocks until ctx is cancelled or the player quits. The screen must
// already be initialised; Run does not finalise it.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse()
	a.screen.HideCursor()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go a.screen.ChannelEvents(events, quit)
	defer close(quit)

	interval := time.Second / time.Duration(a.tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	dt := interval.Seconds()

	a.logger.Info().Int("tick_rate", a.tickRate).Msg("Terminal client started")
	a.renderer.Draw(a.ctrl)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if a.handle(ev) {
				a.logger.Info().Msg("Quit requested")
				return nil
			}
		case <-ticker.C:
			err := a.monitor.Time(func() error {
				return a.ctrl.Update(ctx, dt)
			})
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			a.renderer.Draw(a.ctrl)
		}
	}
}

func (a *App) handle(ev tcell.Event) bool {
	if _, ok := ev.(*tcell.EventResize); ok {
		a.screen.Sync()
		return false
	}
	intents, quit := Translate(ev, a.ctrl.Cursor())
	for _, in := range intents {
		a.ctrl.Apply(in)
	}
	return quit
}
