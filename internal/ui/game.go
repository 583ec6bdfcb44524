package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/DragonMoffon/Temporum/internal/common"
	"github.com/DragonMoffon/Temporum/internal/config"
	"github.com/DragonMoffon/Temporum/internal/monitoring"
	"github.com/DragonMoffon/Temporum/internal/ui/control"
	"github.com/DragonMoffon/Temporum/internal/ui/input"
	"github.com/DragonMoffon/Temporum/internal/ui/iso"
	"github.com/DragonMoffon/Temporum/internal/ui/renderer"
)

// Game is the ebiten front end: it feeds input to the controller, steps the
// world once per update and draws the isometric view
type Game struct {
	ctx  context.Context
	ctrl *control.Controller

	proj     *iso.Projection
	board    *renderer.BoardRenderer
	hud      *renderer.HUDRenderer
	input    *input.Handler
	monitor  *monitoring.FrameMonitor
	palette  common.Palette
	font     font.Face
	timings  bool
	width    int
	height   int
	centred  string
	lastSize [2]int

	logger zerolog.Logger
}

// NewGame creates the ebiten game for a controller
func NewGame(ctx context.Context, ctrl *control.Controller, cfg *config.Config, monitor *monitoring.FrameMonitor, logger zerolog.Logger) *Game {
	proj := iso.NewProjection(cfg.UI.Tile.Width, cfg.UI.Tile.Height, cfg.UI.Tile.Scale)
	g := &Game{
		ctx:     ctx,
		ctrl:    ctrl,
		proj:    &proj,
		monitor: monitor,
		palette: common.PaletteFrom(cfg.Colors),
		font:    basicfont.Face7x13,
		timings: cfg.Development.ShowTimings,
		width:   cfg.UI.Window.Width,
		height:  cfg.UI.Window.Height,
		logger:  logger.With().Str("component", "UI").Logger(),
	}
	g.board = renderer.NewBoardRenderer(g.proj, g.palette, g.font)
	g.board.ShowCoordinates(cfg.Development.ShowCoordinates)
	g.hud = renderer.NewHUDRenderer(g.font, g.width, g.height)
	g.input = input.NewHandler(g.proj)
	return g
}

// Update proceeds the game state.
func (g *Game) Update() error {
	g.centre()

	for _, in := range g.input.Update(g.ctrl.Cursor()) {
		g.ctrl.Apply(in)
	}

	dt := 1 / float64(ebiten.TPS())
	err := g.monitor.Time(func() error {
		return g.ctrl.Update(g.ctx, dt)
	})
	if errors.Is(err, context.Canceled) {
		g.logger.Info().Msg("Shutting down")
		return ebiten.Termination
	}
	return err
}

// centre keeps the map in the middle of the window across map changes
func (g *Game) centre() {
	w := g.ctrl.World()
	size := [2]int{g.width, g.height}
	if w.Scenario().Name == g.centred && size == g.lastSize {
		return
	}
	g.centred, g.lastSize = w.Scenario().Name, size
	g.proj.Centre(w.Graph().Width(), w.Graph().Height(), g.width, g.height)
	g.logger.Debug().
		Str("scenario", g.centred).
		Float64("origin_x", g.proj.OriginX).
		Float64("origin_y", g.proj.OriginY).
		Msg("Projection centred")
}

// Draw renders the game screen.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.palette.Background)
	g.board.Draw(screen, g.ctrl)
	g.hud.Draw(screen, g.ctrl)

	if g.timings {
		fm := g.monitor.Metrics()
		msg := fmt.Sprintf("tps %.0f  fps %.0f  tick %s  max %s",
			ebiten.ActualTPS(), ebiten.ActualFPS(), fm.Mean, fm.Max)
		ebitenutil.DebugPrintAt(screen, msg, 5, g.height-40)
	}
}

// Layout follows the window so the map stays centred when it is resized.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
		g.hud.Resize(outsideWidth, outsideHeight)
	}
	return g.width, g.height
}

// Run opens the window and blocks until it closes
func Run(g *Game, cfg *config.Config) error {
	ebiten.SetWindowSize(cfg.UI.Window.Width, cfg.UI.Window.Height)
	ebiten.SetWindowTitle(cfg.UI.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.UI.TickRate)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
