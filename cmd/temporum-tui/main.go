package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/DragonMoffon/Temporum/internal/common"
	"github.com/DragonMoffon/Temporum/internal/config"
	"github.com/DragonMoffon/Temporum/internal/game"
	"github.com/DragonMoffon/Temporum/internal/monitoring"
	"github.com/DragonMoffon/Temporum/internal/ui/control"
	"github.com/DragonMoffon/Temporum/internal/ui/tui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	scenario := flag.String("scenario", "", "Scenario to start in (empty to use config default)")
	logFile := flag.String("log-file", "temporum-tui.log", "File to log to while the screen is in use (empty to discard)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(os.Getenv("TEMPORUM_ENV")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}
	cfg := config.Get()
	if *scenario != "" {
		cfg.Scenario.Start = *scenario
	}

	var out io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatal().Err(err).Str("path", *logFile).Msg("Failed to open log file")
		}
		defer f.Close()
		out = f
	}
	logger := common.SetupLogging(cfg.Logging, out)

	wc, err := game.ConfigFromSettings(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build world config")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	world, err := game.NewWorld(ctx, wc)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create world")
	}
	ctrl := control.New(world, logger)
	if cfg.Development.ShowAllTiles {
		ctrl.Apply(control.ToggleFog())
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create screen")
	}
	if err := screen.Init(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize screen")
	}

	tickRate := cfg.UI.TickRate / 2
	monitor := monitoring.NewFrameMonitor(tickRate*2, time.Second/time.Duration(max(tickRate, 1)), logger)
	app := tui.NewApp(screen, ctrl, common.PaletteFrom(cfg.Colors), tickRate, monitor, logger)

	runErr := app.Run(ctx)
	screen.Fini()
	if runErr != nil {
		logger.Error().Err(runErr).Msg("Terminal client stopped")
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}

	s := world.Stats().Snapshot()
	fmt.Printf("%s: %d rounds, %d turns, %d hits\n", s.Scenario, s.Rounds, s.Turns, s.Hits)
}
