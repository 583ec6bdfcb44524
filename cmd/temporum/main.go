package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DragonMoffon/Temporum/internal/common"
	"github.com/DragonMoffon/Temporum/internal/config"
	"github.com/DragonMoffon/Temporum/internal/game"
	"github.com/DragonMoffon/Temporum/internal/monitoring"
	"github.com/DragonMoffon/Temporum/internal/ui"
	"github.com/DragonMoffon/Temporum/internal/ui/control"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	scenario := flag.String("scenario", "", "Scenario to start in (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	showAll := flag.Bool("show-all", false, "Lift the fog of war")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(os.Getenv("TEMPORUM_ENV")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}
	cfg := config.Get()
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *scenario != "" {
		cfg.Scenario.Start = *scenario
	}
	logger := common.SetupLogging(cfg.Logging, nil)

	if config.ConfigFilePath() != "" {
		config.WatchConfig(func(c *config.Config) {
			zerolog.SetGlobalLevel(common.ParseLevel(c.Logging.Level))
			logger.Info().Str("level", c.Logging.Level).Msg("Config reloaded")
		})
	}

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
	if *showAll || cfg.Development.ShowAllTiles {
		ctrl.Apply(control.ToggleFog())
	}

	budget := time.Second / time.Duration(cfg.UI.TickRate)
	monitor := monitoring.NewFrameMonitor(cfg.UI.TickRate*2, budget, logger)

	logger.Info().
		Str("world", world.ID()).
		Str("scenario", world.Scenario().Name).
		Int("tick_rate", cfg.UI.TickRate).
		Msg("Starting client")

	if err := ui.Run(ui.NewGame(ctx, ctrl, cfg, monitor, logger), cfg); err != nil {
		logger.Fatal().Err(err).Msg("Client stopped")
	}

	fm := monitor.Sample()
	logger.Info().
		Uint64("frames", fm.Frames).
		Uint64("slow_frames", fm.Slow).
		Dur("peak", fm.Peak).
		Interface("stats", world.Stats().Snapshot()).
		Msg("Client closed")
}
