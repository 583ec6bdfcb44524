package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DragonMoffon/Temporum/internal/ai"
	"github.com/DragonMoffon/Temporum/internal/common"
	"github.com/DragonMoffon/Temporum/internal/config"
	"github.com/DragonMoffon/Temporum/internal/game"
	"github.com/DragonMoffon/Temporum/internal/game/layout"
	"github.com/DragonMoffon/Temporum/internal/game/turn"
	"github.com/DragonMoffon/Temporum/internal/monitoring"
	"github.com/DragonMoffon/Temporum/internal/ui/ascii"
)

// maxFramesPerRound stops a run whose actors never finish a round
const maxFramesPerRound = 5000

func main() {
	configPath := flag.String("config", "", "Path to config file")
	scenario := flag.String("scenario", "", "Scenario to start in (empty to use config default)")
	rounds := flag.Int("rounds", 5, "Rounds to simulate")
	arena := flag.Bool("arena", false, "Play a generated arena instead of a scenario file")
	arenaWidth := flag.Int("arena-width", 16, "Generated arena width")
	arenaHeight := flag.Int("arena-height", 10, "Generated arena height")
	arenaBots := flag.Int("arena-bots", 2, "Bots in the generated arena")
	seed := flag.Int64("seed", 0, "Random seed (0 to use config default, then the clock)")
	showAll := flag.Bool("show-all", false, "Lift the fog of war in map dumps")
	shootChance := flag.Float64("shoot-chance", ai.DefaultShootChance, "How often the player takes an available shot")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()
	if *scenario != "" {
		cfg.Scenario.Start = *scenario
	}
	if *seed != 0 {
		cfg.Scenario.Seed = *seed
	}
	if cfg.Scenario.Seed == 0 {
		cfg.Scenario.Seed = time.Now().UnixNano()
	}
	logger := common.SetupLogging(cfg.Logging, os.Stderr)

	wc, err := game.ConfigFromSettings(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build world config")
	}
	if *arena {
		gen := layout.NewGenerator(layout.DefaultGeneratorConfig(*arenaWidth, *arenaHeight, *arenaBots), rand.New(rand.NewSource(cfg.Scenario.Seed)))
		arenaScenario, err := gen.Generate("arena")
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to generate arena")
		}
		wc.Library.Register(arenaScenario)
		wc.Start = "arena"
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	world, err := game.NewWorld(ctx, wc)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create world")
	}
	targets := func() []*turn.Actor { return world.Scheduler().Actors() }
	ai.NewWanderer(targets, *shootChance, logger).Attach(world.Player())

	monitor := monitoring.NewFrameMonitor(0, 0, logger)
	width, _ := ascii.TerminalSize()

	logger.Info().
		Int64("seed", cfg.Scenario.Seed).
		Str("scenario", world.Scenario().Name).
		Int("rounds", *rounds).
		Msg("Starting headless run")

	if err := run(ctx, world, monitor, *rounds, *showAll, width); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Run stopped")
		os.Exit(1)
	}

	fm := monitor.Sample()
	fmt.Println(ascii.Summary(world))
	fmt.Printf("%d frames, mean tick %s, peak %s\n", fm.Frames, fm.Mean, fm.Peak)
}

func run(ctx context.Context, w *game.World, monitor *monitoring.FrameMonitor, rounds int, showAll bool, width int) error {
	dt := w.Env().Settings.StepInterval
	dump(w, showAll, width)

	for round := w.Scheduler().Round(); round <= rounds; {
		frames := 0
		for w.Scheduler().Round() == round {
			if frames++; frames > maxFramesPerRound {
				return fmt.Errorf("round %d did not finish after %d frames", round, maxFramesPerRound)
			}
			err := monitor.Time(func() error { return w.Tick(ctx, dt) })
			if errors.Is(err, context.Canceled) {
				return err
			}
			if err != nil {
				log.Warn().Err(err).Msg("Tick failed")
			}
		}
		round = w.Scheduler().Round()
		dump(w, showAll, width)
	}
	return nil
}

func dump(w *game.World, showAll bool, width int) {
	fmt.Println(ascii.Header(fmt.Sprintf("%s round %d", w.Scenario().Name, w.Scheduler().Round()), width))
	fmt.Print(ascii.Render(w, showAll))
	fmt.Println(ascii.Summary(w))
}
