package game

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/ai"
	"github.com/DragonMoffon/Temporum/internal/config"
	"github.com/DragonMoffon/Temporum/internal/game/dialogue"
	"github.com/DragonMoffon/Temporum/internal/game/events"
	"github.com/DragonMoffon/Temporum/internal/game/events/subscribers"
	"github.com/DragonMoffon/Temporum/internal/game/layout"
	"github.com/DragonMoffon/Temporum/internal/game/rules"
	"github.com/DragonMoffon/Temporum/internal/game/turn"
)

// WorldConfig is everything a world needs to start
type WorldConfig struct {
	WorldID string
	// Start names the first scenario to load from Library
	Start     string
	Library   *layout.Library
	Dialogues *dialogue.Set

	Settings          turn.Settings
	PlayerInitiative  int
	BotInitiative     int
	ShockTurns        int
	VisionRadius      int
	LogEvents         bool
	LogEventsDetailed bool

	Rng    *rand.Rand
	Logger zerolog.Logger
}

// ConfigFromSettings maps loaded configuration onto a world config. The
// scenario library and dialogue set are read from the configured paths;
// a missing dialogue file leaves the world without conversations.
func ConfigFromSettings(c *config.Config, logger zerolog.Logger) (WorldConfig, error) {
	settings := turn.DefaultSettings()
	settings.StepInterval = c.Actions.StepInterval
	settings.ShotFrames = c.Actions.ShotFrames
	settings.ShootBase = c.Actions.ShootBase
	settings.InteractCost = c.Actions.InteractCost
	settings.NearRadius = c.AI.NearRadius
	settings.VisionPenalty = c.AI.VisionPenalty
	settings.FallbackRings = c.Pathfinding.FallbackRings

	dialogues, err := dialogue.Load(c.Scenario.Dialogues)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return WorldConfig{}, err
		}
		logger.Warn().Str("path", c.Scenario.Dialogues).Msg("No dialogue file, conversations disabled")
		dialogues = dialogue.NewSet()
	}

	var rng *rand.Rand
	if c.Scenario.Seed != 0 {
		rng = rand.New(rand.NewSource(c.Scenario.Seed))
	}

	return WorldConfig{
		Start:             c.Scenario.Start,
		Library:           layout.NewLibrary(c.Scenario.Path, logger),
		Dialogues:         dialogues,
		Settings:          settings,
		PlayerInitiative:  c.Game.Initiative.Player,
		BotInitiative:     c.Game.Initiative.Bot,
		ShockTurns:        c.AI.ShockTurns,
		VisionRadius:      c.Vision.Radius,
		LogEvents:         c.Development.Debug,
		LogEventsDetailed: c.Development.Debug && c.Logging.Level == "trace",
		Rng:               rng,
		Logger:            logger,
	}, nil
}

// WorldInitializer handles the step by step construction of a world
type WorldInitializer struct {
	config WorldConfig
	logger zerolog.Logger
}

func NewWorldInitializer(cfg WorldConfig) *WorldInitializer {
	return &WorldInitializer{
		config: cfg,
		logger: cfg.Logger.With().Str("component", "World").Logger(),
	}
}

// Initialize builds the world and loads the starting scenario
func (wi *WorldInitializer) Initialize(ctx context.Context) (*World, error) {
	select {
	case <-ctx.Done():
		wi.logger.Error().Err(ctx.Err()).Msg("World creation cancelled before start")
		return nil, ctx.Err()
	default:
	}

	if err := wi.setupDefaults(); err != nil {
		return nil, err
	}

	w := wi.createWorld()
	wi.setupEventHandling(w)

	if err := w.load(wi.config.Start, nil); err != nil {
		return nil, fmt.Errorf("load scenario %q: %w", wi.config.Start, err)
	}

	wi.logger.Info().
		Str("world_id", w.id).
		Str("scenario", wi.config.Start).
		Int("actors", len(w.scheduler.Actors())).
		Msg("World created successfully")
	return w, nil
}

func (wi *WorldInitializer) setupDefaults() error {
	if wi.config.Library == nil {
		return fmt.Errorf("world needs a scenario library")
	}
	if wi.config.Start == "" {
		return fmt.Errorf("world needs a starting scenario")
	}
	if wi.config.Rng == nil {
		wi.logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		wi.config.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if wi.config.WorldID == "" {
		wi.config.WorldID = uuid.NewString()
	}
	if wi.config.Dialogues == nil {
		wi.config.Dialogues = dialogue.NewSet()
	}
	if wi.config.Settings == (turn.Settings{}) {
		wi.config.Settings = turn.DefaultSettings()
	}
	if wi.config.PlayerInitiative <= 0 {
		wi.config.PlayerInitiative = DefaultPlayerInitiative
	}
	if wi.config.BotInitiative <= 0 {
		wi.config.BotInitiative = DefaultBotInitiative
	}
	return nil
}

func (wi *WorldInitializer) createWorld() *World {
	cfg := wi.config
	bus := events.NewEventBus(wi.logger)

	w := &World{
		id:      cfg.WorldID,
		config:  cfg,
		bus:     bus,
		library: cfg.Library,
		bots:    make(map[string]*ai.SimpleMoveBot),
		logger:  wi.logger,
	}
	w.dialogue = dialogue.NewSession(cfg.Dialogues, cfg.WorldID, bus, wi.logger)
	w.env = &turn.Env{
		WorldID:   cfg.WorldID,
		Dialogue:  w.dialogue,
		Transit:   w,
		Publisher: bus,
		Rand:      cfg.Rng,
		Settings:  cfg.Settings,
		Logger:    wi.logger,
		OnMoved:   w.onMoved,
	}
	w.scheduler = turn.NewScheduler(w.env)
	w.menus = rules.NewMenuBuilder(w.env, w.ActorAt, wi.logger)
	w.stats = NewStats()
	w.ticks = NewTickProcessor(w)
	return w
}

func (wi *WorldInitializer) setupEventHandling(w *World) {
	w.bus.Subscribe(w.stats)
	if wi.config.LogEvents {
		sub := subscribers.NewLoggerSubscriber("event_logger", wi.logger, zerolog.DebugLevel)
		sub.SetDevMode(wi.config.LogEventsDetailed)
		w.bus.Subscribe(sub)
	}
}
