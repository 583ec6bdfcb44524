package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Game        GameConfig        `mapstructure:"game"`
	Actions     ActionsConfig     `mapstructure:"actions"`
	AI          AIConfig          `mapstructure:"ai"`
	Pathfinding PathfindingConfig `mapstructure:"pathfinding"`
	Vision      VisionConfig      `mapstructure:"vision"`
	Scenario    ScenarioConfig    `mapstructure:"scenario"`
	UI          UIConfig          `mapstructure:"ui"`
	Colors      ColorsConfig      `mapstructure:"colors"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// AppConfig names the running program
type AppConfig struct {
	Name   string `mapstructure:"name"`
	Locale string `mapstructure:"locale"`
}

// LoggingConfig holds zerolog settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds turn mechanics configuration
type GameConfig struct {
	Initiative InitiativeConfig `mapstructure:"initiative"`
}

// InitiativeConfig holds base initiative per actor kind
type InitiativeConfig struct {
	Player int `mapstructure:"player"`
	Bot    int `mapstructure:"bot"`
}

// ActionsConfig holds action costs and pacing
type ActionsConfig struct {
	StepInterval float64 `mapstructure:"step_interval"`
	InteractCost int     `mapstructure:"interact_cost"`
	ShootBase    int     `mapstructure:"shoot_base"`
	ShotFrames   int     `mapstructure:"shot_frames"`
}

// AIConfig holds hostile bot settings
type AIConfig struct {
	ShockTurns    int `mapstructure:"shock_turns"`
	NearRadius    int `mapstructure:"near_radius"`
	VisionPenalty int `mapstructure:"vision_penalty"`
}

// PathfindingConfig holds the unreachable goal fallback settings
type PathfindingConfig struct {
	FallbackRings int `mapstructure:"fallback_rings"`
}

// VisionConfig holds line of sight settings
type VisionConfig struct {
	Radius int `mapstructure:"radius"`
}

// ScenarioConfig points at the scenario and dialogue files
type ScenarioConfig struct {
	Path      string `mapstructure:"path"`
	Start     string `mapstructure:"start"`
	Dialogues string `mapstructure:"dialogues"`
	Seed      int64  `mapstructure:"seed"`
}

// UIConfig holds client configuration
type UIConfig struct {
	Window   WindowConfig `mapstructure:"window"`
	Tile     TileConfig   `mapstructure:"tile"`
	TickRate int          `mapstructure:"tick_rate"`
}

// WindowConfig holds window settings
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// TileConfig holds isometric tile dimensions
type TileConfig struct {
	Width  int     `mapstructure:"width"`
	Height int     `mapstructure:"height"`
	Scale  float64 `mapstructure:"scale"`
}

// ColorsConfig holds renderer colours
type ColorsConfig struct {
	Background [3]int `mapstructure:"background"`
	Floor      [3]int `mapstructure:"floor"`
	Wall       [3]int `mapstructure:"wall"`
	Player     [3]int `mapstructure:"player"`
	Bot        [3]int `mapstructure:"bot"`
	Reachable  [4]int `mapstructure:"reachable"`
	Edge       [4]int `mapstructure:"edge"`
	Fog        [4]int `mapstructure:"fog"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	Debug           bool `mapstructure:"debug"`
	ShowAllTiles    bool `mapstructure:"show_all_tiles"`
	ShowCoordinates bool `mapstructure:"show_coordinates"`
	ShowTimings     bool `mapstructure:"show_timings"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Temporum")
	v.SetDefault("app.locale", "en")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("game.initiative.player", 10)
	v.SetDefault("game.initiative.bot", 6)

	v.SetDefault("actions.step_interval", 0.125)
	v.SetDefault("actions.interact_cost", 2)
	v.SetDefault("actions.shoot_base", 5)
	v.SetDefault("actions.shot_frames", 8)

	v.SetDefault("ai.shock_turns", 4)
	v.SetDefault("ai.near_radius", 2)
	v.SetDefault("ai.vision_penalty", 4)

	v.SetDefault("pathfinding.fallback_rings", 3)

	v.SetDefault("vision.radius", 12)

	v.SetDefault("scenario.path", "assets/scenarios")
	v.SetDefault("scenario.start", "intro")
	v.SetDefault("scenario.dialogues", "assets/dialogues.yaml")
	v.SetDefault("scenario.seed", 0)

	v.SetDefault("ui.window.width", 1280)
	v.SetDefault("ui.window.height", 800)
	v.SetDefault("ui.window.title", "Temporum")
	v.SetDefault("ui.tile.width", 160)
	v.SetDefault("ui.tile.height", 80)
	v.SetDefault("ui.tile.scale", 0.6)
	v.SetDefault("ui.tick_rate", 60)

	v.SetDefault("colors.background", []int{12, 12, 20})
	v.SetDefault("colors.floor", []int{90, 90, 110})
	v.SetDefault("colors.wall", []int{40, 40, 48})
	v.SetDefault("colors.player", []int{70, 160, 230})
	v.SetDefault("colors.bot", []int{220, 70, 60})
	v.SetDefault("colors.reachable", []int{80, 200, 120, 90})
	v.SetDefault("colors.edge", []int{240, 220, 80, 160})
	v.SetDefault("colors.fog", []int{0, 0, 0, 170})

	v.SetDefault("development.debug", false)
	v.SetDefault("development.show_all_tiles", false)
	v.SetDefault("development.show_coordinates", false)
	v.SetDefault("development.show_timings", false)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/temporum")
	}

	v.SetEnvPrefix("TEMPORUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A specific file that is missing falls back to defaults too
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml from the working
// directory over the loaded values. A missing file is not an error. The
// base config file stays the one WatchConfig follows.
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)
	overlay := viper.New()
	overlay.SetConfigFile(envFile)
	if err := overlay.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading environment config %s: %w", envFile, err)
	}
	if err := v.MergeConfigMap(overlay.AllSettings()); err != nil {
		return fmt.Errorf("error merging environment config %s: %w", envFile, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}
	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	_ = v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. Reloads that fail
// validation keep the previous values.
func WatchConfig(onChange func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			return
		}
		if err := Validate(next); err != nil {
			return
		}
		cfg = next
		if onChange != nil {
			onChange(cfg)
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}

	if c.Game.Initiative.Player <= 0 || c.Game.Initiative.Bot <= 0 {
		return fmt.Errorf("game.initiative values must be positive")
	}

	if c.Actions.StepInterval <= 0 {
		return fmt.Errorf("actions.step_interval must be positive")
	}
	if c.Actions.InteractCost < 0 || c.Actions.ShootBase < 0 {
		return fmt.Errorf("action costs must be non-negative")
	}
	if c.Actions.ShotFrames < 1 {
		return fmt.Errorf("actions.shot_frames must be at least 1")
	}

	if c.AI.ShockTurns < 0 {
		return fmt.Errorf("ai.shock_turns must be non-negative")
	}
	if c.AI.NearRadius < 0 {
		return fmt.Errorf("ai.near_radius must be non-negative")
	}
	if c.AI.VisionPenalty < 0 {
		return fmt.Errorf("ai.vision_penalty must be non-negative")
	}

	if c.Pathfinding.FallbackRings < 1 {
		return fmt.Errorf("pathfinding.fallback_rings must be at least 1")
	}
	if c.Vision.Radius < 1 {
		return fmt.Errorf("vision.radius must be at least 1")
	}

	if c.Scenario.Start == "" {
		return fmt.Errorf("scenario.start must name a scenario")
	}

	if c.UI.Window.Width <= 0 || c.UI.Window.Height <= 0 {
		return fmt.Errorf("ui.window dimensions must be positive")
	}
	if c.UI.Tile.Width <= 0 || c.UI.Tile.Height <= 0 || c.UI.Tile.Scale <= 0 {
		return fmt.Errorf("ui.tile dimensions must be positive")
	}
	if c.UI.TickRate <= 0 {
		return fmt.Errorf("ui.tick_rate must be positive")
	}

	validateRGB := func(rgb []int, name string) error {
		for i, v := range rgb {
			if v < 0 || v > 255 {
				return fmt.Errorf("%s[%d] must be between 0 and 255", name, i)
			}
		}
		return nil
	}

	for name, rgb := range map[string][]int{
		"colors.background": c.Colors.Background[:],
		"colors.floor":      c.Colors.Floor[:],
		"colors.wall":       c.Colors.Wall[:],
		"colors.player":     c.Colors.Player[:],
		"colors.bot":        c.Colors.Bot[:],
		"colors.reachable":  c.Colors.Reachable[:],
		"colors.edge":       c.Colors.Edge[:],
		"colors.fog":        c.Colors.Fog[:],
	} {
		if err := validateRGB(rgb, name); err != nil {
			return err
		}
	}

	return nil
}
