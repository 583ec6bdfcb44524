package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset() {
	cfg = nil
	v = nil
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
game:
  initiative:
    player: 12
    bot: 5
actions:
  interact_cost: 3
ai:
  shock_turns: 2
vision:
  radius: 8
ui:
  window:
    width: 1024
    height: 768
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))
	reset()

	require.NoError(t, Init(configFile))

	c := Get()
	assert.Equal(t, 12, c.Game.Initiative.Player)
	assert.Equal(t, 5, c.Game.Initiative.Bot)
	assert.Equal(t, 3, c.Actions.InteractCost)
	assert.Equal(t, 2, c.AI.ShockTurns)
	assert.Equal(t, 8, c.Vision.Radius)
	assert.Equal(t, 1024, c.UI.Window.Width)
	assert.Equal(t, 768, c.UI.Window.Height)
	assert.Equal(t, configFile, ConfigFilePath())

	// untouched keys keep their defaults
	assert.Equal(t, 5, c.Actions.ShootBase)
	assert.Equal(t, 0.125, c.Actions.StepInterval)
}

func TestInitWithDefaults(t *testing.T) {
	reset()

	require.NoError(t, Init("/non/existent/path/config.yaml"))

	c := Get()
	assert.Equal(t, "Temporum", c.App.Name)
	assert.Equal(t, 10, c.Game.Initiative.Player)
	assert.Equal(t, 6, c.Game.Initiative.Bot)
	assert.Equal(t, 8, c.Actions.ShotFrames)
	assert.Equal(t, 4, c.AI.ShockTurns)
	assert.Equal(t, 3, c.Pathfinding.FallbackRings)
	assert.Equal(t, 160, c.UI.Tile.Width)
	assert.Equal(t, 80, c.UI.Tile.Height)
	assert.Equal(t, 0.6, c.UI.Tile.Scale)
	assert.Equal(t, [4]int{0, 0, 0, 170}, c.Colors.Fog)
}

func TestEnvironmentVariables(t *testing.T) {
	reset()
	t.Setenv("TEMPORUM_GAME_INITIATIVE_BOT", "9")
	t.Setenv("TEMPORUM_LOGGING_LEVEL", "debug")

	require.NoError(t, Init(""))

	c := Get()
	assert.Equal(t, 9, c.Game.Initiative.Bot)
	assert.Equal(t, "debug", c.Logging.Level)
}

func TestSet(t *testing.T) {
	reset()
	require.NoError(t, Init(""))

	Set("game.initiative.player", 14)
	Set("ui.window.width", 1600)

	c := Get()
	assert.Equal(t, 14, c.Game.Initiative.Player)
	assert.Equal(t, 1600, c.UI.Window.Width)
}

func TestGetHelpers(t *testing.T) {
	reset()
	require.NoError(t, Init(""))

	Set("test.string", "hello")
	Set("test.int", 42)
	Set("test.bool", true)
	Set("test.float", 3.14)

	assert.Equal(t, "hello", GetString("test.string"))
	assert.Equal(t, 42, GetInt("test.int"))
	assert.Equal(t, true, GetBool("test.bool"))
	assert.Equal(t, 3.14, GetFloat64("test.float"))
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := filepath.Join(tmpDir, "config.yaml")
	baseContent := `
game:
  initiative:
    player: 10
scenario:
  start: intro
`
	require.NoError(t, os.WriteFile(baseConfig, []byte(baseContent), 0644))

	envContent := `
game:
  initiative:
    player: 20
scenario:
  start: debug_room
development:
  debug: true
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.dev.yaml"), []byte(envContent), 0644))

	t.Chdir(tmpDir)
	reset()

	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("dev"))

	c := Get()
	assert.Equal(t, 20, c.Game.Initiative.Player)
	assert.Equal(t, "debug_room", c.Scenario.Start)
	assert.True(t, c.Development.Debug)
	assert.Equal(t, baseConfig, ConfigFilePath(), "the base file is still the watched one")
}

func TestLoadEnvironmentConfig_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	baseConfig := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(baseConfig, []byte("scenario:\n  start: intro\n"), 0644))

	t.Chdir(tmpDir)
	reset()

	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("prod"))
	assert.Equal(t, "intro", Get().Scenario.Start)
	assert.Equal(t, baseConfig, ConfigFilePath())

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.broken.yaml"), []byte("a: [unterminated"), 0644))
	assert.Error(t, LoadEnvironmentConfig("broken"))
}

func TestValidate(t *testing.T) {
	reset()
	require.NoError(t, Init(""))
	base := *Get()

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"LogFormat", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"Initiative", func(c *Config) { c.Game.Initiative.Bot = 0 }, "game.initiative"},
		{"StepInterval", func(c *Config) { c.Actions.StepInterval = 0 }, "actions.step_interval"},
		{"ShotFrames", func(c *Config) { c.Actions.ShotFrames = 0 }, "actions.shot_frames"},
		{"FallbackRings", func(c *Config) { c.Pathfinding.FallbackRings = 0 }, "pathfinding.fallback_rings"},
		{"VisionRadius", func(c *Config) { c.Vision.Radius = 0 }, "vision.radius"},
		{"Scenario", func(c *Config) { c.Scenario.Start = "" }, "scenario.start"},
		{"TickRate", func(c *Config) { c.UI.TickRate = 0 }, "ui.tick_rate"},
		{"Colour", func(c *Config) { c.Colors.Fog[3] = 300 }, "colors.fog[3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := Validate(&c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	assert.NoError(t, Validate(&base))
}
