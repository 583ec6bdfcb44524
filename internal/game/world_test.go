package game

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DragonMoffon/Temporum/internal/config"
	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/game/dialogue"
	"github.com/DragonMoffon/Temporum/internal/game/layout"
	"github.com/DragonMoffon/Temporum/internal/testutil"
)

const lobbyYAML = `
name: lobby
rows:
  - "#####"
  - "#...#"
  - "#.T.>"
  - "#...#"
  - "#####"
legend:
  "T":
    - name: floor
      actions: [move]
    - name: terminal
      directions: "0000"
      actions: [interact]
      interaction: terminal
  ">":
    - name: floor
      actions: [move]
    - name: door
      actions: [leave]
      gate:
        scenario: yard
        spawn: {x: 1, y: 1}
player:
  at: {x: 3, y: 2}
`

const yardYAML = `
name: yard
rows:
  - "######"
  - "#....#"
  - "#....#"
  - "######"
player:
  at: {x: 2, y: 2}
bots:
  - name: guard
    at: {x: 4, y: 2}
`

const terminalDialogue = `
terminal:
  speakers: [terminal, player]
  initiate: "Hello."
`

func newTestWorld(t *testing.T, start string) *World {
	t.Helper()
	lib := layout.NewLibrary(t.TempDir(), testutil.NopLogger())
	for _, doc := range []string{lobbyYAML, yardYAML} {
		sc, err := layout.Parse([]byte(doc))
		require.NoError(t, err)
		lib.Register(sc)
	}
	set, err := dialogue.Parse([]byte(terminalDialogue))
	require.NoError(t, err)

	w, err := NewWorld(context.Background(), WorldConfig{
		WorldID:   "test-world",
		Start:     start,
		Library:   lib,
		Dialogues: set,
		Rng:       testutil.NewTestRNG(3),
		Logger:    testutil.NopLogger(),
	})
	require.NoError(t, err)
	return w
}

// tickUntil runs frames until cond holds
func tickUntil(t *testing.T, w *World, cond func() bool) {
	t.Helper()
	step := w.Env().Settings.StepInterval
	for i := 0; i < 500 && !cond(); i++ {
		require.NoError(t, w.Tick(context.Background(), step))
	}
	require.True(t, cond(), "condition not reached")
}

func TestNewWorld(t *testing.T) {
	w := newTestWorld(t, "yard")

	assert.Equal(t, "test-world", w.ID())
	assert.Equal(t, "yard", w.Scenario().Name)
	assert.Equal(t, core.Coordinate{X: 2, Y: 2}, w.Player().Position)
	assert.True(t, w.Player().Player)
	assert.Equal(t, DefaultPlayerInitiative, w.Player().Turn.Base)
	assert.Len(t, w.Scheduler().Actors(), 2)
	assert.Equal(t, 1, w.Scheduler().Round())

	guard := w.ActorAt(core.Coordinate{X: 4, Y: 2})
	require.NotNil(t, guard)
	assert.Equal(t, DefaultBotInitiative, guard.Turn.Base)
	assert.Equal(t, guard, w.Scheduler().Current(), "lower initiative moves first")
	require.NotNil(t, w.Bot(guard.ID))
	assert.NotNil(t, guard.Controller)

	assert.Equal(t, "yard", w.Stats().Snapshot().Scenario)
}

func TestNewWorld_Errors(t *testing.T) {
	_, err := NewWorld(context.Background(), WorldConfig{Start: "x", Logger: testutil.NopLogger()})
	assert.Error(t, err, "library required")

	lib := layout.NewLibrary(t.TempDir(), testutil.NopLogger())
	_, err = NewWorld(context.Background(), WorldConfig{Start: "missing", Library: lib, Logger: testutil.NopLogger()})
	assert.ErrorIs(t, err, core.ErrInvalidScenario)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewWorld(ctx, WorldConfig{Start: "x", Library: lib, Logger: testutil.NopLogger()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorld_BotsThenPlayer(t *testing.T) {
	w := newTestWorld(t, "yard")
	assert.False(t, w.PlayerTurn())

	tickUntil(t, w, w.PlayerTurn)
	assert.NotNil(t, w.Player().Reach)
	assert.True(t, w.Visible(w.Player().Position), "vision follows the player")

	s := w.Stats().Snapshot()
	assert.GreaterOrEqual(t, s.Turns, 2)
	assert.GreaterOrEqual(t, s.VisionUpdates, 1)
	assert.Greater(t, w.Frames(), uint64(0))
}

func TestWorld_MoveFromMenu(t *testing.T) {
	w := newTestWorld(t, "lobby")
	require.True(t, w.PlayerTurn(), "a lone player starts at once")

	goal := core.Coordinate{X: 3, Y: 1}
	require.Len(t, w.Preview(goal), 1)

	menu := w.Menu(goal)
	entry, ok := menu.Find(core.Move)
	require.True(t, ok)
	require.True(t, w.Propose(entry))
	require.True(t, w.Confirm())
	assert.False(t, w.PlayerTurn(), "busy while walking")

	tickUntil(t, w, func() bool { return w.Player().Position == goal })
	assert.Equal(t, DefaultPlayerInitiative-1, w.Player().Turn.Current)
}

func TestWorld_Interact(t *testing.T) {
	w := newTestWorld(t, "lobby")

	entry, ok := w.Menu(core.Coordinate{X: 2, Y: 2}).Find(core.Interact)
	require.True(t, ok)
	require.True(t, w.Perform(entry))
	assert.False(t, w.Dialogue().IsDone())
	assert.Equal(t, "terminal", w.Dialogue().Key())

	require.NoError(t, w.Tick(context.Background(), 0))
	assert.NotNil(t, w.Player().Turn.Running, "interact waits on the dialogue")

	w.Dialogue().Advance()
	tickUntil(t, w, w.PlayerTurn)
	assert.Equal(t, 1, w.Stats().Snapshot().Conversations)
}

func TestWorld_LeaveMap(t *testing.T) {
	w := newTestWorld(t, "lobby")
	player := w.Player()
	require.NoError(t, w.Tick(context.Background(), 0))

	door := core.Coordinate{X: 4, Y: 2}
	entry, ok := w.Menu(door).Find(core.Move)
	require.True(t, ok)
	require.True(t, w.Perform(entry))
	tickUntil(t, w, func() bool { return w.PlayerTurn() && player.Position == door })

	leave, ok := w.Menu(door).Find(core.LeaveMap)
	require.True(t, ok)
	require.True(t, w.Perform(leave))
	assert.True(t, w.TransitionPending())

	require.NoError(t, w.Tick(context.Background(), 0))
	assert.False(t, w.TransitionPending())
	assert.Equal(t, "yard", w.Scenario().Name)
	assert.Same(t, player, w.Player(), "the player carries over")
	assert.Equal(t, core.Coordinate{X: 1, Y: 1}, player.Position)
	assert.Equal(t, player.Turn.Base, player.Turn.Current)
	assert.Len(t, w.Scheduler().Actors(), 2)
	assert.Equal(t, 1, w.Scheduler().Round())
	assert.Same(t, w.Graph(), w.Env().Graph)

	s := w.Stats().Snapshot()
	assert.Equal(t, 1, s.Transitions)
	assert.Equal(t, "yard", s.Scenario)
}

func TestWorld_Transition(t *testing.T) {
	t.Run("BotsCannotLeave", func(t *testing.T) {
		w := newTestWorld(t, "yard")
		guard := w.Scheduler().Current()
		err := w.Transition(guard, core.Gate{Scenario: "lobby"})
		assert.ErrorIs(t, err, core.ErrActionRejected)
		assert.False(t, w.TransitionPending())
	})

	t.Run("OneAtATime", func(t *testing.T) {
		w := newTestWorld(t, "lobby")
		require.NoError(t, w.Transition(w.Player(), core.Gate{Scenario: "yard", Spawn: core.Coordinate{X: 1, Y: 1}}))
		err := w.Transition(w.Player(), core.Gate{Scenario: "lobby"})
		assert.ErrorIs(t, err, core.ErrActionRejected)
	})

	t.Run("MissingMapKeepsCurrent", func(t *testing.T) {
		w := newTestWorld(t, "lobby")
		require.NoError(t, w.Transition(w.Player(), core.Gate{Scenario: "nowhere"}))

		err := w.Tick(context.Background(), 0)
		assert.ErrorIs(t, err, core.ErrInvalidScenario)
		assert.Equal(t, "lobby", w.Scenario().Name)
		assert.True(t, w.PlayerTurn())
	})

	t.Run("SpawnOffMap", func(t *testing.T) {
		w := newTestWorld(t, "lobby")
		require.NoError(t, w.Transition(w.Player(), core.Gate{Scenario: "yard", Spawn: core.Coordinate{X: 40, Y: 40}}))
		err := w.Tick(context.Background(), 0)
		assert.ErrorIs(t, err, core.ErrTileNotFound)
		assert.Equal(t, "lobby", w.Scenario().Name)
	})
}

func TestWorld_Render(t *testing.T) {
	w := newTestWorld(t, "lobby")
	require.NoError(t, w.Tick(context.Background(), 0))

	lines := strings.Split(strings.TrimRight(w.Render(true), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "#####", lines[0])
	assert.Equal(t, "#.?@>", lines[2])

	cells := w.Cells(false)
	assert.True(t, cells[2][3].Visible)
	assert.Equal(t, w.Player(), cells[2][3].Actor)
	assert.True(t, cells[1][3].Reachable)
	assert.Equal(t, CellGate, cells[2][4].Kind)
}

func TestWorld_TickCancelled(t *testing.T) {
	w := newTestWorld(t, "lobby")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Tick(ctx, 0), context.Canceled)
	assert.Equal(t, uint64(0), w.Frames())
}

func TestConfigFromSettings(t *testing.T) {
	require.NoError(t, config.Init(""))
	c := *config.Get()
	c.Scenario.Dialogues = filepath.Join(t.TempDir(), "none.yaml")
	c.Scenario.Seed = 9
	c.Actions.ShotFrames = 3

	wc, err := ConfigFromSettings(&c, testutil.NopLogger())
	require.NoError(t, err)
	assert.Equal(t, 3, wc.Settings.ShotFrames)
	assert.Equal(t, c.AI.NearRadius, wc.Settings.NearRadius)
	assert.Equal(t, c.Game.Initiative.Bot, wc.BotInitiative)
	assert.Equal(t, c.Scenario.Start, wc.Start)
	assert.NotNil(t, wc.Rng)
	assert.Empty(t, wc.Dialogues.Keys(), "missing dialogue file is not fatal")

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("a: [unterminated"), 0644))
	c.Scenario.Dialogues = broken
	_, err = ConfigFromSettings(&c, testutil.NopLogger())
	assert.Error(t, err)
}
