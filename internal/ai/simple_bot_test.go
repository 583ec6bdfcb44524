package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/game/events"
	"github.com/DragonMoffon/Temporum/internal/game/pathfinding"
	"github.com/DragonMoffon/Temporum/internal/game/turn"
	"github.com/DragonMoffon/Temporum/internal/testutil"
)

// chase sets up a corridor with a bot at the west end and the tracked
// player at the east end. The bot moves first.
func chase(t *testing.T, length int) (*turn.Scheduler, *turn.Actor, *turn.Actor, *SimpleMoveBot) {
	t.Helper()
	g := testutil.Corridor(length)
	env := &turn.Env{
		WorldID:   "ai-test",
		Graph:     g,
		Paths:     pathfinding.NewEngine(g, testutil.NopLogger()),
		Vision:    testutil.VisibleSet{},
		Publisher: events.Discard,
		Rand:      testutil.NewTestRNG(7),
		Settings:  turn.DefaultSettings(),
		Logger:    testutil.NopLogger(),
	}
	s := turn.NewScheduler(env)

	player := turn.NewActor("player", core.Coordinate{X: length - 1, Y: 0}, 10)
	player.Player = true
	env.Tracked = player

	bot := turn.NewActor("bot", core.Coordinate{X: 0, Y: 0}, 6)
	ctrl := NewSimpleMoveBot(DefaultShockTurns, testutil.NopLogger())
	ctrl.Attach(bot)

	s.Add(bot)
	s.Add(player)
	s.Start()
	require.Equal(t, bot, s.Current())
	return s, bot, player, ctrl
}

// runBotTurn ticks until the bot hands over to the player
func runBotTurn(t *testing.T, s *turn.Scheduler, bot *turn.Actor) {
	t.Helper()
	step := s.Env().Settings.StepInterval
	for i := 0; i < 200 && s.Current() == bot; i++ {
		s.Tick(step)
	}
	require.NotEqual(t, bot, s.Current(), "bot turn did not finish")
}

// passPlayer ends the player's turn so the bot comes round again
func passPlayer(t *testing.T, s *turn.Scheduler, player *turn.Actor) {
	t.Helper()
	require.Equal(t, player, s.Current())
	require.True(t, s.CommitAction(player, turn.NewEnd(s.Env(), player)))
	s.Tick(0)
}

func TestSimpleMoveBot_Attach(t *testing.T) {
	a := turn.NewActor("bot", core.Coordinate{}, 6)
	b := NewSimpleMoveBot(0, testutil.NopLogger())
	b.Attach(a)

	assert.Equal(t, b, a.Controller)
	assert.Equal(t, pathfinding.CostTargetPlayer, a.Cost)
	require.NotNil(t, a.OnHit)

	a.Hit(nil)
	assert.True(t, b.Shocked())
	assert.Equal(t, DefaultShockTurns, b.Shock())
}

func TestSimpleMoveBot_ClosesIn(t *testing.T) {
	s, bot, player, _ := chase(t, 8)

	s.Tick(0)
	_, moving := bot.Turn.Running.(*turn.EnemyMove)
	require.True(t, moving, "first decision is an enemy move")

	runBotTurn(t, s, bot)
	assert.Greater(t, bot.Position.X, 0)
	assert.LessOrEqual(t, bot.Position.ChebyshevTo(player.Position), s.Env().Settings.NearRadius)
	assert.NotEqual(t, player.Position, bot.Position)
	assert.Equal(t, 6, bot.Turn.Current, "budget restored for the next turn")
}

func TestSimpleMoveBot_ShockPassesTurns(t *testing.T) {
	s, bot, player, ctrl := chase(t, 8)
	shockTurns := 2
	ctrl.shockTurns = shockTurns
	bot.Hit(player)

	for turnNo := 0; turnNo < shockTurns; turnNo++ {
		start := bot.Position
		s.Tick(0)
		_, ended := bot.Turn.Running.(*turn.End)
		assert.True(t, ended, "shocked bot passes on turn %d", turnNo)
		runBotTurn(t, s, bot)
		assert.Equal(t, start, bot.Position)
		passPlayer(t, s, player)
	}
	assert.False(t, ctrl.Shocked())

	s.Tick(0)
	_, moving := bot.Turn.Running.(*turn.EnemyMove)
	assert.True(t, moving, "bot moves again once the shock wears off")
}

func TestSimpleMoveBot_EndTurnEarly(t *testing.T) {
	s, bot, player, ctrl := chase(t, 8)
	ctrl.EndTurnEarly()

	s.Tick(0)
	_, ended := bot.Turn.Running.(*turn.End)
	require.True(t, ended)
	runBotTurn(t, s, bot)
	assert.Equal(t, core.Coordinate{X: 0, Y: 0}, bot.Position)

	passPlayer(t, s, player)
	s.Tick(0)
	_, moving := bot.Turn.Running.(*turn.EnemyMove)
	assert.True(t, moving, "the flag only lasts one decision")
}

func TestSimpleMoveBot_NoTrackedActor(t *testing.T) {
	s, bot, _, _ := chase(t, 4)
	s.Env().Tracked = nil

	runBotTurn(t, s, bot)
	assert.Equal(t, 6, bot.Turn.Current)
}
