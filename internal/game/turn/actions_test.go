package turn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/game/events"
	"github.com/DragonMoffon/Temporum/internal/testutil"
)

type fakeDialogue struct {
	opened []string
	done   bool
	err    error
}

func (d *fakeDialogue) Open(key string) error {
	if d.err != nil {
		return d.err
	}
	d.opened = append(d.opened, key)
	return nil
}

func (d *fakeDialogue) IsDone() bool { return d.done }

type fakeTransit struct {
	gates []core.Gate
}

func (f *fakeTransit) Transition(_ *Actor, gate core.Gate) error {
	f.gates = append(f.gates, gate)
	return nil
}

// startSingle schedules one actor and makes it current
func startSingle(env *Env, a *Actor) *Scheduler {
	s := NewScheduler(env)
	s.Add(a)
	s.Start()
	return s
}

func TestFloor10(t *testing.T) {
	tests := []struct {
		distance float64
		want     int
	}{
		{0, 0},
		{3, 0},
		{9.99, 0},
		{10, 10},
		{24.5, 20},
		{31, 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, floor10(tt.distance), "distance %v", tt.distance)
	}
}

func TestMove_WalksOneStepPerInterval(t *testing.T) {
	g := testutil.Corridor(6)
	env, log := newTestEnv(g)
	a := NewActor("walker", core.Coordinate{X: 0, Y: 0}, 4)
	s := startSingle(env, a)

	move := NewMove(env, a, g.TileAt(3, 0))
	require.Equal(t, 3, move.Cost())
	require.True(t, s.CommitAction(a, move))
	assert.Equal(t, 1, a.Turn.Current)
	assert.Len(t, move.Progress.Remaining, 3)

	step := env.Settings.StepInterval
	s.Tick(step / 2)
	assert.Equal(t, core.Coordinate{X: 0, Y: 0}, a.Position, "half an interval does not step")

	s.Tick(step / 2)
	assert.Equal(t, core.Coordinate{X: 1, Y: 0}, a.Position)

	// a large frame still takes a single step
	s.Tick(step * 5)
	assert.Equal(t, core.Coordinate{X: 2, Y: 0}, a.Position)

	s.Tick(step)
	assert.Equal(t, core.Coordinate{X: 3, Y: 0}, a.Position)
	assert.True(t, move.Progress.Done())
	assert.Nil(t, a.Turn.Running)
	assert.Equal(t, a, s.Current(), "one point of initiative is left")

	assert.Equal(t, 3, log.count(events.TypeActorMoved))
	assert.Equal(t, []*core.Piece{a.Piece}, g.TileAt(3, 0).Visitors())
	assert.Empty(t, g.TileAt(0, 0).Visitors())

	// reachability follows the actor
	assert.Equal(t, g.TileAt(3, 0), a.Reach.Start)
	assert.Len(t, a.Reach.CostSoFar, 3)
}

func TestMove_TruncatesToBudget(t *testing.T) {
	g := testutil.Corridor(8)
	env, _ := newTestEnv(g)
	a := NewActor("walker", core.Coordinate{X: 0, Y: 0}, 2)
	s := startSingle(env, a)

	move := NewMove(env, a, g.TileAt(6, 0))
	assert.Equal(t, 2, move.Cost())
	assert.Equal(t, g.TileAt(2, 0), move.Path()[1])
	assert.True(t, s.CommitAction(a, move))
	assert.Equal(t, 0, a.Turn.Current)
}

func TestMove_NoPathCannotComplete(t *testing.T) {
	g := testutil.GraphFromRows("..#..")
	env, _ := newTestEnv(g)
	a := NewActor("walker", core.Coordinate{X: 0, Y: 0}, 6)
	s := startSingle(env, a)

	move := NewMove(env, a, g.TileAt(4, 0))
	assert.False(t, move.CanComplete())
	assert.False(t, s.CommitAction(a, move))
	assert.Equal(t, 6, a.Turn.Current)

	assert.False(t, NewMove(env, a, g.TileAt(0, 0)).CanComplete(), "standing still is not a move")
}

func TestEnemyMove_HeadsNearTarget(t *testing.T) {
	g := testutil.OpenGrid(7, 7)
	env, _ := newTestEnv(g)
	player := NewActor("player", core.Coordinate{X: 3, Y: 3}, 10)
	bot := NewActor("bot", core.Coordinate{X: 0, Y: 0}, 6)

	for seed := int64(0); seed < 10; seed++ {
		env.Rand = testutil.NewTestRNG(seed)
		move := NewEnemyMove(env, bot, player)
		require.NotNil(t, move.Goal())
		goal := move.Goal().Location()
		assert.LessOrEqual(t, goal.ChebyshevTo(player.Position), env.Settings.NearRadius)
		assert.NotEqual(t, player.Position, goal)
		assert.NotEqual(t, bot.Position, goal)
		assert.Equal(t, goal.DistanceTo(bot.Position), move.Cost())
		assert.LessOrEqual(t, move.Cost(), bot.Turn.Current)
	}
}

func TestEnemyMove_FallsBackToFrontier(t *testing.T) {
	g := testutil.OpenGrid(12, 12)
	env, _ := newTestEnv(g)
	player := NewActor("player", core.Coordinate{X: 11, Y: 11}, 10)
	bot := NewActor("bot", core.Coordinate{X: 0, Y: 0}, 3)

	move := NewEnemyMove(env, bot, player)
	require.NotNil(t, move.Goal())
	assert.True(t, bot.Reach.IsEdge(move.Goal()))
	assert.NotEqual(t, bot.Position, move.Goal().Location())
	assert.Positive(t, move.Cost())
}

func TestEnemyMove_NoPathEndsTurn(t *testing.T) {
	g := testutil.GraphFromRows(".#.")
	env, _ := newTestEnv(g)
	player := NewActor("player", core.Coordinate{X: 2, Y: 0}, 10)
	bot := NewActor("bot", core.Coordinate{X: 0, Y: 0}, 6)
	s := startSingle(env, bot)

	move := NewEnemyMove(env, bot, player)
	assert.Equal(t, 0, move.Cost())
	assert.True(t, move.CanComplete())

	round := s.Round()
	require.True(t, s.CommitAction(bot, move))
	assert.Equal(t, 0, bot.Turn.Current)
	s.Tick(0)
	assert.Equal(t, round+1, s.Round(), "turn ended and the next round began")
	assert.Equal(t, 6, bot.Turn.Current)
}

func TestInteract(t *testing.T) {
	g := testutil.GraphFromRows(".T..")
	terminal := g.TileAt(1, 0)

	t.Run("OpensAndWaits", func(t *testing.T) {
		env, _ := newTestEnv(g)
		dialogue := &fakeDialogue{}
		env.Dialogue = dialogue
		a := NewActor("a", core.Coordinate{X: 0, Y: 0}, 5)
		s := startSingle(env, a)
		defer s.Remove(a)

		act, err := NewAction(env, a, core.Interact, Target{Tile: terminal})
		require.NoError(t, err)
		assert.Equal(t, 2, act.Cost())
		require.True(t, s.CommitAction(a, act))
		assert.Equal(t, []string{"terminal"}, dialogue.opened)

		s.Tick(1)
		assert.NotNil(t, a.Turn.Running, "still talking")
		dialogue.done = true
		s.Tick(1)
		assert.Nil(t, a.Turn.Running)
		assert.Equal(t, 3, a.Turn.Current)
	})

	t.Run("Preconditions", func(t *testing.T) {
		env, _ := newTestEnv(g)
		env.Dialogue = &fakeDialogue{}
		near := NewActor("near", core.Coordinate{X: 2, Y: 0}, 5)
		far := NewActor("far", core.Coordinate{X: 3, Y: 0}, 5)

		assert.True(t, NewInteract(env, near, terminal.Location(), terminal.Actions(core.Interact)[0]).CanComplete())
		assert.False(t, NewInteract(env, far, terminal.Location(), terminal.Actions(core.Interact)[0]).CanComplete())
		assert.False(t, NewInteract(env, near, terminal.Location(), nil).CanComplete())

		env.Dialogue = nil
		assert.False(t, NewInteract(env, near, terminal.Location(), terminal.Actions(core.Interact)[0]).CanComplete())
	})

	t.Run("OpenFailureFinishesImmediately", func(t *testing.T) {
		env, _ := newTestEnv(g)
		env.Dialogue = &fakeDialogue{err: errors.New("missing")}
		a := NewActor("a", core.Coordinate{X: 0, Y: 0}, 5)
		act := NewInteract(env, a, terminal.Location(), terminal.Actions(core.Interact)[0])
		act.Begin()
		assert.True(t, act.Tick(0))
	})
}

func TestShoot(t *testing.T) {
	g := testutil.OpenGrid(30, 1)

	t.Run("CostScalesWithDistance", func(t *testing.T) {
		env, _ := newTestEnv(g)
		shooter := NewActor("shooter", core.Coordinate{X: 0, Y: 0}, 20)
		tests := []struct {
			x    int
			want int
		}{
			{1, 5},
			{9, 5},
			{10, 10},
			{24, 15},
		}
		for _, tt := range tests {
			target := NewActor("target", core.Coordinate{X: tt.x, Y: 0}, 5)
			assert.Equal(t, tt.want, NewShoot(env, shooter, target).Cost(), "x=%d", tt.x)
		}
	})

	t.Run("RequiresVisibleShooter", func(t *testing.T) {
		env, _ := newTestEnv(g)
		shooter := NewActor("shooter", core.Coordinate{X: 0, Y: 0}, 20)
		target := NewActor("target", core.Coordinate{X: 4, Y: 0}, 5)

		env.Vision = testutil.VisibleSet{target.Position: true}
		assert.False(t, NewShoot(env, shooter, target).CanComplete())

		env.Vision = testutil.VisibleSet{shooter.Position: true}
		assert.True(t, NewShoot(env, shooter, target).CanComplete())
		assert.False(t, NewShoot(env, shooter, shooter).CanComplete())
		assert.False(t, NewShoot(env, shooter, nil).CanComplete())
	})

	t.Run("HitsAfterAnimation", func(t *testing.T) {
		env, log := newTestEnv(g)
		shooter := NewActor("shooter", core.Coordinate{X: 0, Y: 0}, 20)
		target := NewActor("target", core.Coordinate{X: 4, Y: 0}, 5)
		env.Vision = testutil.VisibleSet{shooter.Position: true}

		var hitBy []*Actor
		target.OnHit = func(by *Actor) { hitBy = append(hitBy, by) }

		s := startSingle(env, shooter)
		shot := NewShoot(env, shooter, target)
		require.True(t, s.CommitAction(shooter, shot))

		for i := 0; i < env.Settings.ShotFrames-1; i++ {
			s.Tick(env.Settings.StepInterval)
		}
		assert.Empty(t, hitBy)
		assert.Equal(t, env.Settings.ShotFrames-1, shot.Progress.Frame)

		s.Tick(env.Settings.StepInterval)
		assert.Equal(t, []*Actor{shooter}, hitBy)
		assert.Equal(t, 1, log.count(events.TypeActorHit))
		assert.Equal(t, 15, shooter.Turn.Current)
	})
}

func TestLeaveMap(t *testing.T) {
	g := testutil.GraphFromRows(">..")
	gate := g.TileAt(0, 0)

	t.Run("OnGate", func(t *testing.T) {
		env, _ := newTestEnv(g)
		transit := &fakeTransit{}
		env.Transit = transit
		a := NewActor("a", core.Coordinate{X: 0, Y: 0}, 3)
		s := startSingle(env, a)
		defer s.Remove(a)

		act, err := NewAction(env, a, core.LeaveMap, Target{Tile: gate})
		require.NoError(t, err)
		assert.Equal(t, 0, act.Cost())
		require.True(t, s.CommitAction(a, act))
		assert.Equal(t, []core.Gate{{Scenario: "next"}}, transit.gates)
		assert.Equal(t, 3, a.Turn.Current)
	})

	t.Run("OffGate", func(t *testing.T) {
		env, _ := newTestEnv(g)
		env.Transit = &fakeTransit{}
		a := NewActor("a", core.Coordinate{X: 1, Y: 0}, 3)
		act, err := NewAction(env, a, core.LeaveMap, Target{Tile: gate})
		require.NoError(t, err)
		assert.False(t, act.CanComplete())
	})
}

func TestNewAction_Errors(t *testing.T) {
	g := testutil.OpenGrid(2, 1)
	env, _ := newTestEnv(g)
	a := NewActor("a", core.Coordinate{X: 0, Y: 0}, 3)

	_, err := NewAction(env, a, core.Move, Target{})
	assert.Error(t, err)

	_, err = NewAction(env, a, core.None, Target{})
	assert.ErrorIs(t, err, core.ErrUnknownAction)

	act, err := NewAction(env, a, core.Hold, Target{})
	require.NoError(t, err)
	assert.Equal(t, core.Hold, act.Kind())
}
