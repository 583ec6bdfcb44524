package control

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DragonMoffon/Temporum/internal/common"
	"github.com/DragonMoffon/Temporum/internal/game"
	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/game/dialogue"
	"github.com/DragonMoffon/Temporum/internal/game/layout"
	"github.com/DragonMoffon/Temporum/internal/testutil"
)

const roomYAML = `
name: room
rows:
  - "#####"
  - "#...#"
  - "#.T.#"
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
player:
  at: {x: 3, y: 2}
`

const yardYAML = `
name: yard
rows:
  - "#####"
  - "#...#"
  - "#####"
player:
  at: {x: 1, y: 1}
`

const terminalDialogue = `
terminal:
  speakers: [terminal, player]
  initiate: "Hello."
  inputs:
    bye:
      response: "Bye."
`

func newController(t *testing.T) *Controller {
	t.Helper()
	lib := layout.NewLibrary(t.TempDir(), testutil.NopLogger())
	for _, doc := range []string{roomYAML, yardYAML} {
		sc, err := layout.Parse([]byte(doc))
		require.NoError(t, err)
		lib.Register(sc)
	}
	set, err := dialogue.Parse([]byte(terminalDialogue))
	require.NoError(t, err)

	w, err := game.NewWorld(context.Background(), game.WorldConfig{
		Start:     "room",
		Library:   lib,
		Dialogues: set,
		Rng:       testutil.NewTestRNG(5),
		Logger:    testutil.NopLogger(),
	})
	require.NoError(t, err)
	return New(w, testutil.NopLogger())
}

func step(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.Update(context.Background(), c.World().Env().Settings.StepInterval))
}

// chooseKind scrolls the open menu to the entry of kind and proposes it
func chooseKind(t *testing.T, c *Controller, kind core.ActionKind) {
	t.Helper()
	require.NotNil(t, c.Menu())
	for i := 0; i < c.Menu().Len(); i += 2 {
		first, second := c.Menu().Pair()
		if first.Kind == kind {
			c.Apply(Choose(0))
			return
		}
		if second.Kind == kind {
			c.Apply(Choose(1))
			return
		}
		c.Apply(Scroll(1))
	}
	t.Fatalf("%s not offered", kind)
}

func TestController_New(t *testing.T) {
	c := newController(t)
	assert.Equal(t, core.Coordinate{X: 3, Y: 2}, c.Cursor())
	assert.Nil(t, c.Menu())
	assert.Empty(t, c.Status())
	_, ok := c.Pending()
	assert.False(t, ok)
}

func TestController_Hover(t *testing.T) {
	c := newController(t)
	c.Apply(Hover(core.Coordinate{X: 1, Y: 1}))
	assert.Equal(t, core.Coordinate{X: 1, Y: 1}, c.Cursor())
	assert.Nil(t, c.Menu(), "hovering does not open a menu")

	c.Apply(Hover(core.Coordinate{X: 40, Y: 1}))
	assert.Equal(t, core.Coordinate{X: 1, Y: 1}, c.Cursor(), "off map ignored")
	assert.Len(t, c.Preview(), 3, "around the terminal")
}

func TestController_ProposeAndConfirmMove(t *testing.T) {
	c := newController(t)
	goal := core.Coordinate{X: 3, Y: 1}

	c.Apply(Select(goal))
	require.NotNil(t, c.Menu())
	chooseKind(t, c, core.Move)

	entry, ok := c.Pending()
	require.True(t, ok)
	assert.Equal(t, core.Move, entry.Kind)
	assert.NotNil(t, c.World().Player().Turn.Pending)
	assert.Equal(t, common.Tr("UI_PENDING", entry.Label), c.Status())

	c.Apply(Confirm())
	assert.Nil(t, c.Menu())
	_, ok = c.Pending()
	assert.False(t, ok)

	for i := 0; i < 100 && c.World().Player().Position != goal; i++ {
		step(t, c)
	}
	assert.Equal(t, goal, c.World().Player().Position)
}

func TestController_Cancel(t *testing.T) {
	c := newController(t)
	c.Apply(Select(core.Coordinate{X: 3, Y: 1}))
	chooseKind(t, c, core.Move)

	c.Apply(Cancel())
	_, ok := c.Pending()
	assert.False(t, ok)
	assert.Nil(t, c.World().Player().Turn.Pending)
	assert.NotNil(t, c.Menu(), "first cancel only drops the proposal")

	c.Apply(Cancel())
	assert.Nil(t, c.Menu())
}

func TestController_ConfirmWithoutProposal(t *testing.T) {
	c := newController(t)
	c.Apply(Confirm())
	assert.Equal(t, common.Tr("UI_NO_PENDING"), c.Status())

	for i := 0; i < StatusFrames; i++ {
		step(t, c)
	}
	assert.Empty(t, c.Status())
}

func TestController_Dialogue(t *testing.T) {
	c := newController(t)
	c.Apply(Select(core.Coordinate{X: 2, Y: 2}))
	chooseKind(t, c, core.Interact)
	c.Apply(Confirm())

	d := c.World().Dialogue()
	require.False(t, d.IsDone())
	speaker, text, ok := d.Page()
	require.True(t, ok)
	assert.Equal(t, "terminal", speaker)
	assert.Equal(t, "Hello.", text)

	c.Apply(Answer(0))
	assert.Equal(t, dialogue.Initiating, d.Stage(), "no choice on offer yet")

	c.Apply(Confirm())
	require.Equal(t, []string{"bye"}, d.Choices())
	c.Apply(Confirm())
	assert.Equal(t, dialogue.Choosing, d.Stage(), "confirm does not pick a choice")

	c.Apply(Answer(3))
	assert.Equal(t, dialogue.Choosing, d.Stage())
	c.Apply(Answer(0))
	_, text, _ = d.Page()
	assert.Equal(t, "Bye.", text)

	c.Apply(Scroll(1))
	assert.True(t, d.IsDone())

	for i := 0; i < 10 && !c.World().PlayerTurn(); i++ {
		step(t, c)
	}
	assert.True(t, c.World().PlayerTurn())
}

func TestController_DialogueCancelCloses(t *testing.T) {
	c := newController(t)
	c.Apply(Select(core.Coordinate{X: 2, Y: 2}))
	chooseKind(t, c, core.Interact)
	c.Apply(Confirm())
	require.False(t, c.World().Dialogue().IsDone())

	c.Apply(Select(core.Coordinate{X: 1, Y: 1}))
	assert.Nil(t, c.Menu(), "map input is held while talking")

	c.Apply(Cancel())
	assert.True(t, c.World().Dialogue().IsDone())
}

func TestController_ToggleFog(t *testing.T) {
	c := newController(t)
	assert.False(t, c.ShowAll())
	c.Apply(ToggleFog())
	assert.True(t, c.ShowAll())
	assert.True(t, c.Cells()[0][0].Visible)
}

func TestController_FollowsTransition(t *testing.T) {
	c := newController(t)
	c.Apply(Select(core.Coordinate{X: 1, Y: 1}))
	require.NotNil(t, c.Menu())

	require.NoError(t, c.World().Transition(c.World().Player(), core.Gate{Scenario: "yard", Spawn: core.Coordinate{X: 2, Y: 1}}))
	step(t, c)

	assert.Equal(t, "yard", c.World().Scenario().Name)
	assert.Equal(t, core.Coordinate{X: 2, Y: 1}, c.Cursor())
	assert.Nil(t, c.Menu())
}

func TestController_FailedTransition(t *testing.T) {
	c := newController(t)
	require.NoError(t, c.World().Transition(c.World().Player(), core.Gate{Scenario: "nowhere"}))
	step(t, c)
	assert.Equal(t, "room", c.World().Scenario().Name)
	assert.Equal(t, common.Tr("UI_TRANSITION_FAILED"), c.Status())
}
