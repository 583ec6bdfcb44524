package control

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/common"
	"github.com/DragonMoffon/Temporum/internal/game"
	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/game/rules"
)

// StatusFrames is how long a status message stays up
const StatusFrames = 90

// Controller turns intents into calls on a World and keeps the client
// state both front ends share: cursor, open menu, fog toggle, status line.
type Controller struct {
	world   *game.World
	cursor  core.Coordinate
	menu    *rules.Menu
	pending rules.Entry
	showAll bool

	status    string
	statusTTL int

	logger zerolog.Logger
}

func New(w *game.World, logger zerolog.Logger) *Controller {
	c := &Controller{
		world:  w,
		logger: logger.With().Str("component", "Controller").Logger(),
	}
	if p := w.Player(); p != nil {
		c.cursor = p.Position
	}
	return c
}

func (c *Controller) World() *game.World      { return c.world }
func (c *Controller) Cursor() core.Coordinate { return c.cursor }
func (c *Controller) Menu() *rules.Menu       { return c.menu }
func (c *Controller) ShowAll() bool           { return c.showAll }

// Pending is the proposed entry awaiting confirmation
func (c *Controller) Pending() (rules.Entry, bool) {
	return c.pending, !c.pending.Blank()
}

// Status is the message line, empty once it has expired
func (c *Controller) Status() string {
	if c.statusTTL <= 0 {
		return ""
	}
	return c.status
}

// Preview is the path the player would walk to the cursor
func (c *Controller) Preview() []*core.Tile {
	if !c.world.PlayerTurn() {
		return nil
	}
	return c.world.Preview(c.cursor)
}

// Cells lays out the map with the fog toggle applied
func (c *Controller) Cells() [][]game.Cell {
	return c.world.Cells(c.showAll)
}

// Update advances the world one frame
func (c *Controller) Update(ctx context.Context, dt float64) error {
	if c.statusTTL > 0 {
		c.statusTTL--
	}
	scenario := c.world.Scenario()
	err := c.world.Tick(ctx, dt)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if err != nil {
		// a failed map load keeps the old map playable
		c.logger.Warn().Err(err).Msg("Tick failed")
		c.setStatus(common.Tr("UI_TRANSITION_FAILED"))
	}
	if c.world.Scenario() != scenario {
		c.menu = nil
		c.pending = rules.Entry{}
		c.cursor = c.world.Player().Position
	}
	if c.pending.Blank() && c.menu != nil && !c.world.PlayerTurn() {
		c.menu = nil
	}
	return nil
}

// Apply handles one intent
func (c *Controller) Apply(in Intent) {
	if in.Kind == IntentToggleFog {
		c.showAll = !c.showAll
		return
	}
	if in.Kind == IntentHover {
		c.hover(in.Tile)
		return
	}
	if !c.world.Dialogue().IsDone() {
		c.applyDialogue(in)
		return
	}

	switch in.Kind {
	case IntentSelect:
		c.selectTile(in.Tile)
	case IntentScroll:
		if c.menu != nil {
			c.menu.Scroll(in.Dir)
		}
	case IntentChoose:
		c.choose(in.Slot)
	case IntentConfirm:
		c.confirm()
	case IntentCancel:
		c.cancel()
	}
}

func (c *Controller) hover(at core.Coordinate) {
	if c.world.Graph().InBounds(at) {
		c.cursor = at
	}
}

func (c *Controller) selectTile(at core.Coordinate) {
	if !c.world.Graph().InBounds(at) {
		return
	}
	c.cursor = at
	if !c.world.PlayerTurn() {
		c.setStatus(common.Tr("UI_NOT_YOUR_TURN"))
		return
	}
	c.clearPending()
	c.menu = c.world.Menu(at)
	c.logger.Debug().Stringer("at", at).Int("entries", c.menu.Len()).Msg("Menu opened")
}

func (c *Controller) choose(slot int) {
	if c.menu == nil {
		return
	}
	entry, ok := c.menu.Select(slot)
	if entry.Blank() {
		return
	}
	if !ok {
		c.setStatus(common.Tr("UI_UNAVAILABLE", entry.Label))
		return
	}
	if !c.world.Propose(entry) {
		c.setStatus(common.Tr("UI_REJECTED", entry.Label))
		return
	}
	c.pending = entry
	c.setStatus(common.Tr("UI_PENDING", entry.Label))
}

func (c *Controller) confirm() {
	if c.pending.Blank() {
		c.setStatus(common.Tr("UI_NO_PENDING"))
		return
	}
	label := c.pending.Label
	c.pending = rules.Entry{}
	c.menu = nil
	if !c.world.Confirm() {
		c.setStatus(common.Tr("UI_REJECTED", label))
		return
	}
	c.statusTTL = 0
}

func (c *Controller) cancel() {
	if !c.pending.Blank() {
		c.clearPending()
		return
	}
	c.menu = nil
}

func (c *Controller) clearPending() {
	if c.pending.Blank() {
		return
	}
	c.world.Cancel()
	c.pending = rules.Entry{}
	c.statusTTL = 0
}

func (c *Controller) applyDialogue(in Intent) {
	d := c.world.Dialogue()
	switch in.Kind {
	case IntentConfirm, IntentSelect:
		if len(d.Choices()) == 0 {
			d.Advance()
		}
	case IntentScroll:
		if in.Dir < 0 {
			d.Back()
		} else if len(d.Choices()) == 0 {
			d.Advance()
		}
	case IntentCancel:
		d.Close()
	case IntentAnswer:
		choices := d.Choices()
		if in.Slot < 0 || in.Slot >= len(choices) {
			return
		}
		if err := d.Choose(choices[in.Slot]); err != nil {
			c.logger.Warn().Err(err).Str("choice", choices[in.Slot]).Msg("Dialogue choice failed")
		}
	}
}

func (c *Controller) setStatus(msg string) {
	c.status = msg
	c.statusTTL = StatusFrames
}
