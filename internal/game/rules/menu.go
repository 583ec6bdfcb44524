package rules

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/common"
	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/game/turn"
)

var priorities = map[core.ActionKind]int{
	core.Move:     0,
	core.LeaveMap: 1,
	core.Interact: 2,
	core.Shoot:    3,
	core.Hold:     4,
	core.Dash:     5,
	core.End:      6,
}

var labelKeys = map[core.ActionKind]string{
	core.Move:      "ACTION_MOVE",
	core.EnemyMove: "ACTION_ENEMY_MOVE",
	core.Hold:      "ACTION_HOLD",
	core.Dash:      "ACTION_DASH",
	core.Interact:  "ACTION_INTERACT",
	core.Shoot:     "ACTION_SHOOT",
	core.LeaveMap:  "ACTION_LEAVE",
	core.End:       "ACTION_END",
}

// DefaultActions are offered on every tile
var DefaultActions = []core.ActionKind{core.End, core.Hold, core.Dash}

// Priority orders menu entries, lowest first
func Priority(kind core.ActionKind) int {
	if p, ok := priorities[kind]; ok {
		return p
	}
	return 10
}

// Label returns the translated name of an action kind
func Label(kind core.ActionKind) string {
	key, ok := labelKeys[kind]
	if !ok {
		return ""
	}
	return common.Tr(key)
}

// Entry is one offered action
type Entry struct {
	Kind    core.ActionKind
	Label   string
	Action  turn.Action
	Enabled bool
}

// Blank reports whether the entry only pads the menu
func (e Entry) Blank() bool { return e.Action == nil }

// ActorLookup finds the actor standing on a coordinate
type ActorLookup func(core.Coordinate) *turn.Actor

// MenuBuilder works out which actions a tile offers the current actor
type MenuBuilder struct {
	env    *turn.Env
	actors ActorLookup
	logger zerolog.Logger
}

func NewMenuBuilder(env *turn.Env, actors ActorLookup, logger zerolog.Logger) *MenuBuilder {
	return &MenuBuilder{
		env:    env,
		actors: actors,
		logger: logger.With().Str("component", "ActionMenu").Logger(),
	}
}

// Build lists the actions for actor aimed at the tile at c. Entries the
// actor cannot afford or complete right now are kept but disabled.
func (b *MenuBuilder) Build(actor *turn.Actor, at core.Coordinate) *Menu {
	m := &Menu{At: at}
	tile := b.env.Graph.Tile(at)

	var kinds []core.ActionKind
	if tile != nil {
		kinds = tile.ActionKinds()
	}
	for _, k := range DefaultActions {
		if !containsKind(kinds, k) {
			kinds = append(kinds, k)
		}
	}

	var target *turn.Actor
	if b.actors != nil {
		target = b.actors(at)
	}

	for _, kind := range kinds {
		if !playerFacing(kind) {
			continue
		}
		if kind == core.Shoot && (target == nil || target == actor) {
			continue
		}
		act, err := turn.NewAction(b.env, actor, kind, turn.Target{Tile: tile, Actor: target})
		if err != nil {
			b.logger.Debug().Err(err).Stringer("at", at).Msg("Action not offered")
			continue
		}
		m.Entries = append(m.Entries, Entry{
			Kind:    kind,
			Label:   Label(kind),
			Action:  act,
			Enabled: act.CanComplete() && act.Cost() <= actor.Turn.Current,
		})
	}

	sort.SliceStable(m.Entries, func(i, j int) bool {
		return Priority(m.Entries[i].Kind) < Priority(m.Entries[j].Kind)
	})
	// entries are shown in pairs
	if len(m.Entries)%2 == 1 {
		m.Entries = append(m.Entries, Entry{Kind: core.None})
	}
	return m
}

func playerFacing(kind core.ActionKind) bool {
	return kind != core.None && kind != core.EnemyMove
}

func containsKind(kinds []core.ActionKind, k core.ActionKind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}

// Menu is the list of actions offered for one tile, browsed two at a time
type Menu struct {
	At      core.Coordinate
	Entries []Entry
	page    int
}

func (m *Menu) Len() int { return len(m.Entries) }

// Page is the index of the pair on show
func (m *Menu) Page() int { return m.page / 2 }

// Pages is how many pairs the menu holds
func (m *Menu) Pages() int { return len(m.Entries) / 2 }

// Pair returns the two entries currently shown
func (m *Menu) Pair() (Entry, Entry) {
	if len(m.Entries) < 2 {
		return Entry{}, Entry{}
	}
	return m.Entries[m.page], m.Entries[m.page+1]
}

// Scroll moves to the next (dir > 0) or previous (dir < 0) pair, wrapping
func (m *Menu) Scroll(dir int) {
	n := len(m.Entries)
	if n < 2 {
		return
	}
	m.page += 2 * dir
	if m.page < 0 {
		m.page = n - 2
	} else {
		m.page %= n
	}
}

// Select returns the entry in slot 0 or 1 of the current pair when it is enabled
func (m *Menu) Select(slot int) (Entry, bool) {
	first, second := m.Pair()
	e := first
	if slot == 1 {
		e = second
	}
	if e.Blank() || !e.Enabled {
		return e, false
	}
	return e, true
}

// Find returns the first enabled entry of the given kind
func (m *Menu) Find(kind core.ActionKind) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Kind == kind && e.Enabled {
			return e, true
		}
	}
	return Entry{}, false
}
