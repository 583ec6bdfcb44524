//go:build !debugassert

package core

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openGraph(t *testing.T, w, h int) *Graph {
	t.Helper()
	g := NewGraph(w, h, zerolog.Nop())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, err := g.Place(Coordinate{x, y}, Floor())
			require.NoError(t, err)
		}
	}
	g.FindNeighbours()
	return g
}

func TestTile_DirectionMaskAggregation(t *testing.T) {
	g := NewGraph(1, 1, zerolog.Nop())
	a := NewPiece("a", MaskOf(true, true, true, false), AllOpen)
	b := NewPiece("b", MaskOf(true, false, true, true), AllOpen)

	tile, err := g.Place(Coordinate{0, 0}, a, b)
	require.NoError(t, err)
	assert.Equal(t, MaskOf(true, false, true, false), tile.Directions())

	require.NoError(t, g.RemovePiece(Coordinate{0, 0}, b))
	assert.Equal(t, MaskOf(true, true, true, false), tile.Directions())

	require.NoError(t, g.RemovePiece(Coordinate{0, 0}, a))
	assert.Equal(t, AllOpen, tile.Directions(), "empty tile is open")
}

func TestTile_RemovingOneOfTwoBlockersKeepsEdgeClosed(t *testing.T) {
	g := NewGraph(1, 1, zerolog.Nop())
	first := NewPiece("crate", MaskOf(false, true, true, true), MaskOf(false, true, true, true))
	second := NewPiece("barrel", MaskOf(false, true, true, true), AllOpen)

	tile, err := g.Place(Coordinate{0, 0}, first, second)
	require.NoError(t, err)

	require.NoError(t, g.RemovePiece(Coordinate{0, 0}, first))
	assert.False(t, tile.Directions()[North])
	assert.True(t, tile.Vision()[North])
}

func TestTile_ActionIndex(t *testing.T) {
	g := NewGraph(2, 1, zerolog.Nop())
	door := NewPiece("terminal", AllOpen, AllOpen, Interact)
	door.Interaction = "tutorial"
	tile, err := g.Place(Coordinate{0, 0}, Floor(), door)
	require.NoError(t, err)

	assert.True(t, tile.HasAction(Move))
	assert.Equal(t, []*Piece{door}, tile.Actions(Interact))
	assert.Equal(t, []ActionKind{Move, Interact}, tile.ActionKinds())

	require.NoError(t, g.RemovePiece(Coordinate{0, 0}, door))
	assert.False(t, tile.HasAction(Interact))
}

func TestGraph_VisitorsOnlyAffectActions(t *testing.T) {
	g := openGraph(t, 2, 1)
	actor := NewPiece("bot", AllClosed, AllClosed, Shoot)

	require.NoError(t, g.AddVisitor(Coordinate{0, 0}, actor))
	tile := g.TileAt(0, 0)
	assert.Equal(t, AllOpen, tile.Directions())
	assert.True(t, tile.HasAction(Shoot))

	require.NoError(t, g.MoveVisitor(Coordinate{0, 0}, Coordinate{1, 0}, actor))
	assert.False(t, tile.HasAction(Shoot))
	assert.True(t, g.TileAt(1, 0).HasAction(Shoot))
}

func TestGraph_FindNeighboursLinksBothWays(t *testing.T) {
	g := NewGraph(3, 3, zerolog.Nop())
	for _, c := range []Coordinate{{0, 0}, {1, 0}, {2, 0}, {1, 1}, {1, 2}} {
		_, err := g.Place(c, Floor())
		require.NoError(t, err)
	}
	g.FindNeighbours()

	centre := g.TileAt(1, 1)
	assert.Equal(t, 4, centre.Index())
	assert.Equal(t, g.TileAt(1, 0), g.Neighbour(centre, North))
	assert.Equal(t, g.TileAt(1, 2), g.Neighbour(centre, South))
	assert.Nil(t, g.Neighbour(centre, East))
	assert.Nil(t, g.Neighbour(centre, West))

	top := g.TileAt(1, 0)
	assert.Equal(t, centre, g.Neighbour(top, South))
	assert.Equal(t, g.TileAt(0, 0), g.Neighbour(top, West))
	assert.Equal(t, g.TileAt(2, 0), g.Neighbour(top, East))
	assert.Nil(t, g.Neighbour(g.TileAt(0, 0), North))
}

func TestGraph_PassableChecksBothSides(t *testing.T) {
	g := openGraph(t, 2, 1)
	left, right := g.TileAt(0, 0), g.TileAt(1, 0)

	_, ok := g.Passable(left, East)
	assert.True(t, ok)

	blocker := NewPiece("railing", MaskOf(true, true, true, false), AllOpen)
	require.NoError(t, g.AddPiece(right.Location(), blocker))

	n, ok := g.Passable(left, East)
	assert.Equal(t, right, n)
	assert.False(t, ok, "right tile vetoes entry from the west")
	_, ok = g.Passable(right, West)
	assert.False(t, ok)

	_, ok = g.Passable(left, West)
	assert.False(t, ok, "no tile beyond the boundary")
}

func TestGraph_VisionHookAndVersion(t *testing.T) {
	g := openGraph(t, 2, 2)
	var changed []Coordinate
	g.OnVisionChange(func(tile *Tile) { changed = append(changed, tile.Location()) })

	v := g.Version()
	require.NoError(t, g.AddPiece(Coordinate{1, 1}, NewPiece("glass", AllClosed, AllOpen)))
	assert.Empty(t, changed, "movement-only change")
	assert.Greater(t, g.Version(), v)

	require.NoError(t, g.AddPiece(Coordinate{0, 1}, Wall()))
	assert.Equal(t, []Coordinate{{0, 1}}, changed)
}

func TestGraph_InconsistentStateIsNoOp(t *testing.T) {
	g := openGraph(t, 2, 2)

	err := g.AddPiece(Coordinate{5, 5}, Wall())
	assert.True(t, errors.Is(err, ErrTileNotFound))
	assert.Equal(t, "tile (5,5): no tile at coordinate", err.Error())

	err = g.RemovePiece(Coordinate{0, 0}, Wall())
	assert.True(t, errors.Is(err, ErrPieceNotFound))
	assert.Equal(t, AllOpen, g.TileAt(0, 0).Directions())

	_, err = g.Place(Coordinate{-1, 0})
	assert.True(t, errors.Is(err, ErrInvalidCoordinates))
}

func TestWrapActionError(t *testing.T) {
	assert.Nil(t, WrapActionError("player", Shoot, nil))

	err := WrapActionError("player", Shoot, ErrActionRejected)
	assert.Equal(t, "player: shoot: action rejected", err.Error())
	assert.True(t, errors.Is(err, ErrActionRejected))

	err = WrapActionError("", Hold, ErrNotCurrentActor)
	assert.Equal(t, "hold action: actor is not the current actor", err.Error())
}

func TestParseActionKind(t *testing.T) {
	for kind, name := range actionKindNames {
		got, err := ParseActionKind(name)
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}
	_, err := ParseActionKind("teleport")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestParseMask(t *testing.T) {
	tests := []struct {
		in      string
		want    Mask
		wantErr bool
	}{
		{"1110", MaskOf(true, true, true, false), false},
		{"0000", AllClosed, false},
		{"", AllOpen, false},
		{"111", Mask{}, true},
		{"11x0", Mask{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMask(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.in != "" {
				assert.Equal(t, tt.in, got.String())
			}
		})
	}
}
