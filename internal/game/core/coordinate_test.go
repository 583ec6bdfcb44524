package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinate_FromIndex(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		width    int
		expected Coordinate
	}{
		{"TopLeft", 0, 10, Coordinate{0, 0}},
		{"TopRight", 9, 10, Coordinate{9, 0}},
		{"SecondRow", 10, 10, Coordinate{0, 1}},
		{"SmallGrid", 7, 4, Coordinate{3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromIndex(tt.index, tt.width))
			assert.Equal(t, tt.index, tt.expected.ToIndex(tt.width))
		})
	}
}

func TestCoordinate_Distances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Coordinate
		manhattan int
		chebyshev int
		euclid    float64
	}{
		{"Same", Coordinate{2, 2}, Coordinate{2, 2}, 0, 0, 0},
		{"Orthogonal", Coordinate{0, 0}, Coordinate{0, 3}, 3, 3, 3},
		{"Diagonal", Coordinate{1, 1}, Coordinate{2, 2}, 2, 1, 1.4142},
		{"Knight", Coordinate{0, 0}, Coordinate{3, 4}, 7, 4, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.manhattan, tt.a.DistanceTo(tt.b))
			assert.Equal(t, tt.chebyshev, tt.a.ChebyshevTo(tt.b))
			assert.InDelta(t, tt.euclid, tt.a.EuclideanTo(tt.b), 0.001)
		})
	}
}

func TestDirection_Opposite(t *testing.T) {
	assert.Equal(t, South, North.Opposite())
	assert.Equal(t, West, East.Opposite())
	assert.Equal(t, North, South.Opposite())
	assert.Equal(t, East, West.Opposite())
}

func TestCoordinate_MoveAndDirectionTo(t *testing.T) {
	origin := Coordinate{5, 5}
	for _, d := range AllDirections {
		next := origin.Move(d)
		assert.Equal(t, d, origin.DirectionTo(next), d.String())
		assert.Equal(t, d.Opposite(), next.DirectionTo(origin))
	}

	assert.Equal(t, Direction(-1), origin.DirectionTo(Coordinate{6, 6}))
	assert.Equal(t, origin, origin.Move(Direction(9)))
}

func TestCoordinate_NeighborsOrder(t *testing.T) {
	got := Coordinate{1, 1}.Neighbors()
	assert.Equal(t, []Coordinate{{1, 0}, {2, 1}, {1, 2}, {0, 1}}, got)
}
