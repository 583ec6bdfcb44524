package core

import (
	"fmt"
	"math"
)

// Coordinate represents a position on the tile grid
type Coordinate struct {
	X, Y int
}

// NewCoordinate creates a new coordinate with the given x and y values
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// FromIndex creates a coordinate from an arena index using row-major ordering
func FromIndex(idx, width int) Coordinate {
	return Coordinate{
		X: idx % width,
		Y: idx / width,
	}
}

// IsValid checks if the coordinate is within the given bounds
func (c Coordinate) IsValid(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// ToIndex converts the coordinate to an arena index using row-major ordering
func (c Coordinate) ToIndex(width int) int {
	return c.Y*width + c.X
}

// DistanceTo calculates the Manhattan distance to another coordinate
func (c Coordinate) DistanceTo(other Coordinate) int {
	return abs(c.X-other.X) + abs(c.Y-other.Y)
}

// ChebyshevTo returns the king-move distance to another coordinate
func (c Coordinate) ChebyshevTo(other Coordinate) int {
	dx, dy := abs(c.X-other.X), abs(c.Y-other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// EuclideanTo returns the straight-line distance to another coordinate
func (c Coordinate) EuclideanTo(other Coordinate) float64 {
	return math.Hypot(float64(c.X-other.X), float64(c.Y-other.Y))
}

// IsAdjacentTo checks if this coordinate is orthogonally adjacent to another
func (c Coordinate) IsAdjacentTo(other Coordinate) bool {
	return c.DistanceTo(other) == 1
}

// Neighbors returns the four orthogonal neighbors in N, E, S, W order
func (c Coordinate) Neighbors() []Coordinate {
	out := make([]Coordinate, 0, len(AllDirections))
	for _, d := range AllDirections {
		out = append(out, c.Move(d))
	}
	return out
}

// Add returns a new coordinate that is the sum of this coordinate and another
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{X: c.X + other.X, Y: c.Y + other.Y}
}

// Sub returns a new coordinate that is the difference between this coordinate and another
func (c Coordinate) Sub(other Coordinate) Coordinate {
	return Coordinate{X: c.X - other.X, Y: c.Y - other.Y}
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction represents a cardinal direction. The numeric values double as
// indices into Mask and the tile neighbour slots.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// AllDirections is the fixed expansion order used by every grid search.
var AllDirections = [4]Direction{North, East, South, West}

// DirectionVectors provides coordinate offsets for each direction
var DirectionVectors = [4]Coordinate{
	North: {X: 0, Y: -1},
	East:  {X: 1, Y: 0},
	South: {X: 0, Y: 1},
	West:  {X: -1, Y: 0},
}

// Opposite returns the direction pointing back the way d came
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

func (d Direction) Valid() bool {
	return d >= North && d <= West
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Move returns a new coordinate moved one step in the given direction
func (c Coordinate) Move(direction Direction) Coordinate {
	if !direction.Valid() {
		return c
	}
	return c.Add(DirectionVectors[direction])
}

// DirectionTo returns the direction from this coordinate to an adjacent coordinate.
// Returns -1 if the coordinates are not adjacent.
func (c Coordinate) DirectionTo(other Coordinate) Direction {
	if !c.IsAdjacentTo(other) {
		return -1
	}
	delta := other.Sub(c)
	for _, d := range AllDirections {
		if DirectionVectors[d] == delta {
			return d
		}
	}
	return -1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
