package common

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DragonMoffon/Temporum/internal/game/core"
)

func TestIsValidCoordinate(t *testing.T) {
	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"origin", 0, 0, true},
		{"far corner", 4, 2, true},
		{"negative x", -1, 0, false},
		{"x at width", 5, 0, false},
		{"y at height", 0, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidCoordinate(tt.x, tt.y, 5, 3))
		})
	}
}

func TestValidateGridSize(t *testing.T) {
	assert.NoError(t, ValidateGridSize(10, 10))
	assert.ErrorIs(t, ValidateGridSize(0, 4), core.ErrInvalidScenario)
	assert.ErrorIs(t, ValidateGridSize(MaxGridSide+1, 4), core.ErrInvalidScenario)
}

func TestValidateCoordinate(t *testing.T) {
	assert.NoError(t, ValidateCoordinate(core.Coordinate{X: 1, Y: 1}, 2, 2))
	err := ValidateCoordinate(core.Coordinate{X: 2, Y: 1}, 2, 2)
	assert.ErrorIs(t, err, core.ErrInvalidCoordinates)
	assert.Contains(t, err.Error(), "(2,1)")
}
