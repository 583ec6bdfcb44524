package common

import (
	"fmt"

	"github.com/DragonMoffon/Temporum/internal/game/core"
)

// MaxGridSide bounds scenario dimensions
const MaxGridSide = 256

// IsValidCoordinate checks if the given coordinates are within a width x height grid
func IsValidCoordinate(x, y, width, height int) bool {
	return x >= 0 && x < width && y >= 0 && y < height
}

// ValidateGridSize checks scenario dimensions
func ValidateGridSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("grid %dx%d: %w", width, height, core.ErrInvalidScenario)
	}
	if width > MaxGridSide || height > MaxGridSide {
		return fmt.Errorf("grid %dx%d exceeds %d: %w", width, height, MaxGridSide, core.ErrInvalidScenario)
	}
	return nil
}

// ValidateCoordinate checks a coordinate read from a scenario file
func ValidateCoordinate(c core.Coordinate, width, height int) error {
	if !IsValidCoordinate(c.X, c.Y, width, height) {
		return fmt.Errorf("%s outside %dx%d: %w", c, width, height, core.ErrInvalidCoordinates)
	}
	return nil
}
