package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

func IsLeftClickJustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func IsRightClickJustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
}

func GetCursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

// WheelDirection is -1, 0 or 1 for the vertical wheel this frame
func WheelDirection() int {
	_, dy := ebiten.Wheel()
	switch {
	case dy > 0:
		return -1
	case dy < 0:
		return 1
	default:
		return 0
	}
}
