package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/ui/control"
	"github.com/DragonMoffon/Temporum/internal/ui/iso"
)

var answerKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

var cursorKeys = map[ebiten.Key]core.Direction{
	ebiten.KeyArrowUp:    core.North,
	ebiten.KeyArrowRight: core.East,
	ebiten.KeyArrowDown:  core.South,
	ebiten.KeyArrowLeft:  core.West,
}

// Handler polls ebiten for mouse and keyboard input and turns it into
// intents for the controller
type Handler struct {
	proj *iso.Projection

	mouseX, mouseY int
	hovered        core.Coordinate
	intents        []control.Intent
}

func NewHandler(proj *iso.Projection) *Handler {
	return &Handler{proj: proj, intents: make([]control.Intent, 0, 8)}
}

// Update reads this frame's input. cursor is the controller's cursor, moved
// by the arrow keys.
func (h *Handler) Update(cursor core.Coordinate) []control.Intent {
	h.intents = h.intents[:0]

	x, y := GetCursorPosition()
	if x != h.mouseX || y != h.mouseY {
		h.mouseX, h.mouseY = x, y
		if at := h.screenToTile(x, y); at != h.hovered {
			h.hovered = at
			h.emit(control.Hover(at))
		}
	}

	if IsLeftClickJustPressed() {
		h.emit(control.Select(h.screenToTile(x, y)))
	}
	if IsRightClickJustPressed() {
		h.emit(control.Cancel())
	}
	if dir := WheelDirection(); dir != 0 {
		h.emit(control.Scroll(dir))
	}

	h.handleKeyboard(cursor)
	return h.intents
}

func (h *Handler) handleKeyboard(cursor core.Coordinate) {
	for key, dir := range cursorKeys {
		if inpututil.IsKeyJustPressed(key) {
			h.emit(control.Hover(cursor.Move(dir)))
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		h.emit(control.Select(cursor))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		h.emit(control.Confirm())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		h.emit(control.Cancel())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) || inpututil.IsKeyJustPressed(ebiten.KeyE) {
		h.emit(control.Scroll(1))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		h.emit(control.Scroll(-1))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		h.emit(control.ToggleFog())
	}

	// 1 and 2 pick from the menu pair; any digit answers a dialogue
	for i, key := range answerKeys {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		if i < 2 {
			h.emit(control.Choose(i))
		}
		h.emit(control.Answer(i))
	}
}

func (h *Handler) emit(in control.Intent) {
	h.intents = append(h.intents, in)
}

func (h *Handler) screenToTile(x, y int) core.Coordinate {
	return h.proj.FromIso(float64(x), float64(y))
}

// Hovered is the tile under the mouse
func (h *Handler) Hovered() core.Coordinate {
	return h.hovered
}
