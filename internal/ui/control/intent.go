package control

import "github.com/DragonMoffon/Temporum/internal/game/core"

// IntentKind is a player request, independent of the device it came from
type IntentKind int

const (
	IntentNone IntentKind = iota
	// IntentHover moves the cursor without opening a menu
	IntentHover
	// IntentSelect opens the action menu for a tile
	IntentSelect
	IntentScroll
	// IntentChoose proposes the menu entry in Slot
	IntentChoose
	IntentConfirm
	IntentCancel
	// IntentAnswer picks dialogue choice number Slot
	IntentAnswer
	IntentToggleFog
)

func (k IntentKind) String() string {
	switch k {
	case IntentHover:
		return "Hover"
	case IntentSelect:
		return "Select"
	case IntentScroll:
		return "Scroll"
	case IntentChoose:
		return "Choose"
	case IntentConfirm:
		return "Confirm"
	case IntentCancel:
		return "Cancel"
	case IntentAnswer:
		return "Answer"
	case IntentToggleFog:
		return "ToggleFog"
	default:
		return "None"
	}
}

// Intent is one input event. Only the fields the kind needs are read.
type Intent struct {
	Kind IntentKind
	Tile core.Coordinate
	Slot int
	Dir  int
}

func Hover(c core.Coordinate) Intent  { return Intent{Kind: IntentHover, Tile: c} }
func Select(c core.Coordinate) Intent { return Intent{Kind: IntentSelect, Tile: c} }
func Scroll(dir int) Intent           { return Intent{Kind: IntentScroll, Dir: dir} }
func Choose(slot int) Intent          { return Intent{Kind: IntentChoose, Slot: slot} }
func Answer(n int) Intent             { return Intent{Kind: IntentAnswer, Slot: n} }
func Confirm() Intent                 { return Intent{Kind: IntentConfirm} }
func Cancel() Intent                  { return Intent{Kind: IntentCancel} }
func ToggleFog() Intent               { return Intent{Kind: IntentToggleFog} }
