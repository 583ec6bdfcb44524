package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/ui/control"
)

var arrowKeys = map[tcell.Key]core.Direction{
	tcell.KeyUp:    core.North,
	tcell.KeyRight: core.East,
	tcell.KeyDown:  core.South,
	tcell.KeyLeft:  core.West,
}

// Translate maps one terminal event to intents. quit is set for Ctrl+C.
func Translate(ev tcell.Event, cursor core.Coordinate) (intents []control.Intent, quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return translateKey(ev, cursor)
	case *tcell.EventMouse:
		return translateMouse(ev), false
	}
	return nil, false
}

func translateKey(ev *tcell.EventKey, cursor core.Coordinate) ([]control.Intent, bool) {
	if dir, ok := arrowKeys[ev.Key()]; ok {
		return []control.Intent{control.Hover(cursor.Move(dir))}, false
	}

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return nil, true
	case tcell.KeyEnter:
		return []control.Intent{control.Confirm()}, false
	case tcell.KeyEscape:
		return []control.Intent{control.Cancel()}, false
	case tcell.KeyTab:
		return []control.Intent{control.Scroll(1)}, false
	case tcell.KeyBacktab:
		return []control.Intent{control.Scroll(-1)}, false
	case tcell.KeyRune:
	default:
		return nil, false
	}

	switch r := ev.Rune(); {
	case r == ' ':
		return []control.Intent{control.Select(cursor)}, false
	case r == 'f':
		return []control.Intent{control.ToggleFog()}, false
	case r == 'e':
		return []control.Intent{control.Scroll(1)}, false
	case r == 'q':
		return []control.Intent{control.Scroll(-1)}, false
	case r >= '1' && r <= '9':
		n := int(r - '1')
		if n < 2 {
			return []control.Intent{control.Choose(n), control.Answer(n)}, false
		}
		return []control.Intent{control.Answer(n)}, false
	}
	return nil, false
}

func translateMouse(ev *tcell.EventMouse) []control.Intent {
	at := ScreenToTile(ev.Position())
	switch {
	case ev.Buttons()&tcell.Button1 != 0:
		return []control.Intent{control.Select(at)}
	case ev.Buttons()&tcell.Button2 != 0:
		return []control.Intent{control.Cancel()}
	case ev.Buttons()&tcell.WheelUp != 0:
		return []control.Intent{control.Scroll(-1)}
	case ev.Buttons()&tcell.WheelDown != 0:
		return []control.Intent{control.Scroll(1)}
	case ev.Buttons() == tcell.ButtonNone:
		return []control.Intent{control.Hover(at)}
	}
	return nil
}
