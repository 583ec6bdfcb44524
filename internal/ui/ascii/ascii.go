// Package ascii renders the world as coloured text for terminals that are
// only written to, such as the headless runner's log.
package ascii

import (
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/DragonMoffon/Temporum/internal/game"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

var (
	ColorFloor    = color.Style{color.FgGray}
	ColorWall     = color.Style{color.FgDarkGray}
	ColorFence    = color.Style{color.FgYellow}
	ColorInteract = color.Style{color.FgMagenta, color.OpBold}
	ColorGate     = color.Style{color.FgCyan, color.OpBold}
	ColorFog      = color.Style{color.FgDarkGray}
	ColorReach    = color.Style{color.FgGreen}
	ColorEdge     = color.Style{color.FgLightYellow, color.OpBold}
	ColorPlayer   = color.Style{color.FgGreen, color.BgBlack, color.OpBold}
	ColorBot      = color.Style{color.FgRed, color.OpBold}
	ColorShocked  = color.Style{color.FgLightRed}
	ColorHeader   = color.Style{color.FgLightBlue, color.OpBold}
)

var kindStyles = map[game.CellKind]color.Style{
	game.CellFloor:    ColorFloor,
	game.CellFence:    ColorFence,
	game.CellWall:     ColorWall,
	game.CellInteract: ColorInteract,
	game.CellGate:     ColorGate,
}

// TerminalSize returns the stdout terminal size, or the defaults when
// stdout is not a terminal
func TerminalSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}

// Render draws the map one text row per map row
func Render(w *game.World, showAll bool) string {
	var sb strings.Builder
	for _, row := range w.Cells(showAll) {
		for _, cell := range row {
			sb.WriteString(styleFor(w, cell).Sprint(string(cell.Rune(w))))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func styleFor(w *game.World, cell game.Cell) color.Style {
	if cell.Actor != nil {
		switch cell.Rune(w) {
		case game.PlayerRune:
			return ColorPlayer
		case game.ShockedRune:
			return ColorShocked
		default:
			return ColorBot
		}
	}
	switch {
	case cell.Kind == game.CellEmpty:
		return nil
	case !cell.Visible:
		return ColorFog
	case cell.Edge:
		return ColorEdge
	case cell.Reachable:
		return ColorReach
	}
	return kindStyles[cell.Kind]
}

// Header centres a title in a rule of the given width
func Header(title string, width int) string {
	title = " " + title + " "
	if width <= len(title) {
		return ColorHeader.Sprint(title)
	}
	left := (width - len(title)) / 2
	right := width - len(title) - left
	return ColorHeader.Sprint(strings.Repeat("=", left) + title + strings.Repeat("=", right))
}

// Summary is one line describing the world's progress
func Summary(w *game.World) string {
	s := w.Stats().Snapshot()
	return fmt.Sprintf("%s round %d  turns %d  steps %d  hits %d  rejected %d  transitions %d",
		s.Scenario, w.Scheduler().Round(), s.Turns, s.Steps, s.Hits, s.Rejected, s.Transitions)
}
