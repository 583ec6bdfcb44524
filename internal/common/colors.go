package common

import (
	"image/color"

	"github.com/DragonMoffon/Temporum/internal/config"
)

// Palette is the colour scheme shared by the renderers
type Palette struct {
	Background color.RGBA
	Floor      color.RGBA
	Wall       color.RGBA
	Player     color.RGBA
	Bot        color.RGBA
	Reachable  color.RGBA
	Edge       color.RGBA
	Fog        color.RGBA
}

// DefaultPalette matches the config defaults
var DefaultPalette = Palette{
	Background: color.RGBA{12, 12, 20, 255},
	Floor:      color.RGBA{90, 90, 110, 255},
	Wall:       color.RGBA{40, 40, 48, 255},
	Player:     color.RGBA{70, 160, 230, 255},
	Bot:        color.RGBA{220, 70, 60, 255},
	Reachable:  color.RGBA{80, 200, 120, 90},
	Edge:       color.RGBA{240, 220, 80, 160},
	Fog:        color.RGBA{0, 0, 0, 170},
}

// PaletteFrom builds a palette from the colours section of the config
func PaletteFrom(c config.ColorsConfig) Palette {
	return Palette{
		Background: RGB(c.Background),
		Floor:      RGB(c.Floor),
		Wall:       RGB(c.Wall),
		Player:     RGB(c.Player),
		Bot:        RGB(c.Bot),
		Reachable:  RGBA(c.Reachable),
		Edge:       RGBA(c.Edge),
		Fog:        RGBA(c.Fog),
	}
}

// RGB converts a config triple to an opaque colour
func RGB(v [3]int) color.RGBA {
	return color.RGBA{uint8(Clamp(v[0], 0, 255)), uint8(Clamp(v[1], 0, 255)), uint8(Clamp(v[2], 0, 255)), 255}
}

// RGBA converts a config quadruple to a colour
func RGBA(v [4]int) color.RGBA {
	c := RGB([3]int{v[0], v[1], v[2]})
	c.A = uint8(Clamp(v[3], 0, 255))
	return c
}

// Shade scales the colour channels by factor, keeping alpha
func Shade(c color.RGBA, factor float64) color.RGBA {
	scale := func(v uint8) uint8 {
		return uint8(Clamp(int(float64(v)*factor+0.5), 0, 255))
	}
	return color.RGBA{scale(c.R), scale(c.G), scale(c.B), c.A}
}
