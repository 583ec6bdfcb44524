package layout

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/DragonMoffon/Temporum/internal/common"
	"github.com/DragonMoffon/Temporum/internal/game/core"
)

// GeneratorConfig holds configuration for random arena generation
type GeneratorConfig struct {
	Width         int
	Height        int
	Bots          int
	WallRatio     int // 1 interior wall per N tiles
	MinBotSpacing int
}

// DefaultGeneratorConfig returns a sensible default configuration
func DefaultGeneratorConfig(w, h, bots int) GeneratorConfig {
	return GeneratorConfig{
		Width:         w,
		Height:        h,
		Bots:          bots,
		WallRatio:     8,
		MinBotSpacing: 5,
	}
}

// Validate checks the arena has room for its border and spawns
func (c GeneratorConfig) Validate() error {
	if err := common.ValidateGridSize(c.Width, c.Height); err != nil {
		return err
	}
	if c.Width < 3 || c.Height < 3 {
		return fmt.Errorf("arena %dx%d has no floor inside its border: %w", c.Width, c.Height, core.ErrInvalidScenario)
	}
	if c.Bots < 0 {
		return fmt.Errorf("arena bots %d: %w", c.Bots, core.ErrInvalidScenario)
	}
	if floor := (c.Width - 2) * (c.Height - 2); c.Bots+1 > floor {
		return fmt.Errorf("arena %dx%d fits %d spawns, wants %d: %w", c.Width, c.Height, floor, c.Bots+1, core.ErrInvalidScenario)
	}
	return nil
}

// Generator builds walled arenas with deterministic RNG
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

func NewGenerator(config GeneratorConfig, rng *rand.Rand) *Generator {
	return &Generator{config: config, rng: rng}
}

// Generate creates a bordered arena with scattered walls, a player and bots
func (g *Generator) Generate(name string) (*Scenario, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}
	w, h := g.config.Width, g.config.Height
	cells := make([][]byte, h)
	for y := range cells {
		cells[y] = []byte(strings.Repeat(".", w))
		for x := range cells[y] {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				cells[y][x] = '#'
			}
		}
	}

	g.placeWalls(cells)

	s := &Scenario{Name: name}
	taken := []core.Coordinate{}
	player, err := g.findSpawn(cells, taken)
	if err != nil {
		return nil, fmt.Errorf("arena %q player: %w", name, err)
	}
	taken = append(taken, player)
	s.Player = &Spawn{Name: "player", At: player}

	for i := 0; i < g.config.Bots; i++ {
		at, err := g.findSpawn(cells, taken)
		if err != nil {
			return nil, fmt.Errorf("arena %q bot %d: %w", name, i, err)
		}
		taken = append(taken, at)
		s.Bots = append(s.Bots, Spawn{Name: "guard", At: at, Cost: "target_player"})
	}

	s.Rows = make([]string, h)
	for y, row := range cells {
		s.Rows[y] = string(row)
	}
	return s, nil
}

func (g *Generator) placeWalls(cells [][]byte) {
	w, h := g.config.Width, g.config.Height
	if w < 3 || h < 3 || g.config.WallRatio <= 0 {
		return
	}
	want := min((w*h)/g.config.WallRatio, (w-2)*(h-2)-(g.config.Bots+1))
	placed := 0

	maxAttempts := want * 10
	for attempts := 0; placed < want && attempts < maxAttempts; attempts++ {
		x, y := 1+g.rng.Intn(w-2), 1+g.rng.Intn(h-2)
		if cells[y][x] == '.' {
			cells[y][x] = '#'
			placed++
		}
	}
}

// findSpawn picks a random floor cell at least MinBotSpacing from every
// taken spawn, falling back to any free floor cell
func (g *Generator) findSpawn(cells [][]byte, taken []core.Coordinate) (core.Coordinate, error) {
	w, h := g.config.Width, g.config.Height
	free := func(c core.Coordinate) bool {
		if cells[c.Y][c.X] != '.' {
			return false
		}
		for _, other := range taken {
			if other == c {
				return false
			}
		}
		return true
	}

	for attempts := 0; attempts < w*h; attempts++ {
		c := core.Coordinate{X: g.rng.Intn(w), Y: g.rng.Intn(h)}
		if !free(c) {
			continue
		}
		spaced := true
		for _, other := range taken {
			if c.DistanceTo(other) < g.config.MinBotSpacing {
				spaced = false
				break
			}
		}
		if spaced {
			return c, nil
		}
	}

	for y := range cells {
		for x := range cells[y] {
			if c := (core.Coordinate{X: x, Y: y}); free(c) {
				return c, nil
			}
		}
	}

	return core.Coordinate{}, fmt.Errorf("no free floor for a spawn: %w", core.ErrInvalidScenario)
}
