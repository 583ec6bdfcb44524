package layout

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/DragonMoffon/Temporum/internal/common"
	"github.com/DragonMoffon/Temporum/internal/game/core"
)

// Scenario is one map file: an ascii grid, a legend for its characters,
// extra pieces placed on single tiles, and the actors that start on it.
type Scenario struct {
	Name   string                 `yaml:"name"`
	Rows   []string               `yaml:"rows"`
	Legend map[string][]PieceSpec `yaml:"legend"`
	Pieces []PlacedPiece          `yaml:"pieces"`
	Player *Spawn                 `yaml:"player"`
	Bots   []Spawn                `yaml:"bots"`
}

// PieceSpec describes a piece in a scenario file
type PieceSpec struct {
	Name        string    `yaml:"name"`
	Directions  string    `yaml:"directions"`
	Vision      string    `yaml:"vision"`
	Actions     []string  `yaml:"actions"`
	Interaction string    `yaml:"interaction"`
	Gate        *GateSpec `yaml:"gate"`
}

// GateSpec is where a leave action on the piece goes
type GateSpec struct {
	Scenario string          `yaml:"scenario"`
	Spawn    core.Coordinate `yaml:"spawn"`
}

// PlacedPiece is a piece added to one tile on top of its legend pieces
type PlacedPiece struct {
	At        core.Coordinate `yaml:"at"`
	PieceSpec `yaml:",inline"`
}

// Spawn is an actor starting position
type Spawn struct {
	Name       string          `yaml:"name"`
	At         core.Coordinate `yaml:"at"`
	Initiative int             `yaml:"initiative"`
	Cost       string          `yaml:"cost"`
}

var defaultLegend = map[rune][]PieceSpec{
	'.': {{Name: "floor", Actions: []string{"move"}}},
	'#': {{Name: "floor", Actions: []string{"move"}}, {Name: "wall", Directions: "0000", Vision: "0000"}},
}

// Parse decodes a scenario from YAML
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if len(s.Rows) == 0 {
		return nil, fmt.Errorf("scenario %q has no rows: %w", s.Name, core.ErrInvalidScenario)
	}
	return &s, nil
}

// Load reads and decodes a scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Size returns the grid dimensions, the widest row setting the width
func (s *Scenario) Size() (int, int) {
	width := 0
	for _, r := range s.Rows {
		if n := len([]rune(r)); n > width {
			width = n
		}
	}
	return width, len(s.Rows)
}

// Piece builds a fresh piece from the spec
func (p PieceSpec) Piece() (*core.Piece, error) {
	directions, err := core.ParseMask(p.Directions)
	if err != nil {
		return nil, fmt.Errorf("piece %q directions: %w", p.Name, err)
	}
	vision, err := core.ParseMask(p.Vision)
	if err != nil {
		return nil, fmt.Errorf("piece %q vision: %w", p.Name, err)
	}
	actions := make([]core.ActionKind, 0, len(p.Actions))
	for _, name := range p.Actions {
		kind, err := core.ParseActionKind(name)
		if err != nil {
			return nil, fmt.Errorf("piece %q: %w", p.Name, err)
		}
		actions = append(actions, kind)
	}
	piece := core.NewPiece(p.Name, directions, vision, actions...)
	piece.Interaction = p.Interaction
	if p.Gate != nil {
		piece.Gate = &core.Gate{Scenario: p.Gate.Scenario, Spawn: p.Gate.Spawn}
	}
	return piece, nil
}

func (s *Scenario) legendFor(ch rune) ([]PieceSpec, bool) {
	if specs, ok := s.Legend[string(ch)]; ok {
		return specs, true
	}
	specs, ok := defaultLegend[ch]
	return specs, ok
}

// Build turns the scenario into a linked tile graph
func (s *Scenario) Build(logger zerolog.Logger) (*core.Graph, error) {
	width, height := s.Size()
	if err := common.ValidateGridSize(width, height); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	g := core.NewGraph(width, height, logger)
	for y, row := range s.Rows {
		for x, ch := range []rune(row) {
			if ch == ' ' {
				continue
			}
			c := core.Coordinate{X: x, Y: y}
			specs, ok := s.legendFor(ch)
			if !ok {
				return nil, fmt.Errorf("scenario %q: unknown cell %q at %s: %w", s.Name, ch, c, core.ErrInvalidScenario)
			}
			pieces := make([]*core.Piece, 0, len(specs))
			for _, spec := range specs {
				p, err := spec.Piece()
				if err != nil {
					return nil, fmt.Errorf("scenario %q at %s: %w", s.Name, c, err)
				}
				pieces = append(pieces, p)
			}
			if _, err := g.Place(c, pieces...); err != nil {
				return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
			}
		}
	}

	for _, placed := range s.Pieces {
		p, err := placed.Piece()
		if err != nil {
			return nil, fmt.Errorf("scenario %q at %s: %w", s.Name, placed.At, err)
		}
		if g.Tile(placed.At) == nil {
			return nil, fmt.Errorf("scenario %q piece %q: %w", s.Name, placed.Name, core.WrapTileError(placed.At, core.ErrTileNotFound))
		}
		if err := g.AddPiece(placed.At, p); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}

	g.FindNeighbours()

	for _, spawn := range s.Spawns() {
		if err := common.ValidateCoordinate(spawn.At, width, height); err != nil {
			return nil, fmt.Errorf("scenario %q spawn %q: %w", s.Name, spawn.Name, err)
		}
		if g.Tile(spawn.At) == nil {
			return nil, fmt.Errorf("scenario %q spawn %q: %w", s.Name, spawn.Name, core.WrapTileError(spawn.At, core.ErrTileNotFound))
		}
	}
	return g, nil
}

// Spawns lists the player spawn, when present, followed by the bots
func (s *Scenario) Spawns() []Spawn {
	out := make([]Spawn, 0, len(s.Bots)+1)
	if s.Player != nil {
		out = append(out, *s.Player)
	}
	return append(out, s.Bots...)
}
