package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/game/core"
)

// Library finds scenarios by name in a directory of <name>.yaml files.
// Registered scenarios shadow files of the same name.
type Library struct {
	dir    string
	mu     sync.Mutex
	cache  map[string]*Scenario
	logger zerolog.Logger
}

func NewLibrary(dir string, logger zerolog.Logger) *Library {
	return &Library{
		dir:    dir,
		cache:  make(map[string]*Scenario),
		logger: logger.With().Str("component", "ScenarioLibrary").Logger(),
	}
}

// Register adds an in-memory scenario
func (l *Library) Register(s *Scenario) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[s.Name] = s
}

// Get returns the named scenario, reading it from disk the first time
func (l *Library) Get(name string) (*Scenario, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.cache[name]; ok {
		return s, nil
	}

	path := filepath.Join(l.dir, name+".yaml")
	s, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("scenario %q: %w", name, core.ErrInvalidScenario)
		}
		return nil, err
	}
	if s.Name == "" {
		s.Name = name
	}
	l.cache[name] = s
	l.logger.Info().Str("scenario", name).Str("path", path).Msg("Scenario loaded")
	return s, nil
}

// Names lists the scenario files in the library directory
func (l *Library) Names() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, e.Name()[:len(e.Name())-len(".yaml")])
	}
	return names, nil
}
