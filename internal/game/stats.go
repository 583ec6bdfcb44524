package game

import (
	"sync"

	"github.com/DragonMoffon/Temporum/internal/game/events"
)

// StatsSnapshot is a copy of the running totals
type StatsSnapshot struct {
	Rounds        int
	Turns         int
	Steps         int
	Committed     int
	Rejected      int
	Hits          int
	Transitions   int
	Conversations int
	VisionUpdates int
	Scenario      string
}

// Stats tallies simulation events. Totals survive map transitions.
type Stats struct {
	mu   sync.Mutex
	data StatsSnapshot
}

func NewStats() *Stats { return &Stats{} }

func (s *Stats) ID() string               { return "world_stats" }
func (s *Stats) InterestedIn(string) bool { return true }

// HandleEvent updates the totals for one event
func (s *Stats) HandleEvent(event events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Type() {
	case events.TypeRoundStarted:
		s.data.Rounds++
	case events.TypeTurnStarted:
		s.data.Turns++
	case events.TypeActorMoved:
		s.data.Steps++
	case events.TypeActionCommitted:
		s.data.Committed++
	case events.TypeActionRejected:
		s.data.Rejected++
	case events.TypeActorHit:
		s.data.Hits++
	case events.TypeMapTransition:
		s.data.Transitions++
	case events.TypeDialogueOpened:
		s.data.Conversations++
	case events.TypeVisionUpdated:
		s.data.VisionUpdates++
	case events.TypeWorldLoaded:
		if e, ok := event.(*events.WorldLoadedEvent); ok {
			s.data.Scenario = e.Scenario
		}
	}
}

// Snapshot returns the current totals
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}
