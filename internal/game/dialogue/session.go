package dialogue

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/DragonMoffon/Temporum/internal/common"
	"github.com/DragonMoffon/Temporum/internal/game/events"
)

var (
	ErrNoChoicePending = errors.New("dialogue is not waiting for a choice")
	ErrUnknownChoice   = errors.New("unknown dialogue choice")
)

// Stage is where a session stands inside the current node
type Stage int

const (
	Closed Stage = iota
	Initiating
	Responding
	Choosing
)

func (s Stage) String() string {
	switch s {
	case Initiating:
		return "Initiating"
	case Responding:
		return "Responding"
	case Choosing:
		return "Choosing"
	default:
		return "Closed"
	}
}

// Session pages through one open conversation at a time
type Session struct {
	set       *Set
	worldID   string
	publisher events.Publisher
	logger    zerolog.Logger

	key   string
	node  *Node
	stage Stage
	page  int
}

func NewSession(set *Set, worldID string, publisher events.Publisher, logger zerolog.Logger) *Session {
	if set == nil {
		set = NewSet()
	}
	if publisher == nil {
		publisher = events.Discard
	}
	return &Session{
		set:       set,
		worldID:   worldID,
		publisher: publisher,
		logger:    logger.With().Str("component", "Dialogue").Logger(),
	}
}

// Open starts the conversation stored under key, replacing any open one
func (s *Session) Open(key string) error {
	root, err := s.set.Get(key)
	if err != nil {
		return err
	}
	if s.stage != Closed {
		s.logger.Debug().Str("key", s.key).Msg("Replacing open dialogue")
	}
	s.key = key
	s.publisher.Publish(events.NewDialogueOpenedEvent(s.worldID, key))
	s.enter(root)
	return nil
}

// IsDone reports whether no conversation is open
func (s *Session) IsDone() bool { return s.stage == Closed }

func (s *Session) Key() string  { return s.key }
func (s *Session) Stage() Stage { return s.stage }
func (s *Session) Node() *Node  { return s.node }

// Page returns the speaker and translated text of the page being shown
func (s *Session) Page() (speaker, text string, ok bool) {
	switch s.stage {
	case Initiating:
		return s.node.Speakers[0], common.Tr(s.node.Initiate[s.page]), true
	case Responding:
		return s.node.Speakers[1], common.Tr(s.node.Response[s.page]), true
	default:
		return "", "", false
	}
}

// Choices lists the inputs on offer once every page has been shown
func (s *Session) Choices() []string {
	if s.stage != Choosing {
		return nil
	}
	return s.node.Choices()
}

// Advance shows the next page
func (s *Session) Advance() {
	if s.stage != Initiating && s.stage != Responding {
		return
	}
	s.page++
	s.settle()
}

// Back shows the previous page, stepping from the response back into the
// initiating pages
func (s *Session) Back() {
	switch s.stage {
	case Closed:
		return
	case Choosing:
		s.stage, s.page = Responding, len(s.node.Response)
	}
	s.page--
	if s.page < 0 && s.stage == Responding {
		s.stage, s.page = Initiating, len(s.node.Initiate)-1
	}
	if s.page < 0 {
		s.stage, s.page = Initiating, 0
		s.settle()
	}
}

// Choose follows one of the offered inputs
func (s *Session) Choose(key string) error {
	if s.stage != Choosing {
		return fmt.Errorf("dialogue %q: %w", s.key, ErrNoChoicePending)
	}
	next, ok := s.node.Next(key)
	if !ok {
		return fmt.Errorf("dialogue %q node %q input %q: %w", s.key, s.node.Path, key, ErrUnknownChoice)
	}
	s.enter(next)
	return nil
}

// Close ends the open conversation early
func (s *Session) Close() {
	if s.stage == Closed {
		return
	}
	s.close()
}

func (s *Session) enter(n *Node) {
	s.node, s.stage, s.page = n, Initiating, 0
	s.settle()
}

// settle skips past exhausted page lists
func (s *Session) settle() {
	if s.stage == Initiating && s.page >= len(s.node.Initiate) {
		s.stage, s.page = Responding, 0
	}
	if s.stage == Responding && s.page >= len(s.node.Response) {
		if s.node.Leaf() {
			s.close()
			return
		}
		s.stage, s.page = Choosing, 0
	}
}

func (s *Session) close() {
	path := ""
	if s.node != nil {
		path = s.node.Path
	}
	s.stage = Closed
	s.publisher.Publish(events.NewDialogueClosedEvent(s.worldID, s.key, path))
}
