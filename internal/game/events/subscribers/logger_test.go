package subscribers_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DragonMoffon/Temporum/internal/game/core"
	"github.com/DragonMoffon/Temporum/internal/game/events"
	"github.com/DragonMoffon/Temporum/internal/game/events/subscribers"
)

func TestLoggerSubscriber(t *testing.T) {
	logSub := subscribers.NewLoggerSubscriber("test-logger", zerolog.Nop(), zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())
	assert.True(t, logSub.InterestedIn(events.TypeWorldLoaded))
	assert.True(t, logSub.InterestedIn("any.event.type"))

	logSub.SetEventFilter([]string{events.TypeActorHit})
	assert.True(t, logSub.InterestedIn(events.TypeActorHit))
	assert.False(t, logSub.InterestedIn(events.TypeActorMoved))

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeActorMoved))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	buf.Reset()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &out))
	return out
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("event-logger", zerolog.New(&buf), zerolog.InfoLevel)

	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "WorldLoaded",
			event: events.NewWorldLoadedEvent("w1", "mvp", 12, 9, 80, 3),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "mvp", logLine["scenario"])
				assert.Equal(t, float64(80), logLine["tiles"])
			},
		},
		{
			name:  "TurnStarted",
			event: events.NewTurnStartedEvent("w1", 2, "bot-1", 6, 9),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(2), logLine["round"])
				assert.Equal(t, "bot-1", logLine["actor_id"])
			},
		},
		{
			name:  "ActionCommitted",
			event: events.NewActionCommittedEvent("w1", "player", core.Shoot, 5, 5),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "shoot", logLine["action"])
				assert.Equal(t, float64(5), logLine["remaining"])
			},
		},
		{
			name:  "ActionRejected",
			event: events.NewActionRejectedEvent("w1", "player", core.Interact, 2, "not adjacent"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "not adjacent", logLine["reason"])
			},
		},
		{
			name:  "ActorMoved",
			event: events.NewActorMovedEvent("w1", "player", core.Coordinate{X: 1, Y: 1}, core.Coordinate{X: 1, Y: 2}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "(1,1)", logLine["from"])
				assert.Equal(t, "(1,2)", logLine["to"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logSub.HandleEvent(tc.event)
			logLine := decodeLine(t, &buf)
			assert.Equal(t, "Simulation event", logLine["message"])
			assert.Equal(t, "info", logLine["level"])
			assert.Equal(t, "w1", logLine["world_id"])
			assert.Equal(t, tc.event.Type(), logLine["event_type"])
			tc.check(t, logLine)
		})
	}
}

func TestLoggerSubscriberDevMode(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("dev", zerolog.New(&buf), zerolog.DebugLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(events.NewActorHitEvent("w1", "player", "bot", 4))
	logLine := decodeLine(t, &buf)

	assert.Equal(t, "debug", logLine["level"])
	data, ok := logLine["event_data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "bot", data["TargetID"])
}
