package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/escape-engine/pkg/game"
	"github.com/jwebster45206/escape-engine/pkg/state"
)

func setupBroadcaster(t *testing.T) (*Broadcaster, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewBroadcaster(rdb, slog.New(slog.NewTextHandler(io.Discard, nil))), rdb
}

func subscribe(t *testing.T, rdb *redis.Client, sessionID uuid.UUID) <-chan *redis.Message {
	t.Helper()
	ctx := context.Background()
	pubsub := rdb.Subscribe(ctx, Channel(sessionID))
	t.Cleanup(func() { _ = pubsub.Close() })
	// Wait for the subscription to be confirmed before publishing.
	_, err := pubsub.Receive(ctx)
	require.NoError(t, err)
	return pubsub.Channel()
}

func receive(t *testing.T, ch <-chan *redis.Message) Event {
	t.Helper()
	select {
	case msg := <-ch:
		var ev Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBroadcaster_SessionUpdated(t *testing.T) {
	b, rdb := setupBroadcaster(t)
	s := game.NewSession(1200, 5)
	ch := subscribe(t, rdb, s.ID)

	require.NoError(t, b.PublishSessionUpdated(context.Background(), s, "req-1", "start"))

	ev := receive(t, ch)
	assert.Equal(t, EventTypeSessionUpdated, ev.Type)
	assert.Equal(t, "req-1", ev.RequestID)
	assert.Equal(t, s.ID.String(), ev.SessionID)
	assert.Equal(t, "start", ev.Data["intent"])
	snapshot, ok := ev.Data["snapshot"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "intro", snapshot["stage"])
}

func TestBroadcaster_StageChanged(t *testing.T) {
	b, rdb := setupBroadcaster(t)
	id := uuid.New()
	ch := subscribe(t, rdb, id)

	require.NoError(t, b.PublishStageChanged(context.Background(), id, "req-2", state.StageLibrary, state.StageLaboratory))

	ev := receive(t, ch)
	assert.Equal(t, EventTypeStageChanged, ev.Type)
	assert.Equal(t, "library", ev.Data["from"])
	assert.Equal(t, "laboratory", ev.Data["to"])
	assert.Equal(t, "Stage 2: The Secret Laboratory", ev.Data["title"])
}

func TestBroadcaster_ChannelsAreScopedToSession(t *testing.T) {
	b, rdb := setupBroadcaster(t)
	mine, other := uuid.New(), uuid.New()
	ch := subscribe(t, rdb, mine)

	ctx := context.Background()
	require.NoError(t, b.PublishRequestQueued(ctx, other, "req-other", "utterance"))
	require.NoError(t, b.PublishRequestFailed(ctx, mine, "req-mine", "boom"))

	ev := receive(t, ch)
	assert.Equal(t, EventTypeRequestFailed, ev.Type)
	assert.Equal(t, "req-mine", ev.RequestID)
	assert.Equal(t, "boom", ev.Data["error"])
}
