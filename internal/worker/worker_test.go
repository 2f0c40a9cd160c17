package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/escape-engine/internal/services"
	"github.com/jwebster45206/escape-engine/internal/services/events"
	"github.com/jwebster45206/escape-engine/internal/services/queue"
	"github.com/jwebster45206/escape-engine/pkg/state"
	"github.com/jwebster45206/escape-engine/pkg/storage"
)

type testWorker struct {
	w     *Worker
	queue *queue.RequestQueue
	store *storage.MockStorage
	locks *services.MockCache
	rdb   *redis.Client
}

func setupWorker(t *testing.T) *testWorker {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := queue.NewClient(mr.Addr(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := storage.NewMockStorage()
	locks := services.NewMockCache()
	rq := queue.NewRequestQueue(client)
	b := events.NewBroadcaster(client.GetRedisClient(), discardLogger())
	w := New(rq, newTestProcessor(store), b, locks, discardLogger(), "worker-test")
	t.Cleanup(w.Stop)

	return &testWorker{w: w, queue: rq, store: store, locks: locks, rdb: client.GetRedisClient()}
}

func collectEvents(t *testing.T, tw *testWorker, ch string) <-chan *redis.Message {
	t.Helper()
	pubsub := tw.rdb.Subscribe(context.Background(), ch)
	t.Cleanup(func() { _ = pubsub.Close() })
	_, err := pubsub.Receive(context.Background())
	require.NoError(t, err)
	return pubsub.Channel()
}

func nextEvent(t *testing.T, ch <-chan *redis.Message) events.Event {
	t.Helper()
	select {
	case msg := <-ch:
		var ev events.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return events.Event{}
	}
}

func TestWorker_ProcessesRequest(t *testing.T) {
	tw := setupWorker(t)
	ctx := context.Background()
	s := savedSession(t, tw.store)
	ch := collectEvents(t, tw, events.Channel(s.ID))

	req := utteranceRequest(s.ID, "start")
	require.NoError(t, tw.queue.Enqueue(ctx, req))
	require.NoError(t, tw.w.processNextRequest())

	loaded, err := tw.store.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, state.StageLibrary, loaded.State.Stage)

	ev := nextEvent(t, ch)
	assert.Equal(t, events.EventTypeStageChanged, ev.Type)
	assert.Equal(t, req.RequestID, ev.RequestID)

	ev = nextEvent(t, ch)
	assert.Equal(t, events.EventTypeSessionUpdated, ev.Type)

	// Lock taken and released with the worker's own id.
	require.Len(t, tw.locks.SetNXCalls, 1)
	assert.Equal(t, services.SessionLockKey(s.ID.String()), tw.locks.SetNXCalls[0].Key)
	assert.Equal(t, "worker-test", tw.locks.SetNXCalls[0].Value)
	assert.Equal(t, lockTTL, tw.locks.SetNXCalls[0].Expiration)
	exists, err := tw.locks.Exists(ctx, services.SessionLockKey(s.ID.String()))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWorker_DefersLockedSession(t *testing.T) {
	tw := setupWorker(t)
	ctx := context.Background()
	s := savedSession(t, tw.store)

	_, err := tw.locks.SetNX(ctx, services.SessionLockKey(s.ID.String()), "worker-other", lockTTL)
	require.NoError(t, err)

	require.NoError(t, tw.queue.Enqueue(ctx, utteranceRequest(s.ID, "start")))
	require.NoError(t, tw.w.processNextRequest())

	depth, err := tw.queue.Depth(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, depth)

	ready, err := tw.rdb.LLen(ctx, queue.ReadyKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), ready)

	loaded, err := tw.store.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, state.StageIntro, loaded.State.Stage)

	// The other worker's lock is left alone.
	exists, err := tw.locks.Exists(ctx, services.SessionLockKey(s.ID.String()))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWorker_KeepsArrivalOrderWhileLocked(t *testing.T) {
	tw := setupWorker(t)
	ctx := context.Background()
	s := savedSession(t, tw.store)
	lockKey := services.SessionLockKey(s.ID.String())

	_, err := tw.locks.SetNX(ctx, lockKey, "worker-other", lockTTL)
	require.NoError(t, err)

	require.NoError(t, tw.queue.Enqueue(ctx, utteranceRequest(s.ID, "start")))
	require.NoError(t, tw.queue.Enqueue(ctx, utteranceRequest(s.ID, "take red book")))
	require.NoError(t, tw.w.processNextRequest())

	require.NoError(t, tw.locks.Del(ctx, lockKey))
	require.NoError(t, tw.w.processNextRequest())
	require.NoError(t, tw.w.processNextRequest())

	loaded, err := tw.store.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, state.StageLibrary, loaded.State.Stage)
	assert.True(t, loaded.State.HasItem(state.ItemKeyCard))
	assert.True(t, loaded.State.HasFlag(state.FlagBookcaseOpen))

	depth, err := tw.queue.Depth(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, depth)
}

func TestWorker_MissingSessionPublishesFailure(t *testing.T) {
	tw := setupWorker(t)
	ctx := context.Background()
	req := utteranceRequest(uuid.New(), "start")
	ch := collectEvents(t, tw, events.Channel(req.SessionID))

	require.NoError(t, tw.queue.Enqueue(ctx, req))
	require.NoError(t, tw.w.processNextRequest())

	ev := nextEvent(t, ch)
	assert.Equal(t, events.EventTypeRequestFailed, ev.Type)
	assert.Equal(t, req.RequestID, ev.RequestID)

	depth, err := tw.queue.Depth(ctx, req.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, depth)
}

func TestWorker_StartAndStop(t *testing.T) {
	tw := setupWorker(t)
	ctx := context.Background()
	s := savedSession(t, tw.store)
	require.NoError(t, tw.queue.Enqueue(ctx, utteranceRequest(s.ID, "start")))

	done := make(chan error, 1)
	go func() { done <- tw.w.Start() }()

	assert.Eventually(t, func() bool {
		loaded, err := tw.store.LoadSession(ctx, s.ID)
		return err == nil && loaded.State.Stage == state.StageLibrary
	}, 2*time.Second, 10*time.Millisecond)

	tw.w.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(7 * time.Second):
		t.Fatal("worker did not stop")
	}
}
