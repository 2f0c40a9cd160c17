package storage

import (
	"context"
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
	"github.com/jwebster45206/escape-engine/pkg/storage"
)

func setupRedisStorage(t *testing.T, ttl time.Duration) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRedisStorageWithClient(rdb, ttl, logger), mr
}

func playedSession(t *testing.T) *game.Session {
	t.Helper()
	s := game.NewSession(1200, 5)
	c := s.Controller(game.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	c.OnTick(0)
	c.OnUtterance("start")
	c.OnUtterance("take red book")
	s.Capture(c)
	return s
}

func TestRedisStorage_SaveAndLoadSession(t *testing.T) {
	rs, mr := setupRedisStorage(t, 10*time.Minute)
	ctx := context.Background()

	s := playedSession(t)
	require.NoError(t, rs.SaveSession(ctx, s))
	assert.True(t, mr.Exists("session:"+s.ID.String()))
	assert.Equal(t, 10*time.Minute, mr.TTL("session:"+s.ID.String()))

	loaded, err := rs.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, state.StageLibrary, loaded.State.Stage)
	assert.True(t, loaded.State.HasItem(state.ItemKeyCard))
	assert.True(t, loaded.State.HasFlag(state.FlagBookcaseOpen))
	assert.Equal(t, s.State.Messages(), loaded.State.Messages())
	assert.Equal(t, s.State.Timer, loaded.State.Timer)
	assert.True(t, s.CreatedAt.Equal(loaded.CreatedAt))
}

func TestRedisStorage_LoadMissingSession(t *testing.T) {
	rs, _ := setupRedisStorage(t, 0)

	loaded, err := rs.LoadSession(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_LoadCorruptSession(t *testing.T) {
	rs, mr := setupRedisStorage(t, 0)
	id := uuid.New()
	require.NoError(t, mr.Set("session:"+id.String(), "{not json"))

	loaded, err := rs.LoadSession(context.Background(), id)
	assert.Error(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_DeleteSession(t *testing.T) {
	rs, mr := setupRedisStorage(t, 0)
	ctx := context.Background()

	s := playedSession(t)
	require.NoError(t, rs.SaveSession(ctx, s))
	require.NoError(t, rs.DeleteSession(ctx, s.ID))
	assert.False(t, mr.Exists("session:"+s.ID.String()))

	loaded, err := rs.LoadSession(ctx, s.ID)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_SessionExpires(t *testing.T) {
	rs, mr := setupRedisStorage(t, time.Minute)
	ctx := context.Background()

	s := playedSession(t)
	require.NoError(t, rs.SaveSession(ctx, s))
	mr.FastForward(2 * time.Minute)

	loaded, err := rs.LoadSession(ctx, s.ID)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_Ping(t *testing.T) {
	rs, mr := setupRedisStorage(t, 0)
	assert.NoError(t, rs.Ping(context.Background()))

	mr.Close()
	assert.Error(t, rs.Ping(context.Background()))
}

func TestRedisStorage_SaveNil(t *testing.T) {
	rs, _ := setupRedisStorage(t, 0)
	assert.Error(t, rs.SaveSession(context.Background(), nil))
}

func TestParseRedisURL(t *testing.T) {
	opt, err := ParseRedisURL("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opt.Addr)

	opt, err = ParseRedisURL("redis://cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opt.Addr)
	assert.Equal(t, 2, opt.DB)

	_, err = ParseRedisURL("redis://cache:6380/notadb")
	assert.Error(t, err)
}

func TestMockStorage_SaveAndLoadSession(t *testing.T) {
	ms := storage.NewMockStorage()
	ctx := context.Background()

	s := playedSession(t)
	require.NoError(t, ms.SaveSession(ctx, s))

	// Edits after saving are not visible until saved again.
	s.State.Stage = state.StageVault
	loaded, err := ms.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, state.StageLibrary, loaded.State.Stage)

	missing, err := ms.LoadSession(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, ms.DeleteSession(ctx, s.ID))
	assert.Equal(t, 0, ms.Count())
}
