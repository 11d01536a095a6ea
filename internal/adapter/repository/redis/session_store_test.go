package redis

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	created := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	session := domain.NewJokenpoSession("g1", "creator", 17, decimal.NewFromInt(200), decimal.NewFromInt(400), created)
	require.NoError(t, session.RecordMove("bob", domain.MoveSpock))
	require.NoError(t, session.RecordMove("alice", domain.MovePedra))

	require.NoError(t, store.Save(ctx, session, 2*time.Minute))
	assert.True(t, mr.Exists("jokenpo:game:g1"))
	assert.Equal(t, 2*time.Minute, mr.TTL("jokenpo:game:g1"))

	loaded, err := store.Load(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "creator", loaded.CreatorID)
	assert.Equal(t, 17, loaded.Counter)
	assert.True(t, loaded.Stake.Equal(decimal.NewFromInt(200)))
	assert.True(t, loaded.Prize.Equal(decimal.NewFromInt(400)))
	assert.True(t, loaded.CreatedAt.Equal(created))
	assert.Equal(t, []string{"bob", "alice"}, loaded.Players)
	assert.Equal(t, domain.MoveSpock, loaded.Moves["bob"])
	assert.Nil(t, loaded.BotMove)
}

func TestSessionStoreMissingAndDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	_, err := store.Load(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	session := domain.NewJokenpoSession("g2", "creator", 30, decimal.NewFromInt(200), decimal.NewFromInt(400), time.Now())
	require.NoError(t, store.Save(ctx, session, time.Minute))
	require.NoError(t, store.Delete(ctx, "g2"))

	_, err = store.Load(ctx, "g2")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// snapshots expire with their TTL
	require.NoError(t, store.Save(ctx, session, time.Minute))
	mr.FastForward(2 * time.Minute)
	_, err = store.Load(ctx, "g2")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// deleting a missing snapshot is not an error
	assert.NoError(t, store.Delete(ctx, "g2"))
}

func TestSessionStoreCorruptSnapshot(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "jokenpo:game:bad", "{not json", time.Minute).Err())

	_, err := store.Load(ctx, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}
