package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "backoffice:test-session")
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)

	require.NoError(t, store.Save(context.Background(), Credentials{
		AccessToken:   "acc_1",
		RefreshToken:  "ref_1",
		IdentityToken: "id_1",
	}))

	access, err := store.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acc_1", access)

	refresh, err := store.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ref_1", refresh)

	identity, err := store.IdentityToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id_1", identity)
}

func TestRedisStoreLookupNotFound(t *testing.T) {
	store := newTestRedisStore(t)

	_, err := store.AccessToken(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStorePartialSaveKeepsOtherSlots(t *testing.T) {
	store := newTestRedisStore(t)
	require.NoError(t, store.Save(context.Background(), Credentials{
		AccessToken:  "acc_1",
		RefreshToken: "ref_1",
	}))

	require.NoError(t, store.Save(context.Background(), Credentials{AccessToken: "acc_2"}))

	access, err := store.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acc_2", access)

	refresh, err := store.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ref_1", refresh)
}

func TestRedisStoreClearIsIdempotent(t *testing.T) {
	store := newTestRedisStore(t)
	require.NoError(t, store.Save(context.Background(), Credentials{AccessToken: "acc_1"}))

	require.NoError(t, store.Clear(context.Background()))
	require.NoError(t, store.Clear(context.Background()))

	_, err := store.Bootstrap(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}
