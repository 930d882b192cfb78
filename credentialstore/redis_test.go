package credentialstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStorage(t *testing.T, prefix string) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisStorage(rdb, prefix), mr
}

func TestRedisStorage_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	storage, mr := newTestRedisStorage(t, "")

	_, err := storage.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, storage.Set(ctx, TokenKey, "tok-1"))
	value, err := storage.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", value)
	assert.True(t, mr.Exists(DefaultRedisPrefix+TokenKey))

	require.NoError(t, storage.Remove(ctx, TokenKey))
	_, err = storage.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisStorage_ClearStaysInsideNamespace(t *testing.T) {
	ctx := context.Background()
	storage, mr := newTestRedisStorage(t, "app1:")

	require.NoError(t, mr.Set("other:token", "keep"))
	require.NoError(t, storage.Set(ctx, TokenKey, "tok"))
	require.NoError(t, storage.Set(ctx, RoleKey, "admin"))

	require.NoError(t, storage.Clear(ctx))

	assert.False(t, mr.Exists("app1:token"))
	assert.False(t, mr.Exists("app1:role"))
	assert.True(t, mr.Exists("other:token"))
}
