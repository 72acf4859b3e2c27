package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgredis "github.com/aurelhart/storefront-backend/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	val, ok := f.values[key]
	if !ok {
		return "", pkgredis.Nil
	}
	return val, nil
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, ok := value.([]byte)
	if !ok {
		return errors.New("unexpected value type")
	}
	f.values[key] = string(raw)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeRedis) CartSnapshotKey(sessionID string) string {
	return "sf:cart:" + sessionID
}

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Parallel()

	client := newFakeRedis()
	store := &RedisStore{client: client, ttl: time.Hour}
	ctx := context.Background()

	got, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got, "redis nil loads as absent")

	snap := sampleSnapshot()
	require.NoError(t, store.Save(ctx, "sess-1", snap))
	assert.Equal(t, time.Hour, client.ttls["sf:cart:sess-1"])

	got, err = store.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap.Version, got.Version)
	require.Len(t, got.Items, 1)
	assert.Equal(t, snap.Items[0].ID, got.Items[0].ID)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	got, err = store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreCorruptPayloadLoadsAsAbsent(t *testing.T) {
	t.Parallel()

	client := newFakeRedis()
	client.values["sf:cart:sess-1"] = "{not json"
	store := &RedisStore{client: client, ttl: time.Hour}

	got, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreSurfacesConnectionErrors(t *testing.T) {
	t.Parallel()

	client := newFakeRedis()
	client.getErr = errors.New("connection refused")
	store := &RedisStore{client: client, ttl: time.Hour}

	_, err := store.Load(context.Background(), "sess-1")
	require.Error(t, err)
}

func TestNewRedisStoreRequiresClient(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisStore(nil, time.Hour); err == nil {
		t.Fatal("expected error for nil client")
	}
}
