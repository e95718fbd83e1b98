package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	b, err := OpenBolt(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	r, _ := newTestRedis(t)
	return map[string]Store{
		"memory": NewMemory(),
		"bolt":   b,
		"redis":  r,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "lera_cart:visitor:1")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "lera_cart:visitor:1", []byte(`[{"id":"a"}]`)))
			got, err := s.Get(ctx, "lera_cart:visitor:1")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"a"}]`, string(got))

			require.NoError(t, s.Set(ctx, "lera_cart:visitor:1", []byte(`[]`)))
			got, err = s.Get(ctx, "lera_cart:visitor:1")
			require.NoError(t, err)
			assert.Equal(t, "[]", string(got))

			require.NoError(t, s.Delete(ctx, "lera_cart:visitor:1"))
			_, err = s.Get(ctx, "lera_cart:visitor:1")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, s.Delete(ctx, "missing"), "deleting an absent key is not an error")
		})
	}
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.db")
	ctx := context.Background()

	b, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, b.Set(ctx, "k", []byte("v")))
	require.NoError(t, b.Close())

	b, err = OpenBolt(path)
	require.NoError(t, err)
	defer b.Close()
	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestRedisSetsTTL(t *testing.T) {
	r, mr := newTestRedis(t)
	require.NoError(t, r.Set(context.Background(), "k", []byte("v")))
	assert.Equal(t, DefaultTTL, mr.TTL("k"))

	mr.FastForward(DefaultTTL + time.Second)
	_, err := r.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'x'

	got, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(got))
}

func brokers(t *testing.T) map[string]Broker {
	r, _ := newTestRedis(t)
	return map[string]Broker{
		"local": NewLocalBroker(),
		"redis": r,
	}
}

func TestBrokerDelivers(t *testing.T) {
	ctx := context.Background()
	for name, b := range brokers(t) {
		t.Run(name, func(t *testing.T) {
			msgs, cancel, err := b.Subscribe(ctx, "lera_cart:visitor:1")
			require.NoError(t, err)
			defer cancel()

			require.NoError(t, b.Publish(ctx, "lera_cart:visitor:2", "updated"))
			require.NoError(t, b.Publish(ctx, "lera_cart:visitor:1", "cleared"))

			select {
			case m := <-msgs:
				assert.Equal(t, "cleared", m)
			case <-time.After(2 * time.Second):
				t.Fatal("no message received")
			}
		})
	}
}

func TestLocalBrokerCancelClosesChannel(t *testing.T) {
	b := NewLocalBroker()
	msgs, cancel, err := b.Subscribe(context.Background(), "c")
	require.NoError(t, err)

	cancel()
	cancel()

	_, open := <-msgs
	assert.False(t, open)
	assert.NoError(t, b.Publish(context.Background(), "c", "updated"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, b.Store)
	assert.IsType(t, &LocalBroker{}, b.Broker)
	assert.IsType(t, &LocalCounter{}, b.Counter)

	b, err = Open(ctx, Options{Driver: DriverBolt, BoltPath: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &Bolt{}, b.Store)
	require.NoError(t, b.Close())

	mr := miniredis.RunT(t)
	b, err = Open(ctx, Options{Driver: DriverRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.Same(t, b.Store.(*Redis), b.Broker.(*Redis))
	require.NoError(t, b.Close())

	_, err = Open(ctx, Options{Driver: "etcd"})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Driver: DriverRedis})
	assert.Error(t, err)
}

func TestRedisCounter(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := r.Incr(ctx, "rl:reviews:visitor:1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	assert.Equal(t, time.Minute, mr.TTL("rl:reviews:visitor:1"))

	mr.FastForward(time.Minute + time.Second)
	n, err := r.Incr(ctx, "rl:reviews:visitor:1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLocalCounterWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewLocalCounter()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	n, _ := c.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(1), n)
	n, _ = c.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(2), n)

	now = now.Add(time.Minute)
	n, _ = c.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(1), n, "new window")
}
