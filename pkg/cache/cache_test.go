package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name  string `json:"name"`
	Image []byte `json:"image"`
}

func TestMemoryRoundTripAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "product:1", entry{Name: "Carrot", Image: []byte{1, 2}}, time.Minute))

	var got entry
	hit, err := m.Get(ctx, "product:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Carrot", got.Name)
	assert.Equal(t, []byte{1, 2}, got.Image)

	require.NoError(t, m.Del(ctx, "product:1"))
	hit, err = m.Get(ctx, "product:1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Now()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", "v", time.Second))
	now = now.Add(2 * time.Second)

	var s string
	hit, err := m.Get(ctx, "k", &s)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 0, m.Len())
}

func TestNoopNeverHits(t *testing.T) {
	var s Store = Noop{}
	require.NoError(t, s.Set(context.Background(), "k", "v", time.Minute))

	var out string
	hit, err := s.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestConnectWithoutAddrIsNoop(t *testing.T) {
	if os.Getenv("REDIS_ADDR") != "" {
		t.Skip("REDIS_ADDR is set")
	}
	s, err := Connect(context.Background())
	require.NoError(t, err)
	assert.IsType(t, Noop{}, s)
}

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	r := NewRedis(redis.NewClient(&redis.Options{Addr: addr}), "test:")
	defer r.Close()

	require.NoError(t, r.Set(ctx, "product:9", entry{Name: "Kale"}, time.Minute))

	var got entry
	hit, err := r.Get(ctx, "product:9", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Kale", got.Name)

	require.NoError(t, r.Del(ctx, "product:9"))
	hit, err = r.Get(ctx, "product:9", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
