package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryKV struct {
	data    map[string][]byte
	counts  map[string]int64
	expires map[string]time.Duration
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string][]byte{}, counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNil
	}
	return v, nil
}

func (m *memoryKV) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	m.data[key] = data
	m.expires[key] = ttl
	return nil
}

func (m *memoryKV) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryKV) Incr(_ context.Context, key string) (int64, error) {
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memoryKV) Expire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.expires[key] = ttl
	return true, nil
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()

	var out map[string]int
	found, err := GetJSON(ctx, kv, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, kv, "k", map[string]int{"a": 1}, time.Minute))
	assert.Equal(t, time.Minute, kv.expires["k"])

	found, err = GetJSON(ctx, kv, "k", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, out["a"])

	kv.data["broken"] = []byte("{")
	_, err = GetJSON(ctx, kv, "broken", &out)
	assert.Error(t, err)
}

func TestCheckRateLimit(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()

	for i := 0; i < 3; i++ {
		limited, err := CheckRateLimit(ctx, kv, "checkout:s1", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, limited, "hit %d", i+1)
	}
	assert.Equal(t, time.Minute, kv.expires["ratelimit:checkout:s1"])

	limited, err := CheckRateLimit(ctx, kv, "checkout:s1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, limited)
}
