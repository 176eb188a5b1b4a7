package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var got payload
	hit, err := m.GetJSON(ctx, "slots:1:2030-01-02", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, m.SetJSON(ctx, "slots:1:2030-01-02", payload{Date: "2030-01-02", Slots: []string{"08:00"}}, time.Minute))

	hit, err = m.GetJSON(ctx, "slots:1:2030-01-02", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"08:00"}, got.Slots)

	require.NoError(t, m.Delete(ctx, "slots:1:2030-01-02", "unknown"))
	hit, err = m.GetJSON(ctx, "slots:1:2030-01-02", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemory_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.SetJSON(ctx, "slots:1:2030-01-02", payload{}, 0))
	require.NoError(t, m.SetJSON(ctx, "slots:2:2030-01-03", payload{}, 0))
	require.NoError(t, m.SetJSON(ctx, "other", payload{}, 0))

	require.NoError(t, m.DeletePrefix(ctx, "slots:"))

	hit, _ := m.GetJSON(ctx, "slots:1:2030-01-02", &payload{})
	assert.False(t, hit)
	hit, _ = m.GetJSON(ctx, "other", &payload{})
	assert.True(t, hit)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.SetJSON(ctx, "k", payload{Date: "x"}, time.Minute))

	now = now.Add(59 * time.Second)
	hit, err := m.GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.True(t, hit)

	now = now.Add(time.Second)
	hit, err = m.GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemory_SetSweepsExpiredKeys(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.SetJSON(ctx, "slots:1:2030-01-02", payload{Date: "2030-01-02"}, 30*time.Second))
	require.NoError(t, m.SetJSON(ctx, "slots:1:2030-01-03", payload{Date: "2030-01-03"}, time.Hour))
	require.NoError(t, m.SetJSON(ctx, "pinned", payload{}, 0))
	assert.Equal(t, 3, m.Len())

	// The expired key is never read again; the next write past the sweep
	// interval removes it.
	now = now.Add(sweepInterval)
	require.NoError(t, m.SetJSON(ctx, "slots:2:2030-01-02", payload{Date: "2030-01-02"}, time.Hour))
	assert.Equal(t, 3, m.Len())

	var got payload
	hit, err := m.GetJSON(ctx, "slots:1:2030-01-03", &got)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("SALON_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SALON_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	r, err := NewRedis(ctx, addr, "", 0)
	require.NoError(t, err)
	defer r.Close()

	key := "test:" + time.Now().Format(time.RFC3339Nano)
	require.NoError(t, r.SetJSON(ctx, key, payload{Date: "2030-01-02"}, time.Minute))

	var got payload
	hit, err := r.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "2030-01-02", got.Date)

	require.NoError(t, r.Delete(ctx, key))
	hit, err = r.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedis(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
