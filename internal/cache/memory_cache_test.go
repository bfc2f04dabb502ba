package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Manager, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 10, 6, 12, 0, 0, 0, time.UTC)}
	return New(ttl).WithClock(clock.Now), clock
}

func TestGetAfterSetReturnsStoredValue(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("nfl|schedule|period=", []string{"a"})

	v, ok := c.Get("nfl|schedule|period=", 0)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, v)
	assert.Equal(t, 1, c.Len())
}

func TestGetMissingKey(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	_, ok := c.Get("missing", 0)
	assert.False(t, ok)
}

func TestEntryExpiresAfterDefaultTTL(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Set("k", 1)

	clock.Advance(time.Minute)
	_, ok := c.Get("k", 0)
	assert.True(t, ok, "entry exactly at ttl is still fresh")

	clock.Advance(time.Nanosecond)
	_, ok = c.Get("k", 0)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry is evicted on read")
}

func TestTTLOverride(t *testing.T) {
	c, clock := newTestCache(5 * time.Minute)
	c.Set("live", 1)
	clock.Advance(20 * time.Second)

	_, ok := c.Get("live", 15*time.Second)
	assert.False(t, ok)

	c.Set("sched", 2)
	clock.Advance(20 * time.Second)
	_, ok = c.Get("sched", 0)
	assert.True(t, ok)
}

func TestSetReplacesWholesaleAndRefreshesTimestamp(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Set("k", "old")
	clock.Advance(50 * time.Second)
	c.Set("k", "new")
	clock.Advance(50 * time.Second)

	v, ok := c.Get("k", 0)
	require.True(t, ok)
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, c.Len())
}

func TestInvalidateAndClear(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	assert.True(t, c.Invalidate("a"))
	assert.False(t, c.Invalidate("a"))
	_, ok := c.Get("a", 0)
	assert.False(t, ok)

	assert.Equal(t, 2, c.Clear())
	assert.Equal(t, 0, c.Len())
}

func TestConcurrentAccess(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			c.Set(key, i)
			if _, ok := c.Get(key, 0); !ok {
				t.Errorf("expected %s to be readable after set", key)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, c.Len())
}
