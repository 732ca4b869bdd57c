package ratelimiter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(rate, capacity float64) (*KeyedLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	l := New(rate, capacity, time.Hour)
	l.now = clock.Now
	return l, clock
}

func TestKeyedLimiter_Allow(t *testing.T) {
	t.Run("allows up to capacity then denies", func(t *testing.T) {
		l, _ := newTestLimiter(1, 3)
		defer l.Stop()

		assert.True(t, l.Allow("10.0.0.1"))
		assert.True(t, l.Allow("10.0.0.1"))
		assert.True(t, l.Allow("10.0.0.1"))
		assert.False(t, l.Allow("10.0.0.1"))
	})

	t.Run("refills over time without exceeding capacity", func(t *testing.T) {
		l, clock := newTestLimiter(1, 2)
		defer l.Stop()

		assert.True(t, l.Allow("k"))
		assert.True(t, l.Allow("k"))
		assert.False(t, l.Allow("k"))

		clock.Advance(time.Hour)
		assert.True(t, l.Allow("k"))
		assert.True(t, l.Allow("k"))
		assert.False(t, l.Allow("k"), "refill is capped at capacity")
	})

	t.Run("keys are independent", func(t *testing.T) {
		l, _ := newTestLimiter(1, 1)
		defer l.Stop()

		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))
		assert.True(t, l.Allow("b"))
		assert.Equal(t, 2, l.Len())
	})
}

func TestKeyedLimiter_Expiration(t *testing.T) {
	l := New(1, 1, 20*time.Millisecond)
	defer l.Stop()

	l.Allow("idle")
	assert.Equal(t, 1, l.Len())
	assert.Eventually(t, func() bool { return l.Len() == 0 }, time.Second, 5*time.Millisecond)
}
