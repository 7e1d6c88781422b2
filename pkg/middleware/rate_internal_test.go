package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPLimiterSweepsIdleVisitorsPeriodically(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPLimiter(10, time.Minute)
	l.now = func() time.Time { return clock }

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")
	assert.Equal(t, 2, l.Len())

	// idle long enough, but the sweep interval has not elapsed for this call
	clock = clock.Add(idleAfter + time.Second)
	l.lastSweep = clock
	l.Allow("10.0.0.3")
	assert.Equal(t, 3, l.Len())

	clock = clock.Add(sweepEvery)
	l.Allow("10.0.0.3")
	assert.Equal(t, 1, l.Len())
}
