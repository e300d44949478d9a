package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := newRateLimiter(5)
	defer rl.stop()

	ip := "198.51.100.1"
	for i := 0; i < 5; i++ {
		ok, _ := rl.allow(ip)
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, retryAfter := rl.allow(ip)
	assert.False(t, ok)
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 60)
}

func TestRateLimiterIndependentIPs(t *testing.T) {
	rl := newRateLimiter(2)
	defer rl.stop()

	for i := 0; i < 2; i++ {
		ok, _ := rl.allow("198.51.100.1")
		assert.True(t, ok)
		ok, _ = rl.allow("198.51.100.2")
		assert.True(t, ok)
	}

	ok, _ := rl.allow("198.51.100.1")
	assert.False(t, ok)
	ok, _ = rl.allow("198.51.100.2")
	assert.False(t, ok)
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := newRateLimiter(0)
	defer rl.stop()

	for i := 0; i < 100; i++ {
		ok, _ := rl.allow("198.51.100.1")
		assert.True(t, ok)
	}
}
