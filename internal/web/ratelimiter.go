package web

import (
	"sync"
	"time"
)

// rateLimiter implements per-IP rate limiting with a sliding one-minute
// window.
type rateLimiter struct {
	mu        sync.Mutex
	requests  map[string][]int64
	perMinute int
	done      chan struct{}
	stopOnce  sync.Once
}

func newRateLimiter(perMinute int) *rateLimiter {
	rl := &rateLimiter{
		requests:  make(map[string][]int64),
		perMinute: perMinute,
		done:      make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// allow reports whether a request from ip fits in the window and, when
// it does not, how many seconds to wait before retrying.
func (rl *rateLimiter) allow(ip string) (bool, int) {
	if rl.perMinute <= 0 {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now().UnixMilli()
	recent := rl.requests[ip][:0]
	for _, ts := range rl.requests[ip] {
		if now-ts < 60_000 {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= rl.perMinute {
		rl.requests[ip] = recent
		retryMs := 60_000 - (now - recent[0])
		return false, int((retryMs + 999) / 1000)
	}

	rl.requests[ip] = append(recent, now)
	return true, 0
}

func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.done:
			return
		}
	}
}

func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now().UnixMilli()
	for ip, times := range rl.requests {
		recent := times[:0]
		for _, ts := range times {
			if now-ts < 60_000 {
				recent = append(recent, ts)
			}
		}
		if len(recent) == 0 {
			delete(rl.requests, ip)
		} else {
			rl.requests[ip] = recent
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}
