package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucket_Allow(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	// The full burst is available immediately.
	for i := 0; i < 10; i++ {
		assert.True(t, bucket.allow(), "request %d should be allowed", i+1)
	}
	assert.False(t, bucket.allow(), "request past capacity should be denied")
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)
	for i := 0; i < 10; i++ {
		bucket.allow()
	}

	time.Sleep(1100 * time.Millisecond)

	assert.True(t, bucket.allow(), "one token should have refilled")
	assert.False(t, bucket.allow(), "refilled token was already consumed")
}

func TestTokenBucket_GetStatus(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)
	for i := 0; i < 5; i++ {
		bucket.allow()
	}

	remaining, resetTime := bucket.getStatus()
	assert.Equal(t, 5, remaining)
	assert.True(t, resetTime.After(time.Now()), "reset time should be in the future")
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/applications", "GET")
		require.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/applications", "GET")
	assert.False(t, allowed, "request past limit should be denied")
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/applications", "GET")
		require.True(t, allowed, "whitelisted request %d should be allowed", i+1)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("192.168.1.1", "/applications", "GET")
	assert.False(t, allowed, "blacklisted request should be denied")
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/applications", "GET")
		require.True(t, allowed, "all requests pass when limiting is disabled")
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/applications/stage/bulk", Method: "POST", Limit: 5, Window: time.Hour, Burst: 5},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/applications/stage/bulk", "POST")
		require.True(t, allowed, "burst request %d should be allowed", i+1)
		assert.Equal(t, 5, info.Limit)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/applications/stage/bulk", "POST")
	assert.False(t, allowed, "request past the endpoint limit should be denied")
	assert.Equal(t, 5, info.Limit)

	// An unconfigured endpoint falls back to the global default.
	allowed, info = limiter.Allow("127.0.0.1", "/other", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _ := limiter.Allow("127.0.0.1", "/applications", "GET")
			if allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowedCount, "exactly the limit should pass under contention")
}

func TestLimiter_Cleanup(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    10,
		DefaultWindow:   time.Minute,
		CleanupInterval: 100 * time.Millisecond,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		clientID := fmt.Sprintf("127.0.0.%d", i+1)
		allowed, _ := limiter.Allow(clientID, "/applications", "GET")
		require.True(t, allowed)
	}

	time.Sleep(150 * time.Millisecond)

	// Recently-seen buckets survive eviction passes and keep working.
	for i := 0; i < 5; i++ {
		clientID := fmt.Sprintf("127.0.0.%d", i+1)
		allowed, _ := limiter.Allow(clientID, "/applications", "GET")
		require.True(t, allowed, "client %s should still be allowed after cleanup", clientID)
	}
}

func TestLimiter_Burst(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/scheduling/panel/suggest", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/scheduling/panel/suggest", "POST")
		require.True(t, allowed, "burst request %d should be allowed", i+1)
	}

	allowed, _ := limiter.Allow("127.0.0.1", "/scheduling/panel/suggest", "POST")
	assert.False(t, allowed, "burst capacity caps immediate requests below the window limit")
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()
	require.NotNil(t, limiter)

	allowed, info := limiter.Allow("127.0.0.1", "/applications", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/applications/stage/bulk", Method: "POST", Limit: 30},
		{Path: "/interviews/", Method: "POST", Limit: 100},
	}

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{name: "exact match", path: "/applications/stage/bulk", method: "POST", wantLimit: 30},
		{name: "prefix match", path: "/interviews/abc/cancel", method: "POST", wantLimit: 100},
		{name: "method mismatch", path: "/applications/stage/bulk", method: "GET", wantNil: true},
		{name: "no match", path: "/scorecards", method: "GET", wantNil: true},
		{name: "health unlimited", path: "/health", method: "GET", wantLimit: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}
