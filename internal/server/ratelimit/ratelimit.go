// Package ratelimit provides per-client, per-endpoint request throttling
// using token buckets.
package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket is a single client+endpoint bucket. Tokens refill continuously
// at refillRate per second up to capacity; each allowed request consumes one.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   int
	refillRate float64
	tokens     float64
	lastRefill time.Time
	lastSeen   time.Time
}

func newTokenBucket(capacity int, refillRate float64) *TokenBucket {
	now := time.Now()
	return &TokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastSeen:   now,
	}
}

// refillLocked credits tokens for the time elapsed since the last refill.
// Caller holds mu.
func (tb *TokenBucket) refillLocked(now time.Time) {
	tb.tokens += now.Sub(tb.lastRefill).Seconds() * tb.refillRate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}
	tb.lastRefill = now
	tb.lastSeen = now
}

// allow consumes a token if one is available.
func (tb *TokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked(time.Now())
	if tb.tokens < 1.0 {
		return false
	}
	tb.tokens -= 1.0
	return true
}

// getStatus reports remaining tokens and when the bucket refills completely,
// without consuming anything.
func (tb *TokenBucket) getStatus() (remaining int, resetTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	tb.refillLocked(now)

	remaining = int(tb.tokens)
	resetTime = now
	if deficit := float64(tb.capacity) - tb.tokens; deficit > 0 {
		resetTime = now.Add(time.Duration(deficit / tb.refillRate * float64(time.Second)))
	}
	return remaining, resetTime
}

func (tb *TokenBucket) seenBefore(cutoff time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastSeen.Before(cutoff)
}

// Info describes the rate limit decision for one request, for response headers.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter throttles requests per client+endpoint+method, lazily creating a
// bucket for each combination and evicting idle ones in the background.
type Limiter struct {
	mu      sync.RWMutex
	buckets map[string]*TokenBucket
	config  *Config

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// NewLimiter creates a Limiter. A nil config enables limiting with a
// permissive global default.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
			Whitelist:       make(map[string]bool),
			Blacklist:       make(map[string]bool),
		}
	}

	l := &Limiter{
		buckets: make(map[string]*TokenBucket),
		config:  config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupTicker = time.NewTicker(config.CleanupInterval)
		l.cleanupStop = make(chan struct{})
		go l.cleanupLoop()
	}

	return l
}

// Allow decides whether a request from clientID to endpoint/method may
// proceed and returns the limit state for response headers.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	cfg := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if cfg == nil {
		cfg = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}

	// Limit <= 0 marks an unthrottled endpoint, e.g. the health check.
	if cfg.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	bucket := l.bucketFor(clientID+":"+endpoint+":"+method, cfg)

	allowed := bucket.allow()
	remaining, resetTime := bucket.getStatus()

	var retryAfter time.Duration
	if !allowed {
		if retryAfter = time.Until(resetTime); retryAfter < 0 {
			retryAfter = 0
		}
	}

	return allowed, Info{
		Allowed:    allowed,
		Limit:      cfg.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

func (l *Limiter) bucketFor(key string, cfg *EndpointConfig) *TokenBucket {
	l.mu.RLock()
	bucket, exists := l.buckets[key]
	l.mu.RUnlock()
	if exists {
		return bucket
	}

	capacity := cfg.Burst
	if capacity <= 0 {
		capacity = cfg.Limit
	}
	bucket = newTokenBucket(capacity, float64(cfg.Limit)/cfg.Window.Seconds())

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, exists := l.buckets[key]; exists {
		return existing
	}
	l.buckets[key] = bucket
	return bucket
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.evictIdle()
		case <-l.cleanupStop:
			return
		}
	}
}

// evictIdle drops buckets with no requests in the past hour.
func (l *Limiter) evictIdle() {
	cutoff := time.Now().Add(-1 * time.Hour)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, bucket := range l.buckets {
		if bucket.seenBefore(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop halts the background eviction goroutine.
func (l *Limiter) Stop() {
	if l.cleanupTicker != nil {
		l.cleanupTicker.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}
