package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
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

func TestTokenBucket_TakeAndRefill(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(10, 1.0, clock.Now())

	for i := 0; i < 10; i++ {
		allowed, remaining, _ := bucket.take(clock.Now())
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 9-i, remaining)
	}

	allowed, _, reset := bucket.take(clock.Now())
	assert.False(t, allowed)
	assert.Equal(t, clock.Now().Add(10*time.Second), reset)
	assert.Equal(t, time.Second, bucket.untilNext())

	clock.Advance(time.Second)
	allowed, _, _ = bucket.take(clock.Now())
	assert.True(t, allowed)

	allowed, _, _ = bucket.take(clock.Now())
	assert.False(t, allowed)
}

func TestTokenBucket_NeverExceedsCapacity(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(3, 1.0, clock.Now())

	clock.Advance(time.Hour)
	_, remaining, reset := bucket.take(clock.Now())
	assert.Equal(t, 2, remaining)
	assert.Equal(t, clock.Now().Add(time.Second), reset)
}

func TestLimiter_DefaultTier(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	}, WithClock(clock.Now))
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/jobs", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
		assert.Empty(t, info.Pattern)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/jobs", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, float64(6*time.Second), float64(info.RetryAfter), float64(time.Millisecond))

	// other clients have their own budget
	allowed, _ = limiter.Allow("10.0.0.2", "/jobs", "GET")
	assert.True(t, allowed)
}

func TestLimiter_WhitelistBlacklistDisabled(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
		Blacklist:     map[string]bool{"192.168.1.66": true},
	})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/jobs", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}

	allowed, _ := limiter.Allow("192.168.1.66", "/health", "GET")
	assert.False(t, allowed)

	disabled := NewLimiter(&Config{Enabled: false})
	defer disabled.Stop()
	for i := 0; i < 50; i++ {
		allowed, _ := disabled.Allow("10.0.0.1", "/jobs/j/candidates/c/reveal", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 20; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_RevealBudgetSharedAcrossCandidates(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: EndpointConfigs(2, time.Hour),
	}, WithClock(clock.Now))
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/jobs/job-1/candidates/CND-1/reveal", "POST")
	require.True(t, allowed)
	assert.Equal(t, "/jobs/{id}/candidates/{candidate_id}/reveal", info.Pattern)
	assert.Equal(t, 2, info.Limit)

	allowed, _ = limiter.Allow("127.0.0.1", "/jobs/job-1/candidates/CND-2/reveal", "POST")
	require.True(t, allowed)

	allowed, info = limiter.Allow("127.0.0.1", "/jobs/job-2/candidates/CND-3/reveal", "POST")
	assert.False(t, allowed)
	assert.InDelta(t, float64(30*time.Minute), float64(info.RetryAfter), float64(time.Second))

	// shortlisting is a separate tier
	allowed, _ = limiter.Allow("127.0.0.1", "/jobs/job-2/candidates/CND-3/shortlist", "POST")
	assert.True(t, allowed)

	clock.Advance(31 * time.Minute)
	allowed, _ = limiter.Allow("127.0.0.1", "/jobs/job-2/candidates/CND-3/reveal", "POST")
	assert.True(t, allowed)
}

func TestLimiter_Concurrent(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  50,
		DefaultWindow: time.Minute,
	}, WithClock(clock.Now))
	defer limiter.Stop()

	var allowedCount atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("127.0.0.1", "/stats", "GET"); ok {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), allowedCount.Load())
	assert.Equal(t, 1, limiter.Len())
}

func TestLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		IdleTTL:       time.Hour,
	}, WithClock(clock.Now))
	defer limiter.Stop()

	limiter.Allow("10.0.0.1", "/jobs", "GET")
	clock.Advance(45 * time.Minute)
	limiter.Allow("10.0.0.2", "/jobs", "GET")
	require.Equal(t, 2, limiter.Len())

	clock.Advance(30 * time.Minute)
	limiter.cleanupBuckets()
	assert.Equal(t, 1, limiter.Len())

	clock.Advance(time.Hour)
	limiter.cleanupBuckets()
	assert.Equal(t, 0, limiter.Len())
}

func TestLimiter_StopIdempotent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Second, CleanupInterval: time.Millisecond})
	limiter.Stop()
	limiter.Stop()
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/jobs", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name        string
		path        string
		method      string
		wantPattern string
		wantNil     bool
	}{
		{name: "health", path: "/health", method: "GET", wantPattern: "/health"},
		{name: "reveal", path: "/jobs/j1/candidates/c1/reveal", method: "POST", wantPattern: "/jobs/{id}/candidates/{candidate_id}/reveal"},
		{name: "post job", path: "/jobs", method: "POST", wantPattern: "/jobs"},
		{name: "shortlist uses write prefix", path: "/jobs/j1/candidates/c1/shortlist", method: "POST", wantPattern: "/jobs/"},
		{name: "unshortlist", path: "/jobs/j1/candidates/c1/shortlist", method: "DELETE", wantPattern: "/jobs/"},
		{name: "update skills", path: "/jobs/j1/skills", method: "PUT", wantPattern: "/jobs/"},
		{name: "submit cv", path: "/candidates/c1/cv", method: "POST", wantPattern: "/candidates/"},
		{name: "apply", path: "/candidates/c1/jobs/j1/apply", method: "POST", wantPattern: "/candidates/"},
		{name: "escaped slash stays one segment", path: "/jobs/j1/candidates/c%2F1/reveal", method: "POST", wantPattern: "/jobs/{id}/candidates/{candidate_id}/reveal"},
		{name: "empty segment is not a reveal", path: "/jobs//candidates/c1/reveal", method: "POST", wantPattern: "/jobs/"},
		{name: "reads fall through", path: "/jobs/j1/candidates", method: "GET", wantNil: true},
		{name: "unknown", path: "/metrics", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPattern, got.Pattern)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "false")
		cfg := LoadConfig()
		assert.False(t, cfg.Enabled)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "true")
		t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
		t.Setenv("RATE_LIMIT_REVEAL_LIMIT", "3")
		t.Setenv("RATE_LIMIT_REVEAL_WINDOW", "10m")
		t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1, ,10.0.0.2")

		cfg := LoadConfig()
		assert.True(t, cfg.Enabled)
		assert.Equal(t, 42, cfg.DefaultLimit)
		assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)

		reveal := MatchEndpoint("/jobs/a/candidates/b/reveal", "POST", cfg.EndpointConfigs)
		require.NotNil(t, reveal)
		assert.Equal(t, 3, reveal.Limit)
		assert.Equal(t, 3, reveal.Burst)
		assert.Equal(t, 10*time.Minute, reveal.Window)
	})

	t.Run("bad values fall back", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "yes please")
		t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "lots")
		t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "soon")
		cfg := LoadConfig()
		assert.True(t, cfg.Enabled)
		assert.Equal(t, 1000, cfg.DefaultLimit)
		assert.Equal(t, time.Minute, cfg.DefaultWindow)
	})
}
