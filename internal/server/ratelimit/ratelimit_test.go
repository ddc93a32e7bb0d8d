package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func testLimiter(t *testing.T, cfg *Config) (*Limiter, *clock) {
	t.Helper()
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l.now = c.now
	return l, c
}

func TestBucket_TakeAndRefill(t *testing.T) {
	start := time.Now()
	b := newBucket(3, 1, start)

	for i := 0; i < 3; i++ {
		allowed, _, _ := b.take(start)
		assert.True(t, allowed, "request %d", i+1)
	}
	allowed, remaining, reset := b.take(start)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, start.Add(3*time.Second), reset)
	assert.Equal(t, time.Second, b.nextToken())

	allowed, _, _ = b.take(start.Add(1100 * time.Millisecond))
	assert.True(t, allowed)
}

func TestBucket_NeverExceedsCapacity(t *testing.T) {
	start := time.Now()
	b := newBucket(2, 10, start)
	_, remaining, reset := b.take(start.Add(time.Hour))
	assert.Equal(t, 1, remaining)
	assert.True(t, reset.After(start))
}

func TestLimiter_DefaultLimit(t *testing.T) {
	l, c := testLimiter(t, &Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute})

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("1.2.3.4", "/templates", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
		assert.Equal(t, 4-i, info.Remaining)
	}

	allowed, info := l.Allow("1.2.3.4", "/templates", "GET")
	assert.False(t, allowed)
	assert.InDelta(t, float64(12*time.Second), float64(info.RetryAfter), float64(time.Millisecond))

	// Another client has its own bucket
	allowed, _ = l.Allow("5.6.7.8", "/templates", "GET")
	assert.True(t, allowed)

	c.advance(13 * time.Second)
	allowed, _ = l.Allow("1.2.3.4", "/templates", "GET")
	assert.True(t, allowed)
}

func TestLimiter_Whitelist(t *testing.T) {
	l, _ := testLimiter(t, &Config{
		Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute,
		Whitelist: map[string]bool{"10.0.0.1": true},
	})
	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/templates", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	l, _ := testLimiter(t, &Config{
		Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute,
		Blacklist: map[string]bool{"10.0.0.2": true},
	})
	allowed, _ := l.Allow("10.0.0.2", "/health", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := testLimiter(t, &Config{Enabled: false})
	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/export/pdf", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_ExportEndpointsStrict(t *testing.T) {
	l, _ := testLimiter(t, &Config{
		Enabled: true, DefaultLimit: 1000, DefaultWindow: time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(20),
	})

	allowed, info := l.Allow("1.2.3.4", "/export/pdf", "POST")
	require.True(t, allowed)
	assert.Equal(t, 20, info.Limit)
	allowed, _ = l.Allow("1.2.3.4", "/export/pdf", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/export/pdf", "POST")
	assert.False(t, allowed, "burst of 2 exhausted")

	// Print export has its own bucket
	allowed, _ = l.Allow("1.2.3.4", "/export/print", "POST")
	assert.True(t, allowed)

	// Reads use the default
	allowed, info = l.Allow("1.2.3.4", "/templates", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_PrefixSharesBucket(t *testing.T) {
	l, _ := testLimiter(t, &Config{
		Enabled: true, DefaultLimit: 1000, DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{{Path: "/exports/", Method: "GET", Limit: 2, Window: time.Minute}},
	})

	allowed, _ := l.Allow("1.2.3.4", "/exports/a", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/exports/b", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/exports/c", "GET")
	assert.False(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := testLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/health", "GET")
		assert.True(t, allowed)
	}
	assert.Equal(t, 0, l.Len())
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := testLimiter(t, &Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})

	var allowedCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("1.2.3.4", "/templates", "GET"); ok {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(50), allowedCount.Load())
}

func TestLimiter_Cleanup(t *testing.T) {
	l, c := testLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Minute})

	for i := 0; i < 3; i++ {
		l.Allow(fmt.Sprintf("10.0.0.%d", i), "/templates", "GET")
	}
	require.Equal(t, 3, l.Len())

	c.advance(30 * time.Second)
	l.Allow("10.0.0.0", "/templates", "GET")
	c.advance(45 * time.Second)
	l.cleanup()

	assert.Equal(t, 1, l.Len())
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()
	allowed, info := l.Allow("1.2.3.4", "/templates", "GET")
	assert.True(t, allowed)
	assert.Equal(t, DefaultLimit, info.Limit)
	l.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/exports/", Method: "GET", Limit: 1},
		{Path: "/exports/special/", Method: "GET", Limit: 2},
		{Path: "/export/pdf", Method: "POST", Limit: 3},
	}

	assert.Equal(t, 3, MatchEndpoint("/export/pdf", "POST", configs).Limit)
	assert.Nil(t, MatchEndpoint("/export/pdf", "GET", configs))
	assert.Equal(t, 1, MatchEndpoint("/exports/abc", "GET", configs).Limit)
	assert.Equal(t, 2, MatchEndpoint("/exports/special/x", "GET", configs).Limit)
	assert.Nil(t, MatchEndpoint("/templates", "GET", configs))
	assert.Equal(t, 0, MatchEndpoint("/health", "GET", configs).Limit)
}

func TestLoadConfig(t *testing.T) {
	env := map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT":  "42",
		"RATE_LIMIT_WHITELIST":      "10.0.0.1, 10.0.0.2",
		"RATE_LIMIT_EXPORT_LIMIT":   "5",
		"RATE_LIMIT_DEFAULT_WINDOW": "bogus",
	}
	cfg := LoadConfig(func(k string) string { return env[k] })

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.True(t, cfg.Whitelist["10.0.0.2"])
	assert.Empty(t, cfg.Blacklist)
	assert.Equal(t, 5, MatchEndpoint("/export/print", "POST", cfg.EndpointConfigs).Limit)
	assert.Equal(t, 1, MatchEndpoint("/export/print", "POST", cfg.EndpointConfigs).Burst)
}

func TestLoadConfig_Disabled(t *testing.T) {
	cfg := LoadConfig(func(k string) string {
		if k == "RATE_LIMIT_ENABLED" {
			return "false"
		}
		return ""
	})
	assert.False(t, cfg.Enabled)
}
