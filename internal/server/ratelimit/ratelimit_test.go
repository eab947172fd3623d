package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg *Config) *Limiter {
	t.Helper()
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)
	return l
}

func TestBucket(t *testing.T) {
	b := newBucket(10, 1.0) // 1 token per second
	now := time.Now()

	for i := 0; i < 5; i++ {
		require.True(t, b.allow(now), "request %d", i+1)
	}
	remaining, reset, next := b.status(now)
	assert.Equal(t, 5, remaining)
	assert.True(t, reset.After(now))
	assert.Zero(t, next)

	for i := 0; i < 5; i++ {
		b.allow(now)
	}
	assert.False(t, b.allow(now), "bucket is empty")
	_, _, next = b.status(now)
	assert.Positive(t, next)

	later := now.Add(1100 * time.Millisecond)
	assert.True(t, b.allow(later), "one token refilled")
	assert.False(t, b.allow(later))
}

func TestLimiter_DefaultLimit(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/layout", http.MethodPost)
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/layout", http.MethodPost)
	assert.False(t, allowed)
	assert.Zero(t, info.Remaining)
	assert.Positive(t, info.RetryAfter)
}

func TestLimiter_ClientLists(t *testing.T) {
	l := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.66": true},
	})

	for i := 0; i < 50; i++ {
		allowed, info := l.Allow("10.0.0.1", "/export", http.MethodPost)
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}

	allowed, _ := l.Allow("10.0.0.66", "/health", http.MethodGet)
	assert.False(t, allowed, "blacklisted clients are refused everywhere")
}

func TestLimiter_Disabled(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: false})

	for i := 0; i < 50; i++ {
		allowed, info := l.Allow("127.0.0.1", "/export", http.MethodPost)
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_BrowserTier(t *testing.T) {
	l := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: endpointConfigs(Tier{Limit: 5, Window: time.Hour, Burst: 3}, DefaultPreviewTier, DefaultWriteTier),
	})

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("127.0.0.1", "/export", http.MethodPost)
		require.True(t, allowed, "burst request %d", i+1)
		assert.Equal(t, 5, info.Limit)
	}
	allowed, _ := l.Allow("127.0.0.1", "/export", http.MethodPost)
	assert.False(t, allowed, "burst exhausted")

	// estimated layout is not browser-backed
	allowed, info := l.Allow("127.0.0.1", "/layout", http.MethodPost)
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_PrefixConfigSharesBucket(t *testing.T) {
	l := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/resumes/", Method: http.MethodDelete, Limit: 2, Window: time.Hour, Burst: 2},
		},
	})

	l.Allow("10.0.0.1", "/resumes/a", http.MethodDelete)
	l.Allow("10.0.0.1", "/resumes/b", http.MethodDelete)
	allowed, _ := l.Allow("10.0.0.1", "/resumes/c", http.MethodDelete)
	assert.False(t, allowed, "paths under one prefix share a bucket")

	allowed, _ = l.Allow("10.0.0.2", "/resumes/c", http.MethodDelete)
	assert.True(t, allowed, "clients never share a bucket")
}

func TestLimiter_Concurrent(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Hour})

	var wg sync.WaitGroup
	var allowed atomic.Int64
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("127.0.0.1", "/layout", http.MethodPost); ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), allowed.Load())
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 5; i++ {
		l.Allow(fmt.Sprintf("10.0.0.%d", i), "/layout", http.MethodPost)
	}
	l.cleanupBuckets(time.Now().Add(-time.Minute))
	l.mu.Lock()
	assert.Len(t, l.buckets, 5, "recent buckets survive")
	l.mu.Unlock()

	l.cleanupBuckets(time.Now().Add(time.Second))
	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.buckets)
	assert.Empty(t, l.lastAccess)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := newTestLimiter(t, nil)

	allowed, info := l.Allow("127.0.0.1", "/layout", http.MethodPost)
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name     string
		method   string
		path     string
		wantPath string
		wantNil  bool
		wantFree bool
	}{
		{name: "health is free", method: http.MethodGet, path: "/health", wantFree: true},
		{name: "presets are free", method: http.MethodGet, path: "/presets", wantFree: true},
		{name: "export exact", method: http.MethodPost, path: "/export", wantPath: "/export"},
		{name: "preview exact", method: http.MethodPost, path: "/preview", wantPath: "/preview"},
		{name: "create resume exact", method: http.MethodPost, path: "/resumes", wantPath: "/resumes"},
		{name: "stored export prefix", method: http.MethodPost, path: "/resumes/42/exports", wantPath: "/resumes/"},
		{name: "update prefix", method: http.MethodPut, path: "/resumes/42", wantPath: "/resumes/"},
		{name: "estimated layout uses default", method: http.MethodPost, path: "/layout", wantNil: true},
		{name: "reads use default", method: http.MethodGet, path: "/resumes/42", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := MatchEndpoint(tt.path, tt.method, configs)
			switch {
			case tt.wantNil:
				assert.Nil(t, c)
			case tt.wantFree:
				require.NotNil(t, c)
				assert.Zero(t, c.Limit)
			default:
				require.NotNil(t, c)
				assert.Equal(t, tt.wantPath, c.Path)
			}
		})
	}
}

func TestMatchEndpoint_LongestPrefixWins(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/resumes/", Method: http.MethodPost, Limit: 10},
		{Path: "/resumes/archive/", Method: http.MethodPost, Limit: 1},
	}

	c := MatchEndpoint("/resumes/archive/7", http.MethodPost, configs)
	require.NotNil(t, c)
	assert.Equal(t, 1, c.Limit)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	t.Setenv("RATE_LIMIT_BROWSER_LIMIT", "3")
	t.Setenv("RATE_LIMIT_BROWSER_BURST", "1")
	t.Setenv("RATE_LIMIT_WRITE_WINDOW", "not-a-duration")
	t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1 ,,10.0.0.2")
	t.Setenv("RATE_LIMIT_BLACKLIST", "")

	cfg := LoadConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1000, cfg.DefaultLimit)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
	assert.Empty(t, cfg.Blacklist)

	export := MatchEndpoint("/export", http.MethodPost, cfg.EndpointConfigs)
	require.NotNil(t, export)
	assert.Equal(t, 3, export.Limit)
	assert.Equal(t, 1, export.Burst)
	assert.Equal(t, time.Minute, export.Window)

	write := MatchEndpoint("/resumes/1", http.MethodDelete, cfg.EndpointConfigs)
	require.NotNil(t, write)
	assert.Equal(t, DefaultWriteTier.Window, write.Window, "malformed values keep the default")
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := LoadConfig()

	assert.False(t, cfg.Enabled)
	assert.Empty(t, cfg.EndpointConfigs)
}
