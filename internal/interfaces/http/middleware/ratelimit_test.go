package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(rate float64, burst int) (*TokenBucketLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 7, 2, 10, 0, 0, 0, time.UTC)}
	l := NewTokenBucketLimiter(rate, burst, 0)
	l.now = clock.now
	return l, clock
}

func TestTokenBucketLimiter_BurstThenRefill(t *testing.T) {
	l, clock := newTestLimiter(1, 3)

	for i := 0; i < 3; i++ {
		ok, info := l.Allow("10.0.0.1")
		require.True(t, ok, "request %d", i)
		assert.Equal(t, 2-i, info.Remaining)
	}
	ok, info := l.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Zero(t, info.Remaining)

	clock.advance(time.Second)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok)
}

func TestTokenBucketLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, 1)

	ok, _ := l.Allow("a")
	assert.True(t, ok)
	ok, _ = l.Allow("a")
	assert.False(t, ok)
	ok, _ = l.Allow("b")
	assert.True(t, ok)
	assert.Equal(t, 2, l.BucketCount())
}

func TestTokenBucketLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	l, clock := newTestLimiter(10, 5)
	l.cleanupInterval = time.Minute

	l.Allow("idle")
	clock.advance(2 * time.Minute)
	l.Allow("active")
	l.cleanup()

	assert.Equal(t, 1, l.BucketCount())
	l.Stop()
	l.Stop()
}

func TestRateLimit_Middleware(t *testing.T) {
	l, _ := newTestLimiter(1, 1)
	h := RateLimit(l, RateLimitConfig{SkipPaths: []string{"/healthz"}})(okHandler())

	req := func(path string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		r.RemoteAddr = "192.0.2.7:51234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	first := req("/fra-data")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := req("/fra-data")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])

	assert.Equal(t, http.StatusOK, req("/healthz").Code)
}

func TestClientAddr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.4:443"
	assert.Equal(t, "198.51.100.4", ClientAddr(r))

	r.RemoteAddr = "198.51.100.4"
	assert.Equal(t, "198.51.100.4", ClientAddr(r))
}

func TestRateLimitForRPS(t *testing.T) {
	cfg := RateLimitForRPS(5)
	assert.Equal(t, 5.0, cfg.RequestsPerSecond)
	assert.Equal(t, 10, cfg.BurstSize)

	assert.Equal(t, DefaultRateLimitConfig().RequestsPerSecond, RateLimitForRPS(0).RequestsPerSecond)
}

//Personal.AI order the ending
