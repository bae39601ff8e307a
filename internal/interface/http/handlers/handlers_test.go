package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeHealthChecker(t *testing.T) {
	t.Run("no checks", func(t *testing.T) {
		status := NewCompositeHealthChecker("v").Check(context.Background())
		assert.True(t, status.Healthy)
		assert.True(t, status.Ready)
	})

	t.Run("optional failure only degrades", func(t *testing.T) {
		c := NewCompositeHealthChecker("v")
		c.AddCheck("store", func(context.Context) error { return nil })
		c.AddOptionalCheck("generation", StateCheck(func() string { return "open" }, "open"))

		status := c.Check(context.Background())
		assert.False(t, status.Healthy)
		assert.True(t, status.Ready)
		assert.Equal(t, "Degraded: generation", status.Message)
		assert.Equal(t, "state is open", status.Checks["generation"].Message)
	})

	t.Run("required failure is not ready", func(t *testing.T) {
		c := NewCompositeHealthChecker("v")
		c.AddCheck("store", func(context.Context) error { return errors.New("down") })
		status := c.Check(context.Background())
		assert.False(t, status.Ready)
		assert.Equal(t, "down", status.Checks["store"].Message)

		c.RemoveCheck("store")
		assert.True(t, c.Check(context.Background()).Ready)
	})

	t.Run("slow check times out", func(t *testing.T) {
		c := NewCompositeHealthChecker("v")
		c.SetTimeout(10 * time.Millisecond)
		c.AddCheck("slow", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		assert.False(t, c.Check(context.Background()).Ready)
	})
}

func TestRateLimiter_PerClient(t *testing.T) {
	l := NewRateLimiter(1, 1, nil)
	now := time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))

	now = now.Add(time.Minute)
	assert.True(t, l.Allow("10.0.0.1"))

	// Idle buckets are forgotten.
	now = now.Add(time.Hour)
	l.Allow("10.0.0.3")
	l.mu.Lock()
	defer l.mu.Unlock()
	require.Len(t, l.visitors, 1)
}

func TestClientIP(t *testing.T) {
	_, proxies, err := net.ParseCIDR("10.0.0.0/8")
	require.NoError(t, err)
	trusted := []*net.IPNet{proxies}

	t.Run("direct peer ignores forwarding headers", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "192.0.2.7:5555"
		r.Header.Set("X-Forwarded-For", "203.0.113.9")
		r.Header.Set("X-Real-IP", "198.51.100.4")

		assert.Equal(t, "192.0.2.7", ClientIP(r, nil))
		assert.Equal(t, "192.0.2.7", ClientIP(r, trusted))
	})

	t.Run("trusted proxy forwards the client", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.1.2.3:5555"
		assert.Equal(t, "10.1.2.3", ClientIP(r, trusted))

		r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		assert.Equal(t, "203.0.113.9", ClientIP(r, trusted))

		r.Header.Set("X-Real-IP", "198.51.100.4")
		assert.Equal(t, "198.51.100.4", ClientIP(r, trusted))
	})

	t.Run("garbage headers fall back to the peer", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.1.2.3:5555"
		r.Header.Set("X-Real-IP", "not-an-ip")
		r.Header.Set("X-Forwarded-For", "also-not")
		assert.Equal(t, "10.1.2.3", ClientIP(r, trusted))
	})
}

func TestRateLimiter_SpoofedHeadersShareBucket(t *testing.T) {
	l := NewRateLimiter(1, 1, nil)
	h := l.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for _, spoof := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "192.0.2.7:5555"
		r.Header.Set("X-Forwarded-For", spoof)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}
