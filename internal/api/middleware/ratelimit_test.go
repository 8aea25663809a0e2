package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottleAllowsBurstThenRejects(t *testing.T) {
	th := NewThrottle(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, th.allow("10.0.0.1:1234"))
	}
	assert.False(t, th.allow("10.0.0.1:1234"))
}

func TestThrottleTracksClientsSeparately(t *testing.T) {
	th := NewThrottle(1, 1)

	require.True(t, th.allow("10.0.0.1:1234"))
	require.False(t, th.allow("10.0.0.1:1234"))
	assert.True(t, th.allow("10.0.0.2:1234"))
}

func TestThrottleRefillsOverTime(t *testing.T) {
	th := NewThrottle(5, 1)

	require.True(t, th.allow("10.0.0.1:1234"))
	require.False(t, th.allow("10.0.0.1:1234"))

	th.mu.Lock()
	th.buckets["10.0.0.1:1234"].refilled = time.Now().Add(-time.Second)
	th.mu.Unlock()

	assert.True(t, th.allow("10.0.0.1:1234"))
}

func TestThrottleHandlerReturns429(t *testing.T) {
	th := NewThrottle(1, 1)
	h := th.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	h.ServeHTTP(first, req)
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error": "rate limit exceeded"}`, second.Body.String())
}
