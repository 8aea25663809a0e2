package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Throttle applies a per-client token-bucket limit keyed by remote
// address. Buckets refill at rps tokens per second up to burst.
type Throttle struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rps     float64
	burst   float64
}

type bucket struct {
	remaining float64
	refilled  time.Time
}

func NewThrottle(rps, burst int) *Throttle {
	t := &Throttle{
		buckets: make(map[string]*bucket),
		rps:     float64(rps),
		burst:   float64(burst),
	}
	go t.sweep()
	return t
}

func (t *Throttle) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.allow(r.RemoteAddr) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (t *Throttle) allow(client string) bool {
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.buckets[client]
	if !ok {
		t.buckets[client] = &bucket{remaining: t.burst - 1, refilled: now}
		return true
	}

	b.remaining += now.Sub(b.refilled).Seconds() * t.rps
	if b.remaining > t.burst {
		b.remaining = t.burst
	}
	b.refilled = now

	if b.remaining < 1 {
		return false
	}
	b.remaining--
	return true
}

// sweep drops buckets idle long enough to have refilled completely, so
// the map does not grow with every client ever seen.
func (t *Throttle) sweep() {
	ticker := time.NewTicker(time.Minute)
	for range ticker.C {
		cutoff := time.Now().Add(-5 * time.Minute)
		t.mu.Lock()
		for client, b := range t.buckets {
			if b.refilled.Before(cutoff) {
				delete(t.buckets, client)
			}
		}
		t.mu.Unlock()
	}
}
