package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/thisisgagangupta/dev-kiosk/pkg/logger"
)

// KioskExtractor derives the rate-limit key for a request. Kiosks send
// a stable device id; everything else falls back to the client host.
type KioskExtractor func(r *http.Request) string

func DefaultKioskExtractor(r *http.Request) string {
	if id := r.Header.Get("X-Kiosk-ID"); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// KioskRateLimiter is a sliding-window limiter keyed per kiosk. State
// is in-process only; it throttles a misbehaving device, it is not a
// cluster-wide quota.
type KioskRateLimiter struct {
	mu        sync.RWMutex
	requests  map[string][]time.Time
	limit     int
	window    time.Duration
	extractor KioskExtractor
	log       *logger.Logger
	stopCh    chan struct{}
}

func NewKioskRateLimiter(limit int, window time.Duration, extractor KioskExtractor, log *logger.Logger) *KioskRateLimiter {
	limiter := &KioskRateLimiter{
		requests:  make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *KioskRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for key, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *KioskRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *KioskRateLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := rl.requests[key][:0:0]
	for _, ts := range rl.requests[key] {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

func KioskRateLimit(limiter *KioskRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limiter.extractor(r)
			if !limiter.Allow(key) {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", RequestID(r.Context()),
					"kiosk", key,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too many requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
