package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Window is one fixed-window limit: at most Limit admitted requests per
// Duration per client IP.
type Window struct {
	Limit    int
	Duration time.Duration
}

// DefaultWindows nests a per-minute, per-hour, and per-day ceiling.
func DefaultWindows(perMinute, perHour, perDay int) []Window {
	return []Window{
		{Limit: perMinute, Duration: time.Minute},
		{Limit: perHour, Duration: time.Hour},
		{Limit: perDay, Duration: 24 * time.Hour},
	}
}

type rateBucket struct {
	count   int
	resetAt time.Time
}

// RateGuard is process-wide admission control: a request is rejected the
// moment any window's count would be exceeded, before it reaches a handler.
// Rejected requests do not consume quota. Counters are process-local and
// reset when their window rolls over; they are not shared across instances.
type RateGuard struct {
	mu      sync.Mutex
	buckets map[string][]*rateBucket // per IP, one bucket per window
	windows []Window
	now     func() time.Time
}

// NewRateGuard creates a guard over the given windows.
func NewRateGuard(windows []Window) *RateGuard {
	rg := &RateGuard{
		buckets: make(map[string][]*rateBucket),
		windows: windows,
		now:     time.Now,
	}
	// Sweep idle IPs every minute
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rg.sweep()
		}
	}()
	return rg
}

// Allow atomically checks every window for ip and admits or rejects. On
// rejection it returns the earliest time an exhausted window resets.
func (rg *RateGuard) Allow(ip string) (bool, time.Time) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	now := rg.now()
	buckets, exists := rg.buckets[ip]
	if !exists {
		buckets = make([]*rateBucket, len(rg.windows))
		for i, w := range rg.windows {
			buckets[i] = &rateBucket{resetAt: now.Add(w.Duration)}
		}
		rg.buckets[ip] = buckets
	}

	var retryAt time.Time
	for i, w := range rg.windows {
		b := buckets[i]
		if now.After(b.resetAt) {
			b.count = 0
			b.resetAt = now.Add(w.Duration)
		}
		if b.count+1 > w.Limit {
			if retryAt.IsZero() || b.resetAt.Before(retryAt) {
				retryAt = b.resetAt
			}
		}
	}
	if !retryAt.IsZero() {
		return false, retryAt
	}

	for _, b := range buckets {
		b.count++
	}
	return true, time.Time{}
}

func (rg *RateGuard) sweep() {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	now := rg.now()
	for ip, buckets := range rg.buckets {
		idle := true
		for _, b := range buckets {
			if now.Before(b.resetAt) && b.count > 0 {
				idle = false
				break
			}
		}
		if idle {
			delete(rg.buckets, ip)
		}
	}
}

// GuardEntry is one IP's state in one window.
type GuardEntry struct {
	IP      string    `json:"ip"`
	Window  string    `json:"window"`
	Count   int       `json:"count"`
	Limit   int       `json:"limit"`
	ResetAt time.Time `json:"reset_at"`
}

// GuardStatus is returned by the admin API.
type GuardStatus struct {
	Windows []string     `json:"windows"`
	Entries []GuardEntry `json:"entries"`
}

// Status returns the current state of all tracked IPs.
func (rg *RateGuard) Status() GuardStatus {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	status := GuardStatus{Windows: make([]string, len(rg.windows))}
	for i, w := range rg.windows {
		status.Windows[i] = fmt.Sprintf("%d/%s", w.Limit, w.Duration)
	}

	now := rg.now()
	for ip, buckets := range rg.buckets {
		for i, b := range buckets {
			if now.Before(b.resetAt) && b.count > 0 {
				status.Entries = append(status.Entries, GuardEntry{
					IP:      ip,
					Window:  rg.windows[i].Duration.String(),
					Count:   b.count,
					Limit:   rg.windows[i].Limit,
					ResetAt: b.resetAt,
				})
			}
		}
	}
	return status
}

// Handler returns middleware that enforces the guard.
func (rg *RateGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// chi RealIP middleware rewrites RemoteAddr to the client IP
		allowed, retryAt := rg.Allow(r.RemoteAddr)
		if !allowed {
			retryAfter := int(time.Until(retryAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"error":"too many requests, try again later"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
