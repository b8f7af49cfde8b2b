package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestGuard returns a guard with an injectable clock and no sweeper.
func newTestGuard(windows []Window, now *time.Time) *RateGuard {
	return &RateGuard{
		buckets: make(map[string][]*rateBucket),
		windows: windows,
		now:     func() time.Time { return *now },
	}
}

func TestGuardRejectsOverLimit(t *testing.T) {
	now := time.Now()
	rg := newTestGuard([]Window{{Limit: 3, Duration: time.Minute}}, &now)

	for i := 0; i < 3; i++ {
		if ok, _ := rg.Allow("1.2.3.4"); !ok {
			t.Fatalf("request %d rejected under limit", i+1)
		}
	}
	if ok, _ := rg.Allow("1.2.3.4"); ok {
		t.Error("4th request admitted over a 3/minute limit")
	}

	// A different client is unaffected
	if ok, _ := rg.Allow("5.6.7.8"); !ok {
		t.Error("unrelated client rejected")
	}
}

func TestGuardNestedWindows(t *testing.T) {
	now := time.Now()
	rg := newTestGuard([]Window{
		{Limit: 2, Duration: time.Minute},
		{Limit: 3, Duration: time.Hour},
	}, &now)

	rg.Allow("ip")
	rg.Allow("ip")
	if ok, _ := rg.Allow("ip"); ok {
		t.Fatal("minute window not enforced")
	}

	// Minute window rolls over, but the hourly budget has one slot left
	now = now.Add(2 * time.Minute)
	if ok, _ := rg.Allow("ip"); !ok {
		t.Fatal("admitted count should be 2/3 hourly after minute rollover")
	}
	if ok, _ := rg.Allow("ip"); ok {
		t.Error("hour window not enforced after minute rollover")
	}
}

func TestGuardRejectionConsumesNoQuota(t *testing.T) {
	now := time.Now()
	rg := newTestGuard([]Window{
		{Limit: 1, Duration: time.Minute},
		{Limit: 10, Duration: time.Hour},
	}, &now)

	rg.Allow("ip")
	for i := 0; i < 5; i++ {
		rg.Allow("ip") // all rejected by the minute window
	}

	status := rg.Status()
	for _, e := range status.Entries {
		if e.Window == time.Hour.String() && e.Count != 1 {
			t.Errorf("hour window count = %d after rejections, want 1", e.Count)
		}
	}
}

func TestGuardWindowRollover(t *testing.T) {
	now := time.Now()
	rg := newTestGuard([]Window{{Limit: 1, Duration: time.Minute}}, &now)

	rg.Allow("ip")
	if ok, _ := rg.Allow("ip"); ok {
		t.Fatal("second request admitted within window")
	}

	now = now.Add(61 * time.Second)
	if ok, _ := rg.Allow("ip"); !ok {
		t.Error("request rejected after window rollover")
	}
}

func TestGuardHandlerBlocksBeforeNext(t *testing.T) {
	now := time.Now()
	rg := newTestGuard([]Window{{Limit: 1, Duration: time.Minute}}, &now)

	invoked := 0
	handler := rg.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		invoked++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/translate", nil)
		req.RemoteAddr = "9.9.9.9"
		handler.ServeHTTP(rec, req)

		if i == 0 && rec.Code != http.StatusOK {
			t.Fatalf("first request status = %d", rec.Code)
		}
		if i == 1 {
			if rec.Code != http.StatusTooManyRequests {
				t.Errorf("second request status = %d, want 429", rec.Code)
			}
			if rec.Header().Get("Retry-After") == "" {
				t.Error("429 response missing Retry-After")
			}
		}
	}

	if invoked != 1 {
		t.Errorf("inner handler invoked %d times, want 1 (guard must reject before the pipeline)", invoked)
	}
}
