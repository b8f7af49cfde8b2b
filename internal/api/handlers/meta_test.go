package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/voicenote/backend/internal/api/middleware"
)

func TestHealthDegradedWithoutCredentials(t *testing.T) {
	guard := middleware.NewRateGuard(middleware.DefaultWindows(10, 100, 500))

	tests := []struct {
		name       string
		services   map[string]bool
		wantStatus string
	}{
		{"all configured", map[string]bool{"speech_recognition": true, "translation": true}, "healthy"},
		{"missing key", map[string]bool{"speech_recognition": false, "translation": true}, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewMetaHandler(tt.services, guard)
			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest("GET", "/api/health", nil))

			var resp struct {
				Status   string            `json:"status"`
				Services map[string]string `json:"services"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
		})
	}
}

func TestLanguagesListsReferenceSet(t *testing.T) {
	h := NewMetaHandler(nil, nil)
	rec := httptest.NewRecorder()
	h.Languages(rec, httptest.NewRequest("GET", "/api/languages", nil))

	var resp struct {
		Supported []struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"supported_languages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	got := make(map[string]bool)
	for _, l := range resp.Supported {
		got[l.Code] = true
	}
	for _, code := range []string{"pidgin", "yo", "ig", "ha", "en", "auto"} {
		if !got[code] {
			t.Errorf("languages response missing %q", code)
		}
	}
}

func TestIndexMetadata(t *testing.T) {
	h := NewMetaHandler(nil, nil)
	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "online" {
		t.Errorf("status = %v, want online", resp["status"])
	}
	if _, ok := resp["endpoints"].(map[string]any); !ok {
		t.Error("index response missing endpoint list")
	}
}

func TestRateLimitStatusSnapshot(t *testing.T) {
	guard := middleware.NewRateGuard([]middleware.Window{{Limit: 5, Duration: time.Minute}})
	guard.Allow("1.2.3.4")

	h := NewMetaHandler(nil, guard)
	rec := httptest.NewRecorder()
	h.RateLimitStatus(rec, httptest.NewRequest("GET", "/api/admin/ratelimit", nil))

	var status middleware.GuardStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if len(status.Entries) != 1 || status.Entries[0].IP != "1.2.3.4" {
		t.Errorf("unexpected snapshot: %+v", status)
	}
}
