package handlers

import (
	"net/http"

	"github.com/voicenote/backend/internal/api/middleware"
	"github.com/voicenote/backend/internal/language"
)

const serviceVersion = "2.0"

// MetaHandler serves the service metadata endpoints.
type MetaHandler struct {
	services map[string]bool // service name -> credentials present
	guard    *middleware.RateGuard
}

func NewMetaHandler(services map[string]bool, guard *middleware.RateGuard) *MetaHandler {
	return &MetaHandler{services: services, guard: guard}
}

// Index handles GET /.
func (h *MetaHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "online",
		"service": "Voice Note Translator API",
		"version": serviceVersion,
		"endpoints": map[string]string{
			"/api/translate": "POST - Translate voice note",
			"/api/languages": "GET - Supported languages",
			"/api/health":    "GET - Health check",
		},
	})
}

// Health handles GET /api/health. Degraded when any required credential is
// absent; the response still carries 200 so probes can read the detail.
func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	services := make(map[string]string, len(h.services))
	for name, ok := range h.services {
		if ok {
			services[name] = "active"
		} else {
			services[name] = "missing credentials"
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   status,
		"services": services,
	})
}

// Languages handles GET /api/languages.
func (h *MetaHandler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"supported_languages": language.Supported(),
	})
}

// RateLimitStatus handles GET /api/admin/ratelimit.
func (h *MetaHandler) RateLimitStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.guard.Status())
}
