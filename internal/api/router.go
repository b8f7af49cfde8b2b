package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/voicenote/backend/internal/api/handlers"
	"github.com/voicenote/backend/internal/api/middleware"
	"github.com/voicenote/backend/internal/config"
)

func NewRouter(cfg *config.Config, p handlers.Pipeline, guard *middleware.RateGuard, services map[string]bool) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	translateHandler := handlers.NewTranslateHandler(p, cfg.MaxUploadBytes)
	metaHandler := handlers.NewMetaHandler(services, guard)

	r.Get("/", metaHandler.Index)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodySize(1 << 20))
			r.Get("/health", metaHandler.Health)
			r.Get("/languages", metaHandler.Languages)
			r.Get("/admin/ratelimit", metaHandler.RateLimitStatus)
		})

		// The upload route carries its own body ceiling; the guard rejects
		// excess requests before the pipeline sees them.
		r.Group(func(r chi.Router) {
			r.Use(guard.Handler)
			r.Post("/translate", translateHandler.Translate)
		})
	})

	return r
}
