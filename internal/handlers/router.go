package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rht/casedesk/internal/middleware"
	"go.uber.org/zap"
)

// RouterConfig carries the HTTP settings the router needs
type RouterConfig struct {
	AllowedOrigins []string
	RateLimitRPM   int
}

// NewRouter builds the API router with the global middleware stack
func NewRouter(cfg RouterConfig, health *HealthHandler, intake *IntakeHandler, cases *CaseHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecureHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limiting
	r.Use(middleware.RateLimit(cfg.RateLimitRPM))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.Check)
		r.Get("/health/ready", health.Ready)

		// Public complaint wizard
		r.Route("/intake", func(r chi.Router) {
			r.Get("/options", intake.Options)
			r.Post("/", intake.Start)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", intake.Get)
				r.Patch("/sections/{section}", intake.UpdateSection)
				r.Post("/next", intake.Next)
				r.Post("/previous", intake.Previous)
				r.Post("/sample", intake.Sample)
				r.Post("/submit", intake.Submit)
			})
		})

		// Review dashboard
		r.Route("/cases", func(r chi.Router) {
			r.Get("/", cases.List)
			r.Get("/stats", cases.Stats)
			r.Get("/export.xlsx", cases.Export)
		})
	})

	return r
}
