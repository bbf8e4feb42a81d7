package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/skillswap/skillswap-api/internal/auth"
	"github.com/skillswap/skillswap-api/internal/config"
	"github.com/skillswap/skillswap-api/internal/httputil"
	"github.com/skillswap/skillswap-api/internal/logging"
	"github.com/skillswap/skillswap-api/internal/message"
	"github.com/skillswap/skillswap-api/internal/metrics"
	"github.com/skillswap/skillswap-api/internal/profile"
	"github.com/skillswap/skillswap-api/internal/schedule"
	"github.com/skillswap/skillswap-api/internal/skill"
)

// Handlers groups the endpoint handlers the router mounts.
type Handlers struct {
	Auth     *auth.Handler
	Skill    *skill.Handler
	Profile  *profile.Handler
	Message  *message.Handler
	Schedule *schedule.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, gate *auth.Middleware, logger *logging.Logger, collector *metrics.Collector) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))
	if collector != nil {
		r.Use(collector.Middleware)
	}

	// Public routes
	r.Get("/health", handleHealth)
	if collector != nil {
		r.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	} else {
		log.Println("Swagger UI disabled (production mode)")
	}

	r.Post("/login", h.Auth.Login)
	r.Get("/skills", h.Skill.List)
	r.Get("/profile/{username}", h.Profile.Get)

	// Protected routes (behind the request gate)
	r.Group(func(r chi.Router) {
		r.Use(gate.RequireAuth)

		r.Get("/protected", h.Auth.Protected)
		r.Post("/skills", h.Skill.Create)
		r.Put("/profile/update", h.Profile.Update)

		r.Post("/messages", h.Message.Send)
		r.Get("/messages", h.Message.List)

		r.Post("/sessions", h.Schedule.Schedule)
		r.Get("/sessions", h.Schedule.List)
		r.Patch("/sessions/{id}", h.Schedule.UpdateStatus)
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
