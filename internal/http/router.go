package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/plantopia/internal/auth"
	"github.com/redmonkez12/plantopia/internal/config"
	"github.com/redmonkez12/plantopia/internal/geocode"
	"github.com/redmonkez12/plantopia/internal/httputil"
	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/plant"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/session"
)

// Handlers groups the feature handlers mounted on the router
type Handlers struct {
	Auth    *auth.Handler
	Profile *profile.Handler
	Plant   *plant.Handler
	Geocode *geocode.Handler
	Pages   *PageHandler
	Streams *StreamDrainer
}

// Access groups the session checks: the guard for page navigation and the
// middleware for API calls
type Access struct {
	Guard      *auth.Guard
	Middleware *auth.Middleware
	Cookies    *session.Cookies
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, access Access, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders(!cfg.Server.IsDevelopment()))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", handleHealth)
	r.Get("/", h.Pages.Home)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	// Pages behind the route guard
	r.Group(func(r chi.Router) {
		r.Use(access.Guard.Middleware(access.Cookies))
		r.Get("/login", h.Pages.Login)
		r.Get("/dashboard", h.Pages.Dashboard)
		r.Get("/onboarding", h.Profile.OnboardingPage)
		r.Get("/plants", h.Plant.PlantsPage)
		r.Get("/plants/add", h.Plant.AddPage)
		r.Get("/plants/edit/{id}", h.Plant.EditPage)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(NoStore)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
		})

		// Protected routes (require a session)
		r.Group(func(r chi.Router) {
			r.Use(access.Middleware.RequireSession)

			r.Get("/profile", h.Profile.GetProfile)
			r.Patch("/profile", h.Profile.UpdateProfile)
			r.Post("/onboarding", h.Profile.CompleteOnboarding)
			r.Get("/geocode/reverse", h.Geocode.Reverse)

			r.Route("/plants", func(r chi.Router) {
				r.Get("/", h.Plant.List)
				r.Post("/", h.Plant.Create)
				r.With(h.Streams.Middleware).Get("/stream", h.Plant.Stream)
				r.Get("/{id}", h.Plant.Get)
				r.Patch("/{id}", h.Plant.Update)
				r.Delete("/{id}", h.Plant.Delete)
				r.Post("/{id}/water", h.Plant.Water)
			})
		})
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
