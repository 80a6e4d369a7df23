package api

import (
	"net/http"

	"github.com/Varun5711/accounts/internal/handlers"
	"github.com/Varun5711/accounts/internal/logger"
	appmiddleware "github.com/Varun5711/accounts/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	Accounts       handlers.AccountService
	Verifier       appmiddleware.TokenVerifier
	Health         http.Handler
	AllowedOrigins []string
	OpenAPIPath    string
	Log            *logger.Logger
}

// NewRouter mounts the account endpoints under /api/users together with
// health and documentation routes.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: cfg.Log, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(appmiddleware.ClientInfo)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	accountHandler := handlers.NewAccountHandler(cfg.Accounts, cfg.Log)
	auth := appmiddleware.NewAuthMiddleware(cfg.Verifier, cfg.Log)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/create", accountHandler.Register)
		r.Post("/login", accountHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/{id}", accountHandler.Get)
			r.Patch("/{id}", accountHandler.Update)
			r.Delete("/{id}", accountHandler.Delete)
		})
	})

	if cfg.Health != nil {
		r.Method(http.MethodGet, "/health", cfg.Health)
	}
	handlers.NewSwaggerHandler(cfg.OpenAPIPath).RegisterRoutes(r)

	return r
}
