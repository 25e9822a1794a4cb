package http

import (
	"net/http"

	"github.com/go-api-filestore/internal/application/token"
	"github.com/go-api-filestore/internal/application/user"
	"github.com/go-api-filestore/internal/config"
	"github.com/go-api-filestore/internal/storage"
	"github.com/go-api-filestore/internal/transport/http/handler"
	appmiddleware "github.com/go-api-filestore/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(appmiddleware.BearerToken)

	// 5 requests/second, burst of 10, applied to the two endpoints that
	// accept credentials.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	userRepo := storage.NewUserRepo(deps.Store)
	tokenRepo := storage.NewTokenRepo(deps.Store)
	tokenSvc := token.NewService(tokenRepo, userRepo, deps.Hasher)
	userSvc := user.NewService(userRepo, tokenSvc, deps.Hasher)

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(userSvc)
	tokenH := handler.NewTokenHandler(tokenSvc)

	r.Get("/ping", healthH.Ping)
	r.Get("/hello", healthH.Hello)

	r.With(sensitiveRL.Limit).Post("/users", userH.Register)
	r.Get("/users/{phone}", userH.Get)
	r.Put("/users/{phone}", userH.Update)
	r.Delete("/users/{phone}", userH.Delete)

	r.With(sensitiveRL.Limit).Post("/tokens", tokenH.Create)
	r.Get("/tokens/{id}", tokenH.Get)
	r.Put("/tokens/{id}", tokenH.Extend)
	r.Delete("/tokens/{id}", tokenH.Delete)

	r.NotFound(handler.NotFound)

	return r
}
