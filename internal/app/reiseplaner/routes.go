// Package reiseplaner предоставляет маршруты для основного приложения.
package reiseplaner

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/reiseplaner/reiseplaner-sub001/internal/http/handlers/admin/updatesubscription"
	"github.com/reiseplaner/reiseplaner-sub001/internal/http/handlers/auth/demo"
	"github.com/reiseplaner/reiseplaner-sub001/internal/http/handlers/auth/me"
	"github.com/reiseplaner/reiseplaner-sub001/internal/http/handlers/auth/signin"
	"github.com/reiseplaner/reiseplaner-sub001/internal/http/handlers/auth/signup"
	"github.com/reiseplaner/reiseplaner-sub001/internal/http/handlers/health"
	"github.com/reiseplaner/reiseplaner-sub001/internal/http/handlers/trip/create"
	"github.com/reiseplaner/reiseplaner-sub001/internal/http/handlers/trip/export"
	"github.com/reiseplaner/reiseplaner-sub001/internal/http/handlers/trip/list"
	"github.com/reiseplaner/reiseplaner-sub001/internal/http/middlewarectx"
	accountservice "github.com/reiseplaner/reiseplaner-sub001/internal/services/account"
	authservice "github.com/reiseplaner/reiseplaner-sub001/internal/services/auth"
	tripservice "github.com/reiseplaner/reiseplaner-sub001/internal/services/trip"
	"github.com/reiseplaner/reiseplaner-sub001/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.Service, tripService *tripservice.Service, accountService *accountservice.Service, db *repository.Storage) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки аутентификации
	r.Post("/api/auth/local/signin", signin.New(logger, authService).ServeHTTP)
	r.Post("/api/auth/local/signup", signup.New(logger, authService).ServeHTTP)
	r.Post("/api/auth/local/demo", demo.New(logger, authService).ServeHTTP)

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(authService, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Get("/api/auth/user", me.New(logger, db).ServeHTTP)
		r.Post("/api/trips", create.New(logger, tripService).ServeHTTP)
		r.Get("/api/trips", list.New(logger, tripService).ServeHTTP)
		r.Get("/api/trips/export", export.New(logger, tripService).ServeHTTP)
	})

	// Административная группа
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(authService, logger))
		r.Use(middlewarectx.RequireAdmin(logger))
		r.Post("/update-subscription", updatesubscription.New(logger, accountService).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
