// Package gymmembership собирает приложение сервиса абонементов
// и регистрирует его маршруты.
package gymmembership

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	substatus "github.com/magabrotheeeer/gym-membership/internal/http/handlers/subscription/status"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/subscription/subscribe"
	subupdate "github.com/magabrotheeeer/gym-membership/internal/http/handlers/subscription/update"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/user/check"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/user/get"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/user/getbyphone"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/user/health"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/user/login"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/user/register"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/user/updatename"
	"github.com/magabrotheeeer/gym-membership/internal/http/handlers/user/updatepassport"
	"github.com/magabrotheeeer/gym-membership/internal/http/middlewarectx"
	subservice "github.com/magabrotheeeer/gym-membership/internal/services/subscription"
	userservice "github.com/magabrotheeeer/gym-membership/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
// Телефонный и id-вариант обновления абонемента — исторические маршруты
// разных версий мобильного приложения, поддерживаются оба.
func RegisterRoutes(r chi.Router, logger *slog.Logger, users *userservice.UserService, subscriptions *subservice.SubscriptionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger))

		r.Route("/users", func(r chi.Router) {
			r.Post("/check", check.New(logger, users).ServeHTTP)
			r.Post("/register", register.New(logger, users).ServeHTTP)
			r.Post("/login", login.New(logger, users).ServeHTTP)
			r.Post("/update-name", updatename.New(logger, users).ServeHTTP)
			r.Post("/update-passport", updatepassport.New(logger, users).ServeHTTP)
			r.Post("/subscribe", subscribe.New(logger, subscriptions).ServeHTTP)
			r.Patch("/update-subscription/{id}", subupdate.New(logger, subscriptions).ServeHTTP)
			r.Get("/", list.New(logger, users).ServeHTTP)
			r.Get("/phone/{phone}", getbyphone.New(logger, users).ServeHTTP)
			r.Get("/{id}", get.New(logger, users).ServeHTTP)
			r.Get("/{id}/subscription-status", substatus.New(logger, subscriptions).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
