package app

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/videopromo/videopromo-backend/internal/handlers"
	"github.com/videopromo/videopromo-backend/internal/metrics"
	"github.com/videopromo/videopromo-backend/internal/utils/jwt"
)

// setupRouter создает и настраивает роутер
func setupRouter(deps *dependencies, jwtManager *jwt.Manager, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	setupMiddleware(r, logger)

	// Маршруты
	setupRoutes(r, deps, jwtManager)

	return r
}

// setupMiddleware настраивает middleware для роутера
func setupMiddleware(r *chi.Mux, logger *zap.Logger) {
	r.Use(handlers.RequestIDMiddleware())
	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.RecoveryMiddleware(logger))
	r.Use(middleware.Compress(5))
}

// setupRoutes настраивает маршруты приложения
func setupRoutes(r *chi.Mux, deps *dependencies, jwtManager *jwt.Manager) {
	// Health check эндпоинты
	r.Get("/health", deps.handlers.health.Live)
	r.Get("/ready", deps.handlers.health.Ready)

	// Метрики
	metrics.MustRegister()
	r.Handle("/metrics", promhttp.Handler())

	// Страницы возврата после платежной формы
	r.Get("/pay/return", handlers.PayReturn)
	r.Get("/pay/fail", handlers.PayFail)

	// Публичные эндпоинты
	r.Post("/api/v1/auth/signup", deps.handlers.auth.Signup)
	r.Get("/api/v1/auth/verify", deps.handlers.auth.VerifyEmail)
	r.Post("/api/v1/auth/login", deps.handlers.auth.Login)
	r.Post("/api/v1/auth/logout", deps.handlers.auth.Logout)
	r.Post("/api/v1/auth/bootstrap-admin", deps.handlers.auth.BootstrapAdmin)
	r.Get("/api/v1/plans", deps.handlers.plans.ListPlans)
	r.Get("/api/v1/styles", deps.handlers.styles.ListStyles)

	// Вебхуки провайдера: аутентификация не по JWT, а проверочным
	// чтением статуса из API провайдера
	r.Post("/api/v1/webhooks/yookassa", deps.handlers.webhooks.HandleYooKassa)

	// Защищенные эндпоинты
	r.Group(func(r chi.Router) {
		r.Use(handlers.AuthMiddleware(jwtManager))
		r.Get("/api/v1/auth/me", deps.handlers.auth.Me)
		r.Post("/api/v1/checkout", deps.handlers.checkout.CreateCheckout)
		r.Get("/api/v1/orders", deps.handlers.orders.GetOrders)

		// Админские операции каталога стилей
		r.Get("/api/v1/admin/styles", deps.handlers.styles.ListAllStyles)
		r.Post("/api/v1/admin/styles", deps.handlers.styles.CreateStyle)
		r.Patch("/api/v1/admin/styles/{id}", deps.handlers.styles.UpdateStyle)
	})
}
