package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/videopromo/videopromo-backend/internal/config"
	"github.com/videopromo/videopromo-backend/internal/domain"
	"github.com/videopromo/videopromo-backend/internal/handlers"
	"github.com/videopromo/videopromo-backend/internal/repository/postgres"
	"github.com/videopromo/videopromo-backend/internal/service"
	"github.com/videopromo/videopromo-backend/internal/utils/jwt"
	"github.com/videopromo/videopromo-backend/internal/utils/password"
	"github.com/videopromo/videopromo-backend/internal/worker"
)

// repositories содержит все репозитории приложения
type repositories struct {
	user    domain.UserRepository
	token   domain.AuthTokenRepository
	plan    domain.PlanRepository
	style   domain.StyleRepository
	order   domain.OrderRepository
	payment domain.PaymentRepository
}

// services содержит все сервисы приложения
type services struct {
	auth     *service.AuthService
	plan     *service.PlanService
	style    *service.StyleService
	order    *service.OrderService
	checkout *service.CheckoutService
	webhook  *service.WebhookService
}

// handlerSet содержит все хендлеры приложения
type handlerSet struct {
	auth     *handlers.AuthHandler
	plans    *handlers.PlanHandler
	styles   *handlers.StyleHandler
	orders   *handlers.OrderHandler
	checkout *handlers.CheckoutHandler
	webhooks *handlers.WebhookHandler
	health   *handlers.HealthHandler
}

// dependencies содержит все зависимости приложения
type dependencies struct {
	repos      *repositories
	services   *services
	handlers   *handlerSet
	jwtManager *jwt.Manager
	workerPool *worker.Pool
}

// initDependencies создает все зависимости приложения
func initDependencies(cfg *config.Config, dbPool *pgxpool.Pool, logger *zap.Logger) *dependencies {
	// Создание репозиториев
	repos := &repositories{
		user:    postgres.NewUserRepository(dbPool),
		token:   postgres.NewAuthTokenRepository(dbPool),
		plan:    postgres.NewPlanRepository(dbPool),
		style:   postgres.NewStyleRepository(dbPool),
		order:   postgres.NewOrderRepository(dbPool),
		payment: postgres.NewPaymentRepository(dbPool),
	}

	// Создание утилит
	passwordHasher := password.NewBCryptHasher(password.DefaultCost)
	jwtManager := jwt.NewManager(cfg.JWTSecret, cfg.JWTTokenTTL)

	// Конфигурация платежного провайдера и ценообразования
	gatewayConfig := service.GatewayConfig{
		APIBase:   cfg.YooKassaAPIBase,
		ShopID:    cfg.YooKassaShopID,
		SecretKey: cfg.YooKassaSecretKey,
		ReturnURL: cfg.YooKassaReturnURL,
	}
	pricing := service.NewPricing(service.PricingConfig{
		CostImageRub:       cfg.CostImageRub,
		CostVideoRub:       cfg.CostVideoRub,
		CostTrainingRub:    cfg.CostTrainingRub,
		MinPriceMultiplier: cfg.MinPriceMultiplier,
	})
	gateway := service.NewYooKassaClient(gatewayConfig)

	// Создание сервисов
	authServiceConfig := service.AuthServiceConfig{
		MinPasswordLength:    cfg.MinPasswordLength,
		VerificationTokenTTL: cfg.VerificationTokenTTL,
		RefreshTokenTTL:      cfg.RefreshTokenTTL,
		AdminBootstrapToken:  cfg.AdminBootstrapToken,
	}
	svcs := &services{
		auth:     service.NewAuthService(repos.user, repos.token, passwordHasher, jwtManager, authServiceConfig),
		plan:     service.NewPlanService(repos.plan, pricing),
		style:    service.NewStyleService(repos.style),
		order:    service.NewOrderService(repos.order),
		checkout: service.NewCheckoutService(repos.plan, repos.order, repos.payment, gateway, pricing, gatewayConfig),
		webhook:  service.NewWebhookService(repos.payment, gateway, gatewayConfig),
	}

	// Создание handlers
	hdlrs := &handlerSet{
		auth:     handlers.NewAuthHandler(svcs.auth, logger, cfg.AppDomain, cfg.Env),
		plans:    handlers.NewPlanHandler(svcs.plan, logger),
		styles:   handlers.NewStyleHandler(svcs.style, svcs.auth, logger),
		orders:   handlers.NewOrderHandler(svcs.order, logger),
		checkout: handlers.NewCheckoutHandler(svcs.checkout, logger),
		webhooks: handlers.NewWebhookHandler(svcs.webhook, logger),
		health:   handlers.NewHealthHandler(dbPool, logger),
	}

	// Создание worker pool для сверки незакрытых платежей
	workerPoolConfig := worker.PoolConfig{
		Workers:      cfg.WorkerPoolSize,
		QueueSize:    cfg.WorkerQueueSize,
		ScanInterval: cfg.WorkerScanInterval,
		StaleAfter:   cfg.WorkerStaleAfter,
	}
	workerPool := worker.NewPool(workerPoolConfig, repos.payment, svcs.webhook, logger)

	return &dependencies{
		repos:      repos,
		services:   svcs,
		handlers:   hdlrs,
		jwtManager: jwtManager,
		workerPool: workerPool,
	}
}
