package routes

import (
	"context"
	"time"

	_ "saas_billing/docs" // generated by swag init
	"saas_billing/internal/adapter/http/handlers"
	"saas_billing/internal/adapter/http/middleware"
	"saas_billing/internal/adapter/persistence/repository"
	"saas_billing/internal/config"
	"saas_billing/internal/infrastructure/database"
	"saas_billing/internal/infrastructure/payments"
	"saas_billing/internal/logger"
	"saas_billing/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

var router = gin.New()

const connectTimeout = 10 * time.Second

// Run will start the server
func Run() {
	cfg, err := config.Load()
	if err != nil {
		panic("invalid configuration: " + err.Error())
	}
	gin.SetMode(cfg.GinMode)

	log, err := logger.New(cfg.GinMode, cfg.LogLevel)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	setMiddlewares(log)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	getRoutes(cfg, log)

	log.Info("starting billing service", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("failed to startup the application", zap.Error(err))
	}
}

func getRoutes(cfg config.Config, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	providers := usecase.NewPaymentService(payments.NewProvidersFromConfig(cfg, log)...)
	for _, name := range providers.GetAvailableProviders() {
		log.Info("payment provider registered", zap.String("provider", string(name)))
	}

	var billingDeps usecase.BillingDeps
	var webhookDeps usecase.WebhookDeps

	if cfg.DatabaseURL != "" {
		pool, err := database.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		subscriptions := repository.NewSubscriptionPostgresRepository(pool)
		paymentRepo := repository.NewPaymentPostgresRepository(pool)
		methods := repository.NewPaymentMethodPostgresRepository(pool)

		billingDeps.Subscriptions, billingDeps.Payments, billingDeps.Methods = subscriptions, paymentRepo, methods
		webhookDeps.Subscriptions, webhookDeps.Payments, webhookDeps.PaymentMethods = subscriptions, paymentRepo, methods
	} else {
		log.Warn("DATABASE_URL not set, billing state will not be persisted")
	}

	if cfg.RedisAddr != "" {
		client, err := database.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		billingDeps.Sessions = repository.NewCheckoutSessionRedisStore(client, cfg.CheckoutSessionTTL)
	}

	if cfg.WebhookLedgerEnabled {
		ddb, err := database.ConnectDynamoDB(ctx, cfg)
		if err != nil {
			log.Fatal("failed to configure dynamodb", zap.Error(err))
		}
		webhookDeps.Ledger = repository.NewWebhookEventDynamoRepository(ddb, cfg.WebhookEventsTable)
	}

	billingUseCase := usecase.NewBillingUseCase(providers, billingDeps, cfg.DefaultRegion, log)
	webhookUseCase := usecase.NewWebhookUseCase(providers, webhookDeps, log)

	billingHandler := handlers.NewBillingHandler(billingUseCase, log)
	webhookHandler := handlers.NewWebhookHandler(webhookUseCase, log)

	// API v1
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addBillingRoutes(v1, billingHandler)
	addWebhookRoutes(v1, webhookHandler)
}

func setMiddlewares(log *zap.Logger) {
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
}
