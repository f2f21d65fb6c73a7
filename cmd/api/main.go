package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/relieftech/marketplace-api/api/swagger"
	"github.com/relieftech/marketplace-api/internal/handler"
	"github.com/relieftech/marketplace-api/internal/middleware"
	"github.com/relieftech/marketplace-api/internal/repository"
	"github.com/relieftech/marketplace-api/internal/service"
	"github.com/relieftech/marketplace-api/pkg/cache"
	"github.com/relieftech/marketplace-api/pkg/config"
	"github.com/relieftech/marketplace-api/pkg/database"
	"github.com/relieftech/marketplace-api/pkg/logger"
	corsmiddleware "github.com/relieftech/marketplace-api/pkg/middleware/cors"
	reqidmiddleware "github.com/relieftech/marketplace-api/pkg/middleware/requestid"
)

// @title Relief Teacher Marketplace API
// @version 1.0.0
// @description Two-sided marketplace connecting schools with relief teachers
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, country configs will not be cached", zap.Error(err))
		redisClient = nil
	}

	metricsService := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	discoveryRepo := repository.NewDiscoveryRepository(db)
	favouriteRepo := repository.NewFavouriteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	countryRepo := repository.NewCountryRepository(db)
	enterpriseRepo := repository.NewEnterpriseRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr, metricsService)
	defer cacheRepo.Close()

	authService := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiration,
	})
	availabilityService := service.NewAvailabilityService(availabilityRepo, nil, logr)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, availabilityService, logr, service.BillingConfig{
		PeriodDays:    cfg.Billing.PeriodDays,
		GraceDays:     cfg.Billing.GraceDays,
		BoostDuration: cfg.Boost.Duration,
	})
	teacherService := service.NewTeacherService(userRepo, logr)
	discoveryService := service.NewDiscoveryService(discoveryRepo, userRepo, subscriptionRepo, verificationRepo, logr, cfg.Discovery.MaxResults)
	favouriteService := service.NewFavouriteService(favouriteRepo, discoveryService, logr)
	notificationService := service.NewNotificationService(notificationRepo, logr)
	messageService := service.NewMessageService(messageRepo, userRepo, discoveryService, nil, logr, cfg.Discovery.MessageHistory)
	verificationService := service.NewVerificationService(verificationRepo, notificationService, nil, logr)
	countryService := service.NewCountryService(countryRepo, cacheRepo, nil, logr, cfg.Countries.CacheTTL)
	enterpriseService := service.NewEnterpriseService(enterpriseRepo, notificationRepo, nil, logr)

	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Teacher:      handler.NewTeacherHandler(teacherService, availabilityService, subscriptionService, notificationService),
		School:       handler.NewSchoolHandler(discoveryService, favouriteService, notificationService),
		Message:      handler.NewMessageHandler(messageService),
		Verification: handler.NewVerificationHandler(verificationService),
		Country:      handler.NewCountryHandler(countryService),
		Enterprise:   handler.NewEnterpriseHandler(enterpriseService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Metrics:      handler.NewMetricsHandler(metricsService),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	handler.RegisterRoutes(r, handlers, authService)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
