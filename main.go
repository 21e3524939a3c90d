package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"rental-service/internal/background"
	"rental-service/internal/config"
	"rental-service/internal/database"
	"rental-service/internal/events"
	"rental-service/internal/handlers"
	"rental-service/internal/middleware"
	redisClient "rental-service/internal/redis"
	"rental-service/internal/repository"
	"rental-service/internal/services"
)

func main() {
	// Load configuration
	cfg := config.New()

	log := newLogger(cfg)

	// Initialize database connection
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	// Initialize Redis connection for token revocation (optional)
	rdb, err := redisClient.NewClient(cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("failed to connect to Redis, logout revocation disabled")
		rdb = nil
	} else {
		log.Info("connected to Redis")
	}

	// Initialize NATS connection for event publishing (optional)
	publisher, err := events.NewPublisher(cfg.NATS.URL, log)
	if err != nil {
		log.WithError(err).Warn("failed to connect to NATS, event publishing disabled")
		publisher = nil
	} else {
		log.Info("connected to NATS")
		defer publisher.Close()
	}

	// Initialize repositories
	ownerRepo := repository.NewOwnerRepository(db)
	userRepo := repository.NewUserRepository(db)
	buildingRepo := repository.NewBuildingRepository(db)
	flatRepo := repository.NewFlatRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	tenancyRepo := repository.NewTenancyRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	serviceRequestRepo := repository.NewServiceRequestRepository(db)

	// Initialize services
	tokenSvc := services.NewTokenService(cfg.Auth)
	authSvc := services.NewAuthService(ownerRepo, userRepo, tokenSvc, log)
	buildingSvc := services.NewBuildingService(buildingRepo, log)
	flatSvc := services.NewFlatService(flatRepo, buildingRepo, log)
	applicationSvc := services.NewApplicationService(db, applicationRepo, flatRepo, notificationRepo, publisher, log)
	tenancySvc := services.NewTenancyService(db, tenancyRepo, paymentRepo, notificationRepo, publisher, log)
	notificationSvc := services.NewNotificationService(notificationRepo, log)
	serviceRequestSvc := services.NewServiceRequestService(serviceRequestRepo, tenancyRepo, notificationRepo, log)

	// Initialize middleware and handlers
	auth := middleware.NewAuth(tokenSvc, rdb)
	secureCookies := cfg.App.Environment == "production"

	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authSvc, auth, tokenSvc, secureCookies)
	buildingHandler := handlers.NewBuildingHandler(buildingSvc)
	flatHandler := handlers.NewFlatHandler(flatSvc)
	applicationHandler := handlers.NewApplicationHandler(applicationSvc)
	tenancyHandler := handlers.NewTenancyHandler(tenancySvc)
	notificationHandler := handlers.NewNotificationHandler(notificationSvc)
	serviceRequestHandler := handlers.NewServiceRequestHandler(serviceRequestSvc)

	// Start the tenancy expiry sweep
	runner, err := background.NewRunner(cfg.Sweep.Schedule, tenancySvc, log)
	if err != nil {
		log.WithError(err).Fatal("failed to schedule tenancy sweep")
	}
	runner.Start()

	// Setup router
	router := setupRouter(
		cfg,
		log,
		auth,
		healthHandler,
		authHandler,
		buildingHandler,
		flatHandler,
		applicationHandler,
		tenancyHandler,
		notificationHandler,
		serviceRequestHandler,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.WithField("addr", server.Addr).Info("starting rental-service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	runner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.WithError(err).Error("error closing Redis connection")
		}
	}
	log.Info("server exited")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.App.Environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		log.SetLevel(level)
	}
	return log
}

func setupRouter(
	cfg *config.Config,
	log *logrus.Logger,
	auth *middleware.Auth,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	buildingHandler *handlers.BuildingHandler,
	flatHandler *handlers.FlatHandler,
	applicationHandler *handlers.ApplicationHandler,
	tenancyHandler *handlers.TenancyHandler,
	notificationHandler *handlers.NotificationHandler,
	serviceRequestHandler *handlers.ServiceRequestHandler,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// CORS configuration: credentials are cookies, so origins are explicit
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:3000",
		"http://localhost:3001",
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	corsConfig.AllowCredentials = true

	registry := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(registry)

	// Global middleware
	router.Use(cors.New(corsConfig))
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(log))
	router.Use(metrics.Middleware())

	// Metrics endpoint (Prometheus scraping)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Health endpoints
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Shared session endpoints
		v1.POST("/logout", authHandler.Logout)
		v1.GET("/check-auth", authHandler.CheckAuth)

		// Owner namespace
		owner := v1.Group("/owner")
		{
			owner.POST("/signup", authHandler.OwnerSignup)
			owner.POST("/login", authHandler.OwnerLogin)

			protected := owner.Group("")
			protected.Use(auth.RequireOwner())
			{
				protected.GET("/profile", authHandler.GetOwnerProfile)
				protected.PUT("/profile", authHandler.UpdateOwnerProfile)

				protected.POST("/buildings", buildingHandler.Create)
				protected.GET("/buildings", buildingHandler.List)
				protected.GET("/buildings/search", buildingHandler.Search)
				protected.GET("/buildings/:id", buildingHandler.Get)
				protected.PUT("/buildings/:id", buildingHandler.Update)
				protected.GET("/buildings/:id/flats", flatHandler.ListByBuilding)

				protected.POST("/flats", flatHandler.Create)
				protected.GET("/flats/search", flatHandler.Search)
				protected.GET("/flats/:id", flatHandler.Get)
				protected.PUT("/flats/:id", flatHandler.Update)
				protected.DELETE("/flats/:id", flatHandler.Delete)
				protected.GET("/flats/:id/code", flatHandler.GetCode)

				protected.GET("/applications", applicationHandler.ListForOwner)
				protected.POST("/applications/:id/approve", applicationHandler.Approve)
				protected.POST("/applications/:id/deny", applicationHandler.Deny)

				protected.GET("/tenancies", tenancyHandler.ListForOwner)
				protected.POST("/tenancies/:id/end", tenancyHandler.End)

				protected.POST("/payments", tenancyHandler.RecordPayment)
				protected.GET("/payments", tenancyHandler.ListPaymentsForOwner)

				protected.POST("/notifications", notificationHandler.Send)
				protected.GET("/notifications", notificationHandler.ListForOwner)

				protected.GET("/service-requests", serviceRequestHandler.ListForOwner)
				protected.POST("/service-requests/:id/approve", serviceRequestHandler.Approve)
				protected.POST("/service-requests/:id/deny", serviceRequestHandler.Deny)

				protected.GET("/tenants/search", authHandler.SearchTenants)
			}
		}

		// Tenant namespace
		tenant := v1.Group("/tenant")
		{
			tenant.POST("/signup", authHandler.TenantSignup)
			tenant.POST("/login", authHandler.TenantLogin)

			protected := tenant.Group("")
			protected.Use(auth.RequireTenant())
			{
				protected.GET("/profile", authHandler.GetTenantProfile)
				protected.PUT("/profile", authHandler.UpdateTenantProfile)

				protected.GET("/flats", flatHandler.ListVacant)
				protected.GET("/flats/code/:code", flatHandler.ResolveByCode)

				protected.POST("/applications", applicationHandler.Apply)
				protected.GET("/applications", applicationHandler.ListForTenant)

				protected.GET("/tenancy", tenancyHandler.GetActive)
				protected.GET("/payments", tenancyHandler.ListPaymentsForTenant)

				protected.GET("/notifications", notificationHandler.ListForTenant)
				protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
				protected.POST("/notifications/:id/read", notificationHandler.MarkRead)

				protected.POST("/service-requests", serviceRequestHandler.Create)
				protected.GET("/service-requests", serviceRequestHandler.ListForTenant)
			}
		}
	}

	return router
}
