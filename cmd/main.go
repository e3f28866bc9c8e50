package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/maplecart/storefront-backend/internal/app"
	"github.com/maplecart/storefront-backend/internal/clients/redis"
	"github.com/maplecart/storefront-backend/internal/db"
	"github.com/maplecart/storefront-backend/internal/handlers"
	"github.com/maplecart/storefront-backend/internal/logger"
	"github.com/maplecart/storefront-backend/internal/middleware"
	"github.com/maplecart/storefront-backend/internal/observability"
	"github.com/maplecart/storefront-backend/internal/repos"
	"github.com/maplecart/storefront-backend/internal/server"
	"github.com/maplecart/storefront-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	log.Info("Loading configuration from main...")
	cfg := app.LoadConfig(log)

	// Tracing
	shutdownTracing := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "storefront-backend",
		Environment: os.Getenv("DEPLOY_ENV"),
		Version:     os.Getenv("SERVICE_VERSION"),
	})
	if shutdownTracing != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				log.Warn("Tracing shutdown failed", "error", err)
			}
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	categoryRepo := repos.NewCategoryRepo(thePG, log)
	productRepo := repos.NewProductRepo(thePG, log)
	orderRepo := repos.NewOrderRepo(thePG, log)
	orderLineRepo := repos.NewOrderLineRepo(thePG, log)

	// Product cache (optional)
	productCache, err := redis.NewProductCache(log)
	if err != nil {
		log.Warn("Could not init product cache, continuing without it", "error", err)
		productCache = nil
	}
	if productCache != nil {
		defer productCache.Close()
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := services.NewUserService(thePG, log, userRepo)
	categoryService := services.NewCategoryService(thePG, log, categoryRepo)
	catalogService := services.NewCatalogService(thePG, log, productRepo, categoryRepo, productCache)
	orderService := services.NewOrderService(thePG, log, orderRepo, orderLineRepo, userRepo, catalogService)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService)
	cartHandler := handlers.NewCartHandler(orderService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Log:             log,
		AllowOrigins:    cfg.CORSOrigins,
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		UserHandler:     userHandler,
		CategoryHandler: categoryHandler,
		ProductHandler:  productHandler,
		OrderHandler:    orderHandler,
		CartHandler:     cartHandler,
	})

	fmt.Printf("Server listening on :%s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
