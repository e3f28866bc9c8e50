package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/maplecart/storefront-backend/internal/handlers"
	"github.com/maplecart/storefront-backend/internal/logger"
	"github.com/maplecart/storefront-backend/internal/middleware"
)

type RouterConfig struct {
	Log             *logger.Logger
	AllowOrigins    []string
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	UserHandler     *handlers.UserHandler
	CategoryHandler *handlers.CategoryHandler
	ProductHandler  *handlers.ProductHandler
	OrderHandler    *handlers.OrderHandler
	CartHandler     *handlers.CartHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware("storefront-backend"))
	router.Use(middleware.RequestID(cfg.Log))

	// Cors
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		// Catalog browsing is open.
		api.GET("/products", cfg.ProductHandler.ListProducts)
		api.GET("/products/:id", cfg.ProductHandler.GetProduct)
		api.GET("/categories", cfg.CategoryHandler.ListCategories)
		api.GET("/categories/:categoryId", cfg.CategoryHandler.GetCategory)
		api.GET("/categories/:categoryId/products", cfg.ProductHandler.ListProductsByCategory)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// Auth
		protected.POST("/refresh", cfg.AuthHandler.Refresh)
		protected.POST("/logout", cfg.AuthHandler.Logout)
		// User
		protected.GET("/me", cfg.UserHandler.GetMe)
		// Cart
		protected.GET("/cart", cfg.CartHandler.GetCart)
		protected.POST("/cart/items", cfg.CartHandler.AddItem)
		protected.POST("/cart/checkout", cfg.CartHandler.Checkout)
		// Orders
		protected.POST("/orders", cfg.OrderHandler.CreateOrder)
		protected.GET("/orders/:id", cfg.OrderHandler.GetOrder)
		protected.PUT("/orders/:id", cfg.OrderHandler.UpdateOrder)
		protected.POST("/orders/:id/products", cfg.OrderHandler.BulkAddLines)
		protected.DELETE("/orders/:id/products", cfg.OrderHandler.RemoveAllLines)
		protected.DELETE("/orders/:id/products/:productId", cfg.OrderHandler.RemoveLine)
		// Order lines
		protected.PUT("/order-lines", cfg.OrderHandler.BulkSetQuantities)
		protected.PUT("/order-lines/:lineId", cfg.OrderHandler.SetLineQuantity)
	}

	// ===============
	// || Admin     ||
	// ===============
	admin := router.Group("/api")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireAdmin())
	{
		// Users
		admin.GET("/users", cfg.UserHandler.ListUsers)
		admin.GET("/users/:id", cfg.UserHandler.GetUser)
		admin.PUT("/users/:id", cfg.UserHandler.UpdateUser)
		admin.DELETE("/users/:id", cfg.UserHandler.DeleteUser)
		// Catalog management
		admin.POST("/products", cfg.ProductHandler.CreateProduct)
		admin.PUT("/products/:id", cfg.ProductHandler.UpdateProduct)
		admin.DELETE("/products/:id", cfg.ProductHandler.DeleteProduct)
		admin.POST("/categories", cfg.CategoryHandler.CreateCategory)
		admin.PUT("/categories/:categoryId", cfg.CategoryHandler.UpdateCategory)
		admin.DELETE("/categories/:categoryId", cfg.CategoryHandler.DeleteCategory)
		// Order administration
		admin.GET("/orders", cfg.OrderHandler.ListOrders)
		admin.GET("/customers/:customerId/orders", cfg.OrderHandler.ListOrdersByCustomer)
		admin.DELETE("/orders/:id", cfg.OrderHandler.DeleteOrder)
	}

	return router
}
