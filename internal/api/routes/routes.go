package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/reviewhub-backend/internal/api/handlers"
	"github.com/princeprakhar/reviewhub-backend/internal/api/middleware"
	"github.com/princeprakhar/reviewhub-backend/internal/config"
	"github.com/princeprakhar/reviewhub-backend/internal/services"
	"github.com/princeprakhar/reviewhub-backend/pkg/logger"
	"github.com/ulule/limiter/v3"
	"gorm.io/gorm"
)

// Dependencies are the collaborators built in main. Notifier may be nil when
// mail is not configured.
type Dependencies struct {
	Classifier     services.Classifier
	Notifier       services.FlagNotifier
	RateLimitStore limiter.Store
}

func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, deps Dependencies) {
	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware(cfg))
	if deps.RateLimitStore != nil && cfg.RateLimitRPS > 0 {
		router.Use(middleware.RateLimitMiddleware(cfg, deps.RateLimitStore))
	}

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	reviewService := services.NewReviewService(db, deps.Classifier, cfg.Sentiment.Timeout, deps.Notifier)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	adminHandler := handlers.NewAdminHandler(reviewService)

	// Health check
	router.GET("/health", handlers.Health(db))

	// API routes
	api := router.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	}

	// Review routes
	reviews := api.Group("/reviews")
	{
		reviews.GET("", reviewHandler.ListReviews)
		reviews.GET("/:id", reviewHandler.GetReview)
		reviews.POST("", middleware.AuthMiddleware(cfg), reviewHandler.CreateReview)
		reviews.DELETE("/:id", middleware.AuthMiddleware(cfg), reviewHandler.DeleteReview)
		reviews.POST("/:id/reactions", middleware.AuthMiddleware(cfg), reviewHandler.React)
	}

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	{
		admin.GET("/reviews", adminHandler.SearchReviews)
		admin.PUT("/reviews/:id/flag", adminHandler.SetFlag)
	}

	logger.Info("Routes initialized successfully")
}
