package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/princeprakhar/reviewhub-backend/internal/api/middleware"
	"github.com/princeprakhar/reviewhub-backend/internal/api/routes"
	"github.com/princeprakhar/reviewhub-backend/internal/config"
	"github.com/princeprakhar/reviewhub-backend/internal/database"
	"github.com/princeprakhar/reviewhub-backend/internal/services"
	"github.com/princeprakhar/reviewhub-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Init(cfg.Environment)

	// Initialize database
	db, err := database.Init(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.Environment != "production")
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}

	if err := database.SeedAdmin(db, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal("Failed to seed admin account", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Invalid REDIS_URL", err)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	rateLimitStore, err := middleware.NewRateLimitStore(redisClient)
	if err != nil {
		logger.Fatal("Failed to initialize rate limit store", err)
	}

	classifier, err := services.NewClassifier(cfg.Sentiment)
	if err != nil {
		logger.Fatal("Failed to initialize sentiment classifier", err)
	}

	deps := routes.Dependencies{
		Classifier:     classifier,
		RateLimitStore: rateLimitStore,
	}
	if cfg.MailEnabled() {
		deps.Notifier = services.NewEmailService(cfg)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// Setup routes
	routes.SetupRoutes(router, db, cfg, deps)

	// Start server
	logger.WithFields(logrus.Fields{
		"port":      cfg.Port,
		"sentiment": cfg.Sentiment.Provider,
		"driver":    cfg.DatabaseDriver,
	}).Info("Server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", err)
	}
}
