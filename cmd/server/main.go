package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"weightloss_backend/internal/api"        // Custom package for API handlers
	"weightloss_backend/internal/config"     // Custom package for configuration
	"weightloss_backend/internal/middleware" // Custom package for middleware
	"weightloss_backend/internal/notify"     // Custom package for push notifications

	// For loading .env files
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Setup push notifications when SNS is configured; the service stays
	// nil otherwise and push becomes a no-op
	var pusher *notify.Service
	if cfg.SNSFcmArn != "" || cfg.SNSApnsArn != "" {
		pusher, err = notify.NewService(cfg.AWSRegion, cfg.SNSFcmArn, cfg.SNSApnsArn)
		if err != nil {
			logrus.Fatalf("failed to set up push notifications: %v", err)
		}
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Public routes
	r.GET("/", api.RootHandler())                                    // Liveness endpoint
	r.POST("/token", api.LoginHandler(db, cfg.JWTSecret))            // Login endpoint
	r.POST("/users", api.RegisterHandler(db))                        // Registration endpoint
	r.GET("/challenges", api.ListChallengesHandler(db, redisClient)) // Public challenge listing

	// Authenticated routes (protected by JWT)
	auth := r.Group("")
	auth.Use(middleware.JWTAuthMiddleware(db, cfg.JWTSecret))
	auth.GET("/users/me", api.MeHandler())                                    // Own profile endpoint
	auth.PUT("/users/device-token", api.UpdateDeviceTokenHandler(db, pusher)) // Device token endpoint
	auth.POST("/diet-plans", api.CreateDietPlanHandler(db, redisClient))      // Create plan endpoint
	auth.GET("/diet-plans/me", api.GetMyDietPlanHandler(db, redisClient))     // Own plan endpoint
	auth.POST("/challenges", api.CreateChallengeHandler(db, redisClient))     // Create challenge endpoint
	auth.POST("/challenges/:id/join", api.JoinChallengeHandler(db, pusher))   // Join challenge endpoint
	auth.POST("/progress", api.AddProgressHandler(db))                        // Log weight endpoint
	auth.GET("/progress/me", api.GetMyProgressHandler(db))                    // Own progress endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
