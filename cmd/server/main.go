package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aroha-api/internal/cache"
	"aroha-api/internal/config"
	"aroha-api/internal/repository"
	"aroha-api/internal/service"
	"aroha-api/internal/transport/rest"
)

// @title Aroha Survey Admin API
// @version 1.0
// @description Admin API for survey response browsing, analytics, and AI insights
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Model:   %s", aiConfig.Model)
	if aiConfig.IsEnabled() {
		log.Println("  API Key: configured ✓")
	} else {
		log.Println("  API Key: NOT SET (insight generation disabled)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize repositories
	responseRepo := repository.NewResponseRepo(db)
	insightRepo := repository.NewInsightRepo(db)

	// Initialize caches
	dashCache := cache.NewDashboardCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg)
	responseSvc := service.NewResponseService(responseRepo)
	exportSvc := service.NewExportService()
	analyticsSvc := service.NewAnalyticsService(responseRepo, dashCache)
	gemini := service.NewGeminiClient(aiConfig)
	insightSvc := service.NewInsightService(responseRepo, insightRepo, analyticsSvc, gemini)

	// Create router with container
	container := &rest.Container{
		AuthService:      authSvc,
		ResponseService:  responseSvc,
		ExportService:    exportSvc,
		AnalyticsService: analyticsSvc,
		InsightService:   insightSvc,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  GET  /v1/responses")
		log.Println("  GET  /v1/responses/export")
		log.Println("  GET  /v1/responses/{id}")
		log.Println("  GET  /v1/dashboard")
		log.Println("  GET/POST /v1/insights")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
