package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"liveform/internal/cache"
	"liveform/internal/config"
	"liveform/internal/repository"
	"liveform/internal/service"
	"liveform/internal/transport/rest"
)

// @title Liveform API
// @version 1.0
// @description Course form-session service: live feedback and quiz sessions joined by connect code
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Repositories and caches
	courseRepo := repository.NewCourseRepo(db)
	codeCache := cache.NewCodeCache(rdb)
	feedCache := cache.NewFeedCache(rdb)

	// Services
	authSvc := service.NewAuthService(cfg.InstructorUsername, cfg.InstructorPassword, cfg.InstructorPasswordHash, cfg.JWTSecret)
	formSvc := service.NewFormService(courseRepo, codeCache)
	courseSvc := service.NewCourseService(courseRepo, formSvc)
	participationSvc := service.NewParticipationService(courseRepo)
	liveSvc := service.NewLiveService(courseRepo, feedCache)

	router := rest.NewRouter(&rest.Container{
		AuthService:          authSvc,
		CourseService:        courseSvc,
		FormService:          formSvc,
		ParticipationService: participationSvc,
		LiveService:          liveSvc,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed:", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("forced shutdown:", err)
	}
}
