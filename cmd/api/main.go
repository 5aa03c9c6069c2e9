package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comfortbites/backend/config"
	"github.com/comfortbites/backend/internal/api"
	"github.com/comfortbites/backend/internal/cache"
	"github.com/comfortbites/backend/internal/database"
	"github.com/comfortbites/backend/internal/middleware"
	"github.com/comfortbites/backend/internal/router"
	"github.com/comfortbites/backend/internal/server"
	"github.com/comfortbites/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis is optional. Without it sessions live in process memory and
	// the filter options cache and auth rate limiting are skipped.
	var sessionStore service.SessionStore
	var optionsCache *cache.OptionsCache
	var authLimiter *middleware.RateLimiter
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, using in-memory sessions: %v", err)
		memStore := service.NewMemorySessionStore()
		defer memStore.Close()
		sessionStore = memStore
	} else {
		sessionStore = service.NewRedisSessionStore(redisClient)
		optionsCache = cache.NewOptionsCache(redisClient)
		authLimiter = middleware.NewAuthRateLimiter(redisClient)
	}

	userService := service.NewUserService(db)
	recipeService := service.NewRecipeService(db)
	authService := service.NewAuthService(userService, sessionStore)

	imageService, uploadsDir, err := buildImageService(cfg)
	if err != nil {
		log.Fatalf("Failed to set up image storage: %v", err)
	}

	authHandler := api.NewAuthHandler(authService, authLimiter)
	recipeHandler := api.NewRecipeHandler(recipeService, userService, imageService, optionsCache)

	engine := router.SetupRouter(db, authService, authHandler, recipeHandler, cfg.AllowedOrigins, uploadsDir)
	srv := server.New(engine, cfg.ServerHost, cfg.ServerPort)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}

// buildImageService wires image storage against S3 when a bucket is
// configured, otherwise against the local uploads directory. The returned
// dir is non-empty only for disk storage and is served statically.
func buildImageService(cfg *config.Config) (*service.ImageService, string, error) {
	if cfg.S3Bucket != "" {
		s3Cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			return nil, "", err
		}
		if err := s3Cfg.SetupBucketPolicy(context.Background()); err != nil {
			log.Printf("Could not apply bucket policy, continuing: %v", err)
		}
		store := service.NewS3ImageStore(s3Cfg.Client, s3Cfg.BucketName)
		return service.NewImageService(store, nil), "", nil
	}

	store, err := service.NewDiskImageStore(cfg.UploadsDir, "/uploads")
	if err != nil {
		return nil, "", err
	}
	return service.NewImageService(store, nil), cfg.UploadsDir, nil
}
