package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/rs/cors"

	"babydiary/internal/config"
	"babydiary/internal/database"
	"babydiary/internal/handlers"
	"babydiary/internal/media"
	"babydiary/internal/repository"
	"babydiary/internal/security"
	"babydiary/internal/service"
	"babydiary/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	if cfg.IsProduction() && cfg.JWTSecret == config.DefaultJWTSecret {
		log.Fatal("JWT_SECRET must be set in production")
	}

	// Storage backend for uploaded media
	store, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s storage: %v", cfg.StorageDriver, err)
	}

	log.Printf("Media storage: %s", store.Name())

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	// Initialize services
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)
	authService := service.NewAuthService(db, userRepo, familyRepo, tokens)
	familyService := service.NewFamilyService(familyRepo, emailService)
	postService := service.NewPostService(db, postRepo, commentRepo, likeRepo, uploadRepo, familyService)
	commentService := service.NewCommentService(commentRepo, postRepo, familyService)
	uploadService := service.NewUploadService(
		store,
		media.NewProcessor(cfg.ImageMaxDimension, cfg.ImageQuality, cfg.ThumbnailSize),
		uploadRepo,
		service.UploadLimits{MaxFiles: cfg.UploadMaxFiles, MaxFileSize: cfg.UploadMaxFileSize},
	)

	router := &handlers.Router{
		Middleware:  handlers.NewMiddleware(authService, familyService, postService),
		Auth:        handlers.NewAuthHandler(authService),
		Posts:       handlers.NewPostHandler(postService),
		Comments:    handlers.NewCommentHandler(commentService),
		Family:      handlers.NewFamilyHandler(familyService),
		Uploads:     handlers.NewUploadHandler(uploadService),
		Health:      handlers.NewHealthHandler(db),
		AuthLimiter: security.NewRateLimiter(ctx, cfg.RateLimitPerMinute, time.Minute),
	}
	if local, ok := store.(*storage.LocalStore); ok {
		router.UploadRoot = local.Root()
	}

	mux := http.NewServeMux()
	router.Register(mux)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	var handler http.Handler = c.Handler(mux)
	handler = ghandlers.RecoveryHandler(ghandlers.PrintRecoveryStack(!cfg.IsProduction()))(handler)
	handler = ghandlers.CombinedLoggingHandler(os.Stdout, handler)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
