package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"image-service/internal/audit"
	"image-service/internal/auth"
	"image-service/internal/config"
	"image-service/internal/http"
	"image-service/internal/repository/postgres"
	"image-service/internal/signedlink"
	"image-service/internal/storage"
	"image-service/internal/storage/disk"
	"image-service/internal/storage/s3"
	"image-service/internal/thumbnail"

	"github.com/joho/godotenv"
)

const (
	envFilePath      = ".env"
	serverAddrPrefix = ":"
	signalBufferSize = 1
	logOutputFlags   = log.LstdFlags | log.Lshortfile
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(logOutputFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Configuration loaded successfully")

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Database connection established")

	planRepo := postgres.NewPlanRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	imageRepo := postgres.NewImageRepository(db)

	blobStore, err := newBlobStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}

	log.Printf("Storage backend initialized (%s)", cfg.Storage.Backend)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration)
	authMiddleware := auth.NewMiddleware(jwtService)
	linkSigner := signedlink.NewSigner(cfg.Links.SigningSecret)
	thumbnails := thumbnail.NewGenerator(blobStore)
	auditLogger := audit.NewLogger(db.Pool)

	serverDeps := &http.ServerDependencies{
		Config:         cfg,
		PlanRepo:       planRepo,
		AccountRepo:    accountRepo,
		ImageRepo:      imageRepo,
		BlobStore:      blobStore,
		Thumbnails:     thumbnails,
		LinkSigner:     linkSigner,
		JWTService:     jwtService,
		AuthMiddleware: authMiddleware,
		AuditLogger:    auditLogger,
	}

	server := http.NewServer(serverDeps)

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.Start(serverAddrPrefix + cfg.Server.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}

func newBlobStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		return s3.New(&cfg.AWS, cfg.Storage.S3Bucket)
	default:
		return disk.New(cfg.Storage.DiskRoot)
	}
}
