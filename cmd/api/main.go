package main

import (
	"context"
	"log"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/LocialWang/coze-word-upload-plugin/internal/config"
	"github.com/LocialWang/coze-word-upload-plugin/internal/database"
	"github.com/LocialWang/coze-word-upload-plugin/internal/extract"
	handlers "github.com/LocialWang/coze-word-upload-plugin/internal/http/handler"
	"github.com/LocialWang/coze-word-upload-plugin/internal/http/middleware"
	"github.com/LocialWang/coze-word-upload-plugin/internal/logger"
	"github.com/LocialWang/coze-word-upload-plugin/internal/otel"
	"github.com/LocialWang/coze-word-upload-plugin/internal/repository"
	"github.com/LocialWang/coze-word-upload-plugin/internal/repository/memory"
	"github.com/LocialWang/coze-word-upload-plugin/internal/repository/postgres"
	"github.com/LocialWang/coze-word-upload-plugin/internal/service"
	"github.com/LocialWang/coze-word-upload-plugin/internal/storage"
)

// multipart framing adds headers and boundaries on top of the file itself,
// so the transport limit sits above the per-file limit.
const multipartOverhead = 1 << 20

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Log.Sync() //nolint:errcheck

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		logger.Log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTracing(ctx) //nolint:errcheck

	// Document records live in memory by default; a PostgreSQL-backed
	// repository is available for deployments that need persistence.
	var repo repository.DocumentRepository
	switch cfg.RepoBackend {
	case "postgres":
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logger.Log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		pgRepo := postgres.NewDocumentPostgres(db)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			logger.Log.Fatal("failed to prepare database schema", zap.Error(err))
		}
		repo = pgRepo
	default:
		repo = memory.NewDocumentMemory()
	}

	// Uploaded files land on local disk by default; an S3-compatible
	// backend (MinIO-supported) can be selected instead.
	var store storage.Storage
	switch cfg.StorageBackend {
	case "s3":
		store, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			logger.Log.Fatal("failed to initialize object storage", zap.Error(err))
		}
	default:
		store, err = storage.NewDisk(cfg.Upload.Dir)
		if err != nil {
			logger.Log.Fatal("failed to initialize disk storage", zap.Error(err))
		}
	}

	docSvc := service.NewDocumentService(store, repo, extract.NewDocxExtractor(), cfg.Upload)

	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.Upload.MaxBytes) + multipartOverhead,
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(cors.New())
	app.Use(otelfiber.Middleware())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(logger.Log))

	promMw, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Log.Fatal("failed to register metrics", zap.Error(err))
	}
	app.Use(promMw.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, docSvc, cfg.OpenAPIPath)

	addr := ":" + cfg.Port
	logger.Log.Info("server starting",
		zap.String("addr", addr),
		zap.String("storage_backend", cfg.StorageBackend),
		zap.String("repo_backend", cfg.RepoBackend))

	if err := app.Listen(addr); err != nil {
		logger.Log.Fatal("failed to start server", zap.Error(err))
	}
}
