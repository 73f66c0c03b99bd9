package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/weather-archive-storage/internal/api/http"
	"github.com/i474232898/weather-archive-storage/internal/config"
	"github.com/i474232898/weather-archive-storage/internal/scheduler"
	"github.com/i474232898/weather-archive-storage/internal/store"
	"github.com/i474232898/weather-archive-storage/internal/weather"
	"github.com/i474232898/weather-archive-storage/internal/weather/providers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Object store; the GCS client is shared for the process lifetime.
	var objects weather.ObjectStore
	switch cfg.StorageBackend {
	case config.BackendMemory:
		log.Println("INFO: using in-memory object store; data is lost on exit")
		objects = store.NewMemoryStore()
	default:
		gcs, err := store.NewGCSStore(ctx, store.GCSConfig{
			Bucket:          cfg.BucketName,
			CredentialsFile: cfg.CredentialsFile,
		})
		if err != nil {
			log.Fatalf("failed to open bucket %s: %v", cfg.BucketName, err)
		}
		defer gcs.Close()
		objects = gcs
	}

	// Shared HTTP client for outbound archive calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	archive := providers.NewOpenMeteoArchive(httpClient, cfg.ArchiveURL)

	service := weather.NewService(archive, objects, cfg.BucketFolder, cfg.LocalFolder)

	// Scheduler that periodically ingests configured coordinates.
	sched := scheduler.New(cfg.Locations, cfg.FetchInterval, cfg.LookbackDays, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-archive-storage",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 30*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-archive-storage",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
