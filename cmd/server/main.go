package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"faktoteka/internal/config"
	"faktoteka/internal/database"
	"faktoteka/internal/handlers"
	"faktoteka/internal/jobs"
	"faktoteka/internal/logging"
	"faktoteka/internal/services"
	"faktoteka/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Faktoteka Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, DB: %s)", cfg.Port, cfg.DatabasePath)

	// Initialize SQLite key-value slot
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize services
	store := storage.New(db)
	datasetService := services.NewDatasetService(cfg.DatasetURL, cfg.DatasetFile, cfg.CacheTTL)
	factsService := services.NewFactsService(store, datasetService)
	themeService := services.NewThemeService(store)
	exportService := services.NewExportService()

	// Load base dataset + persisted user facts. A failed dataset load
	// degrades to an empty base set and is reported via /health.
	factsService.Initialize(context.Background())

	// Background refresh of the base dataset
	jobScheduler := jobs.NewJobScheduler()
	if cfg.RefreshEnabled && cfg.DatasetURL != "" {
		jobScheduler.Register("dataset-refresh", jobs.NewDatasetRefreshJob(factsService, cfg.RefreshInterval))
		jobScheduler.Start()
	}

	// Hot-reload the dataset file when it changes on disk
	if cfg.DatasetFile != "" {
		go watchDatasetFile(cfg.DatasetFile, factsService)
	}

	// Initialize handlers
	factsHandler := handlers.NewFactsHandler(factsService, exportService)
	themeHandler := handlers.NewThemeHandler(themeService)
	healthHandler := handlers.NewHealthHandler(factsService)

	app := fiber.New(fiber.Config{
		AppName:      "Faktoteka v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB is plenty for a fact payload
	})

	app.Use(recover.New())
	app.Use(logger.New())

	prometheus := fiberprometheus.New("faktoteka")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Writes are rate limited per client; reads are not
	writeLimiter := limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodGet
		},
	})

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api", writeLimiter)
	api.Get("/facts", factsHandler.List)
	api.Get("/facts/random", factsHandler.Random)
	api.Get("/facts/export", factsHandler.Export)
	api.Get("/facts/:id", factsHandler.Get)
	api.Post("/facts", factsHandler.Create)
	api.Delete("/facts/:id", factsHandler.Delete)
	api.Get("/categories", factsHandler.Categories)
	api.Get("/theme", themeHandler.Get)
	api.Put("/theme", themeHandler.Set)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		jobScheduler.Stop()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️  Error during shutdown: %v", err)
		}
	}()

	log.Printf("🌍 Server listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}

	log.Println("👋 Server stopped")
}

// watchDatasetFile reloads the base dataset when the file changes.
// Watches the containing directory (more reliable than watching the
// file directly) and debounces rapid change bursts.
func watchDatasetFile(filePath string, factsService *services.FactsService) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️  Failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		log.Printf("⚠️  Failed to resolve %s: %v", filePath, err)
		return
	}

	dir := filepath.Dir(absPath)
	filename := filepath.Base(absPath)

	if err := watcher.Add(dir); err != nil {
		log.Printf("⚠️  Failed to watch directory %s: %v", dir, err)
		return
	}

	log.Printf("👁️  Watching %s for changes (hot-reload enabled)", filePath)

	var debounceTimer *time.Timer
	debounceDuration := 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDuration, func() {
				log.Printf("🔄 Dataset file changed, reloading...")
				if err := factsService.ReloadBase(context.Background()); err != nil {
					log.Printf("⚠️  Dataset reload failed: %v", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  File watcher error: %v", err)
		}
	}
}
