package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"

	"github.com/openfra/fieldsync/internal/config"
	"github.com/openfra/fieldsync/internal/database"
	"github.com/openfra/fieldsync/internal/export"
	"github.com/openfra/fieldsync/internal/handlers"
	"github.com/openfra/fieldsync/internal/middleware"
	"github.com/openfra/fieldsync/internal/netmon"
	"github.com/openfra/fieldsync/internal/remote"
	"github.com/openfra/fieldsync/internal/repository"
	"github.com/openfra/fieldsync/internal/store"
	"github.com/openfra/fieldsync/internal/syncer"
	"github.com/openfra/fieldsync/internal/types"
	"github.com/openfra/fieldsync/internal/utils"
)

// @title FieldSync Agent API
// @version 1.0.0
// @description Offline-first claim capture and sync agent
// @termsOfService http://swagger.io/terms/

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to the local store
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Open the four scoped stores and their repositories
	claimRepo := repository.NewClaimRepository(store.Open(db, store.ScopeClaims))
	mediaRepo := repository.NewMediaRepository(store.Open(db, store.ScopeMedia))
	mapRepo := repository.NewMapCacheRepository(store.Open(db, store.ScopeMaps))
	settingsRepo := repository.NewSettingsRepository(store.Open(db, store.ScopeSettings))
	exporter := export.NewExporter(claimRepo, mediaRepo)

	// Sync coordinator over the remote submission contract
	submitter := remote.NewClient(cfg.SyncURL, time.Duration(cfg.SyncTimeoutSecs)*time.Second)
	coordinator := syncer.New(claimRepo, mediaRepo, submitter, cfg.SyncMaxAttempts)

	// Network monitor; the reconnect edge triggers a sync pass
	probeTimeout := time.Duration(cfg.ProbeTimeoutMS) * time.Millisecond
	monitor := netmon.New(func() error {
		return utils.PingRemote(cfg.SyncURL, probeTimeout)
	}, time.Duration(cfg.ProbeIntervalSecs)*time.Second)

	unsubscribe := monitor.OnTransition(func(online bool) {
		if !online {
			return
		}
		go func() {
			if _, err := coordinator.Sync(context.Background()); err != nil &&
				!errors.Is(err, syncer.ErrSyncInProgress) {
				log.Printf("Reconnect sync failed: %v", err)
			}
		}()
	})
	defer unsubscribe()
	monitor.Start()
	defer monitor.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    64 * 1024 * 1024, // media uploads
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("fieldsync")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	claimsHandler := &handlers.ClaimsHandler{Repo: claimRepo, Media: mediaRepo, Exporter: exporter}
	mediaHandler := &handlers.MediaHandler{Repo: mediaRepo}
	mapsHandler := &handlers.MapsHandler{Repo: mapRepo}
	settingsHandler := &handlers.SettingsHandler{Repo: settingsRepo}
	syncHandler := &handlers.SyncHandler{Coordinator: coordinator, Monitor: monitor, Claims: claimRepo}
	healthHandler := &handlers.HealthHandler{Cfg: cfg, DB: db}

	// Claim routes
	api.Post("/claims", claimsHandler.SaveClaim)
	api.Get("/claims", claimsHandler.ListClaims)
	api.Get("/claims/:id", claimsHandler.GetClaim)
	api.Get("/claims/:id/export", claimsHandler.ExportClaim)
	api.Delete("/claims/:id", claimsHandler.DeleteClaim)

	// Media routes
	api.Post("/media", mediaHandler.Upload)
	api.Put("/media/:id", mediaHandler.Upload)
	api.Get("/media/:id", mediaHandler.GetMedia)

	// Map cache routes
	api.Put("/maps/:region", mapsHandler.PutRegion)
	api.Get("/maps/:region", mapsHandler.GetRegion)

	// Settings routes
	api.Get("/settings", settingsHandler.GetSettings)
	api.Post("/settings", settingsHandler.SaveSettings)

	// Sync routes
	api.Post("/sync", syncHandler.TriggerSync)
	api.Get("/sync/status", syncHandler.Status)

	// Health
	api.Get("/health", healthHandler.Health)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()
	log.Printf("FieldSync agent listening on :%s", cfg.Port)

	<-done
	log.Println("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// customErrorHandler maps handler errors to the standard response format
func customErrorHandler(c *fiber.Ctx, err error) error {
	var customErr *types.CustomError
	if errors.As(err, &customErr) {
		return utils.ErrorResponse(c, customErr.Message, customErr.Code, customErr.Type)
	}

	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return utils.ErrorResponse(c, err.Error(), code, "internal")
}
