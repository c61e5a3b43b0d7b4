package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scene-mirror/core/config"
	"scene-mirror/core/database"
	"scene-mirror/core/loader"
	"scene-mirror/core/logger"
	"scene-mirror/core/metrics"
	"scene-mirror/core/middleware/auth"
	"scene-mirror/core/middleware/rayid"
	"scene-mirror/core/schema"
	"scene-mirror/core/snapshot"
	"scene-mirror/core/storage"
	"scene-mirror/feature/mirror"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "scene-mirror/docs/swagger"
)

// @title Scene Mirror API
// @version 1.0
// @description API for inspecting, syncing and snapshotting a proxy mirror of a scene document.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scene mirror server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)
		logg = logg.With(zap.String("session", cfg.Mirror.Session))

		// Snapshots are optional: without a database the routes answer 503.
		var repo *snapshot.Repository
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			repo = snapshot.NewRepository(db, logg)
			if err := repo.Migrate(); err != nil {
				logg.Fatal("Failed to migrate snapshots table", zap.Error(err))
			}
			logg.Info("Connected to snapshot database", zap.String("driver", cfg.Database.Driver))
		}

		var exporter *snapshot.Exporter
		if store, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Object storage unavailable, export disabled", zap.Error(err))
		} else {
			exporter = snapshot.NewExporter(store, cfg.Storage.Bucket, logg)
		}

		svc := mirror.NewService(cfg.Mirror, schema.Builtin(), repo, exporter, logg)

		mgr := loader.NewManager(logg)
		mgr.Register(mirror.NewFeature(svc))

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID first so every later log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)
		if cfg.Server.MetricsEnabled() {
			app.Get(cfg.Server.MetricsPath, metrics.Handler())
		}

		app.Use(auth.New(auth.Config{
			ApiKey: cfg.Server.ApiKey,
			Public: []string{"/swagger", cfg.Server.MetricsPath},
		}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		if _, err := svc.Reload(context.Background()); err != nil {
			logg.Warn("Initial load failed, retrying on first request", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.ShutdownWithTimeout(time.Duration(cfg.Server.ShutdownSeconds) * time.Second)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
