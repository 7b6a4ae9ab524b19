package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"dataset-reconciler/core/config"
	"dataset-reconciler/core/database"
	"dataset-reconciler/core/loader"
	"dataset-reconciler/core/logger"
	"dataset-reconciler/core/middleware/auth"
	"dataset-reconciler/core/middleware/rayid"
	"dataset-reconciler/core/storage"

	"dataset-reconciler/feature/runs"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reconciliation server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Optional)
		// Without a database the server still runs, just without history.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to run-history database",
				zap.String("driver", cfg.Database.Driver))
		}

		// 4. Initialize Storage (Optional, for report archiving)
		var store storage.Client
		if cfg.Reconcile.ArchiveReports {
			store, err = storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		mgr.Register(runs.NewFeature(store, cfg.Storage.Bucket, logg, db, cfg.Reconcile))

		// Middleware Registration
		// RayID must be first to trace everything
		app.Use(rayid.New())

		// Logging Middleware (Zap + RayID)
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

		// Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
