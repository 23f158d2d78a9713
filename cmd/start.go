package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payment-reconciler/core/config"
	"payment-reconciler/core/database"
	"payment-reconciler/core/loader"
	"payment-reconciler/core/logger"
	"payment-reconciler/core/middleware/auth"
	"payment-reconciler/core/middleware/requestid"
	"payment-reconciler/core/monitoring"
	"payment-reconciler/core/processor"
	"payment-reconciler/core/storage"

	"payment-reconciler/feature/ledger"
	"payment-reconciler/feature/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "payment-reconciler/docs/swagger"
)

// @title Payment Reconciler API
// @version 1.0
// @description Reconciliation service comparing the local payment ledger against the payment processor.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reconciliation server",
	Long:  `Starts the HTTP server, wires the reconciliation engine, and optionally schedules periodic runs.`,
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

		// 3. Connect to the Ledger Database (Required)
		// The reconciler is useless without its ledger, so this is fatal.
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to ledger database", zap.Error(err))
		}
		if err := ledger.VerifySchema(db); err != nil {
			logg.Fatal("Ledger schema verification failed", zap.Error(err))
		}
		logg.Info("Connected to ledger database", zap.String("database", cfg.Database.Name))

		// 4. Build the Engine Dependencies
		store := ledger.NewStore(db)
		client := processor.NewClient(cfg.Processor)
		monitor := monitoring.NewSink(cfg.Monitoring, logg)

		svc := reconcile.NewService(store, client, monitor, cfg.Reconcile, logg)

		// 5. Wire the Report Sink (Optional)
		// Object storage is preferred; a local directory is the fallback so
		// reports are never silently dropped.
		svc.SetReportSink(buildReportSink(cfg, logg), cfg.Report)

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// Request ID first so everything downstream can trace.
		app.Use(requestid.New())

		// Logging Middleware (Custom to use Zap + Request ID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRequestID(logg, c)
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

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		mgr := loader.NewManager()
		mgr.Register(reconcile.NewFeature(svc))
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Schedule Periodic Reconciliation
		if cfg.Reconcile.ScheduleIntervalHours > 0 {
			svc.ScheduleReconciliation(time.Duration(cfg.Reconcile.ScheduleIntervalHours) * time.Hour)
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.ListenAddr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		svc.StopScheduledReconciliation()
		_ = app.Shutdown()
	},
}

// buildReportSink prefers the object storage archive and falls back to the
// local report directory when storage is not reachable.
func buildReportSink(cfg *config.Config, logg *zap.Logger) reconcile.ReportSink {
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		logg.Warn("Report archive storage unavailable, writing reports to local directory",
			zap.String("dir", cfg.Report.Dir), zap.Error(err))
		return reconcile.DirSink{Dir: cfg.Report.Dir}
	}

	sink := reconcile.NewStorageSink(client, cfg.Storage.Bucket)
	if err := sink.Ensure(context.Background()); err != nil {
		logg.Warn("Report archive bucket unavailable, writing reports to local directory",
			zap.String("dir", cfg.Report.Dir), zap.Error(err))
		return reconcile.DirSink{Dir: cfg.Report.Dir}
	}

	logg.Info("Report archive ready", zap.String("bucket", cfg.Storage.Bucket))
	return sink
}

func init() {
	RootCmd.AddCommand(startCmd)
}
