package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"payment-reconciler/core/config"
	"payment-reconciler/core/database"
	"payment-reconciler/core/logger"
	"payment-reconciler/core/monitoring"
	"payment-reconciler/core/processor"
	"payment-reconciler/core/storage"
	"payment-reconciler/feature/ledger"
	"payment-reconciler/feature/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	reconcileStart  string
	reconcileEnd    string
	reconcileFormat string
	reconcileOutput string
	reconcileUpload bool
)

// reconcileCmd runs one reconciliation pass and emits the report.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run a one-shot reconciliation and emit the report",
	Long: `Reconcile the local payment ledger against the payment processor once and
emit the resulting report.

Examples:
  # Reconcile the last 24 hours, print the JSON report
  payment-reconciler reconcile

  # Reconcile an explicit window as CSV into a file
  payment-reconciler reconcile --start 2026-08-19T00:00:00Z --end 2026-08-20T00:00:00Z --format csv --output report.csv

  # Reconcile and archive the report to object storage
  payment-reconciler reconcile --upload`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileStart, "start", "", "Window start (RFC3339); requires --end")
	reconcileCmd.Flags().StringVar(&reconcileEnd, "end", "", "Window end (RFC3339); requires --start")
	reconcileCmd.Flags().StringVar(&reconcileFormat, "format", reconcile.FormatJSON, "Report format (json, csv)")
	reconcileCmd.Flags().StringVar(&reconcileOutput, "output", "", "Write the report to this file instead of stdout")
	reconcileCmd.Flags().BoolVar(&reconcileUpload, "upload", false, "Archive the report to object storage")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	start, end, err := parseWindowFlags(reconcileStart, reconcileEnd)
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := ledger.VerifySchema(db); err != nil {
		return err
	}

	svc := reconcile.NewService(
		ledger.NewStore(db),
		processor.NewClient(cfg.Processor),
		monitoring.NewSink(cfg.Monitoring, l),
		cfg.Reconcile,
		l,
	)

	report, payload, err := svc.GenerateReconciliationReport(ctx, reconcileFormat, start, end)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	if reconcileOutput != "" {
		if err := os.WriteFile(reconcileOutput, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		l.Info("Report written", zap.String("path", reconcileOutput))
	} else {
		fmt.Println(string(payload))
	}

	if reconcileUpload {
		if err := uploadToArchive(ctx, cfg, l, report, payload); err != nil {
			return err
		}
	}

	l.Info("Reconciliation summary",
		zap.Int("total_local", report.Summary.TotalLocalTransactions),
		zap.Int("total_stripe", report.Summary.TotalStripeTransactions),
		zap.Int("matched", report.Summary.MatchedTransactions),
		zap.Int("discrepancies", report.Summary.Discrepancies),
	)
	return nil
}

// uploadToArchive writes an already-encoded report into the archive bucket.
func uploadToArchive(ctx context.Context, cfg *config.Config, l *zap.Logger, report *reconcile.Report, payload []byte) error {
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	sink := reconcile.NewStorageSink(client, cfg.Storage.Bucket)
	if err := sink.Ensure(ctx); err != nil {
		return err
	}

	archiveCfg := cfg.Report
	archiveCfg.Format = reconcileFormat

	name := reconcile.ArchiveName(archiveCfg, report)
	if err := sink.Write(ctx, name, payload); err != nil {
		return err
	}
	l.Info("Report archived", zap.String("object", name))
	return nil
}

// parseWindowFlags validates the optional window flags. Both empty means the
// default window; anything else requires a well-formed pair.
func parseWindowFlags(startFlag, endFlag string) (time.Time, time.Time, error) {
	var start, end time.Time

	if startFlag != "" {
		t, err := time.Parse(time.RFC3339, startFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --start %q: %w", startFlag, err)
		}
		start = t
	}
	if endFlag != "" {
		t, err := time.Parse(time.RFC3339, endFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end %q: %w", endFlag, err)
		}
		end = t
	}

	if start.IsZero() != end.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("--start and --end must be provided together")
	}
	if !start.IsZero() && !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--end must be after --start")
	}
	return start, end, nil
}
