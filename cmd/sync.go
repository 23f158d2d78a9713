package cmd

import (
	"context"
	"fmt"

	"payment-reconciler/core/config"
	"payment-reconciler/core/database"
	"payment-reconciler/core/logger"
	"payment-reconciler/core/monitoring"
	"payment-reconciler/core/processor"
	"payment-reconciler/feature/ledger"
	"payment-reconciler/feature/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd resolves stuck pending transactions against the processor once.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Resolve pending ledger transactions against the processor",
	Long: `Look up every pending ledger transaction at the payment processor and
update the ones that have settled remotely. Pending records older than the
configured timeout with no trace at the processor are marked failed.`,
	RunE: runSync,
}

func init() {
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
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

	result, err := svc.SyncPendingPayments(ctx)
	if err != nil {
		return fmt.Errorf("pending sync failed: %w", err)
	}

	for _, syncErr := range result.Errors {
		l.Warn("Pending transaction could not be resolved",
			zap.String("transaction_id", syncErr.TransactionID),
			zap.String("error", syncErr.Error),
		)
	}
	l.Info("Pending sync complete",
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)),
	)
	return nil
}
