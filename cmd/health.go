package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"payment-reconciler/core/config"
	"payment-reconciler/core/database"
	"payment-reconciler/core/logger"
	"payment-reconciler/core/monitoring"
	"payment-reconciler/core/processor"
	"payment-reconciler/feature/ledger"
	"payment-reconciler/feature/reconcile"

	"github.com/spf13/cobra"
)

// healthCmd probes the reconciliation dependencies and reports their state.
// Exits non-zero when the engine is critical, so it can back a liveness probe.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check reconciliation health and exit non-zero when critical",
	RunE:  runHealth,
}

func init() {
	RootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
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

	svc := reconcile.NewService(
		ledger.NewStore(db),
		processor.NewClient(cfg.Processor),
		monitoring.NewSink(cfg.Monitoring, l),
		cfg.Reconcile,
		l,
	)

	health := svc.GetReconciliationHealth(ctx)

	out, err := json.MarshalIndent(health, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode health: %w", err)
	}
	fmt.Println(string(out))

	if health.Status == reconcile.HealthCritical {
		return fmt.Errorf("reconciliation health is critical")
	}
	return nil
}
