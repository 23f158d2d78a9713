package reconcile

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ScheduleReconciliation starts a repeating reconciliation every interval.
// One schedule per instance: re-scheduling replaces the prior timer. A tick
// that overlaps an in-flight run is skipped via the in-progress guard.
func (s *Service) ScheduleReconciliation(interval time.Duration) {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()

	if s.schedCancel != nil {
		s.schedCancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.schedCancel = cancel

	s.logger.Info("Scheduled reconciliation", zap.Duration("interval", interval))
	go s.runScheduled(ctx, interval)
}

// StopScheduledReconciliation cancels the active schedule, if any.
func (s *Service) StopScheduledReconciliation() {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()

	if s.schedCancel != nil {
		s.schedCancel()
		s.schedCancel = nil
	}
}

func (s *Service) runScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runScheduledOnce(ctx)
		}
	}
}

// runScheduledOnce runs a default-window reconciliation and, when archival
// is enabled, writes the report to the sink and prunes expired archives.
func (s *Service) runScheduledOnce(ctx context.Context) {
	report, err := s.ReconcileTransactions(ctx, time.Time{}, time.Time{})
	if err != nil {
		if errors.Is(err, ErrReconciliationInProgress) {
			s.logger.Info("Scheduled run skipped, reconciliation already in progress")
			s.monitor.Metric("reconciliation.scheduled_skipped", 1)
			return
		}
		s.logger.Error("Scheduled reconciliation failed", zap.Error(err))
		return
	}

	if s.reportSink == nil || !s.reportCfg.Archive {
		return
	}

	payload, err := EncodeReport(report, s.reportCfg.Format)
	if err != nil {
		s.logger.Error("Failed to encode scheduled report", zap.Error(err))
		return
	}

	name := ArchiveName(s.reportCfg, report)
	if err := s.reportSink.Write(ctx, name, payload); err != nil {
		s.logger.Error("Failed to archive report", zap.Error(err))
		return
	}
	s.logger.Info("Archived reconciliation report", zap.String("object", name))

	if pruner, ok := s.reportSink.(Pruner); ok {
		pruned, err := pruner.Prune(ctx, s.now().Add(-s.reportCfg.Retention()))
		if err != nil {
			s.logger.Warn("Failed to prune archived reports", zap.Error(err))
		} else if pruned > 0 {
			s.logger.Info("Pruned archived reports", zap.Int("count", pruned))
		}
	}
}
