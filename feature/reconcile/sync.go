package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payment-reconciler/core/processor"
	"payment-reconciler/feature/ledger/models"

	"go.uber.org/zap"
)

// SyncError records one pending record that could not be resolved.
type SyncError struct {
	TransactionID string `json:"id"`
	Error         string `json:"error"`
}

// SyncResult summarizes one pending sync pass. Updated counts successful
// writes only.
type SyncResult struct {
	Updated int         `json:"updated"`
	Errors  []SyncError `json:"errors"`
}

// SyncPendingPayments resolves local transactions stuck in pending by asking
// the processor for their current status. Records are processed one at a
// time; a per-record failure is captured in the result and never aborts the
// batch.
func (s *Service) SyncPendingPayments(ctx context.Context) (*SyncResult, error) {
	pending, err := s.store.ListPendingTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}

	result := &SyncResult{Errors: []SyncError{}}
	timeout := s.cfg.PendingTimeout()
	now := s.now()

	for _, txn := range pending {
		key := localCorrelationKey(txn)

		// A record with no processor reference can never resolve remotely.
		// Past the timeout it is written off as failed.
		if key == "" {
			if now.Sub(txn.CreatedAt) > timeout {
				s.resolve(ctx, txn.ID, models.StatusFailed, nil, result)
			}
			continue
		}

		remote, err := s.client.GetTransaction(ctx, key)
		if err != nil {
			if errors.Is(err, processor.ErrTransactionNotFound) {
				// The processor has no record: aged-out records are failed,
				// younger ones get another chance on the next pass.
				if now.Sub(txn.CreatedAt) > timeout {
					s.resolve(ctx, txn.ID, models.StatusFailed, nil, result)
				}
				continue
			}
			result.Errors = append(result.Errors, SyncError{TransactionID: txn.ID, Error: err.Error()})
			continue
		}

		switch remoteOutcome(remote.Status) {
		case outcomeSuccess:
			completedAt := now
			s.resolve(ctx, txn.ID, models.StatusCompleted, &completedAt, result)
		case outcomeFailure:
			s.resolve(ctx, txn.ID, models.StatusFailed, nil, result)
		default:
			// The processor still claims the payment is in flight; leave the
			// record untouched regardless of age.
		}
	}

	s.logger.Info("Pending sync completed",
		zap.Int("pending", len(pending)),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)),
	)
	s.monitor.Metric("reconciliation.sync_updated", float64(result.Updated))
	s.monitor.Metric("reconciliation.sync_errors", float64(len(result.Errors)))

	return result, nil
}

// resolve writes one record's final status. Write failures land in the
// result's error list so the batch keeps going.
func (s *Service) resolve(ctx context.Context, id string, status models.TransactionStatus, completedAt *time.Time, result *SyncResult) {
	fields := map[string]any{"status": status}
	if completedAt != nil {
		fields["completed_at"] = *completedAt
	}
	if err := s.store.UpdateTransaction(ctx, id, fields); err != nil {
		result.Errors = append(result.Errors, SyncError{TransactionID: id, Error: err.Error()})
		return
	}
	result.Updated++
}
