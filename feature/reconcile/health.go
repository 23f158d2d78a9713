package reconcile

import (
	"context"
	"time"
)

// Health status values, from best to worst.
const (
	HealthHealthy  = "healthy"
	HealthWarning  = "warning"
	HealthCritical = "critical"
)

// CheckResult is one dependency probe's outcome.
type CheckResult struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

// Health is the engine's self-assessment. Recomputed on demand, never
// persisted.
type Health struct {
	Status              string                 `json:"status"`
	PendingTransactions int64                  `json:"pendingTransactions"`
	RecentDiscrepancies int                    `json:"recentDiscrepancies"`
	Checks              map[string]CheckResult `json:"checks"`
	CheckedAt           time.Time              `json:"checkedAt"`
}

// GetReconciliationHealth probes the engine's dependencies and summarizes the
// overall state. Concurrent callers share one computation via singleflight.
// It always returns a Health; failures show up as critical status with the
// failing check carrying the error.
func (s *Service) GetReconciliationHealth(ctx context.Context) *Health {
	v, _, _ := s.healthGroup.Do("health", func() (any, error) {
		return s.checkHealth(ctx), nil
	})
	return v.(*Health)
}

// checkHealth runs the three probes. Derivation order, first match wins:
// any check errored -> critical; pending backlog above the threshold ->
// warning; any discrepancy in the recent window -> warning; else healthy.
func (s *Service) checkHealth(ctx context.Context) *Health {
	health := &Health{
		Status:    HealthHealthy,
		Checks:    make(map[string]CheckResult),
		CheckedAt: s.now(),
	}

	// Store reachability, via the backlog query the threshold needs anyway.
	began := s.now()
	pending, storeErr := s.store.CountPendingTransactions(ctx)
	health.Checks["store"] = checkResult(storeErr, s.now().Sub(began))
	health.PendingTransactions = pending

	// Processor reachability.
	began = s.now()
	stripeErr := s.client.Ping(ctx)
	health.Checks["stripe"] = checkResult(stripeErr, s.now().Sub(began))

	if storeErr != nil || stripeErr != nil {
		health.Status = HealthCritical
		return health
	}

	// Fast reconciliation over the recent window, counting pair-level
	// discrepancies only; orphans inside a short window are usually just
	// propagation lag.
	began = s.now()
	end := s.now()
	report, reconErr := s.runPipeline(ctx, end.Add(-s.cfg.HealthWindow()), end)
	health.Checks["reconciliation"] = checkResult(reconErr, s.now().Sub(began))
	if reconErr != nil {
		health.Status = HealthCritical
		return health
	}
	health.RecentDiscrepancies = len(report.Discrepancies)

	switch {
	case health.PendingTransactions > s.cfg.WarnThreshold():
		health.Status = HealthWarning
	case health.RecentDiscrepancies > 0:
		health.Status = HealthWarning
	}

	return health
}

func checkResult(err error, latency time.Duration) CheckResult {
	if err != nil {
		return CheckResult{Status: "error", Error: err.Error(), Latency: latency.String()}
	}
	return CheckResult{Status: "ok", Latency: latency.String()}
}
