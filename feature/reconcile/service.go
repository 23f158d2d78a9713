package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"payment-reconciler/core/monitoring"
	"payment-reconciler/core/processor"
	"payment-reconciler/feature/ledger"
	"payment-reconciler/feature/ledger/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrReconciliationInProgress rejects a run requested while another one is
// still active. Callers are expected to retry later, not to queue.
var ErrReconciliationInProgress = errors.New("reconciliation already in progress")

// ErrArchiveUnavailable is returned by archive operations when no
// object-storage report sink is wired.
var ErrArchiveUnavailable = errors.New("report archive not configured")

// Service orchestrates reconciliation between the local payment ledger and
// the external payment processor.
type Service struct {
	store   ledger.Store
	client  processor.Client
	monitor monitoring.Sink
	cfg     Config
	logger  *zap.Logger

	// inProgress is the single-flight guard: one run per instance.
	inProgress  atomic.Bool
	healthGroup singleflight.Group

	schedMu     sync.Mutex
	schedCancel context.CancelFunc

	reportSink ReportSink
	reportCfg  ReportConfig

	now   func() time.Time
	newID func() string
}

// NewService creates the reconciliation service.
func NewService(store ledger.Store, client processor.Client, monitor monitoring.Sink, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		client:  client,
		monitor: monitor,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// SetReportSink wires the optional report sink used for archival by
// scheduled runs and the archive endpoints.
func (s *Service) SetReportSink(sink ReportSink, cfg ReportConfig) {
	s.reportSink = sink
	s.reportCfg = cfg
}

// ReconcileTransactions runs one full reconciliation pass over [start, end).
// Zero times default the window to the last 24 hours. A second call while a
// run is active fails immediately with ErrReconciliationInProgress.
func (s *Service) ReconcileTransactions(ctx context.Context, start, end time.Time) (*Report, error) {
	if !s.inProgress.CompareAndSwap(false, true) {
		return nil, ErrReconciliationInProgress
	}
	// Released deferred so errors and panics cannot wedge the service.
	defer s.inProgress.Store(false)

	if start.IsZero() && end.IsZero() {
		end = s.now()
		start = end.Add(-24 * time.Hour)
	}

	s.monitor.Breadcrumb("reconciliation started", "reconciliation", "info", map[string]any{
		"start": start.Format(time.RFC3339),
		"end":   end.Format(time.RFC3339),
	})
	began := s.now()

	report, err := s.runPipeline(ctx, start, end)
	if err != nil {
		s.logger.Error("Reconciliation failed", zap.Error(err))
		s.monitor.CaptureException(err, map[string]any{"context": "payment_reconciliation"})
		return nil, err
	}

	duration := s.now().Sub(began)
	s.monitor.Metric("reconciliation.duration_seconds", duration.Seconds())
	s.monitor.Metric("reconciliation.matched", float64(report.Summary.MatchedTransactions))
	s.monitor.Metric("reconciliation.discrepancies", float64(report.Summary.Discrepancies))

	s.logger.Info("Reconciliation completed",
		zap.String("report_id", report.ReportID),
		zap.Int("total_local", report.Summary.TotalLocalTransactions),
		zap.Int("total_stripe", report.Summary.TotalStripeTransactions),
		zap.Int("matched", report.Summary.MatchedTransactions),
		zap.Int("discrepancies", report.Summary.Discrepancies),
		zap.Duration("duration", duration),
	)

	return report, nil
}

// GenerateReconciliationReport runs a reconciliation over [start, end) and
// serializes the resulting report in the requested format.
func (s *Service) GenerateReconciliationReport(ctx context.Context, format string, start, end time.Time) (*Report, []byte, error) {
	if !ValidFormat(format) {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	report, err := s.ReconcileTransactions(ctx, start, end)
	if err != nil {
		return nil, nil, err
	}

	payload, err := EncodeReport(report, format)
	if err != nil {
		return nil, nil, err
	}
	return report, payload, nil
}

// ListArchivedReports returns the archive index when an object-storage sink
// is wired, newest first.
func (s *Service) ListArchivedReports(ctx context.Context) ([]ArchiveEntry, error) {
	lister, ok := s.reportSink.(interface {
		List(ctx context.Context, prefix string) ([]ArchiveEntry, error)
	})
	if !ok {
		return nil, ErrArchiveUnavailable
	}
	return lister.List(ctx, s.reportCfg.ArchivePrefix())
}

// runPipeline executes one reconciliation pass without touching the
// in-progress guard; the health check reuses it for its fast window pass.
func (s *Service) runPipeline(ctx context.Context, start, end time.Time) (*Report, error) {
	var (
		localRows  []models.PaymentTransaction
		remoteRows []processor.RemoteTransaction
	)

	// Fetch both sides concurrently and join before matching.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.store.ListTransactions(gctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to fetch local transactions: %w", err)
		}
		localRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.client.ListTransactions(gctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to fetch stripe transactions: %w", err)
		}
		remoteRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	locals, err := NormalizeLocal(localRows)
	if err != nil {
		return nil, err
	}
	remotes, err := NormalizeRemote(remoteRows)
	if err != nil {
		return nil, err
	}

	match := Match(locals, remotes)

	classifier := s.classifier()
	var discrepancies []Discrepancy
	for _, pair := range match.Pairs {
		discrepancies = append(discrepancies, classifier.Classify(pair)...)
	}

	detector := s.orphanDetector()
	orphans := OrphanLists{
		Local:  detector.DetectLocal(match.LocalOrphans),
		Stripe: detector.DetectRemote(match.RemoteOrphans),
	}

	period := Period{Start: start, End: end}
	report := BuildReport(s.newID(), s.now(), period, locals, remotes, match.Pairs, discrepancies, orphans)
	return &report, nil
}

func (s *Service) classifier() *Classifier {
	c := NewClassifier(s.cfg)
	c.now = s.now
	return c
}

func (s *Service) orphanDetector() *OrphanDetector {
	d := NewOrphanDetector(s.cfg)
	d.now = s.now
	return d
}
