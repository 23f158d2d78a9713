package reconcile

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"payment-reconciler/core/processor"
	"payment-reconciler/feature/ledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReconciliationHealth_Healthy(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeProcessor{}, newRecordingSink())

	health := svc.GetReconciliationHealth(context.Background())

	assert.Equal(t, HealthHealthy, health.Status)
	assert.Zero(t, health.PendingTransactions)
	assert.Zero(t, health.RecentDiscrepancies)
	assert.Equal(t, testNow, health.CheckedAt)

	for _, name := range []string{"store", "stripe", "reconciliation"} {
		check, ok := health.Checks[name]
		require.True(t, ok, "missing check %s", name)
		assert.Equal(t, "ok", check.Status)
		assert.Empty(t, check.Error)
	}
}

func TestGetReconciliationHealth_CriticalWhenProcessorDown(t *testing.T) {
	client := &fakeProcessor{
		pingFunc: func(ctx context.Context) error {
			return fmt.Errorf("dial tcp: connection refused")
		},
	}
	svc := newTestService(&fakeStore{}, client, newRecordingSink())

	health := svc.GetReconciliationHealth(context.Background())

	assert.Equal(t, HealthCritical, health.Status)
	assert.Equal(t, "error", health.Checks["stripe"].Status)
	assert.Contains(t, health.Checks["stripe"].Error, "connection refused")
	// The window pass is skipped once a dependency is down.
	assert.NotContains(t, health.Checks, "reconciliation")
}

func TestGetReconciliationHealth_CriticalWhenStoreDown(t *testing.T) {
	store := &fakeStore{
		countFunc: func(ctx context.Context) (int64, error) {
			return 0, fmt.Errorf("driver: bad connection")
		},
	}
	svc := newTestService(store, &fakeProcessor{}, newRecordingSink())

	health := svc.GetReconciliationHealth(context.Background())

	assert.Equal(t, HealthCritical, health.Status)
	assert.Equal(t, "error", health.Checks["store"].Status)
}

func TestGetReconciliationHealth_WarningOnPendingBacklog(t *testing.T) {
	store := &fakeStore{
		countFunc: func(ctx context.Context) (int64, error) {
			return 101, nil
		},
	}
	svc := newTestService(store, &fakeProcessor{}, newRecordingSink())

	health := svc.GetReconciliationHealth(context.Background())

	assert.Equal(t, HealthWarning, health.Status)
	assert.Equal(t, int64(101), health.PendingTransactions)
}

func TestGetReconciliationHealth_BacklogAtThresholdStaysHealthy(t *testing.T) {
	store := &fakeStore{
		countFunc: func(ctx context.Context) (int64, error) {
			return 100, nil
		},
	}
	svc := newTestService(store, &fakeProcessor{}, newRecordingSink())

	health := svc.GetReconciliationHealth(context.Background())
	assert.Equal(t, HealthHealthy, health.Status)
}

func TestGetReconciliationHealth_WarningOnRecentDiscrepancy(t *testing.T) {
	created := testNow.Add(-30 * time.Minute)
	store := &fakeStore{
		listFunc: func(ctx context.Context, start, end time.Time) ([]models.PaymentTransaction, error) {
			return []models.PaymentTransaction{
				localTxn("txn-1", "pi_1", "100.00", models.StatusCompleted, created),
			}, nil
		},
	}
	client := &fakeProcessor{
		listFunc: func(ctx context.Context, start, end time.Time) ([]processor.RemoteTransaction, error) {
			return []processor.RemoteTransaction{
				remoteTxn("pi_1", 9500, "succeeded", created),
			}, nil
		},
	}
	svc := newTestService(store, client, newRecordingSink())

	health := svc.GetReconciliationHealth(context.Background())

	assert.Equal(t, HealthWarning, health.Status)
	assert.Equal(t, 1, health.RecentDiscrepancies)
}

func TestGetReconciliationHealth_UsesConfiguredWindow(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeProcessor{}, newRecordingSink())

	svc.GetReconciliationHealth(context.Background())

	windows := store.recordedWindows()
	require.Len(t, windows, 1)
	assert.Equal(t, testNow, windows[0].end)
	assert.Equal(t, testNow.Add(-time.Hour), windows[0].start)
}

// TestGetReconciliationHealth_Singleflight verifies overlapping callers share
// one computation instead of stacking probes.
func TestGetReconciliationHealth_Singleflight(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once

	store := &fakeStore{
		countFunc: func(ctx context.Context) (int64, error) {
			calls.Add(1)
			once.Do(func() { close(entered) })
			<-release
			return 0, nil
		},
	}
	svc := newTestService(store, &fakeProcessor{}, newRecordingSink())

	const callers = 3
	var wg sync.WaitGroup
	results := make([]*Health, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = svc.GetReconciliationHealth(context.Background())
	}()
	<-entered

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.GetReconciliationHealth(context.Background())
		}(i)
	}

	// Give the followers a moment to join the in-flight computation.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := 1; i < callers; i++ {
		assert.Same(t, results[0], results[i])
	}
}
