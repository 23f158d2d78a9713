package reconcile

import (
	"testing"
	"time"

	"payment-reconciler/feature/ledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nLocal(id, key string, created time.Time) NormalizedLocal {
	return NormalizedLocal{ID: id, Key: key, Amount: 1000, Currency: "usd", Status: models.StatusCompleted, CreatedAt: created}
}

func nRemote(id string, created time.Time) NormalizedRemote {
	return NormalizedRemote{ID: id, Key: id, Amount: 1000, Currency: "usd", Status: "succeeded", CreatedAt: created}
}

func TestMatch_PairsByCorrelationKey(t *testing.T) {
	locals := []NormalizedLocal{
		nLocal("txn-1", "pi_1", testNow),
		nLocal("txn-2", "pi_2", testNow),
	}
	remotes := []NormalizedRemote{
		nRemote("pi_2", testNow),
		nRemote("pi_1", testNow),
	}

	result := Match(locals, remotes)

	require.Len(t, result.Pairs, 2)
	assert.Equal(t, "txn-1", result.Pairs[0].Local.ID)
	assert.Equal(t, "pi_1", result.Pairs[0].Remote.ID)
	assert.Equal(t, "txn-2", result.Pairs[1].Local.ID)
	assert.Equal(t, "pi_2", result.Pairs[1].Remote.ID)
	assert.Empty(t, result.LocalOrphans)
	assert.Empty(t, result.RemoteOrphans)
}

// TestMatch_Partition verifies every record lands in exactly one bucket.
func TestMatch_Partition(t *testing.T) {
	locals := []NormalizedLocal{
		nLocal("txn-1", "pi_1", testNow),
		nLocal("txn-2", "pi_missing", testNow),
		nLocal("txn-3", "", testNow),
	}
	remotes := []NormalizedRemote{
		nRemote("pi_1", testNow),
		nRemote("pi_extra", testNow),
	}

	result := Match(locals, remotes)

	assert.Equal(t, len(locals), len(result.Pairs)+len(result.LocalOrphans))
	assert.Equal(t, len(remotes), len(result.Pairs)+len(result.RemoteOrphans))

	seen := make(map[string]int)
	for _, p := range result.Pairs {
		seen[p.Local.ID]++
	}
	for _, o := range result.LocalOrphans {
		seen[o.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "local %s appears %d times", id, n)
	}
}

func TestMatch_KeylessLocalIsOrphan(t *testing.T) {
	locals := []NormalizedLocal{nLocal("txn-1", "", testNow)}
	remotes := []NormalizedRemote{nRemote("pi_1", testNow)}

	result := Match(locals, remotes)

	assert.Empty(t, result.Pairs)
	require.Len(t, result.LocalOrphans, 1)
	assert.Equal(t, "txn-1", result.LocalOrphans[0].ID)
	require.Len(t, result.RemoteOrphans, 1)
	assert.Equal(t, "pi_1", result.RemoteOrphans[0].ID)
}

// TestMatch_DuplicateLocalKeys verifies the positional tie-break: the first
// unmatched local in input order claims the remote, later ones orphan.
func TestMatch_DuplicateLocalKeys(t *testing.T) {
	locals := []NormalizedLocal{
		nLocal("txn-old", "pi_1", testNow.Add(-time.Hour)),
		nLocal("txn-new", "pi_1", testNow),
	}
	remotes := []NormalizedRemote{nRemote("pi_1", testNow)}

	result := Match(locals, remotes)

	require.Len(t, result.Pairs, 1)
	assert.Equal(t, "txn-old", result.Pairs[0].Local.ID)
	require.Len(t, result.LocalOrphans, 1)
	assert.Equal(t, "txn-new", result.LocalOrphans[0].ID)
	assert.Empty(t, result.RemoteOrphans)
}

// TestMatch_DuplicateRemoteKeys verifies the first remote occurrence wins and
// the duplicate orphans.
func TestMatch_DuplicateRemoteKeys(t *testing.T) {
	locals := []NormalizedLocal{nLocal("txn-1", "pi_1", testNow)}
	first := nRemote("pi_1", testNow.Add(-time.Hour))
	second := NormalizedRemote{ID: "pi_1_retry", Key: "pi_1", Amount: 1000, Currency: "usd", Status: "succeeded", CreatedAt: testNow}
	remotes := []NormalizedRemote{first, second}

	result := Match(locals, remotes)

	require.Len(t, result.Pairs, 1)
	assert.Equal(t, "pi_1", result.Pairs[0].Remote.ID)
	require.Len(t, result.RemoteOrphans, 1)
	assert.Equal(t, "pi_1_retry", result.RemoteOrphans[0].ID)
}

// TestMatch_Deterministic verifies repeated runs over the same normalized
// inputs produce identical output.
func TestMatch_Deterministic(t *testing.T) {
	locals := []NormalizedLocal{
		nLocal("txn-1", "pi_1", testNow.Add(-3*time.Hour)),
		nLocal("txn-2", "pi_1", testNow.Add(-2*time.Hour)),
		nLocal("txn-3", "pi_3", testNow.Add(-time.Hour)),
		nLocal("txn-4", "", testNow),
	}
	remotes := []NormalizedRemote{
		nRemote("pi_1", testNow.Add(-3*time.Hour)),
		nRemote("pi_3", testNow.Add(-time.Hour)),
		nRemote("pi_5", testNow),
	}

	first := Match(locals, remotes)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Match(locals, remotes))
	}
}
