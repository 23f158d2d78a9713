package reconcile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"payment-reconciler/core/processor"
	"payment-reconciler/core/utils"
	"payment-reconciler/feature/ledger/models"

	"github.com/shopspring/decimal"
)

// metadataIntentKey is the metadata fallback carrying the processor reference
// when the dedicated ledger column is empty.
const metadataIntentKey = "payment_intent_id"

// NormalizedLocal is a ledger row reduced to the comparable shape the
// downstream stages operate on. Amounts are minor units, currency is lower
// case, and Key is the correlation key (empty when the row has none).
type NormalizedLocal struct {
	ID          string
	Key         string
	Amount      int64
	Currency    string
	Status      models.TransactionStatus
	CreatedAt   time.Time
	Transaction models.PaymentTransaction
}

// NormalizedRemote is a processor record reduced to the comparable shape.
// Key is always the processor id.
type NormalizedRemote struct {
	ID          string
	Key         string
	Amount      int64
	Currency    string
	Status      string
	CreatedAt   time.Time
	Transaction processor.RemoteTransaction
}

// NormalizationError reports a structurally malformed input record. Business
// mismatches are never normalization errors; they become discrepancies.
type NormalizationError struct {
	Side   string
	ID     string
	Field  string
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("cannot normalize %s transaction %q: field %s %s", e.Side, e.ID, e.Field, e.Reason)
}

// NormalizeLocal converts ledger rows into normalized records ordered by
// creation time then id.
func NormalizeLocal(txns []models.PaymentTransaction) ([]NormalizedLocal, error) {
	out := make([]NormalizedLocal, 0, len(txns))
	for _, txn := range txns {
		if txn.ID == "" {
			return nil, &NormalizationError{Side: "local", ID: txn.ID, Field: "id", Reason: "is empty"}
		}
		out = append(out, NormalizedLocal{
			ID:          txn.ID,
			Key:         localCorrelationKey(txn),
			Amount:      minorUnits(txn.Amount),
			Currency:    strings.ToLower(txn.Currency),
			Status:      txn.Status,
			CreatedAt:   txn.CreatedAt,
			Transaction: txn,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// NormalizeRemote converts processor records into normalized records ordered
// by creation time then id.
func NormalizeRemote(txns []processor.RemoteTransaction) ([]NormalizedRemote, error) {
	out := make([]NormalizedRemote, 0, len(txns))
	for _, txn := range txns {
		if txn.ID == "" {
			return nil, &NormalizationError{Side: "stripe", ID: txn.ID, Field: "id", Reason: "is empty"}
		}
		if txn.Amount < 0 {
			return nil, &NormalizationError{Side: "stripe", ID: txn.ID, Field: "amount", Reason: "is negative"}
		}
		if txn.Created.Unix() <= 0 {
			return nil, &NormalizationError{Side: "stripe", ID: txn.ID, Field: "created", Reason: "is missing"}
		}
		out = append(out, NormalizedRemote{
			ID:          txn.ID,
			Key:         txn.ID,
			Amount:      txn.Amount,
			Currency:    strings.ToLower(txn.Currency),
			Status:      txn.Status,
			CreatedAt:   txn.Created,
			Transaction: txn,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// localCorrelationKey resolves the processor reference for a ledger row: the
// dedicated column first, then the metadata fallback.
func localCorrelationKey(txn models.PaymentTransaction) string {
	if txn.StripePaymentIntentID != nil && *txn.StripePaymentIntentID != "" {
		return *txn.StripePaymentIntentID
	}
	if v, ok := txn.Metadata[metadataIntentKey]; ok {
		return utils.ToString(v)
	}
	return ""
}

// minorUnits converts a major-unit decimal amount to minor units, rounding
// halves away from zero.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// majorUnits converts minor units back to a major-unit decimal.
func majorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
