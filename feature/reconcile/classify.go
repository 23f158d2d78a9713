package reconcile

import (
	"fmt"
	"time"

	"payment-reconciler/core/utils"
	"payment-reconciler/feature/ledger/models"

	"github.com/shopspring/decimal"
)

// DiscrepancyType identifies what differs between the two ledgers.
type DiscrepancyType string

const (
	DiscrepancyAmountMismatch   DiscrepancyType = "amount_mismatch"
	DiscrepancyStatusMismatch   DiscrepancyType = "status_mismatch"
	DiscrepancyMissingLocal     DiscrepancyType = "missing_local"
	DiscrepancyMissingStripe    DiscrepancyType = "missing_stripe"
	DiscrepancyMetadataMismatch DiscrepancyType = "metadata_mismatch"
)

// Severity ranks how urgently a discrepancy needs attention.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Discrepancy describes one divergence between a matched pair of records.
// Discrepancies are generated fresh each run and never persisted by the
// engine itself.
type Discrepancy struct {
	Type          DiscrepancyType  `json:"type"`
	Severity      Severity         `json:"severity"`
	TransactionID string           `json:"transactionId"`
	StripeID      string           `json:"stripeId,omitempty"`
	LocalAmount   *decimal.Decimal `json:"localAmount,omitempty"`
	StripeAmount  *decimal.Decimal `json:"stripeAmount,omitempty"`
	LocalStatus   string           `json:"localStatus,omitempty"`
	StripeStatus  string           `json:"stripeStatus,omitempty"`
	Description   string           `json:"description"`
	Action        string           `json:"action"`
	DetectedAt    time.Time        `json:"detectedAt"`
}

// outcome is the settlement class a status maps into.
type outcome int

const (
	outcomeIndeterminate outcome = iota
	outcomeSuccess
	outcomeFailure
	outcomePending
)

// localOutcome maps the ledger status vocabulary.
func localOutcome(status models.TransactionStatus) outcome {
	switch status {
	case models.StatusCompleted:
		return outcomeSuccess
	case models.StatusFailed, models.StatusCancelled:
		return outcomeFailure
	case models.StatusPending:
		return outcomePending
	default:
		return outcomeIndeterminate
	}
}

// remoteOutcome maps the processor status vocabulary. Unknown statuses are
// indeterminate; the engine never guesses on vocabulary it does not know.
func remoteOutcome(status string) outcome {
	switch status {
	case "succeeded":
		return outcomeSuccess
	case "payment_failed", "failed", "canceled":
		return outcomeFailure
	case "processing", "pending", "requires_payment_method", "requires_confirmation",
		"requires_action", "requires_capture":
		return outcomePending
	default:
		return outcomeIndeterminate
	}
}

// Classifier derives discrepancies from matched pairs.
type Classifier struct {
	tolerance      int64
	pendingTimeout time.Duration
	metadataFields []string
	now            func() time.Time
}

// NewClassifier creates a Classifier from engine configuration.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{
		tolerance:      cfg.Tolerance(),
		pendingTimeout: cfg.PendingTimeout(),
		metadataFields: cfg.MetadataFieldList(),
		now:            time.Now,
	}
}

// Classify returns every discrepancy for the pair. Checks are independent;
// a single pair can produce several discrepancies.
func (c *Classifier) Classify(pair MatchedPair) []Discrepancy {
	now := c.now()

	var found []Discrepancy
	if d, ok := c.checkAmount(pair, now); ok {
		found = append(found, d)
	}
	if d, ok := c.checkStatus(pair, now); ok {
		found = append(found, d)
	}
	found = append(found, c.checkMetadata(pair, now)...)
	return found
}

func (c *Classifier) checkAmount(pair MatchedPair, now time.Time) (Discrepancy, bool) {
	diff := pair.Local.Amount - pair.Remote.Amount
	if diff < 0 {
		diff = -diff
	}
	if diff <= c.tolerance {
		return Discrepancy{}, false
	}

	localAmount := majorUnits(pair.Local.Amount)
	remoteAmount := majorUnits(pair.Remote.Amount)
	return Discrepancy{
		Type:          DiscrepancyAmountMismatch,
		Severity:      SeverityHigh,
		TransactionID: pair.Local.ID,
		StripeID:      pair.Remote.ID,
		LocalAmount:   &localAmount,
		StripeAmount:  &remoteAmount,
		Description:   fmt.Sprintf("amount: local=%s stripe=%s", localAmount, remoteAmount),
		Action:        "Verify the charged amount with the payment processor",
		DetectedAt:    now,
	}, true
}

func (c *Classifier) checkStatus(pair MatchedPair, now time.Time) (Discrepancy, bool) {
	lo := localOutcome(pair.Local.Status)
	ro := remoteOutcome(pair.Remote.Status)

	if !c.statusesDiverge(pair, lo, ro, now) {
		return Discrepancy{}, false
	}

	severity := SeverityMedium
	if (lo == outcomeSuccess && ro == outcomeFailure) || (lo == outcomeFailure && ro == outcomeSuccess) {
		severity = SeverityCritical
	}
	return Discrepancy{
		Type:          DiscrepancyStatusMismatch,
		Severity:      severity,
		TransactionID: pair.Local.ID,
		StripeID:      pair.Remote.ID,
		LocalStatus:   string(pair.Local.Status),
		StripeStatus:  pair.Remote.Status,
		Description:   fmt.Sprintf("status: local=%s stripe=%s", pair.Local.Status, pair.Remote.Status),
		Action:        "Review the transaction status with the payment processor",
		DetectedAt:    now,
	}, true
}

// statusesDiverge applies the cross-vocabulary compatibility rules: equal
// classes agree; indeterminate agrees with everything; a pending local row
// agrees with any remote class until it outlives the pending timeout, after
// which a settled remote outcome should have been synced already.
func (c *Classifier) statusesDiverge(pair MatchedPair, lo, ro outcome, now time.Time) bool {
	if lo == ro {
		return false
	}
	if lo == outcomeIndeterminate || ro == outcomeIndeterminate {
		return false
	}
	if lo == outcomePending {
		if now.Sub(pair.Local.CreatedAt) <= c.pendingTimeout {
			return false
		}
		return ro == outcomeSuccess || ro == outcomeFailure
	}
	return true
}

func (c *Classifier) checkMetadata(pair MatchedPair, now time.Time) []Discrepancy {
	var found []Discrepancy
	for _, field := range c.metadataFields {
		localVal, remoteVal, comparable := metadataValues(pair, field)
		if !comparable || localVal == remoteVal {
			continue
		}
		found = append(found, Discrepancy{
			Type:          DiscrepancyMetadataMismatch,
			Severity:      SeverityLow,
			TransactionID: pair.Local.ID,
			StripeID:      pair.Remote.ID,
			Description:   fmt.Sprintf("%s: local=%s stripe=%s", field, localVal, remoteVal),
			Action:        "Review metadata synchronization between the ledger and the processor",
			DetectedAt:    now,
		})
	}
	return found
}

// metadataValues resolves one configured comparison field. The field
// "currency" compares the canonical currencies; any other field compares
// metadata values and only when both sides carry the field.
func metadataValues(pair MatchedPair, field string) (string, string, bool) {
	if field == "currency" {
		return pair.Local.Currency, pair.Remote.Currency, true
	}

	localRaw, ok := pair.Local.Transaction.Metadata[field]
	if !ok {
		return "", "", false
	}
	remoteVal, ok := pair.Remote.Transaction.Metadata[field]
	if !ok {
		return "", "", false
	}
	return utils.ToString(localRaw), remoteVal, true
}
