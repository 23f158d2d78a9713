package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	localOrphanReason  = "No corresponding remote transaction found"
	remoteOrphanReason = "No corresponding local transaction found"

	orphanActionWriteOff = "Manual review - consider write-off"
	orphanActionRecheck  = "Re-check on next run"
)

// OrphanPayment is a record with no counterpart on the other side of the
// reconciliation.
type OrphanPayment struct {
	TransactionID string          `json:"transactionId,omitempty"`
	StripeID      string          `json:"stripeId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	Reason        string          `json:"reason"`
	Action        string          `json:"action"`
}

// OrphanDetector wraps unmatched records with a reason and a suggested
// follow-up action.
type OrphanDetector struct {
	pendingTimeout time.Duration
	now            func() time.Time
}

// NewOrphanDetector creates an OrphanDetector from engine configuration.
func NewOrphanDetector(cfg Config) *OrphanDetector {
	return &OrphanDetector{
		pendingTimeout: cfg.PendingTimeout(),
		now:            time.Now,
	}
}

// DetectLocal wraps every unmatched local record. Partition invariant: one
// orphan per unmatched record, no more, no less.
func (d *OrphanDetector) DetectLocal(locals []NormalizedLocal) []OrphanPayment {
	out := make([]OrphanPayment, 0, len(locals))
	for _, l := range locals {
		out = append(out, OrphanPayment{
			TransactionID: l.ID,
			StripeID:      l.Key,
			Amount:        majorUnits(l.Amount),
			Currency:      l.Currency,
			Status:        string(l.Status),
			CreatedAt:     l.CreatedAt,
			Reason:        localOrphanReason,
			Action:        d.actionForAge(l.CreatedAt),
		})
	}
	return out
}

// DetectRemote wraps every unmatched remote record.
func (d *OrphanDetector) DetectRemote(remotes []NormalizedRemote) []OrphanPayment {
	out := make([]OrphanPayment, 0, len(remotes))
	for _, r := range remotes {
		out = append(out, OrphanPayment{
			StripeID:  r.ID,
			Amount:    majorUnits(r.Amount),
			Currency:  r.Currency,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			Reason:    remoteOrphanReason,
			Action:    d.actionForAge(r.CreatedAt),
		})
	}
	return out
}

// actionForAge suggests the follow-up by record age against the pending
// timeout: old orphans are unlikely to resolve themselves.
func (d *OrphanDetector) actionForAge(createdAt time.Time) string {
	if d.now().Sub(createdAt) > d.pendingTimeout {
		return orphanActionWriteOff
	}
	return orphanActionRecheck
}
