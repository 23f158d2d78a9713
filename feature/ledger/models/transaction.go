package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a ledger transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusCancelled TransactionStatus = "cancelled"
)

// Metadata is a JSON column holding free-form transaction annotations.
// It may carry payment_intent_id as a correlation fallback when the
// dedicated column is empty.
type Metadata map[string]any

// Value implements driver.Valuer.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}

	if len(raw) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(raw, m)
}

// PaymentTransaction represents one row of the local payment ledger.
// The reconciliation engine treats rows as read-only except for status and
// completed_at, which the pending sync may resolve.
type PaymentTransaction struct {
	ID                    string            `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	UserID                string            `gorm:"column:user_id;type:varchar(36)" json:"user_id"`
	Amount                decimal.Decimal   `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	Currency              string            `gorm:"column:currency;type:varchar(3)" json:"currency"`
	Status                TransactionStatus `gorm:"column:status;type:varchar(20)" json:"status"`
	StripePaymentIntentID *string           `gorm:"column:stripe_payment_intent_id;type:varchar(255);default:NULL" json:"stripe_payment_intent_id"`
	Description           string            `gorm:"column:description;type:varchar(500)" json:"description"`
	Metadata              Metadata          `gorm:"column:metadata;type:json" json:"metadata,omitempty"`
	CreatedAt             time.Time         `gorm:"column:created_at" json:"created_at"`
	CompletedAt           *time.Time        `gorm:"column:completed_at;default:NULL" json:"completed_at,omitempty"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
