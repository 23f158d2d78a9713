package ledger

import (
	"fmt"
	"strings"

	"payment-reconciler/core/database"
	"payment-reconciler/feature/ledger/models"

	"gorm.io/gorm"
)

// RequiredColumns lists the payment_transactions columns the engine reads
// or writes.
func RequiredColumns() []string {
	return []string{
		"id",
		"user_id",
		"amount",
		"currency",
		"status",
		"stripe_payment_intent_id",
		"description",
		"metadata",
		"created_at",
		"completed_at",
	}
}

// VerifySchema checks that the ledger table carries every required column.
// The table is owned by the payment service, so a missing column means this
// deployment points at the wrong database or an incompatible schema version.
func VerifySchema(db *gorm.DB) error {
	table := models.PaymentTransaction{}.TableName()

	missing, err := database.VerifyColumns(db, table, RequiredColumns())
	if err != nil {
		return fmt.Errorf("failed to verify ledger schema: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", table, strings.Join(missing, ", "))
	}
	return nil
}
