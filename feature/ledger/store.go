package ledger

import (
	"context"
	"fmt"
	"time"

	"payment-reconciler/feature/ledger/models"

	"gorm.io/gorm"
)

// Store defines access to the payment ledger.
type Store interface {
	// ListTransactions returns all transactions created within [start, end),
	// ordered by creation time then id.
	ListTransactions(ctx context.Context, start, end time.Time) ([]models.PaymentTransaction, error)
	// ListPendingTransactions returns all transactions still in pending,
	// ordered by creation time then id.
	ListPendingTransactions(ctx context.Context) ([]models.PaymentTransaction, error)
	// UpdateTransaction applies the given column updates to one row.
	UpdateTransaction(ctx context.Context, id string, fields map[string]any) error
	// CountPendingTransactions returns the number of pending transactions.
	CountPendingTransactions(ctx context.Context) (int64, error)
}

// NewStore creates a gorm-backed Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

type gormStore struct {
	db *gorm.DB
}

func (s *gormStore) ListTransactions(ctx context.Context, start, end time.Time) ([]models.PaymentTransaction, error) {
	var txns []models.PaymentTransaction
	err := s.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at, id").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (s *gormStore) ListPendingTransactions(ctx context.Context) ([]models.PaymentTransaction, error) {
	var txns []models.PaymentTransaction
	err := s.db.WithContext(ctx).
		Where("status = ?", models.StatusPending).
		Order("created_at, id").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	return txns, nil
}

func (s *gormStore) UpdateTransaction(ctx context.Context, id string, fields map[string]any) error {
	result := s.db.WithContext(ctx).
		Model(&models.PaymentTransaction{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("transaction %s not found", id)
	}
	return nil
}

func (s *gormStore) CountPendingTransactions(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.PaymentTransaction{}).
		Where("status = ?", models.StatusPending).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pending transactions: %w", err)
	}
	return count, nil
}
