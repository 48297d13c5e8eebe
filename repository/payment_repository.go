package repository

import (
	"context"

	"storefront-backend/models"

	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment transaction records.
type PaymentRepository interface {
	Create(ctx context.Context, txn *models.PaymentTransaction) error
	FindByTransactionID(ctx context.Context, transactionID string) (*models.PaymentTransaction, error)
	UpdateStatus(ctx context.Context, transactionID string, status models.PaymentStatus, failureReason *string) (*models.PaymentTransaction, error)
}

// GormPaymentRepository implements PaymentRepository using GORM.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository.
func NewGormPaymentRepository(db *gorm.DB) PaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Create(ctx context.Context, txn *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *GormPaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *GormPaymentRepository) UpdateStatus(ctx context.Context, transactionID string, status models.PaymentStatus, failureReason *string) (*models.PaymentTransaction, error) {
	updates := map[string]interface{}{"status": status}
	if failureReason != nil {
		updates["failure_reason"] = *failureReason
	}

	result := r.db.WithContext(ctx).
		Model(&models.PaymentTransaction{}).
		Where("transaction_id = ?", transactionID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.FindByTransactionID(ctx, transactionID)
}
