package repository

import (
	"context"

	"storefront-backend/models"

	"gorm.io/gorm"
)

// CheckoutRepository commits a confirmed checkout. Order row, stock
// decrements, inventory log entries and the payment transaction land in one
// database transaction: either the order exists with its inventory accounted
// for, or nothing changed at all.
type CheckoutRepository interface {
	CommitOrder(ctx context.Context, order *models.Order, txn *models.PaymentTransaction) ([]models.StockMovement, error)
}

// GormCheckoutRepository implements CheckoutRepository using GORM.
type GormCheckoutRepository struct {
	db *gorm.DB
}

// NewGormCheckoutRepository creates a new GormCheckoutRepository.
func NewGormCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &GormCheckoutRepository{db: db}
}

func (r *GormCheckoutRepository) CommitOrder(ctx context.Context, order *models.Order, txn *models.PaymentTransaction) ([]models.StockMovement, error) {
	items := make([]models.CheckoutItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, models.CheckoutItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	var movements []models.StockMovement
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		var txErr error
		movements, txErr = decrementItemsTx(tx, items, &order.ID, "Order placed")
		if txErr != nil {
			return txErr
		}

		return tx.Create(txn).Error
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}
