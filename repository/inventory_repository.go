package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrProductNotFound is returned when a stock operation references a
	// product that does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrStockBelowZero is returned when an adjustment would drive stock
	// negative.
	ErrStockBelowZero = errors.New("adjustment would drive stock below zero")
)

// InsufficientStockError is returned when a decrement asks for more units
// than a product has. It names the offending product so callers can surface
// a useful failure.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (%s): available=%d requested=%d",
		e.ProductName, e.ProductID, e.Available, e.Requested)
}

// InventoryRepository is the ledger: authoritative stock counters plus the
// append-only inventory log. Every stock mutation appends exactly one log row
// in the same transaction that moves the counter.
type InventoryRepository interface {
	CheckAvailability(ctx context.Context, items []models.CheckoutItem) (*models.AvailabilityResult, error)
	DecrementStock(ctx context.Context, items []models.CheckoutItem, orderID uuid.UUID) ([]models.StockMovement, error)
	AdjustStock(ctx context.Context, productID uuid.UUID, changeType models.ChangeType, quantityChange int, orderID *uuid.UUID, reason string) (*models.StockMovement, error)
	AppendLog(ctx context.Context, entry *models.InventoryLog) error
	ListLogs(ctx context.Context, productID uuid.UUID, page, limit int) ([]models.InventoryLog, int64, error)
}

// GormInventoryRepository implements InventoryRepository using GORM over
// Postgres. Row-level FOR UPDATE locks serialize concurrent decrements of
// the same product.
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository.
func NewGormInventoryRepository(db *gorm.DB) InventoryRepository {
	return &GormInventoryRepository{db: db}
}

// CheckAvailability is a pure read with no side effects, used both at quote
// time and again at confirm time.
func (r *GormInventoryRepository) CheckAvailability(ctx context.Context, items []models.CheckoutItem) (*models.AvailabilityResult, error) {
	result := &models.AvailabilityResult{AllAvailable: true}

	for _, item := range items {
		var product models.Product
		err := r.db.WithContext(ctx).First(&product, "id = ?", item.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result.AllAvailable = false
			result.Unavailable = append(result.Unavailable, models.UnavailableItem{
				ProductID: item.ProductID,
				Reason:    "not found",
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check stock for product=%s: %w", item.ProductID, err)
		}

		if product.Stock < item.Quantity {
			available := product.Stock
			requested := item.Quantity
			result.AllAvailable = false
			result.Unavailable = append(result.Unavailable, models.UnavailableItem{
				ProductID:      item.ProductID,
				Reason:         "insufficient stock",
				AvailableStock: &available,
				Requested:      &requested,
			})
		}
	}

	return result, nil
}

// DecrementStock subtracts stock for every item and appends one sale log row
// per product, all in a single transaction. A shortfall on any item rolls
// back the whole call.
func (r *GormInventoryRepository) DecrementStock(ctx context.Context, items []models.CheckoutItem, orderID uuid.UUID) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		movements, txErr = decrementItemsTx(tx, items, &orderID, "Order placed")
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// AdjustStock applies a signed stock change (restock, adjustment, return)
// and its log entry atomically. Stock can never go below zero.
func (r *GormInventoryRepository) AdjustStock(ctx context.Context, productID uuid.UUID, changeType models.ChangeType, quantityChange int, orderID *uuid.UUID, reason string) (*models.StockMovement, error) {
	var movement *models.StockMovement
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", productID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
		}
		if err != nil {
			return err
		}

		newStock := product.Stock + quantityChange
		if newStock < 0 {
			return fmt.Errorf("product %s: %w", productID, ErrStockBelowZero)
		}

		if err := tx.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
			"stock":        newStock,
			"is_available": newStock > 0,
		}).Error; err != nil {
			return err
		}

		entry := models.InventoryLog{
			ProductID:      productID,
			OrderID:        orderID,
			ChangeType:     changeType,
			QuantityChange: quantityChange,
			PreviousStock:  product.Stock,
			NewStock:       newStock,
			Reason:         reason,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		movement = &models.StockMovement{
			ProductID:     productID,
			PreviousStock: product.Stock,
			NewStock:      newStock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// AppendLog inserts a raw ledger entry without touching the stock counter.
func (r *GormInventoryRepository) AppendLog(ctx context.Context, entry *models.InventoryLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListLogs returns the ledger history for a product, newest first.
func (r *GormInventoryRepository) ListLogs(ctx context.Context, productID uuid.UUID, page, limit int) ([]models.InventoryLog, int64, error) {
	var logs []models.InventoryLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.InventoryLog{}).Where("product_id = ?", productID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// decrementItemsTx performs the ledger's core mutation inside an existing
// transaction: lock each product row, verify stock, subtract, append the sale
// log entry. Shared by DecrementStock and the checkout commit.
func decrementItemsTx(tx *gorm.DB, items []models.CheckoutItem, orderID *uuid.UUID, reason string) ([]models.StockMovement, error) {
	movements := make([]models.StockMovement, 0, len(items))

	for _, item := range items {
		var product models.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", item.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, ErrProductNotFound)
		}
		if err != nil {
			return nil, err
		}

		if product.Stock < item.Quantity {
			return nil, &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   item.Quantity,
			}
		}

		newStock := product.Stock - item.Quantity
		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
			"stock":        newStock,
			"is_available": newStock > 0,
		}).Error; err != nil {
			return nil, err
		}

		entry := models.InventoryLog{
			ProductID:      product.ID,
			OrderID:        orderID,
			ChangeType:     models.ChangeTypeSale,
			QuantityChange: -item.Quantity,
			PreviousStock:  product.Stock,
			NewStock:       newStock,
			Reason:         reason,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return nil, err
		}

		movements = append(movements, models.StockMovement{
			ProductID:     product.ID,
			PreviousStock: product.Stock,
			NewStock:      newStock,
		})
	}

	return movements, nil
}
