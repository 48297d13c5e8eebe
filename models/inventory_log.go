package models

import (
	"time"

	"github.com/google/uuid"
)

type ChangeType string

const (
	ChangeTypeSale       ChangeType = "sale"
	ChangeTypeRestock    ChangeType = "restock"
	ChangeTypeAdjustment ChangeType = "adjustment"
	ChangeTypeReturn     ChangeType = "return"
)

// InventoryLog is an append-only audit record: one row per product per
// stock-affecting event. Rows are never updated or deleted.
type InventoryLog struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_inventory_logs_product_created" json:"product_id"`
	OrderID        *uuid.UUID `gorm:"type:uuid;index" json:"order_id,omitempty"`
	ChangeType     ChangeType `gorm:"type:varchar(20);not null" json:"change_type"`
	QuantityChange int        `gorm:"not null" json:"quantity_change"`
	PreviousStock  int        `gorm:"not null" json:"previous_stock"`
	NewStock       int        `gorm:"not null" json:"new_stock"`
	Reason         string     `json:"reason,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index:idx_inventory_logs_product_created" json:"created_at"`
}

// StockMovement is the per-product before/after snapshot returned by a
// decrement so callers can log and report what actually changed.
type StockMovement struct {
	ProductID     uuid.UUID `json:"product_id"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
}

type RestockRequest struct {
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Reason   string `json:"reason"`
}

type AdjustStockRequest struct {
	QuantityChange int    `json:"quantity_change" binding:"required"`
	Reason         string `json:"reason"`
}
