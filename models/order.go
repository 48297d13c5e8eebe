package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the five known order statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodStripe         PaymentMethod = "stripe"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// Address is a shipping or billing address snapshot frozen onto the order.
type Address struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	ZipCode string `json:"zip_code" binding:"required"`
	Country string `json:"country" binding:"required"`
}

// Order is the immutable financial record produced by a confirmed checkout.
// Everything except the two status columns and their timestamps is frozen at
// creation; Total = Subtotal + ShippingCost is computed once and never again.
type Order struct {
	ID                   uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber          string        `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerID           *uuid.UUID    `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerEmail        string        `gorm:"not null" json:"customer_email"`
	CustomerFirstName    string        `json:"customer_first_name"`
	CustomerLastName     string        `json:"customer_last_name"`
	Items                []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddress      Address       `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	BillingAddress       Address       `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`
	PaymentMethod        PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus        PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	OrderStatus          OrderStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"order_status"`
	PaymentTransactionID string        `json:"payment_transaction_id,omitempty"`
	Subtotal             float64       `gorm:"not null" json:"subtotal"`
	ShippingCost         float64       `gorm:"not null" json:"shipping_cost"`
	Total                float64       `gorm:"not null" json:"total"`
	ShippedAt            *time.Time    `json:"shipped_at,omitempty"`
	DeliveredAt          *time.Time    `json:"delivered_at,omitempty"`
	CancelledAt          *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt            time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// OrderItem is a line item with the product name and unit price snapshotted
// at confirmation time, so later catalog edits never rewrite order history.
type OrderItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	ProductName string    `gorm:"not null" json:"product_name"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	UnitPrice   float64   `gorm:"not null" json:"unit_price"`
	Subtotal    float64   `gorm:"not null" json:"subtotal"`
}

// OrderTracking is the public, PII-free view of an order's fulfillment state.
type OrderTracking struct {
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
	ShippedAt   *time.Time  `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time  `json:"delivered_at,omitempty"`
	CancelledAt *time.Time  `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
