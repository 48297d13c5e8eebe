package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutItem is the (product, quantity) pair availability checks and stock
// decrements operate on.
type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// UnavailableItem explains why a requested product cannot be fulfilled.
type UnavailableItem struct {
	ProductID      uuid.UUID `json:"product_id"`
	Reason         string    `json:"reason"`
	AvailableStock *int      `json:"available_stock,omitempty"`
	Requested      *int      `json:"requested,omitempty"`
}

// AvailabilityResult is the outcome of checking a set of items against
// current stock.
type AvailabilityResult struct {
	AllAvailable bool              `json:"all_available"`
	Unavailable  []UnavailableItem `json:"unavailable,omitempty"`
}

// CheckoutSession is the persisted quote produced at checkout-session
// creation. It is advisory: everything is re-validated at confirm time.
type CheckoutSession struct {
	SessionID       string        `json:"session_id"`
	IdentityKey     string        `json:"identity_key"`
	Items           []CartItem    `json:"items"`
	Email           string        `json:"email,omitempty"`
	FirstName       string        `json:"first_name,omitempty"`
	LastName        string        `json:"last_name,omitempty"`
	ShippingAddress *Address      `json:"shipping_address,omitempty"`
	BillingAddress  *Address      `json:"billing_address,omitempty"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	Subtotal        float64       `json:"subtotal"`
	ShippingCost    float64       `json:"shipping_cost"`
	Total           float64       `json:"total"`
	PaymentIntentID string        `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

type CreateCheckoutRequest struct {
	Email           string        `json:"email" binding:"omitempty,email"`
	FirstName       string        `json:"first_name"`
	LastName        string        `json:"last_name"`
	ShippingAddress *Address      `json:"shipping_address"`
	BillingAddress  *Address      `json:"billing_address"`
	PaymentMethod   PaymentMethod `json:"payment_method" binding:"required,oneof=stripe cash_on_delivery"`
}

type CreateCheckoutResponse struct {
	CheckoutSessionID string        `json:"checkout_session_id"`
	PaymentMethod     PaymentMethod `json:"payment_method"`
	ClientSecret      string        `json:"client_secret,omitempty"`
	Subtotal          float64       `json:"subtotal"`
	ShippingCost      float64       `json:"shipping_cost"`
	Total             float64       `json:"total"`
}

type ConfirmCheckoutRequest struct {
	CheckoutSessionID string        `json:"checkout_session_id" binding:"required"`
	Email             string        `json:"email" binding:"omitempty,email"`
	FirstName         string        `json:"first_name"`
	LastName          string        `json:"last_name"`
	PaymentMethod     PaymentMethod `json:"payment_method" binding:"required,oneof=stripe cash_on_delivery"`
	ShippingAddress   *Address      `json:"shipping_address" binding:"required"`
	BillingAddress    *Address      `json:"billing_address"`
}
