package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentTransaction records one attempted payment for an order. A row is
// immutable once its status is terminal (completed, failed, refunded).
type PaymentTransaction struct {
	ID                    uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID               uuid.UUID     `gorm:"type:uuid;not null;index" json:"order_id"`
	TransactionID         string        `gorm:"uniqueIndex;not null" json:"transaction_id"`
	Amount                float64       `gorm:"not null" json:"amount"`
	Currency              string        `gorm:"type:varchar(10);not null" json:"currency"`
	PaymentMethod         PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	Status                PaymentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	StripePaymentIntentID *string       `json:"stripe_payment_intent_id,omitempty"`
	StripeChargeID        *string       `json:"stripe_charge_id,omitempty"`
	FailureReason         *string       `json:"failure_reason,omitempty"`
	CreatedAt             time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// PaymentIntent is the provider-neutral result of creating a payment intent.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}
