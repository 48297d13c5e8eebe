package models

import "time"

// OrderCreatedEvent is published (best-effort) after a checkout commits.
type OrderCreatedEvent struct {
	EventType     string        `json:"event_type"`
	OrderID       string        `json:"order_id"`
	OrderNumber   string        `json:"order_number"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Total         float64       `json:"total"`
	Timestamp     time.Time     `json:"timestamp"`
}

// OrderStatusChangedEvent is published (best-effort) after a status update.
type OrderStatusChangedEvent struct {
	EventType   string      `json:"event_type"`
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
}
