package services

// Error kinds returned to clients alongside the human-readable message.
// They are stable machine-readable identifiers; the message may change.
const (
	KindEmptyCart              = "empty_cart"
	KindStockUnavailable       = "stock_unavailable"
	KindInsufficientStock      = "insufficient_stock"
	KindPaymentGateway         = "payment_gateway_error"
	KindInvalidCheckoutSession = "invalid_checkout_session"
	KindNotFound               = "not_found"
	KindInvalidInput           = "invalid_input"
	KindInternal               = "internal_error"
)

// ServiceError is a typed error with an HTTP status code, a stable kind and
// optional structured details. Internal causes are logged by the service and
// never placed here.
type ServiceError struct {
	StatusCode int
	Kind       string
	Message    string
	Details    interface{}
}

func (e *ServiceError) Error() string {
	return e.Message
}
