package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const checkoutSessionPrefix = "checkout_"

// EventPublisher publishes domain events after state changes. Publishing is
// best-effort: a failure is logged and never affects the committed order.
type EventPublisher interface {
	Publish(ctx context.Context, key string, message []byte) error
}

// CheckoutService orchestrates the two-phase checkout: a quote phase that
// reserves nothing, and a confirm phase that commits the order, the stock
// decrements, the inventory log entries and the payment transaction in a
// single database transaction.
type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, identity models.Identity, req *models.CreateCheckoutRequest) (*models.CreateCheckoutResponse, *ServiceError)
	ConfirmCheckout(ctx context.Context, identity models.Identity, req *models.ConfirmCheckoutRequest) (*models.Order, *ServiceError)
}

type checkoutServiceImpl struct {
	carts     repository.CartRepository
	sessions  repository.CheckoutSessionRepository
	checkouts repository.CheckoutRepository
	products  repository.ProductRepository
	users     repository.UserRepository
	inventory InventoryService
	gateway   PaymentGateway
	events    EventPublisher
	logger    *zap.Logger

	shippingCost float64
	currency     string
}

// NewCheckoutService creates a new CheckoutService. events may be nil, in
// which case no events are published.
func NewCheckoutService(
	carts repository.CartRepository,
	sessions repository.CheckoutSessionRepository,
	checkouts repository.CheckoutRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	inventory InventoryService,
	gateway PaymentGateway,
	events EventPublisher,
	logger *zap.Logger,
	shippingCost float64,
	currency string,
) CheckoutService {
	return &checkoutServiceImpl{
		carts:        carts,
		sessions:     sessions,
		checkouts:    checkouts,
		products:     products,
		users:        users,
		inventory:    inventory,
		gateway:      gateway,
		events:       events,
		logger:       logger,
		shippingCost: shippingCost,
		currency:     currency,
	}
}

// CreateCheckoutSession validates the cart against current stock, creates a
// payment intent for card payments and persists the quote. Stock is not
// reserved; everything is re-validated at confirmation.
func (s *checkoutServiceImpl) CreateCheckoutSession(ctx context.Context, identity models.Identity, req *models.CreateCheckoutRequest) (*models.CreateCheckoutResponse, *ServiceError) {
	cart, serr := s.loadCart(ctx, identity)
	if serr != nil {
		return nil, serr
	}
	if serr := s.checkItems(ctx, cart); serr != nil {
		return nil, serr
	}

	subtotal := cart.Total
	total := subtotal + s.shippingCost

	session := &models.CheckoutSession{
		SessionID:       newCheckoutSessionID(),
		IdentityKey:     identity.Key(),
		Items:           cart.Items,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        subtotal,
		ShippingCost:    s.shippingCost,
		Total:           total,
		CreatedAt:       time.Now().UTC(),
	}

	var clientSecret string
	if req.PaymentMethod == models.PaymentMethodStripe {
		intent, err := s.gateway.CreateIntent(ctx, total, s.currency, map[string]string{
			"checkout_session_id": session.SessionID,
		})
		if err != nil {
			s.logger.Error("Payment intent creation failed",
				zap.String("identity", identity.Key()),
				zap.Error(err))
			return nil, &ServiceError{StatusCode: 502, Kind: KindPaymentGateway, Message: "Payment provider rejected the request"}
		}
		session.PaymentIntentID = intent.ID
		clientSecret = intent.ClientSecret
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Error("Failed to persist checkout session",
			zap.String("checkout_session_id", session.SessionID),
			zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to create checkout session"}
	}

	s.logger.Info("Checkout session created",
		zap.String("checkout_session_id", session.SessionID),
		zap.String("identity", identity.Key()),
		zap.String("payment_method", string(req.PaymentMethod)),
		zap.Float64("total", total))

	return &models.CreateCheckoutResponse{
		CheckoutSessionID: session.SessionID,
		PaymentMethod:     req.PaymentMethod,
		ClientSecret:      clientSecret,
		Subtotal:          subtotal,
		ShippingCost:      s.shippingCost,
		Total:             total,
	}, nil
}

// ConfirmCheckout turns the cart into an immutable order. Availability is
// re-checked first, but the transaction's row locks are what actually
// guarantee stock never goes negative under concurrent confirmations.
func (s *checkoutServiceImpl) ConfirmCheckout(ctx context.Context, identity models.Identity, req *models.ConfirmCheckoutRequest) (*models.Order, *ServiceError) {
	cart, serr := s.loadCart(ctx, identity)
	if serr != nil {
		return nil, serr
	}

	session, serr := s.resolveSession(ctx, identity, req.CheckoutSessionID)
	if serr != nil {
		return nil, serr
	}

	if req.ShippingAddress == nil {
		return nil, &ServiceError{StatusCode: 400, Kind: KindInvalidInput, Message: "Shipping address is required"}
	}

	if serr := s.checkItems(ctx, cart); serr != nil {
		return nil, serr
	}

	email, firstName, lastName, serr := s.resolveCustomer(ctx, identity, req)
	if serr != nil {
		return nil, serr
	}

	billing := req.BillingAddress
	if billing == nil {
		billing = req.ShippingAddress
	}

	productIDs := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	byID, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error("Failed to load products for order", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to confirm checkout"}
	}

	orderID := uuid.New()
	orderNumber := newOrderNumber()

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		name := "Product"
		if p, ok := byID[ci.ProductID]; ok {
			name = p.Name
		}
		items = append(items, models.OrderItem{
			OrderID:     orderID,
			ProductID:   ci.ProductID,
			ProductName: name,
			Quantity:    ci.Quantity,
			UnitPrice:   ci.UnitPrice,
			Subtotal:    ci.Subtotal,
		})
	}

	subtotal := cart.Total
	total := subtotal + s.shippingCost

	order := &models.Order{
		ID:                orderID,
		OrderNumber:       orderNumber,
		CustomerEmail:     email,
		CustomerFirstName: firstName,
		CustomerLastName:  lastName,
		Items:             items,
		ShippingAddress:   *req.ShippingAddress,
		BillingAddress:    *billing,
		PaymentMethod:     req.PaymentMethod,
		PaymentStatus:     models.PaymentStatusPending,
		OrderStatus:       models.OrderStatusPending,
		Subtotal:          subtotal,
		ShippingCost:      s.shippingCost,
		Total:             total,
	}
	if userID, ok := identity.UserID(); ok {
		order.CustomerID = &userID
	}

	txn := &models.PaymentTransaction{
		OrderID:       orderID,
		Amount:        total,
		Currency:      s.currency,
		PaymentMethod: req.PaymentMethod,
	}
	switch req.PaymentMethod {
	case models.PaymentMethodStripe:
		order.PaymentStatus = models.PaymentStatusProcessing
		txn.Status = models.PaymentStatusProcessing
		if session.PaymentIntentID != "" {
			txn.TransactionID = session.PaymentIntentID
			intentID := session.PaymentIntentID
			txn.StripePaymentIntentID = &intentID
		} else {
			txn.TransactionID = fmt.Sprintf("pi_%d", time.Now().UnixMilli())
		}
		order.PaymentTransactionID = txn.TransactionID
	case models.PaymentMethodCashOnDelivery:
		txn.Status = models.PaymentStatusPending
		txn.TransactionID = "cod_" + orderNumber
	}

	movements, err := s.checkouts.CommitOrder(ctx, order, txn)
	if err != nil {
		return nil, s.commitError(orderNumber, err)
	}

	s.logger.Info("Order committed",
		zap.String("order_number", orderNumber),
		zap.String("identity", identity.Key()),
		zap.Float64("total", total),
		zap.Int("stock_movements", len(movements)))

	// The order is committed; everything below is cleanup and must not fail
	// the request.
	cart.Items = []models.CartItem{}
	cart.Recalculate()
	if err := s.carts.Save(ctx, identity, cart); err != nil {
		s.logger.Warn("Failed to empty cart after checkout",
			zap.String("order_number", orderNumber),
			zap.Error(err))
	}

	if err := s.sessions.Delete(ctx, session.SessionID); err != nil {
		s.logger.Warn("Failed to delete checkout session",
			zap.String("checkout_session_id", session.SessionID),
			zap.Error(err))
	}

	s.publishOrderCreated(ctx, order)

	return order, nil
}

func (s *checkoutServiceImpl) loadCart(ctx context.Context, identity models.Identity) (*models.Cart, *ServiceError) {
	if identity.IsZero() {
		return nil, &ServiceError{StatusCode: 400, Kind: KindInvalidInput, Message: "Missing cart identity"}
	}

	cart, err := s.carts.Get(ctx, identity)
	if err != nil {
		s.logger.Error("Failed to load cart for checkout",
			zap.String("identity", identity.Key()),
			zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to load cart"}
	}
	if cart.IsEmpty() {
		return nil, &ServiceError{StatusCode: 400, Kind: KindEmptyCart, Message: "Cart is empty"}
	}
	return cart, nil
}

func (s *checkoutServiceImpl) checkItems(ctx context.Context, cart *models.Cart) *ServiceError {
	items := make([]models.CheckoutItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		items = append(items, models.CheckoutItem{ProductID: ci.ProductID, Quantity: ci.Quantity})
	}

	result, err := s.inventory.CheckAvailability(ctx, items)
	if err != nil {
		return &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to check product availability"}
	}
	if !result.AllAvailable {
		return &ServiceError{
			StatusCode: 400,
			Kind:       KindStockUnavailable,
			Message:    "Some products are out of stock or unavailable",
			Details:    result.Unavailable,
		}
	}
	return nil
}

// resolveSession validates the session id format, loads the persisted quote
// and checks that the caller is the identity that created it.
func (s *checkoutServiceImpl) resolveSession(ctx context.Context, identity models.Identity, sessionID string) (*models.CheckoutSession, *ServiceError) {
	if !strings.HasPrefix(sessionID, checkoutSessionPrefix) {
		return nil, &ServiceError{StatusCode: 400, Kind: KindInvalidCheckoutSession, Message: "Invalid checkout session ID"}
	}

	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to load checkout session",
			zap.String("checkout_session_id", sessionID),
			zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to confirm checkout"}
	}
	if session == nil {
		return nil, &ServiceError{StatusCode: 400, Kind: KindInvalidCheckoutSession, Message: "Checkout session not found or expired"}
	}
	if session.IdentityKey != identity.Key() {
		return nil, &ServiceError{StatusCode: 400, Kind: KindInvalidCheckoutSession, Message: "Checkout session does not belong to this cart"}
	}
	return session, nil
}

// resolveCustomer picks contact details by priority: request fields, then the
// authenticated user's profile, then the guest placeholder.
func (s *checkoutServiceImpl) resolveCustomer(ctx context.Context, identity models.Identity, req *models.ConfirmCheckoutRequest) (string, string, string, *ServiceError) {
	email := req.Email
	firstName := req.FirstName
	lastName := req.LastName

	if userID, ok := identity.UserID(); ok && (email == "" || firstName == "" || lastName == "") {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			s.logger.Warn("Failed to load user profile for checkout",
				zap.String("user_id", userID.String()),
				zap.Error(err))
		} else {
			if email == "" {
				email = user.Email
			}
			if firstName == "" {
				firstName = user.FirstName
			}
			if lastName == "" {
				lastName = user.LastName
			}
		}
	}

	if email == "" {
		email = "guest@example.com"
	}
	return email, firstName, lastName, nil
}

func (s *checkoutServiceImpl) commitError(orderNumber string, err error) *ServiceError {
	var insufficient *repository.InsufficientStockError
	if errors.As(err, &insufficient) {
		s.logger.Info("Checkout lost stock race",
			zap.String("order_number", orderNumber),
			zap.String("product_id", insufficient.ProductID.String()),
			zap.Int("available", insufficient.Available),
			zap.Int("requested", insufficient.Requested))
		available := insufficient.Available
		requested := insufficient.Requested
		return &ServiceError{
			StatusCode: 409,
			Kind:       KindInsufficientStock,
			Message:    fmt.Sprintf("Insufficient stock for %s", insufficient.ProductName),
			Details: []models.UnavailableItem{{
				ProductID:      insufficient.ProductID,
				Reason:         "insufficient stock",
				AvailableStock: &available,
				Requested:      &requested,
			}},
		}
	}

	if errors.Is(err, repository.ErrProductNotFound) {
		return &ServiceError{StatusCode: 400, Kind: KindStockUnavailable, Message: "Some products are no longer available"}
	}

	s.logger.Error("Order commit failed",
		zap.String("order_number", orderNumber),
		zap.Error(err))
	return &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to confirm checkout"}
}

func (s *checkoutServiceImpl) publishOrderCreated(ctx context.Context, order *models.Order) {
	if s.events == nil {
		return
	}

	event := models.OrderCreatedEvent{
		EventType:     "order.created",
		OrderID:       order.ID.String(),
		OrderNumber:   order.OrderNumber,
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total,
		Timestamp:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("Failed to marshal order created event", zap.Error(err))
		return
	}
	if err := s.events.Publish(ctx, order.OrderNumber, payload); err != nil {
		s.logger.Warn("Failed to publish order created event",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
}

func newCheckoutSessionID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("%s%d_%s", checkoutSessionPrefix, time.Now().UnixMilli(), suffix)
}

func newOrderNumber() string {
	return "ORD-" + time.Now().UTC().Format("20060102-150405") + "-" + uuid.New().String()[:8]
}
