package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"storefront-backend/models"
	"storefront-backend/repository"
	"storefront-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// --- Mock Store (products, orders, transactions, logs) ---

// mockStore backs the product, inventory and checkout repositories with one
// shared state so availability checks and commits see the same stock.
type mockStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
	orders   []*models.Order
	txns     []*models.PaymentTransaction
	logs     []models.InventoryLog

	failTxnCreate bool
}

func newMockStore() *mockStore {
	return &mockStore{products: make(map[uuid.UUID]*models.Product)}
}

func (s *mockStore) addProduct(name string, price float64, stock int) uuid.UUID {
	id := uuid.New()
	s.products[id] = &models.Product{
		ID:          id,
		Name:        name,
		Price:       price,
		Stock:       stock,
		IsAvailable: stock > 0,
	}
	return id
}

func (s *mockStore) stockOf(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

// ProductRepository

func (s *mockStore) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *p
	return &cp, nil
}

func (s *mockStore) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID := make(map[uuid.UUID]models.Product)
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			byID[id] = *p
		}
	}
	return byID, nil
}

// InventoryRepository

func (s *mockStore) CheckAvailability(_ context.Context, items []models.CheckoutItem) (*models.AvailabilityResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &models.AvailabilityResult{AllAvailable: true}
	for _, item := range items {
		p, ok := s.products[item.ProductID]
		if !ok {
			result.AllAvailable = false
			result.Unavailable = append(result.Unavailable, models.UnavailableItem{
				ProductID: item.ProductID,
				Reason:    "not found",
			})
			continue
		}
		if p.Stock < item.Quantity {
			available := p.Stock
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

func (s *mockStore) DecrementStock(ctx context.Context, items []models.CheckoutItem, orderID uuid.UUID) ([]models.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decrementLocked(items, &orderID)
}

func (s *mockStore) AdjustStock(_ context.Context, productID uuid.UUID, changeType models.ChangeType, quantityChange int, orderID *uuid.UUID, reason string) (*models.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	newStock := p.Stock + quantityChange
	if newStock < 0 {
		return nil, repository.ErrStockBelowZero
	}
	movement := &models.StockMovement{ProductID: productID, PreviousStock: p.Stock, NewStock: newStock}
	s.logs = append(s.logs, models.InventoryLog{
		ProductID:      productID,
		OrderID:        orderID,
		ChangeType:     changeType,
		QuantityChange: quantityChange,
		PreviousStock:  p.Stock,
		NewStock:       newStock,
		Reason:         reason,
	})
	p.Stock = newStock
	p.IsAvailable = newStock > 0
	return movement, nil
}

func (s *mockStore) AppendLog(_ context.Context, entry *models.InventoryLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, *entry)
	return nil
}

func (s *mockStore) ListLogs(_ context.Context, productID uuid.UUID, _, _ int) ([]models.InventoryLog, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.InventoryLog
	for _, l := range s.logs {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

// CheckoutRepository. Validates everything before applying anything, so a
// failure leaves stock, orders and logs untouched, like the real transaction.
func (s *mockStore) CommitOrder(_ context.Context, order *models.Order, txn *models.PaymentTransaction) ([]models.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.CheckoutItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, models.CheckoutItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	for _, item := range items {
		p, ok := s.products[item.ProductID]
		if !ok {
			return nil, repository.ErrProductNotFound
		}
		if p.Stock < item.Quantity {
			return nil, &repository.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   item.Quantity,
			}
		}
	}
	if s.failTxnCreate {
		return nil, errors.New("transaction insert failed")
	}

	movements, err := s.decrementLocked(items, &order.ID)
	if err != nil {
		return nil, err
	}
	s.orders = append(s.orders, order)
	s.txns = append(s.txns, txn)
	return movements, nil
}

func (s *mockStore) decrementLocked(items []models.CheckoutItem, orderID *uuid.UUID) ([]models.StockMovement, error) {
	movements := make([]models.StockMovement, 0, len(items))
	for _, item := range items {
		p, ok := s.products[item.ProductID]
		if !ok {
			return nil, repository.ErrProductNotFound
		}
		if p.Stock < item.Quantity {
			return nil, &repository.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   item.Quantity,
			}
		}
		newStock := p.Stock - item.Quantity
		s.logs = append(s.logs, models.InventoryLog{
			ProductID:      p.ID,
			OrderID:        orderID,
			ChangeType:     models.ChangeTypeSale,
			QuantityChange: -item.Quantity,
			PreviousStock:  p.Stock,
			NewStock:       newStock,
			Reason:         "Order placed",
		})
		movements = append(movements, models.StockMovement{ProductID: p.ID, PreviousStock: p.Stock, NewStock: newStock})
		p.Stock = newStock
		p.IsAvailable = newStock > 0
	}
	return movements, nil
}

// --- Mock Cart Repository ---

type mockCartRepo struct {
	mu    sync.Mutex
	carts map[string]models.Cart
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]models.Cart)}
}

func (m *mockCartRepo) Get(_ context.Context, identity models.Identity) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[identity.Key()]
	if !ok {
		return nil, nil
	}
	cp := cart
	cp.Items = append([]models.CartItem(nil), cart.Items...)
	return &cp, nil
}

func (m *mockCartRepo) Save(_ context.Context, identity models.Identity, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cart
	cp.Items = append([]models.CartItem(nil), cart.Items...)
	m.carts[identity.Key()] = cp
	return nil
}

func (m *mockCartRepo) Delete(_ context.Context, identity models.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, identity.Key())
	return nil
}

func (m *mockCartRepo) seed(identity models.Identity, items ...models.CartItem) {
	cart := models.Cart{Items: items}
	cart.Recalculate()
	m.carts[identity.Key()] = cart
}

// --- Mock Checkout Session Repository ---

type mockSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]models.CheckoutSession
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]models.CheckoutSession)}
}

func (m *mockSessionRepo) Save(_ context.Context, session *models.CheckoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.SessionID] = *session
	return nil
}

func (m *mockSessionRepo) Find(_ context.Context, sessionID string) (*models.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (m *mockSessionRepo) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// --- Mock User Repository ---

type mockUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("record not found")
}

// --- Mock Payment Gateway ---

type mockGateway struct {
	fail    bool
	created int
}

func (m *mockGateway) CreateIntent(_ context.Context, amount float64, currency string, _ map[string]string) (*models.PaymentIntent, error) {
	if m.fail {
		return nil, errors.New("gateway unavailable")
	}
	m.created++
	return &models.PaymentIntent{
		ID:           "pi_test_123",
		ClientSecret: "pi_test_123_secret",
		Status:       "requires_payment_method",
	}, nil
}

// --- Mock Event Publisher ---

type mockPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (m *mockPublisher) Publish(_ context.Context, key string, _ []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	return nil
}

// --- Helpers ---

type checkoutFixture struct {
	store    *mockStore
	carts    *mockCartRepo
	sessions *mockSessionRepo
	users    *mockUserRepo
	gateway  *mockGateway
	events   *mockPublisher
	svc      services.CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	logger, _ := zap.NewDevelopment()
	f := &checkoutFixture{
		store:    newMockStore(),
		carts:    newMockCartRepo(),
		sessions: newMockSessionRepo(),
		users:    &mockUserRepo{users: make(map[uuid.UUID]*models.User)},
		gateway:  &mockGateway{},
		events:   &mockPublisher{},
	}
	inventory := services.NewInventoryService(f.store, logger)
	f.svc = services.NewCheckoutService(
		f.carts, f.sessions, f.store, f.store, f.users,
		inventory, f.gateway, f.events, logger,
		10.0, "usd",
	)
	return f
}

func testAddress() *models.Address {
	return &models.Address{
		Street:  "1 Main St",
		City:    "Springfield",
		State:   "IL",
		ZipCode: "62701",
		Country: "US",
	}
}

func (f *checkoutFixture) createSession(t *testing.T, identity models.Identity, method models.PaymentMethod) *models.CreateCheckoutResponse {
	t.Helper()
	resp, serr := f.svc.CreateCheckoutSession(context.Background(), identity, &models.CreateCheckoutRequest{
		PaymentMethod: method,
	})
	assert.Nil(t, serr)
	assert.NotNil(t, resp)
	return resp
}

// --- Tests ---

func TestCheckout_CashOnDelivery_Success(t *testing.T) {
	f := newCheckoutFixture()
	productID := f.store.addProduct("Widget", 25.0, 10)

	guest := models.GuestIdentity("sess-1")
	f.carts.seed(guest, models.CartItem{ProductID: productID, Quantity: 2, UnitPrice: 25.0})

	resp := f.createSession(t, guest, models.PaymentMethodCashOnDelivery)
	assert.True(t, strings.HasPrefix(resp.CheckoutSessionID, "checkout_"))
	assert.Empty(t, resp.ClientSecret)
	assert.Equal(t, 50.0, resp.Subtotal)
	assert.Equal(t, 10.0, resp.ShippingCost)
	assert.Equal(t, 60.0, resp.Total)

	order, serr := f.svc.ConfirmCheckout(context.Background(), guest, &models.ConfirmCheckoutRequest{
		CheckoutSessionID: resp.CheckoutSessionID,
		PaymentMethod:     models.PaymentMethodCashOnDelivery,
		ShippingAddress:   testAddress(),
	})
	assert.Nil(t, serr)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Equal(t, "guest@example.com", order.CustomerEmail)
	assert.Nil(t, order.CustomerID)
	assert.Equal(t, models.OrderStatusPending, order.OrderStatus)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 60.0, order.Total)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "Widget", order.Items[0].ProductName)

	// Billing falls back to shipping when absent.
	assert.Equal(t, *testAddress(), order.BillingAddress)

	// Stock decremented, sale logged, transaction recorded.
	assert.Equal(t, 8, f.store.stockOf(productID))
	assert.Len(t, f.store.txns, 1)
	assert.Equal(t, "cod_"+order.OrderNumber, f.store.txns[0].TransactionID)
	assert.Equal(t, models.PaymentStatusPending, f.store.txns[0].Status)
	logs, _, _ := f.store.ListLogs(context.Background(), productID, 1, 10)
	assert.Len(t, logs, 1)
	assert.Equal(t, models.ChangeTypeSale, logs[0].ChangeType)
	assert.Equal(t, -2, logs[0].QuantityChange)

	// Cart emptied (not deleted) and session consumed.
	cart, _ := f.carts.Get(context.Background(), guest)
	assert.NotNil(t, cart)
	assert.Empty(t, cart.Items)
	session, _ := f.sessions.Find(context.Background(), resp.CheckoutSessionID)
	assert.Nil(t, session)

	// Event published with the order number as key.
	assert.Equal(t, []string{order.OrderNumber}, f.events.keys)
}

func TestCheckout_Stripe_Success(t *testing.T) {
	f := newCheckoutFixture()
	productID := f.store.addProduct("Widget", 25.0, 5)

	userID := uuid.New()
	f.users.users[userID] = &models.User{ID: userID, Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}
	user := models.UserIdentity(userID)
	f.carts.seed(user, models.CartItem{ProductID: productID, Quantity: 1, UnitPrice: 25.0})

	resp := f.createSession(t, user, models.PaymentMethodStripe)
	assert.Equal(t, "pi_test_123_secret", resp.ClientSecret)
	assert.Equal(t, 1, f.gateway.created)

	order, serr := f.svc.ConfirmCheckout(context.Background(), user, &models.ConfirmCheckoutRequest{
		CheckoutSessionID: resp.CheckoutSessionID,
		PaymentMethod:     models.PaymentMethodStripe,
		ShippingAddress:   testAddress(),
	})
	assert.Nil(t, serr)
	assert.Equal(t, models.PaymentStatusProcessing, order.PaymentStatus)
	assert.Equal(t, "pi_test_123", order.PaymentTransactionID)
	assert.Equal(t, "jane@example.com", order.CustomerEmail)
	assert.Equal(t, "Jane", order.CustomerFirstName)
	assert.NotNil(t, order.CustomerID)
	assert.Equal(t, userID, *order.CustomerID)

	assert.Len(t, f.store.txns, 1)
	assert.Equal(t, "pi_test_123", f.store.txns[0].TransactionID)
	assert.Equal(t, models.PaymentStatusProcessing, f.store.txns[0].Status)
	assert.NotNil(t, f.store.txns[0].StripePaymentIntentID)
}

func TestCheckout_RequestFieldsOverrideProfile(t *testing.T) {
	f := newCheckoutFixture()
	productID := f.store.addProduct("Widget", 25.0, 5)

	userID := uuid.New()
	f.users.users[userID] = &models.User{ID: userID, Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}
	user := models.UserIdentity(userID)
	f.carts.seed(user, models.CartItem{ProductID: productID, Quantity: 1, UnitPrice: 25.0})

	resp := f.createSession(t, user, models.PaymentMethodCashOnDelivery)
	order, serr := f.svc.ConfirmCheckout(context.Background(), user, &models.ConfirmCheckoutRequest{
		CheckoutSessionID: resp.CheckoutSessionID,
		Email:             "other@example.com",
		PaymentMethod:     models.PaymentMethodCashOnDelivery,
		ShippingAddress:   testAddress(),
	})
	assert.Nil(t, serr)
	assert.Equal(t, "other@example.com", order.CustomerEmail)
	// Names still filled from the profile.
	assert.Equal(t, "Jane", order.CustomerFirstName)
	assert.Equal(t, "Doe", order.CustomerLastName)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	guest := models.GuestIdentity("sess-empty")

	_, serr := f.svc.CreateCheckoutSession(context.Background(), guest, &models.CreateCheckoutRequest{
		PaymentMethod: models.PaymentMethodCashOnDelivery,
	})
	assert.NotNil(t, serr)
	assert.Equal(t, 400, serr.StatusCode)
	assert.Equal(t, services.KindEmptyCart, serr.Kind)
}

func TestCheckout_SessionErrors(t *testing.T) {
	f := newCheckoutFixture()
	productID := f.store.addProduct("Widget", 25.0, 5)
	guest := models.GuestIdentity("sess-2")
	f.carts.seed(guest, models.CartItem{ProductID: productID, Quantity: 1, UnitPrice: 25.0})

	// Malformed session id.
	_, serr := f.svc.ConfirmCheckout(context.Background(), guest, &models.ConfirmCheckoutRequest{
		CheckoutSessionID: "bogus",
		PaymentMethod:     models.PaymentMethodCashOnDelivery,
		ShippingAddress:   testAddress(),
	})
	assert.NotNil(t, serr)
	assert.Equal(t, services.KindInvalidCheckoutSession, serr.Kind)

	// Well-formed but unknown (expired) session id.
	_, serr = f.svc.ConfirmCheckout(context.Background(), guest, &models.ConfirmCheckoutRequest{
		CheckoutSessionID: "checkout_1234_unknown",
		PaymentMethod:     models.PaymentMethodCashOnDelivery,
		ShippingAddress:   testAddress(),
	})
	assert.NotNil(t, serr)
	assert.Equal(t, services.KindInvalidCheckoutSession, serr.Kind)

	// Session created by a different identity.
	resp := f.createSession(t, guest, models.PaymentMethodCashOnDelivery)
	other := models.GuestIdentity("sess-other")
	f.carts.seed(other, models.CartItem{ProductID: productID, Quantity: 1, UnitPrice: 25.0})
	_, serr = f.svc.ConfirmCheckout(context.Background(), other, &models.ConfirmCheckoutRequest{
		CheckoutSessionID: resp.CheckoutSessionID,
		PaymentMethod:     models.PaymentMethodCashOnDelivery,
		ShippingAddress:   testAddress(),
	})
	assert.NotNil(t, serr)
	assert.Equal(t, services.KindInvalidCheckoutSession, serr.Kind)

	// No stock was touched by any of the failures.
	assert.Equal(t, 5, f.store.stockOf(productID))
}

func TestCheckout_GatewayFailureAbortsQuote(t *testing.T) {
	f := newCheckoutFixture()
	productID := f.store.addProduct("Widget", 25.0, 5)
	f.gateway.fail = true

	guest := models.GuestIdentity("sess-3")
	f.carts.seed(guest, models.CartItem{ProductID: productID, Quantity: 1, UnitPrice: 25.0})

	_, serr := f.svc.CreateCheckoutSession(context.Background(), guest, &models.CreateCheckoutRequest{
		PaymentMethod: models.PaymentMethodStripe,
	})
	assert.NotNil(t, serr)
	assert.Equal(t, 502, serr.StatusCode)
	assert.Equal(t, services.KindPaymentGateway, serr.Kind)
	assert.Equal(t, 5, f.store.stockOf(productID))
}

func TestCheckout_StockDropsBetweenQuoteAndConfirm(t *testing.T) {
	f := newCheckoutFixture()
	productID := f.store.addProduct("Widget", 25.0, 3)

	guest := models.GuestIdentity("sess-4")
	f.carts.seed(guest, models.CartItem{ProductID: productID, Quantity: 3, UnitPrice: 25.0})
	resp := f.createSession(t, guest, models.PaymentMethodCashOnDelivery)

	// Another sale takes most of the stock before confirmation.
	_, err := f.store.AdjustStock(context.Background(), productID, models.ChangeTypeAdjustment, -2, nil, "shrinkage")
	assert.NoError(t, err)

	_, serr := f.svc.ConfirmCheckout(context.Background(), guest, &models.ConfirmCheckoutRequest{
		CheckoutSessionID: resp.CheckoutSessionID,
		PaymentMethod:     models.PaymentMethodCashOnDelivery,
		ShippingAddress:   testAddress(),
	})
	assert.NotNil(t, serr)
	assert.Equal(t, services.KindStockUnavailable, serr.Kind)
	assert.NotNil(t, serr.Details)

	// Nothing committed and the cart is intact for a retry.
	assert.Empty(t, f.store.orders)
	cart, _ := f.carts.Get(context.Background(), guest)
	assert.Len(t, cart.Items, 1)
}

func TestCheckout_ConcurrentConfirmations_OnlyOneWins(t *testing.T) {
	f := newCheckoutFixture()
	productID := f.store.addProduct("Widget", 25.0, 3)

	a := models.GuestIdentity("sess-a")
	b := models.GuestIdentity("sess-b")
	f.carts.seed(a, models.CartItem{ProductID: productID, Quantity: 2, UnitPrice: 25.0})
	f.carts.seed(b, models.CartItem{ProductID: productID, Quantity: 2, UnitPrice: 25.0})

	respA := f.createSession(t, a, models.PaymentMethodCashOnDelivery)
	respB := f.createSession(t, b, models.PaymentMethodCashOnDelivery)

	confirm := func(identity models.Identity, sessionID string) *services.ServiceError {
		_, serr := f.svc.ConfirmCheckout(context.Background(), identity, &models.ConfirmCheckoutRequest{
			CheckoutSessionID: sessionID,
			PaymentMethod:     models.PaymentMethodCashOnDelivery,
			ShippingAddress:   testAddress(),
		})
		return serr
	}

	var wg sync.WaitGroup
	results := make([]*services.ServiceError, 2)
	wg.Add(2)
	go func() { defer wg.Done(); results[0] = confirm(a, respA.CheckoutSessionID) }()
	go func() { defer wg.Done(); results[1] = confirm(b, respB.CheckoutSessionID) }()
	wg.Wait()

	successes := 0
	conflicts := 0
	for _, serr := range results {
		if serr == nil {
			successes++
			continue
		}
		// The loser fails the availability re-check or loses the commit
		// race, depending on interleaving.
		assert.Contains(t, []string{services.KindInsufficientStock, services.KindStockUnavailable}, serr.Kind)
		conflicts++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 1, f.store.stockOf(productID))
	assert.Len(t, f.store.orders, 1)
	assert.Len(t, f.store.txns, 1)
}

func TestCheckout_CommitFailureLeavesNoPartialState(t *testing.T) {
	f := newCheckoutFixture()
	first := f.store.addProduct("Widget", 25.0, 5)
	second := f.store.addProduct("Gadget", 40.0, 5)

	guest := models.GuestIdentity("sess-5")
	f.carts.seed(guest,
		models.CartItem{ProductID: first, Quantity: 1, UnitPrice: 25.0},
		models.CartItem{ProductID: second, Quantity: 1, UnitPrice: 40.0},
	)
	resp := f.createSession(t, guest, models.PaymentMethodCashOnDelivery)

	f.store.failTxnCreate = true
	_, serr := f.svc.ConfirmCheckout(context.Background(), guest, &models.ConfirmCheckoutRequest{
		CheckoutSessionID: resp.CheckoutSessionID,
		PaymentMethod:     models.PaymentMethodCashOnDelivery,
		ShippingAddress:   testAddress(),
	})
	assert.NotNil(t, serr)
	assert.Equal(t, 500, serr.StatusCode)

	// No order, no transaction, no stock movement, no log entries.
	assert.Empty(t, f.store.orders)
	assert.Empty(t, f.store.txns)
	assert.Empty(t, f.store.logs)
	assert.Equal(t, 5, f.store.stockOf(first))
	assert.Equal(t, 5, f.store.stockOf(second))

	// Cart still has both items and the session is still usable.
	cart, _ := f.carts.Get(context.Background(), guest)
	assert.Len(t, cart.Items, 2)
	session, _ := f.sessions.Find(context.Background(), resp.CheckoutSessionID)
	assert.NotNil(t, session)
}
