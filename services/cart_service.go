package services

import (
	"context"
	"errors"

	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CartService manages the mutable pre-purchase cart. Prices are snapshotted
// from the catalog when an item is added and totals are always recomputed
// server-side.
type CartService interface {
	GetCart(ctx context.Context, identity models.Identity) (*models.Cart, *ServiceError)
	AddItem(ctx context.Context, identity models.Identity, req *models.AddCartItemRequest) (*models.Cart, *ServiceError)
	UpdateItemQuantity(ctx context.Context, identity models.Identity, productID uuid.UUID, quantity int) (*models.Cart, *ServiceError)
	RemoveItem(ctx context.Context, identity models.Identity, productID uuid.UUID) (*models.Cart, *ServiceError)
	ClearCart(ctx context.Context, identity models.Identity) *ServiceError
	MergeGuestCart(ctx context.Context, sessionID string, userID uuid.UUID) (*models.Cart, *ServiceError)
}

type cartServiceImpl struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{carts: carts, products: products, logger: logger}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, identity models.Identity) (*models.Cart, *ServiceError) {
	cart, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, identity models.Identity, req *models.AddCartItemRequest) (*models.Cart, *ServiceError) {
	product, perr := s.products.FindByID(ctx, req.ProductID)
	if perr != nil {
		if errors.Is(perr, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Kind: KindNotFound, Message: "Product not found"}
		}
		s.logger.Error("Failed to fetch product for cart",
			zap.String("product_id", req.ProductID.String()),
			zap.Error(perr))
		return nil, &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to add item to cart"}
	}
	if !product.IsAvailable {
		return nil, &ServiceError{StatusCode: 400, Kind: KindStockUnavailable, Message: "Product is not available"}
	}

	cart, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID {
			cart.Items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: product.ID,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
		})
	}

	return s.save(ctx, identity, cart)
}

func (s *cartServiceImpl) UpdateItemQuantity(ctx context.Context, identity models.Identity, productID uuid.UUID, quantity int) (*models.Cart, *ServiceError) {
	cart, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			return s.save(ctx, identity, cart)
		}
	}
	return nil, &ServiceError{StatusCode: 404, Kind: KindNotFound, Message: "Item not in cart"}
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, identity models.Identity, productID uuid.UUID) (*models.Cart, *ServiceError) {
	cart, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}

	items := cart.Items[:0]
	removed := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		items = append(items, item)
	}
	if !removed {
		return nil, &ServiceError{StatusCode: 404, Kind: KindNotFound, Message: "Item not in cart"}
	}
	cart.Items = items

	return s.save(ctx, identity, cart)
}

// ClearCart empties the cart in place rather than deleting the key, so the
// client keeps seeing a valid empty cart.
func (s *cartServiceImpl) ClearCart(ctx context.Context, identity models.Identity) *ServiceError {
	cart := &models.Cart{Items: []models.CartItem{}}
	if _, err := s.save(ctx, identity, cart); err != nil {
		return err
	}
	return nil
}

// MergeGuestCart folds a guest cart into the user's cart at login, summing
// quantities for products present in both, then removes the guest cart.
func (s *cartServiceImpl) MergeGuestCart(ctx context.Context, sessionID string, userID uuid.UUID) (*models.Cart, *ServiceError) {
	guest := models.GuestIdentity(sessionID)
	user := models.UserIdentity(userID)

	guestCart, err := s.load(ctx, guest)
	if err != nil {
		return nil, err
	}
	userCart, err := s.load(ctx, user)
	if err != nil {
		return nil, err
	}

	if guestCart.IsEmpty() {
		return userCart, nil
	}

	for _, gi := range guestCart.Items {
		merged := false
		for i := range userCart.Items {
			if userCart.Items[i].ProductID == gi.ProductID {
				userCart.Items[i].Quantity += gi.Quantity
				merged = true
				break
			}
		}
		if !merged {
			userCart.Items = append(userCart.Items, gi)
		}
	}

	cart, err := s.save(ctx, user, userCart)
	if err != nil {
		return nil, err
	}

	if derr := s.carts.Delete(ctx, guest); derr != nil {
		s.logger.Warn("Failed to delete guest cart after merge",
			zap.String("session_id", sessionID),
			zap.Error(derr))
	}

	s.logger.Info("Guest cart merged",
		zap.String("session_id", sessionID),
		zap.String("user_id", userID.String()),
		zap.Int("items", len(cart.Items)))
	return cart, nil
}

func (s *cartServiceImpl) load(ctx context.Context, identity models.Identity) (*models.Cart, *ServiceError) {
	if identity.IsZero() {
		return nil, &ServiceError{StatusCode: 400, Kind: KindInvalidInput, Message: "Missing cart identity"}
	}

	cart, err := s.carts.Get(ctx, identity)
	if err != nil {
		s.logger.Error("Failed to load cart",
			zap.String("identity", identity.Key()),
			zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to load cart"}
	}
	if cart == nil {
		cart = &models.Cart{Items: []models.CartItem{}}
	}
	return cart, nil
}

func (s *cartServiceImpl) save(ctx context.Context, identity models.Identity, cart *models.Cart) (*models.Cart, *ServiceError) {
	cart.Recalculate()
	if err := s.carts.Save(ctx, identity, cart); err != nil {
		s.logger.Error("Failed to save cart",
			zap.String("identity", identity.Key()),
			zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to save cart"}
	}
	return cart, nil
}
