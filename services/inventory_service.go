package services

import (
	"context"
	"errors"

	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryService fronts the inventory ledger. CheckAvailability and
// DecrementStock serve the checkout flow; Restock, Adjust and ListLogs back
// the admin endpoints.
type InventoryService interface {
	CheckAvailability(ctx context.Context, items []models.CheckoutItem) (*models.AvailabilityResult, error)
	DecrementStock(ctx context.Context, items []models.CheckoutItem, orderID uuid.UUID) ([]models.StockMovement, error)
	LogChange(ctx context.Context, entry *models.InventoryLog) error
	Restock(ctx context.Context, productID uuid.UUID, req *models.RestockRequest) (*models.StockMovement, *ServiceError)
	Adjust(ctx context.Context, productID uuid.UUID, req *models.AdjustStockRequest) (*models.StockMovement, *ServiceError)
	ListLogs(ctx context.Context, productID uuid.UUID, page, limit int) ([]models.InventoryLog, int64, *ServiceError)
}

type inventoryServiceImpl struct {
	repo   repository.InventoryRepository
	logger *zap.Logger
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(repo repository.InventoryRepository, logger *zap.Logger) InventoryService {
	return &inventoryServiceImpl{repo: repo, logger: logger}
}

func (s *inventoryServiceImpl) CheckAvailability(ctx context.Context, items []models.CheckoutItem) (*models.AvailabilityResult, error) {
	result, err := s.repo.CheckAvailability(ctx, items)
	if err != nil {
		s.logger.Error("Availability check failed", zap.Error(err))
		return nil, err
	}
	if !result.AllAvailable {
		s.logger.Info("Availability check found unavailable items",
			zap.Int("unavailable_count", len(result.Unavailable)))
	}
	return result, nil
}

func (s *inventoryServiceImpl) DecrementStock(ctx context.Context, items []models.CheckoutItem, orderID uuid.UUID) ([]models.StockMovement, error) {
	movements, err := s.repo.DecrementStock(ctx, items, orderID)
	if err != nil {
		s.logger.Error("Stock decrement failed",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Stock decremented",
		zap.String("order_id", orderID.String()),
		zap.Int("products", len(movements)))
	return movements, nil
}

// LogChange appends a raw ledger entry for stock movements recorded outside
// the adjust paths, such as returns processed by back-office tooling.
func (s *inventoryServiceImpl) LogChange(ctx context.Context, entry *models.InventoryLog) error {
	if err := s.repo.AppendLog(ctx, entry); err != nil {
		s.logger.Error("Failed to append inventory log",
			zap.String("product_id", entry.ProductID.String()),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *inventoryServiceImpl) Restock(ctx context.Context, productID uuid.UUID, req *models.RestockRequest) (*models.StockMovement, *ServiceError) {
	reason := req.Reason
	if reason == "" {
		reason = "Restock"
	}

	movement, err := s.repo.AdjustStock(ctx, productID, models.ChangeTypeRestock, req.Quantity, nil, reason)
	if err != nil {
		return nil, s.adjustError(productID, err)
	}

	s.logger.Info("Product restocked",
		zap.String("product_id", productID.String()),
		zap.Int("quantity", req.Quantity),
		zap.Int("new_stock", movement.NewStock))
	return movement, nil
}

func (s *inventoryServiceImpl) Adjust(ctx context.Context, productID uuid.UUID, req *models.AdjustStockRequest) (*models.StockMovement, *ServiceError) {
	reason := req.Reason
	if reason == "" {
		reason = "Manual adjustment"
	}

	movement, err := s.repo.AdjustStock(ctx, productID, models.ChangeTypeAdjustment, req.QuantityChange, nil, reason)
	if err != nil {
		return nil, s.adjustError(productID, err)
	}

	s.logger.Info("Stock adjusted",
		zap.String("product_id", productID.String()),
		zap.Int("quantity_change", req.QuantityChange),
		zap.Int("new_stock", movement.NewStock))
	return movement, nil
}

func (s *inventoryServiceImpl) ListLogs(ctx context.Context, productID uuid.UUID, page, limit int) ([]models.InventoryLog, int64, *ServiceError) {
	logs, total, err := s.repo.ListLogs(ctx, productID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list inventory logs",
			zap.String("product_id", productID.String()),
			zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to fetch inventory logs"}
	}
	return logs, total, nil
}

func (s *inventoryServiceImpl) adjustError(productID uuid.UUID, err error) *ServiceError {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return &ServiceError{StatusCode: 404, Kind: KindNotFound, Message: "Product not found"}
	case errors.Is(err, repository.ErrStockBelowZero):
		return &ServiceError{StatusCode: 400, Kind: KindInvalidInput, Message: "Adjustment would drive stock below zero"}
	default:
		s.logger.Error("Stock adjustment failed",
			zap.String("product_id", productID.String()),
			zap.Error(err))
		return &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to adjust stock"}
	}
}
