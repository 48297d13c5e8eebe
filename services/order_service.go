package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService serves read access to committed orders and the one mutation
// orders allow after creation: status updates.
type OrderService interface {
	GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, *ServiceError)
	GetOrderHistory(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError)
	GetAllOrders(ctx context.Context, page, limit int) ([]models.Order, int64, *ServiceError)
	UpdateOrderStatus(ctx context.Context, orderNumber string, status models.OrderStatus) (*models.Order, *ServiceError)
	GetOrderTracking(ctx context.Context, orderNumber string) (*models.OrderTracking, *ServiceError)
}

type orderServiceImpl struct {
	repo   repository.OrderRepository
	events EventPublisher
	logger *zap.Logger
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(repo repository.OrderRepository, events EventPublisher, logger *zap.Logger) OrderService {
	return &orderServiceImpl{repo: repo, events: events, logger: logger}
}

func (s *orderServiceImpl) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, *ServiceError) {
	order, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Kind: KindNotFound, Message: "Order not found"}
		}
		s.logger.Error("Failed to fetch order",
			zap.String("order_number", orderNumber),
			zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to fetch order"}
	}
	return order, nil
}

func (s *orderServiceImpl) GetOrderHistory(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.repo.FindByCustomerID(ctx, customerID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch order history",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to fetch orders"}
	}
	return orders, total, nil
}

func (s *orderServiceImpl) GetAllOrders(ctx context.Context, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to fetch orders"}
	}
	return orders, total, nil
}

// UpdateOrderStatus sets the order status and stamps the matching timestamp
// the first time each status is reached. Re-applying a status never moves an
// existing stamp.
func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, orderNumber string, status models.OrderStatus) (*models.Order, *ServiceError) {
	if !models.ValidOrderStatus(status) {
		return nil, &ServiceError{StatusCode: 400, Kind: KindInvalidInput, Message: "Invalid order status"}
	}

	order, serr := s.GetOrderByNumber(ctx, orderNumber)
	if serr != nil {
		return nil, serr
	}

	updates := map[string]interface{}{"order_status": status}
	now := time.Now().UTC()
	switch status {
	case models.OrderStatusShipped:
		if order.ShippedAt == nil {
			updates["shipped_at"] = now
		}
	case models.OrderStatusDelivered:
		if order.DeliveredAt == nil {
			updates["delivered_at"] = now
		}
	case models.OrderStatusCancelled:
		if order.CancelledAt == nil {
			updates["cancelled_at"] = now
		}
	}

	if err := s.repo.UpdateStatusFields(ctx, orderNumber, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Kind: KindNotFound, Message: "Order not found"}
		}
		s.logger.Error("Failed to update order status",
			zap.String("order_number", orderNumber),
			zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Kind: KindInternal, Message: "Failed to update order status"}
	}

	updated, serr := s.GetOrderByNumber(ctx, orderNumber)
	if serr != nil {
		return nil, serr
	}

	s.logger.Info("Order status updated",
		zap.String("order_number", orderNumber),
		zap.String("status", string(status)))

	s.publishStatusChanged(ctx, orderNumber, status)
	return updated, nil
}

// GetOrderTracking returns the fulfillment view of an order with no customer
// details, safe to expose without authentication.
func (s *orderServiceImpl) GetOrderTracking(ctx context.Context, orderNumber string) (*models.OrderTracking, *ServiceError) {
	order, serr := s.GetOrderByNumber(ctx, orderNumber)
	if serr != nil {
		return nil, serr
	}

	return &models.OrderTracking{
		OrderNumber: order.OrderNumber,
		Status:      order.OrderStatus,
		ShippedAt:   order.ShippedAt,
		DeliveredAt: order.DeliveredAt,
		CancelledAt: order.CancelledAt,
		CreatedAt:   order.CreatedAt,
	}, nil
}

func (s *orderServiceImpl) publishStatusChanged(ctx context.Context, orderNumber string, status models.OrderStatus) {
	if s.events == nil {
		return
	}

	event := models.OrderStatusChangedEvent{
		EventType:   "order.status_changed",
		OrderNumber: orderNumber,
		Status:      status,
		Timestamp:   time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("Failed to marshal order status event", zap.Error(err))
		return
	}
	if err := s.events.Publish(ctx, orderNumber, payload); err != nil {
		s.logger.Warn("Failed to publish order status event",
			zap.String("order_number", orderNumber),
			zap.Error(err))
	}
}
