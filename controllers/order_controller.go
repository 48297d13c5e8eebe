package controllers

import (
	"net/http"

	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
)

// OrderController handles order read and status endpoints.
type OrderController struct {
	service services.OrderService
}

// NewOrderController creates a new OrderController.
func NewOrderController(service services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// GetOrder handles GET /orders/:orderNumber. Orders placed by another
// customer are reported as not found rather than forbidden.
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	order, serr := ctrl.service.GetOrderByNumber(c.Request.Context(), c.Param("orderNumber"))
	if serr != nil {
		respondError(c, serr)
		return
	}

	identity := middleware.GetIdentity(c)
	if userID, ok := identity.UserID(); ok {
		if order.CustomerID != nil && *order.CustomerID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
	}
	c.JSON(http.StatusOK, order)
}

// GetOrderHistory handles GET /orders for the authenticated user.
func (ctrl *OrderController) GetOrderHistory(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	userID, ok := identity.UserID()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	page, limit := parsePaginationParams(c)
	orders, total, serr := ctrl.service.GetOrderHistory(c.Request.Context(), userID, page, limit)
	if serr != nil {
		respondError(c, serr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// GetTracking handles GET /orders/:orderNumber/tracking. The response carries
// no customer details, so it needs no authentication.
func (ctrl *OrderController) GetTracking(c *gin.Context) {
	tracking, serr := ctrl.service.GetOrderTracking(c.Request.Context(), c.Param("orderNumber"))
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, tracking)
}

// GetAllOrders handles GET /admin/orders
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	page, limit := parsePaginationParams(c)
	orders, total, serr := ctrl.service.GetAllOrders(c.Request.Context(), page, limit)
	if serr != nil {
		respondError(c, serr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// UpdateStatus handles PATCH /admin/orders/:orderNumber/status
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, serr := ctrl.service.UpdateOrderStatus(c.Request.Context(), c.Param("orderNumber"), req.Status)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, order)
}
