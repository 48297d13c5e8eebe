package controllers

import (
	"net/http"

	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryController handles admin inventory endpoints.
type InventoryController struct {
	service services.InventoryService
}

// NewInventoryController creates a new InventoryController.
func NewInventoryController(service services.InventoryService) *InventoryController {
	return &InventoryController{service: service}
}

// Restock handles POST /admin/inventory/:productId/restock
func (ctrl *InventoryController) Restock(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req models.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movement, serr := ctrl.service.Restock(c.Request.Context(), productID, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, movement)
}

// Adjust handles POST /admin/inventory/:productId/adjust
func (ctrl *InventoryController) Adjust(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req models.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movement, serr := ctrl.service.Adjust(c.Request.Context(), productID, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, movement)
}

// ListLogs handles GET /admin/inventory/:productId/logs
func (ctrl *InventoryController) ListLogs(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	page, limit := parsePaginationParams(c)
	logs, total, serr := ctrl.service.ListLogs(c.Request.Context(), productID, page, limit)
	if serr != nil {
		respondError(c, serr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
