package controllers

import (
	"net/http"

	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartController handles cart HTTP endpoints.
type CartController struct {
	service services.CartService
}

// NewCartController creates a new CartController.
func NewCartController(service services.CartService) *CartController {
	return &CartController{service: service}
}

// GetCart handles GET /cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	cart, err := ctrl.service.GetCart(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := middleware.GetIdentity(c)
	cart, serr := ctrl.service.AddItem(c.Request.Context(), identity, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// UpdateItem handles PUT /cart/items/:productId
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := middleware.GetIdentity(c)
	cart, serr := ctrl.service.UpdateItemQuantity(c.Request.Context(), identity, productID, req.Quantity)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /cart/items/:productId
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	identity := middleware.GetIdentity(c)
	cart, serr := ctrl.service.RemoveItem(c.Request.Context(), identity, productID)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart handles DELETE /cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	if serr := ctrl.service.ClearCart(c.Request.Context(), identity); serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// MergeCart handles POST /cart/merge. It folds the guest cart named by the
// request into the authenticated user's cart.
func (ctrl *CartController) MergeCart(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := middleware.GetIdentity(c)
	userID, ok := identity.UserID()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	cart, serr := ctrl.service.MergeGuestCart(c.Request.Context(), req.SessionID, userID)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, cart)
}
