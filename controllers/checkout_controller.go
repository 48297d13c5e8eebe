package controllers

import (
	"net/http"

	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
)

// CheckoutController handles the two checkout endpoints.
type CheckoutController struct {
	service services.CheckoutService
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(service services.CheckoutService) *CheckoutController {
	return &CheckoutController{service: service}
}

// CreateSession handles POST /checkout
func (ctrl *CheckoutController) CreateSession(c *gin.Context) {
	var req models.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := middleware.GetIdentity(c)
	resp, serr := ctrl.service.CreateCheckoutSession(c.Request.Context(), identity, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Confirm handles POST /checkout/confirm
func (ctrl *CheckoutController) Confirm(c *gin.Context) {
	var req models.ConfirmCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := middleware.GetIdentity(c)
	order, serr := ctrl.service.ConfirmCheckout(c.Request.Context(), identity, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}
