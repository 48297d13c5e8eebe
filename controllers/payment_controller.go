package controllers

import (
	"net/http"

	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
)

// PaymentController handles admin payment transaction endpoints, used to
// reconcile transaction state after processor callbacks.
type PaymentController struct {
	service services.PaymentService
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(service services.PaymentService) *PaymentController {
	return &PaymentController{service: service}
}

// GetTransaction handles GET /admin/payments/:transactionId
func (ctrl *PaymentController) GetTransaction(c *gin.Context) {
	txn, serr := ctrl.service.GetTransaction(c.Request.Context(), c.Param("transactionId"))
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, txn)
}

// UpdateStatus handles PATCH /admin/payments/:transactionId/status
func (ctrl *PaymentController) UpdateStatus(c *gin.Context) {
	var req struct {
		Status        models.PaymentStatus `json:"status" binding:"required,oneof=pending processing completed failed refunded"`
		FailureReason *string              `json:"failure_reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, serr := ctrl.service.UpdateTransaction(c.Request.Context(), c.Param("transactionId"), req.Status, req.FailureReason)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, txn)
}
