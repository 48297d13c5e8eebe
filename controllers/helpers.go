package controllers

import (
	"strconv"

	"storefront-backend/services"

	"github.com/gin-gonic/gin"
)

// respondError renders a ServiceError as JSON with its stable kind and any
// structured details.
func respondError(c *gin.Context, err *services.ServiceError) {
	body := gin.H{
		"error": err.Message,
		"kind":  err.Kind,
	}
	if err.Details != nil {
		body["details"] = err.Details
	}
	c.JSON(err.StatusCode, body)
}

// parsePaginationParams reads page and limit query parameters with sane
// defaults and caps.
func parsePaginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
