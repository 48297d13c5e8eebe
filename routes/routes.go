package routes

import (
	"storefront-backend/controllers"
	"storefront-backend/middleware"

	"github.com/gin-gonic/gin"
)

// Register sets up all storefront routes.
func Register(
	r *gin.Engine,
	cart *controllers.CartController,
	checkout *controllers.CheckoutController,
	order *controllers.OrderController,
	inventory *controllers.InventoryController,
	payment *controllers.PaymentController,
) {
	// Storefront routes: every request resolves to a user or guest identity.
	store := r.Group("")
	store.Use(middleware.Identity())

	cartRoutes := store.Group("/cart")
	cartRoutes.GET("", cart.GetCart)
	cartRoutes.DELETE("", cart.ClearCart)
	cartRoutes.POST("/items", cart.AddItem)
	cartRoutes.PUT("/items/:productId", cart.UpdateItem)
	cartRoutes.DELETE("/items/:productId", cart.RemoveItem)
	cartRoutes.POST("/merge", cart.MergeCart)

	checkoutRoutes := store.Group("/checkout")
	checkoutRoutes.POST("", checkout.CreateSession)
	checkoutRoutes.POST("/confirm", checkout.Confirm)

	orderRoutes := store.Group("/orders")
	orderRoutes.GET("", middleware.RequireUser(), order.GetOrderHistory)
	orderRoutes.GET("/:orderNumber", middleware.RequireUser(), order.GetOrder)
	orderRoutes.GET("/:orderNumber/tracking", order.GetTracking)

	// Admin routes: the API gateway authenticates and injects the role header.
	admin := r.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.GET("/orders", order.GetAllOrders)
	admin.PUT("/orders/:orderNumber/status", order.UpdateStatus)
	admin.POST("/inventory/:productId/restock", inventory.Restock)
	admin.POST("/inventory/:productId/adjust", inventory.Adjust)
	admin.GET("/inventory/:productId/logs", inventory.ListLogs)
	admin.GET("/payments/:transactionId", payment.GetTransaction)
	admin.PATCH("/payments/:transactionId/status", payment.UpdateStatus)
}
