// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"poscore/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	CartHandler     *handler.CartHandler
	CheckoutHandler *handler.CheckoutHandler
	SyncHandler     *handler.SyncHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	syncHandler     *handler.SyncHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		cartHandler:     params.CartHandler,
		checkoutHandler: params.CheckoutHandler,
		syncHandler:     params.SyncHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Cart routes
	cartGroup := e.Group("/cart")
	{
		cartGroup.GET("", r.cartHandler.GetCart)
		cartGroup.DELETE("", r.cartHandler.ClearCart)
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.PUT("/items/:productId", r.cartHandler.UpdateQuantity)
		cartGroup.DELETE("/items/:productId", r.cartHandler.RemoveItem)
		cartGroup.POST("/items/:productId/discount", r.cartHandler.ApplyDiscount)
		cartGroup.DELETE("/items/:productId/discount", r.cartHandler.RemoveDiscount)
		cartGroup.GET("/quotes", r.cartHandler.GetQuotes)
		cartGroup.PUT("/delivery", r.cartHandler.SetDelivery)
		cartGroup.PUT("/destination", r.cartHandler.SetDestination)
	}

	// Checkout and transaction lifecycle routes
	e.POST("/checkout", r.checkoutHandler.Checkout)
	txGroup := e.Group("/transactions")
	{
		txGroup.GET("", r.checkoutHandler.ListTransactions)
		txGroup.POST("/:id/void", r.checkoutHandler.Void)
		txGroup.POST("/:id/return", r.checkoutHandler.Return)
		txGroup.GET("/:id/receipt", r.checkoutHandler.GetReceipt)
	}

	// Sync routes
	syncGroup := e.Group("/sync")
	{
		syncGroup.GET("/status", r.syncHandler.GetStatus)
		syncGroup.POST("/trigger", r.syncHandler.TriggerSync)
	}
}
