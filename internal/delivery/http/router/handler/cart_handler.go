package handler

import (
	"log/slog"
	"net/http"

	"poscore/internal/delivery/http/response"
	domainerrors "poscore/internal/domain/errors"
	"poscore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// CartHandlerParams holds dependencies for CartHandler, injected by Fx.
type CartHandlerParams struct {
	fx.In

	CartUC usecase.CartUsecase
	Logger *slog.Logger
}

// CartHandler holds dependencies for cart-related handlers
type CartHandler struct {
	cartUC usecase.CartUsecase
	logger *slog.Logger
}

// NewCartHandler is the constructor for CartHandler
func NewCartHandler(params CartHandlerParams) *CartHandler {
	return &CartHandler{
		cartUC: params.CartUC,
		logger: params.Logger,
	}
}

// AddItemRequest represents the request body for adding a cart line
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required"`
}

// UpdateQuantityRequest represents the request body for changing a line quantity
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// ApplyDiscountRequest represents the request body for applying a discount code
type ApplyDiscountRequest struct {
	Code string `json:"code" validate:"required"`
}

// SetDeliveryRequest represents the request body for the delivery selection.
// A nil provider id switches back to automatic selection.
type SetDeliveryRequest struct {
	ProviderID *string `json:"provider_id"`
}

// SetDestinationRequest represents the request body for the delivery point
type SetDestinationRequest struct {
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
}

// AddItem handles adding a product to the cart
func (h *CartHandler) AddItem(c echo.Context) error {
	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart item input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	view, err := h.cartUC.AddItem(c.Request().Context(), req.ProductID, req.Quantity)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Item added to cart")
}

// RemoveItem handles removing a cart line
func (h *CartHandler) RemoveItem(c echo.Context) error {
	view, err := h.cartUC.RemoveItem(c.Request().Context(), c.Param("productId"))
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Item removed from cart")
}

// UpdateQuantity handles setting a line quantity
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	var req UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid quantity input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	view, err := h.cartUC.UpdateQuantity(c.Request().Context(), c.Param("productId"), req.Quantity)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Quantity updated")
}

// ApplyDiscount handles applying a discount code to a cart line
func (h *CartHandler) ApplyDiscount(c echo.Context) error {
	var req ApplyDiscountRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid discount input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	view, err := h.cartUC.ApplyDiscount(c.Request().Context(), c.Param("productId"), req.Code)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Discount applied")
}

// RemoveDiscount handles clearing a line discount
func (h *CartHandler) RemoveDiscount(c echo.Context) error {
	view, err := h.cartUC.RemoveDiscount(c.Request().Context(), c.Param("productId"))
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Discount removed")
}

// SetDelivery handles the delivery provider selection
func (h *CartHandler) SetDelivery(c echo.Context) error {
	var req SetDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid delivery input")
	}

	view, err := h.cartUC.SetDeliveryQuote(c.Request().Context(), req.ProviderID)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Delivery selection updated")
}

// SetDestination handles the delivery point used for service-area filtering
func (h *CartHandler) SetDestination(c echo.Context) error {
	var req SetDestinationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid destination input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	view, err := h.cartUC.SetDeliveryDestination(c.Request().Context(), req.Longitude, req.Latitude)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view, "Delivery destination updated")
}

// GetCart handles retrieving the current cart view
func (h *CartHandler) GetCart(c echo.Context) error {
	view := h.cartUC.View(c.Request().Context())

	return response.Success(c, http.StatusOK, view, "Cart retrieved successfully")
}

// GetQuotes handles retrieving the current delivery ranking
func (h *CartHandler) GetQuotes(c echo.Context) error {
	quotes := h.cartUC.Quotes(c.Request().Context())

	return response.Success(c, http.StatusOK, quotes, "Delivery quotes retrieved successfully")
}

// ClearCart handles emptying the cart
func (h *CartHandler) ClearCart(c echo.Context) error {
	if err := h.cartUC.Clear(c.Request().Context()); err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Cart cleared"}, "Cart cleared successfully")
}

// handleAppError handles application errors
func (h *CartHandler) handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
