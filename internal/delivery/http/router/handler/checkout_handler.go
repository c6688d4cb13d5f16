package handler

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"

	"poscore/internal/delivery/http/response"
	"poscore/internal/domain/entity"
	domainerrors "poscore/internal/domain/errors"
	"poscore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// CheckoutHandlerParams holds dependencies for CheckoutHandler, injected by Fx.
type CheckoutHandlerParams struct {
	fx.In

	CheckoutUC usecase.CheckoutUsecase
	Logger     *slog.Logger
}

// CheckoutHandler holds dependencies for transaction-lifecycle handlers
type CheckoutHandler struct {
	checkoutUC usecase.CheckoutUsecase
	logger     *slog.Logger
}

// NewCheckoutHandler is the constructor for CheckoutHandler
func NewCheckoutHandler(params CheckoutHandlerParams) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUC: params.CheckoutUC,
		logger:     params.Logger,
	}
}

// CheckoutRequest represents the request body for completing a sale
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
	CustomerID    string `json:"customer_id"`
}

// TransitionRequest represents the request body for voiding or returning
// a completed transaction
type TransitionRequest struct {
	Reason     string `json:"reason" validate:"required"`
	ApproverID string `json:"approver_id" validate:"required"`
	Credential string `json:"credential" validate:"required"`
}

// ReceiptView wraps a receipt with its QR payload encoded for JSON transport
type ReceiptView struct {
	Transaction entity.Transaction `json:"transaction"`
	QRCode      string             `json:"qr_code,omitempty"` // base64 PNG
}

// Checkout handles turning the cart into a completed transaction
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkout input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	tx, err := h.checkoutUC.Complete(c.Request().Context(), entity.PaymentMethod(req.PaymentMethod), req.CustomerID)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, tx, "Checkout completed")
}

// Void handles cancelling a completed transaction before fulfillment
func (h *CheckoutHandler) Void(c echo.Context) error {
	return h.transition(c, h.checkoutUC.Void, "Transaction voided")
}

// Return handles reversing a completed transaction after fulfillment
func (h *CheckoutHandler) Return(c echo.Context) error {
	return h.transition(c, h.checkoutUC.Return, "Transaction returned")
}

func (h *CheckoutHandler) transition(
	c echo.Context,
	apply func(ctx context.Context, id string, approval entity.ApprovalRequest) (*entity.Transaction, error),
	message string,
) error {
	var req TransitionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid transition input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	tx, err := apply(c.Request().Context(), c.Param("id"), entity.ApprovalRequest{
		Reason:     req.Reason,
		ApproverID: req.ApproverID,
		Credential: req.Credential,
	})
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, tx, message)
}

// ListTransactions handles listing the ledger in completion order
func (h *CheckoutHandler) ListTransactions(c echo.Context) error {
	transactions := h.checkoutUC.Transactions(c.Request().Context())

	return response.Success(c, http.StatusOK, transactions, "Transactions retrieved successfully")
}

// GetReceipt handles building the receipt payload for a transaction
func (h *CheckoutHandler) GetReceipt(c echo.Context) error {
	receipt, err := h.checkoutUC.Receipt(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.handleAppError(c, err)
	}

	view := &ReceiptView{Transaction: receipt.Transaction}
	if len(receipt.QRCode) > 0 {
		view.QRCode = base64.StdEncoding.EncodeToString(receipt.QRCode)
	}

	return response.Success(c, http.StatusOK, view, "Receipt retrieved successfully")
}

// handleAppError handles application errors
func (h *CheckoutHandler) handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
