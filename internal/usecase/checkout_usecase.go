package usecase

import (
	"context"

	"poscore/internal/domain/entity"
)

// CheckoutUsecase owns the transaction lifecycle: creation at checkout and
// the approval-gated terminal transitions.
type CheckoutUsecase interface {
	// Complete turns the current cart into an immutable Completed
	// transaction: it charges the payment device, assigns a unique,
	// completion-ordered id, persists the result and clears the cart.
	// On any failure nothing is recorded and the cart is left untouched.
	Complete(ctx context.Context, method entity.PaymentMethod, customerID string) (*entity.Transaction, error)

	// Void cancels a completed transaction before fulfillment.
	Void(ctx context.Context, transactionID string, approval entity.ApprovalRequest) (*entity.Transaction, error)

	// Return reverses a completed transaction after fulfillment.
	Return(ctx context.Context, transactionID string, approval entity.ApprovalRequest) (*entity.Transaction, error)

	// Transactions lists the ledger in completion order.
	Transactions(ctx context.Context) []entity.Transaction

	// Receipt builds the print payload for a transaction.
	Receipt(ctx context.Context, transactionID string) (*entity.Receipt, error)
}
