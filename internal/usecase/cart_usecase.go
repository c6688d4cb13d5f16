// Package usecase declares the engine's application-facing interfaces.
package usecase

import (
	"context"

	"poscore/internal/domain/entity"
	"poscore/internal/pricing"
)

// CartView is the caller-facing snapshot of the active cart: its lines, the
// current ranking, the selected quote and the derived totals.
type CartView struct {
	Lines         []entity.CartLine      `json:"lines"`
	Quotes        []entity.DeliveryQuote `json:"quotes"`
	SelectedQuote *entity.DeliveryQuote  `json:"selected_quote,omitempty"`
	Totals        pricing.Totals         `json:"totals"`
}

// CartUsecase is the session-scoped mutable cart. Every mutation recomputes
// the delivery ranking and totals synchronously before returning.
type CartUsecase interface {
	// AddItem merges quantity into an existing line for the product or
	// creates a new one. Quantity must be >= 1.
	AddItem(ctx context.Context, productID string, quantity int) (*CartView, error)

	// RemoveItem deletes the line; removing an absent line is a no-op.
	RemoveItem(ctx context.Context, productID string) (*CartView, error)

	// UpdateQuantity sets the line quantity. Quantities below 1 are
	// rejected, never coerced.
	UpdateQuantity(ctx context.Context, productID string, quantity int) (*CartView, error)

	// ApplyDiscount resolves a discount-catalog code onto the line.
	ApplyDiscount(ctx context.Context, productID, discountCode string) (*CartView, error)

	// RemoveDiscount clears the line's discount.
	RemoveDiscount(ctx context.Context, productID string) (*CartView, error)

	// SetDeliveryQuote overrides the scorer's auto-selection with an
	// explicit provider choice; nil clears the selection.
	SetDeliveryQuote(ctx context.Context, providerID *string) (*CartView, error)

	// SetDeliveryDestination sets the lon/lat delivery point used for
	// provider service-area filtering.
	SetDeliveryDestination(ctx context.Context, lon, lat float64) (*CartView, error)

	// Quotes returns the current ranking without mutating anything.
	Quotes(ctx context.Context) []entity.DeliveryQuote

	// View returns the current cart state and totals without mutating.
	View(ctx context.Context) *CartView

	// Clear empties the lines and the delivery selection.
	Clear(ctx context.Context) error
}
