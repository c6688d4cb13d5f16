package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddItem_MergesQuantities(t *testing.T) {
	fx := newCartFixture(t)
	ctx := context.Background()

	_, err := fx.cart.AddItem(ctx, "sku-grinder", 2)
	require.NoError(t, err)

	view, err := fx.cart.AddItem(ctx, "sku-grinder", 3)
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	assert.Equal(t, 5, view.Lines[0].Quantity)
	assert.InDelta(t, 1250.0, view.Totals.Subtotal, 1e-9)
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	fx := newCartFixture(t)

	_, err := fx.cart.AddItem(context.Background(), "sku-missing", 1)
	assertErrorCode(t, err, "PRODUCT_NOT_FOUND")
}

func TestCartService_AddItem_RejectsBadQuantity(t *testing.T) {
	fx := newCartFixture(t)

	for _, quantity := range []int{0, -3} {
		_, err := fx.cart.AddItem(context.Background(), "sku-grinder", quantity)
		assertErrorCode(t, err, "INVALID_QUANTITY")
	}
}

func TestCartService_UpdateQuantity(t *testing.T) {
	fx := newCartFixture(t)
	ctx := context.Background()

	_, err := fx.cart.AddItem(ctx, "sku-grinder", 2)
	require.NoError(t, err)

	view, err := fx.cart.UpdateQuantity(ctx, "sku-grinder", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Lines[0].Quantity)

	// Below one is rejected, never coerced.
	_, err = fx.cart.UpdateQuantity(ctx, "sku-grinder", 0)
	assertErrorCode(t, err, "INVALID_QUANTITY")

	line, _ := fx.session.FindLine("sku-grinder")
	assert.Equal(t, 1, line.Quantity)

	_, err = fx.cart.UpdateQuantity(ctx, "sku-missing", 2)
	assertErrorCode(t, err, "LINE_NOT_FOUND")
}

func TestCartService_RemoveItem_AbsentIsNoop(t *testing.T) {
	fx := newCartFixture(t)
	ctx := context.Background()

	_, err := fx.cart.AddItem(ctx, "sku-grinder", 1)
	require.NoError(t, err)

	view, err := fx.cart.RemoveItem(ctx, "sku-espresso")
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)

	view, err = fx.cart.RemoveItem(ctx, "sku-grinder")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestCartService_ApplyDiscount(t *testing.T) {
	fx := newCartFixture(t)
	ctx := context.Background()

	_, err := fx.cart.AddItem(ctx, "sku-espresso", 2)
	require.NoError(t, err)

	view, err := fx.cart.ApplyDiscount(ctx, "sku-espresso", "STAFF10")
	require.NoError(t, err)

	require.NotNil(t, view.Lines[0].Discount)
	assert.InDelta(t, 200.0, view.Totals.TotalDiscount, 1e-9)
	// Tax applies to the discounted base, not the gross.
	assert.InDelta(t, (2000.0-200.0)*0.075, view.Totals.TotalTax, 1e-9)

	view, err = fx.cart.RemoveDiscount(ctx, "sku-espresso")
	require.NoError(t, err)
	assert.Nil(t, view.Lines[0].Discount)
	assert.Zero(t, view.Totals.TotalDiscount)
}

func TestCartService_ApplyDiscount_UnknownCode(t *testing.T) {
	fx := newCartFixture(t)
	ctx := context.Background()

	_, err := fx.cart.AddItem(ctx, "sku-espresso", 1)
	require.NoError(t, err)

	_, err = fx.cart.ApplyDiscount(ctx, "sku-espresso", "NOPE")
	assertErrorCode(t, err, "VALIDATION_FAILED")

	_, err = fx.cart.ApplyDiscount(ctx, "sku-missing", "STAFF10")
	assertErrorCode(t, err, "LINE_NOT_FOUND")
}

func TestCartService_SmartSelectionPrefersLocal(t *testing.T) {
	fx := newCartFixture(t)
	ctx := context.Background()

	view, err := fx.cart.AddItem(ctx, "sku-espresso", 2)
	require.NoError(t, err)

	require.NotEmpty(t, view.Quotes)
	require.NotNil(t, view.SelectedQuote)
	assert.Equal(t, "swift-local", view.SelectedQuote.ProviderID)
	assert.Equal(t, "swift-local", view.Quotes[0].ProviderID)
	assert.InDelta(t, view.SelectedQuote.Cost, view.Totals.DeliveryCost, 1e-9)
}

func TestCartService_ManualSelectionAndNone(t *testing.T) {
	fx := newCartFixture(t)
	ctx := context.Background()

	_, err := fx.cart.AddItem(ctx, "sku-grinder", 1)
	require.NoError(t, err)

	globex := "globex"
	view, err := fx.cart.SetDeliveryQuote(ctx, &globex)
	require.NoError(t, err)
	require.NotNil(t, view.SelectedQuote)
	assert.Equal(t, "globex", view.SelectedQuote.ProviderID)

	// A manual choice sticks through later mutations.
	view, err = fx.cart.AddItem(ctx, "sku-espresso", 1)
	require.NoError(t, err)
	require.NotNil(t, view.SelectedQuote)
	assert.Equal(t, "globex", view.SelectedQuote.ProviderID)

	// nil means the caller declined delivery.
	view, err = fx.cart.SetDeliveryQuote(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, view.SelectedQuote)
	assert.Zero(t, view.Totals.DeliveryCost)

	unknown := "carrier-pigeon"
	_, err = fx.cart.SetDeliveryQuote(ctx, &unknown)
	assertErrorCode(t, err, "PROVIDER_NOT_FOUND")
}

func TestCartService_ManualSelectionFallsBackWhenProviderDrops(t *testing.T) {
	fx := newCartFixture(t)
	ctx := context.Background()

	_, err := fx.cart.AddItem(ctx, "sku-grinder", 1)
	require.NoError(t, err)

	globex := "globex"
	_, err = fx.cart.SetDeliveryQuote(ctx, &globex)
	require.NoError(t, err)

	// Moving the destination outside globex's service area drops it from
	// the ranking; selection falls back to the automatic pick.
	view, err := fx.cart.SetDeliveryDestination(ctx, 50, 50)
	require.NoError(t, err)

	require.NotNil(t, view.SelectedQuote)
	assert.Equal(t, "swift-local", view.SelectedQuote.ProviderID)
	for _, q := range view.Quotes {
		assert.NotEqual(t, "globex", q.ProviderID)
	}
}

func TestCartService_Clear(t *testing.T) {
	fx := newCartFixture(t)
	ctx := context.Background()

	_, err := fx.cart.AddItem(ctx, "sku-espresso", 1)
	require.NoError(t, err)

	require.NoError(t, fx.cart.Clear(ctx))

	view := fx.cart.View(ctx)
	assert.Empty(t, view.Lines)
	assert.Nil(t, view.SelectedQuote)
	assert.Zero(t, view.Totals.Subtotal)
	assert.Zero(t, view.Totals.Total)
}

func TestCartService_PersistFailureDoesNotBlockMutations(t *testing.T) {
	fx := newCartFixture(t)
	fx.sync.persistErr = assert.AnError

	view, err := fx.cart.AddItem(context.Background(), "sku-grinder", 1)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
	assert.Positive(t, fx.sync.persistCalls)
}
