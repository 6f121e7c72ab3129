package trade

import (
	"testing"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	all := []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping, OrderStatusCompleted, OrderStatusCancelled}
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
		OrderStatusConfirmed: {OrderStatusShipping, OrderStatusCancelled},
		OrderStatusShipping:  {OrderStatusCompleted, OrderStatusCancelled},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusShipping.IsTerminal())
}

func newPendingOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOnlineOrder(uuid.New(), PaymentMethodCashOnDelivery)
	require.NoError(t, err)
	require.NoError(t, o.AddDetail(uuid.New(), "A", 2, decimal.NewFromInt(20)))
	require.NoError(t, o.AddDetail(uuid.New(), "B", 1, decimal.NewFromInt(40)))
	o.SetShippingAddress(OrderShippingAddress{RecipientName: "Ann", Street: "1 Main", City: "Hue"})
	return o
}

func TestOrder_Totals(t *testing.T) {
	o := newPendingOrder(t)
	assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(80)))
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, 3, o.TotalQuantity())

	require.NoError(t, o.ApplyDiscount(uuid.New(), "SPRING10", decimal.NewFromInt(8)))
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(72)))
	assert.Equal(t, "SPRING10", o.PromotionCode)

	err := o.ApplyDiscount(uuid.New(), "TOOBIG", decimal.NewFromInt(81))
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestOrder_AddDetail(t *testing.T) {
	o, err := NewOnlineOrder(uuid.New(), PaymentMethodCard)
	require.NoError(t, err)
	bookID := uuid.New()

	require.NoError(t, o.AddDetail(bookID, "A", 1, decimal.NewFromInt(5)))
	assert.ErrorIs(t, o.AddDetail(bookID, "A", 1, decimal.NewFromInt(5)), shared.ErrValidation)
	assert.ErrorIs(t, o.AddDetail(uuid.New(), "B", 0, decimal.NewFromInt(5)), shared.ErrValidation)
	assert.ErrorIs(t, o.AddDetail(uuid.New(), "C", 1, decimal.NewFromInt(-5)), shared.ErrValidation)
	assert.Equal(t, o.ID, o.Details[0].OrderID)
}

func TestOrder_Place(t *testing.T) {
	t.Run("online order stays pending", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Place())
		assert.Equal(t, OrderStatusPending, o.Status)
		assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
		require.Len(t, o.PendingEvents(), 1)
		assert.Equal(t, EventTypeOrderPlaced, o.PendingEvents()[0].EventType())
	})

	t.Run("online order needs an address", func(t *testing.T) {
		o, err := NewOnlineOrder(uuid.New(), PaymentMethodCard)
		require.NoError(t, err)
		require.NoError(t, o.AddDetail(uuid.New(), "A", 1, decimal.NewFromInt(5)))
		assert.ErrorIs(t, o.Place(), shared.ErrValidation)
	})

	t.Run("empty order", func(t *testing.T) {
		o, err := NewOnlineOrder(uuid.New(), PaymentMethodCard)
		require.NoError(t, err)
		assert.ErrorIs(t, o.Place(), shared.ErrValidation)
	})

	t.Run("in-store order completes immediately", func(t *testing.T) {
		o, err := NewInStoreOrder(uuid.New(), nil, PaymentMethodCash)
		require.NoError(t, err)
		require.NoError(t, o.AddDetail(uuid.New(), "A", 1, decimal.NewFromInt(5)))
		require.NoError(t, o.Place())
		assert.Equal(t, OrderStatusCompleted, o.Status)
		assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
		assert.NotNil(t, o.CompletedAt)
		assert.Nil(t, o.UserID)
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.Place())
	o.ClearEvents()

	require.NoError(t, o.TransitionTo(OrderStatusConfirmed))
	require.NoError(t, o.TransitionTo(OrderStatusShipping))
	require.NoError(t, o.TransitionTo(OrderStatusCancelled))
	assert.NotNil(t, o.CancelledAt)
	assert.Len(t, o.PendingEvents(), 3)

	err := o.TransitionTo(OrderStatusCancelled)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	err = o.TransitionTo(OrderStatus("LOST"))
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestOrder_TransitionTo_Completed(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.TransitionTo(OrderStatusConfirmed))
	require.NoError(t, o.TransitionTo(OrderStatusShipping))
	require.NoError(t, o.TransitionTo(OrderStatusCompleted))
	assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
	assert.ErrorIs(t, o.TransitionTo(OrderStatusCancelled), shared.ErrInvalidState)
}

func TestNewOrder_InvalidInput(t *testing.T) {
	_, err := NewOnlineOrder(uuid.Nil, PaymentMethodCard)
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = NewOnlineOrder(uuid.New(), PaymentMethod("BARTER"))
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = NewInStoreOrder(uuid.Nil, nil, PaymentMethodCash)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestOrder_IsOwnedBy(t *testing.T) {
	userID := uuid.New()
	o, err := NewOnlineOrder(userID, PaymentMethodCard)
	require.NoError(t, err)
	assert.True(t, o.IsOwnedBy(userID))
	assert.False(t, o.IsOwnedBy(uuid.New()))

	walkIn, err := NewInStoreOrder(uuid.New(), nil, PaymentMethodCash)
	require.NoError(t, err)
	assert.False(t, walkIn.IsOwnedBy(userID))
}

func TestAddress_Snapshot(t *testing.T) {
	a, err := NewAddress(uuid.New(), "Ann", "0900", "1 Main", "V", "D", "Hue")
	require.NoError(t, err)
	snap := a.Snapshot()
	a.Street = "2 Side"
	assert.Equal(t, "1 Main", snap.Street)
	assert.Equal(t, "Hue", snap.City)

	_, err = NewAddress(uuid.New(), "", "", "", "", "", "")
	assert.ErrorIs(t, err, shared.ErrValidation)
}
