package trade

import (
	"context"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository persists orders together with their lines and address snapshot
type OrderRepository interface {
	// Create inserts a new order, its details and shipping address
	Create(ctx context.Context, order *Order) error

	// FindByID loads an order with details and shipping address
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate loads an order and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByUser lists a customer's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, int64, error)

	// UpdateStatus persists status fields when the stored version equals expectedVersion
	UpdateStatus(ctx context.Context, order *Order, expectedVersion int) error
}

// CartRepository reads and clears shopping carts
type CartRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) ([]CartItem, error)
	Save(ctx context.Context, item *CartItem) error
	ClearForUser(ctx context.Context, userID uuid.UUID) error
}

// AddressRepository reads saved addresses
type AddressRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)
	Save(ctx context.Context, address *Address) error
}
