package trade

import (
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CartItem is a pending line in a user's cart, keyed by (UserID, BookID)
type CartItem struct {
	UserID    uuid.UUID
	BookID    uuid.UUID
	Quantity  int
	UpdatedAt time.Time
}

// NewCartItem creates a cart line
func NewCartItem(userID, bookID uuid.UUID, quantity int) (*CartItem, error) {
	if userID == uuid.Nil || bookID == uuid.Nil {
		return nil, shared.NewValidationError("cart item requires a user and a book")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("cart quantity must be positive")
	}
	return &CartItem{
		UserID:    userID,
		BookID:    bookID,
		Quantity:  quantity,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// Address is a saved delivery address owned by a user
type Address struct {
	shared.Identity
	UserID        uuid.UUID
	RecipientName string
	Phone         string
	Street        string
	Village       string
	District      string
	City          string
	IsDefault     bool
}

// NewAddress creates a saved address
func NewAddress(userID uuid.UUID, recipient, phone, street, village, district, city string) (*Address, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("address requires a user")
	}
	if recipient == "" || street == "" || city == "" {
		return nil, shared.NewValidationError("recipient, street and city are required")
	}
	return &Address{
		Identity:      shared.NewIdentity(),
		UserID:        userID,
		RecipientName: recipient,
		Phone:         phone,
		Street:        street,
		Village:       village,
		District:      district,
		City:          city,
	}, nil
}

// Snapshot copies the address into an order-owned shipping address
func (a *Address) Snapshot() OrderShippingAddress {
	return OrderShippingAddress{
		RecipientName: a.RecipientName,
		Phone:         a.Phone,
		Street:        a.Street,
		Village:       a.Village,
		District:      a.District,
		City:          a.City,
	}
}
