package trade

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipping  OrderStatus = "SHIPPING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true once no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can move to target. The machine only
// moves forward; cancellation is allowed from every non-terminal state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusShipping || target == OrderStatusCancelled
	case OrderStatusShipping:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusCompleted, OrderStatusCancelled:
		return false
	}
	return false
}

// OrderType distinguishes storefront orders from counter sales
type OrderType string

const (
	OrderTypeOnline  OrderType = "ONLINE"
	OrderTypeInStore OrderType = "IN_STORE"
)

// IsValid checks if the type is known
func (t OrderType) IsValid() bool {
	return t == OrderTypeOnline || t == OrderTypeInStore
}

// PaymentMethod is how the customer pays. Settlement happens outside this service.
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "COD"
	PaymentMethodCash           PaymentMethod = "CASH"
	PaymentMethodCard           PaymentMethod = "CARD"
	PaymentMethodBankTransfer   PaymentMethod = "BANK_TRANSFER"
	PaymentMethodEWallet        PaymentMethod = "E_WALLET"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCashOnDelivery, PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodEWallet:
		return true
	}
	return false
}

// PaymentStatus records whether the order has been paid
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)
