package trade

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	appinv "github.com/bookstore/backend/internal/application/inventory"
	apppromo "github.com/bookstore/backend/internal/application/promotion"
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/domain/promotion"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/domain/trade"
	"github.com/bookstore/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultSubmissionTTL is how long an idempotency key blocks repeat checkouts
const DefaultSubmissionTTL = 24 * time.Hour

// OrderService assembles orders and drives their status machine. Every
// operation that touches stock runs in a single transaction through the
// StockMutator.
type OrderService struct {
	scope          appinv.TransactionScope
	mutator        *appinv.StockMutator
	validator      *apppromo.Validator
	guard          SubmissionGuard
	submissionTTL  time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	scope appinv.TransactionScope,
	mutator *appinv.StockMutator,
	validator *apppromo.Validator,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validator == nil {
		validator = apppromo.NewValidator()
	}
	return &OrderService{
		scope:         scope,
		mutator:       mutator,
		validator:     validator,
		submissionTTL: DefaultSubmissionTTL,
		logger:        logger,
	}
}

// SetEventPublisher sets the publisher notified after orders commit
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetSubmissionGuard enables idempotent checkout
func (s *OrderService) SetSubmissionGuard(guard SubmissionGuard, ttl time.Duration) {
	s.guard = guard
	if ttl > 0 {
		s.submissionTTL = ttl
	}
}

// orderLine is a requested quantity of one book before pricing
type orderLine struct {
	bookID   uuid.UUID
	quantity int
}

// CreateOnlineOrder converts the user's cart into a pending order. Stock is
// decremented, the cart emptied and the promotion consumed in the same
// transaction; any failure leaves no trace.
func (s *OrderService) CreateOnlineOrder(ctx context.Context, userID uuid.UUID, req CreateOnlineOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartOperation(ctx, "OrderService", "CreateOnlineOrder",
		telemetry.AttrOrderType.String(string(trade.OrderTypeOnline)),
	)
	defer span.End()

	if userID == uuid.Nil {
		return nil, shared.NewValidationError("user ID cannot be empty")
	}
	method := req.PaymentMethod
	if method == "" {
		method = trade.PaymentMethodCashOnDelivery
	}

	if req.IdempotencyKey != "" && s.guard != nil {
		key := "order:" + userID.String() + ":" + req.IdempotencyKey
		ok, err := s.guard.Reserve(ctx, key, s.submissionTTL)
		if err != nil {
			return nil, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if !ok {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "order with this idempotency key was already submitted")
		}
		resp, err := s.createOnlineOrder(ctx, userID, method, req)
		if err != nil {
			if relErr := s.guard.Release(ctx, key); relErr != nil {
				s.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(relErr))
			}
			telemetry.RecordError(span, err)
			return nil, err
		}
		return resp, nil
	}

	resp, err := s.createOnlineOrder(ctx, userID, method, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return resp, nil
}

func (s *OrderService) createOnlineOrder(ctx context.Context, userID uuid.UUID, method trade.PaymentMethod, req CreateOnlineOrderRequest) (*OrderResponse, error) {
	var (
		order *trade.Order
		logs  []*inventory.InventoryLog
	)

	var err error
	labels := telemetry.OperationLabels("create_order").With(telemetry.ProfilingLabelOrderType, string(trade.OrderTypeOnline))
	labels.Do(ctx, func(c context.Context) {
		err = s.scope.Execute(c, func(repos appinv.TransactionalRepositories) error {
			logs = nil

			cart, err := repos.CartRepo().FindByUser(c, userID)
			if err != nil {
				return fmt.Errorf("load cart: %w", err)
			}
			if len(cart) == 0 {
				return shared.NewValidationError("cart is empty")
			}
			lines := make([]orderLine, len(cart))
			for i, item := range cart {
				lines[i] = orderLine{bookID: item.BookID, quantity: item.Quantity}
			}

			address, err := repos.AddressRepo().FindByID(c, req.ShippingAddressID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("load address: %w", err)
			}
			if address == nil || address.UserID != userID {
				return shared.NewNotFoundError("address", req.ShippingAddressID)
			}

			books, err := s.loadSellableBooks(c, repos, lines)
			if err != nil {
				return err
			}

			order, err = trade.NewOnlineOrder(userID, method)
			if err != nil {
				return err
			}
			if err := addPricedLines(order, lines, books); err != nil {
				return err
			}
			order.SetShippingAddress(address.Snapshot())

			promo, err := s.applyPromotion(c, repos, order, req.PromotionCode)
			if err != nil {
				return err
			}

			if err := order.Place(); err != nil {
				return err
			}
			if err := repos.OrderRepo().Create(c, order); err != nil {
				return fmt.Errorf("save order: %w", err)
			}

			logs, err = s.decrementStock(c, repos, order, inventory.ReasonOnlineSale, userID)
			if err != nil {
				return err
			}

			if err := repos.CartRepo().ClearForUser(c, userID); err != nil {
				return fmt.Errorf("clear cart: %w", err)
			}

			// Usage is consumed last so an exhausted code aborts before commit.
			if promo != nil {
				if err := repos.PromotionRepo().IncrementUsage(c, promo.ID); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		s.logFailure("create online order", err, zap.String("user_id", userID.String()))
		return nil, err
	}

	telemetry.Annotate(trace.SpanFromContext(ctx),
		telemetry.AttrOrderID.String(order.ID.String()),
		telemetry.AttrPromotionCode.String(order.PromotionCode),
	)
	s.publish(ctx, order, logs)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// CreateInStoreOrder records a counter sale. The order is completed and paid
// on creation.
func (s *OrderService) CreateInStoreOrder(ctx context.Context, staffUserID uuid.UUID, req CreateInStoreOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartOperation(ctx, "OrderService", "CreateInStoreOrder",
		telemetry.AttrOrderType.String(string(trade.OrderTypeInStore)),
	)
	defer span.End()

	if len(req.Lines) == 0 {
		return nil, shared.NewValidationError("order must have at least one line")
	}
	lines, err := mergeLines(req.Lines)
	if err != nil {
		return nil, err
	}

	var (
		order *trade.Order
		logs  []*inventory.InventoryLog
	)
	labels := telemetry.OperationLabels("create_order").With(telemetry.ProfilingLabelOrderType, string(trade.OrderTypeInStore))
	labels.Do(ctx, func(c context.Context) {
		err = s.scope.Execute(c, func(repos appinv.TransactionalRepositories) error {
			logs = nil

			books, err := s.loadSellableBooks(c, repos, lines)
			if err != nil {
				return err
			}

			order, err = trade.NewInStoreOrder(staffUserID, req.CustomerUserID, req.PaymentMethod)
			if err != nil {
				return err
			}
			if err := addPricedLines(order, lines, books); err != nil {
				return err
			}

			promo, err := s.applyPromotion(c, repos, order, req.PromotionCode)
			if err != nil {
				return err
			}

			if err := order.Place(); err != nil {
				return err
			}
			if err := repos.OrderRepo().Create(c, order); err != nil {
				return fmt.Errorf("save order: %w", err)
			}

			logs, err = s.decrementStock(c, repos, order, inventory.ReasonInStoreSale, staffUserID)
			if err != nil {
				return err
			}

			if promo != nil {
				if err := repos.PromotionRepo().IncrementUsage(c, promo.ID); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logFailure("create in-store order", err, zap.String("user_id", staffUserID.String()))
		return nil, err
	}

	telemetry.Annotate(span, telemetry.AttrOrderID.String(order.ID.String()))
	s.publish(ctx, order, logs)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// UpdateOrderStatus moves an order to newStatus. It returns false when the
// order does not exist. Moving to CANCELLED returns every line's quantity to
// stock.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus trade.OrderStatus, actingUserID uuid.UUID) (bool, error) {
	ctx, span := telemetry.StartOperation(ctx, "OrderService", "UpdateOrderStatus",
		telemetry.AttrOrderID.String(orderID.String()),
		telemetry.AttrOrderStatus.String(newStatus.String()),
	)
	defer span.End()

	var (
		order *trade.Order
		logs  []*inventory.InventoryLog
		found = true
	)
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		logs = nil

		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				found = false
				return nil
			}
			return fmt.Errorf("load order: %w", err)
		}

		logs, err = s.transition(ctx, repos, order, newStatus, actingUserID)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logFailure("update order status", err,
			zap.String("order_id", orderID.String()),
			zap.String("user_id", actingUserID.String()),
		)
		return false, err
	}
	if !found {
		return false, nil
	}

	s.publish(ctx, order, logs)
	return true, nil
}

// CancelOrder lets a customer cancel their own order while it is still pending
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	ctx, span := telemetry.StartOperation(ctx, "OrderService", "CancelOrder",
		telemetry.AttrOrderID.String(orderID.String()),
	)
	defer span.End()

	var (
		order *trade.Order
		logs  []*inventory.InventoryLog
	)
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		logs = nil

		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("order", orderID)
			}
			return fmt.Errorf("load order: %w", err)
		}
		if !order.IsOwnedBy(userID) {
			return shared.NewNotFoundError("order", orderID)
		}
		if order.Status != trade.OrderStatusPending {
			return shared.NewValidationError("only pending orders can be cancelled, order is %s", order.Status)
		}

		logs, err = s.transition(ctx, repos, order, trade.OrderStatusCancelled, userID)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logFailure("cancel order", err,
			zap.String("order_id", orderID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, err
	}

	s.publish(ctx, order, logs)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByID returns an order. When requesterID is set the order must belong to it.
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID, requesterID *uuid.UUID) (*OrderResponse, error) {
	var order *trade.Order
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, orderID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("order", orderID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if requesterID != nil && !order.IsOwnedBy(*requesterID) {
		return nil, shared.NewNotFoundError("order", orderID)
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListByUser pages through a customer's orders, newest first
func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) (*shared.Paginated[OrderResponse], error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	var result shared.Paginated[OrderResponse]
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		orders, total, err := repos.OrderRepo().FindByUser(ctx, userID, shared.Filter{Page: page, PageSize: pageSize})
		if err != nil {
			return err
		}
		items := make([]OrderResponse, len(orders))
		for i := range orders {
			items[i] = ToOrderResponse(&orders[i])
		}
		result = shared.NewPaginated(items, total, page, pageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// transition applies the status change, persists it and, on cancellation,
// puts every line back into stock.
func (s *OrderService) transition(ctx context.Context, repos appinv.TransactionalRepositories, order *trade.Order, target trade.OrderStatus, actingUserID uuid.UUID) ([]*inventory.InventoryLog, error) {
	expectedVersion := order.Version
	if err := order.TransitionTo(target); err != nil {
		return nil, err
	}
	if err := repos.OrderRepo().UpdateStatus(ctx, order, expectedVersion); err != nil {
		return nil, err
	}
	if target != trade.OrderStatusCancelled {
		return nil, nil
	}

	var actor *uuid.UUID
	if actingUserID != uuid.Nil {
		actor = &actingUserID
	}
	logs := make([]*inventory.InventoryLog, 0, len(order.Details))
	for _, d := range sortedDetails(order) {
		entry, err := s.mutator.ApplyStockChange(ctx, repos, appinv.StockChange{
			BookID:  d.BookID,
			Delta:   d.Quantity,
			Reason:  inventory.ReasonOrderCancellation,
			OrderID: &order.ID,
			UserID:  actor,
		})
		if err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, nil
}

// loadSellableBooks checks every line's book exists, is on sale and has
// enough stock. It is a fast pre-check; the mutator re-checks under lock.
func (s *OrderService) loadSellableBooks(ctx context.Context, repos appinv.TransactionalRepositories, lines []orderLine) (map[uuid.UUID]*catalog.Book, error) {
	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.bookID
	}
	found, err := repos.BookRepo().FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	books := make(map[uuid.UUID]*catalog.Book, len(found))
	for i := range found {
		books[found[i].ID] = &found[i]
	}

	for _, l := range lines {
		book, ok := books[l.bookID]
		if !ok || !book.IsSellable() {
			return nil, shared.NewNotFoundError("book", l.bookID)
		}
		if !book.HasStock(l.quantity) {
			return nil, shared.NewDomainError(shared.CodeInsufficientStock,
				fmt.Sprintf("insufficient stock for %q: requested %d, available %d", book.Title, l.quantity, book.StockQuantity))
		}
	}
	return books, nil
}

// applyPromotion validates code against the order subtotal and records the
// discount. It returns nil when no code was supplied.
func (s *OrderService) applyPromotion(ctx context.Context, repos appinv.TransactionalRepositories, order *trade.Order, code *string) (*promotion.Promotion, error) {
	if code == nil || promotion.NormalizeCode(*code) == "" {
		return nil, nil
	}
	promo, discount, err := s.validator.Evaluate(ctx, repos.PromotionRepo(), *code, order.Subtotal)
	if err != nil {
		return nil, err
	}
	if err := order.ApplyDiscount(promo.ID, promo.Code, discount); err != nil {
		return nil, err
	}
	return promo, nil
}

// decrementStock takes every line out of stock in ascending book order so
// concurrent orders lock rows in the same sequence.
func (s *OrderService) decrementStock(ctx context.Context, repos appinv.TransactionalRepositories, order *trade.Order, reason inventory.Reason, actingUserID uuid.UUID) ([]*inventory.InventoryLog, error) {
	logs := make([]*inventory.InventoryLog, 0, len(order.Details))
	for _, d := range sortedDetails(order) {
		entry, err := s.mutator.ApplyStockChange(ctx, repos, appinv.StockChange{
			BookID:  d.BookID,
			Delta:   -d.Quantity,
			Reason:  reason,
			OrderID: &order.ID,
			UserID:  &actingUserID,
		})
		if err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, nil
}

func (s *OrderService) publish(ctx context.Context, order *trade.Order, logs []*inventory.InventoryLog) {
	events := append([]shared.DomainEvent{}, order.PendingEvents()...)
	events = append(events, appinv.StockEvents(logs)...)
	order.ClearEvents()
	appinv.PublishCommitted(ctx, s.eventPublisher, s.logger, events)
}

func (s *OrderService) logFailure(op string, err error, fields ...zap.Field) {
	if appinv.IsDomainError(err) {
		return
	}
	s.logger.Error(op+" failed", append(fields, zap.Error(err))...)
}

func addPricedLines(order *trade.Order, lines []orderLine, books map[uuid.UUID]*catalog.Book) error {
	for _, l := range lines {
		book := books[l.bookID]
		if err := order.AddDetail(book.ID, book.Title, l.quantity, book.Price); err != nil {
			return err
		}
	}
	return nil
}

func mergeLines(input []InStoreLineInput) ([]orderLine, error) {
	index := make(map[uuid.UUID]int, len(input))
	lines := make([]orderLine, 0, len(input))
	for _, in := range input {
		if in.Quantity <= 0 {
			return nil, shared.NewValidationError("quantity must be positive")
		}
		if i, ok := index[in.BookID]; ok {
			lines[i].quantity += in.Quantity
			continue
		}
		index[in.BookID] = len(lines)
		lines = append(lines, orderLine{bookID: in.BookID, quantity: in.Quantity})
	}
	return lines, nil
}

func sortedDetails(order *trade.Order) []trade.OrderDetail {
	details := append([]trade.OrderDetail(nil), order.Details...)
	sort.Slice(details, func(i, j int) bool {
		return details[i].BookID.String() < details[j].BookID.String()
	})
	return details
}
