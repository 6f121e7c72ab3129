package handler

import (
	tradeapp "github.com/bookstore/backend/internal/application/trade"
	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/bookstore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader lets a client retry checkout without placing the
// order twice
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// OrderHandler serves checkout and the order lifecycle
type OrderHandler struct {
	BaseHandler
	orders OrderService
}

// NewOrderHandler creates an OrderHandler
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// OrderStatusResponse acknowledges a status change
type OrderStatusResponse struct {
	OrderID uuid.UUID `json:"order_id"`
	Status  string    `json:"status"`
}

// CreateOnline checks out the caller's cart
// POST /orders
func (h *OrderHandler) CreateOnline(c *gin.Context) {
	userID, ok := h.ActingUser(c)
	if !ok {
		return
	}
	var req tradeapp.CreateOnlineOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)
	if len(req.IdempotencyKey) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key is too long")
		return
	}

	order, err := h.orders.CreateOnlineOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// CreateInStore rings up a counter sale
// POST /orders/in-store
func (h *OrderHandler) CreateInStore(c *gin.Context) {
	staffID, ok := h.ActingUser(c)
	if !ok {
		return
	}
	var req tradeapp.CreateInStoreOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orders.CreateInStoreOrder(c.Request.Context(), staffID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// UpdateStatus moves an order through its lifecycle
// PUT /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	staffID, ok := h.ActingUser(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateOrderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	found, err := h.orders.UpdateOrderStatus(c.Request.Context(), orderID, req.Status, staffID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !found {
		h.NotFound(c, "Order not found")
		return
	}
	h.Success(c, OrderStatusResponse{OrderID: orderID, Status: req.Status.String()})
}

// Cancel lets a customer cancel their own pending order
// POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, ok := h.ActingUser(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.CancelOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Get returns one order. Customers only see their own.
// GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := h.ActingUser(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var requester *uuid.UUID
	if !middleware.GetJWTRole(c).IsStaff() {
		requester = &userID
	}
	order, err := h.orders.GetByID(c.Request.Context(), orderID, requester)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ListMine pages through the caller's orders
// GET /orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := h.ActingUser(c)
	if !ok {
		return
	}
	var q dto.PageRequest
	if !h.BindQuery(c, &q) {
		return
	}
	q = q.Normalize()

	result, err := h.orders.ListByUser(c.Request.Context(), userID, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, result)
}
