package handler

import (
	catalogapp "github.com/bookstore/backend/internal/application/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BookHandler serves the catalog endpoints
type BookHandler struct {
	BaseHandler
	books BookService
}

// NewBookHandler creates a BookHandler
func NewBookHandler(books BookService) *BookHandler {
	return &BookHandler{books: books}
}

// ListBooksQuery holds the catalog listing parameters
type ListBooksQuery struct {
	dto.PageRequest
	Search   string `form:"search" binding:"max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Create registers a book with its opening stock
// POST /books
func (h *BookHandler) Create(c *gin.Context) {
	userID, ok := h.ActingUser(c)
	if !ok {
		return
	}
	var req catalogapp.CreateBookRequest
	if !h.BindJSON(c, &req) {
		return
	}

	book, err := h.books.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, book)
}

// Get returns one book
// GET /books/:id
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	book, err := h.books.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, book)
}

// List pages through the books on sale
// GET /books
func (h *BookHandler) List(c *gin.Context) {
	var q ListBooksQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page := q.PageRequest.Normalize()

	filter := shared.DefaultFilter()
	filter.Page = page.Page
	filter.PageSize = page.PageSize
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		filter.OrderDir = q.OrderDir
	}
	if q.Search != "" {
		filter.Filters["search"] = q.Search
	}

	result, err := h.books.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, result)
}

// UpdatePrice changes a book's list price
// PUT /books/:id/price
func (h *BookHandler) UpdatePrice(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateBookPriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	book, err := h.books.UpdatePrice(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, book)
}

// Delete takes a book off sale
// DELETE /books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.books.SoftDelete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
