package handler

import (
	"net/http"
	"testing"

	catalogapp "github.com/bookstore/backend/internal/application/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBookRouter(svc *mockBookService, userID uuid.UUID) *gin.Engine {
	h := NewBookHandler(svc)
	r := newTestRouter(asUser(userID, auth.RoleStaff))
	r.POST("/books", h.Create)
	r.GET("/books", h.List)
	r.GET("/books/:id", h.Get)
	r.PUT("/books/:id/price", h.UpdatePrice)
	r.DELETE("/books/:id", h.Delete)
	return r
}

func TestBookHandler_Create(t *testing.T) {
	userID := uuid.New()
	svc := new(mockBookService)
	r := newBookRouter(svc, userID)

	created := &catalogapp.BookResponse{ID: uuid.New(), Title: "Dune", Price: decimal.RequireFromString("9.99"), StockQuantity: 12}
	svc.On("Create", mock.Anything, userID, mock.MatchedBy(func(req catalogapp.CreateBookRequest) bool {
		return req.Title == "Dune" && req.Price.Equal(decimal.RequireFromString("9.99")) && req.InitialStock == 12
	})).Return(created, nil)

	w := doJSON(r, http.MethodPost, "/books", map[string]any{"title": "Dune", "author": "Frank Herbert", "price": "9.99", "initial_stock": 12})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.EqualValues(t, 12, decodeResponse(t, w).Data.(map[string]any)["stock_quantity"])
	svc.AssertExpectations(t)
}

func TestBookHandler_Create_NegativeStock(t *testing.T) {
	svc := new(mockBookService)
	r := newBookRouter(svc, uuid.New())

	w := doJSON(r, http.MethodPost, "/books", map[string]any{"title": "Dune", "price": "9.99", "initial_stock": -1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "initial_stock", resp.Error.Details[0].Field)
}

func TestBookHandler_List_PassesFilter(t *testing.T) {
	svc := new(mockBookService)
	r := newBookRouter(svc, uuid.New())

	page := shared.NewPaginated([]catalogapp.BookResponse{{Title: "Dune"}}, 1, 1, 5)
	svc.On("List", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 5 && f.Filters["search"] == "dune" && f.OrderBy == "price" && f.OrderDir == "asc"
	})).Return(&page, nil)

	w := doJSON(r, http.MethodGet, "/books?page_size=5&search=dune&order_by=price&order_dir=asc", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestBookHandler_List_RejectsHugePage(t *testing.T) {
	r := newBookRouter(new(mockBookService), uuid.New())

	w := doJSON(r, http.MethodGet, "/books?page_size=1000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookHandler_Get(t *testing.T) {
	svc := new(mockBookService)
	r := newBookRouter(svc, uuid.New())
	missing := uuid.New()
	svc.On("GetByID", mock.Anything, missing).Return(nil, shared.NewNotFoundError("book", missing))

	w := doJSON(r, http.MethodGet, "/books/"+missing.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/books/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookHandler_UpdatePrice(t *testing.T) {
	svc := new(mockBookService)
	r := newBookRouter(svc, uuid.New())
	id := uuid.New()
	svc.On("UpdatePrice", mock.Anything, id, mock.Anything).
		Return(nil, shared.NewValidationError("price must be greater than zero"))

	w := doJSON(r, http.MethodPut, "/books/"+id.String()+"/price", map[string]any{"price": "0"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookHandler_Delete(t *testing.T) {
	svc := new(mockBookService)
	r := newBookRouter(svc, uuid.New())
	id := uuid.New()
	svc.On("SoftDelete", mock.Anything, id).Return(nil)

	w := doJSON(r, http.MethodDelete, "/books/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
