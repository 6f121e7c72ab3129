package dto

import (
	"net/http"
	"testing"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestInvalid(t *testing.T) {
	resp := Invalid("bad input", "req-1", []ValidationDetail{{Field: "quantity", Message: "Must be greater than 0"}})

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}

func TestPageRequest_Normalize(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, PageSize: 20}, PageRequest{}.Normalize())
	assert.Equal(t, PageRequest{Page: 3, PageSize: 5}, PageRequest{Page: 3, PageSize: 5}.Normalize())
}

func TestPage(t *testing.T) {
	resp := Page(&shared.Paginated[string]{Total: 0, Page: 1, PageSize: 20})

	assert.True(t, resp.Success)
	assert.Equal(t, []string{}, resp.Data)
	assert.Equal(t, &Meta{Page: 1, PageSize: 20}, resp.Meta)

	full := shared.NewPaginated([]string{"a", "b"}, 41, 2, 20)
	assert.Equal(t, 3, Page(&full).Meta.TotalPages)
}
