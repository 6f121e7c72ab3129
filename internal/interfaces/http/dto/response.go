package dto

import "github.com/bookstore/backend/internal/domain/shared"

// Response is the envelope every endpoint answers with
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo is the body of a failed response
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail names one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta describes the page a list response carries
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Page unwraps a paginated result into data plus meta
func Page[T any](p *shared.Paginated[T]) Response {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return Response{
		Success: true,
		Data:    items,
		Meta:    &Meta{Total: p.Total, Page: p.Page, PageSize: p.PageSize, TotalPages: p.TotalPages},
	}
}

func Fail(code, message, requestID string) Response {
	return Response{Error: &ErrorInfo{Code: code, Message: message, RequestID: requestID}}
}

// Invalid is a VALIDATION_ERROR listing each rejected field
func Invalid(message, requestID string, details []ValidationDetail) Response {
	r := Fail(ErrCodeValidation, message, requestID)
	r.Error.Details = details
	return r
}

// PageRequest binds ?page= and ?page_size=
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Normalize fills in page 1 and twenty rows for absent parameters
func (p PageRequest) Normalize() PageRequest {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = 20
	}
	return p
}
