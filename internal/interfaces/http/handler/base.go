// Package handler maps HTTP requests onto the application services.
package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/logger"
	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/bookstore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.OK(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.OK(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated sends one page of items with its pagination meta
func Paginated[T any](c *gin.Context, page *shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.Page(page))
}

// Error sends an error response with an explicit status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.Fail(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// BindJSON binds and validates the request body. On failure it has already
// written the 400 response.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.bindingError(c, err)
		return false
	}
	return true
}

// BindQuery binds and validates query parameters
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.bindingError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) bindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]dto.ValidationDetail, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, dto.ValidationDetail{
				Field:   jsonFieldName(fe),
				Message: validationMessage(fe),
			})
		}
		c.JSON(http.StatusBadRequest, dto.Invalid(
			"Request validation failed",
			middleware.GetRequestID(c),
			details,
		))
		return
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
		return
	}
	h.BadRequest(c, "Malformed request body")
}

// ParseUUIDParam reads a UUID path parameter. On failure it has already
// written the 400 response.
func (h *BaseHandler) ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// ActingUser returns the authenticated user's id
func (h *BaseHandler) ActingUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetJWTUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// HandleError converts an application error into the HTTP response. Domain
// errors keep their code; anything else is logged and reported as a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.Fail(
			domainErr.Code,
			domainErr.Message,
			middleware.GetRequestID(c),
		))
		return
	}

	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
	_ = c.Error(err)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// jsonFieldName reports the JSON name of a failing field, falling back to the
// struct field name
func jsonFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return toSnake(ns)
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && (s[i-1] >= 'a' && s[i-1] <= 'z' || s[i-1] >= '0' && s[i-1] <= '9') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if fe.Kind() == reflect.String {
			return "Must be at least " + fe.Param() + " characters"
		}
		if fe.Kind() == reflect.Slice {
			return "Must contain at least " + fe.Param() + " item(s)"
		}
		return "Must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "Must be at most " + fe.Param() + " characters"
		}
		return "Must be at most " + fe.Param()
	case "gt":
		return "Must be greater than " + fe.Param()
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}
