package handler

import (
	promotionapp "github.com/bookstore/backend/internal/application/promotion"
	"github.com/gin-gonic/gin"
)

// PromotionHandler serves promotion codes
type PromotionHandler struct {
	BaseHandler
	promotions PromotionService
}

// NewPromotionHandler creates a PromotionHandler
func NewPromotionHandler(promotions PromotionService) *PromotionHandler {
	return &PromotionHandler{promotions: promotions}
}

// Validate quotes the discount a code gives on a subtotal without using it
// POST /promotions/validate
func (h *PromotionHandler) Validate(c *gin.Context) {
	var req promotionapp.ValidatePromotionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	quote, err := h.promotions.ValidateAndCalculateDiscount(c.Request.Context(), req.Code, req.Subtotal)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Create defines a promotion
// POST /promotions
func (h *PromotionHandler) Create(c *gin.Context) {
	var req promotionapp.CreatePromotionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	promo, err := h.promotions.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, promo)
}

// Deactivate switches a promotion off
// POST /promotions/:id/deactivate
func (h *PromotionHandler) Deactivate(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	promo, err := h.promotions.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promo)
}
