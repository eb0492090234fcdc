package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodlens/backend/internal/safety"
	"github.com/foodlens/backend/internal/service"
)

// SafetyChecker is the evaluation surface the safety handler needs.
type SafetyChecker interface {
	CheckBarcode(ctx context.Context, userID uuid.UUID, code string) (*service.CheckResult, error)
	CheckProduct(ctx context.Context, userID uuid.UUID, product safety.Product) ([]safety.Warning, error)
	CheckCart(ctx context.Context, userID uuid.UUID, codes []string) ([]string, error)
}

type SafetyHandler struct {
	checker SafetyChecker
}

func NewSafetyHandler(checker SafetyChecker) *SafetyHandler {
	return &SafetyHandler{checker: checker}
}

func (h *SafetyHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/products/:code/safety", h.CheckProductByBarcode)
	router.POST("/safety/check", h.CheckInlineProduct)
	router.POST("/cart/safety", h.CheckCart)
}

func (h *SafetyHandler) CheckProductByBarcode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.checker.CheckBarcode(c.Request.Context(), userID, c.Param("code"))
	if err != nil {
		h.writeCheckError(c, err)
		return
	}
	result.Warnings = warningsOrEmpty(result.Warnings)

	c.JSON(http.StatusOK, result)
}

func (h *SafetyHandler) CheckInlineProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req InlineSafetyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product := safety.Product{
		Nutrients: req.Nutrients,
		Allergens: req.Allergens,
		Quantity:  req.Quantity,
	}
	warnings, err := h.checker.CheckProduct(c.Request.Context(), userID, product)
	if err != nil {
		h.writeCheckError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"warnings": warningsOrEmpty(warnings)})
}

func (h *SafetyHandler) CheckCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CartSafetyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	messages, err := h.checker.CheckCart(c.Request.Context(), userID, req.Barcodes)
	if err != nil {
		h.writeCheckError(c, err)
		return
	}
	if messages == nil {
		messages = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"warnings": messages})
}

func (h *SafetyHandler) writeCheckError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "safety check failed"})
	}
}

// warningsOrEmpty keeps the JSON field an array, never null.
func warningsOrEmpty(warnings []safety.Warning) []safety.Warning {
	if warnings == nil {
		return []safety.Warning{}
	}
	return warnings
}
