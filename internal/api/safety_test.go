package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodlens/backend/internal/safety"
	"github.com/foodlens/backend/internal/service"
)

type stubChecker struct {
	warnings   []safety.Warning
	messages   []string
	commentary string
	err        error

	lastCode    string
	lastCodes   []string
	lastProduct safety.Product
}

func (s *stubChecker) CheckBarcode(ctx context.Context, userID uuid.UUID, code string) (*service.CheckResult, error) {
	s.lastCode = code
	if s.err != nil {
		return nil, s.err
	}
	return &service.CheckResult{Warnings: s.warnings, Commentary: s.commentary}, nil
}

func (s *stubChecker) CheckProduct(ctx context.Context, userID uuid.UUID, product safety.Product) ([]safety.Warning, error) {
	s.lastProduct = product
	return s.warnings, s.err
}

func (s *stubChecker) CheckCart(ctx context.Context, userID uuid.UUID, codes []string) ([]string, error) {
	s.lastCodes = codes
	return s.messages, s.err
}

func setupSafetyRouter(checker SafetyChecker, authed bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if authed {
		router.Use(func(c *gin.Context) {
			c.Set("user_id", uuid.New())
			c.Next()
		})
	}
	NewSafetyHandler(checker).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestCheckProductByBarcode(t *testing.T) {
	checker := &stubChecker{
		warnings: []safety.Warning{
			{
				Message:     "You (Alice): Type 2 Diabetes - High sugar content (18g/100g)",
				Severity:    safety.SeverityHigh,
				Person:      "You (Alice)",
				ConditionID: "c1",
			},
		},
		commentary: "High in sugar for this household.",
	}
	router := setupSafetyRouter(checker, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/737628064502/safety", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "737628064502", checker.lastCode)

	var resp struct {
		Warnings   []safety.Warning `json:"warnings"`
		Commentary string           `json:"commentary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, safety.SeverityHigh, resp.Warnings[0].Severity)
	assert.Equal(t, "High in sugar for this household.", resp.Commentary)
}

func TestCheckProductByBarcodeNoWarnings(t *testing.T) {
	router := setupSafetyRouter(&stubChecker{}, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/123/safety", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"warnings": []}`, w.Body.String())
}

func TestCheckProductByBarcodeUnauthorized(t *testing.T) {
	router := setupSafetyRouter(&stubChecker{}, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/123/safety", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckProductByBarcodeNotFound(t *testing.T) {
	router := setupSafetyRouter(&stubChecker{err: service.ErrProductNotFound}, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/000/safety", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckInlineProduct(t *testing.T) {
	checker := &stubChecker{}
	router := setupSafetyRouter(checker, true)

	body := `{"nutrients":{"sugars_100g":12},"allergens":["en:peanuts"],"quantity":"330 ml"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/safety/check", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 12.0, checker.lastProduct.Nutrients["sugars_100g"])
	assert.Equal(t, []string{"en:peanuts"}, checker.lastProduct.Allergens)
	assert.Equal(t, "330 ml", checker.lastProduct.Quantity)
}

func TestCheckInlineProductBadBody(t *testing.T) {
	router := setupSafetyRouter(&stubChecker{}, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/safety/check", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckCart(t *testing.T) {
	checker := &stubChecker{messages: []string{
		"You (Alice): Type 2 Diabetes - High sugar content (18g/100g)",
	}}
	router := setupSafetyRouter(checker, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/safety", strings.NewReader(`{"barcodes":["111","222"]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"111", "222"}, checker.lastCodes)
	assert.JSONEq(t, `{"warnings": ["You (Alice): Type 2 Diabetes - High sugar content (18g/100g)"]}`, w.Body.String())
}

func TestCheckCartMissingBarcodes(t *testing.T) {
	router := setupSafetyRouter(&stubChecker{}, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/safety", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckCartProfileNotFound(t *testing.T) {
	router := setupSafetyRouter(&stubChecker{err: service.ErrProfileNotFound}, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/safety", strings.NewReader(`{"barcodes":["111"]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
