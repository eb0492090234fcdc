package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodlens/backend/config"
	"github.com/foodlens/backend/internal/database"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	cfg := &config.Config{
		ServerPort: "8080",
		JWTSecret:  "test-secret",
	}
	return New(cfg, db, Options{})
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := setupServer(t)

	for _, path := range []string{
		"/api/v1/profile",
		"/api/v1/products/123/safety",
		"/api/v1/reports",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Router().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRegisterLoginAndSafetyFlow(t *testing.T) {
	srv := setupServer(t)

	register := `{
		"username": "alice",
		"email": "alice@example.com",
		"password": "password123",
		"healthIssues": ["diabetes"],
		"allergies": ["peanuts"]
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(register))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var registered struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	require.NotEmpty(t, registered.Token)

	// An inline check needs no catalog: the signup conditions alone
	// should flag a sugary product with peanuts in it.
	check := `{"nutrients":{"sugars_100g":18},"allergens":["en:peanuts"]}`
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/safety/check", strings.NewReader(check))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Warnings []struct {
			Message  string `json:"message"`
			Severity string `json:"severity"`
		} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Warnings, 2)
	assert.Equal(t, "You (alice): Diabetes - High sugar content (18g/100g)", resp.Warnings[0].Message)
	assert.Equal(t, "You (alice): Peanuts Allergy - Contains peanuts", resp.Warnings[1].Message)
	assert.Equal(t, "high", resp.Warnings[0].Severity)
}
