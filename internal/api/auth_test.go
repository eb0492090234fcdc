package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/foodlens/backend/internal/service"
)

type stubAuthService struct {
	registerErr error
	loginErr    error

	lastUsername     string
	lastHealthIssues []string
	lastAllergies    []string
}

func (s *stubAuthService) Register(username, email, password string, healthIssues, allergies []string) (string, error) {
	s.lastUsername = username
	s.lastHealthIssues = healthIssues
	s.lastAllergies = allergies
	if s.registerErr != nil {
		return "", s.registerErr
	}
	return "token-123", nil
}

func (s *stubAuthService) Login(email, password string) (string, error) {
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return "token-123", nil
}

func setupAuthRouter(svc AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAuthHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	svc := &stubAuthService{}
	router := setupAuthRouter(svc)

	w := postJSON(router, "/api/v1/auth/register", `{
		"username": "alice",
		"email": "alice@example.com",
		"password": "password123",
		"healthIssues": ["diabetes"],
		"allergies": ["peanuts"]
	}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"token": "token-123"}`, w.Body.String())
	assert.Equal(t, "alice", svc.lastUsername)
	assert.Equal(t, []string{"diabetes"}, svc.lastHealthIssues)
	assert.Equal(t, []string{"peanuts"}, svc.lastAllergies)
}

func TestRegisterValidation(t *testing.T) {
	router := setupAuthRouter(&stubAuthService{})

	// Short password.
	w := postJSON(router, "/api/v1/auth/register", `{"username":"alice","email":"alice@example.com","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed email.
	w = postJSON(router, "/api/v1/auth/register", `{"username":"alice","email":"nope","password":"password123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	router := setupAuthRouter(&stubAuthService{registerErr: service.ErrUserExists})

	w := postJSON(router, "/api/v1/auth/register", `{"username":"alice","email":"alice@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginHandler(t *testing.T) {
	router := setupAuthRouter(&stubAuthService{})

	w := postJSON(router, "/api/v1/auth/login", `{"email":"alice@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token": "token-123"}`, w.Body.String())
}

func TestLoginHandlerRejected(t *testing.T) {
	router := setupAuthRouter(&stubAuthService{loginErr: service.ErrInvalidCredentials})

	w := postJSON(router, "/api/v1/auth/login", `{"email":"alice@example.com","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
