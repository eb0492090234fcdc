package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodlens/backend/internal/models"
	"github.com/foodlens/backend/internal/service"
)

type stubProfileService struct {
	profile *models.UserProfile
	getErr  error
	saveErr error

	lastInput *service.ProfileInput
}

func (s *stubProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	return s.profile, s.getErr
}

func (s *stubProfileService) SaveProfile(ctx context.Context, userID uuid.UUID, input *service.ProfileInput) (*models.UserProfile, error) {
	s.lastInput = input
	return s.profile, s.saveErr
}

func setupProfileRouter(svc ProfileService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.New())
		c.Next()
	})
	NewProfileHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestGetProfileHandler(t *testing.T) {
	svc := &stubProfileService{profile: &models.UserProfile{Name: "Alice", Email: "alice@example.com"}}
	router := setupProfileRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Alice"`)
}

func TestGetProfileHandlerNotFound(t *testing.T) {
	router := setupProfileRouter(&stubProfileService{getErr: service.ErrProfileNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveProfileHandler(t *testing.T) {
	svc := &stubProfileService{profile: &models.UserProfile{Name: "Alice"}}
	router := setupProfileRouter(svc)

	body := `{
		"name": "Alice",
		"age": 34,
		"gender": "female",
		"conditions": [{"id": "c-1", "type": "diabetes", "label": "Type 2 Diabetes"}],
		"familyMembers": [{"id": "m-1", "name": "Sam", "relationship": "child", "includeInRecommendations": true}]
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastInput)
	assert.Equal(t, "Alice", svc.lastInput.Name)
	require.Len(t, svc.lastInput.Conditions, 1)
	assert.Equal(t, "diabetes", svc.lastInput.Conditions[0].Type)
	require.Len(t, svc.lastInput.FamilyMembers, 1)
	assert.True(t, svc.lastInput.FamilyMembers[0].IncludeInRecommendations)
}

func TestSaveProfileHandlerValidation(t *testing.T) {
	router := setupProfileRouter(&stubProfileService{})

	// Missing required name/age/gender.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(`{"weight": 70}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
