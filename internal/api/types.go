package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterRequest is the signup payload. HealthIssues and Allergies
// seed the new profile's conditions.
type RegisterRequest struct {
	Username     string   `json:"username" binding:"required"`
	Email        string   `json:"email" binding:"required,email"`
	Password     string   `json:"password" binding:"required,min=8"`
	HealthIssues []string `json:"healthIssues"`
	Allergies    []string `json:"allergies"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CartSafetyRequest lists the barcodes of a cart to evaluate together.
type CartSafetyRequest struct {
	Barcodes []string `json:"barcodes" binding:"required"`
}

// InlineSafetyRequest carries a product the client already holds.
type InlineSafetyRequest struct {
	Nutrients map[string]float64 `json:"nutrients"`
	Allergens []string           `json:"allergens"`
	Quantity  string             `json:"quantity"`
}

// currentUserID pulls the authenticated user out of the request
// context, answering 401 itself when the middleware did not run.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}
