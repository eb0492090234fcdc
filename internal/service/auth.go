package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/foodlens/backend/internal/models"
	"github.com/foodlens/backend/internal/safety"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// TokenClaims is the decoded identity carried by a session token.
type TokenClaims struct {
	UserID   uuid.UUID
	Username string
}

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// Register creates a user plus an empty profile, seeds the profile's
// conditions from the signup health-issue and allergy lists, and
// returns a session token.
func (s *AuthService) Register(username, email, password string, healthIssues, allergies []string) (string, error) {
	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return "", ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile := models.UserProfile{
			ID:     uuid.New(),
			UserID: user.ID,
			Email:  email,
			Name:   username,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		position := 0
		for _, issue := range healthIssues {
			issue = strings.TrimSpace(issue)
			if issue == "" {
				continue
			}
			cond := signupCondition(profile.ID, issue, position)
			if err := tx.Create(&cond).Error; err != nil {
				return err
			}
			position++
		}
		for _, allergen := range allergies {
			allergen = strings.TrimSpace(strings.ToLower(allergen))
			if allergen == "" {
				continue
			}
			cond := models.HealthCondition{
				ID:          uuid.New(),
				ProfileID:   &profile.ID,
				ConditionID: fmt.Sprintf("signup-%d", position),
				Type:        string(safety.ConditionAllergy),
				Subtype:     allergen,
				Severity:    string(safety.ConditionModerate),
				Label:       titleCase(allergen) + " Allergy",
				Position:    position,
			}
			if err := tx.Create(&cond).Error; err != nil {
				return err
			}
			position++
		}
		return nil
	})
	if err != nil {
		// A concurrent register for the same email can slip past the
		// lookup above and land on the unique index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("failed to register user: %w", err)
	}

	return s.generateToken(user.ID, user.Username)
}

// signupCondition maps one free-text health issue from the signup form
// onto a condition row. Unrecognized issues become "other" conditions,
// which the evaluator tolerates and skips.
func signupCondition(profileID uuid.UUID, issue string, position int) models.HealthCondition {
	condType := safety.ConditionOther
	switch strings.ToLower(issue) {
	case "diabetes":
		condType = safety.ConditionDiabetes
	case "heart", "heart disease":
		condType = safety.ConditionHeart
	case "hypertension", "high blood pressure":
		condType = safety.ConditionHypertension
	}
	return models.HealthCondition{
		ID:          uuid.New(),
		ProfileID:   &profileID,
		ConditionID: fmt.Sprintf("signup-%d", position),
		Type:        string(condType),
		Severity:    string(safety.ConditionModerate),
		Label:       titleCase(issue),
		Position:    position,
	}
}

func (s *AuthService) Login(email, password string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.generateToken(user.ID, user.Username)
}

func (s *AuthService) generateToken(userID uuid.UUID, username string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID.String(),
		"username": username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userIDStr, _ := mapClaims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidToken
	}
	username, _ := mapClaims["username"].(string)

	return &TokenClaims{UserID: userID, Username: username}, nil
}
