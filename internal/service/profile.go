package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodlens/backend/internal/models"
	"github.com/foodlens/backend/internal/safety"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileService reads and writes health profiles. Profiles are saved
// wholesale: a save replaces the previous family-member and condition
// rows rather than patching them, preserving the document-style
// semantics of the profile form.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile retrieves a user's profile with family members and
// conditions in saved order.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).
		Preload("Conditions", orderByPosition).
		Preload("DietaryPreferences", orderByPosition).
		Preload("FamilyMembers", orderByPosition).
		Preload("FamilyMembers.Conditions", orderByPosition).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// ProfileInput is the wholesale profile payload from the profile form.
type ProfileInput struct {
	Name               string                `json:"name" binding:"required"`
	Age                int                   `json:"age" binding:"required"`
	Gender             string                `json:"gender" binding:"required"`
	Weight             float64               `json:"weight"`
	Height             float64               `json:"height"`
	Goals              models.NutritionGoals `json:"nutritionGoals"`
	DietaryPreferences []string              `json:"dietaryPreferences"`
	Conditions         []ConditionInput      `json:"conditions"`
	FamilyMembers      []FamilyMemberInput   `json:"familyMembers"`
}

type ConditionInput struct {
	ID       string `json:"id"`
	Type     string `json:"type" binding:"required"`
	Subtype  string `json:"subtype"`
	Severity string `json:"severity"`
	Label    string `json:"label" binding:"required"`
}

type FamilyMemberInput struct {
	ID                       string           `json:"id"`
	Name                     string           `json:"name" binding:"required"`
	Relationship             string           `json:"relationship"`
	Age                      int              `json:"age"`
	Weight                   float64          `json:"weight"`
	Height                   float64          `json:"height"`
	AvatarColor              string           `json:"avatarColor"`
	IncludeInRecommendations bool             `json:"includeInRecommendations"`
	Conditions               []ConditionInput `json:"conditions"`
}

// SaveProfile creates or replaces the user's profile in one
// transaction. Child rows (family members, conditions, preferences)
// are deleted and recreated so the stored state always mirrors the
// submitted document.
func (s *ProfileService) SaveProfile(ctx context.Context, userID uuid.UUID, input *ProfileInput) (*models.UserProfile, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}

		var profile models.UserProfile
		isNew := false
		err := tx.Where("user_id = ?", userID).First(&profile).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			profile = models.UserProfile{ID: uuid.New(), UserID: userID}
			isNew = true
		case err != nil:
			return err
		}

		profile.Email = user.Email
		profile.Name = input.Name
		profile.Age = input.Age
		profile.Gender = input.Gender
		profile.Weight = input.Weight
		profile.Height = input.Height
		profile.Goals = input.Goals

		if isNew {
			err = tx.Create(&profile).Error
		} else {
			err = tx.Save(&profile).Error
		}
		if err != nil {
			return err
		}

		// Wholesale replace of child rows.
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.HealthCondition{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.DietaryPreference{}).Error; err != nil {
			return err
		}
		var members []models.FamilyMember
		if err := tx.Where("profile_id = ?", profile.ID).Find(&members).Error; err != nil {
			return err
		}
		for _, m := range members {
			if err := tx.Where("family_member_id = ?", m.ID).Delete(&models.HealthCondition{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.FamilyMember{}).Error; err != nil {
			return err
		}

		for i, c := range input.Conditions {
			row := conditionRow(c, i)
			row.ProfileID = &profile.ID
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for i, pref := range input.DietaryPreferences {
			row := models.DietaryPreference{
				ID:         uuid.New(),
				ProfileID:  &profile.ID,
				Preference: pref,
				Position:   i,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for i, m := range input.FamilyMembers {
			member := models.FamilyMember{
				ID:                       uuid.New(),
				ProfileID:                profile.ID,
				MemberID:                 memberOrNewID(m.ID),
				Name:                     m.Name,
				Relationship:             m.Relationship,
				Age:                      m.Age,
				Weight:                   m.Weight,
				Height:                   m.Height,
				AvatarColor:              m.AvatarColor,
				IncludeInRecommendations: m.IncludeInRecommendations,
				Position:                 i,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
			for j, c := range m.Conditions {
				row := conditionRow(c, j)
				row.FamilyMemberID = &member.ID
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return s.GetProfile(ctx, userID)
}

func conditionRow(c ConditionInput, position int) models.HealthCondition {
	severity := c.Severity
	if severity == "" {
		severity = string(safety.ConditionModerate)
	}
	return models.HealthCondition{
		ID:          uuid.New(),
		ConditionID: memberOrNewID(c.ID),
		Type:        c.Type,
		Subtype:     c.Subtype,
		Severity:    severity,
		Label:       c.Label,
		Position:    position,
	}
}

func memberOrNewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

// Roster loads the user's profile in the evaluator's shape.
func (s *ProfileService) Roster(ctx context.Context, userID uuid.UUID) (safety.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return safety.Profile{}, err
	}
	return profile.ToSafety(), nil
}
