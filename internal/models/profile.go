package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodlens/backend/internal/safety"
)

// HealthCondition is one condition row owned by either the profile
// itself or one of its family members, never both. ConditionID is the
// client-side stable identifier from the original profile document;
// Position preserves the saved list order, which the evaluator's
// output order depends on.
type HealthCondition struct {
	ID             uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"-"`
	ProfileID      *uuid.UUID `gorm:"type:varchar(36);index" json:"-"`
	FamilyMemberID *uuid.UUID `gorm:"type:varchar(36);index" json:"-"`
	ConditionID    string     `gorm:"size:64;not null" json:"id"`
	Type           string     `gorm:"size:20;not null" json:"type"`
	Subtype        string     `gorm:"size:100" json:"subtype,omitempty"`
	Severity       string     `gorm:"size:10;not null" json:"severity"`
	Label          string     `gorm:"size:100;not null" json:"label"`
	Position       int        `gorm:"not null" json:"-"`
	CreatedAt      time.Time  `json:"-"`
	UpdatedAt      time.Time  `json:"-"`
}

// FamilyMember belongs to a profile. Members with
// IncludeInRecommendations false still live on the profile but are
// invisible to safety evaluation.
type FamilyMember struct {
	ID                       uuid.UUID         `gorm:"type:varchar(36);primarykey" json:"-"`
	ProfileID                uuid.UUID         `gorm:"type:varchar(36);not null;index" json:"-"`
	MemberID                 string            `gorm:"size:64;not null" json:"id"`
	Name                     string            `gorm:"size:100;not null" json:"name"`
	Relationship             string            `gorm:"size:50" json:"relationship"`
	Age                      int               `json:"age"`
	Weight                   float64           `json:"weight,omitempty"`
	Height                   float64           `json:"height,omitempty"`
	AvatarColor              string            `gorm:"size:20" json:"avatarColor"`
	IncludeInRecommendations bool              `gorm:"not null;default:true" json:"includeInRecommendations"`
	Position                 int               `gorm:"not null" json:"-"`
	Conditions               []HealthCondition `gorm:"foreignKey:FamilyMemberID" json:"conditions"`
	DietaryPreferences       []DietaryPreference `gorm:"foreignKey:FamilyMemberID" json:"-"`
	CreatedAt                time.Time         `json:"-"`
	UpdatedAt                time.Time         `json:"-"`
}

// NutritionGoals is stored inline on the profile row.
type NutritionGoals struct {
	WeightManagement string  `gorm:"size:10" json:"weightManagement"`
	CalorieTarget    float64 `json:"calorieTarget,omitempty"`
	CarbsPct         float64 `json:"carbs,omitempty"`
	ProteinPct       float64 `json:"protein,omitempty"`
	FatsPct          float64 `json:"fats,omitempty"`
}

// DietaryPreference is one free-text preference entry ("vegetarian",
// "low-sodium") owned by the profile or a family member.
type DietaryPreference struct {
	ID             uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"-"`
	ProfileID      *uuid.UUID `gorm:"type:varchar(36);index" json:"-"`
	FamilyMemberID *uuid.UUID `gorm:"type:varchar(36);index" json:"-"`
	Preference     string     `gorm:"size:50;not null" json:"preference"`
	Position       int        `gorm:"not null" json:"-"`
	CreatedAt      time.Time  `json:"-"`
	UpdatedAt      time.Time  `json:"-"`
}

// UserProfile is the health profile document: the primary person's own
// fields plus family members, saved wholesale.
type UserProfile struct {
	ID                 uuid.UUID           `gorm:"type:varchar(36);primarykey" json:"-"`
	UserID             uuid.UUID           `gorm:"type:varchar(36);not null;uniqueIndex" json:"-"`
	Email              string              `gorm:"size:100;not null;index" json:"email"`
	Name               string              `gorm:"size:100;not null" json:"name"`
	Age                int                 `json:"age"`
	Gender             string              `gorm:"size:20" json:"gender"`
	Weight             float64             `json:"weight,omitempty"`
	Height             float64             `json:"height,omitempty"`
	Goals              NutritionGoals      `gorm:"embedded;embeddedPrefix:goal_" json:"nutritionGoals"`
	Conditions         []HealthCondition   `gorm:"foreignKey:ProfileID" json:"conditions"`
	DietaryPreferences []DietaryPreference `gorm:"foreignKey:ProfileID" json:"-"`
	FamilyMembers      []FamilyMember      `gorm:"foreignKey:ProfileID" json:"familyMembers"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	DeletedAt          gorm.DeletedAt      `gorm:"index" json:"-"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// ToSafety converts the stored profile into the normalized shape the
// evaluator consumes. Family members keep profile order.
func (p *UserProfile) ToSafety() safety.Profile {
	out := safety.Profile{
		Name:       p.Name,
		Conditions: conditionsToSafety(p.Conditions),
	}
	for _, m := range p.FamilyMembers {
		out.FamilyMembers = append(out.FamilyMembers, safety.FamilyMember{
			Name:                     m.Name,
			Relationship:             m.Relationship,
			Conditions:               conditionsToSafety(m.Conditions),
			IncludeInRecommendations: m.IncludeInRecommendations,
		})
	}
	return out
}

func conditionsToSafety(conds []HealthCondition) []safety.HealthCondition {
	out := make([]safety.HealthCondition, 0, len(conds))
	for _, c := range conds {
		out = append(out, safety.HealthCondition{
			ID:       c.ConditionID,
			Type:     safety.ConditionType(c.Type),
			Subtype:  c.Subtype,
			Severity: safety.ConditionSeverity(c.Severity),
			Label:    c.Label,
		})
	}
	return out
}
