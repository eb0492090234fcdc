package main

import (
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/foodlens/backend/internal/database"
	"github.com/foodlens/backend/internal/models"
)

// Seeds a demo account with a household profile so the frontend has
// something to evaluate against out of the box.
func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "host=localhost port=5432 user=postgres password=postgres dbname=foodlens sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var existing models.User
	if err := db.Where("email = ?", "demo@foodlens.dev").First(&existing).Error; err == nil {
		log.Println("Demo user already exists, nothing to do")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     "demo",
		Email:        "demo@foodlens.dev",
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	profile := models.UserProfile{
		ID:     uuid.New(),
		UserID: user.ID,
		Email:  user.Email,
		Name:   "Alice",
		Age:    38,
		Gender: "female",
	}
	if err := db.Create(&profile).Error; err != nil {
		log.Fatalf("Failed to create demo profile: %v", err)
	}

	diabetes := models.HealthCondition{
		ID:          uuid.New(),
		ProfileID:   &profile.ID,
		ConditionID: "demo-diabetes",
		Type:        "diabetes",
		Severity:    "moderate",
		Label:       "Type 2 Diabetes",
		Position:    0,
	}
	if err := db.Create(&diabetes).Error; err != nil {
		log.Fatalf("Failed to create demo condition: %v", err)
	}

	member := models.FamilyMember{
		ID:                       uuid.New(),
		ProfileID:                profile.ID,
		MemberID:                 "demo-sam",
		Name:                     "Sam",
		Relationship:             "child",
		Age:                      9,
		AvatarColor:              "#4caf50",
		IncludeInRecommendations: true,
		Position:                 0,
	}
	if err := db.Create(&member).Error; err != nil {
		log.Fatalf("Failed to create demo family member: %v", err)
	}

	allergy := models.HealthCondition{
		ID:             uuid.New(),
		FamilyMemberID: &member.ID,
		ConditionID:    "demo-peanut",
		Type:           "allergy",
		Subtype:        "peanuts",
		Severity:       "severe",
		Label:          "Peanut Allergy",
		Position:       0,
	}
	if err := db.Create(&allergy).Error; err != nil {
		log.Fatalf("Failed to create demo allergy: %v", err)
	}

	log.Println("Seeded demo user demo@foodlens.dev")
}
