package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/foodlens/backend/internal/models"
)

// RunMigrations applies the schema via GORM auto-migration. On
// postgres the pgvector extension is created first so the
// product_embeddings vector column can be defined.
func RunMigrations(db *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.UserProfile{},
		&models.FamilyMember{},
		&models.HealthCondition{},
		&models.DietaryPreference{},
		&models.MissingFoodReport{},
	}

	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to create vector extension: %w", err)
		}
		tables = append(tables, &models.ProductEmbedding{})
	} else {
		log.Printf("Skipping product_embeddings migration on %s (needs pgvector)", db.Dialector.Name())
	}

	if err := db.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
