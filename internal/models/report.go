package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MissingFoodReport is a user-submitted notice that a product could
// not be found in the catalog, optionally with a photo of the package.
type MissingFoodReport struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Barcode     string         `gorm:"size:32" json:"barcode,omitempty"`
	ProductName string         `gorm:"size:255;not null" json:"product_name"`
	Notes       string         `gorm:"type:text" json:"notes,omitempty"`
	PhotoKey    string         `gorm:"size:255" json:"-"`
	PhotoURL    string         `gorm:"-" json:"photo_url,omitempty"`
	Status      string         `gorm:"size:20;not null;default:'open'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (MissingFoodReport) TableName() string {
	return "missing_food_reports"
}
