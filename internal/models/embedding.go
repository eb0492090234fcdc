package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// ProductEmbedding caches the embedding vector of a catalog product so
// substitute lookups can run a nearest-neighbour query instead of
// re-embedding the whole catalog.
type ProductEmbedding struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	Code      string          `gorm:"size:32;not null;uniqueIndex" json:"code"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Category  string          `gorm:"size:100" json:"category"`
	Embedding pgvector.Vector `gorm:"type:vector(3)" json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (ProductEmbedding) TableName() string {
	return "product_embeddings"
}
