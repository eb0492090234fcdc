package service

import (
	"context"
	"fmt"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodlens/backend/internal/models"
)

// GenerateEmbedding returns a simple deterministic embedding for the
// given text: total length, vowel count and consonant count. Crude, but
// stable across runs, which is what the substitute index needs.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var vowels, consonants float32
	for _, r := range text {
		if strings.ContainsRune("aeiou", r) {
			vowels++
		} else if r >= 'a' && r <= 'z' {
			consonants++
		}
	}
	length := float32(len(text))
	return pgvector.NewVector([]float32{length, vowels, consonants})
}

// SubstituteService maintains the product embedding index and answers
// nearest-neighbour substitute queries against it.
type SubstituteService struct {
	db *gorm.DB
}

func NewSubstituteService(db *gorm.DB) *SubstituteService {
	return &SubstituteService{db: db}
}

// IndexProduct records (or refreshes) the embedding for a product the
// catalog has served, so later substitute lookups can find it.
func (s *SubstituteService) IndexProduct(ctx context.Context, product *Product) error {
	embedding := GenerateEmbedding(product.Name + " " + product.IngredientsText)
	row := models.ProductEmbedding{
		Code:      product.Code,
		Name:      product.Name,
		Embedding: embedding,
	}

	err := s.db.WithContext(ctx).
		Where("code = ?", product.Code).
		Assign(map[string]interface{}{"name": row.Name, "embedding": row.Embedding}).
		FirstOrCreate(&row).Error
	if err != nil {
		return fmt.Errorf("failed to index product: %w", err)
	}
	return nil
}

// FindSubstitutes returns up to limit indexed products nearest to the
// given product's embedding, excluding the product itself.
func (s *SubstituteService) FindSubstitutes(ctx context.Context, product *Product, limit int) ([]models.ProductEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}
	embedding := GenerateEmbedding(product.Name + " " + product.IngredientsText)

	var results []models.ProductEmbedding
	err := s.db.WithContext(ctx).
		Where("code <> ?", product.Code).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{embedding}},
		}).
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query substitutes: %w", err)
	}
	return results, nil
}
