package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/foodlens/backend/internal/safety"
)

// ProductCatalog is the product source the safety service reads from.
type ProductCatalog interface {
	GetByBarcode(ctx context.Context, code string) (*Product, error)
}

// RosterSource supplies the evaluation roster for a user.
type RosterSource interface {
	Roster(ctx context.Context, userID uuid.UUID) (safety.Profile, error)
}

// Commentator rephrases already-computed warnings into a short note.
// It never decides anything; a nil commentator just means no note.
type Commentator interface {
	HealthCommentary(ctx context.Context, product *Product, warnings []safety.Warning) (string, error)
}

// CheckResult is the outcome of a catalog-product safety check.
type CheckResult struct {
	Warnings   []safety.Warning `json:"warnings"`
	Commentary string           `json:"commentary,omitempty"`
}

// SafetyService wires the catalog and the profile store into the pure
// evaluator. All rule logic lives in the safety package; this service
// only fetches and adapts.
type SafetyService struct {
	evaluator   *safety.Evaluator
	products    ProductCatalog
	profiles    RosterSource
	commentator Commentator
}

func NewSafetyService(evaluator *safety.Evaluator, products ProductCatalog, profiles RosterSource, commentator Commentator) *SafetyService {
	if evaluator == nil {
		evaluator = safety.NewEvaluator(nil)
	}
	return &SafetyService{
		evaluator:   evaluator,
		products:    products,
		profiles:    profiles,
		commentator: commentator,
	}
}

// CheckBarcode evaluates one catalog product against the user's
// household and returns the ordered warnings, plus an AI note when a
// commentator is configured. Commentary failures only lose the note.
func (s *SafetyService) CheckBarcode(ctx context.Context, userID uuid.UUID, code string) (*CheckResult, error) {
	product, err := s.products.GetByBarcode(ctx, code)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.Roster(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{Warnings: s.evaluator.Evaluate(product.Safety(), profile)}
	if result.Warnings == nil {
		result.Warnings = []safety.Warning{}
	}

	if s.commentator != nil {
		commentary, err := s.commentator.HealthCommentary(ctx, product, result.Warnings)
		if err != nil {
			log.Printf("failed to get health commentary for %s: %v", product.Code, err)
		} else {
			result.Commentary = commentary
		}
	}
	return result, nil
}

// CheckProduct evaluates a caller-supplied product payload, so a UI
// already holding the product avoids a catalog refetch.
func (s *SafetyService) CheckProduct(ctx context.Context, userID uuid.UUID, product safety.Product) ([]safety.Warning, error) {
	profile, err := s.profiles.Roster(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.evaluator.Evaluate(product, profile), nil
}

// CheckCart evaluates every barcode in a cart and returns the
// deduplicated warning messages. An unknown barcode fails the whole
// call; a cart view must not silently pretend an item was checked.
func (s *SafetyService) CheckCart(ctx context.Context, userID uuid.UUID, codes []string) ([]string, error) {
	profile, err := s.profiles.Roster(ctx, userID)
	if err != nil {
		return nil, err
	}

	products := make([]safety.Product, 0, len(codes))
	for _, code := range codes {
		product, err := s.products.GetByBarcode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch cart item %s: %w", code, err)
		}
		products = append(products, product.Safety())
	}

	return s.evaluator.Aggregate(products, profile), nil
}
