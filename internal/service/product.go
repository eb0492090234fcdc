package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodlens/backend/internal/safety"
)

var ErrProductNotFound = errors.New("product not found")

const productCacheTTL = 24 * time.Hour

// Product is the normalized catalog view of one packaged food,
// adapted from the Open Food Facts response shape. Nutrients carries
// only numeric per-100g values; allergen tags are passed through with
// their language prefix intact (the evaluator owns that normalization).
type Product struct {
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	Brands          string             `json:"brands,omitempty"`
	Quantity        string             `json:"quantity,omitempty"`
	ImageURL        string             `json:"image_url,omitempty"`
	IngredientsText string             `json:"ingredients_text,omitempty"`
	NutriScore      string             `json:"nutriscore,omitempty"`
	Nutrients       map[string]float64 `json:"nutrients"`
	Allergens       []string           `json:"allergens"`
}

// Safety converts the catalog view into the evaluator's input shape.
func (p *Product) Safety() safety.Product {
	return safety.Product{
		Nutrients: p.Nutrients,
		Allergens: p.Allergens,
		Quantity:  p.Quantity,
	}
}

// ProductService looks products up in the Open Food Facts API and
// caches the normalized result in Redis for a day.
type ProductService struct {
	baseURL string
	client  *http.Client
	redis   *redis.Client
}

// NewProductService creates a catalog client. baseURL defaults to the
// public Open Food Facts API; redisClient may be nil to disable
// caching (tests).
func NewProductService(baseURL string, redisClient *redis.Client) *ProductService {
	if baseURL == "" {
		baseURL = "https://world.openfoodfacts.org"
	}
	return &ProductService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		redis:   redisClient,
	}
}

// offProduct is the subset of an Open Food Facts record we consume.
type offProduct struct {
	Code            string         `json:"code"`
	ProductName     string         `json:"product_name"`
	ProductNameEn   string         `json:"product_name_en"`
	GenericName     string         `json:"generic_name"`
	Brands          string         `json:"brands"`
	Quantity        string         `json:"quantity"`
	ImageURL        string         `json:"image_url"`
	IngredientsText string         `json:"ingredients_text"`
	NutriScoreGrade string         `json:"nutriscore_grade"`
	Nutriments      map[string]any `json:"nutriments"`
	AllergensTags   []string       `json:"allergens_tags"`
}

// name returns the best available display name, falling back
// product_name → product_name_en → generic_name.
func (p *offProduct) name() string {
	if p.ProductName != "" {
		return p.ProductName
	}
	if p.ProductNameEn != "" {
		return p.ProductNameEn
	}
	return p.GenericName
}

func (p *offProduct) normalize(code string) *Product {
	if code == "" {
		code = p.Code
	}
	out := &Product{
		Code:            code,
		Name:            p.name(),
		Brands:          p.Brands,
		Quantity:        p.Quantity,
		ImageURL:        p.ImageURL,
		IngredientsText: p.IngredientsText,
		NutriScore:      strings.ToUpper(p.NutriScoreGrade),
		Nutrients:       make(map[string]float64, len(p.Nutriments)),
		Allergens:       p.AllergensTags,
	}
	// OFF nutriment maps mix numbers with unit strings; keep numbers only.
	for key, raw := range p.Nutriments {
		if v, ok := raw.(float64); ok {
			out.Nutrients[key] = v
		}
	}
	if out.Allergens == nil {
		out.Allergens = []string{}
	}
	return out
}

// GetByBarcode fetches one product by barcode, consulting the Redis
// cache first. Cache failures degrade to an upstream fetch, never to
// an error.
func (s *ProductService) GetByBarcode(ctx context.Context, code string) (*Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrProductNotFound
	}

	cacheKey := "product:info:" + code
	if s.redis != nil {
		if data, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached Product
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json", s.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "FoodLens/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product lookup failed with status %d", resp.StatusCode)
	}

	var payload struct {
		Status  int        `json:"status"`
		Product offProduct `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}
	if payload.Status == 0 {
		return nil, ErrProductNotFound
	}

	product := payload.Product.normalize(code)

	if s.redis != nil {
		if data, err := json.Marshal(product); err == nil {
			s.redis.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}

	return product, nil
}

// Search runs a free-text name search and returns normalized products.
func (s *ProductService) Search(ctx context.Context, query string, page int) ([]*Product, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("page_size", "20")

	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", s.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "FoodLens/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product search failed with status %d", resp.StatusCode)
	}

	var payload struct {
		Products []offProduct `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]*Product, 0, len(payload.Products))
	for i := range payload.Products {
		p := payload.Products[i].normalize("")
		if p.Name == "" {
			continue
		}
		results = append(results, p)
	}
	return results, nil
}
