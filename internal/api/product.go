package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodlens/backend/internal/models"
	"github.com/foodlens/backend/internal/service"
)

// ProductCatalog is the product-lookup surface the handler needs.
type ProductCatalog interface {
	GetByBarcode(ctx context.Context, code string) (*service.Product, error)
	Search(ctx context.Context, query string, page int) ([]*service.Product, error)
}

// ProductDescriber produces AI commentary about a product. Optional:
// a nil describer disables the description field.
type ProductDescriber interface {
	DescribeProduct(ctx context.Context, name, ingredients string) (string, error)
}

// SubstituteIndex answers substitute lookups for a product.
type SubstituteIndex interface {
	IndexProduct(ctx context.Context, product *service.Product) error
	FindSubstitutes(ctx context.Context, product *service.Product, limit int) ([]models.ProductEmbedding, error)
}

// SubstituteSuggester proposes substitute names freely, without
// consulting the index. Optional: nil disables the suggestions field.
type SubstituteSuggester interface {
	SuggestSubstitutes(ctx context.Context, name string, avoid []string) ([]string, error)
}

type ProductHandler struct {
	catalog     ProductCatalog
	describer   ProductDescriber
	substitutes SubstituteIndex
	suggester   SubstituteSuggester
}

func NewProductHandler(catalog ProductCatalog, describer ProductDescriber, substitutes SubstituteIndex, suggester SubstituteSuggester) *ProductHandler {
	return &ProductHandler{
		catalog:     catalog,
		describer:   describer,
		substitutes: substitutes,
		suggester:   suggester,
	}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	{
		products.GET("/search", h.Search)
		products.GET("/:code", h.GetProduct)
		products.GET("/:code/substitutes", h.GetSubstitutes)
	}
}

func (h *ProductHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	results, err := h.catalog.Search(c.Request.Context(), query, 1)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "product search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": results})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetByBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "product lookup failed"})
		return
	}

	// Keep the substitute index warm with every product served.
	if h.substitutes != nil {
		if err := h.substitutes.IndexProduct(c.Request.Context(), product); err != nil {
			log.Printf("failed to index product %s: %v", product.Code, err)
		}
	}

	response := gin.H{"product": product}
	if h.describer != nil {
		description, err := h.describer.DescribeProduct(c.Request.Context(), product.Name, product.IngredientsText)
		if err != nil {
			// Commentary is best-effort; the product payload stands alone.
			log.Printf("failed to describe product %s: %v", product.Code, err)
		} else {
			response["description"] = description
		}
	}

	c.JSON(http.StatusOK, response)
}

func (h *ProductHandler) GetSubstitutes(c *gin.Context) {
	product, err := h.catalog.GetByBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "product lookup failed"})
		return
	}

	substitutes := []models.ProductEmbedding{}
	if h.substitutes != nil {
		substitutes, err = h.substitutes.FindSubstitutes(c.Request.Context(), product, 5)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to find substitutes"})
			return
		}
	}

	response := gin.H{"substitutes": substitutes}
	if h.suggester != nil {
		suggestions, err := h.suggester.SuggestSubstitutes(c.Request.Context(), product.Name, product.Allergens)
		if err != nil {
			log.Printf("failed to suggest substitutes for %s: %v", product.Code, err)
		} else {
			response["suggestions"] = suggestions
		}
	}

	c.JSON(http.StatusOK, response)
}
