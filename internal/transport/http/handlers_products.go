package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
)

// listProducts — админ-листинг каталога, от новых к старым.
func (s *Server) listProducts(c *gin.Context) {
	products, err := s.catalog.List(domain.ProductSortNewestFirst)
	if err != nil {
		s.logger.WithError(err).Error("failed to list products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, toProductListJSON(products))
}

// listShopProducts — витрина, по возрастанию ручного ранга.
func (s *Server) listShopProducts(c *gin.Context) {
	products, err := s.catalog.List(domain.ProductSortByPosition)
	if err != nil {
		s.logger.WithError(err).Error("failed to list shop products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, toProductListJSON(products))
}

func (s *Server) getProduct(c *gin.Context) {
	product, err := s.catalog.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		s.logger.WithError(err).Error("failed to get product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, toProductJSON(product))
}

func (s *Server) createProduct(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := s.catalog.Create(input.toDomain())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toProductJSON(created))
}

func (s *Server) updateProduct(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := input.toDomain()
	product.ID = c.Param("id")

	updated, err := s.catalog.Update(product)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toProductJSON(updated))
}

func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.catalog.Delete(c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		s.logger.WithError(err).Error("failed to delete product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// swapProduct — точечный сдвиг товара на витрине.
func (s *Server) swapProduct(c *gin.Context) {
	var input struct {
		ProductID string `json:"productId"`
		Direction string `json:"direction"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	err := s.catalog.Swap(input.ProductID, catalog.MoveDirection(input.Direction))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Reordered successfully"})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, domain.ErrCannotMove):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot move further"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	}
}

// reindexProducts — канонический полный пересчёт рангов витрины.
func (s *Server) reindexProducts(c *gin.Context) {
	var input struct {
		OrderedIDs []string `json:"orderedIds"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.catalog.Reindex(input.OrderedIDs); err != nil {
		s.logger.WithError(err).Warn("failed to reindex catalog")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to reorder"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.catalog.Categories()
	if err != nil {
		s.logger.WithError(err).Error("failed to list categories")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}
